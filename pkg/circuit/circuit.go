// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package circuit

import (
	"fmt"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
)

// Pin identifies one connection pin of a particle: the edge it lies on and its
// offset on that edge.  Offsets are numbered counter-clockwise around the
// particle, so pin (d, o) touches pin (d.Opposite(), k-1-o) of the neighbour
// in direction d, where k is the number of pins per edge.
type Pin struct {
	Dir    grid.Direction
	Offset int
}

func (p Pin) String() string {
	return fmt.Sprintf("%s.%d", p.Dir, p.Offset)
}

// Particle is the local view a subroutine has of the particle executing it.
// Beeps may only be sent while the host is in its send phase, and received
// beeps may only be read while the host is in its receive phase.
type Particle interface {
	// HasNeighborAt determines whether there is a particle in the given
	// direction.
	HasNeighborAt(d grid.Direction) bool
	// PinsPerEdge returns the (constant) number of pins on each edge.
	PinsPerEdge() int
	// SendBeepOnPartitionSet emits a beep on the given partition set of the
	// configuration committed this round.
	SendBeepOnPartitionSet(id int)
	// ReceivedBeepOnPartitionSet determines whether the circuit containing the
	// given partition set of the previous round's configuration carried a
	// beep.
	ReceivedBeepOnPartitionSet(id int) bool
}

// PinConfiguration is the planned (not yet committed) pin configuration of a
// particle for the next round.  Every pin belongs to at most one partition
// set; pins not placed in any partition set are left unconnected.
type PinConfiguration interface {
	// PinsPerEdge returns the number of pins on each edge.
	PinsPerEdge() int
	// MakePartitionSet replaces the contents of the given partition set with
	// the given pins, removing them from any set they were in before.
	MakePartitionSet(id int, pins ...Pin)
	// AddPin moves a single pin into the given partition set.
	AddPin(id int, pin Pin)
}

// Coin is a source of fair coin tosses private to one particle.
type Coin interface {
	// Toss returns true for heads.
	Toss() bool
}

// LaneOffset returns the pin offset implementing the given lane on the edge in
// direction d.  Lanes are continuous across edges: lane l of a particle is
// connected to lane l of every neighbour.
func LaneOffset(d grid.Direction, lane int, pinsPerEdge int) int {
	if d < grid.W {
		return lane
	}
	//
	return pinsPerEdge - 1 - lane
}

// LanePin returns the pin implementing a lane on the edge in direction d.
func LanePin(d grid.Direction, lane int, pinsPerEdge int) Pin {
	return Pin{d, LaneOffset(d, lane, pinsPerEdge)}
}

// Side selects one half of the pins of an edge.  The clockwise half of an edge
// in direction d is the counter-clockwise half of the same edge as seen from
// the neighbour, so circuits walking around faces use opposite sides on their
// incoming and outgoing edges.
type Side uint8

const (
	// CW selects the pins towards the clockwise end of an edge.
	CW Side = iota
	// CCW selects the pins towards the counter-clockwise end of an edge.
	CCW
)

// SideOffset returns the offset of lane l within the given side.  Lane l on the
// clockwise side of one particle touches lane l on the counter-clockwise side of
// the neighbour.
func SideOffset(side Side, lane int, pinsPerEdge int) int {
	if side == CW {
		return lane
	}
	//
	return pinsPerEdge - 1 - lane
}

// SidePin returns the pin of lane l within the given side of an edge.
func SidePin(d grid.Direction, side Side, lane int, pinsPerEdge int) Pin {
	return Pin{d, SideOffset(side, lane, pinsPerEdge)}
}

// SetToGlobal places the given lane on every edge into one partition set.  If
// all particles do this, the lane forms a single system-wide circuit.
func SetToGlobal(pc PinConfiguration, id int, lane int) {
	var inverted [6]bool
	// Lanes run backwards on the western half of the edges
	for _, d := range grid.Directions {
		inverted[d] = d >= grid.W
	}
	//
	SetStarConfig(pc, id, lane, inverted)
}

// SetStarConfig joins the given offsets on every edge into one partition set.
// Offsets are inverted on edges for which inverted is true.
func SetStarConfig(pc PinConfiguration, id int, offset int, inverted [6]bool) {
	k := pc.PinsPerEdge()
	pins := make([]Pin, 0, len(grid.Directions))
	//
	for _, d := range grid.Directions {
		if inverted[d] {
			pins = append(pins, Pin{d, k - 1 - offset})
		} else {
			pins = append(pins, Pin{d, offset})
		}
	}
	//
	pc.MakePartitionSet(id, pins...)
}

// Result is the outcome of comparing two numbers.
type Result uint8

const (
	// Undecided means no comparison has been made (yet).
	Undecided Result = iota
	// Equal means both numbers are equal.
	Equal
	// Less means the first number is smaller than the second.
	Less
	// Greater means the first number is larger than the second.
	Greater
)

// Observe updates a comparison of two numbers streamed least significant bit
// first with their next pair of bits.  Differing bits override whatever the
// less significant bits decided.
func (r Result) Observe(a, b bool) Result {
	switch {
	case a && !b:
		return Greater
	case !a && b:
		return Less
	case r == Undecided:
		return Equal
	}
	//
	return r
}

func (r Result) String() string {
	switch r {
	case Equal:
		return "EQUAL"
	case Less:
		return "LESS"
	case Greater:
		return "GREATER"
	}
	//
	return "NONE"
}
