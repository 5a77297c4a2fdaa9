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
package containment

import (
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/collection/bit"
)

// Link places a particle on the counter chain of a search.  Every counter of a
// search (side lengths, scale factors and the values derived from them) is
// stored one bit per chain element, least significant bit at the chain start.
// Particles off the chain hold no counter bits.
type Link struct {
	Member     bool
	Pred, Succ grid.Direction
}

// Unlinked is the link of a particle off the counter chain.
var Unlinked = Link{false, grid.None, grid.None}

// NewLink returns the link of a chain element with the given neighbours, either
// of which is grid.None at the chain ends.
func NewLink(pred, succ grid.Direction) Link {
	return Link{true, pred, succ}
}

// IsStart determines whether this element holds the least significant bits.
func (l Link) IsStart() bool {
	return l.Member && l.Pred == grid.None
}

// IsEnd determines whether this element holds the most significant bits.
func (l Link) IsEnd() bool {
	return l.Member && l.Succ == grid.None
}

// split places a lane on the predecessor edge and on the successor edge into
// two separate partition sets.
func (l Link) split(pc circuit.PinConfiguration, predID, succID int, lane int) {
	k := pc.PinsPerEdge()
	pc.MakePartitionSet(predID, edgePins(l.Pred, k, lane)...)
	pc.MakePartitionSet(succID, edgePins(l.Succ, k, lane)...)
}

// connect places a lane on both chain edges into one partition set.
func (l Link) connect(pc circuit.PinConfiguration, id int, lane int) {
	k := pc.PinsPerEdge()
	pc.MakePartitionSet(id, append(edgePins(l.Pred, k, lane), edgePins(l.Succ, k, lane)...)...)
}

func edgePins(d grid.Direction, k int, lane int) []circuit.Pin {
	if !d.IsValid() {
		return nil
	}
	//
	return []circuit.Pin{circuit.LanePin(d, lane, k)}
}

// Partition sets of a counter stream.
const (
	psTokenIn = iota
	psTokenOut
	psStreamLast
	psStreamBit
)

// stream transmits a counter to every particle of the system, one bit per
// round starting with the least significant one.  A token walks along the
// chain; its holder beeps its bit on one global circuit and, at the chain end,
// the end of the counter on a second one.  The token moves on lane 0 of the
// chain edges, the global circuits occupy lanes 2 and 3.
type stream struct {
	particle circuit.Particle
	link     Link
	token    bool
	bit      bool
	last     bool
}

func (s *stream) init(link Link) {
	s.link = link
	s.token = link.IsStart()
	s.bit = false
	s.last = false
}

func (s *stream) setupPC(pc circuit.PinConfiguration) {
	if s.link.Member {
		s.link.split(pc, psTokenIn, psTokenOut, 0)
	}
	//
	circuit.SetToGlobal(pc, psStreamLast, 2)
	circuit.SetToGlobal(pc, psStreamBit, 3)
}

// send beeps the given bit if this element holds the token.
func (s *stream) send(value bool) {
	if !s.token {
		return
	}
	//
	s.particle.SendBeepOnPartitionSet(psTokenOut)
	//
	if value {
		s.particle.SendBeepOnPartitionSet(psStreamBit)
	}
	//
	if s.link.IsEnd() {
		s.particle.SendBeepOnPartitionSet(psStreamLast)
	}
}

func (s *stream) receive() {
	s.bit = s.particle.ReceivedBeepOnPartitionSet(psStreamBit)
	s.last = s.particle.ReceivedBeepOnPartitionSet(psStreamLast)
	s.token = s.link.Member && s.particle.ReceivedBeepOnPartitionSet(psTokenIn)
}

// Chain is the host's view of a counter chain laid out along a line of the
// grid.  It determines the links of the chain elements and distributes the
// bits of initial counter values.
type Chain struct {
	start grid.Pos
	dir   grid.Direction
	n     uint
}

// NewChain lays out a chain of n elements starting at the given node and
// running in direction dir.
func NewChain(start grid.Pos, dir grid.Direction, n uint) Chain {
	return Chain{start, dir, n}
}

// Len returns the number of chain elements, which is the width of all
// counters.
func (c Chain) Len() uint {
	return c.n
}

// index returns the position of a node within the chain.
func (c Chain) index(p grid.Pos) (uint, bool) {
	for i := range c.n {
		if c.start.Step(c.dir, int(i)) == p {
			return i, true
		}
	}
	//
	return 0, false
}

// Link returns the link of the particle at the given node.
func (c Chain) Link(p grid.Pos) Link {
	i, ok := c.index(p)
	//
	switch {
	case !ok:
		return Unlinked
	case c.n == 1:
		return NewLink(grid.None, grid.None)
	case i == 0:
		return NewLink(grid.None, c.dir)
	case i == c.n-1:
		return NewLink(c.dir.Opposite(), grid.None)
	}
	//
	return NewLink(c.dir.Opposite(), c.dir)
}

// Bit returns the bit of a counter value stored at the given node.
func (c Chain) Bit(p grid.Pos, value uint) bool {
	i, ok := c.index(p)
	//
	return ok && bit.Test(value, i)
}
