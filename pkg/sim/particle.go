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
package sim

import (
	"math/rand/v2"

	"github.com/bits-and-blooms/bitset"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
)

// Particle is one amoebot of a System.  It implements the local view
// (circuit.Particle) that subroutines are given.
type Particle struct {
	system *System
	id     int
	pos    grid.Pos
	coin   *coin
	algo   Algorithm
	// configuration committed for the current round
	current *PinConfig
	// configuration being planned
	planned *PinConfig
	// partition sets beeped on this round
	beeped bitset.BitSet
	// partition sets whose circuit carried a beep last round
	heard bitset.BitSet
}

// ID returns the index of this particle within its system.
func (p *Particle) ID() int {
	return p.id
}

// Pos returns the grid node occupied by this particle.
func (p *Particle) Pos() grid.Pos {
	return p.pos
}

// Algorithm returns the algorithm bound to this particle (if any).
func (p *Particle) Algorithm() Algorithm {
	return p.algo
}

// Coin returns this particle's private source of coin tosses.
func (p *Particle) Coin() circuit.Coin {
	return p.coin
}

// Neighbour returns the particle in the given direction, or nil.
func (p *Particle) Neighbour(d grid.Direction) *Particle {
	if !d.IsValid() {
		return nil
	}
	//
	return p.system.At(p.pos.Neighbour(d))
}

// HasNeighborAt determines whether there is a particle in the given direction.
func (p *Particle) HasNeighborAt(d grid.Direction) bool {
	return p.Neighbour(d) != nil
}

// PinsPerEdge returns the number of pins on each edge.
func (p *Particle) PinsPerEdge() int {
	return p.system.pinsPerEdge
}

// SendBeepOnPartitionSet emits a beep on a partition set of the committed
// configuration.  This panics outside of the send phase.
func (p *Particle) SendBeepOnPartitionSet(id int) {
	if p.system.phase != phaseSend || p.current == nil {
		panic("cannot send beep: pin configuration has not been planned and committed")
	}
	//
	p.current.declare(id)
	p.beeped.Set(uint(id))
}

// ReceivedBeepOnPartitionSet determines whether the circuit of a partition set
// of the previous round carried a beep.  This panics outside of the receive
// phase, and once the beeps of the previous round have been consumed.
func (p *Particle) ReceivedBeepOnPartitionSet(id int) bool {
	if p.system.phase != phaseReceive {
		panic("cannot receive beeps outside of the receive phase")
	} else if p.current == nil {
		panic("cannot receive beeps: no pin configuration was committed since the last receive phase")
	}
	//
	checkPartitionSet(id)
	//
	return p.heard.Test(uint(id))
}

type coin struct {
	rng *rand.Rand
}

func (c *coin) Toss() bool {
	return c.rng.IntN(2) == 1
}
