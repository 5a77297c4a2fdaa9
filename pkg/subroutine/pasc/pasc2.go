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
package pasc

import (
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	log "github.com/sirupsen/logrus"
)

// Role describes how an edge takes part in a PASC2 structure.
type Role uint8

const (
	// NoRole edges are not part of the structure.
	NoRole Role = iota
	// Predecessor edges lead towards the leader.
	Predecessor
	// Successor edges lead away from the leader.
	Successor
	// Neighbor edges join elements of equal rank (e.g. the particles of one
	// stripe column).
	Neighbor
)

// Roles assigns a role to every direction.
type Roles [6]Role

// ChainRoles returns the roles of a simple chain element.
func ChainRoles(pred, succ grid.Direction) Roles {
	var roles Roles
	//
	if pred.IsValid() {
		roles[pred] = Predecessor
	}
	//
	if succ.IsValid() {
		roles[succ] = Successor
	}
	//
	return roles
}

// PASC2 is the PASC procedure generalised from chains to structures where an
// element may have several predecessors and successors (trees, stripes) and
// neighbours of the same rank.  All edges use the same two lanes, so the pin
// offsets are mirrored on edges pointing west-wards.  Neighbour edges join the
// predecessor side of both elements; neighbours must therefore hold the same
// rank, which is the case for the columns of a stripe.
type PASC2 struct {
	particle    circuit.Particle
	leader      bool
	roles       Roles
	primary     int
	secondary   int
	psPrimary   int
	psSecondary int
	// dynamic state
	active        bool
	becamePassive bool
	bit           bool
}

// New2 constructs an uninitialised PASC2 instance.
func New2(p circuit.Particle) *PASC2 {
	return &PASC2{particle: p}
}

// Init resets this instance.  Leaders ignore any predecessor roles.
func (s *PASC2) Init(leader bool, roles Roles, primaryLane, secondaryLane int, psPrimary, psSecondary int,
	startActive bool) {
	s.leader = leader
	s.roles = roles
	s.primary = primaryLane
	s.secondary = secondaryLane
	s.psPrimary = psPrimary
	s.psSecondary = psSecondary
	s.active = startActive
	s.becamePassive = false
	s.bit = false
	//
	if leader {
		for d, r := range s.roles {
			if r == Predecessor {
				s.roles[d] = NoRole
			}
		}
	}
}

// SetupPC places the pins of all edges into the two partition sets; active
// non-leaders cross the circuits between their incoming and outgoing sides.
func (s *PASC2) SetupPC(pc circuit.PinConfiguration) {
	k := pc.PinsPerEdge()
	primary, secondary := make([]circuit.Pin, 0, 6), make([]circuit.Pin, 0, 6)
	//
	for _, d := range grid.Directions {
		lanePrimary := circuit.LanePin(d, s.primary, k)
		laneSecondary := circuit.LanePin(d, s.secondary, k)
		//
		switch s.roles[d] {
		case Predecessor, Neighbor:
			if s.crossing() {
				lanePrimary, laneSecondary = laneSecondary, lanePrimary
			}
			//
			fallthrough
		case Successor:
			primary = append(primary, lanePrimary)
			secondary = append(secondary, laneSecondary)
		}
	}
	//
	pc.MakePartitionSet(s.psPrimary, primary...)
	pc.MakePartitionSet(s.psSecondary, secondary...)
}

// ActivateSend lets leaders beep on the primary circuit.
func (s *PASC2) ActivateSend() {
	if s.leader {
		s.particle.SendBeepOnPartitionSet(s.psPrimary)
	}
}

// ActivateReceive reads the bit of this round.
func (s *PASC2) ActivateReceive() {
	primary := s.particle.ReceivedBeepOnPartitionSet(s.psPrimary)
	secondary := s.particle.ReceivedBeepOnPartitionSet(s.psSecondary)
	s.becamePassive = false
	//
	if primary == secondary {
		log.Errorf("PASC2 received beeps on %s, expected exactly one circuit", describe(primary, secondary))
		s.bit = false
		//
		return
	}
	//
	s.bit = secondary
	//
	if secondary && s.active {
		s.active = false
		s.becamePassive = true
	}
}

// SetupCutoffCircuit plans the cutoff circuit, see PASC.SetupCutoffCircuit.
// Active non-leaders keep their neighbour edges, since neighbours are active
// as well.
func (s *PASC2) SetupCutoffCircuit(pc circuit.PinConfiguration) {
	k := pc.PinsPerEdge()
	pins := make([]circuit.Pin, 0, 12)
	//
	for _, d := range grid.Directions {
		role := s.roles[d]
		if role == NoRole || (role == Predecessor && s.crossing()) {
			continue
		}
		//
		pins = append(pins, circuit.LanePin(d, s.primary, k), circuit.LanePin(d, s.secondary, k))
	}
	//
	pc.MakePartitionSet(s.psPrimary, pins...)
	pc.MakePartitionSet(s.psSecondary)
}

// SendCutoffBeep lets active non-leaders beep.
func (s *PASC2) SendCutoffBeep() {
	if s.crossing() {
		s.particle.SendBeepOnPartitionSet(s.psPrimary)
	}
}

// ReceiveCutoffBeep determines whether this element lies at or behind an
// active non-leader.
func (s *PASC2) ReceiveCutoffBeep() bool {
	return s.particle.ReceivedBeepOnPartitionSet(s.psPrimary)
}

// IsLeader determines whether this element is a leader.
func (s *PASC2) IsLeader() bool {
	return s.leader
}

// IsActive determines whether this element is still active.
func (s *PASC2) IsActive() bool {
	return s.active
}

// BecamePassive determines whether this element became passive in the last
// round.
func (s *PASC2) BecamePassive() bool {
	return s.becamePassive
}

// GetReceivedBit returns the bit received in the last round.
func (s *PASC2) GetReceivedBit() bool {
	return s.bit
}

func (s *PASC2) crossing() bool {
	return s.active && !s.leader
}
