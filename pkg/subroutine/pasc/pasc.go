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

// Pins holds the raw pin offsets a chain element uses on its predecessor and
// successor edges.  The successor pins of one element must touch the
// predecessor pins of the next element.
type Pins struct {
	PredPrimary, PredSecondary int
	SuccPrimary, SuccSecondary int
}

// ChainPins returns pins implementing lanes 0 (primary) and 1 (secondary) on
// the given edges, which suits chains where every edge is used by at most one
// chain.
func ChainPins(pred, succ grid.Direction, pinsPerEdge int) Pins {
	return Pins{
		circuit.LaneOffset(pred, 0, pinsPerEdge), circuit.LaneOffset(pred, 1, pinsPerEdge),
		circuit.LaneOffset(succ, 0, pinsPerEdge), circuit.LaneOffset(succ, 1, pinsPerEdge),
	}
}

// SidePins returns pins for chains walking around faces: the predecessor edge
// uses the counter-clockwise side, the successor edge the clockwise side, each
// with lane 0 as primary and lane 1 as secondary.
func SidePins(pinsPerEdge int) Pins {
	return Pins{
		circuit.SideOffset(circuit.CCW, 0, pinsPerEdge), circuit.SideOffset(circuit.CCW, 1, pinsPerEdge),
		circuit.SideOffset(circuit.CW, 0, pinsPerEdge), circuit.SideOffset(circuit.CW, 1, pinsPerEdge),
	}
}

// PASC runs the parallel-and-serial-comparison procedure on a directed chain.
// Each round the leader (chain start) beeps into two circuits which every
// active particle crosses over.  A particle receives a 1 bit if the beep
// reaches it on the secondary circuit; after the i-th round it has received
// the i-th bit (least significant first) of the number of initially active
// non-leader particles up to and including itself.  With all particles active
// this is its distance from the leader.  Active particles receiving a 1 become
// passive, so eventually only the leader remains active.
//
// The procedure has no round counter; callers decide when to stop, typically
// once no particle became passive in a round.
type PASC struct {
	particle    circuit.Particle
	leader      bool
	pred, succ  grid.Direction
	pins        Pins
	psPrimary   int
	psSecondary int
	// dynamic state
	active        bool
	becamePassive bool
	bit           bool
}

// New constructs an uninitialised PASC instance for the given particle.
func New(p circuit.Particle) *PASC {
	return &PASC{particle: p, pred: grid.None, succ: grid.None}
}

// Init resets this instance.  The predecessor (successor) direction is None
// for the first (last) element of the chain; the leader has no predecessor.
// The two partition set ids must not be used by anything else in the same
// rounds.
func (s *PASC) Init(leader bool, pred, succ grid.Direction, pins Pins, psPrimary, psSecondary int,
	startActive bool) {
	s.leader = leader
	s.pred = pred
	s.succ = succ
	s.pins = pins
	s.psPrimary = psPrimary
	s.psSecondary = psSecondary
	s.active = startActive
	s.becamePassive = false
	s.bit = false
	//
	if leader {
		s.pred = grid.None
	}
}

// SetupPC places this element's pins into its two partition sets.  Active
// non-leader elements cross the primary and secondary circuits.
func (s *PASC) SetupPC(pc circuit.PinConfiguration) {
	var primary, secondary []circuit.Pin
	//
	if s.pred != grid.None {
		predPrimary := circuit.Pin{Dir: s.pred, Offset: s.pins.PredPrimary}
		predSecondary := circuit.Pin{Dir: s.pred, Offset: s.pins.PredSecondary}
		//
		if s.crossing() {
			primary = append(primary, predSecondary)
			secondary = append(secondary, predPrimary)
		} else {
			primary = append(primary, predPrimary)
			secondary = append(secondary, predSecondary)
		}
	}
	//
	if s.succ != grid.None {
		primary = append(primary, circuit.Pin{Dir: s.succ, Offset: s.pins.SuccPrimary})
		secondary = append(secondary, circuit.Pin{Dir: s.succ, Offset: s.pins.SuccSecondary})
	}
	//
	pc.MakePartitionSet(s.psPrimary, primary...)
	pc.MakePartitionSet(s.psSecondary, secondary...)
}

// ActivateSend lets the leader beep on the primary circuit.
func (s *PASC) ActivateSend() {
	if s.leader {
		s.particle.SendBeepOnPartitionSet(s.psPrimary)
	}
}

// ActivateReceive reads the bit of this round and updates the activity state.
// Exactly one of the two circuits must carry a beep.
func (s *PASC) ActivateReceive() {
	primary := s.particle.ReceivedBeepOnPartitionSet(s.psPrimary)
	secondary := s.particle.ReceivedBeepOnPartitionSet(s.psSecondary)
	s.becamePassive = false
	//
	if primary == secondary {
		log.Errorf("PASC received beeps on %s, expected exactly one circuit", describe(primary, secondary))
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

// SetupCutoffCircuit plans the cutoff circuit: active non-leader elements
// disconnect from their predecessor, every other element connects both of its
// sides.  Both circuits are merged into the primary partition set.
func (s *PASC) SetupCutoffCircuit(pc circuit.PinConfiguration) {
	var pins []circuit.Pin
	//
	if s.pred != grid.None && !s.crossing() {
		pins = append(pins, circuit.Pin{Dir: s.pred, Offset: s.pins.PredPrimary},
			circuit.Pin{Dir: s.pred, Offset: s.pins.PredSecondary})
	}
	//
	if s.succ != grid.None {
		pins = append(pins, circuit.Pin{Dir: s.succ, Offset: s.pins.SuccPrimary},
			circuit.Pin{Dir: s.succ, Offset: s.pins.SuccSecondary})
	}
	//
	pc.MakePartitionSet(s.psPrimary, pins...)
	pc.MakePartitionSet(s.psSecondary)
}

// SendCutoffBeep lets active non-leader elements beep towards their
// successors.
func (s *PASC) SendCutoffBeep() {
	if s.crossing() {
		s.particle.SendBeepOnPartitionSet(s.psPrimary)
	}
}

// ReceiveCutoffBeep determines whether this element lies at or behind the
// first active non-leader element.  After i rounds of PASC this holds exactly
// for elements whose count is at least 2^i.
func (s *PASC) ReceiveCutoffBeep() bool {
	return s.particle.ReceivedBeepOnPartitionSet(s.psPrimary)
}

// IsLeader determines whether this element starts the chain.
func (s *PASC) IsLeader() bool {
	return s.leader
}

// IsActive determines whether this element is still active.
func (s *PASC) IsActive() bool {
	return s.active
}

// BecamePassive determines whether this element became passive in the last
// round.
func (s *PASC) BecamePassive() bool {
	return s.becamePassive
}

// GetReceivedBit returns the bit received in the last round.
func (s *PASC) GetReceivedBit() bool {
	return s.bit
}

func (s *PASC) crossing() bool {
	return s.active && !s.leader
}

func describe(primary, secondary bool) string {
	if primary {
		return "both circuits"
	}
	//
	return "neither circuit"
}
