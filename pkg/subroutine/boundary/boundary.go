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
package boundary

import (
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/leader"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/pasc"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/collection/bit"
	log "github.com/sirupsen/logrus"
)

type state uint8

const (
	// Candidates of every boundary run a contest on their boundary ring.
	stateElect state = iota
	// All particles learn whether some boundary contest was undecided and run
	// the helper election.
	stateSync
	// Boundary leaders notify their predecessors, which become the ends of
	// the boundary chains.
	stateCut
	// PASC along the boundary chains sums up the turns modulo 8.
	statePASC
	// The chain ends send the two lower bits of their sums to the leaders.
	stateSendLow
	// The chain ends send the highest bit of their sums to the leaders.
	stateSendHigh
	// Leaders announce outer boundaries on the ring and inner boundaries on a
	// global circuit.
	stateClassify
	stateDone
)

// Partition set identifiers.  Every occurrence uses four consecutive ids.
const (
	psGlobal0 = 4*MaxOccurrences + iota
	psGlobal1
	psGlobal2
)

// turnBits is the number of bits of the turn sum needed to tell outer from
// inner boundaries.
const turnBits = 3

type occurrence struct {
	Occurrence
	contest leader.Contest
	leader  bit.BoolField
	end     bit.BoolField
	outer   bit.BoolField
	sum     bit.IntField
	pasc    *pasc.PASC
}

// BoundaryTest identifies the boundaries a particle lies on, elects one leader
// per boundary and classifies each boundary as the outer boundary or the
// boundary of a hole.  The turns taken along a boundary sum up to 6 for outer
// and to -6 for inner boundaries, so the sum modulo 8 suffices.  Leaders learn
// the sum via three PASC runs, one per bit of the (modulo 8) turns.
//
// It requires four pins per edge.
type BoundaryTest struct {
	particle    circuit.Particle
	coin        circuit.Coin
	reg         bit.Register
	occurrences []occurrence
	state       bit.EnumField[state]
	// Leader election
	helper leader.Contest
	dirty  bit.BoolField
	reps   bit.IntField
	kappa  bit.IntField
	// PASC runs, one per bit of the turns
	turnBit bit.IntField
	round   bit.IntField
	// Result
	inner    bit.BoolField
	finished bit.BoolField
}

// New constructs a boundary test for the given particle which tosses the
// given coin.
func New(p circuit.Particle, coin circuit.Coin) *BoundaryTest {
	o := &BoundaryTest{particle: p, coin: coin}
	layout := bit.NewLayout(&o.reg)
	o.state = bit.Enum[state](layout, 3)
	o.helper = leader.NewContest(layout)
	o.dirty = layout.Bool()
	o.reps = layout.Int(4)
	o.kappa = layout.Int(4)
	o.turnBit = layout.Int(2)
	o.round = layout.Int(2)
	o.inner = layout.Bool()
	o.finished = layout.Bool()
	//
	for range MaxOccurrences {
		o.occurrences = append(o.occurrences, occurrence{
			contest: leader.NewContest(layout),
			leader:  layout.Bool(),
			end:     layout.Bool(),
			outer:   layout.Bool(),
			sum:     layout.Int(turnBits),
			pasc:    pasc.New(p),
		})
	}
	//
	return o
}

// Init resets the boundary test, determining the boundary occurrences from the
// particle's neighbourhood.  Boundary leaders are elected with kappa
// repetitions.
func (o *BoundaryTest) Init(kappa int) {
	kappa = leader.ClampKappaSC(kappa)
	//
	var occupied [6]bool
	//
	for _, d := range grid.Directions {
		occupied[d] = o.particle.HasNeighborAt(d)
	}
	//
	o.reg.Reset()
	o.kappa.Set(uint32(kappa))
	o.helper.SetCandidate(true)
	//
	found := Occurrences(occupied)
	o.occurrences = o.occurrences[:cap(o.occurrences)]
	//
	for i, occ := range found {
		o.occurrences[i].Occurrence = occ
		//
		if occ.IsTrivial() {
			o.occurrences[i].leader.Set(true)
			o.occurrences[i].outer.Set(true)
		} else {
			o.occurrences[i].contest.SetCandidate(true)
		}
	}
	//
	o.occurrences = o.occurrences[:len(found)]
}

// SetupPC plans the circuits of the current round.
func (o *BoundaryTest) SetupPC(pc circuit.PinConfiguration) {
	k := pc.PinsPerEdge()
	//
	switch o.state.Get() {
	case stateSync:
		circuit.SetToGlobal(pc, psGlobal0, 0)
		circuit.SetToGlobal(pc, psGlobal1, 1)
		circuit.SetToGlobal(pc, psGlobal2, 2)
		//
		return
	case stateClassify:
		pins := make([]circuit.Pin, 0, 12)
		//
		for _, d := range grid.Directions {
			pins = append(pins, circuit.SidePin(d, circuit.CW, 1, k), circuit.SidePin(d, circuit.CCW, 1, k))
		}
		//
		pc.MakePartitionSet(psGlobal0, pins...)
	}
	//
	for i := range o.occurrences {
		occ := &o.occurrences[i]
		if occ.IsTrivial() {
			continue
		}
		//
		ps := 4 * i
		pred0, pred1 := circuit.SidePin(occ.Pred, circuit.CCW, 0, k), circuit.SidePin(occ.Pred, circuit.CCW, 1, k)
		succ0, succ1 := circuit.SidePin(occ.Succ, circuit.CW, 0, k), circuit.SidePin(occ.Succ, circuit.CW, 1, k)
		//
		switch o.state.Get() {
		case stateElect:
			pc.MakePartitionSet(ps, pred0, succ0)
			pc.MakePartitionSet(ps+1, pred1, succ1)
		case stateCut, stateSendLow, stateSendHigh:
			pc.MakePartitionSet(ps, pred0)
			pc.MakePartitionSet(ps+1, pred1)
			pc.MakePartitionSet(ps+2, succ0)
			pc.MakePartitionSet(ps+3, succ1)
		case statePASC:
			occ.pasc.SetupPC(pc)
		case stateClassify:
			pc.MakePartitionSet(ps, pred0, succ0)
		}
	}
}

// ActivateSend emits the beeps of the current round.
func (o *BoundaryTest) ActivateSend() {
	if o.state.Get() == stateSync {
		if o.dirty.Get() {
			o.particle.SendBeepOnPartitionSet(psGlobal0)
		}
		//
		o.helper.Send(o.particle, o.coin, psGlobal1, psGlobal2)
		//
		return
	}
	//
	for i := range o.occurrences {
		occ := &o.occurrences[i]
		if occ.IsTrivial() {
			continue
		}
		//
		ps := 4 * i
		//
		switch o.state.Get() {
		case stateElect:
			occ.contest.Send(o.particle, o.coin, ps, ps+1)
		case stateCut:
			o.beepIf(occ.leader.Get(), ps)
		case statePASC:
			occ.pasc.ActivateSend()
		case stateSendLow:
			o.beepIf(occ.end.Get() && occ.sum.Get()&1 != 0, ps+2)
			o.beepIf(occ.end.Get() && occ.sum.Get()&2 != 0, ps+3)
		case stateSendHigh:
			o.beepIf(occ.end.Get() && occ.sum.Get()&4 != 0, ps+2)
		case stateClassify:
			o.beepIf(occ.leader.Get() && occ.outer.Get(), ps)
			o.beepIf(occ.leader.Get() && !occ.outer.Get(), psGlobal0)
		}
	}
}

// ActivateReceive processes the beeps of the previous round.
func (o *BoundaryTest) ActivateReceive() {
	switch o.state.Get() {
	case stateElect:
		o.receiveElect()
	case stateSync:
		o.receiveSync()
	case stateCut:
		for i := range o.occurrences {
			occ := &o.occurrences[i]
			if !occ.IsTrivial() {
				occ.end.Set(o.heard(4*i + 2))
			}
		}
		//
		o.startPASC()
		o.state.Set(statePASC)
	case statePASC:
		o.receivePASC()
	case stateSendLow, stateSendHigh:
		o.receiveSum()
	case stateClassify:
		o.inner.Set(o.heard(psGlobal0))
		//
		for i := range o.occurrences {
			occ := &o.occurrences[i]
			if !occ.IsTrivial() {
				occ.outer.Set(o.heard(4 * i))
			}
		}
		//
		o.state.Set(stateDone)
		o.finished.Set(true)
	}
}

func (o *BoundaryTest) receiveElect() {
	for i := range o.occurrences {
		occ := &o.occurrences[i]
		if occ.IsTrivial() {
			continue
		}
		//
		heads, tails := occ.contest.Receive(o.particle, 4*i, 4*i+1)
		//
		if heads && tails {
			o.dirty.Set(true)
		}
	}
	//
	o.state.Set(stateSync)
}

func (o *BoundaryTest) receiveSync() {
	dirty := o.heard(psGlobal0)
	heads, tails := o.helper.Receive(o.particle, psGlobal1, psGlobal2)
	o.dirty.Set(false)
	o.state.Set(stateElect)
	//
	switch {
	case dirty:
		o.reps.Set(0)
		o.helper.SetCandidate(true)
	case heads != tails:
		o.reps.Set(o.reps.Get() + 1)
		o.helper.SetCandidate(true)
		//
		if o.reps.Get() < o.kappa.Get() {
			return
		}
		//
		for i := range o.occurrences {
			occ := &o.occurrences[i]
			if !occ.IsTrivial() {
				occ.leader.Set(occ.contest.IsCandidate())
			}
		}
		//
		log.Debugf("boundary leaders elected")
		o.state.Set(stateCut)
	}
}

// startPASC initialises the PASC run for the current bit of the turns.
func (o *BoundaryTest) startPASC() {
	k := o.particle.PinsPerEdge()
	j := o.turnBit.Get()
	//
	for i := range o.occurrences {
		occ := &o.occurrences[i]
		if occ.IsTrivial() {
			continue
		}
		//
		succ := occ.Succ
		if occ.end.Get() {
			succ = grid.None
		}
		//
		turn := uint32(occ.Turn()+8) % 8
		occ.pasc.Init(occ.leader.Get(), occ.Pred, succ, pasc.SidePins(k), 4*i, 4*i+1, turn&(1<<j) != 0)
	}
}

func (o *BoundaryTest) receivePASC() {
	j, r := o.turnBit.Get(), o.round.Get()
	//
	for i := range o.occurrences {
		occ := &o.occurrences[i]
		if occ.IsTrivial() {
			continue
		}
		//
		occ.pasc.ActivateReceive()
		//
		if occ.end.Get() && occ.pasc.GetReceivedBit() {
			occ.sum.Set((occ.sum.Get() + 1<<(j+r)) % (1 << turnBits))
		}
	}
	// Bit j of the count only matters for the lowest turnBits - j bits
	r++
	if j+r < turnBits {
		o.round.Set(r)
		return
	}
	//
	o.round.Set(0)
	o.turnBit.Set(j + 1)
	//
	if j+1 < turnBits {
		o.startPASC()
	} else {
		o.state.Set(stateSendLow)
	}
}

func (o *BoundaryTest) receiveSum() {
	high := o.state.Get() == stateSendHigh
	//
	for i := range o.occurrences {
		occ := &o.occurrences[i]
		if occ.IsTrivial() || !occ.leader.Get() {
			continue
		}
		//
		sum := occ.sum.Get()
		//
		if high {
			if o.heard(4 * i) {
				sum |= 4
			}
			// Add the leader's own turn
			sum = (sum + uint32(occ.Turn()+8)) % 8
			occ.outer.Set(sum&4 != 0)
		} else {
			sum = 0
			//
			if o.heard(4 * i) {
				sum |= 1
			}
			//
			if o.heard(4*i + 1) {
				sum |= 2
			}
		}
		//
		occ.sum.Set(sum)
	}
	//
	if high {
		o.state.Set(stateClassify)
	} else {
		o.state.Set(stateSendHigh)
	}
}

func (o *BoundaryTest) beepIf(cond bool, id int) {
	if cond {
		o.particle.SendBeepOnPartitionSet(id)
	}
}

func (o *BoundaryTest) heard(id int) bool {
	return o.particle.ReceivedBeepOnPartitionSet(id)
}

// IsFinished determines whether the test has terminated.
func (o *BoundaryTest) IsFinished() bool {
	return o.finished.Get()
}

// NumBoundaries returns the number of boundary occurrences of this particle.
func (o *BoundaryTest) NumBoundaries() int {
	return len(o.occurrences)
}

// Occurrence returns the iᵗʰ boundary occurrence of this particle.
func (o *BoundaryTest) Occurrence(i int) Occurrence {
	return o.occurrences[i].Occurrence
}

// IsLeader determines whether this particle leads its iᵗʰ boundary.
func (o *BoundaryTest) IsLeader(i int) bool {
	return o.occurrences[i].leader.Get()
}

// IsOuter determines whether the iᵗʰ boundary of this particle is the outer
// boundary.
func (o *BoundaryTest) IsOuter(i int) bool {
	return o.occurrences[i].outer.Get()
}

// InnerBoundaryExists determines whether the system has a hole.
func (o *BoundaryTest) InnerBoundaryExists() bool {
	return o.inner.Get()
}
