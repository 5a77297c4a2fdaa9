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
package segshift

import (
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/pasc"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/collection/bit"
)

type state uint8

const (
	// Elements learn whether their predecessor is marked and whether some
	// marked element precedes them.
	statePrepare state = iota
	// The next bit of the distance is broadcast along the chain.
	stateStream
	// Two PASC runs measure the distances from the segment start and from the
	// gap behind the segment.
	statePASC
	// Elements too far away from either start are cut off.
	stateCutoff
	stateDone
)

// Partition set identifiers.
const (
	psIn = iota
	psOut
	psMarkIn
	psMarkOut
)

// Partition sets of the distance stream.
const (
	psTokenIn = iota
	psTokenOut
	psBit
	psLast
)

// Partition sets of the two PASC runs.
const (
	psS = 0
	psG = 2
)

// SegmentShift moves a marked segment of a chain a given number of elements
// towards the chain end.  Marked elements which would leave the chain are
// dropped.  The distance is a binary counter on the same chain, least
// significant bit at the chain start.  It is compared with the distances from
// the segment start s and from the gap start g (the first unmarked element
// after the segment), which two PASC runs on separate lanes measure
// simultaneously.  Before each PASC round a token walking along the chain
// broadcasts the next bit of the distance.  An element at position i is marked
// afterwards iff i-s >= distance and, if i is behind the gap start,
// i-g < distance.
//
// It requires four pins per edge.
type SegmentShift struct {
	particle   circuit.Particle
	reg        bit.Register
	state      bit.EnumField[state]
	pred, succ grid.DirectionField
	marked     bit.BoolField
	predMarked bit.BoolField
	afterS     bit.BoolField
	afterG     bit.BoolField
	distance   bit.BoolField
	token      bit.BoolField
	streamed   bit.BoolField
	last       bit.BoolField
	compareS   bit.EnumField[circuit.Result]
	compareG   bit.EnumField[circuit.Result]
	finished   bit.BoolField
	pascS      *pasc.PASC
	pascG      *pasc.PASC
}

// New constructs a segment shift for the given particle.
func New(p circuit.Particle) *SegmentShift {
	o := &SegmentShift{particle: p, pascS: pasc.New(p), pascG: pasc.New(p)}
	layout := bit.NewLayout(&o.reg)
	o.state = bit.Enum[state](layout, 3)
	o.pred = grid.NewDirectionField(layout)
	o.succ = grid.NewDirectionField(layout)
	o.marked = layout.Bool()
	o.predMarked = layout.Bool()
	o.afterS = layout.Bool()
	o.afterG = layout.Bool()
	o.distance = layout.Bool()
	o.token = layout.Bool()
	o.streamed = layout.Bool()
	o.last = layout.Bool()
	o.compareS = bit.Enum[circuit.Result](layout, 2)
	o.compareG = bit.Enum[circuit.Result](layout, 2)
	o.finished = layout.Bool()
	//
	return o
}

// Init resets the shift for this element's bit of the distance.  The marked
// elements must form a single contiguous segment of the chain.
func (o *SegmentShift) Init(marked bool, pred, succ grid.Direction, distance bool) {
	o.reg.Reset()
	o.pred.Set(pred)
	o.succ.Set(succ)
	o.marked.Set(marked)
	o.distance.Set(distance)
	o.token.Set(pred == grid.None)
}

// SetupPC plans the circuits of the current round.
func (o *SegmentShift) SetupPC(pc circuit.PinConfiguration) {
	k := pc.PinsPerEdge()
	pred, succ := o.pred.Get(), o.succ.Get()
	//
	switch o.state.Get() {
	case statePrepare:
		// Marked elements cut lane 0 and beep towards the chain end
		if o.marked.Get() {
			pc.MakePartitionSet(psIn, lanePins(pred, k, 0)...)
			pc.MakePartitionSet(psOut, lanePins(succ, k, 0)...)
		} else {
			pc.MakePartitionSet(psIn, append(lanePins(pred, k, 0), lanePins(succ, k, 0)...)...)
		}
		//
		pc.MakePartitionSet(psMarkIn, lanePins(pred, k, 1)...)
		pc.MakePartitionSet(psMarkOut, lanePins(succ, k, 1)...)
	case stateStream:
		pc.MakePartitionSet(psTokenIn, lanePins(pred, k, 0)...)
		pc.MakePartitionSet(psTokenOut, lanePins(succ, k, 0)...)
		pc.MakePartitionSet(psBit, append(lanePins(pred, k, 1), lanePins(succ, k, 1)...)...)
		pc.MakePartitionSet(psLast, append(lanePins(pred, k, 2), lanePins(succ, k, 2)...)...)
	case statePASC:
		o.forEachRun(func(s *pasc.PASC) { s.SetupPC(pc) })
	case stateCutoff:
		o.forEachRun(func(s *pasc.PASC) { s.SetupCutoffCircuit(pc) })
	}
}

// ActivateSend emits the beeps of the current round.
func (o *SegmentShift) ActivateSend() {
	switch o.state.Get() {
	case statePrepare:
		if o.marked.Get() {
			o.particle.SendBeepOnPartitionSet(psOut)
			o.particle.SendBeepOnPartitionSet(psMarkOut)
		}
	case stateStream:
		if o.token.Get() {
			o.particle.SendBeepOnPartitionSet(psTokenOut)
			o.beepIf(o.distance.Get(), psBit)
			o.beepIf(o.succ.Get() == grid.None, psLast)
		}
	case statePASC:
		o.forEachRun(func(s *pasc.PASC) { s.ActivateSend() })
	case stateCutoff:
		o.forEachRun(func(s *pasc.PASC) { s.SendCutoffBeep() })
	}
}

// ActivateReceive processes the beeps of the previous round.
func (o *SegmentShift) ActivateReceive() {
	switch o.state.Get() {
	case statePrepare:
		o.receivePrepare()
	case stateStream:
		o.streamed.Set(o.particle.ReceivedBeepOnPartitionSet(psBit))
		o.last.Set(o.particle.ReceivedBeepOnPartitionSet(psLast))
		o.token.Set(o.particle.ReceivedBeepOnPartitionSet(psTokenIn))
		o.state.Set(statePASC)
	case statePASC:
		o.forEachRun(func(s *pasc.PASC) { s.ActivateReceive() })
		//
		d := o.streamed.Get()
		//
		if o.afterS.Get() {
			o.compareS.Set(o.compareS.Get().Observe(o.pascS.GetReceivedBit(), d))
		}
		//
		if o.afterG.Get() {
			o.compareG.Set(o.compareG.Get().Observe(o.pascG.GetReceivedBit(), d))
		}
		//
		if o.last.Get() {
			o.state.Set(stateCutoff)
		} else {
			o.state.Set(stateStream)
		}
	case stateCutoff:
		if o.afterS.Get() && o.pascS.ReceiveCutoffBeep() {
			o.compareS.Set(circuit.Greater)
		}
		//
		if o.afterG.Get() && o.pascG.ReceiveCutoffBeep() {
			o.compareG.Set(circuit.Greater)
		}
		//
		farFromS := o.afterS.Get() && o.compareS.Get() != circuit.Less
		closeToG := !o.afterG.Get() || o.compareG.Get() == circuit.Less
		o.marked.Set(farFromS && closeToG)
		o.state.Set(stateDone)
		o.finished.Set(true)
	}
}

func (o *SegmentShift) receivePrepare() {
	var (
		marked     = o.marked.Get()
		heard      = o.particle.ReceivedBeepOnPartitionSet(psIn)
		predMarked = o.particle.ReceivedBeepOnPartitionSet(psMarkIn)
		pred, succ = o.pred.Get(), o.succ.Get()
		k          = o.particle.PinsPerEdge()
	)
	//
	o.predMarked.Set(predMarked)
	o.afterS.Set(marked || heard)
	o.afterG.Set(!marked && heard)
	// The segment start leads the first run, the gap start the second.
	// Elements in front of a start do not take part.
	startS, startG := marked && !predMarked, !marked && predMarked
	o.pascS.Init(startS, pred, succ, lanes(pred, succ, k, 0), psS, psS+1, true)
	o.pascG.Init(startG, pred, succ, lanes(pred, succ, k, 2), psG, psG+1, true)
	//
	o.state.Set(stateStream)
}

// IsFinished determines whether the shift has terminated.
func (o *SegmentShift) IsFinished() bool {
	return o.finished.Get()
}

// IsMarked determines whether this element is marked.  Once the shift has
// finished this reflects the shifted segment.
func (o *SegmentShift) IsMarked() bool {
	return o.marked.Get()
}

// forEachRun applies a function to the PASC runs this element takes part in.
func (o *SegmentShift) forEachRun(fn func(s *pasc.PASC)) {
	if o.afterS.Get() {
		fn(o.pascS)
	}
	//
	if o.afterG.Get() {
		fn(o.pascG)
	}
}

// lanes returns PASC pins on two consecutive lanes starting at the given one.
func lanes(pred, succ grid.Direction, k int, first int) pasc.Pins {
	return pasc.Pins{
		PredPrimary:   circuit.LaneOffset(pred, first, k),
		PredSecondary: circuit.LaneOffset(pred, first+1, k),
		SuccPrimary:   circuit.LaneOffset(succ, first, k),
		SuccSecondary: circuit.LaneOffset(succ, first+1, k),
	}
}

func (o *SegmentShift) beepIf(cond bool, id int) {
	if cond {
		o.particle.SendBeepOnPartitionSet(id)
	}
}

// Rounds returns the number of rounds a shift takes on a chain of the given
// length.
func Rounds(chain uint) uint {
	return 2*chain + 2
}

func lanePins(d grid.Direction, k int, lane int) []circuit.Pin {
	if !d.IsValid() {
		return nil
	}
	//
	return []circuit.Pin{circuit.LanePin(d, lane, k)}
}
