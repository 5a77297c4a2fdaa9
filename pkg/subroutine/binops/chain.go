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
package binops

import (
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/collection/bit"
)

// Partition set identifiers used by the binary operations.  Operations never
// run concurrently on the same particle, so they all share these.
const (
	psIn = iota
	psOut
	psIn2
	psOut2
)

// chain holds the state shared by all binary operations.  The operands are
// distributed along a chain, one bit per element, with the least significant
// bit at the chain start and the most significant bit at the chain end.  All
// state lives in a bit register so it can be stored and restored verbatim.
type chain struct {
	particle circuit.Particle
	reg      bit.Register
	layout   *bit.Layout
	pred     grid.DirectionField
	succ     grid.DirectionField
	a        bit.BoolField
	b        bit.BoolField
	c        bit.BoolField
	finished bit.BoolField
}

func (o *chain) alloc(p circuit.Particle) *bit.Layout {
	o.particle = p
	o.layout = bit.NewLayout(&o.reg)
	o.pred = grid.NewDirectionField(o.layout)
	o.succ = grid.NewDirectionField(o.layout)
	o.a = o.layout.Bool()
	o.b = o.layout.Bool()
	o.c = o.layout.Bool()
	o.finished = o.layout.Bool()
	//
	return o.layout
}

func (o *chain) reset(a, b bool, pred, succ grid.Direction) {
	o.reg.Reset()
	o.pred.Set(pred)
	o.succ.Set(succ)
	o.a.Set(a)
	o.b.Set(b)
}

// A returns the current bit of the first operand.
func (o *chain) A() bool {
	return o.a.Get()
}

// B returns the current bit of the second operand.
func (o *chain) B() bool {
	return o.b.Get()
}

// C returns the current result bit.
func (o *chain) C() bool {
	return o.c.Get()
}

// IsFinished determines whether the operation has terminated.
func (o *chain) IsFinished() bool {
	return o.finished.Get()
}

// Registers returns the raw state of this operation.
func (o *chain) Registers() []uint32 {
	return o.reg.Words()
}

// Restore overwrites the state of this operation with previously saved
// registers.
func (o *chain) Restore(words []uint32) error {
	return o.reg.Load(words)
}

// IsStart determines whether this element holds the least significant bit.
func (o *chain) IsStart() bool {
	return o.pred.Get() == grid.None
}

// IsMSB determines whether this element holds the most significant bit.
func (o *chain) IsMSB() bool {
	return o.succ.Get() == grid.None
}

// predPins returns the given lanes on the edge to the predecessor, if any.
func (o *chain) predPins(k int, lanes ...int) []circuit.Pin {
	return edgePins(o.pred.Get(), k, lanes)
}

// succPins returns the given lanes on the edge to the successor, if any.
func (o *chain) succPins(k int, lanes ...int) []circuit.Pin {
	return edgePins(o.succ.Get(), k, lanes)
}

// connect places a lane on both chain edges into one partition set, so that
// the lane forms a single circuit along the whole chain.
func (o *chain) connect(pc circuit.PinConfiguration, id int, lane int) {
	k := pc.PinsPerEdge()
	pc.MakePartitionSet(id, append(o.predPins(k, lane), o.succPins(k, lane)...)...)
}

// split places a lane on the predecessor edge and on the successor edge into
// two separate partition sets.
func (o *chain) split(pc circuit.PinConfiguration, predID, succID int, lane int) {
	k := pc.PinsPerEdge()
	pc.MakePartitionSet(predID, o.predPins(k, lane)...)
	pc.MakePartitionSet(succID, o.succPins(k, lane)...)
}

// setupCarryChain plans a ripple carry circuit on the given lane.  Elements
// which propagate a carry connect both sides; all others separate them and
// beep into their successor side when generating a carry.  The carry of an
// element arrives on the partition set in.
func (o *chain) setupCarryChain(pc circuit.PinConfiguration, in, out int, lane int, propagate bool) {
	if propagate {
		o.connect(pc, in, lane)
		pc.MakePartitionSet(out)
	} else {
		o.split(pc, in, out, lane)
	}
}

// setupShift plans the circuits moving one bit on the given lane one element
// towards the successor (or predecessor).  The outgoing bit is beeped on out,
// the incoming bit arrives on in.
func (o *chain) setupShift(pc circuit.PinConfiguration, in, out int, lane int, towardsSucc bool) {
	if towardsSucc {
		o.split(pc, in, out, lane)
	} else {
		o.split(pc, out, in, lane)
	}
}

// beepIf beeps on a partition set when the condition holds.
func (o *chain) beepIf(cond bool, id int) {
	if cond {
		o.particle.SendBeepOnPartitionSet(id)
	}
}

func (o *chain) heard(id int) bool {
	return o.particle.ReceivedBeepOnPartitionSet(id)
}

func edgePins(d grid.Direction, k int, lanes []int) []circuit.Pin {
	if !d.IsValid() {
		return nil
	}
	//
	pins := make([]circuit.Pin, len(lanes))
	//
	for i, lane := range lanes {
		pins[i] = circuit.LanePin(d, lane, k)
	}
	//
	return pins
}

// setupCompare plans the first round of comparing a with b: lane 0 is split at
// every element whose bits differ.
func (o *chain) setupCompare(pc circuit.PinConfiguration) {
	if o.A() == o.B() {
		o.connect(pc, psIn, 0)
		pc.MakePartitionSet(psOut)
	} else {
		o.split(pc, psIn, psOut, 0)
	}
}

// sendCompare lets the chain end beep towards the start if its bits are
// equal.  The beep travels down to the most significant differing element.
func (o *chain) sendCompare() {
	o.beepIf(o.IsMSB() && o.A() == o.B(), psIn)
}

// receiveCompare determines whether this element decides the comparison, in
// which case the result is returned as well.  The decider is the most
// significant element with differing bits or, if all bits are equal, the
// chain start.
func (o *chain) receiveCompare() (bool, circuit.Result) {
	equal := o.A() == o.B()
	//
	switch {
	case !equal && (o.IsMSB() || o.heard(psOut)):
		return true, circuit.Undecided.Observe(o.A(), o.B())
	case equal && o.IsStart() && o.heard(psIn):
		return true, circuit.Equal
	}
	//
	return false, circuit.Undecided
}
