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

type divState uint8

const (
	// Elements learn whether a higher bit of a is set.
	divTop divState = iota
	// The highest 1 bit of a checks whether b must be shifted further.
	divAlign
	// b and the token move one element towards the chain end.
	divAlignShift
	// a is compared with the shifted b, the token holder reports whether the
	// token is still on the chain.
	divCompare
	// The comparison result is broadcast while a - b is computed.
	divSubtract
	// b and the token move one element back towards the chain start.
	divShift
	divDone
)

// Division computes the quotient c = a / b and the remainder a mod b, which
// replaces a.  It requires a >= b > 0, which is not checked.
//
// In the first phase b is shifted towards the chain end until its highest 1
// bit lines up with the highest 1 bit of a.  A token starting at the chain
// start moves along with b and marks the quotient bit of the current shift.
// The second phase repeatedly compares a with the shifted b, subtracts b
// from a if a >= b, records the outcome at the token and shifts b and the
// token back by one.  The division ends when the token drops off the chain
// start.
type Division struct {
	chain
	state   bit.EnumField[divState]
	token   bit.BoolField
	top     bit.BoolField
	decider bit.BoolField
	result  bit.EnumField[circuit.Result]
}

// NewDivision constructs a division for the given particle.
func NewDivision(p circuit.Particle) *Division {
	o := &Division{}
	layout := o.alloc(p)
	o.state = bit.Enum[divState](layout, 3)
	o.token = layout.Bool()
	o.top = layout.Bool()
	o.decider = layout.Bool()
	o.result = bit.Enum[circuit.Result](layout, 2)
	//
	return o
}

// Init resets the division for this element's bits a and b.
func (o *Division) Init(a, b bool, pred, succ grid.Direction) {
	o.reset(a, b, pred, succ)
	o.token.Set(pred == grid.None)
}

// SetupPC plans the circuits of the current round.
func (o *Division) SetupPC(pc circuit.PinConfiguration) {
	switch o.state.Get() {
	case divTop:
		if o.A() {
			o.split(pc, psOut2, psIn2, 1)
		} else {
			o.connect(pc, psIn2, 1)
		}
	case divAlign:
		o.connect(pc, psIn, 0)
	case divAlignShift:
		o.setupShift(pc, psIn, psOut, 0, true)
		o.setupShift(pc, psIn2, psOut2, 1, true)
	case divCompare:
		o.setupCompare(pc)
		o.connect(pc, psIn2, 1)
	case divSubtract:
		o.connect(pc, psIn, 0)
		o.setupCarryChain(pc, psIn2, psOut2, 1, o.A() == o.B())
	case divShift:
		o.setupShift(pc, psIn, psOut, 0, false)
		o.setupShift(pc, psIn2, psOut2, 1, false)
	}
}

// ActivateSend emits the beeps of the current round.
func (o *Division) ActivateSend() {
	switch o.state.Get() {
	case divTop:
		o.beepIf(o.A(), psOut2)
	case divAlign:
		o.beepIf(o.top.Get() && !o.B(), psIn)
	case divAlignShift, divShift:
		o.beepIf(o.B(), psOut)
		o.beepIf(o.token.Get(), psOut2)
	case divCompare:
		o.sendCompare()
		o.beepIf(o.token.Get(), psIn2)
	case divSubtract:
		o.beepIf(o.decider.Get() && o.result.Get() != circuit.Less, psIn)
		o.beepIf(!o.A() && o.B(), psOut2)
	}
}

// ActivateReceive processes the beeps of the previous round.
func (o *Division) ActivateReceive() {
	switch o.state.Get() {
	case divTop:
		o.top.Set(o.A() && !o.heard(psIn2))
		o.state.Set(divAlign)
	case divAlign:
		if o.heard(psIn) {
			o.state.Set(divAlignShift)
		} else {
			o.state.Set(divCompare)
		}
	case divAlignShift:
		o.b.Set(o.heard(psIn))
		o.token.Set(o.heard(psIn2))
		o.state.Set(divAlign)
	case divCompare:
		if !o.heard(psIn2) {
			o.state.Set(divDone)
			o.finished.Set(true)
			//
			return
		}
		//
		decider, result := o.receiveCompare()
		o.decider.Set(decider)
		o.result.Set(result)
		o.state.Set(divSubtract)
	case divSubtract:
		geq, borrow := o.heard(psIn), o.heard(psIn2)
		//
		if geq {
			o.a.Set(o.A() != o.B() != borrow)
		}
		//
		if o.token.Get() {
			o.c.Set(geq)
		}
		//
		o.decider.Set(false)
		o.state.Set(divShift)
	case divShift:
		o.b.Set(o.heard(psIn))
		o.token.Set(o.heard(psIn2))
		o.state.Set(divCompare)
	}
}

// Quotient returns this element's bit of the quotient.
func (o *Division) Quotient() bool {
	return o.C()
}

// Remainder returns this element's bit of the remainder.
func (o *Division) Remainder() bool {
	return o.A()
}
