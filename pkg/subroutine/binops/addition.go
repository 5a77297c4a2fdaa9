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

type addState uint8

const (
	addCarry addState = iota
	addOverflow
	addDone
)

// Addition computes c = a + b (or c = a - b when subtracting) along a chain
// in two rounds.  The first round resolves all carries (borrows) on a single
// ripple circuit, the second round broadcasts whether the result overflowed.
type Addition struct {
	chain
	subtract bit.BoolField
	state    bit.EnumField[addState]
	overflow bit.BoolField
}

// NewAddition constructs an addition for the given particle.
func NewAddition(p circuit.Particle) *Addition {
	o := &Addition{}
	layout := o.alloc(p)
	o.subtract = layout.Bool()
	o.state = bit.Enum[addState](layout, 2)
	o.overflow = layout.Bool()
	//
	return o
}

// NewSubtraction constructs an addition which subtracts b from a.
func NewSubtraction(p circuit.Particle) *Addition {
	o := NewAddition(p)
	o.subtract.Set(true)
	//
	return o
}

// Init resets the operation for this element's bits a and b.
func (o *Addition) Init(a, b bool, pred, succ grid.Direction) {
	subtract := o.subtract.Get()
	o.reset(a, b, pred, succ)
	o.subtract.Set(subtract)
}

// generates determines whether this element creates a carry (borrow).
func (o *Addition) generates() bool {
	if o.subtract.Get() {
		return !o.A() && o.B()
	}
	//
	return o.A() && o.B()
}

// propagates determines whether this element passes an incoming carry
// (borrow) on.
func (o *Addition) propagates() bool {
	if o.subtract.Get() {
		return o.A() == o.B()
	}
	//
	return o.A() != o.B()
}

// SetupPC plans the circuits of the current round.
func (o *Addition) SetupPC(pc circuit.PinConfiguration) {
	switch o.state.Get() {
	case addCarry:
		o.setupCarryChain(pc, psIn, psOut, 0, o.propagates())
	case addOverflow:
		o.connect(pc, psIn, 0)
	}
}

// ActivateSend emits the beeps of the current round.
func (o *Addition) ActivateSend() {
	switch o.state.Get() {
	case addCarry:
		o.beepIf(o.generates(), psOut)
	case addOverflow:
		o.beepIf(o.overflow.Get(), psIn)
	}
}

// ActivateReceive processes the beeps of the previous round.
func (o *Addition) ActivateReceive() {
	switch o.state.Get() {
	case addCarry:
		carry := o.heard(psIn)
		o.c.Set(o.A() != o.B() != carry)
		// Only the chain end can see a carry leaving the chain
		if o.IsMSB() {
			o.overflow.Set(o.generates() || (o.propagates() && carry))
		}
		//
		o.state.Set(addOverflow)
	case addOverflow:
		o.overflow.Set(o.heard(psIn))
		o.state.Set(addDone)
		o.finished.Set(true)
	}
}

// HaveOverflow determines whether the sum did not fit into the chain or, when
// subtracting, whether b was larger than a.
func (o *Addition) HaveOverflow() bool {
	return o.overflow.Get()
}
