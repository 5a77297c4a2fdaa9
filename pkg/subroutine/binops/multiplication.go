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
	log "github.com/sirupsen/logrus"
)

type mulState uint8

const (
	// The token holder announces its bit of a, all elements holding an
	// unprocessed 1 bit of a announce that work remains.
	mulCheck mulState = iota
	// c += b on a ripple carry circuit.
	mulAdd
	// b and the token move one element towards the chain end.
	mulShift
	// The chain end broadcasts the overflow flag.
	mulOverflow
	mulDone
)

// Multiplication computes c = a * b by shifting and adding.  A token walks
// from the chain start to the chain end, one element per iteration; b is
// shifted along with it and added to c wherever the token holder's bit of a is
// set.  The multiplication stops as soon as no 1 bit of a remains ahead of the
// token.
//
// A 1 bit of b shifted beyond the chain end is only recorded, since it causes
// an overflow if and only if it would be added later.
type Multiplication struct {
	chain
	state    bit.EnumField[mulState]
	token    bit.BoolField
	passed   bit.BoolField
	lost     bit.BoolField
	overflow bit.BoolField
}

// NewMultiplication constructs a multiplication for the given particle.
func NewMultiplication(p circuit.Particle) *Multiplication {
	o := &Multiplication{}
	layout := o.alloc(p)
	o.state = bit.Enum[mulState](layout, 3)
	o.token = layout.Bool()
	o.passed = layout.Bool()
	o.lost = layout.Bool()
	o.overflow = layout.Bool()
	//
	return o
}

// Init resets the multiplication for this element's bits a and b.
func (o *Multiplication) Init(a, b bool, pred, succ grid.Direction) {
	o.reset(a, b, pred, succ)
	o.token.Set(pred == grid.None)
}

// SetupPC plans the circuits of the current round.
func (o *Multiplication) SetupPC(pc circuit.PinConfiguration) {
	switch o.state.Get() {
	case mulCheck:
		o.connect(pc, psIn, 0)
		o.connect(pc, psIn2, 1)
	case mulAdd:
		o.setupCarryChain(pc, psIn, psOut, 0, o.B() != o.C())
	case mulShift:
		o.setupShift(pc, psIn, psOut, 0, true)
		o.setupShift(pc, psIn2, psOut2, 1, true)
	case mulOverflow:
		o.connect(pc, psIn, 0)
	}
}

// ActivateSend emits the beeps of the current round.
func (o *Multiplication) ActivateSend() {
	switch o.state.Get() {
	case mulCheck:
		o.beepIf(o.token.Get() && o.A(), psIn)
		o.beepIf(!o.passed.Get() && o.A(), psIn2)
	case mulAdd:
		o.beepIf(o.B() && o.C(), psOut)
	case mulShift:
		o.beepIf(o.B(), psOut)
		o.beepIf(o.token.Get(), psOut2)
	case mulOverflow:
		o.beepIf(o.overflow.Get(), psIn)
	}
}

// ActivateReceive processes the beeps of the previous round.
func (o *Multiplication) ActivateReceive() {
	switch o.state.Get() {
	case mulCheck:
		add, more := o.heard(psIn), o.heard(psIn2)
		//
		switch {
		case !more:
			o.state.Set(mulOverflow)
		case add:
			if o.IsMSB() && o.lost.Get() {
				o.overflow.Set(true)
			}
			//
			o.state.Set(mulAdd)
		default:
			o.state.Set(mulShift)
		}
	case mulAdd:
		carry := o.heard(psIn)
		generate, propagate := o.B() && o.C(), o.B() != o.C()
		o.c.Set(propagate != carry)
		//
		if o.IsMSB() && (generate || (propagate && carry)) {
			o.overflow.Set(true)
		}
		//
		o.state.Set(mulShift)
	case mulShift:
		if o.IsMSB() && o.B() {
			o.lost.Set(true)
		}
		//
		o.b.Set(o.heard(psIn))
		//
		if o.token.Get() {
			o.token.Set(false)
			o.passed.Set(true)
		}
		//
		if o.heard(psIn2) {
			o.token.Set(true)
		}
		//
		o.state.Set(mulCheck)
	case mulOverflow:
		o.overflow.Set(o.heard(psIn))
		o.state.Set(mulDone)
		o.finished.Set(true)
		//
		if o.overflow.Get() {
			log.Debugf("multiplication overflowed")
		}
	}
}

// HaveOverflow determines whether the product did not fit into the chain.  In
// this case c holds the product modulo 2^n for a chain of n elements.
func (o *Multiplication) HaveOverflow() bool {
	return o.overflow.Get()
}
