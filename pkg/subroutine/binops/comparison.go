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

type compareState uint8

const (
	// The chain is split at elements with differing bits and the most
	// significant element beeps towards its predecessor if its bits are equal.
	compareSplit compareState = iota
	// The deciding element broadcasts the result on two lanes.
	compareBroadcast
	compareDone
)

// Comparison compares two numbers a and b stored along a chain.  It takes two
// rounds, after which every element knows the result.
type Comparison struct {
	chain
	state   bit.EnumField[compareState]
	decider bit.BoolField
	result  bit.EnumField[circuit.Result]
}

// NewComparison constructs a comparison for the given particle.
func NewComparison(p circuit.Particle) *Comparison {
	o := &Comparison{}
	layout := o.alloc(p)
	o.state = bit.Enum[compareState](layout, 2)
	o.decider = layout.Bool()
	o.result = bit.Enum[circuit.Result](layout, 2)
	//
	return o
}

// Init resets the comparison for this element's bits a and b.
func (o *Comparison) Init(a, b bool, pred, succ grid.Direction) {
	o.reset(a, b, pred, succ)
}

// SetupPC plans the circuits of the current round.
func (o *Comparison) SetupPC(pc circuit.PinConfiguration) {
	switch o.state.Get() {
	case compareSplit:
		o.setupCompare(pc)
	case compareBroadcast:
		o.connect(pc, psIn, 0)
		o.connect(pc, psIn2, 1)
	}
}

// ActivateSend emits the beeps of the current round.
func (o *Comparison) ActivateSend() {
	switch o.state.Get() {
	case compareSplit:
		o.sendCompare()
	case compareBroadcast:
		if o.decider.Get() {
			result := o.result.Get()
			o.beepIf(result != circuit.Less, psIn)
			o.beepIf(result != circuit.Greater, psIn2)
		}
	}
}

// ActivateReceive processes the beeps of the previous round.
func (o *Comparison) ActivateReceive() {
	switch o.state.Get() {
	case compareSplit:
		decider, result := o.receiveCompare()
		o.decider.Set(decider)
		o.result.Set(result)
		//
		o.state.Set(compareBroadcast)
	case compareBroadcast:
		first, second := o.heard(psIn), o.heard(psIn2)
		//
		switch {
		case first && second:
			o.result.Set(circuit.Equal)
		case first:
			o.result.Set(circuit.Greater)
		case second:
			o.result.Set(circuit.Less)
		default:
			log.Errorf("comparison result was not broadcast")
			o.result.Set(circuit.Undecided)
		}
		//
		o.state.Set(compareDone)
		o.finished.Set(true)
	}
}

// Result returns the outcome of comparing a with b, which is only defined
// once the comparison has finished.
func (o *Comparison) Result() circuit.Result {
	return o.result.Get()
}
