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
package ett

import (
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/pasc"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/collection/bit"
)

// Partition set identifiers.  The node entered from direction d uses 2d and
// 2d+1, the first half of a split node uses psStart and psStart+1.
const (
	psStart  = 12
	psGlobal = 14
)

type state uint8

const (
	statePASC state = iota
	stateTermination
	stateDone
)

// ETT runs PASC along the Euler tour of a tree.  Each tree edge is traversed
// once in each direction; the tour visits a particle once per incident tree
// edge, entering from direction d and leaving towards the next tree direction
// counter-clockwise after d.  These visits are the nodes of the tour.  The
// tour is a cycle unless it is split at one node, which then becomes the start
// (its outgoing half) and the end (its incoming half) of a chain.
//
// Nodes are marked by their outgoing edge; marked nodes start active.  After
// termination every node has received the number of marked nodes (excluding
// the start) up to and including itself.  For each tree direction d the
// particle compares, bit by bit, the count of the node entered from d with the
// count of the node leaving towards d.  Their difference is the number of
// marked nodes in the excursion through d.
//
// PASC rounds alternate with termination rounds, in which nodes that became
// passive beep on a global circuit.  The procedure ends after a termination
// round without beeps.
type ETT struct {
	particle circuit.Particle
	reg      bit.Register
	state    bit.EnumField[state]
	tree     bit.FieldArray
	marked   bit.FieldArray
	split    grid.DirectionField
	ready    bit.BoolField
	finished bit.BoolField
	// Per-direction subtraction streams
	borrowInOut bit.FieldArray
	borrowOutIn bit.FieldArray
	diffInOut   bit.FieldArray
	diffOutIn   bit.FieldArray
	results     [6]bit.EnumField[circuit.Result]
	// Nodes keyed by incoming direction, plus the start of a split tour.
	nodes [6]*pasc.PASC
	start *pasc.PASC
}

// New constructs an Euler tour instance for the given particle.
func New(p circuit.Particle) *ETT {
	o := &ETT{particle: p}
	layout := bit.NewLayout(&o.reg)
	o.state = bit.Enum[state](layout, 2)
	o.tree = layout.Array(6)
	o.marked = layout.Array(6)
	o.split = grid.NewDirectionField(layout)
	o.ready = layout.Bool()
	o.finished = layout.Bool()
	o.borrowInOut = layout.Array(6)
	o.borrowOutIn = layout.Array(6)
	o.diffInOut = layout.Array(6)
	o.diffOutIn = layout.Array(6)
	//
	for d := range o.results {
		o.results[d] = bit.Enum[circuit.Result](layout, 2)
		o.nodes[d] = pasc.New(p)
	}
	//
	o.start = pasc.New(p)
	//
	return o
}

// Init resets the Euler tour.  Tree holds the directions of incident tree
// edges, marked the outgoing edges whose nodes are marked.  If split is a
// tree direction, the tour is split at the node leaving towards split.  Exactly
// one particle of the tree may split the tour; without a split the tour has no
// leader and PASC is undefined.
func (o *ETT) Init(tree [6]bool, marked [6]bool, split grid.Direction) {
	o.reg.Reset()
	//
	for _, d := range grid.Directions {
		o.tree.Set(uint(d), tree[d])
		o.marked.Set(uint(d), tree[d] && marked[d])
	}
	//
	if split.IsValid() && tree[split] {
		o.split.Set(split)
	} else {
		o.split.Set(grid.None)
	}
	//
	k := o.particle.PinsPerEdge()
	pins := pasc.SidePins(k)
	//
	for _, d := range grid.Directions {
		if !tree[d] {
			continue
		}
		//
		out := o.next(d)
		//
		if out == o.split.Get() {
			// Incoming half of the split node ends the chain
			o.nodes[d].Init(false, d, grid.None, pins, 2*int(d), 2*int(d)+1, false)
			o.start.Init(true, grid.None, out, pins, psStart, psStart+1, o.marked.Get(uint(out)))
		} else {
			o.nodes[d].Init(false, d, out, pins, 2*int(d), 2*int(d)+1, o.marked.Get(uint(out)))
		}
	}
	//
	if !o.tree.Or() {
		o.finished.Set(true)
		o.state.Set(stateDone)
	}
}

// next returns the tree direction the tour leaves to after entering from d.
func (o *ETT) next(d grid.Direction) grid.Direction {
	for i := 1; i <= 6; i++ {
		if out := d.Rotate(i); o.tree.Get(uint(out)) {
			return out
		}
	}
	//
	return grid.None
}

// prev returns the tree direction the tour enters from before leaving to d.
func (o *ETT) prev(d grid.Direction) grid.Direction {
	for i := 1; i <= 6; i++ {
		if in := d.Rotate(-i); o.tree.Get(uint(in)) {
			return in
		}
	}
	//
	return grid.None
}

// outgoing returns the node leaving towards d.
func (o *ETT) outgoing(d grid.Direction) *pasc.PASC {
	if d == o.split.Get() {
		return o.start
	}
	//
	return o.nodes[o.prev(d)]
}

func (o *ETT) isSplit() bool {
	return o.split.Get() != grid.None
}

// SetupPC plans the circuits of the current round.
func (o *ETT) SetupPC(pc circuit.PinConfiguration) {
	switch o.state.Get() {
	case statePASC:
		o.forEachNode(func(s *pasc.PASC) { s.SetupPC(pc) })
	case stateTermination:
		k := pc.PinsPerEdge()
		pins := make([]circuit.Pin, 0, 6*k)
		//
		for _, d := range grid.Directions {
			for i := 0; i < k; i++ {
				pins = append(pins, circuit.Pin{Dir: d, Offset: i})
			}
		}
		//
		pc.MakePartitionSet(psGlobal, pins...)
	}
}

// ActivateSend emits the beeps of the current round.
func (o *ETT) ActivateSend() {
	switch o.state.Get() {
	case statePASC:
		o.forEachNode(func(s *pasc.PASC) { s.ActivateSend() })
	case stateTermination:
		changed := false
		o.forEachNode(func(s *pasc.PASC) { changed = changed || s.BecamePassive() })
		//
		if changed {
			o.particle.SendBeepOnPartitionSet(psGlobal)
		}
	}
}

// ActivateReceive processes the beeps of the previous round.
func (o *ETT) ActivateReceive() {
	o.ready.Set(false)
	//
	switch o.state.Get() {
	case statePASC:
		o.forEachNode(func(s *pasc.PASC) { s.ActivateReceive() })
		o.compare()
		o.ready.Set(true)
		o.state.Set(stateTermination)
	case stateTermination:
		if o.particle.ReceivedBeepOnPartitionSet(psGlobal) {
			o.state.Set(statePASC)
		} else {
			o.state.Set(stateDone)
			o.finished.Set(true)
		}
	}
}

// compare feeds this round's bits into the per-direction subtractions.
func (o *ETT) compare() {
	for _, d := range grid.Directions {
		if !o.tree.Get(uint(d)) {
			continue
		}
		//
		i := uint(d)
		in, out := o.GetBit(d, false), o.GetBit(d, true)
		// in - out
		borrow := o.borrowInOut.Get(i)
		o.diffInOut.Set(i, in != out != borrow)
		o.borrowInOut.Set(i, (!in && out) || (in == out && borrow))
		// out - in
		borrow = o.borrowOutIn.Get(i)
		o.diffOutIn.Set(i, in != out != borrow)
		o.borrowOutIn.Set(i, (in && !out) || (in == out && borrow))
		//
		o.results[d].Set(o.results[d].Get().Observe(in, out))
	}
}

func (o *ETT) forEachNode(fn func(s *pasc.PASC)) {
	for _, d := range grid.Directions {
		if o.tree.Get(uint(d)) {
			fn(o.nodes[d])
		}
	}
	//
	if o.isSplit() {
		fn(o.start)
	}
}

// IsFinished determines whether the Euler tour has terminated.
func (o *ETT) IsFinished() bool {
	return o.finished.Get()
}

// BitsReady determines whether the last round delivered PASC bits.
func (o *ETT) BitsReady() bool {
	return o.ready.Get()
}

// GetBit returns the PASC bit of the last round received by the node leaving
// towards d (outgoing) or entered from d (incoming).
func (o *ETT) GetBit(d grid.Direction, outgoing bool) bool {
	if !o.tree.Get(uint(d)) {
		return false
	} else if outgoing {
		return o.outgoing(d).GetReceivedBit()
	}
	//
	return o.nodes[d].GetReceivedBit()
}

// DiffBit returns the bit of the last round of the difference between the
// incoming and the outgoing count at d (or vice versa).  The difference is
// only meaningful if it is not negative, see Compare.
func (o *ETT) DiffBit(d grid.Direction, inMinusOut bool) bool {
	if inMinusOut {
		return o.diffInOut.Get(uint(d))
	}
	//
	return o.diffOutIn.Get(uint(d))
}

// Compare returns the comparison of the incoming count at d with the outgoing
// count at d, as far as the bits received so far tell.
func (o *ETT) Compare(d grid.Direction) circuit.Result {
	return o.results[d].Get()
}
