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
package containment

import (
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/shape"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/pasc"
)

// Snowflake finds all placements of a snowflake shape scaled by a given factor,
// in all six rotations.  The dependency tree is processed in order, so the
// placements of every child are known before its parents need them.  A
// snowflake node fits at a particle in some rotation if all of its scaled arms
// fit (one run comparison each) and every child fits, in its own rotation, all
// along the arm edge it is attached to.  The latter is a run comparison over
// the child's placements, whose result is then shifted to the parent's origin.
//
// The scale factor is a counter on the counter chain.  Scaled arm lengths and
// child distances are computed from it by multiplication on the chain, once
// per distinct length, so neither the program nor the number of rounds of a
// comparison depends on the value of the scale factor.  Only the shifts take
// one round per step.
type Snowflake struct {
	search
	nodes uint
	base  uint
}

// NewSnowflake constructs a snowflake search for the given particle, using the
// given shared PASC instance.
func NewSnowflake(p circuit.Particle, shared *pasc.PASC2) *Snowflake {
	return &Snowflake{search: newSearch(p, shared)}
}

// Init starts the search for the root (last entry) of the given dependency
// tree.  The tree is assumed to be valid.  Elements of the counter chain
// supply their bit of the scale factor, which must be positive.
func (o *Snowflake) Init(tree []shape.Snowflake, link Link, scale bool) {
	prog := o.begin(Rotations, link)
	factor := prog.input(scale)
	o.nodes = uint(len(tree))
	o.base = prog.alloc(o.nodes * Rotations)
	part := prog.alloc(1)
	//
	for i, sf := range tree {
		for r := uint(0); r < Rotations; r++ {
			fits := o.slot(uint(i), r)
			prog.copy(fits, slotOccupied)
			//
			for d, arm := range sf.Arms {
				if arm > 0 {
					prog.compare(part, slotOccupied, grid.Direction(d).Rotate(int(r)), prog.scaled(uint(arm), factor))
					prog.and(fits, part)
				}
			}
			//
			for _, c := range sf.Children {
				dir := grid.Direction(c.Direction).Rotate(int(r))
				rot := (r + uint(c.Rotation)) % Rotations
				//
				prog.compare(part, o.slot(uint(c.ChildIdx), rot), dir, factor)
				//
				if c.Distance > 0 {
					prog.shift(part, part, dir, prog.scaled(uint(c.Distance), factor))
				}
				//
				prog.and(fits, part)
			}
		}
	}
	//
	for r := uint(0); r < Rotations; r++ {
		if o.nodes == 0 {
			prog.copy(o.reps+r, slotOccupied)
		} else {
			prog.copy(o.reps+r, o.slot(o.nodes-1, r))
		}
	}
	//
	o.end(prog)
}

// IsRepresentative determines whether the scaled snowflake fits with its
// origin at this particle in the given rotation.
func (o *Snowflake) IsRepresentative(rotation uint) bool {
	return o.representative(rotation)
}

// NodeFits determines whether the given snowflake of the dependency tree fits
// with its origin at this particle in the given rotation.
func (o *Snowflake) NodeFits(node uint, rotation uint) bool {
	if node >= o.nodes || rotation >= Rotations {
		return false
	}
	//
	return o.bit(o.slot(node, rotation))
}

func (o *Snowflake) slot(node uint, rotation uint) uint {
	return o.base + node*Rotations + rotation
}
