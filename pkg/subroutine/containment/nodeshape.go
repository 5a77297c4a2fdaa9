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
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/shape"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/pasc"
)

// NodeShape finds all placements of an arbitrary connected shape in all six
// rotations.  The nodes are processed along a spanning tree of the shape, from
// the leaves towards node 0: a particle decides whether the subtree of a node
// fits when the node is placed at the particle by pulling the answers of the
// node's children from the corresponding neighbours.  The per-node answers of
// every rotation are kept in a bit set.
type NodeShape struct {
	search
	nodes uint
	base  uint
}

// NewNodeShape constructs a node shape search for the given particle, using
// the given shared PASC instance.
func NewNodeShape(p circuit.Particle, shared *pasc.PASC2) *NodeShape {
	return &NodeShape{search: newSearch(p, shared)}
}

// Init starts the search.  The graph is assumed to be valid.  Node shapes
// need no counters, so no particle is linked into a chain.
func (o *NodeShape) Init(g *shape.Graph) {
	prog := o.begin(Rotations, Unlinked)
	offsets := g.Offsets()
	order, parent := g.SpanningTree()
	o.nodes = uint(len(g.Nodes))
	o.base = prog.alloc(o.nodes * Rotations)
	child := prog.alloc(1)
	//
	for r := uint(0); r < Rotations; r++ {
		for i := len(order) - 1; i >= 0; i-- {
			v := order[i]
			fits := o.slot(uint(v), r)
			prog.copy(fits, slotOccupied)
			//
			for c, p := range parent {
				if p != v {
					continue
				}
				//
				dir := offsets[v].DirectionTo(offsets[c]).Rotate(int(r))
				prog.pull(child, o.slot(uint(c), r), dir)
				prog.and(fits, child)
			}
		}
		//
		if o.nodes == 0 {
			prog.copy(o.reps+r, slotOccupied)
		} else {
			prog.copy(o.reps+r, o.slot(0, r))
		}
	}
	//
	o.end(prog)
}

// IsRepresentative determines whether the shape fits with node 0 at this
// particle in the given rotation.
func (o *NodeShape) IsRepresentative(rotation uint) bool {
	return o.representative(rotation)
}

// NodeFits determines whether the subtree rooted at the given node of the
// spanning tree fits with that node at this particle, in the given rotation.
func (o *NodeShape) NodeFits(node uint, rotation uint) bool {
	if node >= o.nodes || rotation >= Rotations {
		return false
	}
	//
	return o.bit(o.slot(node, rotation))
}

func (o *NodeShape) slot(node uint, rotation uint) uint {
	return o.base + node*Rotations + rotation
}
