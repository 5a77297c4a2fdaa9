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
	log "github.com/sirupsen/logrus"
)

// Rotations is the number of distinct rotations of a shape on the grid.
const Rotations = 6

// ConvexShape finds all placements of a star convex shape, given as the
// convex constituents sharing its origin, in all six rotations.  A particle is
// a representative for a rotation if every rotated constituent fits with its
// anchor at that particle.
type ConvexShape struct {
	search
}

// NewConvexShape constructs a star convex shape search for the given particle,
// using the given shared PASC instance.
func NewConvexShape(p circuit.Particle, shared *pasc.PASC2) *ConvexShape {
	return &ConvexShape{newSearch(p, shared)}
}

// Init starts the search, whose side lengths are loaded onto the chain the
// particle is linked into.  Invalid constituents are reported and skipped.
func (o *ConvexShape) Init(link Link, constituents []shape.Polygon) {
	prog := o.begin(Rotations, link)
	fits := prog.alloc(1)
	//
	for r := uint(0); r < Rotations; r++ {
		rep := o.reps + r
		prog.copy(rep, slotOccupied)
		//
		for i, c := range constituents {
			if err := c.Validate(); err != nil {
				log.Errorf("skipping constituent %d: %s", i, err)
				continue
			}
			//
			prog.polygon(fits, c.Rotate(int(r)))
			prog.and(rep, fits)
		}
	}
	//
	o.end(prog)
}

// IsRepresentative determines whether the shape fits at this particle in the
// given rotation.
func (o *ConvexShape) IsRepresentative(rotation uint) bool {
	return o.representative(rotation)
}
