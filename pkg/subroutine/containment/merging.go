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

// MergingAlgo finds all particles at which a convex polygon (triangle,
// trapezoid, pentagon or hexagon) fits with its anchor.  Every row of the
// polygon is checked by a run comparison against the row's length, held in a
// counter, and the results of consecutive rows are merged from the top row
// downwards, moving each intermediate result one step towards the start of the
// row below.
type MergingAlgo struct {
	search
}

// NewMergingAlgo constructs a polygon search for the given particle, using the
// given shared PASC instance.
func NewMergingAlgo(p circuit.Particle, shared *pasc.PASC2) *MergingAlgo {
	return &MergingAlgo{newSearch(p, shared)}
}

// Init starts the search, whose row lengths are loaded onto the chain the
// particle is linked into.  An invalid polygon is reported and yields no
// representatives.
func (o *MergingAlgo) Init(link Link, poly shape.Polygon) {
	prog := o.begin(1, link)
	//
	if err := poly.Validate(); err != nil {
		log.Errorf("merging algorithm cannot place polygon: %s", err)
	} else {
		prog.polygon(o.reps, poly)
	}
	//
	o.end(prog)
}

// IsRepresentative determines whether the polygon fits with its anchor at this
// particle.
func (o *MergingAlgo) IsRepresentative() bool {
	return o.representative(0)
}
