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
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/pasc"
)

// Parallelogram finds all particles at which a parallelogram with given side
// lengths fits, i.e. the particles p for which p + i*w + j*h is occupied for
// all 0 <= i <= a and 0 <= j <= d.  The side lengths are counters on the
// counter chain.  It consists of two run comparisons.
type Parallelogram struct {
	search
}

// NewParallelogram constructs a parallelogram search for the given particle,
// using the given shared PASC instance.
func NewParallelogram(p circuit.Particle, shared *pasc.PASC2) *Parallelogram {
	return &Parallelogram{newSearch(p, shared)}
}

// Init starts the search.  Elements of the counter chain supply their bits of
// the side lengths a and d.
func (o *Parallelogram) Init(w, h grid.Direction, link Link, a, d bool) {
	prog := o.begin(1, link)
	prog.parallelogram(o.reps, w, h, prog.input(a), prog.input(d))
	o.end(prog)
}

// IsRepresentative determines whether the parallelogram fits with its corner
// at this particle.
func (o *Parallelogram) IsRepresentative() bool {
	return o.representative(0)
}
