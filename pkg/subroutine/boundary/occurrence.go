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
package boundary

import (
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
)

// MaxOccurrences is the largest number of boundaries a single particle can be
// part of.
const MaxOccurrences = 3

// Occurrence describes how a boundary passes through a particle: it enters
// from the neighbour in direction Pred and leaves to the neighbour in
// direction Succ, with all directions strictly between them (counter-
// clockwise) unoccupied.  Walking along the successors, the unoccupied side
// is on the right.
type Occurrence struct {
	Pred grid.Direction
	Succ grid.Direction
}

// IsTrivial determines whether this is the boundary of an isolated particle.
func (o Occurrence) IsTrivial() bool {
	return o.Pred == grid.None
}

// Turn returns the number of 60° turns (-2..3) taken at this occurrence.  The
// turns along an outer boundary add up to 6, those along an inner boundary to
// -6.
func (o Occurrence) Turn() int {
	if o.IsTrivial() {
		return 0
	}
	//
	return o.Pred.Opposite().Turn(o.Succ)
}

// Occurrences determines the boundary occurrences of a particle given which of
// its neighbours are occupied.  Each maximal run of unoccupied neighbours
// yields one occurrence.  A particle without neighbours has a single trivial
// occurrence, a particle with six neighbours has none.
func Occurrences(occupied [6]bool) []Occurrence {
	var occurrences []Occurrence
	//
	for _, d := range grid.Directions {
		if !occupied[d] || occupied[d.Rotate(1)] {
			continue
		}
		// A run of empty neighbours starts after d
		succ := d.Rotate(1)
		for !occupied[succ] {
			succ = succ.Rotate(1)
		}
		//
		occurrences = append(occurrences, Occurrence{d, succ})
	}
	//
	if len(occurrences) == 0 && !occupied[grid.E] {
		// Isolated
		return []Occurrence{{grid.None, grid.None}}
	}
	//
	return occurrences
}
