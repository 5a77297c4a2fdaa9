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
	"slices"
	"testing"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/sim"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/assert"
)

func Test_Occurrences_00(t *testing.T) {
	occs := Occurrences([6]bool{})
	assert.Equal(t, 1, len(occs))
	assert.True(t, occs[0].IsTrivial())
	//
	assert.Equal(t, 0, len(Occurrences([6]bool{true, true, true, true, true, true})))
}

func Test_Occurrences_01(t *testing.T) {
	// Only the eastern neighbour
	occs := Occurrences([6]bool{true, false, false, false, false, false})
	assert.Equal(t, []Occurrence{{grid.E, grid.E}}, occs)
	assert.Equal(t, 3, occs[0].Turn())
	// Neighbours east and west
	occs = Occurrences([6]bool{true, false, false, true, false, false})
	assert.Equal(t, []Occurrence{{grid.E, grid.W}, {grid.W, grid.E}}, occs)
	assert.Equal(t, 0, occs[0].Turn())
	// Everything but the western neighbour
	occs = Occurrences([6]bool{true, true, true, false, true, true})
	assert.Equal(t, []Occurrence{{grid.NW, grid.SW}}, occs)
	assert.Equal(t, -1, occs[0].Turn())
}

func Test_Occurrences_02(t *testing.T) {
	occs := Occurrences([6]bool{true, false, true, false, true, false})
	assert.Equal(t, 3, len(occs))
	//
	for _, occ := range occs {
		assert.Equal(t, occ.Pred.Rotate(2), occ.Succ)
		assert.Equal(t, -1, occ.Turn())
	}
}

func Test_BoundaryTest_00(t *testing.T) {
	tests := check_BoundaryTest(t, []grid.Pos{{X: 0, Y: 0}}, 1)
	assert.Equal(t, 1, tests[0].NumBoundaries())
	assert.True(t, tests[0].IsLeader(0))
	assert.True(t, tests[0].IsOuter(0))
	assert.False(t, tests[0].InnerBoundaryExists())
}

func Test_BoundaryTest_01(t *testing.T) {
	for seed := uint64(0); seed < 5; seed++ {
		positions := grid.Hex(grid.Pos{X: 0, Y: 0}, 2)
		tests := check_BoundaryTest(t, positions, seed)
		//
		for i, o := range tests {
			if i < 7 {
				assert.Equal(t, 0, o.NumBoundaries())
			} else {
				assert.Equal(t, 1, o.NumBoundaries())
				assert.True(t, o.IsOuter(0))
			}
			//
			assert.False(t, o.InnerBoundaryExists())
		}
		//
		assert.Equal(t, 1, leaders(tests, true))
		assert.Equal(t, 0, leaders(tests, false))
	}
}

// A disk with a hole in its centre.
func Test_BoundaryTest_02(t *testing.T) {
	for seed := uint64(0); seed < 5; seed++ {
		positions := grid.Hex(grid.Pos{X: 0, Y: 0}, 2)[1:]
		tests := check_BoundaryTest(t, positions, seed)
		//
		for i, o := range tests {
			assert.Equal(t, 1, o.NumBoundaries())
			// The inner ring surrounds the hole
			assert.Equal(t, i >= 6, o.IsOuter(0), "particle %s", positions[i].String())
			assert.True(t, o.InnerBoundaryExists())
		}
		//
		assert.Equal(t, 1, leaders(tests, true))
		assert.Equal(t, 1, leaders(tests, false))
	}
}

// A line: inner particles lie twice on the outer boundary.
func Test_BoundaryTest_03(t *testing.T) {
	for seed := uint64(0); seed < 5; seed++ {
		tests := check_BoundaryTest(t, grid.Line(grid.Pos{X: 0, Y: 0}, grid.NE, 5), seed)
		//
		for i, o := range tests {
			if i == 0 || i == 4 {
				assert.Equal(t, 1, o.NumBoundaries())
			} else {
				assert.Equal(t, 2, o.NumBoundaries())
			}
			//
			for j := range o.NumBoundaries() {
				assert.True(t, o.IsOuter(j))
			}
			//
			assert.False(t, o.InnerBoundaryExists())
		}
		//
		assert.Equal(t, 1, leaders(tests, true))
	}
}

// Two holes.
func Test_BoundaryTest_04(t *testing.T) {
	positions := slices.DeleteFunc(grid.Hex(grid.Pos{X: 0, Y: 0}, 3), func(p grid.Pos) bool {
		return p == grid.Pos{X: -1, Y: 0} || p == grid.Pos{X: 1, Y: 1}
	})
	tests := check_BoundaryTest(t, positions, 7)
	//
	for _, o := range tests {
		assert.True(t, o.InnerBoundaryExists())
	}
	//
	assert.Equal(t, 1, leaders(tests, true))
	assert.Equal(t, 2, leaders(tests, false))
}

// Repetitions are clamped the same way as for the election.
func Test_BoundaryTest_05(t *testing.T) {
	sys := sim.NewSystem(4, 1)
	assert.True(t, sys.Add(grid.Pos{X: 0, Y: 0}) == nil)
	//
	o := New(sys.Particles()[0], sys.Particles()[0].Coin())
	//
	for kappa, expected := range map[int]int{-1: 1, 0: 1, 1: 1, 5: 5, 8: 8, 9: 8, 20: 8} {
		o.Init(kappa)
		assert.Equal(t, expected, o.kappa.Get(), "kappa %d", kappa)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_BoundaryTest(t *testing.T, positions []grid.Pos, seed uint64) []*BoundaryTest {
	sys := sim.NewSystem(4, seed)
	assert.True(t, sys.Add(positions...) == nil)
	//
	tests := make([]*BoundaryTest, len(positions))
	//
	sys.Bind(func(p *sim.Particle) sim.Algorithm {
		tests[p.ID()] = New(p, p.Coin())
		tests[p.ID()].Init(3)
		//
		return tests[p.ID()]
	})
	//
	_, err := sys.Run(2000)
	assert.True(t, err == nil)
	//
	return tests
}

// leaders counts the leaders of outer (or inner) boundaries.
func leaders(tests []*BoundaryTest, outer bool) int {
	count := 0
	//
	for _, o := range tests {
		for i := range o.NumBoundaries() {
			if o.IsLeader(i) && o.IsOuter(i) == outer {
				count++
			}
		}
	}
	//
	return count
}
