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
package segshift

import (
	"testing"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/sim"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/assert"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/collection/bit"
)

func Test_SegmentShift_00(t *testing.T) {
	check_SegmentShift(t, 8, 2, 4, 3)
}

func Test_SegmentShift_01(t *testing.T) {
	n := 8
	//
	for start := 0; start < n; start++ {
		for end := start; end < n; end++ {
			for distance := uint(0); distance <= 9; distance++ {
				check_SegmentShift(t, n, start, end, distance)
			}
		}
	}
}

// Shifting nothing does nothing.
func Test_SegmentShift_02(t *testing.T) {
	check_SegmentShift(t, 6, 6, 5, 2)
}

// The number of rounds depends only on the length of the chain, not on the
// distance.
func Test_SegmentShift_03(t *testing.T) {
	for _, distance := range []uint{0, 1, 100, 1000, 1<<12 - 1} {
		check_SegmentShift(t, 12, 1, 3, distance)
	}
}

// A chain of a single element.
func Test_SegmentShift_04(t *testing.T) {
	check_SegmentShift(t, 1, 0, 0, 0)
	check_SegmentShift(t, 1, 0, 0, 1)
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_SegmentShift(t *testing.T, n, start, end int, distance uint) {
	sys := sim.NewSystem(4, 1)
	assert.True(t, sys.Add(grid.Line(grid.Pos{X: 0, Y: 0}, grid.NW, n)...) == nil)
	//
	shifts := make([]*SegmentShift, n)
	//
	sys.Bind(func(p *sim.Particle) sim.Algorithm {
		i := p.ID()
		pred, succ := grid.SE, grid.NW
		//
		if i == 0 {
			pred = grid.None
		}
		//
		if i == n-1 {
			succ = grid.None
		}
		//
		shifts[i] = New(p)
		shifts[i].Init(start <= i && i <= end, pred, succ, bit.Test(distance, uint(i)))
		//
		return shifts[i]
	})
	//
	rounds, err := sys.Run(100)
	assert.True(t, err == nil)
	assert.Equal(t, Rounds(uint(n)), rounds)
	//
	for i, s := range shifts {
		expected := start+int(distance) <= i && i <= end+int(distance)
		assert.Equal(t, expected, s.IsMarked(), "segment [%d,%d] shifted by %d at %d", start, end, distance, i)
	}
}
