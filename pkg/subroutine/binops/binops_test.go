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
	"testing"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/sim"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/assert"
)

// Chain with several bends, so lanes cross edges in all directions.
var bentChain = []grid.Pos{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 2}, {X: -1, Y: 2}, {X: -1, Y: 1}}

func Test_Comparison_00(t *testing.T) {
	// a = 101, b = 011 (most significant bit first)
	results := check_Comparison(t, grid.Line(grid.Pos{X: 0, Y: 0}, grid.E, 3), 5, 3)
	//
	for _, r := range results {
		assert.Equal(t, circuit.Greater, r)
	}
}

func Test_Comparison_01(t *testing.T) {
	for a := uint(0); a < 8; a++ {
		for b := uint(0); b < 8; b++ {
			for _, r := range check_Comparison(t, grid.Line(grid.Pos{X: 0, Y: 0}, grid.E, 3), a, b) {
				assert.Equal(t, compare(a, b), r, "comparing %d with %d", a, b)
			}
		}
	}
}

func Test_Comparison_02(t *testing.T) {
	for _, ab := range [][2]uint{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		for _, r := range check_Comparison(t, []grid.Pos{{X: 0, Y: 0}}, ab[0], ab[1]) {
			assert.Equal(t, compare(ab[0], ab[1]), r)
		}
	}
}

func Test_Comparison_03(t *testing.T) {
	for _, ab := range [][2]uint{{0, 0}, {200, 13}, {13, 200}, {255, 255}, {128, 127}, {77, 78}} {
		for _, r := range check_Comparison(t, bentChain, ab[0], ab[1]) {
			assert.Equal(t, compare(ab[0], ab[1]), r, "comparing %d with %d", ab[0], ab[1])
		}
	}
}

func Test_Addition_00(t *testing.T) {
	for a := uint(0); a < 16; a++ {
		for b := uint(0); b < 16; b++ {
			c, overflow := check_Addition(t, grid.Line(grid.Pos{X: 0, Y: 0}, grid.E, 4), a, b, false)
			assert.Equal(t, (a+b)%16, c, "%d + %d", a, b)
			assert.Equal(t, a+b >= 16, overflow, "%d + %d", a, b)
		}
	}
}

func Test_Addition_01(t *testing.T) {
	for _, ab := range [][2]uint{{0, 0}, {200, 13}, {255, 1}, {255, 255}, {128, 127}, {85, 170}} {
		c, overflow := check_Addition(t, bentChain, ab[0], ab[1], false)
		assert.Equal(t, (ab[0]+ab[1])%256, c)
		assert.Equal(t, ab[0]+ab[1] >= 256, overflow)
	}
}

func Test_Subtraction_00(t *testing.T) {
	for a := uint(0); a < 16; a++ {
		for b := uint(0); b < 16; b++ {
			c, overflow := check_Addition(t, grid.Line(grid.Pos{X: 0, Y: 0}, grid.E, 4), a, b, true)
			assert.Equal(t, (a+16-b)%16, c, "%d - %d", a, b)
			assert.Equal(t, a < b, overflow, "%d - %d", a, b)
		}
	}
}

func Test_Multiplication_00(t *testing.T) {
	for a := uint(0); a < 32; a++ {
		for b := uint(0); b < 32; b++ {
			c, overflow := check_Multiplication(t, grid.Line(grid.Pos{X: 0, Y: 0}, grid.E, 5), a, b)
			assert.Equal(t, (a*b)%32, c, "%d * %d", a, b)
			assert.Equal(t, a*b >= 32, overflow, "%d * %d", a, b)
		}
	}
}

func Test_Multiplication_01(t *testing.T) {
	for _, ab := range [][2]uint{{15, 17}, {16, 16}, {3, 85}, {255, 1}, {1, 255}, {0, 255}, {2, 128}} {
		c, overflow := check_Multiplication(t, bentChain, ab[0], ab[1])
		assert.Equal(t, (ab[0]*ab[1])%256, c, "%d * %d", ab[0], ab[1])
		assert.Equal(t, ab[0]*ab[1] >= 256, overflow, "%d * %d", ab[0], ab[1])
	}
}

func Test_Division_00(t *testing.T) {
	for a := uint(1); a < 32; a++ {
		for b := uint(1); b <= a; b++ {
			q, r := check_Division(t, grid.Line(grid.Pos{X: 0, Y: 0}, grid.E, 5), a, b)
			assert.Equal(t, a/b, q, "%d / %d", a, b)
			assert.Equal(t, a%b, r, "%d mod %d", a, b)
		}
	}
}

func Test_Division_01(t *testing.T) {
	for _, ab := range [][2]uint{{255, 1}, {255, 255}, {200, 13}, {128, 3}, {129, 128}} {
		q, r := check_Division(t, bentChain, ab[0], ab[1])
		assert.Equal(t, ab[0]/ab[1], q, "%d / %d", ab[0], ab[1])
		assert.Equal(t, ab[0]%ab[1], r, "%d mod %d", ab[0], ab[1])
	}
}

// The state of an operation survives being saved and restored mid-way.
func Test_Registers_00(t *testing.T) {
	sys := sim.NewSystem(2, 1)
	path := grid.Line(grid.Pos{X: 0, Y: 0}, grid.E, 6)
	assert.True(t, sys.Add(path...) == nil)
	//
	ops := bind(sys, path, 6, 7, NewMultiplication)
	//
	for i := 0; i < 5; i++ {
		sys.Step()
	}
	// Swap every operation for a restored copy
	restored := make([]*Multiplication, len(ops))
	//
	sys.Bind(func(p *sim.Particle) sim.Algorithm {
		restored[p.ID()] = NewMultiplication(p)
		assert.True(t, restored[p.ID()].Restore(ops[p.ID()].Registers()) == nil)
		//
		return restored[p.ID()]
	})
	//
	_, err := sys.Run(40)
	assert.True(t, err == nil)
	//
	assert.Equal(t, uint(42), value(restored, (*Multiplication).C))
	assert.False(t, restored[0].HaveOverflow())
	// Mismatched registers are rejected
	assert.True(t, restored[0].Restore(nil) != nil)
}

// ===================================================================
// Test Helpers
// ===================================================================

type operation interface {
	sim.Algorithm
	Init(a, b bool, pred, succ grid.Direction)
}

// bind creates an operation on every element of a chain, with bit i of a and
// b stored at the iᵗʰ element.
func bind[T operation](sys *sim.System, path []grid.Pos, a, b uint, ctor func(circuit.Particle) T) []T {
	ops := make([]T, len(path))
	index := make(map[grid.Pos]int)
	//
	for i, pos := range path {
		index[pos] = i
	}
	//
	sys.Bind(func(p *sim.Particle) sim.Algorithm {
		var (
			i          = index[p.Pos()]
			pred, succ = grid.None, grid.None
		)
		//
		if i > 0 {
			pred = path[i].DirectionTo(path[i-1])
		}
		//
		if i+1 < len(path) {
			succ = path[i].DirectionTo(path[i+1])
		}
		//
		ops[i] = ctor(p)
		ops[i].Init(a&(1<<i) != 0, b&(1<<i) != 0, pred, succ)
		//
		return ops[i]
	})
	//
	return ops
}

func run[T operation](t *testing.T, path []grid.Pos, a, b uint, ctor func(circuit.Particle) T) []T {
	sys := sim.NewSystem(2, 1)
	assert.True(t, sys.Add(path...) == nil)
	//
	ops := bind(sys, path, a, b, ctor)
	_, err := sys.Run(8*len(path) + 8)
	assert.True(t, err == nil, "operation on %d and %d did not finish", a, b)
	//
	return ops
}

func check_Comparison(t *testing.T, path []grid.Pos, a, b uint) []circuit.Result {
	ops := run(t, path, a, b, NewComparison)
	results := make([]circuit.Result, len(ops))
	//
	for i, op := range ops {
		results[i] = op.Result()
	}
	//
	return results
}

func check_Addition(t *testing.T, path []grid.Pos, a, b uint, subtract bool) (uint, bool) {
	ctor := NewAddition
	if subtract {
		ctor = NewSubtraction
	}
	//
	ops := run(t, path, a, b, ctor)
	//
	for _, op := range ops {
		assert.Equal(t, ops[0].HaveOverflow(), op.HaveOverflow())
	}
	//
	return value(ops, (*Addition).C), ops[0].HaveOverflow()
}

func check_Multiplication(t *testing.T, path []grid.Pos, a, b uint) (uint, bool) {
	ops := run(t, path, a, b, NewMultiplication)
	//
	for _, op := range ops {
		assert.Equal(t, ops[0].HaveOverflow(), op.HaveOverflow())
	}
	//
	return value(ops, (*Multiplication).C), ops[0].HaveOverflow()
}

func check_Division(t *testing.T, path []grid.Pos, a, b uint) (uint, uint) {
	ops := run(t, path, a, b, NewDivision)
	//
	return value(ops, (*Division).Quotient), value(ops, (*Division).Remainder)
}

func value[T any](ops []T, bit func(T) bool) uint {
	v := uint(0)
	//
	for i, op := range ops {
		if bit(op) {
			v |= 1 << i
		}
	}
	//
	return v
}

func compare(a, b uint) circuit.Result {
	switch {
	case a < b:
		return circuit.Less
	case a > b:
		return circuit.Greater
	}
	//
	return circuit.Equal
}
