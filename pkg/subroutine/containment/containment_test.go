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
	"testing"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/shape"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/sim"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/pasc"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/assert"
)

func Test_RunCompare_00(t *testing.T) {
	n := 6
	chain := NewChain(grid.Pos{}, grid.E, uint(n))
	//
	for threshold := uint(0); threshold < 8; threshold++ {
		positions := grid.Line(grid.Pos{}, grid.E, n)
		results := check_RunCompare(t, positions, nil, grid.E, chain, threshold)
		//
		for i, r := range results {
			assert.Equal(t, uint(n-1-i) >= threshold, r, "threshold %d at %d", threshold, i)
		}
	}
}

func Test_RunCompare_01(t *testing.T) {
	positions := grid.Line(grid.Pos{}, grid.W, 8)
	members := map[grid.Pos]bool{}
	// Runs 0..2 and 4..7
	for i, p := range positions {
		members[p] = i != 3
	}
	//
	results := check_RunCompare(t, positions, members, grid.W, NewChain(grid.Pos{}, grid.W, 8), 2)
	assert.Equal(t, []bool{true, false, false, false, true, true, false, false}, results)
}

func Test_RunCompare_02(t *testing.T) {
	positions := holeyHex()
	occupied := occupancy(positions)
	//
	for _, dir := range grid.Directions {
		for threshold := uint(0); threshold < 5; threshold++ {
			results := check_RunCompare(t, positions, nil, dir, hexChain(3), threshold)
			//
			for i, p := range positions {
				points := grid.Line(p, dir, int(threshold)+1)
				assert.Equal(t, fits(occupied, grid.Pos{}, points), results[i], "%s >= %d at %s", dir, threshold, p)
			}
		}
	}
}

func Test_RunCompare_03(t *testing.T) {
	assert.Equal(t, uint(4), Rounds(1))
	assert.Equal(t, uint(6), Rounds(2))
	assert.Equal(t, uint(18), Rounds(8))
}

// The number of rounds depends on the width of the counter, not on the
// threshold.
func Test_RunCompare_04(t *testing.T) {
	n := 16
	positions := grid.Line(grid.Pos{}, grid.NE, n)
	chain := NewChain(grid.Pos{}, grid.NE, uint(n))
	//
	for _, threshold := range []uint{0, 3, 15, 1000, 1<<16 - 1} {
		results := check_RunCompare(t, positions, nil, grid.NE, chain, threshold)
		//
		for i, r := range results {
			assert.Equal(t, uint(n-1-i) >= threshold, r, "threshold %d at %d", threshold, i)
		}
	}
}

// The counter chain need not be part of the runs being measured.
func Test_RunCompare_05(t *testing.T) {
	positions := grid.Hex(grid.Pos{}, 2)
	members := map[grid.Pos]bool{}
	// Only the middle row takes part
	for _, p := range positions {
		members[p] = p.Y == 0
	}
	//
	results := check_RunCompare(t, positions, members, grid.E, hexChain(2), 3)
	//
	for i, p := range positions {
		assert.Equal(t, p.Y == 0 && p.X <= -1, results[i], "at %s", p)
	}
}

func Test_Parallelogram_00(t *testing.T) {
	positions := holeyHex()
	chain := hexChain(3)
	//
	for a := uint(0); a < 4; a++ {
		for d := uint(0); d < 3; d++ {
			poly := shape.Polygon{W: grid.E, H: grid.NW, Bottom: a, Height: d, RightUp: d}
			check_Search(t, positions, 1, placements(poly.Points()),
				func(p *sim.Particle, shared *pasc.PASC2) *Parallelogram {
					o := NewParallelogram(p, shared)
					o.Init(grid.E, grid.NW, chain.Link(p.Pos()), chain.Bit(p.Pos(), a), chain.Bit(p.Pos(), d))
					//
					return o
				}, func(o *Parallelogram, _ uint) bool { return o.IsRepresentative() })
		}
	}
}

func Test_MergingAlgo_00(t *testing.T) {
	polygons := []shape.Polygon{
		// Triangles
		{W: grid.E, H: grid.NE, Bottom: 2, Height: 2},
		{W: grid.SW, H: grid.SE, Bottom: 3, Height: 3},
		// Trapezoid
		{W: grid.NE, H: grid.E, Bottom: 3, Height: 2},
		// Pentagon
		{W: grid.W, H: grid.SW, Bottom: 2, Height: 3, RightUp: 1},
		// Hexagons
		{W: grid.E, H: grid.NE, Bottom: 1, Height: 2, LeftOut: 1, RightUp: 1},
		{W: grid.NW, H: grid.W, Bottom: 2, Height: 3, LeftOut: 2, RightUp: 1},
	}
	//
	for _, poly := range polygons {
		check_MergingAlgo(t, holeyHex(), hexChain(3), poly)
	}
}

// A polygon which is too large has no placement.
func Test_MergingAlgo_01(t *testing.T) {
	poly := shape.Polygon{W: grid.E, H: grid.NE, Bottom: 7, Height: 7}
	searches := check_MergingAlgo(t, grid.Hex(grid.Pos{}, 2), hexChain(2), poly)
	//
	for _, o := range searches {
		assert.False(t, o.Success())
	}
}

func Test_ConvexShape_00(t *testing.T) {
	// A triangle and a line leaving the origin in opposite directions
	constituents := []shape.Polygon{
		{W: grid.E, H: grid.NE, Bottom: 1, Height: 1},
		{W: grid.W, H: grid.NW, Bottom: 2, Height: 0},
	}
	//
	var points []grid.Pos
	for _, c := range constituents {
		points = append(points, c.Points()...)
	}
	//
	searches := check_Search(t, holeyHex(), Rotations, placements(points),
		func(p *sim.Particle, shared *pasc.PASC2) *ConvexShape {
			o := NewConvexShape(p, shared)
			o.Init(hexChain(3).Link(p.Pos()), constituents)
			//
			return o
		}, (*ConvexShape).IsRepresentative)
	//
	for _, o := range searches {
		assert.True(t, o.Success())
	}
}

func Test_ConvexShape_01(t *testing.T) {
	desc, err := shape.FromJson([]byte(`{"constituents": [
		{"shapeType": 3, "directionW": 4, "directionH": 6, "a": 1, "d": 2, "c": 1, "a2": 2, "a3": 2},
		{"shapeType": 1, "directionW": 8, "directionH": 10, "a": 1, "d": 0}
	]}`))
	assert.True(t, err == nil, err)
	//
	var (
		constituents []shape.Polygon
		points       []grid.Pos
	)
	//
	for _, c := range desc.Constituents {
		poly, err := c.Polygon()
		assert.True(t, err == nil, err)
		constituents = append(constituents, poly)
		points = append(points, poly.Points()...)
	}
	//
	check_Search(t, holeyHex(), Rotations, placements(points),
		func(p *sim.Particle, shared *pasc.PASC2) *ConvexShape {
			o := NewConvexShape(p, shared)
			o.Init(hexChain(3).Link(p.Pos()), constituents)
			//
			return o
		}, (*ConvexShape).IsRepresentative)
}

func Test_NodeShape_00(t *testing.T) {
	// A hook: three nodes east, then two north-west
	g := &shape.Graph{
		Nodes: []shape.Node{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 2}},
		Edges: []shape.Edge{{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3}, {U: 3, V: 4}},
	}
	assert.True(t, g.Validate() == nil)
	//
	check_Search(t, holeyHex(), Rotations, placements(g.Offsets()),
		func(p *sim.Particle, shared *pasc.PASC2) *NodeShape {
			o := NewNodeShape(p, shared)
			o.Init(g)
			//
			return o
		}, (*NodeShape).IsRepresentative)
}

func Test_NodeShape_01(t *testing.T) {
	// The origin is not the first node of the edge list, and edges form a cycle
	g := &shape.Graph{
		Nodes: []shape.Node{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}, {X: 0, Y: 1}},
		Edges: []shape.Edge{{U: 1, V: 2}, {U: 2, V: 0}, {U: 0, V: 1}, {U: 3, V: 0}},
	}
	assert.True(t, g.Validate() == nil)
	//
	searches := check_Search(t, holeyHex(), Rotations, placements(g.Offsets()),
		func(p *sim.Particle, shared *pasc.PASC2) *NodeShape {
			o := NewNodeShape(p, shared)
			o.Init(g)
			//
			return o
		}, (*NodeShape).IsRepresentative)
	// Node 0 is the root of the spanning tree
	for _, o := range searches {
		for r := uint(0); r < Rotations; r++ {
			assert.Equal(t, o.IsRepresentative(r), o.NodeFits(0, r))
		}
	}
}

func Test_Snowflake_00(t *testing.T) {
	desc := &shape.Description{DependencyTree: []shape.Snowflake{
		{Arms: [6]int{1, 0, 0, 0, 0, 0}},
		{Arms: [6]int{2, 0, 0, 1, 0, 0}, Children: []shape.Child{{ChildIdx: 0, Direction: 0, Distance: 1, Rotation: 1}}},
	}}
	assert.True(t, desc.Validate() == nil)
	//
	check_Snowflake(t, desc, 1)
}

func Test_Snowflake_01(t *testing.T) {
	desc := &shape.Description{DependencyTree: []shape.Snowflake{
		{Arms: [6]int{1, 0, 0, 0, 0, 0}},
		{Arms: [6]int{1, 0, 0, 0, 0, 1}},
		{Arms: [6]int{0, 1, 0, 1, 0, 0}, Children: []shape.Child{
			{ChildIdx: 0, Direction: 1, Distance: 0, Rotation: 2},
			{ChildIdx: 1, Direction: 3, Distance: 0, Rotation: 0},
		}},
	}}
	assert.True(t, desc.Validate() == nil)
	//
	check_Snowflake(t, desc, 1)
	check_Snowflake(t, desc, 2)
}

// Arm lengths and child distances are multiplied by the scale factor.
func Test_Snowflake_02(t *testing.T) {
	desc := &shape.Description{DependencyTree: []shape.Snowflake{
		{Arms: [6]int{1, 0, 0, 0, 0, 0}},
		{Arms: [6]int{2, 0, 0, 0, 0, 0}, Children: []shape.Child{{ChildIdx: 0, Direction: 0, Distance: 1, Rotation: 2}}},
	}}
	assert.True(t, desc.Validate() == nil)
	//
	for scale := uint(1); scale <= 4; scale++ {
		check_Snowflake(t, desc, scale)
	}
}

// The compiled program does not depend on the scale factor, and neither do
// the comparisons: without shifts, a much larger scale factor only costs a
// longer multiplication.
func Test_Snowflake_03(t *testing.T) {
	tree := []shape.Snowflake{
		{Arms: [6]int{1, 0, 0, 0, 0, 0}},
		{Arms: [6]int{2, 0, 0, 0, 0, 0}, Children: []shape.Child{{ChildIdx: 0, Direction: 0, Distance: 0, Rotation: 0}}},
	}
	n := 8
	positions := grid.Line(grid.Pos{}, grid.E, n)
	chain := NewChain(grid.Pos{}, grid.E, uint(n))
	//
	run := func(scale uint) (int, int) {
		sys := sim.NewSystem(4, 0)
		assert.True(t, sys.Add(positions...) == nil)
		//
		searches := make([]*Snowflake, n)
		//
		sys.Bind(func(p *sim.Particle) sim.Algorithm {
			searches[p.ID()] = NewSnowflake(p, pasc.New2(p))
			searches[p.ID()].Init(tree, chain.Link(p.Pos()), chain.Bit(p.Pos(), scale))
			//
			return searches[p.ID()]
		})
		//
		size := len(searches[0].code)
		rounds, err := sys.Run(100000)
		assert.True(t, err == nil, err)
		// A line of 8 particles only holds the smallest scale
		for _, o := range searches {
			assert.Equal(t, scale <= 3, o.Success(), "scale %d", scale)
		}
		//
		return size, rounds
	}
	//
	size, rounds := run(1)
	//
	for _, scale := range []uint{3, 50, 100} {
		s, r := run(scale)
		assert.Equal(t, size, s, "instructions for scale %d", scale)
		assert.True(t, r < rounds+2*int(Rounds(uint(n))), "%d rounds for scale %d, %d for scale 1", r, scale, rounds)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

// holeyHex returns a hexagon of radius 3 with two holes.
func holeyHex() []grid.Pos {
	var positions []grid.Pos
	//
	for _, p := range grid.Hex(grid.Pos{}, 3) {
		if p != (grid.Pos{X: 1, Y: 0}) && p != (grid.Pos{X: -1, Y: 2}) {
			positions = append(positions, p)
		}
	}
	//
	return positions
}

// hexChain lays out a counter chain along the bottom row of a hexagon.
func hexChain(radius int) Chain {
	return NewChain(grid.Pos{X: 0, Y: -radius}, grid.E, uint(radius)+1)
}

func occupancy(positions []grid.Pos) map[grid.Pos]bool {
	occupied := make(map[grid.Pos]bool, len(positions))
	for _, p := range positions {
		occupied[p] = true
	}
	//
	return occupied
}

// fits determines whether the given points, shifted to the origin, are all
// occupied.
func fits(occupied map[grid.Pos]bool, origin grid.Pos, points []grid.Pos) bool {
	for _, p := range points {
		if !occupied[origin.Add(p)] {
			return false
		}
	}
	//
	return true
}

// placements returns a reference deciding whether a shape, given by its points
// relative to its anchor, fits at a position in a given rotation.
func placements(points []grid.Pos) func(occupied map[grid.Pos]bool, origin grid.Pos, rotation uint) bool {
	return func(occupied map[grid.Pos]bool, origin grid.Pos, rotation uint) bool {
		rotated := make([]grid.Pos, len(points))
		for i, p := range points {
			rotated[i] = p.Rotate(int(rotation))
		}
		//
		return fits(occupied, origin, rotated)
	}
}

func check_RunCompare(t *testing.T, positions []grid.Pos, members map[grid.Pos]bool, dir grid.Direction,
	chain Chain, threshold uint) []bool {
	sys := sim.NewSystem(4, 0)
	assert.True(t, sys.Add(positions...) == nil)
	//
	compares := make([]*RunCompare, len(positions))
	//
	sys.Bind(func(p *sim.Particle) sim.Algorithm {
		compares[p.ID()] = NewRunCompare(p, pasc.New2(p))
		compares[p.ID()].Init(members == nil || members[p.Pos()], dir, chain.Link(p.Pos()), chain.Bit(p.Pos(), threshold))
		//
		return compares[p.ID()]
	})
	//
	rounds, err := sys.Run(100)
	assert.True(t, err == nil, err)
	assert.Equal(t, int(Rounds(chain.Len())), rounds)
	//
	results := make([]bool, len(compares))
	for i, c := range compares {
		results[i] = c.Result()
	}
	//
	return results
}

func check_MergingAlgo(t *testing.T, positions []grid.Pos, chain Chain, poly shape.Polygon) []*MergingAlgo {
	return check_Search(t, positions, 1, placements(poly.Points()),
		func(p *sim.Particle, shared *pasc.PASC2) *MergingAlgo {
			o := NewMergingAlgo(p, shared)
			o.Init(chain.Link(p.Pos()), poly)
			//
			return o
		}, func(o *MergingAlgo, _ uint) bool { return o.IsRepresentative() })
}

func check_Snowflake(t *testing.T, desc *shape.Description, scale uint) []*Snowflake {
	root, err := desc.Root()
	assert.True(t, err == nil, err)
	//
	chain := hexChain(4)
	//
	return check_Search(t, grid.Hex(grid.Pos{}, 4), Rotations, placements(desc.SnowflakePoints(root, scale)),
		func(p *sim.Particle, shared *pasc.PASC2) *Snowflake {
			o := NewSnowflake(p, shared)
			o.Init(desc.DependencyTree, chain.Link(p.Pos()), chain.Bit(p.Pos(), scale))
			//
			return o
		}, (*Snowflake).IsRepresentative)
}

type placementSearch interface {
	sim.Algorithm
	Success() bool
}

// check_Search runs a placement search on the given particles and compares the
// representatives of every rotation with the reference.
func check_Search[T placementSearch](t *testing.T, positions []grid.Pos, rotations uint,
	reference func(map[grid.Pos]bool, grid.Pos, uint) bool, construct func(*sim.Particle, *pasc.PASC2) T,
	representative func(T, uint) bool) []T {
	sys := sim.NewSystem(4, 0)
	assert.True(t, sys.Add(positions...) == nil)
	//
	occupied := occupancy(positions)
	searches := make([]T, len(positions))
	//
	sys.Bind(func(p *sim.Particle) sim.Algorithm {
		searches[p.ID()] = construct(p, pasc.New2(p))
		return searches[p.ID()]
	})
	//
	_, err := sys.Run(100000)
	assert.True(t, err == nil, err)
	//
	found := false
	//
	for i, p := range positions {
		for r := uint(0); r < rotations; r++ {
			expected := reference(occupied, p, r)
			found = found || expected
			assert.Equal(t, expected, representative(searches[i], r), "rotation %d at %s", r, p)
		}
	}
	//
	for _, o := range searches {
		assert.Equal(t, found, o.Success())
	}
	//
	return searches
}
