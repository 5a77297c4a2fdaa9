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
package grid

import "fmt"

// Pos is a node of the triangular grid in axial coordinates: x grows towards
// E and y grows towards NE.
type Pos struct {
	X, Y int
}

// Add returns the component-wise sum of two positions.
func (p Pos) Add(q Pos) Pos {
	return Pos{p.X + q.X, p.Y + q.Y}
}

// Scale multiplies both coordinates by the given factor.
func (p Pos) Scale(k int) Pos {
	return Pos{p.X * k, p.Y * k}
}

// Neighbour returns the adjacent node in the given direction.
func (p Pos) Neighbour(d Direction) Pos {
	return p.Add(d.Vector())
}

// Step returns the node reached by moving n steps in direction d.
func (p Pos) Step(d Direction, n int) Pos {
	return p.Add(d.Vector().Scale(n))
}

// Rotate rotates a position (interpreted as an offset from the origin)
// counter-clockwise by the given number of 60° steps.
func (p Pos) Rotate(steps int) Pos {
	x := E.Rotate(steps).Vector()
	y := NE.Rotate(steps).Vector()
	//
	return x.Scale(p.X).Add(y.Scale(p.Y))
}

// DirectionTo returns the direction of an adjacent node, or None if the two
// nodes are not adjacent.
func (p Pos) DirectionTo(q Pos) Direction {
	for _, d := range Directions {
		if p.Neighbour(d) == q {
			return d
		}
	}
	//
	return None
}

// Hex returns all nodes within the given grid distance of the centre, in
// ring order starting with the centre itself.
func Hex(centre Pos, radius int) []Pos {
	nodes := []Pos{centre}
	//
	for r := 1; r <= radius; r++ {
		nodes = append(nodes, Ring(centre, r)...)
	}
	//
	return nodes
}

// Ring returns the nodes at exactly the given grid distance from the centre,
// walking counter-clockwise starting with the node r steps east.
func Ring(centre Pos, r int) []Pos {
	if r == 0 {
		return []Pos{centre}
	}
	//
	nodes := make([]Pos, 0, 6*r)
	node := centre.Step(E, r)
	//
	for _, d := range Directions {
		for i := 0; i < r; i++ {
			nodes = append(nodes, node)
			node = node.Neighbour(d.Rotate(2))
		}
	}
	//
	return nodes
}

// Line returns n consecutive nodes starting at the given one and walking in
// direction d.
func Line(start Pos, d Direction, n int) []Pos {
	nodes := make([]Pos, n)
	//
	for i := range nodes {
		nodes[i] = start.Step(d, i)
	}
	//
	return nodes
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
