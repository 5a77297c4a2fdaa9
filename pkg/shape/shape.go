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
package shape

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
)

// Node is a node of a shape in axial grid coordinates.
type Node struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pos returns the grid position of this node.
func (n Node) Pos() grid.Pos {
	return grid.Pos{X: n.X, Y: n.Y}
}

// Edge joins two (adjacent) nodes, identified by index.
type Edge struct {
	U int `json:"u"`
	V int `json:"v"`
}

// Face is a triangle of three nodes, identified by index.
type Face struct {
	U int `json:"u"`
	V int `json:"v"`
	W int `json:"w"`
}

// Graph is the node/edge/face representation of a shape.  Node 0 is the
// origin of the shape, i.e. the node which a placement is anchored at.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Faces []Face `json:"faces"`
}

// Child attaches a snowflake to an arm of its parent.  The child's origin lies
// on the parent arm in the given direction, at the given distance from the
// parent's origin, and the child is rotated counter-clockwise by the given
// number of 60° steps relative to its parent.  The child is swept along the
// arm edge following that position.
type Child struct {
	ChildIdx  int `json:"childIdx"`
	Direction int `json:"direction"`
	Distance  int `json:"distance"`
	Rotation  int `json:"rotation"`
}

// Snowflake is one node of a dependency tree: a star of (up to) six arms
// leaving an origin, with further snowflakes attached to them.
type Snowflake struct {
	Arms     [6]int  `json:"arms"`
	Children []Child `json:"children"`
}

// Description is a shape as exported by the shape creator.  Depending on how
// it was built, constituents (star convex shapes) or a dependency tree
// (snowflakes) accompany the shape graph.  Dependency trees are given in
// topological order: every child precedes its parents, so the last entry is the
// root.
type Description struct {
	Shape          Graph         `json:"shape"`
	Constituents   []Constituent `json:"constituents"`
	DependencyTree []Snowflake   `json:"dependencyTree"`
}

// FromJson reads a shape description from a set of bytes representing its JSON
// encoding, and checks it is well-formed.
func FromJson(bytes []byte) (*Description, error) {
	var desc Description
	//
	if err := json.Unmarshal(bytes, &desc); err != nil {
		return nil, err
	}
	//
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	//
	return &desc, nil
}

// ReadFile reads a shape description from a given JSON file.
func ReadFile(filename string) (*Description, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	desc, err := FromJson(bytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return desc, nil
}

// Validate checks the description is internally consistent.
func (d *Description) Validate() error {
	if err := d.Shape.Validate(); err != nil {
		return err
	}
	//
	for i, c := range d.Constituents {
		if _, err := c.Polygon(); err != nil {
			return fmt.Errorf("constituent %d: %w", i, err)
		}
	}
	//
	for i, sf := range d.DependencyTree {
		if err := sf.validate(i); err != nil {
			return fmt.Errorf("snowflake %d: %w", i, err)
		}
	}
	//
	return nil
}

// Validate checks that edges and faces refer to existing nodes, that no two
// nodes coincide, that edges join adjacent nodes and that the graph is
// connected.
func (g *Graph) Validate() error {
	seen := make(map[grid.Pos]int, len(g.Nodes))
	//
	for i, n := range g.Nodes {
		if j, ok := seen[n.Pos()]; ok {
			return fmt.Errorf("nodes %d and %d coincide at %s", j, i, n.Pos())
		}
		//
		seen[n.Pos()] = i
	}
	//
	for i, e := range g.Edges {
		if !g.has(e.U) || !g.has(e.V) {
			return fmt.Errorf("edge %d (%d,%d) refers to unknown node", i, e.U, e.V)
		} else if g.Nodes[e.U].Pos().DirectionTo(g.Nodes[e.V].Pos()) == grid.None {
			return fmt.Errorf("edge %d joins non-adjacent nodes %d and %d", i, e.U, e.V)
		}
	}
	//
	for i, f := range g.Faces {
		if !g.has(f.U) || !g.has(f.V) || !g.has(f.W) {
			return fmt.Errorf("face %d (%d,%d,%d) refers to unknown node", i, f.U, f.V, f.W)
		}
	}
	//
	if _, parent := g.SpanningTree(); len(g.Nodes) > 0 {
		for i, p := range parent {
			if i != 0 && p < 0 {
				return fmt.Errorf("node %d is not connected to the origin", i)
			}
		}
	}
	//
	return nil
}

func (g *Graph) has(node int) bool {
	return node >= 0 && node < len(g.Nodes)
}

// Offsets returns the positions of all nodes relative to node 0.
func (g *Graph) Offsets() []grid.Pos {
	if len(g.Nodes) == 0 {
		return nil
	}
	//
	origin := g.Nodes[0].Pos()
	offsets := make([]grid.Pos, len(g.Nodes))
	//
	for i, n := range g.Nodes {
		offsets[i] = grid.Pos{X: n.X - origin.X, Y: n.Y - origin.Y}
	}
	//
	return offsets
}

// SpanningTree computes a breadth-first spanning tree of the node graph rooted
// at node 0.  It returns the nodes in the order they were reached, and the
// parent of every node (-1 for the root and for unreachable nodes).
func (g *Graph) SpanningTree() (order []int, parent []int) {
	n := len(g.Nodes)
	parent = make([]int, n)
	adjacent := make([][]int, n)
	//
	for i := range parent {
		parent[i] = -1
	}
	//
	for _, e := range g.Edges {
		if g.has(e.U) && g.has(e.V) {
			adjacent[e.U] = append(adjacent[e.U], e.V)
			adjacent[e.V] = append(adjacent[e.V], e.U)
		}
	}
	//
	if n == 0 {
		return nil, parent
	}
	//
	visited := make([]bool, n)
	visited[0] = true
	order = []int{0}
	//
	for i := 0; i < len(order); i++ {
		node := order[i]
		//
		for _, next := range adjacent[node] {
			if !visited[next] {
				visited[next] = true
				parent[next] = node
				order = append(order, next)
			}
		}
	}
	//
	return order, parent
}

func (sf *Snowflake) validate(index int) error {
	for d, arm := range sf.Arms {
		if arm < 0 {
			return fmt.Errorf("arm %d has negative length %d", d, arm)
		}
	}
	//
	for _, c := range sf.Children {
		switch {
		case c.ChildIdx < 0 || c.ChildIdx >= index:
			return fmt.Errorf("child %d does not precede its parent", c.ChildIdx)
		case c.Direction < 0 || c.Direction >= 6:
			return fmt.Errorf("invalid child direction %d", c.Direction)
		case c.Rotation < 0 || c.Rotation >= 6:
			return fmt.Errorf("invalid child rotation %d", c.Rotation)
		case c.Distance < 0 || c.Distance >= sf.Arms[c.Direction]:
			return fmt.Errorf("child %d at distance %d lies outside arm %d", c.ChildIdx, c.Distance, c.Direction)
		}
	}
	//
	return nil
}

// Root returns the index of the root snowflake of the dependency tree.
func (d *Description) Root() (int, error) {
	if len(d.DependencyTree) == 0 {
		return 0, errors.New("shape has no dependency tree")
	}
	//
	return len(d.DependencyTree) - 1, nil
}

// SnowflakePoints returns the positions covered by the given snowflake of the
// dependency tree when its arms are scaled by the given factor, relative to
// its origin and without rotation.
func (d *Description) SnowflakePoints(index int, scale uint) []grid.Pos {
	covered := make(map[grid.Pos]bool)
	d.cover(covered, index, grid.Pos{}, 0, int(scale))
	//
	points := make([]grid.Pos, 0, len(covered))
	for p := range covered {
		points = append(points, p)
	}
	//
	return points
}

func (d *Description) cover(covered map[grid.Pos]bool, index int, origin grid.Pos, rot int, scale int) {
	sf := &d.DependencyTree[index]
	covered[origin] = true
	//
	for i, arm := range sf.Arms {
		dir := grid.Direction(i).Rotate(rot)
		for k := 1; k <= arm*scale; k++ {
			covered[origin.Step(dir, k)] = true
		}
	}
	//
	for _, c := range sf.Children {
		dir := grid.Direction(c.Direction).Rotate(rot)
		//
		for k := c.Distance * scale; k <= (c.Distance+1)*scale; k++ {
			d.cover(covered, c.ChildIdx, origin.Step(dir, k), (rot+c.Rotation)%6, scale)
		}
	}
}
