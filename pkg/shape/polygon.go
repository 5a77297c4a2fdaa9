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
	"fmt"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
)

// Kind identifies the type of a constituent.
type Kind uint8

const (
	// Triangle of side length a.
	Triangle Kind = iota
	// Parallelogram with sides a (along W) and d (along H).  Lines are
	// parallelograms with d = 0.
	Parallelogram
	// Trapezoid with base a and height d.
	Trapezoid
	// Pentagon with base a, height d and a right side rising c rows before it
	// bends inwards.
	Pentagon
)

func (k Kind) String() string {
	switch k {
	case Triangle:
		return "triangle"
	case Parallelogram:
		return "parallelogram"
	case Trapezoid:
		return "trapezoid"
	case Pentagon:
		return "pentagon"
	}
	//
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Constituent is one of the convex polygons a star convex shape is composed
// of.  All constituents share the shape's origin as a corner.  Directions are
// given on the 12-point compass; A2 and A3 are derived values stored for
// pentagons (a+c and a+1) and are not needed here.
type Constituent struct {
	ShapeType  Kind `json:"shapeType"`
	DirectionW int  `json:"directionW"`
	DirectionH int  `json:"directionH"`
	A          int  `json:"a"`
	D          int  `json:"d"`
	C          int  `json:"c"`
	A2         int  `json:"a2"`
	A3         int  `json:"a3"`
}

// Polygon converts this constituent into the row representation.
func (c *Constituent) Polygon() (Polygon, error) {
	var poly Polygon
	//
	w, err := grid.FromCompass(c.DirectionW)
	if err != nil {
		return poly, err
	}
	//
	h, err := grid.FromCompass(c.DirectionH)
	if err != nil {
		return poly, err
	}
	//
	if c.A < 0 || c.D < 0 || c.C < 0 {
		return poly, fmt.Errorf("%s has negative side length", c.ShapeType)
	}
	//
	a, d := uint(c.A), uint(c.D)
	//
	switch c.ShapeType {
	case Triangle:
		poly = Polygon{w, h, a, a, 0, 0}
	case Parallelogram:
		poly = Polygon{w, h, a, d, 0, d}
	case Trapezoid:
		poly = Polygon{w, h, a, d, 0, 0}
	case Pentagon:
		poly = Polygon{w, h, a, d, 0, uint(c.C)}
	default:
		return poly, fmt.Errorf("unknown constituent type %d", c.ShapeType)
	}
	//
	return poly, poly.Validate()
}

// Polygon is a convex polygon of the triangular grid anchored at its bottom
// left corner, described row by row.  Row j (0 <= j <= Height) consists of the
// nodes i*W + j*H for Offset(j) <= i <= Offset(j) + Length(j).  The left side
// leans outwards for the first LeftOut rows and then rises parallel to H; the
// right side rises parallel to H for the first RightUp rows and then leans
// inwards.  Triangles, parallelograms, trapezoids, pentagons and hexagons are
// all polygons of this form.
type Polygon struct {
	// W is the direction of the rows.
	W grid.Direction
	// H is the direction in which rows are stacked, adjacent to W.
	H grid.Direction
	// Bottom is the length of row 0.
	Bottom uint
	// Height is the index of the topmost row.
	Height uint
	// LeftOut is the number of rows the left side leans outwards.
	LeftOut uint
	// RightUp is the number of rows the right side rises straight.
	RightUp uint
}

// Validate checks the directions are adjacent and every row is non-empty.
func (p Polygon) Validate() error {
	if !p.W.IsValid() || !p.H.IsValid() {
		return fmt.Errorf("invalid polygon directions %s/%s", p.W, p.H)
	} else if turn := p.W.Turn(p.H); turn != 1 && turn != -1 {
		return fmt.Errorf("polygon directions %s/%s are not adjacent", p.W, p.H)
	}
	//
	for j := uint(0); j <= p.Height; j++ {
		if p.end(j) < p.Offset(j) {
			return fmt.Errorf("row %d of polygon is empty", j)
		}
	}
	//
	return nil
}

// Offset returns the (non-positive) index of the first node in row j.
func (p Polygon) Offset(j uint) int {
	return -int(min(j, p.LeftOut))
}

// Length returns the number of steps from the first to the last node of row j.
func (p Polygon) Length(j uint) uint {
	return uint(p.end(j) - p.Offset(j))
}

func (p Polygon) end(j uint) int {
	if j <= p.RightUp {
		return int(p.Bottom)
	}
	//
	return int(p.Bottom) - int(j-p.RightUp)
}

// Shift returns the direction leading from the first node of row j to the
// first node of row j+1.
func (p Polygon) Shift(j uint) grid.Direction {
	if j < p.LeftOut {
		// Away from W
		return p.H.Rotate(p.W.Turn(p.H))
	}
	//
	return p.H
}

// Rotate returns this polygon rotated counter-clockwise by the given number of
// 60° steps.
func (p Polygon) Rotate(steps int) Polygon {
	p.W = p.W.Rotate(steps)
	p.H = p.H.Rotate(steps)
	//
	return p
}

// Points returns the nodes of this polygon relative to its anchor.
func (p Polygon) Points() []grid.Pos {
	var points []grid.Pos
	//
	for j := uint(0); j <= p.Height; j++ {
		row := grid.Pos{}.Step(p.H, int(j))
		//
		for i := p.Offset(j); i <= p.end(j); i++ {
			points = append(points, row.Step(p.W, i))
		}
	}
	//
	return points
}
