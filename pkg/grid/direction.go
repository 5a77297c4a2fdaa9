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

import (
	"fmt"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/collection/bit"
)

// Direction identifies one of the six neighbours of a node in the triangular
// grid, counted counter-clockwise starting east.  None is used as the "no
// predecessor" / "no successor" sentinel.
type Direction uint8

const (
	// E points east.
	E Direction = iota
	// NE points north-east.
	NE
	// NW points north-west.
	NW
	// W points west.
	W
	// SW points south-west.
	SW
	// SE points south-east.
	SE
	// None is the absence of a direction.
	None
)

// Directions lists the six real directions in counter-clockwise order.
var Directions = [6]Direction{E, NE, NW, W, SW, SE}

var names = [7]string{"E", "NE", "NW", "W", "SW", "SE", "-"}

// IsValid determines whether this is one of the six real directions.
func (d Direction) IsValid() bool {
	return d < None
}

// Opposite returns the direction rotated by 180°.  None is its own opposite.
func (d Direction) Opposite() Direction {
	return d.Rotate(3)
}

// Rotate returns this direction rotated counter-clockwise by the given number
// of 60° steps (negative values rotate clockwise).
func (d Direction) Rotate(steps int) Direction {
	if !d.IsValid() {
		return None
	}
	//
	return Direction(((int(d)+steps)%6 + 6) % 6)
}

// Distance returns the number of 60° counter-clockwise steps needed to rotate
// this direction onto the other one (between 0 and 5).
func (d Direction) Distance(other Direction) int {
	if !d.IsValid() || !other.IsValid() {
		panic("distance of undefined direction")
	}
	//
	return ((int(other)-int(d))%6 + 6) % 6
}

// Turn returns the signed number of 60° turns taken when travelling in this
// direction and then continuing in the other, normalised to -2..+3.
func (d Direction) Turn(other Direction) int {
	turn := d.Distance(other)
	if turn > 3 {
		turn -= 6
	}
	//
	return turn
}

// Vector returns the axial offset of the neighbour in this direction.
func (d Direction) Vector() Pos {
	switch d {
	case E:
		return Pos{1, 0}
	case NE:
		return Pos{0, 1}
	case NW:
		return Pos{-1, 1}
	case W:
		return Pos{-1, 0}
	case SW:
		return Pos{0, -1}
	case SE:
		return Pos{1, -1}
	}
	//
	return Pos{0, 0}
}

// FromCompass converts a direction of the 12-point compass used by shape
// descriptions (east = 0, counter-clockwise in 30° steps) into a grid
// direction.  Only the six cardinal (even) compass directions are grid
// directions.
func FromCompass(c int) (Direction, error) {
	if c < 0 || c >= 12 || c%2 != 0 {
		return None, fmt.Errorf("compass direction %d is not a grid direction", c)
	}
	//
	return Direction(c / 2), nil
}

func (d Direction) String() string {
	if d > None {
		return fmt.Sprintf("?%d", uint8(d))
	}
	//
	return names[d]
}

// DirectionField stores a direction (or None) in three bits of a register.
type DirectionField struct {
	field bit.IntField
}

// NewDirectionField allocates a direction field from the given layout.
func NewDirectionField(layout *bit.Layout) DirectionField {
	return DirectionField{layout.Int(3)}
}

// Get reads the direction.
func (f DirectionField) Get() Direction {
	v := Direction(f.field.Get())
	if v > None {
		return None
	}
	//
	return v
}

// Set writes the direction.
func (f DirectionField) Set(d Direction) {
	if d > None {
		d = None
	}
	//
	f.field.Set(uint32(d))
}
