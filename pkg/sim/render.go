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
package sim

import (
	"io"
	"math"
	"strings"
)

// Render writes a textual picture of the system.  Every particle is drawn as
// the character returned by label, rows of the grid are offset by half a cell
// so neighbouring particles appear adjacent.  Lines are clipped to the given
// width.
func (s *System) Render(w io.Writer, width int, label func(p *Particle) byte) error {
	if len(s.particles) == 0 {
		return nil
	}
	//
	minCol, maxCol := math.MaxInt, math.MinInt
	minY, maxY := math.MaxInt, math.MinInt
	//
	for _, p := range s.particles {
		col := 2*p.pos.X + p.pos.Y
		minCol, maxCol = min(minCol, col), max(maxCol, col)
		minY, maxY = min(minY, p.pos.Y), max(maxY, p.pos.Y)
	}
	//
	cols := min(maxCol-minCol+1, max(width, 1))
	//
	for y := maxY; y >= minY; y-- {
		line := []byte(strings.Repeat(" ", cols))
		//
		for _, p := range s.particles {
			col := 2*p.pos.X + p.pos.Y - minCol
			if p.pos.Y == y && col < cols {
				line[col] = label(p)
			}
		}
		//
		if _, err := io.WriteString(w, strings.TrimRight(string(line), " ")+"\n"); err != nil {
			return err
		}
	}
	//
	return nil
}
