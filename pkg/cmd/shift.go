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
package cmd

import (
	"fmt"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/sim"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/segshift"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/collection/bit"
	"github.com/spf13/cobra"
)

var shiftCmd = &cobra.Command{
	Use:   "shift [flags]",
	Short: "move a marked segment of a line.",
	Long: `Move the segment [start, end] of a line of particles the given number of
	particles eastwards.  The distance is stored along the line, least
	significant bit at its western end.`,
	Run: func(cmd *cobra.Command, args []string) {
		start, end, distance := GetUint(cmd, "start"), GetUint(cmd, "end"), GetUint(cmd, "distance")
		n := max(GetUint(cmd, "length"), bit.WidthOf(distance), 1)
		sys := newSystem(cmd, grid.Line(grid.Pos{}, grid.E, int(n)))
		shifts := make([]*segshift.SegmentShift, n)
		//
		sys.Bind(func(p *sim.Particle) sim.Algorithm {
			i := uint(p.ID())
			pred, succ := grid.W, grid.E
			//
			if i == 0 {
				pred = grid.None
			}
			//
			if i == n-1 {
				succ = grid.None
			}
			//
			shifts[i] = segshift.New(p)
			shifts[i].Init(start <= i && i <= end, pred, succ, bit.Test(distance, i))
			//
			return shifts[i]
		})
		//
		runSystem(cmd, sys)
		//
		render(cmd, sys, func(p *sim.Particle) byte {
			if shifts[p.ID()].IsMarked() {
				return '#'
			}
			//
			return '.'
		})
		//
		fmt.Printf("segment [%d,%d] shifted by %d\n", start, end, distance)
	},
}

func init() {
	rootCmd.AddCommand(shiftCmd)
	shiftCmd.Flags().Uint("length", 16, "number of particles in the line")
	shiftCmd.Flags().Uint("start", 2, "first marked particle")
	shiftCmd.Flags().Uint("end", 5, "last marked particle")
	shiftCmd.Flags().Uint("distance", 3, "number of particles to move the segment by")
}
