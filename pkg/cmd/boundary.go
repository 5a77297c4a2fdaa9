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
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/boundary"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/leader"
	"github.com/spf13/cobra"
)

var boundaryCmd = &cobra.Command{
	Use:   "boundary [flags]",
	Short: "identify the boundaries of a hexagon.",
	Long: `Identify the boundaries of a hexagon of particles, optionally with a
	hole in its centre.  The leader of every boundary is marked with O (outer
	boundary) or I (inner boundary); other boundary particles with #.`,
	Run: func(cmd *cobra.Command, args []string) {
		radius := GetInt(cmd, "radius")
		kappa := GetInt(cmd, "kappa")
		positions := grid.Hex(grid.Pos{}, radius)
		//
		if GetFlag(cmd, "hole") {
			positions = positions[1:]
		}
		//
		sys := newSystem(cmd, positions)
		tests := make([]*boundary.BoundaryTest, len(positions))
		//
		sys.Bind(func(p *sim.Particle) sim.Algorithm {
			tests[p.ID()] = boundary.New(p, p.Coin())
			tests[p.ID()].Init(kappa)
			//
			return tests[p.ID()]
		})
		//
		runSystem(cmd, sys)
		//
		for _, p := range sys.Particles() {
			o := tests[p.ID()]
			//
			for i := 0; i < o.NumBoundaries(); i++ {
				if o.IsLeader(i) {
					fmt.Printf("leader of %s boundary at %s\n", side(o.IsOuter(i)), p.Pos())
				}
			}
		}
		//
		fmt.Printf("inner boundary exists: %t\n", tests[0].InnerBoundaryExists())
		render(cmd, sys, func(p *sim.Particle) byte { return boundaryLabel(tests[p.ID()]) })
	},
}

func side(outer bool) string {
	if outer {
		return "outer"
	}
	//
	return "inner"
}

func boundaryLabel(o *boundary.BoundaryTest) byte {
	label := byte('.')
	//
	for i := 0; i < o.NumBoundaries(); i++ {
		switch {
		case o.IsLeader(i) && o.IsOuter(i):
			return 'O'
		case o.IsLeader(i):
			return 'I'
		default:
			label = '#'
		}
	}
	//
	return label
}

func init() {
	rootCmd.AddCommand(boundaryCmd)
	boundaryCmd.Flags().Int("radius", 3, "radius of the hexagon")
	boundaryCmd.Flags().Int("kappa", leader.DefaultKappa, "number of clean helper contests required")
	boundaryCmd.Flags().Bool("hole", false, "remove the centre of the hexagon")
}
