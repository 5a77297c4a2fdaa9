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
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/leader"
	"github.com/spf13/cobra"
)

var leaderCmd = &cobra.Command{
	Use:   "leader [flags]",
	Short: "elect a leader among the particles of a hexagon.",
	Run: func(cmd *cobra.Command, args []string) {
		radius := GetInt(cmd, "radius")
		kappa := GetInt(cmd, "kappa")
		sc := GetFlag(cmd, "sc")
		sys := newSystem(cmd, grid.Hex(grid.Pos{}, radius))
		elections := make([]election, len(sys.Particles()))
		//
		sys.Bind(func(p *sim.Particle) sim.Algorithm {
			if sc {
				e := leader.NewElectionSC(p, p.Coin())
				e.Init(true, kappa)
				elections[p.ID()] = e
			} else {
				e := leader.NewElection(p, p.Coin())
				e.Init(true, kappa)
				elections[p.ID()] = e
			}
			//
			return elections[p.ID()]
		})
		//
		runSystem(cmd, sys)
		//
		for _, p := range sys.Particles() {
			if elections[p.ID()].IsLeader() {
				fmt.Printf("leader at %s\n", p.Pos())
			}
		}
		//
		render(cmd, sys, func(p *sim.Particle) byte {
			if elections[p.ID()].IsLeader() {
				return 'L'
			}
			//
			return 'o'
		})
	},
}

type election interface {
	sim.Algorithm
	IsLeader() bool
}

func init() {
	rootCmd.AddCommand(leaderCmd)
	leaderCmd.Flags().Int("radius", 3, "radius of the hexagon")
	leaderCmd.Flags().Int("kappa", leader.DefaultKappa, "number of clean helper contests required")
	leaderCmd.Flags().Bool("sc", false, "use the variant with four global circuits")
}
