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
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/pasc"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/collection/bit"
	"github.com/spf13/cobra"
)

var pascCmd = &cobra.Command{
	Use:   "pasc [flags]",
	Short: "compute the rank of every particle of a line.",
	Long: `Run the PASC procedure along a line of particles, led by its western
	end.  Every particle reconstructs its distance to the leader from the bits
	it receives.`,
	Run: func(cmd *cobra.Command, args []string) {
		n := int(max(GetUint(cmd, "length"), 1))
		rounds := bit.WidthOf(uint(n - 1))
		positions := grid.Line(grid.Pos{}, grid.E, n)
		sys := newSystem(cmd, positions)
		runs := make([]*pascRun, n)
		//
		sys.Bind(func(p *sim.Particle) sim.Algorithm {
			i := p.ID()
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
			runs[i] = &pascRun{PASC: pasc.New(p), rounds: rounds}
			runs[i].Init(i == 0, pred, succ, pasc.ChainPins(pred, succ, p.PinsPerEdge()), 0, 1, true)
			//
			return runs[i]
		})
		//
		runSystem(cmd, sys)
		//
		for i, r := range runs {
			fmt.Printf("particle %d: rank %d\n", i, r.rank)
		}
		//
		render(cmd, sys, func(p *sim.Particle) byte { return digit(int(runs[p.ID()].rank % 10)) })
	},
}

// pascRun runs PASC for a fixed number of rounds and accumulates the received
// bits.
type pascRun struct {
	*pasc.PASC
	rounds uint
	round  uint
	rank   uint
}

func (o *pascRun) ActivateReceive() {
	o.PASC.ActivateReceive()
	//
	if o.GetReceivedBit() {
		o.rank |= 1 << o.round
	}
	//
	o.round++
}

func (o *pascRun) IsFinished() bool {
	return o.round >= o.rounds
}

func init() {
	rootCmd.AddCommand(pascCmd)
	pascCmd.Flags().Uint("length", 8, "number of particles in the line")
}
