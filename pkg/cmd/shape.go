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
	"os"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/shape"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/sim"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/containment"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/pasc"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/collection/bit"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var shapeCmd = &cobra.Command{
	Use:   "shape [flags] shape_file",
	Short: "find all placements of a shape within a hexagon.",
	Long: `Find all placements of a shape (as exported by the shape creator) within
	a hexagon of particles.  Snowflakes are searched for via their dependency
	tree, star convex shapes via their constituents and all other shapes node by
	node.  Counters (side lengths and the scale factor) are kept on a chain
	along the bottom row of the hexagon.  Representatives are labelled with the
	first rotation they admit.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		desc, err := shape.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		radius := max(GetInt(cmd, "radius"), 0)
		positions := grid.Hex(grid.Pos{}, radius)
		chain := containment.NewChain(grid.Pos{X: 0, Y: -radius}, grid.E, uint(radius)+1)
		scale := GetUint(cmd, "scale")
		//
		if bit.WidthOf(scale) > chain.Len() {
			fmt.Printf("scale %d does not fit a counter of %d bits\n", scale, chain.Len())
			os.Exit(2)
		}
		//
		sys := newSystem(cmd, positions)
		searches := make([]placement, len(positions))
		construct := searchFor(desc, chain, scale)
		//
		sys.Bind(func(p *sim.Particle) sim.Algorithm {
			searches[p.ID()] = construct(p)
			return searches[p.ID()]
		})
		//
		runSystem(cmd, sys)
		fmt.Printf("placement found: %t\n", searches[0].Success())
		//
		render(cmd, sys, func(p *sim.Particle) byte {
			for r := uint(0); r < containment.Rotations; r++ {
				if searches[p.ID()].IsRepresentative(r) {
					return digit(int(r))
				}
			}
			//
			return '.'
		})
	},
}

type placement interface {
	sim.Algorithm
	Success() bool
	IsRepresentative(rotation uint) bool
}

// searchFor selects the most specific search applicable to a shape.
func searchFor(desc *shape.Description, chain containment.Chain, scale uint) func(p *sim.Particle) placement {
	switch {
	case len(desc.DependencyTree) > 0:
		log.Debugf("searching for snowflake with %d nodes", len(desc.DependencyTree))
		//
		return func(p *sim.Particle) placement {
			o := containment.NewSnowflake(p, pasc.New2(p))
			o.Init(desc.DependencyTree, chain.Link(p.Pos()), chain.Bit(p.Pos(), scale))
			//
			return o
		}
	case len(desc.Constituents) > 0:
		var constituents []shape.Polygon
		// Constituents have been validated already
		for _, c := range desc.Constituents {
			poly, _ := c.Polygon()
			constituents = append(constituents, poly)
		}
		//
		log.Debugf("searching for star convex shape with %d constituents", len(constituents))
		//
		return func(p *sim.Particle) placement {
			o := containment.NewConvexShape(p, pasc.New2(p))
			o.Init(chain.Link(p.Pos()), constituents)
			//
			return o
		}
	default:
		log.Debugf("searching for shape with %d nodes", len(desc.Shape.Nodes))
		//
		return func(p *sim.Particle) placement {
			o := containment.NewNodeShape(p, pasc.New2(p))
			o.Init(&desc.Shape)
			//
			return o
		}
	}
}

func init() {
	rootCmd.AddCommand(shapeCmd)
	shapeCmd.Flags().Int("radius", 4, "radius of the hexagon")
	shapeCmd.Flags().Uint("scale", 1, "scale factor of snowflakes")
}
