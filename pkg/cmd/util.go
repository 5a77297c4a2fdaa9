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
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/sim"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetInt gets an expected signed integer, or panic if an error arises.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint64 gets an expected 64bit unsigned integer, or panic if an error
// arises.
func GetUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// newSystem constructs a particle system at the given positions, configured
// by the persistent flags.
func newSystem(cmd *cobra.Command, positions []grid.Pos) *sim.System {
	sys := sim.NewSystem(int(GetUint(cmd, "pins")), GetUint64(cmd, "seed"))
	//
	if err := sys.Add(positions...); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	return sys
}

// runSystem runs a system until all particles have finished, and reports the
// number of rounds this took.
func runSystem(cmd *cobra.Command, sys *sim.System) {
	rounds, err := sys.Run(int(GetUint(cmd, "rounds")))
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	fmt.Printf("finished after %d rounds\n", rounds)
}

// render prints a system, labelling every particle.
func render(cmd *cobra.Command, sys *sim.System, label func(p *sim.Particle) byte) {
	if err := sys.Render(os.Stdout, textWidth(cmd), label); err != nil {
		log.Errorf("rendering failed: %s", err)
	}
}

// textWidth determines the width available for rendering.  Unless given
// explicitly, this is the width of the terminal.
func textWidth(cmd *cobra.Command) int {
	if width := GetUint(cmd, "textwidth"); width != 0 {
		return int(width)
	}
	//
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			return width
		}
	}
	//
	return 130
}

// digit labels a particle with a small number.
func digit(n int) byte {
	if n < 0 || n > 9 {
		return '+'
	}
	//
	return byte('0' + n)
}
