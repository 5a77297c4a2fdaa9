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

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/sim"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/binops"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/collection/bit"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare [flags]",
	Short: "compare two numbers stored along a chain.",
	Run: func(cmd *cobra.Command, args []string) {
		a, b, n := operands(cmd, 0)
		ops := runChain(cmd, a, b, n, binops.NewComparison)
		//
		fmt.Printf("%d is %s %d\n", a, ops[0].Result(), b)
	},
}

var addCmd = &cobra.Command{
	Use:   "add [flags]",
	Short: "add two numbers stored along a chain.",
	Run: func(cmd *cobra.Command, args []string) {
		a, b, n := operands(cmd, 1)
		ops := runChain(cmd, a, b, n, binops.NewAddition)
		//
		fmt.Printf("%d + %d = %d (overflow %t)\n", a, b, decode(ops, (*binops.Addition).C), ops[0].HaveOverflow())
	},
}

var subtractCmd = &cobra.Command{
	Use:   "subtract [flags]",
	Short: "subtract two numbers stored along a chain.",
	Run: func(cmd *cobra.Command, args []string) {
		a, b, n := operands(cmd, 0)
		ops := runChain(cmd, a, b, n, binops.NewSubtraction)
		//
		fmt.Printf("%d - %d = %d (overflow %t)\n", a, b, decode(ops, (*binops.Addition).C), ops[0].HaveOverflow())
	},
}

var multiplyCmd = &cobra.Command{
	Use:   "multiply [flags]",
	Short: "multiply two numbers stored along a chain.",
	Run: func(cmd *cobra.Command, args []string) {
		a, b, _ := operands(cmd, 0)
		n := max(GetUint(cmd, "length"), bit.WidthOf(a)+bit.WidthOf(b))
		ops := runChain(cmd, a, b, n, binops.NewMultiplication)
		//
		fmt.Printf("%d * %d = %d (overflow %t)\n", a, b, decode(ops, (*binops.Multiplication).C),
			ops[0].HaveOverflow())
	},
}

var divideCmd = &cobra.Command{
	Use:   "divide [flags]",
	Short: "divide two numbers stored along a chain.",
	Run: func(cmd *cobra.Command, args []string) {
		a, b, n := operands(cmd, 0)
		//
		if b == 0 || a < b {
			fmt.Println("division requires a >= b > 0")
			return
		}
		//
		ops := runChain(cmd, a, b, n, binops.NewDivision)
		//
		fmt.Printf("%d / %d = %d remainder %d\n", a, b, decode(ops, (*binops.Division).Quotient),
			decode(ops, (*binops.Division).Remainder))
	},
}

type operation interface {
	sim.Algorithm
	Init(a, b bool, pred, succ grid.Direction)
}

// operands reads both operands and determines the chain length needed to hold
// them with the given number of spare bits.
func operands(cmd *cobra.Command, spare uint) (uint, uint, uint) {
	a, b := GetUint(cmd, "a"), GetUint(cmd, "b")
	n := max(GetUint(cmd, "length"), bit.WidthOf(max(a, b))+spare)
	//
	return a, b, n
}

// runChain runs a binary operation on a chain of the given length placed along
// a line, least significant bit first.
func runChain[T operation](cmd *cobra.Command, a, b, n uint, ctor func(circuit.Particle) T) []T {
	sys := newSystem(cmd, grid.Line(grid.Pos{}, grid.E, int(n)))
	ops := make([]T, n)
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
		ops[i] = ctor(p)
		ops[i].Init(bit.Test(a, i), bit.Test(b, i), pred, succ)
		//
		return ops[i]
	})
	//
	runSystem(cmd, sys)
	//
	return ops
}

// decode reads a number distributed along a chain, least significant bit first.
func decode[T any](ops []T, get func(T) bool) uint {
	var value uint
	//
	for i, op := range ops {
		if get(op) {
			value |= 1 << i
		}
	}
	//
	return value
}

func init() {
	for _, c := range []*cobra.Command{compareCmd, addCmd, subtractCmd, multiplyCmd, divideCmd} {
		rootCmd.AddCommand(c)
		c.Flags().Uint("a", 0, "first operand")
		c.Flags().Uint("b", 0, "second operand")
		c.Flags().Uint("length", 0, "length of the chain (0 = as short as possible)")
	}
}
