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
	"strings"
	"testing"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/assert"
)

// lineBeeper connects a single lane across all edges; one particle beeps.
type lineBeeper struct {
	p      *Particle
	lane   int
	beeper bool
	rounds int
	heard  []bool
}

func (a *lineBeeper) ActivateReceive() {
	a.heard = append(a.heard, a.p.ReceivedBeepOnPartitionSet(0))
}

func (a *lineBeeper) SetupPC(pc circuit.PinConfiguration) {
	circuit.SetToGlobal(pc, 0, a.lane)
}

func (a *lineBeeper) ActivateSend() {
	if a.beeper && len(a.heard) == 0 {
		a.p.SendBeepOnPartitionSet(0)
	}
}

func (a *lineBeeper) IsFinished() bool {
	return len(a.heard) >= a.rounds
}

func Test_System_00(t *testing.T) {
	sys := NewSystem(2, 1)
	assert.True(t, sys.Add(grid.Line(grid.Pos{X: 0, Y: 0}, grid.E, 4)...) == nil)
	assert.True(t, sys.Add(grid.Pos{X: 2, Y: 0}) != nil)
	//
	sys.Bind(func(p *Particle) Algorithm {
		return &lineBeeper{p: p, lane: 1, beeper: p.ID() == 3, rounds: 2}
	})
	//
	rounds, err := sys.Run(10)
	assert.True(t, err == nil)
	assert.Equal(t, 2, rounds)
	// Only the first round carries a beep.
	for _, p := range sys.Particles() {
		assert.Equal(t, []bool{true, false}, p.Algorithm().(*lineBeeper).heard)
	}
}

// Lanes are continuous across edges in every direction.
func Test_System_01(t *testing.T) {
	sys := NewSystem(4, 1)
	assert.True(t, sys.Add(grid.Hex(grid.Pos{X: 0, Y: 0}, 1)...) == nil)
	//
	sys.Bind(func(p *Particle) Algorithm {
		return &lineBeeper{p: p, lane: 2, beeper: p.Pos() == grid.Pos{X: 1, Y: -1}, rounds: 1}
	})
	//
	_, err := sys.Run(5)
	assert.True(t, err == nil)
	//
	for _, p := range sys.Particles() {
		assert.Equal(t, []bool{true}, p.Algorithm().(*lineBeeper).heard)
	}
}

// Disconnected partition sets do not carry beeps.
type pairBeeper struct {
	p     *Particle
	done  bool
	heard [2]bool
}

func (a *pairBeeper) ActivateReceive() {
	a.heard = [2]bool{a.p.ReceivedBeepOnPartitionSet(0), a.p.ReceivedBeepOnPartitionSet(1)}
	a.done = true
}

func (a *pairBeeper) SetupPC(pc circuit.PinConfiguration) {
	k := pc.PinsPerEdge()
	// East edge on set 0, west edge on set 1.
	pc.MakePartitionSet(0, circuit.LanePin(grid.E, 0, k))
	pc.MakePartitionSet(1, circuit.LanePin(grid.W, 0, k))
}

func (a *pairBeeper) ActivateSend() {
	if a.p.ID() == 0 {
		a.p.SendBeepOnPartitionSet(0)
	}
}

func (a *pairBeeper) IsFinished() bool {
	return a.done
}

func Test_System_02(t *testing.T) {
	sys := NewSystem(2, 1)
	assert.True(t, sys.Add(grid.Line(grid.Pos{X: 0, Y: 0}, grid.E, 3)...) == nil)
	sys.Bind(func(p *Particle) Algorithm { return &pairBeeper{p: p} })
	//
	_, err := sys.Run(3)
	assert.True(t, err == nil)
	//
	heard := func(i int) [2]bool { return sys.Particles()[i].Algorithm().(*pairBeeper).heard }
	assert.Equal(t, [2]bool{true, false}, heard(0))
	assert.Equal(t, [2]bool{false, true}, heard(1))
	assert.Equal(t, [2]bool{false, false}, heard(2))
}

// Beeping or receiving outside of the proper phase is a usage error.
func Test_System_03(t *testing.T) {
	sys := NewSystem(2, 1)
	assert.True(t, sys.Add(grid.Pos{X: 0, Y: 0}) == nil)
	//
	p := sys.Particles()[0]
	//
	assert.Panics(t, func() { p.SendBeepOnPartitionSet(0) })
	assert.Panics(t, func() { p.ReceivedBeepOnPartitionSet(0) })
}

func Test_System_04(t *testing.T) {
	sys := NewSystem(2, 1)
	assert.True(t, sys.Add(grid.Pos{X: 0, Y: 0}) == nil)
	sys.Bind(func(p *Particle) Algorithm { return &lineBeeper{p: p, rounds: 100} })
	//
	_, err := sys.Run(3)
	assert.True(t, err != nil)
}

// countingBeeper records how often its receive phase is entered.
type countingBeeper struct {
	p        *Particle
	receives int
	heard    bool
}

func (a *countingBeeper) ActivateReceive() {
	a.receives++
	a.heard = a.p.ReceivedBeepOnPartitionSet(0)
}

func (a *countingBeeper) SetupPC(pc circuit.PinConfiguration) {
	circuit.SetToGlobal(pc, 0, 0)
}

func (a *countingBeeper) ActivateSend() {
	if a.p.ID() == 0 {
		a.p.SendBeepOnPartitionSet(0)
	}
}

func (a *countingBeeper) IsFinished() bool {
	return false
}

// A second receive phase without setup and send in between does not deliver
// the same beeps again.
func Test_System_05(t *testing.T) {
	sys := NewSystem(2, 1)
	assert.True(t, sys.Add(grid.Line(grid.Pos{X: 0, Y: 0}, grid.E, 3)...) == nil)
	sys.Bind(func(p *Particle) Algorithm { return &countingBeeper{p: p} })
	//
	sys.Step()
	sys.receive()
	sys.receive()
	//
	for _, p := range sys.Particles() {
		a := p.Algorithm().(*countingBeeper)
		assert.Equal(t, 1, a.receives)
		assert.True(t, a.heard)
	}
	// Reading the consumed beeps directly is a usage error
	sys.phase = phaseReceive
	assert.Panics(t, func() { sys.Particles()[1].ReceivedBeepOnPartitionSet(0) })
	sys.phase = phaseIdle
	// The next round delivers beeps again
	sys.Step()
	sys.receive()
	//
	for _, p := range sys.Particles() {
		assert.Equal(t, 2, p.Algorithm().(*countingBeeper).receives)
	}
}

func Test_Render_00(t *testing.T) {
	sys := NewSystem(2, 1)
	assert.True(t, sys.Add(grid.Pos{X: 0, Y: 0}, grid.Pos{X: 1, Y: 0}, grid.Pos{X: 0, Y: 1}) == nil)
	//
	var out strings.Builder
	//
	err := sys.Render(&out, 80, func(p *Particle) byte { return 'o' })
	assert.True(t, err == nil)
	assert.Equal(t, " o\no o\n", out.String())
}
