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
package leader

import (
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/collection/bit"
	log "github.com/sirupsen/logrus"
)

// DefaultKappa is the default number of repetitions.
const DefaultKappa = 3

// MaxKappaSC is the largest number of repetitions supported by ElectionSC.
const MaxKappaSC = 8

// Partition set identifiers.
const (
	psHeads = iota
	psTails
	psHelperHeads
	psHelperTails
)

// election holds the state shared by both election variants.  Main candidates
// repeatedly run contests.  Since a single contest cannot tell whether only
// one candidate remains, every particle also takes part in a helper election,
// whose length estimates the logarithm of the system size.  The election
// finishes once kappa helper elections have completed without any main contest
// seeing both outcomes in the meantime.
type election struct {
	particle circuit.Particle
	coin     circuit.Coin
	reg      bit.Register
	main     Contest
	helper   Contest
	reps     bit.IntField
	kappa    bit.IntField
	failed   bit.BoolField
	finished bit.BoolField
}

func (e *election) alloc(p circuit.Particle, coin circuit.Coin, width uint) *bit.Layout {
	layout := bit.NewLayout(&e.reg)
	e.particle = p
	e.coin = coin
	e.main = NewContest(layout)
	e.helper = NewContest(layout)
	e.reps = layout.Int(width)
	e.kappa = layout.Int(width)
	e.failed = layout.Bool()
	e.finished = layout.Bool()
	//
	return layout
}

func (e *election) reset(candidate bool, kappa int) {
	limit := int(1<<e.kappa.Width()) - 1
	//
	if kappa < 1 || kappa > limit {
		log.Errorf("invalid number of repetitions %d, using %d", kappa, max(1, min(kappa, limit)))
		kappa = max(1, min(kappa, limit))
	}
	//
	e.reg.Reset()
	e.main.SetCandidate(candidate)
	e.helper.SetCandidate(true)
	e.kappa.Set(uint32(kappa))
}

// afterMain processes the outcome of a main contest and returns whether it was
// clean, i.e. whether all remaining candidates tossed the same outcome.
func (e *election) afterMain(heads, tails bool) bool {
	switch {
	case !heads && !tails:
		log.Errorf("leader election has no candidates")
		e.failed.Set(true)
		e.finished.Set(true)
	case heads && tails:
		e.reps.Set(0)
		e.helper.SetCandidate(true)
		//
		return false
	}
	//
	return true
}

// afterHelper processes the outcome of a helper contest.
func (e *election) afterHelper(heads, tails bool) {
	if heads && tails {
		return
	}
	// Helper election completed (or all helpers agreed)
	e.reps.Set(e.reps.Get() + 1)
	e.helper.SetCandidate(true)
	//
	if e.reps.Get() >= e.kappa.Get() {
		e.finished.Set(true)
	}
}

// IsFinished determines whether the election has terminated.
func (e *election) IsFinished() bool {
	return e.finished.Get()
}

// IsLeader determines whether this particle was elected.  This is only
// meaningful once the election has finished.
func (e *election) IsLeader() bool {
	return e.finished.Get() && !e.failed.Get() && e.main.IsCandidate()
}

// IsCandidate determines whether this particle is still a main candidate.
func (e *election) IsCandidate() bool {
	return e.main.IsCandidate()
}

// Failed determines whether the election ended without any candidate.
func (e *election) Failed() bool {
	return e.failed.Get()
}

// Election is the classic two level election.  Main and helper contests take
// turns on the same two global circuits, so it only needs two pins per edge.
type Election struct {
	election
	helperRound bit.BoolField
}

// NewElection constructs an election for the given particle which tosses the
// given coin.
func NewElection(p circuit.Particle, coin circuit.Coin) *Election {
	e := &Election{}
	layout := e.alloc(p, coin, 8)
	e.helperRound = layout.Bool()
	//
	return e
}

// Init resets the election.  Candidates compete for leadership; kappa
// determines the number of repetitions.
func (e *Election) Init(candidate bool, kappa int) {
	e.reset(candidate, kappa)
}

// SetupPC plans two global circuits.
func (e *Election) SetupPC(pc circuit.PinConfiguration) {
	circuit.SetToGlobal(pc, psHeads, 0)
	circuit.SetToGlobal(pc, psTails, 1)
}

// ActivateSend lets the candidates of the current contest toss their coins.
func (e *Election) ActivateSend() {
	if e.helperRound.Get() {
		e.helper.Send(e.particle, e.coin, psHeads, psTails)
	} else {
		e.main.Send(e.particle, e.coin, psHeads, psTails)
	}
}

// ActivateReceive processes the outcome of the current contest.
func (e *Election) ActivateReceive() {
	if e.helperRound.Get() {
		e.afterHelper(e.helper.Receive(e.particle, psHeads, psTails))
		e.helperRound.Set(false)
	} else {
		e.afterMain(e.main.Receive(e.particle, psHeads, psTails))
		e.helperRound.Set(true)
	}
}

// ElectionSC runs main and helper contests in the same round on four global
// circuits, halving the number of rounds of Election.  Its repetition counter
// is limited to MaxKappaSC.
type ElectionSC struct {
	election
}

// NewElectionSC constructs an election for the given particle which tosses the
// given coin.  It requires at least four pins per edge.
func NewElectionSC(p circuit.Particle, coin circuit.Coin) *ElectionSC {
	e := &ElectionSC{}
	e.alloc(p, coin, 4)
	//
	return e
}

// Init resets the election.  Candidates compete for leadership; kappa
// determines the number of repetitions and must not exceed MaxKappaSC.
func (e *ElectionSC) Init(candidate bool, kappa int) {
	e.reset(candidate, ClampKappaSC(kappa))
}

// ClampKappaSC limits a number of repetitions to the range supported by
// ElectionSC, reporting values outside of it.
func ClampKappaSC(kappa int) int {
	if clamped := max(1, min(kappa, MaxKappaSC)); clamped != kappa {
		log.Errorf("invalid number of repetitions %d, using %d", kappa, clamped)
		return clamped
	}
	//
	return kappa
}

// SetupPC plans four global circuits.
func (e *ElectionSC) SetupPC(pc circuit.PinConfiguration) {
	circuit.SetToGlobal(pc, psHeads, 0)
	circuit.SetToGlobal(pc, psTails, 1)
	circuit.SetToGlobal(pc, psHelperHeads, 2)
	circuit.SetToGlobal(pc, psHelperTails, 3)
}

// ActivateSend lets main and helper candidates toss their coins.
func (e *ElectionSC) ActivateSend() {
	e.main.Send(e.particle, e.coin, psHeads, psTails)
	e.helper.Send(e.particle, e.coin, psHelperHeads, psHelperTails)
}

// ActivateReceive processes the outcome of both contests.  A helper contest
// only counts if the main contest of the same round was clean.
func (e *ElectionSC) ActivateReceive() {
	heads, tails := e.helper.Receive(e.particle, psHelperHeads, psHelperTails)
	//
	if e.afterMain(e.main.Receive(e.particle, psHeads, psTails)) && !e.finished.Get() {
		e.afterHelper(heads, tails)
	}
}
