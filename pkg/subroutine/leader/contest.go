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
)

// Contest is a single round of coin toss elimination.  Every candidate tosses
// a coin and beeps on the heads or the tails circuit accordingly.  Candidates
// which tossed tails withdraw if both circuits carried a beep, so at least one
// candidate always survives.
type Contest struct {
	candidate bit.BoolField
	heads     bit.BoolField
}

// NewContest allocates the state of a contest from the given layout.
func NewContest(layout *bit.Layout) Contest {
	return Contest{layout.Bool(), layout.Bool()}
}

// IsCandidate determines whether this particle still takes part.
func (c Contest) IsCandidate() bool {
	return c.candidate.Get()
}

// SetCandidate enters (or removes) this particle into the contest.
func (c Contest) SetCandidate(v bool) {
	c.candidate.Set(v)
}

// Send tosses a coin (for candidates only) and beeps the outcome.
func (c Contest) Send(p circuit.Particle, coin circuit.Coin, psHeads, psTails int) {
	if !c.candidate.Get() {
		return
	}
	//
	heads := coin.Toss()
	c.heads.Set(heads)
	//
	if heads {
		p.SendBeepOnPartitionSet(psHeads)
	} else {
		p.SendBeepOnPartitionSet(psTails)
	}
}

// Receive reads which outcomes were tossed and withdraws this particle if it
// lost.
func (c Contest) Receive(p circuit.Particle, psHeads, psTails int) (heads, tails bool) {
	heads = p.ReceivedBeepOnPartitionSet(psHeads)
	tails = p.ReceivedBeepOnPartitionSet(psTails)
	//
	if heads && tails && c.candidate.Get() && !c.heads.Get() {
		c.candidate.Set(false)
	}
	//
	return heads, tails
}
