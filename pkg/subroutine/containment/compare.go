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
package containment

import (
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/pasc"
)

type compareState uint8

const (
	// Members find out which of their neighbours along the run are members.
	compareProbe compareState = iota
	// The next bit of the threshold is streamed from the counter chain.
	compareStream
	// PASC along every run, compared with the bit just streamed.
	comparePASC
	// Ranks beyond the counter's width are detected.
	compareCutoff
	compareDone
)

// Partition sets used in the probe round.
const (
	psBeepAhead = iota
	psHearBehind
	psBeepBehind
	psHearAhead
)

// Partition sets of the PASC runs.
const (
	psPrimary   = 0
	psSecondary = 1
)

// RunCompare determines, for every member particle, whether at least a given
// number of consecutive members follow it in a given direction.  The members
// along each line of the direction form maximal runs; the last member of a
// run (the one without a member neighbour in the direction) leads a PASC
// instance along the run, so every member learns its distance to the end of its
// run.  The threshold is a counter on the counter chain.  It is streamed to
// all particles in alternation with the PASC rounds, so that each distance bit
// is compared with the matching threshold bit as soon as PASC produces it.  A
// final cutoff round catches distances beyond the counter's width.
//
// The PASC instance is shared with the caller and must not be used by anyone
// else while the comparison runs.  It requires four pins per edge.
type RunCompare struct {
	particle  circuit.Particle
	pasc      *pasc.PASC2
	stream    stream
	state     compareState
	member    bool
	dir       grid.Direction
	threshold bool
	result    circuit.Result
}

// NewRunCompare constructs a comparison for the given particle which uses the
// given PASC instance.
func NewRunCompare(p circuit.Particle, shared *pasc.PASC2) *RunCompare {
	return &RunCompare{particle: p, pasc: shared, stream: stream{particle: p}}
}

// Init resets the comparison.  All particles must agree on the direction.
// Elements of the counter chain supply their bit of the threshold.
func (o *RunCompare) Init(member bool, dir grid.Direction, link Link, threshold bool) {
	o.state = compareProbe
	o.member = member
	o.dir = dir
	o.threshold = threshold
	o.result = circuit.Undecided
	o.stream.init(link)
}

// SetupPC plans the circuits of the current round.
func (o *RunCompare) SetupPC(pc circuit.PinConfiguration) {
	if o.state == compareStream {
		o.stream.setupPC(pc)
		return
	} else if !o.member {
		return
	}
	//
	k := pc.PinsPerEdge()
	ahead, behind := o.dir, o.dir.Opposite()
	//
	switch o.state {
	case compareProbe:
		pc.MakePartitionSet(psBeepAhead, circuit.LanePin(ahead, 0, k))
		pc.MakePartitionSet(psHearBehind, circuit.LanePin(behind, 0, k))
		pc.MakePartitionSet(psBeepBehind, circuit.LanePin(behind, 1, k))
		pc.MakePartitionSet(psHearAhead, circuit.LanePin(ahead, 1, k))
	case comparePASC:
		o.pasc.SetupPC(pc)
	case compareCutoff:
		o.pasc.SetupCutoffCircuit(pc)
	}
}

// ActivateSend emits the beeps of the current round.
func (o *RunCompare) ActivateSend() {
	if o.state == compareStream {
		o.stream.send(o.threshold)
		return
	} else if !o.member {
		return
	}
	//
	switch o.state {
	case compareProbe:
		o.particle.SendBeepOnPartitionSet(psBeepAhead)
		o.particle.SendBeepOnPartitionSet(psBeepBehind)
	case comparePASC:
		o.pasc.ActivateSend()
	case compareCutoff:
		o.pasc.SendCutoffBeep()
	}
}

// ActivateReceive processes the beeps of the previous round.  Non-members
// only keep track of the stream.
func (o *RunCompare) ActivateReceive() {
	switch o.state {
	case compareProbe:
		if o.member {
			o.receiveProbe()
		}
		//
		o.state = compareStream
	case compareStream:
		o.stream.receive()
		o.state = comparePASC
	case comparePASC:
		if o.member {
			o.pasc.ActivateReceive()
			o.result = o.result.Observe(o.pasc.GetReceivedBit(), o.stream.bit)
		}
		//
		if o.stream.last {
			o.state = compareCutoff
		} else {
			o.state = compareStream
		}
	case compareCutoff:
		if o.member && o.pasc.ReceiveCutoffBeep() {
			o.result = circuit.Greater
		}
		//
		o.state = compareDone
	}
}

func (o *RunCompare) receiveProbe() {
	pred, succ := grid.None, grid.None
	//
	if o.particle.ReceivedBeepOnPartitionSet(psHearAhead) {
		pred = o.dir
	}
	//
	if o.particle.ReceivedBeepOnPartitionSet(psHearBehind) {
		succ = o.dir.Opposite()
	}
	//
	o.pasc.Init(pred == grid.None, pasc.ChainRoles(pred, succ), 0, 1, psPrimary, psSecondary, true)
}

// IsFinished determines whether the comparison has terminated.
func (o *RunCompare) IsFinished() bool {
	return o.state == compareDone
}

// Result determines whether this particle is a member followed by at least
// threshold further members.
func (o *RunCompare) Result() bool {
	return o.member && o.result != circuit.Less
}

// Rounds returns the number of rounds a comparison takes with a counter chain
// of the given length.
func Rounds(chain uint) uint {
	return 2*chain + 2
}
