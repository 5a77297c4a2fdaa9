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
	"fmt"
	"math/rand/v2"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	log "github.com/sirupsen/logrus"
)

// Algorithm is the per-particle state machine driven by a System.  Every
// round the system calls ActivateReceive (interpreting the beeps of the
// previous round), then SetupPC (planning this round's circuits) and, once all
// configurations are committed, ActivateSend.
type Algorithm interface {
	ActivateReceive()
	SetupPC(pc circuit.PinConfiguration)
	ActivateSend()
	IsFinished() bool
}

type phase uint8

const (
	phaseIdle phase = iota
	phaseReceive
	phaseSetup
	phaseSend
)

// System is a finite set of particles on the triangular grid which execute
// their algorithms in lock-step synchronous rounds.
type System struct {
	pinsPerEdge int
	seed        uint64
	particles   []*Particle
	index       map[grid.Pos]*Particle
	round       int
	phase       phase
}

// NewSystem constructs an empty system with the given number of pins per edge.
// Coin tosses of all particles are derived from the seed.
func NewSystem(pinsPerEdge int, seed uint64) *System {
	if pinsPerEdge < 1 {
		panic(fmt.Sprintf("invalid number of pins per edge (%d)", pinsPerEdge))
	}
	//
	return &System{pinsPerEdge, seed, nil, make(map[grid.Pos]*Particle), 0, phaseIdle}
}

// Add places new particles onto the given nodes.
func (s *System) Add(positions ...grid.Pos) error {
	for _, pos := range positions {
		if _, ok := s.index[pos]; ok {
			return fmt.Errorf("node %s is already occupied", pos.String())
		}
		//
		id := len(s.particles)
		rng := rand.New(rand.NewPCG(s.seed, uint64(id)))
		p := &Particle{system: s, id: id, pos: pos, coin: &coin{rng}}
		s.particles = append(s.particles, p)
		s.index[pos] = p
	}
	//
	return nil
}

// Particles returns all particles in the order they were added.
func (s *System) Particles() []*Particle {
	return s.particles
}

// At returns the particle occupying the given node, or nil.
func (s *System) At(pos grid.Pos) *Particle {
	return s.index[pos]
}

// PinsPerEdge returns the number of pins on each edge.
func (s *System) PinsPerEdge() int {
	return s.pinsPerEdge
}

// Round returns the number of rounds executed so far.
func (s *System) Round() int {
	return s.round
}

// Bind attaches an algorithm to every particle, constructed by the given
// function.
func (s *System) Bind(fn func(p *Particle) Algorithm) {
	for _, p := range s.particles {
		p.algo = fn(p)
	}
}

// Finished determines whether every bound algorithm has finished.
func (s *System) Finished() bool {
	for _, p := range s.particles {
		if p.algo != nil && !p.algo.IsFinished() {
			return false
		}
	}
	//
	return true
}

// Run executes rounds until all algorithms have finished, returning the
// number of rounds executed.  An error is returned if the algorithms have not
// finished after the given number of rounds.
func (s *System) Run(maxRounds int) (int, error) {
	start := s.round
	//
	for {
		s.receive()
		//
		if s.Finished() {
			log.Debugf("system finished after %d rounds", s.round-start)
			return s.round - start, nil
		} else if s.round-start >= maxRounds {
			return s.round - start, fmt.Errorf("algorithms did not finish within %d rounds", maxRounds)
		}
		//
		s.setupAndSend()
	}
}

// Step executes a single round: beeps of the previous round are received,
// then circuits are planned, committed and beeped on.
func (s *System) Step() {
	s.receive()
	s.setupAndSend()
}

func (s *System) receive() {
	s.phase = phaseReceive
	defer func() { s.phase = phaseIdle }()
	//
	if s.round == 0 {
		return
	}
	//
	for _, p := range s.particles {
		if p.algo != nil && p.current != nil && !p.algo.IsFinished() {
			p.algo.ActivateReceive()
		}
		// Beeps are consumed once per round
		p.current = nil
	}
}

func (s *System) setupAndSend() {
	s.phase = phaseSetup
	//
	for _, p := range s.particles {
		p.planned = newPinConfig(s.pinsPerEdge)
		//
		if p.algo != nil && !p.algo.IsFinished() {
			p.algo.SetupPC(p.planned)
		}
	}
	// Commit
	for _, p := range s.particles {
		p.current, p.planned = p.planned, nil
		p.beeped.ClearAll()
	}
	//
	s.phase = phaseSend
	//
	for _, p := range s.particles {
		if p.algo != nil && !p.algo.IsFinished() {
			p.algo.ActivateSend()
		}
	}
	//
	s.propagate()
	s.phase = phaseIdle
	s.round++
}

type node struct {
	particle int
	set      int
}

// propagate determines the circuits formed by the committed configurations and
// records, for every partition set, whether its circuit carried a beep.
func (s *System) propagate() {
	var (
		ids     = make(map[node]int)
		nodes   []node
		parents []int
	)
	//
	for _, p := range s.particles {
		for id := range p.current.sets {
			n := node{p.id, id}
			ids[n] = len(nodes)
			nodes = append(nodes, n)
			parents = append(parents, len(parents))
		}
	}
	//
	find := func(i int) int {
		for parents[i] != i {
			parents[i] = parents[parents[i]]
			i = parents[i]
		}
		//
		return i
	}
	// Join partition sets connected by touching pins.
	for _, p := range s.particles {
		for pin, id := range p.current.owner {
			q := p.Neighbour(pin.Dir)
			if q == nil {
				continue
			}
			//
			other := circuit.Pin{Dir: pin.Dir.Opposite(), Offset: s.pinsPerEdge - 1 - pin.Offset}
			//
			if qid, ok := q.current.owner[other]; ok {
				a, b := find(ids[node{p.id, id}]), find(ids[node{q.id, qid}])
				parents[a] = b
			}
		}
	}
	//
	beeping := make(map[int]bool)
	//
	for _, p := range s.particles {
		for id, ok := p.beeped.NextSet(0); ok; id, ok = p.beeped.NextSet(id + 1) {
			beeping[find(ids[node{p.id, int(id)}])] = true
		}
	}
	//
	for _, p := range s.particles {
		p.heard.ClearAll()
	}
	//
	for i, n := range nodes {
		if beeping[find(i)] {
			s.particles[n.particle].heard.Set(uint(n.set))
		}
	}
}
