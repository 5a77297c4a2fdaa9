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
	"fmt"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/grid"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/shape"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/binops"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/subroutine/pasc"
	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/collection/bit"
	log "github.com/sirupsen/logrus"
)

// Placement searches are compiled into a straight-line program over one bit
// per slot, executed in lock-step by every particle.  Some slots are counters:
// on the elements of the counter chain they hold one bit of a number, on all
// other particles they are unused.  Local instructions take no rounds; all
// others communicate.
type opcode uint8

const (
	// dst := the run of src members in dir is at least counter long
	opCompare opcode = iota
	// dst := src of the neighbour in dir
	opPull
	// dst := src of the particle counter steps away in dir
	opShift
	// dst := some particle has src set
	opAny
	// counter dst := value
	opLoad
	// counter dst := counter src * counter
	opMultiply
	// dst := src
	opCopy
	// dst := dst && src
	opAnd
	// dst := dst || src
	opOr
)

type instruction struct {
	op       opcode
	dst, src uint
	dir      grid.Direction
	counter  uint
	value    uint
}

func (i instruction) String() string {
	switch i.op {
	case opCompare:
		return fmt.Sprintf("%d := run(%d, %s) >= #%d", i.dst, i.src, i.dir, i.counter)
	case opPull:
		return fmt.Sprintf("%d := %d@%s", i.dst, i.src, i.dir)
	case opShift:
		return fmt.Sprintf("%d := %d@%s*#%d", i.dst, i.src, i.dir, i.counter)
	case opAny:
		return fmt.Sprintf("%d := any(%d)", i.dst, i.src)
	case opLoad:
		return fmt.Sprintf("#%d := %d", i.dst, i.value)
	case opMultiply:
		return fmt.Sprintf("#%d := #%d * #%d", i.dst, i.src, i.counter)
	case opCopy:
		return fmt.Sprintf("%d := %d", i.dst, i.src)
	case opAnd:
		return fmt.Sprintf("%d &= %d", i.dst, i.src)
	case opOr:
		return fmt.Sprintf("%d |= %d", i.dst, i.src)
	}
	//
	return "???"
}

// Slot 0 holds for every particle of the system.
const slotOccupied = 0

// Partition sets of the instructions other than comparisons.  Counter
// operations keep to lanes 0 and 1 of the chain edges, so that lane 3 is free
// for a global circuit reporting whether the operation continues.
const (
	psPullOut   = 0
	psPullIn    = 1
	psBorrowIn  = 2
	psBorrowOut = 3
	psMore      = 4
	psAny       = 0
)

type program struct {
	code      []instruction
	slots     uint
	inputs    map[uint]bool
	constants map[uint]uint
	products  map[[2]uint]uint
	steps     uint
}

func newProgram() *program {
	return &program{
		slots:     slotOccupied + 1,
		inputs:    make(map[uint]bool),
		constants: make(map[uint]uint),
		products:  make(map[[2]uint]uint),
	}
}

// alloc reserves a number of consecutive slots and returns the first.
func (p *program) alloc(n uint) uint {
	slot := p.slots
	p.slots += n
	//
	return slot
}

// input reserves a slot holding the given value when the program starts.  This
// is how chain elements contribute their bits of the counters a search is
// given.
func (p *program) input(value bool) uint {
	slot := p.alloc(1)
	p.inputs[slot] = value
	//
	return slot
}

func (p *program) emit(insn instruction) {
	p.code = append(p.code, insn)
}

// constant returns a counter holding the given value, loading it onto the
// chain when it is first needed.
func (p *program) constant(value uint) uint {
	if slot, ok := p.constants[value]; ok {
		return slot
	}
	//
	slot := p.alloc(1)
	p.constants[value] = slot
	p.emit(instruction{op: opLoad, dst: slot, value: value})
	//
	return slot
}

// scaled returns a counter holding value times the given counter, multiplying
// when the product is first needed.
func (p *program) scaled(value uint, counter uint) uint {
	if value == 1 {
		return counter
	} else if slot, ok := p.products[[2]uint{value, counter}]; ok {
		return slot
	}
	//
	factor := p.constant(value)
	slot := p.alloc(1)
	p.products[[2]uint{value, counter}] = slot
	p.emit(instruction{op: opMultiply, dst: slot, src: counter, counter: factor})
	//
	return slot
}

func (p *program) compare(dst, src uint, dir grid.Direction, counter uint) {
	p.emit(instruction{op: opCompare, dst: dst, src: src, dir: dir, counter: counter})
}

func (p *program) pull(dst, src uint, dir grid.Direction) {
	p.emit(instruction{op: opPull, dst: dst, src: src, dir: dir})
}

// shift transports src against dir by the value of a counter.  The counter is
// counted down on a scratch copy, one step per round.
func (p *program) shift(dst, src uint, dir grid.Direction, counter uint) {
	if p.steps == 0 {
		p.steps = p.alloc(1)
	}
	//
	p.copy(p.steps, counter)
	p.emit(instruction{op: opShift, dst: dst, src: src, dir: dir, counter: p.steps})
}

func (p *program) any(dst, src uint) {
	p.emit(instruction{op: opAny, dst: dst, src: src})
}

func (p *program) copy(dst, src uint) {
	p.emit(instruction{op: opCopy, dst: dst, src: src})
}

func (p *program) and(dst, src uint) {
	p.emit(instruction{op: opAnd, dst: dst, src: src})
}

func (p *program) or(dst, src uint) {
	p.emit(instruction{op: opOr, dst: dst, src: src})
}

// parallelogram computes whether the parallelogram with sides of length a
// along w and d along h fits with its corner at each particle.  The first pass
// finds the particles followed by a row of a further particles, the second
// finds those followed by d further such particles.  Both lengths are
// counters.
func (p *program) parallelogram(dst uint, w, h grid.Direction, a, d uint) {
	rows := p.alloc(1)
	p.compare(rows, slotOccupied, w, a)
	p.compare(dst, rows, h, d)
}

// polygon computes whether a polygon fits with its anchor at each particle.
// Rows are processed from the top down: after processing row j, a particle
// knows whether rows j..Height fit when row j starts at that particle.  This
// is the case if row j itself fits and rows j+1..Height fit when starting at
// the first node of row j+1, whose answer is pulled over a single edge.
func (p *program) polygon(dst uint, poly shape.Polygon) {
	acc, row, above := p.alloc(1), p.alloc(1), p.alloc(1)
	//
	for j := int(poly.Height); j >= 0; j-- {
		p.compare(row, slotOccupied, poly.W, p.constant(poly.Length(uint(j))))
		//
		if j == int(poly.Height) {
			p.copy(acc, row)
			continue
		}
		//
		p.pull(above, acc, poly.Shift(uint(j)))
		p.copy(acc, row)
		p.and(acc, above)
	}
	//
	p.copy(dst, acc)
}

// machine executes a program as a subroutine.
type machine struct {
	particle circuit.Particle
	link     Link
	compare  *RunCompare
	multiply *binops.Multiplication
	code     []instruction
	pc       int
	bits     *bit.Set
	// token position and round of a load
	token bool
	round uint
	// whether a shift has started moving
	moving bool
}

func newMachine(p circuit.Particle, shared *pasc.PASC2) machine {
	return machine{particle: p, link: Unlinked, compare: NewRunCompare(p, shared), multiply: binops.NewMultiplication(p)}
}

// load starts executing the given program.
func (m *machine) load(prog *program) {
	m.code = prog.code
	m.pc = 0
	m.bits = bit.NewSet(int(prog.slots))
	m.bits.Insert(slotOccupied)
	//
	for slot, value := range prog.inputs {
		m.bits.Set(slot, value && m.link.Member)
	}
	//
	m.advance()
}

// advance executes local instructions until one which needs to communicate is
// reached, which is then started.
func (m *machine) advance() {
	for ; m.pc < len(m.code); m.pc++ {
		insn := m.code[m.pc]
		//
		switch insn.op {
		case opCompare:
			m.compare.Init(m.bit(insn.src), insn.dir, m.link, m.bit(insn.counter))
			return
		case opShift:
			m.bits.Set(insn.dst, m.bit(insn.src))
			m.moving = false
			//
			return
		case opLoad:
			m.bits.Set(insn.dst, false)
			m.token = m.link.IsStart()
			m.round = 0
			//
			return
		case opMultiply:
			if m.link.Member {
				m.multiply.Init(m.bit(insn.src), m.bit(insn.counter), m.link.Pred, m.link.Succ)
			}
			//
			return
		case opPull, opAny:
			return
		case opCopy:
			m.bits.Set(insn.dst, m.bit(insn.src))
		case opAnd:
			m.bits.Set(insn.dst, m.bit(insn.dst) && m.bit(insn.src))
		case opOr:
			m.bits.Set(insn.dst, m.bit(insn.dst) || m.bit(insn.src))
		default:
			log.Errorf("unknown instruction %s", insn)
		}
	}
}

// SetupPC plans the circuits of the current round.
func (m *machine) SetupPC(pc circuit.PinConfiguration) {
	if m.IsFinished() {
		return
	}
	//
	insn := m.code[m.pc]
	k := pc.PinsPerEdge()
	//
	switch insn.op {
	case opCompare:
		m.compare.SetupPC(pc)
	case opPull:
		pc.MakePartitionSet(psPullOut, circuit.LanePin(insn.dir.Opposite(), 0, k))
		pc.MakePartitionSet(psPullIn, circuit.LanePin(insn.dir, 0, k))
	case opShift:
		if m.moving {
			pc.MakePartitionSet(psPullOut, circuit.LanePin(insn.dir.Opposite(), 0, k))
			pc.MakePartitionSet(psPullIn, circuit.LanePin(insn.dir, 0, k))
			m.setupBorrow(pc, insn.counter)
		}
		//
		circuit.SetToGlobal(pc, psMore, 3)
	case opLoad:
		if m.link.Member {
			m.link.split(pc, psTokenIn, psTokenOut, 0)
		}
	case opMultiply:
		if m.link.Member && !m.multiply.IsFinished() {
			m.multiply.SetupPC(pc)
		}
		//
		circuit.SetToGlobal(pc, psMore, 3)
	case opAny:
		circuit.SetToGlobal(pc, psAny, 0)
	}
}

// setupBorrow plans a circuit decrementing a counter in a single round.  The
// borrow leaves the chain start if its bit is zero, passes through all
// elements holding zero bits and stops at the first element holding a one.
func (m *machine) setupBorrow(pc circuit.PinConfiguration, counter uint) {
	switch {
	case !m.link.Member:
		return
	case m.bit(counter) || m.link.IsStart():
		m.link.split(pc, psBorrowIn, psBorrowOut, 1)
	default:
		m.link.connect(pc, psBorrowIn, 1)
		pc.MakePartitionSet(psBorrowOut)
	}
}

// ActivateSend emits the beeps of the current round.
func (m *machine) ActivateSend() {
	if m.IsFinished() {
		return
	}
	//
	insn := m.code[m.pc]
	//
	switch insn.op {
	case opCompare:
		m.compare.ActivateSend()
	case opPull:
		m.beepIf(m.bit(insn.src), psPullOut)
	case opShift:
		if !m.moving {
			// The counter is not zero
			m.beepIf(m.bit(insn.counter), psMore)
			return
		}
		//
		m.beepIf(m.bit(insn.dst), psPullOut)
		m.beepIf(m.link.IsStart() && !m.bit(insn.counter), psBorrowOut)
		// The counter is at least two
		m.beepIf(m.link.Member && !m.link.IsStart() && m.bit(insn.counter), psMore)
	case opLoad:
		m.beepIf(m.token, psTokenOut)
	case opMultiply:
		if m.link.Member && !m.multiply.IsFinished() {
			m.multiply.ActivateSend()
			m.particle.SendBeepOnPartitionSet(psMore)
		}
	case opAny:
		m.beepIf(m.bit(insn.src), psAny)
	}
}

// ActivateReceive processes the beeps of the previous round.
func (m *machine) ActivateReceive() {
	if m.IsFinished() {
		return
	}
	//
	insn := m.code[m.pc]
	//
	switch insn.op {
	case opCompare:
		if m.compare.ActivateReceive(); !m.compare.IsFinished() {
			return
		}
		//
		m.bits.Set(insn.dst, m.compare.Result())
	case opPull:
		m.bits.Set(insn.dst, m.heard(psPullIn))
	case opShift:
		if !m.receiveShift(insn) {
			return
		}
	case opLoad:
		if !m.receiveLoad(insn) {
			return
		}
	case opMultiply:
		if !m.receiveMultiply(insn) {
			return
		}
	case opAny:
		m.bits.Set(insn.dst, m.heard(psAny))
	}
	//
	m.pc++
	m.advance()
}

// receiveShift moves the transported bits one step and decrements the
// counter.  It determines whether the shift has finished.
func (m *machine) receiveShift(insn instruction) bool {
	more := m.heard(psMore)
	//
	if !m.moving {
		m.moving = more
		return !more
	}
	//
	m.bits.Set(insn.dst, m.heard(psPullIn))
	//
	if m.link.IsStart() || (m.link.Member && m.heard(psBorrowIn)) {
		m.bits.Set(insn.counter, !m.bit(insn.counter))
	}
	//
	return !more
}

// receiveLoad writes the token holder's bit of the loaded value and passes the
// token on.  It determines whether the load has finished.
func (m *machine) receiveLoad(insn instruction) bool {
	width := bit.WidthOf(insn.value)
	//
	if m.token {
		m.bits.Set(insn.dst, bit.Test(insn.value, m.round))
		//
		if m.link.IsEnd() && m.round+1 < width {
			log.Errorf("counter chain too short to hold %d", insn.value)
		}
	}
	//
	m.token = m.link.Member && m.heard(psTokenIn)
	m.round++
	//
	return m.round >= width
}

// receiveMultiply advances the multiplication, which has finished once no
// chain element reports that it is still running.
func (m *machine) receiveMultiply(insn instruction) bool {
	if m.link.Member && !m.multiply.IsFinished() {
		m.multiply.ActivateReceive()
	}
	//
	if m.heard(psMore) {
		return false
	} else if m.link.Member {
		m.bits.Set(insn.dst, m.multiply.C())
		//
		if m.multiply.HaveOverflow() && m.link.IsEnd() {
			log.Errorf("counter chain too short to hold product %s", insn)
		}
	}
	//
	return true
}

// IsFinished determines whether the program has terminated.
func (m *machine) IsFinished() bool {
	return m.pc >= len(m.code)
}

func (m *machine) bit(slot uint) bool {
	return m.bits.Contains(slot)
}

func (m *machine) beepIf(cond bool, id int) {
	if cond {
		m.particle.SendBeepOnPartitionSet(id)
	}
}

func (m *machine) heard(id int) bool {
	return m.particle.ReceivedBeepOnPartitionSet(id)
}

// search is the common part of all placement searches: a representative slot
// per rotation, and a global success flag computed once all rotations have
// been decided.
type search struct {
	machine
	rotations uint
	reps      uint
	success   uint
}

func newSearch(p circuit.Particle, shared *pasc.PASC2) search {
	return search{machine: newMachine(p, shared)}
}

// begin starts a program deciding the given number of rotations, whose
// counters live on the chain this particle is linked into.
func (s *search) begin(rotations uint, link Link) *program {
	prog := newProgram()
	s.link = link
	s.rotations = rotations
	s.reps = prog.alloc(rotations)
	s.success = prog.alloc(1)
	//
	return prog
}

// end broadcasts whether any particle is a representative and runs the
// program.
func (s *search) end(prog *program) {
	found := prog.alloc(1)
	//
	for r := uint(0); r < s.rotations; r++ {
		prog.or(found, s.reps+r)
	}
	//
	prog.any(s.success, found)
	//
	log.Debugf("placement search compiled into %d instructions over %d slots", len(prog.code), prog.slots)
	s.load(prog)
}

func (s *search) representative(rotation uint) bool {
	if rotation >= s.rotations {
		return false
	}
	//
	return s.bit(s.reps + rotation)
}

// Success determines whether some particle is a representative.  It is only
// meaningful once the search has finished.
func (s *search) Success() bool {
	return s.bit(s.success)
}
