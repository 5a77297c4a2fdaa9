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
package bit

import (
	"fmt"
	"slices"
)

// RegisterWidth is the number of bits held by one word of a register.
const RegisterWidth = 32

// Register is the persistent local memory of a subroutine instance: one or
// more fixed-size words into which typed fields are packed.  Fields never
// straddle a word boundary, so a register grows by whole words as a layout
// allocates fields.
type Register struct {
	words []uint32
}

// Words returns a copy of the raw words backing this register.
func (r *Register) Words() []uint32 {
	return slices.Clone(r.words)
}

// Load overwrites the contents of this register with the given words.  The
// number of words must match the register exactly.
func (r *Register) Load(words []uint32) error {
	if len(words) != len(r.words) {
		return fmt.Errorf("register holds %d words, cannot load %d", len(r.words), len(words))
	}
	//
	copy(r.words, words)
	//
	return nil
}

// Reset clears every field of this register.
func (r *Register) Reset() {
	clear(r.words)
}

func (r *Register) get(word, pos, width uint) uint32 {
	return (r.words[word] >> pos) & mask(width)
}

func (r *Register) set(word, pos, width uint, value uint32) {
	m := mask(width)
	if value&^m != 0 {
		panic(fmt.Sprintf("value %d does not fit into a %d bit field", value, width))
	}
	//
	r.words[word] = (r.words[word] &^ (m << pos)) | (value << pos)
}

func mask(width uint) uint32 {
	if width >= RegisterWidth {
		return ^uint32(0)
	}
	//
	return (uint32(1) << width) - 1
}

// Layout assigns disjoint, statically fixed bit ranges of a register to
// fields.  Fields are assigned in allocation order; a field which does not
// fit into the remainder of the current word starts a fresh word.
type Layout struct {
	reg  *Register
	word uint
	next uint
}

// NewLayout starts allocating fields at the beginning of the given register.
func NewLayout(reg *Register) *Layout {
	return &Layout{reg, 0, 0}
}

func (l *Layout) alloc(width uint) (uint, uint) {
	if width == 0 || width > RegisterWidth {
		panic(fmt.Sprintf("invalid field width %d", width))
	}
	//
	if l.next+width > RegisterWidth {
		l.word++
		l.next = 0
	}
	//
	for uint(len(l.reg.words)) <= l.word {
		l.reg.words = append(l.reg.words, 0)
	}
	//
	pos := l.next
	l.next += width
	//
	return l.word, pos
}

// Bool allocates a single bit flag.
func (l *Layout) Bool() BoolField {
	word, pos := l.alloc(1)
	return BoolField{l.reg, word, pos}
}

// Int allocates an unsigned integer field of the given width.
func (l *Layout) Int(width uint) IntField {
	word, pos := l.alloc(width)
	return IntField{l.reg, word, pos, width}
}

// Array allocates count consecutive independent flags.
func (l *Layout) Array(count uint) FieldArray {
	word, pos := l.alloc(count)
	return FieldArray{l.reg, word, pos, count}
}

// Enum allocates a field holding values of a small enumeration.
func Enum[T ~uint8](l *Layout, width uint) EnumField[T] {
	return EnumField[T]{l.Int(width)}
}

// BoolField is a single bit of a register.
type BoolField struct {
	reg       *Register
	word, pos uint
}

// Get reads the flag.
func (f BoolField) Get() bool {
	return f.reg.get(f.word, f.pos, 1) == 1
}

// Set writes the flag.
func (f BoolField) Set(v bool) {
	if v {
		f.reg.set(f.word, f.pos, 1, 1)
	} else {
		f.reg.set(f.word, f.pos, 1, 0)
	}
}

// IntField is an unsigned integer occupying a fixed number of bits.
type IntField struct {
	reg              *Register
	word, pos, width uint
}

// Get reads the value.
func (f IntField) Get() uint32 {
	return f.reg.get(f.word, f.pos, f.width)
}

// Set writes the value, which must fit into the field.
func (f IntField) Set(v uint32) {
	f.reg.set(f.word, f.pos, f.width, v)
}

// Width returns the number of bits of this field.
func (f IntField) Width() uint {
	return f.width
}

// EnumField stores an enumeration value in an integer field.
type EnumField[T ~uint8] struct {
	field IntField
}

// Get reads the value.
func (f EnumField[T]) Get() T {
	return T(f.field.Get())
}

// Set writes the value.
func (f EnumField[T]) Set(v T) {
	f.field.Set(uint32(v))
}

// FieldArray packs a fixed number of independent flags into consecutive bits.
type FieldArray struct {
	reg              *Register
	word, pos, count uint
}

// Len returns the number of flags.
func (f FieldArray) Len() uint {
	return f.count
}

// Get reads the iᵗʰ flag.
func (f FieldArray) Get(i uint) bool {
	f.check(i)
	return f.reg.get(f.word, f.pos+i, 1) == 1
}

// Set writes the iᵗʰ flag.
func (f FieldArray) Set(i uint, v bool) {
	f.check(i)
	//
	if v {
		f.reg.set(f.word, f.pos+i, 1, 1)
	} else {
		f.reg.set(f.word, f.pos+i, 1, 0)
	}
}

// Or determines whether any flag is set.
func (f FieldArray) Or() bool {
	return f.reg.get(f.word, f.pos, f.count) != 0
}

// Clear resets every flag.
func (f FieldArray) Clear() {
	f.reg.set(f.word, f.pos, f.count, 0)
}

func (f FieldArray) check(i uint) {
	if i >= f.count {
		panic(fmt.Sprintf("flag %d out of bounds (%d flags)", i, f.count))
	}
}
