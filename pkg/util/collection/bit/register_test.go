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
	"testing"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/util/assert"
)

type colour uint8

func Test_Register_00(t *testing.T) {
	var reg Register
	//
	layout := NewLayout(&reg)
	round := layout.Int(3)
	flag := layout.Bool()
	tint := Enum[colour](layout, 2)
	flags := layout.Array(6)
	//
	round.Set(5)
	flag.Set(true)
	tint.Set(colour(2))
	flags.Set(3, true)
	// round occupies bits 0-2, flag bit 3, tint bits 4-5, flags bits 6-11
	assert.Equal(t, []uint32{0b001000_10_1_101}, reg.Words())
	assert.Equal(t, uint32(5), round.Get())
	assert.True(t, flag.Get())
	assert.Equal(t, colour(2), tint.Get())
	assert.True(t, flags.Or())
	assert.False(t, flags.Get(2))
	//
	flags.Clear()
	assert.False(t, flags.Or())
	assert.Equal(t, uint32(5), round.Get())
}

func Test_Register_01(t *testing.T) {
	var reg Register
	//
	layout := NewLayout(&reg)
	low := layout.Int(30)
	high := layout.Int(5)
	// A field which does not fit the remainder of a word starts the next one.
	assert.Equal(t, 2, len(reg.Words()))
	low.Set(1<<29 + 7)
	high.Set(31)
	assert.Equal(t, []uint32{1<<29 + 7, 31}, reg.Words())
	//
	var other Register
	//
	otherLayout := NewLayout(&other)
	otherLow := otherLayout.Int(30)
	otherHigh := otherLayout.Int(5)
	//
	assert.True(t, other.Load(reg.Words()) == nil)
	assert.Equal(t, low.Get(), otherLow.Get())
	assert.Equal(t, high.Get(), otherHigh.Get())
	assert.True(t, other.Load([]uint32{1}) != nil)
}

func Test_Register_02(t *testing.T) {
	var reg Register
	//
	field := NewLayout(&reg).Int(2)
	//
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for oversized value")
		}
	}()
	//
	field.Set(4)
}

func Test_Width_00(t *testing.T) {
	assert.Equal(t, uint(1), WidthOf(0))
	assert.Equal(t, uint(1), WidthOf(1))
	assert.Equal(t, uint(2), WidthOf(3))
	assert.Equal(t, uint(3), WidthOf(4))
	assert.True(t, Test(6, 1))
	assert.False(t, Test(6, 0))
	assert.False(t, Test(6, 70))
}
