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
	"math/rand/v2"
	"slices"
	"testing"
)

func Test_BitSet_00(t *testing.T) {
	check_BitSet_Insert(t, 5, 10)
}

func Test_BitSet_01(t *testing.T) {
	// Really hammer it.
	for i := 0; i < 1000; i++ {
		check_BitSet_Insert(t, 10, 128)
	}
}

func Test_BitSet_02(t *testing.T) {
	check_BitSet_Insert(t, 100, 256)
}

func Test_BitSet_03(t *testing.T) {
	check_BitSet_Insert(t, 1000, 512)
}

func Test_BitSet_04(t *testing.T) {
	set := NewSet(6 * 3)
	set.Set(4, true)
	set.Set(17, true)
	set.Set(4, false)
	//
	if set.Contains(4) || !set.Contains(17) || set.Count() != 1 {
		t.Errorf("unexpected contents %s", set.String())
	}
	//
	set.Clear()
	//
	if set.Count() != 0 {
		t.Errorf("set not cleared: %s", set.String())
	}
}

func Test_BitSet_05(t *testing.T) {
	var set Set
	//
	set.InsertAll(130, 3, 64, 3)
	//
	if s := set.String(); s != "[3, 64, 130]" {
		t.Errorf("unexpected string %s", s)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func check_BitSet_Insert(t *testing.T, n uint, m uint) {
	var iset Set
	//
	items := randomItems(n, m)
	bset := toBitSet(items)
	iset.Union(bset)
	//
	slices.Sort(items)
	items = slices.Compact(items)
	count := uint(len(items))
	//
	if bset.Count() != count {
		t.Errorf("unexpected number of items (%d vs %d) (insert)", bset.Count(), count)
	}
	//
	if iset.Count() != count {
		t.Errorf("unexpected number of items (%d vs %d) (union)", iset.Count(), count)
	}
	//
	for i := uint(0); i < m; i++ {
		l := slices.Contains(items, i)
		//
		if l != bset.Contains(i) {
			t.Errorf("item %d mismatch (insert)", i)
		} else if l != iset.Contains(i) {
			t.Errorf("item %d mismatch (union)", i)
		}
	}
	// Iteration must be ascending and complete.
	if iterated := slices.Collect(bset.Iter()); !slices.Equal(iterated, items) {
		t.Errorf("unexpected iteration %v (expected %v)", iterated, items)
	}
}

func randomItems(n, m uint) []uint {
	items := make([]uint, n)
	//
	for i := range items {
		items[i] = rand.UintN(m)
	}
	//
	return items
}

func toBitSet(items []uint) Set {
	set := Set{}
	for _, v := range items {
		set.Insert(v)
	}

	return set
}
