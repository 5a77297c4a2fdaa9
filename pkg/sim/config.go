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
	"slices"

	"github.com/martmannupb/AmoebotSim-2.0-sub003/pkg/circuit"
)

// PinConfig is the pin configuration of one particle for one round.  A fresh
// configuration, in which no pins are connected, is planned every round.
type PinConfig struct {
	pinsPerEdge int
	owner       map[circuit.Pin]int
	sets        map[int][]circuit.Pin
}

func newPinConfig(pinsPerEdge int) *PinConfig {
	return &PinConfig{pinsPerEdge, make(map[circuit.Pin]int), make(map[int][]circuit.Pin)}
}

// PinsPerEdge returns the number of pins on each edge.
func (c *PinConfig) PinsPerEdge() int {
	return c.pinsPerEdge
}

// MakePartitionSet replaces the contents of the given partition set.
func (c *PinConfig) MakePartitionSet(id int, pins ...circuit.Pin) {
	checkPartitionSet(id)
	//
	for _, pin := range c.sets[id] {
		delete(c.owner, pin)
	}
	//
	c.sets[id] = nil
	//
	for _, pin := range pins {
		c.AddPin(id, pin)
	}
}

// AddPin moves a pin into the given partition set.
func (c *PinConfig) AddPin(id int, pin circuit.Pin) {
	checkPartitionSet(id)
	//
	if !pin.Dir.IsValid() || pin.Offset < 0 || pin.Offset >= c.pinsPerEdge {
		panic(fmt.Sprintf("invalid pin %s (%d pins per edge)", pin.String(), c.pinsPerEdge))
	}
	//
	if old, ok := c.owner[pin]; ok {
		if old == id {
			return
		}
		//
		c.sets[old] = slices.DeleteFunc(c.sets[old], func(p circuit.Pin) bool { return p == pin })
	}
	//
	c.owner[pin] = id
	c.sets[id] = append(c.sets[id], pin)
}

// PartitionSet returns the pins of the given partition set.
func (c *PinConfig) PartitionSet(id int) []circuit.Pin {
	return slices.Clone(c.sets[id])
}

// declare ensures a partition set exists, even if it holds no pins.
func (c *PinConfig) declare(id int) {
	checkPartitionSet(id)
	//
	if _, ok := c.sets[id]; !ok {
		c.sets[id] = nil
	}
}

func checkPartitionSet(id int) {
	if id < 0 {
		panic(fmt.Sprintf("invalid partition set %d", id))
	}
}
