/*
 * Licensed to Elasticsearch under one or more contributor
 * license agreements. See the NOTICE file distributed with
 * this work for additional information regarding copyright
 * ownership. Elasticsearch licenses this file to you under
 * the Apache License, Version 2.0 (the "License"); you may
 * not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package hll implements the HyperLogLog cardinality sketch behind the
// cardinality aggregation: a fixed-memory summary of a stream of field
// values that supports approximate distinct-count queries and lossless
// cross-shard merging.
//
// Sketch and Union are the public facing types. A Sketch absorbs raw field
// values (hashed internally with murmur3) or pre-hashed 64-bit values, and
// reports an estimate whose relative standard error is about 1.04/sqrt(2^lgConfigK).
// Merging sketches of equal precision yields the sketch of the union of their
// inputs, which is what makes shard-local partial results cheap to reduce.
package hll

import (
	"encoding/binary"
	"math/bits"
	"unsafe"

	"github.com/twmb/murmur3"

	"github.com/jaguarx/elasticsearch/internal"
)

// Sketch is a HyperLogLog register array of fixed precision. Each of the
// 2^lgConfigK registers holds the maximum rank observed among the hashed
// values routed to it; registers never decrease except through Reset.
//
// A Sketch is owned by exactly one aggregation bucket and must not be
// mutated from more than one goroutine at a time. Distinct sketches share
// no state and may be updated fully in parallel.
type Sketch struct {
	lgConfigK int
	registers []uint8
}

// NewSketch constructs an empty sketch with 2^lgConfigK registers.
// lgConfigK must be between MinLgK and MaxLgK inclusively.
func NewSketch(lgConfigK int) (*Sketch, error) {
	lgK, err := CheckLgK(lgConfigK)
	if err != nil {
		return nil, err
	}
	return &Sketch{
		lgConfigK: lgK,
		registers: make([]uint8, 1<<lgK),
	}, nil
}

// NewSketchWithDefault constructs an empty sketch with the default precision.
func NewSketchWithDefault() (*Sketch, error) {
	return NewSketch(DefaultLgK)
}

// GetLgConfigK returns the precision of the sketch.
func (s *Sketch) GetLgConfigK() int {
	return s.lgConfigK
}

// IsCompatible returns true if the other sketch may be merged with this one,
// i.e. both share the same precision.
func (s *Sketch) IsCompatible(other *Sketch) bool {
	return other != nil && s.lgConfigK == other.lgConfigK
}

// IsEmpty returns true if no value has ever been absorbed.
func (s *Sketch) IsEmpty() bool {
	for _, r := range s.registers {
		if r != 0 {
			return false
		}
	}
	return true
}

// Copy returns a clone of this sketch.
func (s *Sketch) Copy() *Sketch {
	registers := make([]uint8, len(s.registers))
	copy(registers, s.registers)
	return &Sketch{
		lgConfigK: s.lgConfigK,
		registers: registers,
	}
}

// Reset resets the sketch to empty, keeping the configured precision.
func (s *Sketch) Reset() {
	clear(s.registers)
}

// UpdateHash presents a pre-hashed 64-bit value as a potential unique item.
// The caller guarantees the value was produced by a hash function with
// avalanche quality equivalent to murmur3; the sketch cannot validate this.
//
// The high lgConfigK bits of the hash select the register, the remaining
// bits supply the rank. Absorbing the same hash again is a no-op.
func (s *Sketch) UpdateHash(hash uint64) {
	idx := hash >> (64 - uint(s.lgConfigK))
	w := hash << uint(s.lgConfigK)
	rank := uint8(bits.LeadingZeros64(w)) + 1
	if maxRank := uint8(64 - s.lgConfigK + 1); rank > maxRank {
		rank = maxRank
	}
	s.registers[idx] = internal.Max(s.registers[idx], rank)
}

// UpdateUInt64 presents the given unsigned 64-bit integer as a potential unique item.
func (s *Sketch) UpdateUInt64(datum uint64) {
	var scratch [8]byte
	binary.LittleEndian.PutUint64(scratch[:], datum)
	s.UpdateHash(hash(scratch[:]))
}

// UpdateInt64 presents the given signed 64-bit integer as a potential unique item.
func (s *Sketch) UpdateInt64(datum int64) {
	s.UpdateUInt64(uint64(datum))
}

// UpdateSlice presents the given byte slice as a potential unique item.
// An empty slice is a no-op.
func (s *Sketch) UpdateSlice(datum []byte) {
	if len(datum) == 0 {
		return
	}
	s.UpdateHash(hash(datum))
}

// UpdateString presents the given string as a potential unique item.
func (s *Sketch) UpdateString(datum string) {
	if len(datum) == 0 {
		return
	}
	// get a slice to the string data (avoiding a copy to heap)
	s.UpdateHash(hash(unsafe.Slice(unsafe.StringData(datum), len(datum))))
}

func hash(bs []byte) uint64 {
	h1, _ := murmur3.Sum128(bs)
	return h1
}
