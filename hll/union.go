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

package hll

import (
	"fmt"

	"github.com/jaguarx/elasticsearch/internal"
)

// Merge combines the other sketch into this one, register by register.
// Afterwards this sketch summarizes the union of both input streams.
//
// Merge is commutative, associative and idempotent, and never reads the
// absorbed values themselves, only registers. Both sketches must share the
// same precision; ErrPrecisionMismatch is returned otherwise and this sketch
// is left untouched. A nil other is treated as empty.
func (s *Sketch) Merge(other *Sketch) error {
	if other == nil {
		return nil
	}
	if s.lgConfigK != other.lgConfigK {
		return fmt.Errorf("%w: cannot merge log2m=%d into log2m=%d",
			ErrPrecisionMismatch, other.lgConfigK, s.lgConfigK)
	}
	for i, r := range other.registers {
		s.registers[i] = internal.Max(s.registers[i], r)
	}
	return nil
}

// Union folds any number of sketches of one fixed precision into a single
// result. Partial shard results may arrive in any order and in any grouping;
// the final result is identical.
type Union struct {
	gadget *Sketch
}

// NewUnion constructs a union over sketches of the given precision.
func NewUnion(lgConfigK int) (*Union, error) {
	sk, err := NewSketch(lgConfigK)
	if err != nil {
		return nil, err
	}
	return &Union{gadget: sk}, nil
}

// NewUnionWithDefault constructs a union with the default precision.
func NewUnionWithDefault() (*Union, error) {
	return NewUnion(DefaultLgK)
}

// UpdateSketch folds the given sketch into the union. The sketch must have
// the union's precision; there is no downsampling because one logical
// aggregation never legitimately produces mixed precisions.
func (u *Union) UpdateSketch(sketch *Sketch) error {
	return u.gadget.Merge(sketch)
}

// UpdateHash presents a pre-hashed 64-bit value as a potential unique item.
func (u *Union) UpdateHash(hash uint64) {
	u.gadget.UpdateHash(hash)
}

// UpdateUInt64 presents the given unsigned 64-bit integer as a potential unique item.
func (u *Union) UpdateUInt64(datum uint64) {
	u.gadget.UpdateUInt64(datum)
}

// UpdateInt64 presents the given signed 64-bit integer as a potential unique item.
func (u *Union) UpdateInt64(datum int64) {
	u.gadget.UpdateInt64(datum)
}

// UpdateSlice presents the given byte slice as a potential unique item.
func (u *Union) UpdateSlice(datum []byte) {
	u.gadget.UpdateSlice(datum)
}

// UpdateString presents the given string as a potential unique item.
func (u *Union) UpdateString(datum string) {
	u.gadget.UpdateString(datum)
}

// GetLgConfigK returns the precision of the union.
func (u *Union) GetLgConfigK() int {
	return u.gadget.GetLgConfigK()
}

// IsEmpty returns true if nothing has been folded in yet.
func (u *Union) IsEmpty() bool {
	return u.gadget.IsEmpty()
}

// GetEstimate returns the cardinality estimate of everything folded in so far.
func (u *Union) GetEstimate() float64 {
	return u.gadget.Estimate()
}

// Cardinality returns the rounded integer estimate.
func (u *Union) Cardinality() int64 {
	return u.gadget.Cardinality()
}

// GetResult returns the folded sketch. The result is a copy: later updates
// to the union do not alter it.
func (u *Union) GetResult() *Sketch {
	return u.gadget.Copy()
}
