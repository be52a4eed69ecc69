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
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Wire layout of a sketch, used to ship shard-local partial results to the
// coordinating node. Registers are one byte each; any two encodings at the
// same precision are merge-compatible bit-for-bit.
//
//	byte 0        serialization version
//	byte 1        family id
//	byte 2        lgConfigK
//	byte 3        flags (bit 0: empty)
//	bytes 4..7    reserved, zero
//	bytes 8..8+m  registers
//	last 8 bytes  xxhash64 digest of everything before it, little endian
const (
	serVer   = 1
	familyID = 7

	serVerByte = 0
	familyByte = 1
	lgKByte    = 2
	flagsByte  = 3

	emptyFlagMask = 1

	preambleBytes = 8
	digestBytes   = 8
)

// ToSlice serializes the sketch for cross-shard transport.
func (s *Sketch) ToSlice() []byte {
	m := len(s.registers)
	out := make([]byte, preambleBytes+m+digestBytes)
	out[serVerByte] = serVer
	out[familyByte] = familyID
	out[lgKByte] = byte(s.lgConfigK)
	if s.IsEmpty() {
		out[flagsByte] |= emptyFlagMask
	}
	copy(out[preambleBytes:], s.registers)
	digest := xxhash.Sum64(out[:preambleBytes+m])
	binary.LittleEndian.PutUint64(out[preambleBytes+m:], digest)
	return out
}

// NewSketchFromSlice deserializes a sketch image produced by ToSlice.
// The slice is not retained. Corrupted or truncated images are rejected.
func NewSketchFromSlice(bytes []byte) (*Sketch, error) {
	if len(bytes) < preambleBytes+digestBytes {
		return nil, fmt.Errorf("sketch image too small: %d bytes", len(bytes))
	}
	if bytes[serVerByte] != serVer {
		return nil, fmt.Errorf("possible corruption: invalid serialization version: %d", bytes[serVerByte])
	}
	if bytes[familyByte] != familyID {
		return nil, fmt.Errorf("possible corruption: invalid family: %d", bytes[familyByte])
	}
	lgK, err := CheckLgK(int(bytes[lgKByte]))
	if err != nil {
		return nil, err
	}
	m := 1 << lgK
	if len(bytes) != preambleBytes+m+digestBytes {
		return nil, fmt.Errorf("sketch image length mismatch: got %d bytes, want %d for log2m=%d",
			len(bytes), preambleBytes+m+digestBytes, lgK)
	}
	digest := binary.LittleEndian.Uint64(bytes[preambleBytes+m:])
	if digest != xxhash.Sum64(bytes[:preambleBytes+m]) {
		return nil, fmt.Errorf("possible corruption: sketch image digest mismatch")
	}

	sk := &Sketch{
		lgConfigK: lgK,
		registers: make([]uint8, m),
	}
	maxRank := uint8(64 - lgK + 1)
	for i, r := range bytes[preambleBytes : preambleBytes+m] {
		if r > maxRank {
			return nil, fmt.Errorf("possible corruption: register %d holds %d, max rank is %d", i, r, maxRank)
		}
		sk.registers[i] = r
	}
	empty := bytes[flagsByte]&emptyFlagMask != 0
	if empty != sk.IsEmpty() {
		return nil, fmt.Errorf("possible corruption: empty flag disagrees with registers")
	}
	return sk, nil
}
