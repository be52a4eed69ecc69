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

// Package cardinality feeds document field values into per-bucket
// HyperLogLog sketches and reduces shard-local partial results into a
// final distinct-value count.
//
// The field-extraction layer hands the aggregator either raw values or
// values pre-hashed at index time (murmur3 hash fields); the tag on Value
// records which, and the aggregator branches on it once per absorbed
// element.
package cardinality

import (
	"github.com/jaguarx/elasticsearch/hll"
)

type valueKind int

const (
	kindString valueKind = iota
	kindBytes
	kindNumeric
	kindPreHashed
)

// Value is a single field value extracted from a matching document.
type Value struct {
	kind  valueKind
	str   string
	bytes []byte
	num   int64
	hash  uint64
}

// StringValue wraps a raw string field value.
func StringValue(s string) Value {
	return Value{kind: kindString, str: s}
}

// BytesValue wraps a raw binary field value.
func BytesValue(b []byte) Value {
	return Value{kind: kindBytes, bytes: b}
}

// NumericValue wraps a raw numeric field value.
func NumericValue(n int64) Value {
	return Value{kind: kindNumeric, num: n}
}

// PreHashedValue wraps a 64-bit hash computed at index time. The caller
// guarantees it came from a hash function of murmur3-equivalent quality.
func PreHashedValue(h uint64) Value {
	return Value{kind: kindPreHashed, hash: h}
}

// absorb routes the value into the sketch, hashing raw values on the way.
func (v Value) absorb(sk *hll.Sketch) {
	switch v.kind {
	case kindString:
		sk.UpdateString(v.str)
	case kindBytes:
		sk.UpdateSlice(v.bytes)
	case kindNumeric:
		sk.UpdateInt64(v.num)
	case kindPreHashed:
		sk.UpdateHash(v.hash)
	}
}
