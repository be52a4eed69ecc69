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

package cardinality

import (
	"fmt"

	"github.com/jaguarx/elasticsearch/hll"
)

// Aggregator owns the per-bucket sketches of one shard-local collection
// pass. Buckets are addressed by the dense ordinals the surrounding
// bucket-aggregation framework assigns (term buckets, grid cells, or just
// ordinal 0 for a top-level count); a bucket's sketch is created on its
// first collected value.
//
// An Aggregator is driven by a single collection goroutine. Aggregators on
// different shards share nothing and run fully in parallel.
type Aggregator struct {
	lgConfigK int
	sketches  []*hll.Sketch
}

// NewAggregator validates the requested precision and returns an aggregator
// with no sketches yet. An out-of-range precision is rejected here, before
// any collection work happens.
func NewAggregator(precision int) (*Aggregator, error) {
	lgK, err := hll.CheckLgK(precision)
	if err != nil {
		return nil, err
	}
	return &Aggregator{lgConfigK: lgK}, nil
}

// Precision returns the configured precision.
func (a *Aggregator) Precision() int {
	return a.lgConfigK
}

// Collect absorbs one field value into the given bucket's sketch.
// Multi-valued fields call Collect once per element, so a document with k
// values contributes up to k absorptions to the same bucket.
func (a *Aggregator) Collect(bucket int64, v Value) error {
	sk, err := a.sketchFor(bucket)
	if err != nil {
		return err
	}
	v.absorb(sk)
	return nil
}

// CollectValues absorbs every element of a multi-valued field.
func (a *Aggregator) CollectValues(bucket int64, values ...Value) error {
	sk, err := a.sketchFor(bucket)
	if err != nil {
		return err
	}
	for _, v := range values {
		v.absorb(sk)
	}
	return nil
}

// Sketch returns the given bucket's sketch, or nil if the bucket never saw
// a value. The returned sketch is the live one, not a copy.
func (a *Aggregator) Sketch(bucket int64) *hll.Sketch {
	if bucket < 0 || bucket >= int64(len(a.sketches)) {
		return nil
	}
	return a.sketches[bucket]
}

// Cardinality reports the bucket's estimate. A bucket that never saw a
// value (missing or unmapped field data) reports 0; that is not an error.
func (a *Aggregator) Cardinality(bucket int64) int64 {
	sk := a.Sketch(bucket)
	if sk == nil {
		return 0
	}
	return sk.Cardinality()
}

func (a *Aggregator) sketchFor(bucket int64) (*hll.Sketch, error) {
	if bucket < 0 {
		return nil, fmt.Errorf("bucket ordinal must not be negative: %d", bucket)
	}
	for int64(len(a.sketches)) <= bucket {
		a.sketches = append(a.sketches, nil)
	}
	if a.sketches[bucket] == nil {
		sk, err := hll.NewSketch(a.lgConfigK)
		if err != nil {
			return nil, err
		}
		a.sketches[bucket] = sk
	}
	return a.sketches[bucket], nil
}
