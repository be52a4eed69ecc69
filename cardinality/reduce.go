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
	"github.com/jaguarx/elasticsearch/hll"
)

// Reduce folds the shard-local partial sketches of one bucket into a single
// sketch. The fold is commutative and associative, so partials may be
// supplied in any order or grouping as they arrive from the shards. Nil
// partials stand for shards that had no data for the bucket and are
// skipped; if every partial is nil the result is nil, meaning cardinality 0.
//
// A precision mismatch among the partials aborts the reduction with
// hll.ErrPrecisionMismatch: the bucket's result is not reported rather than
// guessed.
func Reduce(partials []*hll.Sketch) (*hll.Sketch, error) {
	var union *hll.Union
	for _, p := range partials {
		if p == nil {
			continue
		}
		if union == nil {
			u, err := hll.NewUnion(p.GetLgConfigK())
			if err != nil {
				return nil, err
			}
			union = u
		}
		if err := union.UpdateSketch(p); err != nil {
			return nil, err
		}
	}
	if union == nil {
		return nil, nil
	}
	return union.GetResult(), nil
}

// ReduceEncoded decodes shard wire payloads and folds them. Payloads travel
// as produced by (*hll.Sketch).ToSlice.
func ReduceEncoded(encoded [][]byte) (*hll.Sketch, error) {
	partials := make([]*hll.Sketch, 0, len(encoded))
	for _, image := range encoded {
		if len(image) == 0 {
			continue
		}
		sk, err := hll.NewSketchFromSlice(image)
		if err != nil {
			return nil, err
		}
		partials = append(partials, sk)
	}
	return Reduce(partials)
}

// ReduceCardinality folds the partials and reports the bucket's final
// integer estimate. All-nil input reports 0.
func ReduceCardinality(partials []*hll.Sketch) (int64, error) {
	merged, err := Reduce(partials)
	if err != nil {
		return 0, err
	}
	if merged == nil {
		return 0, nil
	}
	return merged.Cardinality(), nil
}
