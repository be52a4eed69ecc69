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
	"errors"
	"fmt"
)

const (
	// MinLgK is the smallest supported precision.
	MinLgK = 4
	// MaxLgK is the largest supported precision.
	MaxLgK = 18
	// DefaultLgK is the precision used when the request does not specify one.
	// 2^14 registers give a relative standard error of about 0.81%.
	DefaultLgK = 14
)

var (
	// ErrInvalidPrecision is returned when a requested precision falls outside
	// [MinLgK, MaxLgK]. It is a request-validation error: no sketch is ever
	// constructed with an invalid precision.
	ErrInvalidPrecision = errors.New("invalid precision")

	// ErrPrecisionMismatch is returned when two sketches of different precision
	// are merged. A single logical aggregation must use one precision on every
	// shard, so this indicates a configuration inconsistency upstream.
	ErrPrecisionMismatch = errors.New("precision mismatch")
)

// CheckLgK checks the given lgConfigK and returns it if it is valid and
// returns an error otherwise.
func CheckLgK(lgConfigK int) (int, error) {
	if lgConfigK >= MinLgK && lgConfigK <= MaxLgK {
		return lgConfigK, nil
	}
	return 0, fmt.Errorf("%w: log2m must be between %d and %d, inclusive: %d",
		ErrInvalidPrecision, MinLgK, MaxLgK, lgConfigK)
}
