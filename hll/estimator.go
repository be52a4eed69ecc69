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
	"math"

	"github.com/jaguarx/elasticsearch/internal"
)

// maxRegisterValue is the largest rank any register can hold: 64 - MinLgK + 1.
const maxRegisterValue = 64 - MinLgK + 1

var (
	two64 = math.Exp2(64)

	// invPow2Table[r] = 2^-r, the register contribution to the harmonic sum.
	invPow2Table [maxRegisterValue + 1]float64
)

func init() {
	for i := range invPow2Table {
		v, err := internal.InvPow2(i)
		if err != nil {
			panic(err)
		}
		invPow2Table[i] = v
	}
}

// ExactThreshold returns the cardinality up to which estimates at the given
// precision are exact or near-exact: 3/16 of the register count. Below it the
// estimator always answers from the linear-counting regime.
func ExactThreshold(lgConfigK int) int64 {
	return int64(3) << (uint(lgConfigK) - 4)
}

// Estimate returns the estimated number of distinct values absorbed so far.
// It is a pure read of the register state: an empty sketch yields exactly 0
// and any non-empty sketch yields a positive value.
func (s *Sketch) Estimate() float64 {
	m := float64(uint64(1) << uint(s.lgConfigK))

	zeros := 0
	z := 0.0
	for _, r := range s.registers {
		if r == 0 {
			zeros++
		}
		z += invPow2Table[r]
	}

	eRaw := alpha(s.lgConfigK) * m * m / z

	// Small-range regime: linear counting over the untouched registers.
	// Exact or near-exact up to ExactThreshold and still the better
	// estimator until the raw formula takes over around 2.5*m.
	if zeros != 0 && eRaw <= 2.5*m {
		return m * math.Log(m/float64(zeros))
	}
	if eRaw <= two64/30.0 {
		return eRaw
	}
	// Large-range correction as the estimate approaches the 64-bit hash space.
	// Past the hash space itself the correction is undefined and the raw
	// estimate is returned as-is.
	if ratio := eRaw / two64; ratio < 1.0 {
		return -two64 * math.Log(1.0-ratio)
	}
	return eRaw
}

// Cardinality returns the estimate rounded to an integer, the value reported
// for an aggregation bucket. Estimates beyond the int64 range, reachable
// with saturated registers at low precision, are clamped to math.MaxInt64.
func (s *Sketch) Cardinality() int64 {
	est := math.Round(s.Estimate())
	if est >= float64(math.MaxInt64) {
		return math.MaxInt64
	}
	return int64(est)
}

// alpha is the bias constant that makes the raw harmonic-mean estimate
// asymptotically unbiased, from Flajolet et al, 2007 HLL paper, Fig 3.
func alpha(lgConfigK int) float64 {
	switch lgConfigK {
	case 4:
		return 0.673
	case 5:
		return 0.697
	case 6:
		return 0.709
	default:
		return 0.7213 / (1.0 + 1.079/float64(uint64(1)<<uint(lgConfigK)))
	}
}
