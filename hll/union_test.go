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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sketchOfStrings(t *testing.T, lgConfigK int, values ...string) *Sketch {
	t.Helper()
	sk, err := NewSketch(lgConfigK)
	require.NoError(t, err)
	for _, v := range values {
		sk.UpdateString(v)
	}
	return sk
}

func stringRange(prefix string, from, to int) []string {
	out := make([]string, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, fmt.Sprintf("%s_%d", prefix, i))
	}
	return out
}

func TestMergeIsCommutative(t *testing.T) {
	a := sketchOfStrings(t, 14, stringRange("a", 0, 2000)...)
	b := sketchOfStrings(t, 14, stringRange("b", 0, 3000)...)

	ab := a.Copy()
	require.NoError(t, ab.Merge(b))
	ba := b.Copy()
	require.NoError(t, ba.Merge(a))

	assert.Equal(t, ab, ba)
	assert.Equal(t, ab.Estimate(), ba.Estimate())
}

func TestMergeIsAssociative(t *testing.T) {
	a := sketchOfStrings(t, 12, stringRange("a", 0, 1000)...)
	b := sketchOfStrings(t, 12, stringRange("b", 0, 1000)...)
	c := sketchOfStrings(t, 12, stringRange("c", 0, 1000)...)

	left := a.Copy()
	require.NoError(t, left.Merge(b))
	require.NoError(t, left.Merge(c))

	bc := b.Copy()
	require.NoError(t, bc.Merge(c))
	right := a.Copy()
	require.NoError(t, right.Merge(bc))

	assert.Equal(t, left, right)
}

func TestMergeIsIdempotent(t *testing.T) {
	a := sketchOfStrings(t, 14, stringRange("a", 0, 5000)...)
	merged := a.Copy()
	require.NoError(t, merged.Merge(a))
	assert.Equal(t, a, merged)
}

func TestMergeWithEmptyIsIdentity(t *testing.T) {
	a := sketchOfStrings(t, 14, stringRange("a", 0, 5000)...)
	empty, err := NewSketch(14)
	require.NoError(t, err)

	merged := a.Copy()
	require.NoError(t, merged.Merge(empty))
	assert.Equal(t, a, merged)

	intoEmpty := empty.Copy()
	require.NoError(t, intoEmpty.Merge(a))
	assert.Equal(t, a, intoEmpty)

	// nil is treated as empty too
	withNil := a.Copy()
	require.NoError(t, withNil.Merge(nil))
	assert.Equal(t, a, withNil)
}

func TestMergePrecisionMismatch(t *testing.T) {
	a := sketchOfStrings(t, 14, "x", "y")
	b := sketchOfStrings(t, 15, "x", "y")

	before := a.Copy()
	err := a.Merge(b)
	assert.ErrorIs(t, err, ErrPrecisionMismatch)
	assert.Equal(t, before, a, "a failed merge must leave the target untouched")
}

func TestMergeDisjointExactRegion(t *testing.T) {
	// 30 and 40 disjoint pre-hashed values: the merged estimate is exactly 70.
	a, err := NewSketch(14)
	require.NoError(t, err)
	for i := 0; i < 30; i++ {
		a.UpdateHash(prehashed(i, 14))
	}
	b, err := NewSketch(14)
	require.NoError(t, err)
	for i := 30; i < 70; i++ {
		b.UpdateHash(prehashed(i, 14))
	}

	require.NoError(t, a.Merge(b))
	assert.Equal(t, int64(70), a.Cardinality())
}

func TestMergeDistributesOverDisjointSets(t *testing.T) {
	// For disjoint X and Y within the exact region the merged sketch counts
	// |X| + |Y| exactly.
	for _, split := range [][2]int{{1, 1}, {10, 15}, {60, 50}} {
		x, err := NewSketch(14)
		require.NoError(t, err)
		for i := 0; i < split[0]; i++ {
			x.UpdateHash(prehashed(i, 14))
		}
		y, err := NewSketch(14)
		require.NoError(t, err)
		for i := split[0]; i < split[0]+split[1]; i++ {
			y.UpdateHash(prehashed(i, 14))
		}

		require.NoError(t, x.Merge(y))
		assert.Equal(t, int64(split[0]+split[1]), x.Cardinality(), "split=%v", split)
	}
}

func TestMergeSameValueCountsOnce(t *testing.T) {
	a, err := NewSketch(14)
	require.NoError(t, err)
	b, err := NewSketch(14)
	require.NoError(t, err)
	a.UpdateString("only value")
	b.UpdateString("only value")

	require.NoError(t, a.Merge(b))
	assert.Equal(t, int64(1), a.Cardinality())
}

func TestMergeEqualsSketchOfUnion(t *testing.T) {
	shared := stringRange("shared", 0, 1000)
	onlyA := stringRange("a", 0, 1000)
	onlyB := stringRange("b", 0, 1000)

	a := sketchOfStrings(t, 14, append(append([]string{}, shared...), onlyA...)...)
	b := sketchOfStrings(t, 14, append(append([]string{}, shared...), onlyB...)...)
	union := sketchOfStrings(t, 14, append(append(append([]string{}, shared...), onlyA...), onlyB...)...)

	require.NoError(t, a.Merge(b))
	assert.Equal(t, union, a)
}

func TestUnionFold(t *testing.T) {
	u, err := NewUnion(14)
	require.NoError(t, err)
	assert.True(t, u.IsEmpty())
	assert.Equal(t, 14, u.GetLgConfigK())
	assert.Equal(t, int64(0), u.Cardinality())

	for shard := 0; shard < 4; shard++ {
		sk, err := NewSketch(14)
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			sk.UpdateHash(prehashed(shard*20+i, 14))
		}
		require.NoError(t, u.UpdateSketch(sk))
	}
	assert.Equal(t, int64(80), u.Cardinality())
}

func TestUnionOrderIndependence(t *testing.T) {
	sketches := []*Sketch{
		sketchOfStrings(t, 14, stringRange("a", 0, 2000)...),
		sketchOfStrings(t, 14, stringRange("b", 0, 500)...),
		sketchOfStrings(t, 14, stringRange("a", 1000, 3000)...),
	}

	forward, err := NewUnion(14)
	require.NoError(t, err)
	for _, sk := range sketches {
		require.NoError(t, forward.UpdateSketch(sk))
	}

	backward, err := NewUnion(14)
	require.NoError(t, err)
	for i := len(sketches) - 1; i >= 0; i-- {
		require.NoError(t, backward.UpdateSketch(sketches[i]))
	}

	assert.Equal(t, forward.GetResult(), backward.GetResult())
}

func TestUnionPrecisionMismatch(t *testing.T) {
	u, err := NewUnion(14)
	require.NoError(t, err)
	other := sketchOfStrings(t, 12, "x")
	assert.ErrorIs(t, u.UpdateSketch(other), ErrPrecisionMismatch)
}

func TestUnionRejectsInvalidPrecision(t *testing.T) {
	u, err := NewUnion(MaxLgK + 1)
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrInvalidPrecision)
}

func TestUnionDirectUpdates(t *testing.T) {
	u, err := NewUnionWithDefault()
	require.NoError(t, err)
	u.UpdateString("a")
	u.UpdateSlice([]byte("b"))
	u.UpdateInt64(3)
	u.UpdateUInt64(4)
	u.UpdateHash(prehashed(5, DefaultLgK))
	assert.False(t, u.IsEmpty())
	assert.Greater(t, u.GetEstimate(), 0.0)
}

func TestUnionResultIsDetached(t *testing.T) {
	u, err := NewUnion(14)
	require.NoError(t, err)
	u.UpdateString("before")

	result := u.GetResult()
	u.UpdateString("after")
	assert.NotEqual(t, result, u.GetResult())
	assert.Equal(t, int64(1), result.Cardinality())
	assert.Equal(t, int64(2), u.Cardinality())
}
