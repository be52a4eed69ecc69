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

package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvPow2(t *testing.T) {
	v, err := InvPow2(0)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = InvPow2(1)
	assert.NoError(t, err)
	assert.Equal(t, 0.5, v)

	v, err = InvPow2(10)
	assert.NoError(t, err)
	assert.Equal(t, 1.0/1024.0, v)

	_, err = InvPow2(-1)
	assert.Error(t, err)
	_, err = InvPow2(1024)
	assert.Error(t, err)
}

func TestMax(t *testing.T) {
	assert.Equal(t, uint8(7), Max(uint8(3), uint8(7)))
	assert.Equal(t, uint8(7), Max(uint8(7), uint8(3)))
	assert.Equal(t, int64(-1), Max(int64(-1), int64(-5)))
	assert.Equal(t, 2.5, Max(2.5, 2.5))
}
