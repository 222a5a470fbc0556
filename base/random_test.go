// Copyright 2026 tunefm Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package base

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalMatrix(t *testing.T) {
	rng := NewRandomGenerator(42)
	mat := rng.NormalMatrix(3, 4, 0, 0.1)
	assert.Len(t, mat, 3)
	for _, row := range mat {
		assert.Len(t, row, 4)
	}
}

func TestRandomGenerator_Deterministic(t *testing.T) {
	a := NewRandomGenerator(42).NormalMatrix(4, 8, 0, 0.1)
	b := NewRandomGenerator(42).NormalMatrix(4, 8, 0, 0.1)
	assert.Equal(t, a, b)
}

func TestNewMatrix32(t *testing.T) {
	mat := NewMatrix32(2, 3)
	assert.Equal(t, [][]float32{{0, 0, 0}, {0, 0, 0}}, mat)
}
