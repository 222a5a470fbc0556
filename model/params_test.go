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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParams_GetInt(t *testing.T) {
	p := Params{NFactors: 10}
	assert.Equal(t, 10, p.GetInt(NFactors, 3))
	assert.Equal(t, 3, p.GetInt(NEpochs, 3))
	// type mismatch falls back to the default
	p = Params{NFactors: 0.5}
	assert.Equal(t, 3, p.GetInt(NFactors, 3))
}

func TestParams_GetInt64(t *testing.T) {
	p := Params{RandomState: int64(42)}
	assert.Equal(t, int64(42), p.GetInt64(RandomState, 0))
	p = Params{RandomState: 42}
	assert.Equal(t, int64(42), p.GetInt64(RandomState, 0))
	assert.Equal(t, int64(7), p.GetInt64(NEpochs, 7))
}

func TestParams_GetFloat32(t *testing.T) {
	p := Params{Reg: float32(0.05)}
	assert.Equal(t, float32(0.05), p.GetFloat32(Reg, 1))
	p = Params{Reg: 0.05}
	assert.Equal(t, float32(0.05), p.GetFloat32(Reg, 1))
	p = Params{Reg: 1}
	assert.Equal(t, float32(1), p.GetFloat32(Reg, 0))
	assert.Equal(t, float32(2), p.GetFloat32(Alpha, 2))
}

func TestParams_Copy(t *testing.T) {
	p := Params{NFactors: 10}
	q := p.Copy()
	q[NFactors] = 20
	assert.Equal(t, 10, p.GetInt(NFactors, 0))
	assert.Equal(t, 20, q.GetInt(NFactors, 0))
}

func TestParams_Overwrite(t *testing.T) {
	p := Params{NFactors: 10, NEpochs: 5}
	merged := p.Overwrite(Params{NFactors: 20})
	assert.Equal(t, 20, merged.GetInt(NFactors, 0))
	assert.Equal(t, 5, merged.GetInt(NEpochs, 0))
}

func TestBaseModel_SetParams(t *testing.T) {
	m := new(BaseModel)
	m.SetParams(Params{RandomState: int64(42)})
	a := m.GetRandomGenerator().NormalVector(8, 0, 0.1)
	m.SetParams(Params{RandomState: int64(42)})
	b := m.GetRandomGenerator().NormalVector(8, 0, 0.1)
	assert.Equal(t, a, b)
	assert.Equal(t, Params{RandomState: int64(42)}, m.GetParams())
}
