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

package cf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tunefm/tunefm/dataset"
	"github.com/tunefm/tunefm/floats"
	"github.com/tunefm/tunefm/model"
)

// blockMatrix builds two disjoint listening communities: users 0 and 1 play
// artists 0 and 1, users 2 and 3 play artists 2 and 3.
func blockMatrix() *dataset.Matrix {
	return dataset.BuildMatrix([]dataset.Interaction{
		{UserID: 0, ArtistID: 0, Weight: 10},
		{UserID: 0, ArtistID: 1, Weight: 5},
		{UserID: 1, ArtistID: 0, Weight: 3},
		{UserID: 1, ArtistID: 1, Weight: 8},
		{UserID: 2, ArtistID: 2, Weight: 10},
		{UserID: 2, ArtistID: 3, Weight: 5},
		{UserID: 3, ArtistID: 2, Weight: 3},
		{UserID: 3, ArtistID: 3, Weight: 8},
	})
}

func newTestALS() *ALS {
	return NewALS(model.Params{
		model.NFactors:    4,
		model.NEpochs:     15,
		model.Reg:         0.05,
		model.Alpha:       40.0,
		model.InitStdDev:  0.01,
		model.RandomState: int64(42),
	})
}

func TestALS_Fit(t *testing.T) {
	trainSet := blockMatrix()
	m := newTestALS()
	assert.True(t, m.Invalid())
	err := m.Fit(context.Background(), trainSet, NewFitConfig().SetJobs(2))
	assert.NoError(t, err)
	assert.False(t, m.Invalid())

	// factors exist for every row and column
	assert.Len(t, m.UserFactor, 4)
	assert.Len(t, m.ItemFactor, 4)

	// affinity within a community beats affinity across communities
	assert.Greater(t, m.Predict(0, 0), m.Predict(0, 2))
	assert.Greater(t, m.Predict(0, 1), m.Predict(0, 3))
	assert.Greater(t, m.Predict(2, 2), m.Predict(2, 0))

	// prediction is the dot product of the latent factors
	assert.Equal(t, floats.Dot(m.GetUserFactor(1), m.GetItemFactor(1)), m.Predict(1, 1))
}

func TestALS_Deterministic(t *testing.T) {
	trainSet := blockMatrix()
	a := newTestALS()
	assert.NoError(t, a.Fit(context.Background(), trainSet, NewFitConfig()))
	b := newTestALS()
	assert.NoError(t, b.Fit(context.Background(), trainSet, NewFitConfig().SetJobs(4)))
	assert.Equal(t, a.UserFactor, b.UserFactor)
	assert.Equal(t, a.ItemFactor, b.ItemFactor)
}

func TestALS_Predictable(t *testing.T) {
	// user 2 and item 2 have no feedback
	trainSet := dataset.BuildMatrix([]dataset.Interaction{
		{UserID: 0, ArtistID: 0, Weight: 1},
		{UserID: 1, ArtistID: 1, Weight: 1},
		{UserID: 3, ArtistID: 3, Weight: 1},
	})
	m := newTestALS()
	assert.NoError(t, m.Fit(context.Background(), trainSet, NewFitConfig()))
	assert.True(t, m.IsUserPredictable(0))
	assert.False(t, m.IsUserPredictable(2))
	assert.True(t, m.IsItemPredictable(0))
	assert.False(t, m.IsItemPredictable(2))
	// out of range
	assert.False(t, m.IsUserPredictable(-1))
	assert.False(t, m.IsUserPredictable(100))
	assert.False(t, m.IsItemPredictable(100))
}

func TestALS_PredictOutOfRange(t *testing.T) {
	m := newTestALS()
	assert.NoError(t, m.Fit(context.Background(), blockMatrix(), NewFitConfig()))
	assert.Zero(t, m.Predict(100, 0))
	assert.Zero(t, m.Predict(0, 100))
	assert.Zero(t, m.Predict(-1, -1))
}

func TestALS_RefitReplacesState(t *testing.T) {
	m := newTestALS()
	assert.NoError(t, m.Fit(context.Background(), blockMatrix(), NewFitConfig()))
	first := m.Predict(0, 2)

	// refitting on different data replaces the trained state
	other := dataset.BuildMatrix([]dataset.Interaction{
		{UserID: 0, ArtistID: 0, Weight: 1},
		{UserID: 0, ArtistID: 2, Weight: 9},
		{UserID: 1, ArtistID: 2, Weight: 9},
	})
	assert.NoError(t, m.Fit(context.Background(), other, NewFitConfig()))
	assert.Len(t, m.UserFactor, 2)
	assert.Len(t, m.ItemFactor, 3)
	assert.NotEqual(t, first, m.Predict(0, 2))
}

func TestALS_Clear(t *testing.T) {
	m := newTestALS()
	assert.NoError(t, m.Fit(context.Background(), blockMatrix(), NewFitConfig()))
	m.Clear()
	assert.True(t, m.Invalid())
}

func TestALS_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := newTestALS()
	err := m.Fit(ctx, blockMatrix(), NewFitConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestALS_DefaultParams(t *testing.T) {
	m := NewALS(nil)
	assert.Equal(t, 16, m.nFactors)
	assert.Equal(t, 50, m.nEpochs)
	assert.Equal(t, float32(0.06), m.reg)
	assert.Equal(t, float32(1), m.alpha)
}
