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

// Package recommend ranks unseen artists for a user with a trained matrix
// factorization model.
package recommend

import (
	"context"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/tunefm/tunefm/base"
	"github.com/tunefm/tunefm/base/log"
	"github.com/tunefm/tunefm/dataset"
	"github.com/tunefm/tunefm/model/cf"
	"go.uber.org/zap"
)

var (
	// ErrNotFitted is returned when Recommend is called before any
	// successful Fit.
	ErrNotFitted = errors.New("recommender is not fitted")
	// ErrUnknownUser is returned when the user id is outside the row range
	// of the matrix.
	ErrUnknownUser = errors.New("unknown user")
)

// Result is one recommended artist with its predicted affinity.
type Result struct {
	ArtistID int32
	Score    float32
}

// Recommender trains a factorization model over a user-artist matrix and
// produces ranked recommendations. Fit and Recommend are serialized on a
// single lock: Fit holds it exclusively for its full duration, Recommend
// takes it shared, so concurrent callers never observe a half-trained model.
type Recommender struct {
	mu     sync.RWMutex
	model  cf.MatrixFactorization
	fitted bool
}

// NewRecommender creates a Recommender around a factorization backend.
func NewRecommender(m cf.MatrixFactorization) *Recommender {
	return &Recommender{model: m}
}

// Fit trains the model on the user-artist matrix. The previous trained state,
// if any, is replaced. A nil config selects the defaults.
func (r *Recommender) Fit(ctx context.Context, trainSet *dataset.Matrix, config *cf.FitConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if config == nil {
		config = cf.NewFitConfig()
	}
	r.fitted = false
	if err := r.model.Fit(ctx, trainSet, config); err != nil {
		return errors.Trace(err)
	}
	r.fitted = true
	return nil
}

// Recommend returns the top n artists the user has not interacted with in
// trainSet, ordered by descending predicted affinity. Ties are broken by
// ascending artist id. Fewer than n results are returned without error when
// fewer unseen artists exist.
func (r *Recommender) Recommend(userId int32, trainSet *dataset.Matrix, n int) ([]Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.fitted {
		return nil, errors.Trace(ErrNotFitted)
	}
	if n <= 0 {
		return nil, errors.NotValidf("n = %d", n)
	}
	if userId < 0 || int(userId) >= trainSet.CountUsers() {
		return nil, errors.Annotatef(ErrUnknownUser, "user %d of %d users", userId, trainSet.CountUsers())
	}
	if !r.model.IsUserPredictable(userId) {
		log.Logger().Warn("user has no feedback, scores come from untrained factors",
			zap.Int32("user_id", userId))
	}
	seen := mapset.NewSet(trainSet.UserItems(userId)...)
	topK := base.NewTopKHeap(n)
	for itemIndex := int32(0); itemIndex < int32(trainSet.CountItems()); itemIndex++ {
		if seen.Contains(itemIndex) {
			continue
		}
		topK.Add(itemIndex, r.model.Predict(userId, itemIndex))
	}
	ids, scores := topK.ToSorted()
	results := make([]Result, len(ids))
	for i := range ids {
		results[i] = Result{ArtistID: ids[i], Score: scores[i]}
	}
	return results, nil
}
