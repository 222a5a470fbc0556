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

// Package cf implements collaborative filtering by matrix factorization over
// implicit feedback.
package cf

import (
	"context"
	"fmt"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/juju/errors"
	"github.com/tunefm/tunefm/base"
	"github.com/tunefm/tunefm/base/log"
	"github.com/tunefm/tunefm/base/progress"
	"github.com/tunefm/tunefm/dataset"
	"github.com/tunefm/tunefm/floats"
	"github.com/tunefm/tunefm/model"
	"go.uber.org/zap"
)

type FitConfig struct {
	Jobs    int
	Verbose int
}

func NewFitConfig() *FitConfig {
	return &FitConfig{
		Jobs:    1,
		Verbose: 5,
	}
}

func (config *FitConfig) SetVerbose(verbose int) *FitConfig {
	config.Verbose = verbose
	return config
}

func (config *FitConfig) SetJobs(jobs int) *FitConfig {
	config.Jobs = jobs
	return config
}

// MatrixFactorization is the capability required from a factorization
// backend: train latent factors from a sparse matrix and predict the affinity
// of a (user, item) pair as the dot product of their factors. Any implicit
// feedback factorization model can serve.
type MatrixFactorization interface {
	model.Model
	// Fit the model with a training matrix.
	Fit(ctx context.Context, trainSet *dataset.Matrix, config *FitConfig) error
	// Predict the affinity between a user and an item.
	Predict(userIndex, itemIndex int32) float32
	// GetUserFactor returns the latent factor of a user.
	GetUserFactor(userIndex int32) []float32
	// GetItemFactor returns the latent factor of an item.
	GetItemFactor(itemIndex int32) []float32
	// IsUserPredictable returns false if the user had no feedback and its factors were never trained.
	IsUserPredictable(userIndex int32) bool
	// IsItemPredictable returns false if the item had no feedback and its factors were never trained.
	IsItemPredictable(itemIndex int32) bool
	// Invalid returns true until the model has been fitted.
	Invalid() bool
}

type BaseMatrixFactorization struct {
	model.BaseModel
	UserPredictable *bitset.BitSet
	ItemPredictable *bitset.BitSet
	// Model parameters
	UserFactor [][]float32 // p_u
	ItemFactor [][]float32 // q_i
}

func (baseModel *BaseMatrixFactorization) Init(trainSet *dataset.Matrix) {
	// set user trained flags
	baseModel.UserPredictable = bitset.New(uint(trainSet.CountUsers()))
	for userIndex := int32(0); userIndex < int32(trainSet.CountUsers()); userIndex++ {
		if len(trainSet.UserItems(userIndex)) > 0 {
			baseModel.UserPredictable.Set(uint(userIndex))
		}
	}
	// set item trained flags
	baseModel.ItemPredictable = bitset.New(uint(trainSet.CountItems()))
	for itemIndex := int32(0); itemIndex < int32(trainSet.CountItems()); itemIndex++ {
		if len(trainSet.ItemUsers(itemIndex)) > 0 {
			baseModel.ItemPredictable.Set(uint(itemIndex))
		}
	}
}

// IsUserPredictable returns false if the user had no feedback and its factors were never trained.
func (baseModel *BaseMatrixFactorization) IsUserPredictable(userIndex int32) bool {
	if userIndex < 0 || userIndex >= int32(len(baseModel.UserFactor)) {
		return false
	}
	return baseModel.UserPredictable.Test(uint(userIndex))
}

// IsItemPredictable returns false if the item had no feedback and its factors were never trained.
func (baseModel *BaseMatrixFactorization) IsItemPredictable(itemIndex int32) bool {
	if itemIndex < 0 || itemIndex >= int32(len(baseModel.ItemFactor)) {
		return false
	}
	return baseModel.ItemPredictable.Test(uint(itemIndex))
}

// GetUserFactor returns the latent factor of a user.
func (baseModel *BaseMatrixFactorization) GetUserFactor(userIndex int32) []float32 {
	return baseModel.UserFactor[userIndex]
}

// GetItemFactor returns the latent factor of an item.
func (baseModel *BaseMatrixFactorization) GetItemFactor(itemIndex int32) []float32 {
	return baseModel.ItemFactor[itemIndex]
}

// Predict the affinity between a user and an item by the dot product of
// their latent factors.
func (baseModel *BaseMatrixFactorization) Predict(userIndex, itemIndex int32) float32 {
	if userIndex < 0 || userIndex >= int32(len(baseModel.UserFactor)) ||
		itemIndex < 0 || itemIndex >= int32(len(baseModel.ItemFactor)) {
		log.Logger().Warn("unknown user or item",
			zap.Int32("user_index", userIndex),
			zap.Int32("item_index", itemIndex))
		return 0
	}
	return floats.Dot(baseModel.UserFactor[userIndex], baseModel.ItemFactor[itemIndex])
}

func (baseModel *BaseMatrixFactorization) Clear() {
	baseModel.UserPredictable = nil
	baseModel.ItemPredictable = nil
	baseModel.UserFactor = nil
	baseModel.ItemFactor = nil
}

func (baseModel *BaseMatrixFactorization) Invalid() bool {
	return baseModel == nil ||
		baseModel.UserFactor == nil ||
		baseModel.ItemFactor == nil
}

// ALS is the alternating least squares model for implicit feedback proposed
// by Hu et al. Play counts are turned into confidence levels
//
//	c_ui = 1 + alpha * w_ui
//
// and factors are obtained by alternately solving the regularized least
// squares problem for users with item factors fixed, then for items with user
// factors fixed. Each solve is an exact k-by-k system.
//
// Hyper-parameters:
//
//	Reg        - The regularization parameter of the cost function that is
//	             optimized. Default is 0.06.
//	NFactors   - The number of latent factors. Default is 16.
//	NEpochs    - The number of alternating epochs. Default is 50.
//	InitMean   - The mean of initial random latent factors. Default is 0.
//	InitStdDev - The standard deviation of initial random latent factors.
//	             Default is 0.1.
//	Alpha      - The confidence scale for play counts. Default is 1.
type ALS struct {
	BaseMatrixFactorization
	// Hyper parameters
	nFactors   int
	nEpochs    int
	reg        float32
	initMean   float32
	initStdDev float32
	alpha      float32
}

// NewALS creates an ALS model.
func NewALS(params model.Params) *ALS {
	als := new(ALS)
	als.SetParams(params)
	return als
}

// SetParams sets hyper-parameters for the ALS model.
func (als *ALS) SetParams(params model.Params) {
	als.BaseMatrixFactorization.SetParams(params)
	als.nFactors = als.Params.GetInt(model.NFactors, 16)
	als.nEpochs = als.Params.GetInt(model.NEpochs, 50)
	als.reg = als.Params.GetFloat32(model.Reg, 0.06)
	als.initMean = als.Params.GetFloat32(model.InitMean, 0)
	als.initStdDev = als.Params.GetFloat32(model.InitStdDev, 0.1)
	als.alpha = als.Params.GetFloat32(model.Alpha, 1)
}

func (als *ALS) Init(trainSet *dataset.Matrix) {
	// Initialize parameters
	als.UserFactor = als.GetRandomGenerator().NormalMatrix(trainSet.CountUsers(), als.nFactors, als.initMean, als.initStdDev)
	als.ItemFactor = als.GetRandomGenerator().NormalMatrix(trainSet.CountItems(), als.nFactors, als.initMean, als.initStdDev)
	// Initialize base
	als.BaseMatrixFactorization.Init(trainSet)
}

// Fit the ALS model. Each epoch solves every user factor, then every item
// factor. Users and items without feedback keep their initial factors.
func (als *ALS) Fit(ctx context.Context, trainSet *dataset.Matrix, config *FitConfig) error {
	log.Logger().Info("fit als",
		zap.Int("users", trainSet.CountUsers()),
		zap.Int("items", trainSet.CountItems()),
		zap.Int("feedback", trainSet.NonZeros()),
		zap.Any("params", als.GetParams()),
		zap.Any("config", config))
	als.Init(trainSet)
	// Per-worker buffers for the k-by-k systems
	gram := base.NewMatrix32(als.nFactors, als.nFactors)
	a := make([][][]float32, config.Jobs)
	b := base.NewMatrix32(config.Jobs, als.nFactors)
	for i := 0; i < config.Jobs; i++ {
		a[i] = base.NewMatrix32(als.nFactors, als.nFactors)
	}

	_, span := progress.Start(ctx, "ALS.Fit", als.nEpochs)
	for epoch := 1; epoch <= als.nEpochs; epoch++ {
		fitStart := time.Now()
		// Update user factors with item factors fixed.
		als.gramMatrix(gram, als.ItemFactor, als.ItemPredictable)
		err := base.Parallel(ctx, trainSet.CountUsers(), config.Jobs, func(workerId, userIndex int) error {
			return als.solve(gram, a[workerId], b[workerId],
				trainSet.UserItems(int32(userIndex)), trainSet.UserWeights(int32(userIndex)),
				als.ItemFactor, als.UserFactor[userIndex])
		})
		if err != nil {
			span.Fail(err)
			return errors.Trace(err)
		}
		// Update item factors with user factors fixed.
		als.gramMatrix(gram, als.UserFactor, als.UserPredictable)
		err = base.Parallel(ctx, trainSet.CountItems(), config.Jobs, func(workerId, itemIndex int) error {
			return als.solve(gram, a[workerId], b[workerId],
				trainSet.ItemUsers(int32(itemIndex)), trainSet.ItemWeights(int32(itemIndex)),
				als.UserFactor, als.ItemFactor[itemIndex])
		})
		if err != nil {
			span.Fail(err)
			return errors.Trace(err)
		}
		fitTime := time.Since(fitStart)
		if epoch%config.Verbose == 0 || epoch == als.nEpochs {
			log.Logger().Info(fmt.Sprintf("fit als %v/%v", epoch, als.nEpochs),
				zap.String("fit_time", fitTime.String()),
				zap.Float32("loss", als.loss(trainSet)))
		} else {
			log.Logger().Debug(fmt.Sprintf("fit als %v/%v", epoch, als.nEpochs),
				zap.String("fit_time", fitTime.String()))
		}
		span.Add(1)
	}
	span.End()
	log.Logger().Info("fit als complete")
	return nil
}

// gramMatrix fills gram with the Gram matrix of the trained rows of factor:
// gram = F^T F over rows whose predictable bit is set.
func (als *ALS) gramMatrix(gram [][]float32, factor [][]float32, predictable *bitset.BitSet) {
	floats.MatZero(gram)
	for index := range factor {
		if predictable.Test(uint(index)) {
			for i := 0; i < als.nFactors; i++ {
				floats.MulConstAdd(factor[index], factor[index][i], gram[i])
			}
		}
	}
}

// solve computes one row factor x by solving
//
//	(F^T C F + reg*I) x = F^T C p
//
// where C is the diagonal confidence matrix c = 1 + alpha*w for observed
// entries and 1 elsewhere, and p is 1 for observed entries. gram holds F^T F.
// a and b are scratch buffers and x is overwritten with the solution. Rows
// without feedback are left untouched.
func (als *ALS) solve(gram [][]float32, a [][]float32, b []float32, indices []int32, weights []float32, factor [][]float32, x []float32) error {
	if len(indices) == 0 {
		return nil
	}
	// a = gram + reg*I
	floats.MatCopy(gram, a)
	for i := 0; i < als.nFactors; i++ {
		a[i][i] += als.reg
	}
	floats.Zero(b)
	for position, index := range indices {
		confidence := 1 + als.alpha*weights[position]
		// a += (c - 1) * q_i * q_i^T
		for i := 0; i < als.nFactors; i++ {
			floats.MulConstAdd(factor[index], (confidence-1)*factor[index][i], a[i])
		}
		// b += c * q_i
		floats.MulConstAdd(factor[index], confidence, b)
	}
	if !floats.SolveSPD(a, b) {
		return errors.Errorf("normal equations are not positive definite (reg=%v)", als.reg)
	}
	copy(x, b)
	return nil
}

// loss is the weighted squared error over observed entries plus the
// regularization term. Logged during fitting, never optimized directly.
func (als *ALS) loss(trainSet *dataset.Matrix) float32 {
	var cost float32
	for userIndex := int32(0); userIndex < int32(trainSet.CountUsers()); userIndex++ {
		items := trainSet.UserItems(userIndex)
		weights := trainSet.UserWeights(userIndex)
		for position, itemIndex := range items {
			confidence := 1 + als.alpha*weights[position]
			residual := 1 - als.Predict(userIndex, itemIndex)
			cost += confidence * residual * residual
		}
	}
	for _, factor := range als.UserFactor {
		cost += als.reg * floats.Dot(factor, factor)
	}
	for _, factor := range als.ItemFactor {
		cost += als.reg * floats.Dot(factor, factor)
	}
	return cost
}
