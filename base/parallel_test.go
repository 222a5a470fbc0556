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
	"context"
	"sync/atomic"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestParallel(t *testing.T) {
	for _, nWorkers := range []int{1, 4} {
		var count atomic.Int64
		err := Parallel(context.Background(), 100, nWorkers, func(workerId, jobId int) error {
			count.Add(1)
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(100), count.Load())
	}
}

func TestParallel_Error(t *testing.T) {
	expected := errors.New("boom")
	for _, nWorkers := range []int{1, 4} {
		err := Parallel(context.Background(), 100, nWorkers, func(workerId, jobId int) error {
			if jobId == 50 {
				return expected
			}
			return nil
		})
		assert.ErrorIs(t, err, expected)
	}
}

func TestParallel_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Parallel(ctx, 100, 1, func(workerId, jobId int) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
