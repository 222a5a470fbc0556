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

func TestTopKHeap(t *testing.T) {
	topK := NewTopKHeap(3)
	topK.Add(10, 0.1)
	topK.Add(11, 0.9)
	topK.Add(12, 0.5)
	topK.Add(13, 0.7)
	topK.Add(14, 0.2)
	ids, scores := topK.ToSorted()
	assert.Equal(t, []int32{11, 13, 12}, ids)
	assert.Equal(t, []float32{0.9, 0.7, 0.5}, scores)
}

func TestTopKHeap_TieBreak(t *testing.T) {
	// equal scores are ordered by ascending id
	topK := NewTopKHeap(3)
	topK.Add(5, 0.5)
	topK.Add(3, 0.5)
	topK.Add(4, 0.5)
	topK.Add(1, 0.5)
	ids, scores := topK.ToSorted()
	assert.Equal(t, []int32{1, 3, 4}, ids)
	assert.Equal(t, []float32{0.5, 0.5, 0.5}, scores)
}

func TestTopKHeap_FewerThanK(t *testing.T) {
	topK := NewTopKHeap(10)
	topK.Add(1, 0.3)
	topK.Add(2, 0.6)
	ids, scores := topK.ToSorted()
	assert.Equal(t, []int32{2, 1}, ids)
	assert.Equal(t, []float32{0.6, 0.3}, scores)
}
