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
	"container/heap"
	"sort"
)

// TopKHeap keeps the K items with the highest scores. Heap is used to reduce
// time complexity and memory complexity in top-K searching. On equal scores
// the item with the smaller id wins, so results are deterministic.
type TopKHeap struct {
	Ids    []int32
	Scores []float32
	K      int
}

// NewTopKHeap creates a TopKHeap holding at most k items.
func NewTopKHeap(k int) *TopKHeap {
	topK := new(TopKHeap)
	topK.Ids = make([]int32, 0, k+1)
	topK.Scores = make([]float32, 0, k+1)
	topK.K = k
	return topK
}

// Less returns true if the i-th item is worse than the j-th item. The worst
// item sits at the heap root and is evicted first. It is a method of
// heap.Interface.
func (topK *TopKHeap) Less(i, j int) bool {
	if topK.Scores[i] != topK.Scores[j] {
		return topK.Scores[i] < topK.Scores[j]
	}
	return topK.Ids[i] > topK.Ids[j]
}

// Swap the i-th item with the j-th item. It is a method of heap.Interface.
func (topK *TopKHeap) Swap(i, j int) {
	topK.Ids[i], topK.Ids[j] = topK.Ids[j], topK.Ids[i]
	topK.Scores[i], topK.Scores[j] = topK.Scores[j], topK.Scores[i]
}

// Len returns the size of heap. It is a method of heap.Interface.
func (topK *TopKHeap) Len() int {
	return len(topK.Ids)
}

type heapItem struct {
	id    int32
	score float32
}

// Push an item into the TopKHeap. It is a method of heap.Interface.
func (topK *TopKHeap) Push(x interface{}) {
	item := x.(heapItem)
	topK.Ids = append(topK.Ids, item.id)
	topK.Scores = append(topK.Scores, item.score)
}

// Pop the worst item in the TopKHeap. It is a method of heap.Interface.
func (topK *TopKHeap) Pop() interface{} {
	n := topK.Len()
	item := heapItem{id: topK.Ids[n-1], score: topK.Scores[n-1]}
	topK.Ids = topK.Ids[:n-1]
	topK.Scores = topK.Scores[:n-1]
	return item
}

// Add a new item to the TopKHeap.
func (topK *TopKHeap) Add(id int32, score float32) {
	heap.Push(topK, heapItem{id, score})
	if topK.Len() > topK.K {
		heap.Pop(topK)
	}
}

// ToSorted returns ids and scores sorted by descending score, breaking ties
// by ascending id.
func (topK *TopKHeap) ToSorted() ([]int32, []float32) {
	items := make([]heapItem, topK.Len())
	for i := range items {
		items[i] = heapItem{id: topK.Ids[i], score: topK.Scores[i]}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].score != items[j].score {
			return items[i].score > items[j].score
		}
		return items[i].id < items[j].id
	})
	ids := make([]int32, len(items))
	scores := make([]float32, len(items))
	for i, item := range items {
		ids[i] = item.id
		scores[i] = item.score
	}
	return ids, scores
}
