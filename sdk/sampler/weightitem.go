// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sampler

import (
	"cmp"
	"container/heap"
	"math"
	"slices"

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/core"
)

// weightItem 綁定原始索引與 exponential race 算出的分數。
type weightItem struct {
	idx   int
	score float64
}

// weightHeap 是容量 K 的 max-heap：堆頂放目前入選者中分數最大（最該被
// 淘汰）的那個，新元素分數更小時直接替換堆頂。Less 反向比較，讓 Go 的
// min-heap 行為變成 max-heap。
type weightHeap []weightItem

func (h weightHeap) Len() int           { return len(h) }
func (h weightHeap) Less(i, j int) bool { return h[i].score > h[j].score }
func (h weightHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *weightHeap) Push(x any) {
	*h = append(*h, x.(weightItem))
}

func (h *weightHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// WeightedShuffle 加權不放回全排列（Efraimidis–Spirakis，A-ExpJ）。
//
// 每個元素算一個分數 score = ExpFloat64 / w：權重越大分數越小，
// 依分數由小到大排序就是加權隨機排列。這等價於原論文的
// k_i = U^(1/w_i)，用 log 轉換換取數值穩定。
//
// 權重為零的元素分數設為 +Inf，固定排在最後；負權重回報 InvalidArgument。
// 時間 O(N log N)（瓶頸在排序）、空間 O(N)。
func WeightedShuffle(c *core.Core, weights []int) ([]int, error) {
	n := len(weights)
	if n == 0 {
		return []int{}, nil
	}

	items := make([]weightItem, n)
	for i, w := range weights {
		if w < 0 {
			return nil, errs.Invalidf("weighted shuffle: negative weight %d", w)
		}
		if w == 0 {
			items[i] = weightItem{idx: i, score: math.Inf(1)}
			continue
		}
		items[i] = weightItem{idx: i, score: c.ExpFloat64() / float64(w)}
	}

	slices.SortFunc(items, func(a, b weightItem) int {
		return cmp.Compare(a.score, b.score)
	})

	result := make([]int, n)
	for i, item := range items {
		result[i] = item.idx
	}
	return result, nil
}

// WeightedShuffleWithFilter 與 WeightedShuffle 相同，但結果只含
// 權重 > 0 的索引（長度 M <= N）。零權重元素不消耗 draw。
func WeightedShuffleWithFilter(c *core.Core, weights []int) ([]int, error) {
	n := len(weights)
	if n == 0 {
		return []int{}, nil
	}

	items := make([]weightItem, 0, n)
	for i, w := range weights {
		if w < 0 {
			return nil, errs.Invalidf("weighted shuffle: negative weight %d", w)
		}
		if w == 0 {
			continue
		}
		items = append(items, weightItem{idx: i, score: c.ExpFloat64() / float64(w)})
	}

	slices.SortFunc(items, func(a, b weightItem) int {
		return cmp.Compare(a.score, b.score)
	})

	result := make([]int, len(items))
	for i, item := range items {
		result[i] = item.idx
	}
	return result, nil
}

// WeightedSample 加權不放回抽前 K 名（Efraimidis–Spirakis，A-Res）。
//
// 分數生成與 WeightedShuffle 相同，但只用容量 K 的 max-heap 維護目前
// 最優的 K 個：新分數比堆頂小時改寫堆頂再 Fix（比 Pop+Push 少一次
// log K）。時間 O(N log K)、空間 O(K)，K << N 時遠比全排序省。
//
// k <= 0 回傳空結果；k > N 視同全取；權重為零的索引永不入選，
// 有效權重數量不足 K 時結果長度跟著縮短。負權重回報 InvalidArgument。
func WeightedSample(c *core.Core, weights []int, k int) ([]int, error) {
	n := len(weights)
	if k <= 0 || n == 0 {
		return []int{}, nil
	}
	if k > n {
		k = n
	}

	h := make(weightHeap, 0, k)
	for i, w := range weights {
		if w < 0 {
			return nil, errs.Invalidf("weighted sample: negative weight %d", w)
		}
		if w == 0 {
			continue
		}

		score := c.ExpFloat64() / float64(w)
		if h.Len() < k {
			heap.Push(&h, weightItem{idx: i, score: score})
		} else if score < h[0].score {
			h[0] = weightItem{idx: i, score: score}
			heap.Fix(&h, 0)
		}
	}

	actual := h.Len()
	if actual == 0 {
		return []int{}, nil
	}

	// max-heap 先彈出最後一名，倒序填入讓結果照名次排列。
	result := make([]int, actual)
	for i := actual - 1; i >= 0; i-- {
		result[i] = heap.Pop(&h).(weightItem).idx
	}
	return result, nil
}
