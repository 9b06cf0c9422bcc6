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
	"math"
	"math/bits"

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/core"
)

// AliasTable 是 Vose alias method 的整數版：建表 O(N)、抽樣固定消耗
// 兩次 IntN，空間 O(N) 且與權重總和無關。權重總和很大或差異懸殊時，
// 用它取代 LUT 可以避免巨大的展開切片。
//
// 全程整數 scaling（prob[i] = w[i]*N，與 total 比較），不經過浮點數，
// 所以不會有 0.999... != 1.0 的精度誤差累積。
type AliasTable struct {
	Prob    []int
	Aliases []int
	Size    int
	Total   int
}

// BuildAliasTable 由非負整數權重建表。權重不需正規化，個別權重可為零。
//
// 建表流程：
//  1. 每個權重乘上元素數 N 做整數 scaling。
//  2. 依 scaled 值與 total 的大小分進 small / large 兩桶。
//  3. 從兩桶各取一個元素，把 small 的缺額掛到 large 的別名上，
//     維持 sum(prob) = total*N 的不變量，直到一桶取空。
//
// 空列表、負權重、全零權重、或 w*N 會溢位 int64 都回報 InvalidArgument。
func BuildAliasTable(weights []int) (*AliasTable, error) {
	if len(weights) == 0 {
		return nil, errs.NewInvalid("alias table requires at least one weight")
	}

	n := len(weights)
	total := uint64(0)
	for _, w := range weights {
		if w < 0 {
			return nil, errs.Invalidf("alias table: negative weight %d", w)
		}
		if total > uint64(math.MaxInt)-uint64(w) {
			return nil, errs.NewInvalid("alias table: total weight overflows int range")
		}
		total += uint64(w)
	}
	if total == 0 {
		return nil, errs.NewInvalid("alias table: all weights are zero")
	}
	if !isSafeMultiply(int(total), n) {
		return nil, errs.NewInvalid("alias table: scaled weights overflow int64")
	}

	prob := make([]int, n)
	aliases := make([]int, n)
	small := make([]int, 0)
	large := make([]int, 0)

	for i, w := range weights {
		prob[i] = w * n
		if prob[i] < int(total) {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		aliases[s] = l
		prob[l] = prob[l] + prob[s] - int(total)

		if prob[l] < int(total) {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}

	return &AliasTable{
		Prob:    prob,
		Aliases: aliases,
		Size:    n,
		Total:   int(total),
	}, nil
}

// isSafeMultiply 檢查 a*b 是否仍在 int64 範圍內（建表階段的前置檢查）。
func isSafeMultiply(a, b int) bool {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return hi == 0 && lo <= math.MaxInt64
}

// Pick 抽出一個索引；零值（空表）回傳 -1。
//
// 固定兩次 draw：先用 IntN(Size) 選槽位，再用 IntN(Total) 與 Prob[idx]
// 比較決定選自己還是別名。這是浮點版 U < p[idx] 的整數等價式
// （Prob[idx] = w[idx]*Size 已經 scaling 過）。
func (at *AliasTable) Pick(c *core.Core) int {
	if at.Size == 0 {
		return -1
	}
	idx := c.IntN(at.Size)
	if c.IntN(at.Total) < at.Prob[idx] {
		return idx
	}
	return at.Aliases[idx]
}
