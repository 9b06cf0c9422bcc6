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

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/core"
)

const maxLUTCap uint64 = 10_000_000 // 約 80MB（int slice）

// LUT 是展開式查找表：索引 i 在表中出現 weights[i] 次，抽樣只做一次
// IntN。空間換時間——建表 O(sum(weights))、抽樣 O(1) 且比 AliasTable
// 少消耗一次 draw。
//
// 例：weights = [3,5,0] 展開成 [0,0,0,1,1,1,1,1]，直接取一格就是加權抽樣：
// 索引 0 的機率 3/8、索引 1 為 5/8、索引 2 永不出現。
//
// 記憶體與權重總和成正比，總和大（約 > 100_000）時改用 AliasTable。
type LUT []int

// BuildLUT 由非負整數權重展開查找表。
// 空列表、負權重、全零權重、或總和超過 maxLUTCap 回報 InvalidArgument。
func BuildLUT[T Integers](src []T) (LUT, error) {
	if len(src) == 0 {
		return nil, errs.NewInvalid("lut requires at least one weight")
	}

	acc := uint64(0)
	for _, v := range src {
		if v < 0 {
			return nil, errs.Invalidf("lut: negative weight %d", int64(v))
		}
		uv := uint64(v)
		if acc > math.MaxUint64-uv {
			return nil, errs.NewInvalid("lut: total weight overflows uint64 range")
		}
		acc += uv
	}
	if acc == 0 {
		return nil, errs.NewInvalid("lut: all weights are zero")
	}
	if acc > maxLUTCap {
		return nil, errs.Invalidf("lut: total weight %d exceeds limit %d, use alias table instead", acc, maxLUTCap)
	}

	lut := make([]int, 0, int(acc))
	for i, v := range src {
		// 索引 i 重複寫入 v 次
		for j := T(0); j < v; j++ {
			lut = append(lut, i)
		}
	}
	return lut, nil
}

// Pick 抽出一個索引；空表回傳 -1。單次 draw。
func (l LUT) Pick(c *core.Core) int {
	return c.Pick(l)
}
