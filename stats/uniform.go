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

package stats

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/zintix-labs/randlab/errs"
)

// DefaultAlpha 是均勻性檢定的預設顯著水準。
// 取保守的 0.001：判定「不均勻」需要非常強的證據，
// 避免長期跑在 CI 裡的決定性測試偶發誤殺。
const DefaultAlpha = 0.001

// ChiSquareUniform 以 Pearson 卡方檢定評估 h 是否與均勻分布一致。
//
// 虛無假設：每個桶的期望次數為 total/buckets。
// p-value 由自由度 buckets-1 的卡方分布右尾計算（gonum distuv）。
// alpha <= 0 時採用 DefaultAlpha。
//
// 合約要求至少 2 個桶且至少 1 個樣本；否則 InvalidArgument。
func ChiSquareUniform(h *Histogram, alpha float64) (*UniformReport, error) {
	if h == nil || len(h.counts) < 2 {
		return nil, errs.NewInvalid("chi-square requires at least 2 buckets")
	}
	if h.total == 0 {
		return nil, errs.NewInvalid("chi-square requires at least 1 sample")
	}
	if alpha <= 0 {
		alpha = DefaultAlpha
	}

	k := len(h.counts)
	expected := float64(h.total) / float64(k)
	x2 := 0.0
	for _, c := range h.counts {
		d := float64(c) - expected
		x2 += d * d / expected
	}

	df := k - 1
	dist := distuv.ChiSquared{K: float64(df)}
	p := 1 - dist.CDF(x2)

	return &UniformReport{
		Buckets:    k,
		Trials:     h.total,
		Counts:     h.counts,
		OutOfRange: h.oor,
		ChiSquare:  x2,
		DF:         df,
		PValue:     p,
		Alpha:      alpha,
		Uniform:    p >= alpha && h.oor == 0,
	}, nil
}
