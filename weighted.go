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

package randlab

import (
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/core"
	"github.com/zintix-labs/randlab/sdk/sampler"
)

// 權重總和在此上限以下走 LUT（單次 draw），以上走 AliasTable（兩次
// draw、空間與總和無關）。門檻只依賴權重本身，所以同一條權重列表在
// 重放時永遠選到同一種結構，序列消耗量一致。
const lutWeightLimit = 100_000

// picker 是 LUT 與 AliasTable 的共同抽樣介面。
type picker interface {
	Pick(c *core.Core) int
}

func buildPicker(weights []int) (picker, error) {
	total := uint64(0)
	for _, w := range weights {
		if w < 0 {
			return nil, errs.Invalidf("weighted draw: negative weight %d", w)
		}
		total += uint64(w)
	}
	if total <= lutWeightLimit {
		lut, err := sampler.BuildLUT(weights)
		if err != nil {
			return nil, err
		}
		return lut, nil
	}
	at, err := sampler.BuildAliasTable(weights)
	if err != nil {
		return nil, err
	}
	return at, nil
}

// WeightedPick 依權重放回抽樣 n 個索引。
// 權重不需正規化；零權重的索引永不出現。
func (s *Stream) WeightedPick(weights []int, n int) ([]int, error) {
	if n < 0 {
		return nil, errs.Invalidf("draw count must be >= 0, got %d", n)
	}
	p, err := buildPicker(weights)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := core.New(s.rng)
	out := make([]int, n)
	for i := range out {
		out[i] = p.Pick(c)
	}
	return out, nil
}

// WeightedShuffle 回傳加權隨機排列：權重越大越靠前，零權重墊底。
func (s *Stream) WeightedShuffle(weights []int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sampler.WeightedShuffle(core.New(s.rng), weights)
}

// WeightedSample 不放回抽出前 k 名；零權重的索引永不入選，
// 有效權重不足 k 個時結果跟著縮短。
func (s *Stream) WeightedSample(weights []int, k int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sampler.WeightedSample(core.New(s.rng), weights, k)
}
