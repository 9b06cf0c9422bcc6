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
	"io"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/core"
	"github.com/zintix-labs/randlab/stats"
)

// Trialer 對單一 stream 設定執行大量 bounded draw，並以卡方檢定驗證均勻性。
// 與 Stream 不同，Trialer 不共享狀態：每次 Run/RunMP 都從 stream 的出生 seed
// 重新起跑（worker > 1 時各 worker 以 CombineSeed 派生獨立序列）。
type Trialer struct {
	name string
	seed int64
}

// NewTrialer 以 lab 內的 stream 為藍本建立 Trialer。
func (l *Lab) NewTrialer(name string) (*Trialer, error) {
	s, err := l.MustStream(name)
	if err != nil {
		return nil, err
	}
	return &Trialer{name: s.Name(), seed: s.InitSeed()}, nil
}

// NewTrialerWithSeed 直接用給定 seed 建立 Trialer（不需要 lab）。
func NewTrialerWithSeed(name string, seed int64) *Trialer {
	return &Trialer{name: name, seed: seed}
}

// Run 單執行緒跑 trials 次 [0,buckets) 取樣，回傳檢定報告與用時。
func (t *Trialer) Run(buckets int32, trials int, alpha float64, showpb bool) (*stats.UniformReport, time.Duration, error) {
	if trials < 1 {
		return nil, 0, errs.Invalidf("trials must be > 0, got %d", trials)
	}
	h, err := stats.NewHistogram(int(buckets))
	if err != nil {
		return nil, 0, err
	}

	rng := core.NewLCG48(t.seed)
	bar := pb.StartNew(trials)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < trials; i++ {
		v, err := rng.Int32N(buckets)
		if err != nil {
			return nil, 0, err
		}
		h.Add(int(v))
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()

	report, err := stats.ChiSquareUniform(h, alpha)
	if err != nil {
		return nil, 0, err
	}
	return report, used, nil
}

// RunMP 以 mp 個 worker 平行取樣，每個 worker 從派生 seed 起跑，
// 總計 trials 次（餘數分給前面的 worker），收尾合併直方圖後檢定。
func (t *Trialer) RunMP(buckets int32, trials int, mp int, alpha float64, showpb bool) (*stats.UniformReport, time.Duration, error) {
	if mp <= 0 {
		return nil, 0, errs.Invalidf("workers must be > 0, got %d", mp)
	}
	if mp == 1 {
		return t.Run(buckets, trials, alpha, showpb)
	}
	if trials < 1 {
		return nil, 0, errs.Invalidf("trials must be > 0, got %d", trials)
	}

	hists := make([]*stats.Histogram, mp)
	for i := range hists {
		h, err := stats.NewHistogram(int(buckets))
		if err != nil {
			return nil, 0, err
		}
		hists[i] = h
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := pb.StartNew(trials)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	var firstErr error
	var errOnce sync.Once
	for i := 0; i < mp; i++ {
		share := trials / mp
		if i < trials%mp {
			share++
		}
		go func(i, share int) {
			defer wg.Done()
			rng := core.NewLCG48(t.seed)
			rng.CombineSeed(int64(i))
			h := hists[i]
			for r := 0; r < share; r++ {
				v, err := rng.Int32N(buckets)
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					return
				}
				h.Add(int(v))
				bar.Increment()
			}
		}(i, share)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if firstErr != nil {
		return nil, 0, firstErr
	}

	merged := hists[0]
	for _, h := range hists[1:] {
		if err := merged.Merge(h); err != nil {
			return nil, 0, err
		}
	}
	report, err := stats.ChiSquareUniform(merged, alpha)
	if err != nil {
		return nil, 0, err
	}
	return report, used, nil
}
