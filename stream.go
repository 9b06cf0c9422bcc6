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
	"bytes"
	"io"
	"math/big"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/randlab/corefmt"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/core"
	"github.com/zintix-labs/randlab/spec"
	"github.com/zintix-labs/randlab/stats"
)

// Stream 封裝一條「可被多 goroutine 共享」的具名序列。
//
// 核心的 LCG48 沒有內部鎖（單執行緒驅動是它的合約）；Stream 是官方示範的
// 「外部互斥」作法：一把 mutex 保護一個實例，換取跨呼叫者的一條總序列。
// 在鎖內，每次取樣對序列的消耗量與單執行緒時完全一致，順序就是呼叫順序。
//
// initseed 用於記錄出生時的 seed（追溯/重現的基礎資訊）；
// 完整審計仍以 Snapshot/Restore 為準。
type Stream struct {
	name          string
	note          string
	deterministic bool
	initseed      int64

	mu  sync.Mutex
	rng *core.LCG48
}

func newStream(setting *spec.StreamSetting) *Stream {
	var rng *core.LCG48
	if setting.Deterministic() {
		rng = core.NewLCG48(*setting.Seed)
	} else {
		rng = core.NewLCG48Random()
	}
	return &Stream{
		name:          setting.Name,
		note:          setting.Note,
		deterministic: setting.Deterministic(),
		initseed:      rng.Seed(),
		rng:           rng,
	}
}

// Name 回傳 stream 名稱。
func (s *Stream) Name() string { return s.name }

// Deterministic 回報此 stream 是否由宣告的固定 seed 起跑。
func (s *Stream) Deterministic() bool { return s.deterministic }

// InitSeed 回傳出生 seed（觀測用）。
func (s *Stream) InitSeed() int64 { return s.initseed }

//---------------------------------------
// 取樣（全部走鎖）
//---------------------------------------

// Int32N 回傳 [0,max) 的無偏整數。
func (s *Stream) Int32N(max int32) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int32N(max)
}

// Int32Range 回傳 [start,end) 的無偏整數。
func (s *Stream) Int32Range(start, end int32) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Int32Range(start, end)
}

// Ints 一次取 n 個 [0,max) 整數。
func (s *Stream) Ints(max int32, n int) ([]int32, error) {
	if n < 0 {
		return nil, errs.Invalidf("draw count must be >= 0, got %d", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int32, n)
	for i := range out {
		v, err := s.rng.Int32N(max)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Floats 一次取 n 個 [0,1) 的 float64。
func (s *Stream) Floats(n int) ([]float64, error) {
	if n < 0 {
		return nil, errs.Invalidf("draw count must be >= 0, got %d", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, n)
	for i := range out {
		out[i] = s.rng.NextFloat64()
	}
	return out, nil
}

// Bytes 取 n 個亂數 bytes。
func (s *Stream) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errs.Invalidf("draw count must be >= 0, got %d", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, n)
	s.rng.FillBytes(out)
	return out, nil
}

// Bools 一次取 n 個布林值。
func (s *Stream) Bools(n int) ([]bool, error) {
	if n < 0 {
		return nil, errs.Invalidf("draw count must be >= 0, got %d", n)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bool, n)
	for i := range out {
		out[i] = s.rng.NextBool()
	}
	return out, nil
}

// NextBig 回傳 [0,bound) 的大數。
func (s *Stream) NextBig(bound *big.Int) (*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.NextBig(bound)
}

// Uniformity 由此 stream 取 trials 個 [0,buckets) 樣本並做卡方均勻性檢定。
func (s *Stream) Uniformity(buckets int32, trials int, alpha float64) (*stats.UniformReport, error) {
	if trials <= 0 {
		return nil, errs.Invalidf("trials must be > 0, got %d", trials)
	}
	h, err := stats.NewHistogram(int(buckets))
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < trials; i++ {
		v, err := s.rng.Int32N(buckets)
		if err != nil {
			return nil, err
		}
		h.Add(int(v))
	}
	return stats.ChiSquareUniform(h, alpha)
}

//---------------------------------------
// Snapshot / Restore
//---------------------------------------

// Snapshot 取得核心當下的序列化狀態。
func (s *Stream) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Snapshot()
}

// Restore 以 Snapshot 產出的狀態還原核心。
func (s *Stream) Restore(src []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Restore(src)
}

// Export 把 snapshot 以 zstd 壓縮後寫成 length-prefixed frame。
// 這是存檔/傳輸用的穩定外部格式；線上 API 傳 Base64 的裸 snapshot 即可。
func (s *Stream) Export(w io.Writer) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return errs.Wrap(err, "create zstd writer failed")
	}
	if _, err := zw.Write(snap); err != nil {
		zw.Close()
		return errs.Wrap(err, "compress snapshot failed")
	}
	if err := zw.Close(); err != nil {
		return errs.Wrap(err, "close zstd writer failed")
	}
	return corefmt.WriteBlobFrame(w, buf.Bytes())
}

// Import 讀回 Export 寫出的 frame 並還原核心狀態。
func (s *Stream) Import(r io.Reader) error {
	frame, err := corefmt.ReadBlobFrame(r, 1<<20)
	if err != nil {
		return err
	}
	zr, err := zstd.NewReader(bytes.NewReader(frame))
	if err != nil {
		return errs.Wrap(err, "create zstd reader failed")
	}
	defer zr.Close()
	snap, err := io.ReadAll(zr)
	if err != nil {
		return errs.Wrap(err, "decompress snapshot failed")
	}
	return s.Restore(snap)
}
