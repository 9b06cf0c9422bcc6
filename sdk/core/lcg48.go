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

// Package core 的 LCG48 是 randlab 的預設亂數產生器：
// 64-bit seed 狀態、48-bit 線性同餘更新、每步輸出高 32 bits。
//
// 狀態轉移（常數固定，不會重新推導）：
//
//	seed' = (seed * 0x5DEECE66D + 11) mod 2^48
//	draw  = seed' >> 16   （48-bit 狀態的高 32 bits）
//
// 0x5DEECE66D / 11 是被研究最充分的 48-bit LCG 常數組
// （drand48 / java.util.Random 同家族），統計性質有大量文獻背書。
//
// 合約重點：
//   - 決定性：相同 seed 之後的輸出序列 bit-identical，跨行程、跨平台皆然。
//   - 單執行緒：LCG48 沒有內部鎖；同一個實例同時只能由一個 goroutine 驅動。
//     需要共享序列時，由呼叫端自備互斥（見 randlab.Stream）。
//   - 非密碼學：此產生器完全不抵抗輸出觀測者的預測，只追求速度、可重現與統計均勻。
package core

import (
	"encoding/binary"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/zintix-labs/randlab/errs"
)

const (
	lcg48Multiplier = 0x5DEECE66D
	lcg48Increment  = 11
	lcg48Mask       = (1 << 48) - 1

	lcg48FloatUnit  = 1.0 / (1 << 24)
	lcg48DoubleUnit = 1.0 / (1 << 53)
)

// LCG48 亂數產生器。唯一的可變狀態就是 seed 本身；
// 任兩個 seed 相等的實例，未來輸出序列必然 bit-identical。
type LCG48 struct {
	seed int64
}

// --------------------------------------
// 提供兩種 New 方式
// --------------------------------------

// NewLCG48 以指定 seed 建立實例；從這一刻起序列完全決定。
func NewLCG48(seed int64) *LCG48 {
	return &LCG48{seed: seed}
}

// NewLCG48Random 建立實例並立即 SetSeedRandomly。
func NewLCG48Random() *LCG48 {
	r := &LCG48{}
	r.SetSeedRandomly()
	return r
}

//---------------------------------------
// 產生方法
//---------------------------------------

// step 推進一次狀態並取出本次的 32-bit draw。
// 這是唯一會改動 seed 的生成路徑；所有輸出型別都建立在它之上。
func (r *LCG48) step() uint32 {
	s := (uint64(r.seed)*lcg48Multiplier + lcg48Increment) & lcg48Mask
	r.seed = int64(s)
	return uint32(s >> 16)
}

// NextUint32 回傳一次原始 draw。
func (r *LCG48) NextUint32() uint32 {
	return r.step()
}

// NextInt32 回傳一次 draw 的有號重新詮釋；全域值域 [-2^31, 2^31-1] 皆可達。
func (r *LCG48) NextInt32() int32 {
	return int32(r.step())
}

// NextInt64 以「恰好兩次」draw 組合成 64-bit：(high << 32) | low。
// 消耗兩次 draw 是合約的一部分，決定了後續序列的對齊。
func (r *LCG48) NextInt64() int64 {
	hi := uint64(r.step())
	lo := uint64(r.step())
	return int64((hi << 32) | lo)
}

// NextFloat 回傳 [0,1) 的 float32：取一次 draw 的高 24 bits 除以 2^24。
// 永遠不會回傳 1.0。
func (r *LCG48) NextFloat() float32 {
	return float32(r.step()>>8) * lcg48FloatUnit
}

// NextFloat64 回傳 [0,1) 的 float64（53-bit 精度）：
// 第一次 draw 取高 26 bits、第二次 draw 取高 27 bits，組成 53-bit mantissa。
// 永遠不會回傳 1.0。
func (r *LCG48) NextFloat64() float64 {
	hi := uint64(r.step() >> 6)
	lo := uint64(r.step() >> 5)
	return float64((hi<<27)|lo) * lcg48DoubleUnit
}

// NextBool 取一次 draw 的最低 bit。
func (r *LCG48) NextBool() bool {
	return r.step()&1 != 0
}

// Int32N 回傳 [0,max) 的無偏整數。
//
// max 為 2 的冪時直接 mask 低位（不需要拒絕）；否則取 31-bit 非負候選值，
// 以溢位偵測式拒絕測試剔除會造成 modulo bias 的尾端區段後再取餘。
// 拒絕迴圈期望迭代次數 < 2（單輪成功率 > 0.5），不是失敗模式。
func (r *LCG48) Int32N(max int32) (int32, error) {
	if max <= 0 {
		return 0, errs.Invalidf("bounded draw requires max > 0, got %d", max)
	}
	if max&(max-1) == 0 {
		return int32(r.step()) & (max - 1), nil
	}
	for {
		candidate := int32(r.step()) & 0x7FFFFFFF
		v := candidate % max
		if candidate-v+(max-1) >= 0 {
			return v, nil
		}
	}
}

// Int32Range 回傳 [start, end) 的無偏整數；要求 end > start。
func (r *LCG48) Int32Range(start, end int32) (int32, error) {
	if end <= start {
		return 0, errs.Invalidf("bounded draw requires end > start, got [%d, %d)", start, end)
	}
	n, err := r.Int32N(end - start)
	if err != nil {
		return 0, err
	}
	return start + n, nil
}

//---------------------------------------
// Seed 管理
//---------------------------------------

// Seed 回傳目前的 seed。
func (r *LCG48) Seed() int64 {
	return r.seed
}

// SetSeed 無條件覆寫 seed，完全重置序列。
func (r *LCG48) SetSeed(seed int64) {
	r.seed = seed
}

// CombineSeed 把 value 混入目前的 seed。
//
// 這是 (currentSeed, value) 的純函數：同一個起點 seed 配同一個 value，
// 結果必然相同。混合函數選用 splitmix64（雪崩性質充分），
// value 先加上 golden gamma 再混洗，避免 value == seed 時自我抵消。
func (r *LCG48) CombineSeed(value int64) {
	r.seed = int64(splitmix64(uint64(r.seed)) ^ splitmix64(uint64(value)+0x9e3779b97f4a7c15))
}

// seedSequence 是行程全域的遞增序號，作為「呼叫者身分」的去相關輸入。
// Go 沒有可攜的 thread/goroutine 識別 API，單調序號在「短時間內大量建立實例」
// 的情境下提供等價的碰撞避免效果。
var seedSequence atomic.Int64

// processStart 固定於行程啟動；time.Since 走單調時鐘。
var processStart = time.Now()

// SetSeedRandomly 用數個弱隨機的宿主觀測值重新播種：
// 牆上時鐘、單調高解析度計數器、行程內遞增序號（caller 身分代理）、
// 以及實例自身的記憶體位址（去相關輸入）。每個觀測值經由 CombineSeed 依序摺入。
//
// 目的只是避免「同時間、同執行緒建立的實例」彼此碰撞；
// 不是、也不試圖成為對抗預測的熵來源。
func (r *LCG48) SetSeedRandomly() {
	r.CombineSeed(time.Now().UnixNano())
	r.CombineSeed(time.Since(processStart).Nanoseconds())
	r.CombineSeed(seedSequence.Add(1))
	r.CombineSeed(int64(uintptr(unsafe.Pointer(r))))
}

//---------------------------------------
// core.PRNG 介面實作
//---------------------------------------

// Uint64 回傳非負整數 uint64 亂數（兩次 draw 組合）。
func (r *LCG48) Uint64() uint64 {
	hi := uint64(r.step())
	lo := uint64(r.step())
	return (hi << 32) | lo
}

// Float64 回傳 [0,1) 的浮點亂數（53-bit 精度）。
func (r *LCG48) Float64() float64 {
	return r.NextFloat64()
}

// UintN 產出 [0,max) 的 uint 整數，若 max == 0 回傳 0。
func (r *LCG48) UintN(max uint) uint {
	if max == 0 {
		return 0
	}
	return uint(r.randBelowUint64(uint64(max)))
}

// IntN 回傳 [0,max) 的亂數；若 max <= 0 回傳 -1。
func (r *LCG48) IntN(max int) int {
	if max <= 0 {
		return -1
	}
	return int(r.randBelowUint64(uint64(max)))
}

// Snapshot 取得當下內部狀態（seed）。
func (r *LCG48) Snapshot() ([]byte, error) {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(r.seed))
	return b, nil
}

// Restore 依序列化狀態還原 seed。
func (r *LCG48) Restore(data []byte) error {
	if len(data) != 8 {
		return errs.Invalidf("lcg48 snapshot must be 8 bytes, got %d", len(data))
	}
	r.seed = int64(binary.BigEndian.Uint64(data))
	return nil
}

//---------------------------------------
// 內部方法
//---------------------------------------

// splitmix64 將輸入值混洗成新的 64-bit 狀態，用於 seed 混合。
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// randBelowUint64 回傳 [0, bound) 的無偏亂數（threshold 拒絕採樣）。
// 期望迭代次數 < 2；每輪消耗兩次 draw。
func (r *LCG48) randBelowUint64(bound uint64) uint64 {
	if bound == 0 {
		return 0
	}
	threshold := (^uint64(0) - bound + 1) % bound
	for {
		v := r.Uint64()
		if v >= threshold {
			return v % bound
		}
	}
}
