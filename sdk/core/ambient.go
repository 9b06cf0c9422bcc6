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

package core

import (
	"context"
	"sync"
)

// =========================================================
// Ambient 實例：不經顯式建構即可取得的 per-caller 產生器。
//
// 安全性來自「分割（partitioning）」而不是鎖：
// 在 Acquire 與 Release 之間，實例完全由取得它的 goroutine 獨占，
// 不存在跨 goroutine 競爭。這裡刻意不做「單一共享實例 + 全域鎖」——
// 那會讓不相干的 goroutine 互相序列化，改變原本的併發性格。
//
// 呼叫端合約（不可違反）：
//   - Acquire 回來的實例不得存起來給其他 goroutine 用；
//     跨 goroutine 共享一條序列請自備互斥（見 randlab.Stream）。
//   - Release 之後不得再碰該實例。
//
// sync.Pool 的 per-P cache 讓熱路徑上 Acquire/Release 幾乎不碰共享狀態。
// =========================================================

var ambientPool = sync.Pool{
	New: func() any {
		// 首次取用時自動隨機播種；之後同一個實例在 pool 內保留其序列進度。
		return NewLCG48Random()
	},
}

// Acquire 取得一個 ambient 產生器，供目前 goroutine 獨占使用。
// 首次建立時已 SetSeedRandomly。
func Acquire() *LCG48 {
	return ambientPool.Get().(*LCG48)
}

// Release 歸還 ambient 產生器。歸還後呼叫端不得再使用該實例。
func Release(r *LCG48) {
	if r == nil {
		return
	}
	ambientPool.Put(r)
}

// =========================================================
// Context 攜帶：顯式傳遞的替代風格。
//
// 偏好可測試性勝過 ambient 便利性時，把實例放進 context 往下傳，
// 由建立 context 的那一側決定生命週期與播種方式。
// =========================================================

type ctxKey struct{}

// NewContext 回傳攜帶 c 的 context。
// c 仍受單一 goroutine 驅動的合約約束；context 只負責傳遞，不提供同步。
func NewContext(ctx context.Context, c *Core) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext 取出 context 攜帶的 Core；不存在時回傳 (nil, false)。
func FromContext(ctx context.Context) (*Core, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Core)
	return c, ok
}
