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

// Package randlab 提供具名亂數 stream 的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// 你可以把 Randlab 視為一個「可被後端/CLI 使用的 runtime」，它把兩個地基組裝在一起：
//  1. Registry：stream 目錄（Single Source of Truth / SSOT），定義有哪些具名 stream、各自的起始 seed。
//  2. 亂數核心（sdk/core.LCG48）：決定性的 48-bit LCG，保證可重現（reproducible）與可審計（auditable）。
//
// 設計重點：
//   - Randlab 本身不綁定任何「檔案路徑」概念：設定檔來源一律以 fs.FS 的形式注入。
//   - Stream 是對外提供取樣的最小單位：它替單一 LCG48 實例補上互斥，
//     讓一條序列可以安全地被多個 goroutine 共享（核心本身沒有內部鎖，這是合約）。
//   - 需要 per-caller、免建構的實例時，直接用 sdk/core 的 Acquire/Release，不經過 Lab。
//
// 典型使用情境：
//   - 後端服務（HTTP）：由 Lab 建立 Stream，Stream 對外提供 draw 端點背後的取樣。
//   - CLI / 均勻性驗證：由 Lab（或直接用 sdk/core）建立產生器進行大量取樣與卡方檢定。
package randlab

import (
	"io/fs"

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/spec"
)

// Configs 用來把一或多個設定檔來源（fs.FS）打包成 New() 需要的參數。
//
// 為什麼是 fs.FS：
//   - 你可以用 go:embed 把 configs 直接編進 binary（部署最穩定，不依賴工作目錄）。
//   - 也可以用 os.DirFS 在本機開發時讀取目錄。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Lab 是組裝器：持有解析完成的 Registry 與建好的 Stream 表。
//
// 使用流程分成兩階段：
//   - 組裝階段：解析設定、檢查重複、建立所有 Stream（固定 seed 的從該 seed 起跑，
//     未宣告 seed 的隨機播種）。
//   - 執行階段：依名稱取 Stream 取樣。runtime 一旦開始，不建議再變更設定。
type Lab struct {
	reg     *spec.Registry
	streams map[string]*Stream
}

// New 建立一個 Lab instance。
//
// 參數要求（是合約的一部分）：
//   - cfgs 至少一個：沒有設定檔來源，Registry 無法解析 StreamSetting。
//
// 所有 Stream 在這裡一次建好；建立即播種，之後序列只由取樣呼叫推進。
func New(cfgs []fs.FS) (*Lab, error) {
	if len(cfgs) == 0 {
		return nil, errs.NewFatal("configs required")
	}
	reg, err := spec.LoadRegistry(cfgs...)
	if err != nil {
		return nil, err
	}

	lab := &Lab{
		reg:     reg,
		streams: make(map[string]*Stream, reg.Len()),
	}
	for _, name := range reg.Names() {
		setting, _ := reg.Get(name)
		lab.streams[name] = newStream(setting)
	}
	return lab, nil
}

// Stream 依名稱取得具名 stream；不存在時回傳 (nil, false)。
func (l *Lab) Stream(name string) (*Stream, bool) {
	s, ok := l.streams[name]
	return s, ok
}

// Names 回傳固定順序的 stream 名稱列表。
func (l *Lab) Names() []string {
	return l.reg.Names()
}

// MustStream 同 Stream，但不存在時改回傳 error，方便 handler 直接串接。
func (l *Lab) MustStream(name string) (*Stream, error) {
	s, ok := l.streams[name]
	if !ok {
		return nil, errs.Invalidf("stream %q not found", name)
	}
	return s, nil
}
