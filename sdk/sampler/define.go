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

// Package sampler 提供建立在 core 決定性亂數之上的加權抽樣演算法。
//
// 所有抽樣都只透過 *core.Core 消耗亂數：同一條權重列表配同一個 seed，
// 抽出的序列完全可重現，可以被 snapshot/restore 之後逐筆重放。
// 權重不合法（負值、全零、總和溢位）回報 InvalidArgument，不是 panic。
package sampler

// Integers 約束底層為整數的權重型別。
type Integers interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Floaters 約束底層為浮點數的型別。
type Floaters interface {
	~float32 | ~float64
}

// Numbers 約束所有數值型別。
type Numbers interface {
	Integers | Floaters
}
