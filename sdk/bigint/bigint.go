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

// Package bigint 定義亂數核心所需的「任意精度整數能力介面」。
//
// 核心（sdk/core）只透過這組最小能力操作大數：查 bit 長度、讀寫單一 bit、比較大小。
// 核心永遠不負責配置或擴容大數本身——呼叫端提供的物件必須已經夠大。
//
// 這樣設計的理由：
//   - 任意精度算術不是亂數核心的職責；重新實作只會引入新的 bug 面。
//   - 標準庫 math/big 已是生態系的事實標準，Big adapter 直接包裝它。
//   - 介面化之後，測試可以注入自製的小型實作來驗證「核心只碰了哪些 bit」。
package bigint

import "math/big"

// Value 是核心消費的任意精度整數能力集合。
//
// 合約：
//   - BitLength 回傳最高位 1-bit 的位置 + 1；零值回傳 0。
//   - Bit(i) 回傳第 i bit（0 或 1）；i 超出目前長度時回傳 0。
//   - SetBit(i, b) 就地設定第 i bit；b 只看最低位（0 清除、1 設定）。
//   - Cmp 回傳 -1 / 0 / +1，語意同 math/big.Int.Cmp。
type Value interface {
	BitLength() int
	Bit(i int) uint
	SetBit(i int, b uint)
	Cmp(o Value) int
}

// Big 以 math/big.Int 實作 Value。
//
// 注意：SetBit 在 math/big 底下可能觸發配置（word slice 擴容），
// 這屬於 adapter 的行為，不是核心的行為——核心只呼叫能力介面。
type Big struct {
	n *big.Int
}

// Wrap 將既有的 *big.Int 包成 Value；nil 會被視為零值並就地建立。
func Wrap(n *big.Int) *Big {
	if n == nil {
		n = new(big.Int)
	}
	return &Big{n: n}
}

// NewBig 建立一個零值的 Big。
func NewBig() *Big {
	return &Big{n: new(big.Int)}
}

// Int 取回底層的 *big.Int（共享，非複製）。
func (b *Big) Int() *big.Int { return b.n }

func (b *Big) BitLength() int { return b.n.BitLen() }

func (b *Big) Bit(i int) uint { return b.n.Bit(i) }

func (b *Big) SetBit(i int, bit uint) {
	b.n.SetBit(b.n, i, bit&1)
}

// Cmp 比較兩個 Value。
// 若對方同為 *Big 走 math/big 的快路徑；否則退回逐 bit 比較（由高位往低位）。
func (b *Big) Cmp(o Value) int {
	if ob, ok := o.(*Big); ok {
		return b.n.Cmp(ob.n)
	}
	return CmpBits(b, o)
}

// CmpBits 僅用能力介面逐 bit 比較兩個 Value，語意同 Cmp。
// 這是跨實作比較的後援路徑，也讓自製測試替身不必實作完整比較。
func CmpBits(a, b Value) int {
	la, lb := a.BitLength(), b.BitLength()
	if la != lb {
		if la < lb {
			return -1
		}
		return 1
	}
	for i := la - 1; i >= 0; i-- {
		ba, bb := a.Bit(i), b.Bit(i)
		if ba != bb {
			if ba < bb {
				return -1
			}
			return 1
		}
	}
	return 0
}
