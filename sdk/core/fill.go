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
	"encoding/binary"
	"math/big"

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/bigint"
)

//---------------------------------------
// 批量填充（bytes / bit range）
//---------------------------------------

// FillBytes 以連續的 32-bit draw 填滿 buf。
//
// 每個完整 word 以 little-endian 寫入；結尾不足 4 bytes 時，
// 取最後一次 draw 的低位 bytes 依序寫入。空 buffer 是 no-op，不消耗任何 draw。
func (r *LCG48) FillBytes(buf []byte) {
	i := 0
	for ; i+4 <= len(buf); i += 4 {
		binary.LittleEndian.PutUint32(buf[i:], r.step())
	}
	if rem := len(buf) - i; rem > 0 {
		w := r.step()
		for j := 0; j < rem; j++ {
			buf[i+j] = byte(w)
			w >>= 8
		}
	}
}

// Read 實作 io.Reader：填滿 p 並回傳 len(p)。永不失敗。
func (r *LCG48) Read(p []byte) (int, error) {
	r.FillBytes(p)
	return len(p), nil
}

// FillBitRange 把 target 的半開 bit 區間 [startBit, startBit+numBits)
// 設為新鮮亂數 bits，其餘 bit 一律不動。
//
// 每開始一個 32-bit 區段就消耗恰好一次 draw（共 ceil(numBits/32) 次），
// 區段內由低位往高位逐 bit 取用。numBits == 0 是 no-op，不消耗 draw。
// startBit 或 numBits 為負屬合約違規，回報 InvalidArgument 且不推進狀態。
func (r *LCG48) FillBitRange(target bigint.Value, startBit, numBits int) error {
	if startBit < 0 || numBits < 0 {
		return errs.Invalidf("bit range requires startBit >= 0 and numBits >= 0, got [%d, +%d)", startBit, numBits)
	}
	for done := 0; done < numBits; {
		word := r.step()
		n := numBits - done
		if n > 32 {
			n = 32
		}
		for i := 0; i < n; i++ {
			target.SetBit(startBit+done+i, uint(word&1))
			word >>= 1
		}
		done += n
	}
	return nil
}

//---------------------------------------
// 大數取樣
//---------------------------------------

// LargeBelow 以拒絕採樣在 [0, bound) 均勻取樣，結果寫入 scratch。
//
// 作法：令 n = bound 的 bit 長度，反覆把 scratch 的低 n bits 填入新鮮亂數
// （n 以上的殘留 bit 先清為 0），直到 scratch < bound 為止。
// 因為 bound 佔據 2^n 的一半以上，單輪成功率 >= 0.5，期望迭代次數 < 2；
// 這是有限迴圈的純計算，不是失敗模式。
//
// scratch 由呼叫端提供且必須已經夠大；本函數不配置、不擴容。
// 能力介面只表達非負整數的大小（magnitude）；bound 為零屬合約違規。
func (r *LCG48) LargeBelow(bound, scratch bigint.Value) error {
	n := bound.BitLength()
	if n == 0 {
		return errs.NewInvalid("large bounded draw requires bound > 0")
	}
	for {
		for scratch.BitLength() > n {
			scratch.SetBit(scratch.BitLength()-1, 0)
		}
		if err := r.FillBitRange(scratch, 0, n); err != nil {
			return err
		}
		if scratch.Cmp(bound) < 0 {
			return nil
		}
	}
}

// NextBig 是 LargeBelow 的便利入口：回傳 [0, bound) 的新 *big.Int。
func (r *LCG48) NextBig(bound *big.Int) (*big.Int, error) {
	if bound == nil || bound.Sign() <= 0 {
		return nil, errs.NewInvalid("large bounded draw requires bound > 0")
	}
	out := new(big.Int)
	if err := r.LargeBelow(bigint.Wrap(bound), bigint.Wrap(out)); err != nil {
		return nil, err
	}
	return out, nil
}
