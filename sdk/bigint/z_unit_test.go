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

package bigint

import (
	"math/big"
	"testing"
)

func TestBigBitOps(t *testing.T) {
	b := NewBig()
	if b.BitLength() != 0 {
		t.Fatalf("zero value must have bit length 0")
	}

	b.SetBit(0, 1)
	b.SetBit(5, 1)
	if b.BitLength() != 6 {
		t.Fatalf("bit length: got %d, want 6", b.BitLength())
	}
	if b.Bit(0) != 1 || b.Bit(5) != 1 || b.Bit(3) != 0 {
		t.Fatalf("unexpected bits: %s", b.Int())
	}

	b.SetBit(5, 0)
	if b.BitLength() != 1 {
		t.Fatalf("clearing the top bit must shrink the length, got %d", b.BitLength())
	}

	// SetBit 只看最低位。
	b.SetBit(2, 3)
	if b.Bit(2) != 1 {
		t.Fatalf("SetBit must honor only the low bit of the value")
	}
}

func TestBigCmp(t *testing.T) {
	a := Wrap(big.NewInt(10))
	b := Wrap(big.NewInt(12))
	if a.Cmp(b) != -1 || b.Cmp(a) != 1 || a.Cmp(Wrap(big.NewInt(10))) != 0 {
		t.Fatalf("Cmp fast path broken")
	}
}

// bitOnly 只實作能力介面，沒有 math/big 後盾，用來驗證跨實作比較的後援路徑。
type bitOnly struct{ bits map[int]uint }

func (v *bitOnly) BitLength() int {
	top := -1
	for i, b := range v.bits {
		if b == 1 && i > top {
			top = i
		}
	}
	return top + 1
}
func (v *bitOnly) Bit(i int) uint { return v.bits[i] }
func (v *bitOnly) SetBit(i int, b uint) {
	if v.bits == nil {
		v.bits = map[int]uint{}
	}
	v.bits[i] = b & 1
}
func (v *bitOnly) Cmp(o Value) int { return CmpBits(v, o) }

func TestCmpBitsFallback(t *testing.T) {
	foreign := &bitOnly{}
	foreign.SetBit(0, 1)
	foreign.SetBit(3, 1) // 9

	if got := Wrap(big.NewInt(10)).Cmp(foreign); got != 1 {
		t.Fatalf("10 vs 9: got %d, want 1", got)
	}
	if got := Wrap(big.NewInt(9)).Cmp(foreign); got != 0 {
		t.Fatalf("9 vs 9: got %d, want 0", got)
	}
	if got := Wrap(big.NewInt(8)).Cmp(foreign); got != -1 {
		t.Fatalf("8 vs 9: got %d, want -1", got)
	}
}

func TestWrapNil(t *testing.T) {
	b := Wrap(nil)
	if b.Int() == nil || b.BitLength() != 0 {
		t.Fatalf("Wrap(nil) must behave as zero")
	}
}
