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
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"math/big"
	"slices"
	"testing"

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/bigint"
)

// 已知解向量：seed = 1 時的前幾次 draw。
// seed' = (1 * 0x5DEECE66D + 11) mod 2^48 = 25214903928，draw = seed' >> 16。
var seedOneDraws = []uint32{
	384748, 3143714957, 3745583449, 1612966641,
	3411513254, 1563994289, 1331515492, 4060275648,
}

func TestStepKnownAnswer(t *testing.T) {
	r := NewLCG48(1)
	for i, want := range seedOneDraws {
		if got := r.NextUint32(); got != want {
			t.Fatalf("draw %d: got %d, want %d", i, got, want)
		}
	}

	r.SetSeed(1)
	if got := r.NextInt32(); got != 384748 {
		t.Fatalf("NextInt32 from seed 1: got %d, want 384748", got)
	}
	if got := r.Seed(); got != 25214903928 {
		t.Fatalf("seed after one step: got %d, want 25214903928", got)
	}
}

func TestNextInt64ConsumesTwoDraws(t *testing.T) {
	r := NewLCG48(1)
	want := int64(uint64(seedOneDraws[0])<<32 | uint64(seedOneDraws[1]))
	if got := r.NextInt64(); got != want {
		t.Fatalf("NextInt64: got %d, want %d", got, want)
	}
	// 接下來的 draw 必須是第三個：消耗數量是合約。
	if got := r.NextUint32(); got != seedOneDraws[2] {
		t.Fatalf("draw after NextInt64: got %d, want %d", got, seedOneDraws[2])
	}
}

func TestDeterminism(t *testing.T) {
	a := NewLCG48(12345)
	b := NewLCG48(12345)
	for i := 0; i < 64; i++ {
		if a.NextInt32() != b.NextInt32() {
			t.Fatalf("sequence diverged at %d", i)
		}
	}
}

func TestFloatUnitInterval(t *testing.T) {
	r := NewLCG48(1)
	if got, want := r.NextFloat(), float32(seedOneDraws[0]>>8)/(1<<24); got != want {
		t.Fatalf("NextFloat: got %v, want %v", got, want)
	}

	r.SetSeed(99)
	for i := 0; i < 100000; i++ {
		if f := r.NextFloat(); f < 0 || f >= 1 {
			t.Fatalf("NextFloat out of [0,1): %v", f)
		}
	}
	for i := 0; i < 100000; i++ {
		if d := r.NextFloat64(); d < 0 || d >= 1 {
			t.Fatalf("NextFloat64 out of [0,1): %v", d)
		}
	}
}

func TestNextFloat64KnownAnswer(t *testing.T) {
	r := NewLCG48(1)
	hi := uint64(seedOneDraws[0] >> 6)
	lo := uint64(seedOneDraws[1] >> 5)
	want := float64(hi<<27|lo) / (1 << 53)
	if got := r.NextFloat64(); got != want {
		t.Fatalf("NextFloat64: got %v, want %v", got, want)
	}
}

func TestNextBool(t *testing.T) {
	r := NewLCG48(1)
	if r.NextBool() { // 第一個 draw 是偶數
		t.Fatalf("expected false from first draw")
	}
	r.SetSeed(7)
	twin := NewLCG48(7)
	for i := 0; i < 32; i++ {
		if r.NextBool() != (twin.NextUint32()&1 != 0) {
			t.Fatalf("NextBool diverged from low bit at %d", i)
		}
	}
}

func TestInt32NContainment(t *testing.T) {
	r := NewLCG48(2024)
	for _, max := range []int32{1, 2, 3, 7, 8, 10, 100, 1 << 20, (1 << 31) - 1} {
		for i := 0; i < 2000; i++ {
			v, err := r.Int32N(max)
			if err != nil {
				t.Fatalf("Int32N(%d): %v", max, err)
			}
			if v < 0 || v >= max {
				t.Fatalf("Int32N(%d) out of range: %d", max, v)
			}
		}
	}
}

func TestInt32NPowerOfTwoFastPath(t *testing.T) {
	r := NewLCG48(1)
	// 2 的冪走 mask 路徑，恰好消耗一次 draw。
	v, err := r.Int32N(8)
	if err != nil {
		t.Fatalf("Int32N(8): %v", err)
	}
	if want := int32(seedOneDraws[0] & 7); v != want {
		t.Fatalf("Int32N(8): got %d, want %d", v, want)
	}
	if got := r.NextUint32(); got != seedOneDraws[1] {
		t.Fatalf("power-of-two path must consume one draw")
	}
}

func TestInt32NInvalid(t *testing.T) {
	r := NewLCG48(77)
	before := r.Seed()
	for _, max := range []int32{0, -1, -100} {
		if _, err := r.Int32N(max); !errs.IsInvalid(err) {
			t.Fatalf("Int32N(%d): expected invalid-argument error, got %v", max, err)
		}
	}
	if r.Seed() != before {
		t.Fatalf("seed must be untouched on precondition failure")
	}
}

func TestInt32Range(t *testing.T) {
	r := NewLCG48(5)
	for i := 0; i < 5000; i++ {
		v, err := r.Int32Range(-5, 5)
		if err != nil {
			t.Fatalf("Int32Range: %v", err)
		}
		if v < -5 || v >= 5 {
			t.Fatalf("Int32Range out of [-5,5): %d", v)
		}
	}
	if _, err := r.Int32Range(3, 3); !errs.IsInvalid(err) {
		t.Fatalf("empty range must be invalid")
	}
	if _, err := r.Int32Range(9, 2); !errs.IsInvalid(err) {
		t.Fatalf("inverted range must be invalid")
	}
}

func TestCombineSeedPure(t *testing.T) {
	a := NewLCG48(31337)
	b := NewLCG48(31337)
	a.CombineSeed(42)
	b.CombineSeed(42)
	if a.Seed() != b.Seed() {
		t.Fatalf("CombineSeed must be a pure function of (seed, value)")
	}
	for i := 0; i < 16; i++ {
		if a.NextInt32() != b.NextInt32() {
			t.Fatalf("sequences diverged after identical CombineSeed")
		}
	}

	// 不是單純覆寫：不同起點 seed 配同一個 value 要得到不同結果。
	c := NewLCG48(1)
	d := NewLCG48(2)
	c.CombineSeed(42)
	d.CombineSeed(42)
	if c.Seed() == d.Seed() {
		t.Fatalf("CombineSeed must depend on the current seed")
	}
}

func TestSetSeedRandomlyDecorrelates(t *testing.T) {
	a := NewLCG48(0)
	b := NewLCG48(0)
	a.SetSeedRandomly()
	b.SetSeedRandomly()
	if a.Seed() == b.Seed() {
		t.Fatalf("instances seeded back-to-back should not collide")
	}
}

func TestFillBytes(t *testing.T) {
	r := NewLCG48(42)
	twin := NewLCG48(42)

	buf := make([]byte, 11)
	r.FillBytes(buf)

	want := make([]byte, 12)
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(want[i*4:], twin.NextUint32())
	}
	// 尾端 3 bytes 取最後一次 draw 的低位。
	if !bytes.Equal(buf[:8], want[:8]) || !bytes.Equal(buf[8:], want[8:11]) {
		t.Fatalf("FillBytes mismatch:\n got %v\nwant %v", buf, want[:11])
	}
}

func TestFillBytesZeroLengthNoOp(t *testing.T) {
	r := NewLCG48(42)
	before := r.Seed()
	r.FillBytes(nil)
	r.FillBytes([]byte{})
	if r.Seed() != before {
		t.Fatalf("zero-length fill must not consume draws")
	}
}

func TestFillBitRange(t *testing.T) {
	r := NewLCG48(7)

	target := bigint.Wrap(new(big.Int))
	// 先鋪一個已知圖樣，確認區間外的 bit 不被動到。
	for i := 0; i < 64; i += 2 {
		target.SetBit(i, 1)
	}
	snapshot := new(big.Int).Set(target.Int())

	if err := r.FillBitRange(target, 8, 16); err != nil {
		t.Fatalf("FillBitRange: %v", err)
	}
	for i := 0; i < 64; i++ {
		if i >= 8 && i < 24 {
			continue
		}
		if target.Bit(i) != snapshot.Bit(i) {
			t.Fatalf("bit %d outside [8,24) was modified", i)
		}
	}

	// 區間內的 bits 由一次 draw 的低 16 bits 決定（由低位往高位）。
	twin := NewLCG48(7)
	word := twin.NextUint32()
	for i := 0; i < 16; i++ {
		if target.Bit(8+i) != uint(word>>i)&1 {
			t.Fatalf("bit %d inside range mismatch", 8+i)
		}
	}
}

// 區間跨越 32-bit 區段邊界時，首尾兩個部分區段的遮罩是容易出錯的地方：
// [30,100) 蓋住三個 draw（32+32+6 bits），前後的殘餘 bit 一律不能動。
func TestFillBitRangeSpansWords(t *testing.T) {
	r := NewLCG48(2024)

	target := bigint.Wrap(new(big.Int))
	for i := 0; i < 128; i += 2 {
		target.SetBit(i, 1)
	}
	snapshot := new(big.Int).Set(target.Int())

	const startBit, numBits = 30, 70
	if err := r.FillBitRange(target, startBit, numBits); err != nil {
		t.Fatalf("FillBitRange: %v", err)
	}

	for i := 0; i < 128; i++ {
		if i >= startBit && i < startBit+numBits {
			continue
		}
		if target.Bit(i) != snapshot.Bit(i) {
			t.Fatalf("bit %d outside [%d,%d) was modified", i, startBit, startBit+numBits)
		}
	}

	// 三次 draw 依序鋪滿區間：前兩段各 32 bits、末段 6 bits，段內由低位往高位。
	twin := NewLCG48(2024)
	done := 0
	for done < numBits {
		word := twin.NextUint32()
		n := numBits - done
		if n > 32 {
			n = 32
		}
		for i := 0; i < n; i++ {
			if target.Bit(startBit+done+i) != uint(word>>i)&1 {
				t.Fatalf("bit %d inside range mismatch", startBit+done+i)
			}
		}
		done += n
	}
}

func TestFillBitRangeEdgeCases(t *testing.T) {
	r := NewLCG48(7)
	target := bigint.NewBig()

	before := r.Seed()
	if err := r.FillBitRange(target, 5, 0); err != nil {
		t.Fatalf("numBits == 0 must be a no-op success, got %v", err)
	}
	if r.Seed() != before {
		t.Fatalf("numBits == 0 must not consume draws")
	}

	if err := r.FillBitRange(target, -1, 4); !errs.IsInvalid(err) {
		t.Fatalf("negative startBit must be invalid, got %v", err)
	}
	if err := r.FillBitRange(target, 0, -4); !errs.IsInvalid(err) {
		t.Fatalf("negative numBits must be invalid, got %v", err)
	}
	if r.Seed() != before {
		t.Fatalf("seed must be untouched on precondition failure")
	}
}

func TestLargeBelowContainment(t *testing.T) {
	r := NewLCG48(1234)

	// 200-bit bound：2^199 + 12345。
	bound := new(big.Int).Lsh(big.NewInt(1), 199)
	bound.Add(bound, big.NewInt(12345))
	scratch := new(big.Int)

	for i := 0; i < 500; i++ {
		if err := r.LargeBelow(bigint.Wrap(bound), bigint.Wrap(scratch)); err != nil {
			t.Fatalf("LargeBelow: %v", err)
		}
		if scratch.Sign() < 0 || scratch.Cmp(bound) >= 0 {
			t.Fatalf("sample out of [0, bound): %s", scratch)
		}
	}
}

func TestLargeBelowBoundaryValues(t *testing.T) {
	r := NewLCG48(55)
	bound := big.NewInt(5)
	scratch := new(big.Int)

	seen := make(map[int64]bool)
	for i := 0; i < 5000; i++ {
		if err := r.LargeBelow(bigint.Wrap(bound), bigint.Wrap(scratch)); err != nil {
			t.Fatalf("LargeBelow: %v", err)
		}
		seen[scratch.Int64()] = true
	}
	if !seen[0] || !seen[4] {
		t.Fatalf("boundary values 0 and bound-1 must both be reachable, seen: %v", seen)
	}
	for v := range seen {
		if v < 0 || v >= 5 {
			t.Fatalf("sample %d out of [0,5)", v)
		}
	}
}

func TestLargeBelowClearsStaleScratch(t *testing.T) {
	r := NewLCG48(9)
	bound := big.NewInt(10) // 4 bits
	scratch := new(big.Int).Lsh(big.NewInt(1), 300)

	if err := r.LargeBelow(bigint.Wrap(bound), bigint.Wrap(scratch)); err != nil {
		t.Fatalf("LargeBelow: %v", err)
	}
	if scratch.Cmp(bound) >= 0 {
		t.Fatalf("stale high bits must be cleared, got %s", scratch)
	}
}

func TestLargeBelowInvalid(t *testing.T) {
	r := NewLCG48(9)
	before := r.Seed()
	if err := r.LargeBelow(bigint.NewBig(), bigint.NewBig()); !errs.IsInvalid(err) {
		t.Fatalf("zero bound must be invalid, got %v", err)
	}
	if _, err := r.NextBig(big.NewInt(-3)); !errs.IsInvalid(err) {
		t.Fatalf("negative bound must be invalid, got %v", err)
	}
	if r.Seed() != before {
		t.Fatalf("seed must be untouched on precondition failure")
	}
}

func TestSnapshotRestore(t *testing.T) {
	r := NewLCG48(31415)
	r.NextInt32()
	snap, err := r.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	want := []int32{r.NextInt32(), r.NextInt32(), r.NextInt32()}
	if err := r.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	for i, w := range want {
		if got := r.NextInt32(); got != w {
			t.Fatalf("restored sequence diverged at %d: got %d, want %d", i, got, w)
		}
	}

	if err := r.Restore([]byte{1, 2, 3}); !errs.IsInvalid(err) {
		t.Fatalf("short snapshot must be invalid, got %v", err)
	}
}

func TestInterfaceSentinels(t *testing.T) {
	r := NewLCG48(3)
	if got := r.IntN(0); got != -1 {
		t.Fatalf("IntN(0): got %d, want -1", got)
	}
	if got := r.UintN(0); got != 0 {
		t.Fatalf("UintN(0): got %d, want 0", got)
	}
	for i := 0; i < 2000; i++ {
		if v := r.IntN(10); v < 0 || v >= 10 {
			t.Fatalf("IntN(10) out of range: %d", v)
		}
		if v := r.UintN(10); v >= 10 {
			t.Fatalf("UintN(10) out of range: %d", v)
		}
	}
}

func TestInstanceIsolation(t *testing.T) {
	// 兩個同 seed 實例在不同 goroutine 驅動相同呼叫序列，結果完全一致且互不干擾。
	run := func(seed int64) []int32 {
		r := NewLCG48(seed)
		out := make([]int32, 256)
		for i := range out {
			out[i] = r.NextInt32()
		}
		return out
	}

	ch1 := make(chan []int32)
	ch2 := make(chan []int32)
	go func() { ch1 <- run(606) }()
	go func() { ch2 <- run(606) }()
	if !slices.Equal(<-ch1, <-ch2) {
		t.Fatalf("identically-seeded instances diverged across goroutines")
	}
}

func TestAmbientAcquireRelease(t *testing.T) {
	a := Acquire()
	b := Acquire()
	if a == b {
		t.Fatalf("concurrent acquires must not share an instance")
	}
	a.NextInt32()
	b.NextInt32()
	Release(a)
	Release(b)
	Release(nil) // 容忍 nil
}

func TestAmbientContext(t *testing.T) {
	c := New(NewLCG48(8))
	ctx := NewContext(context.Background(), c)
	got, ok := FromContext(ctx)
	if !ok || got != c {
		t.Fatalf("context roundtrip failed")
	}
	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("empty context must not carry a core")
	}
}

func TestCoreDeterminism(t *testing.T) {
	c1 := New(Default().New(7))
	c2 := New(Default().New(7))
	for i := 0; i < 5; i++ {
		if c1.Uint64() != c2.Uint64() {
			t.Fatalf("Uint64 mismatch at %d", i)
		}
	}
	if c1.IntN(10) != c2.IntN(10) {
		t.Fatalf("IntN mismatch")
	}
	if c1.UintN(10) != c2.UintN(10) {
		t.Fatalf("UintN mismatch")
	}
}

func TestCorePickAndShuffle(t *testing.T) {
	c := New(Default().New(9))
	if got := c.Pick(nil); got != -1 {
		t.Fatalf("expected -1 for empty pick, got %d", got)
	}

	src := []int{1, 2, 3, 4}
	c.ShuffleInts(src)
	if len(src) != 4 {
		t.Fatalf("unexpected length after shuffle")
	}
	want := []int{1, 2, 3, 4}
	got := slices.Clone(src)
	slices.Sort(got)
	if !slices.Equal(want, got) {
		t.Fatalf("shuffle changed elements: %v", src)
	}
}

func TestExpFloat64Deterministic(t *testing.T) {
	c1 := New(Default().New(11))
	c2 := New(Default().New(11))
	v1 := c1.ExpFloat64()
	v2 := c2.ExpFloat64()
	if v1 != v2 {
		t.Fatalf("expected deterministic ExpFloat64")
	}
	if v1 <= 0 || math.IsNaN(v1) || math.IsInf(v1, 0) {
		t.Fatalf("unexpected ExpFloat64 value: %v", v1)
	}
}
