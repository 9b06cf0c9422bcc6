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

package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/core"
)

func mustHistogram(t *testing.T, buckets int) *Histogram {
	t.Helper()
	h, err := NewHistogram(buckets)
	if err != nil {
		t.Fatalf("NewHistogram(%d): %v", buckets, err)
	}
	return h
}

func TestHistogramInvalid(t *testing.T) {
	if _, err := NewHistogram(0); !errs.IsInvalid(err) {
		t.Fatalf("0 buckets must be invalid, got %v", err)
	}
	if _, err := NewHistogram(-3); !errs.IsInvalid(err) {
		t.Fatalf("negative buckets must be invalid, got %v", err)
	}
}

func TestHistogramOutOfRange(t *testing.T) {
	h := mustHistogram(t, 4)
	h.Add(0)
	h.Add(3)
	h.Add(4)
	h.Add(-1)
	if h.Total() != 2 || h.OutOfRange() != 2 {
		t.Fatalf("total=%d oor=%d", h.Total(), h.OutOfRange())
	}
}

// 規格情境：固定 seed 下 boundedInt(10) 跑 100,000 次，
// 直方圖對均勻假設做卡方檢定不得被拒絕。
func TestBoundedDrawUniformity(t *testing.T) {
	r := core.NewLCG48(20240601)
	h := mustHistogram(t, 10)
	for i := 0; i < 100000; i++ {
		v, err := r.Int32N(10)
		if err != nil {
			t.Fatalf("Int32N: %v", err)
		}
		h.Add(int(v))
	}

	rep, err := ChiSquareUniform(h, DefaultAlpha)
	if err != nil {
		t.Fatalf("ChiSquareUniform: %v", err)
	}
	if rep.OutOfRange != 0 {
		t.Fatalf("bounded draw escaped its range %d times", rep.OutOfRange)
	}
	if !rep.Uniform {
		t.Fatalf("uniformity rejected: chi2=%.4f p=%.6f counts=%v", rep.ChiSquare, rep.PValue, rep.Counts)
	}
}

func TestChiSquareRejectsSkew(t *testing.T) {
	h := mustHistogram(t, 4)
	for i := 0; i < 9000; i++ {
		h.Add(0)
	}
	for i := 0; i < 1000; i++ {
		h.Add(1)
	}
	rep, err := ChiSquareUniform(h, 0.001)
	if err != nil {
		t.Fatalf("ChiSquareUniform: %v", err)
	}
	if rep.Uniform {
		t.Fatalf("a 9:1:0:0 histogram must not pass as uniform")
	}
}

func TestChiSquareInvalid(t *testing.T) {
	if _, err := ChiSquareUniform(nil, 0.05); !errs.IsInvalid(err) {
		t.Fatalf("nil histogram must be invalid")
	}
	h := mustHistogram(t, 5)
	if _, err := ChiSquareUniform(h, 0.05); !errs.IsInvalid(err) {
		t.Fatalf("empty histogram must be invalid")
	}
}

func TestRenderers(t *testing.T) {
	h := mustHistogram(t, 3)
	for i := 0; i < 300; i++ {
		h.Add(i % 3)
	}
	rep, err := ChiSquareUniform(h, 0.05)
	if err != nil {
		t.Fatalf("ChiSquareUniform: %v", err)
	}

	var jb bytes.Buffer
	if err := (&JsonUniformRender{}).Write(&jb, rep); err != nil {
		t.Fatalf("json render: %v", err)
	}
	if !strings.Contains(jb.String(), "\"chi_square\"") {
		t.Fatalf("json output missing fields: %s", jb.String())
	}

	var yb bytes.Buffer
	if err := (&YAMLUniformRender{}).Write(&yb, rep); err != nil {
		t.Fatalf("yaml render: %v", err)
	}
	// counts 必須是 flow style 的一維列表。
	if !strings.Contains(yb.String(), "[100, 100, 100]") {
		t.Fatalf("yaml counts not rendered flow style:\n%s", yb.String())
	}
}
