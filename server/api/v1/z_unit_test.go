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

package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/sdk/core"
	"github.com/zintix-labs/randlab/sdk/sampler"
	"github.com/zintix-labs/randlab/server/logger"
	"github.com/zintix-labs/randlab/server/svrcfg"
)

func newTestCfg(t *testing.T) *svrcfg.SvrCfg {
	t.Helper()
	fsys := fstest.MapFS{
		"streams.yaml": {Data: []byte(
			"streams:\n" +
				"  - name: audit\n" +
				"    seed: 1\n",
		)},
	}
	lab, err := randlab.New(randlab.Configs(fsys))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sCfg := &svrcfg.SvrCfg{
		Log: logger.NewDefaultLogger(logger.ModeSilence),
		Lab: lab,
	}
	if err := sCfg.Vaild(); err != nil {
		t.Fatalf("Vaild: %v", err)
	}
	return sCfg
}

func TestDrawIntMatchesCore(t *testing.T) {
	sCfg := newTestCfg(t)
	d, err := NewDrawHandler(sCfg)
	if err != nil {
		t.Fatalf("NewDrawHandler: %v", err)
	}

	q := httptest.NewRequest(http.MethodGet, "/v1/draw?stream=audit&kind=int&max=10&count=5", nil)
	w := httptest.NewRecorder()
	d.Draw(w, q)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result DrawResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Ints) != 5 {
		t.Fatalf("got %d ints, want 5", len(result.Ints))
	}

	// 與裸 core 從同一個 seed 對照
	twin := core.NewLCG48(1)
	for i, v := range result.Ints {
		want, err := twin.Int32N(10)
		if err != nil {
			t.Fatalf("twin Int32N: %v", err)
		}
		if v != want {
			t.Fatalf("ints[%d] = %d, want %d", i, v, want)
		}
	}
}

func TestDrawRejectsBadArgs(t *testing.T) {
	sCfg := newTestCfg(t)
	d, err := NewDrawHandler(sCfg)
	if err != nil {
		t.Fatalf("NewDrawHandler: %v", err)
	}

	cases := []string{
		"/v1/draw?stream=audit&kind=int&max=0",
		"/v1/draw?stream=audit&kind=nope",
		"/v1/draw?stream=missing&kind=int&max=10",
		"/v1/draw?stream=audit&kind=big&bound=xyz",
	}
	for _, target := range cases {
		q := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		d.Draw(w, q)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, w.Code)
		}
	}
}

func TestDrawCountCap(t *testing.T) {
	sCfg := newTestCfg(t)
	sCfg.DrawCap = 8
	d, err := NewDrawHandler(sCfg)
	if err != nil {
		t.Fatalf("NewDrawHandler: %v", err)
	}

	q := httptest.NewRequest(http.MethodGet, "/v1/draw?stream=audit&kind=float&count=9", nil)
	w := httptest.NewRecorder()
	d.Draw(w, q)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestDrawWeightedMatchesSampler(t *testing.T) {
	sCfg := newTestCfg(t)
	d, err := NewDrawHandler(sCfg)
	if err != nil {
		t.Fatalf("NewDrawHandler: %v", err)
	}

	body := `{"stream":"audit","kind":"weighted","weights":[3,5,2],"count":6}`
	q := httptest.NewRequest(http.MethodPost, "/v1/draw", strings.NewReader(body))
	w := httptest.NewRecorder()
	d.Draw(w, q)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result DrawResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Picks) != 6 {
		t.Fatalf("got %d picks, want 6", len(result.Picks))
	}

	// 與同 seed 的裸 sampler 對照（總和小走 LUT）
	lut, err := sampler.BuildLUT([]int{3, 5, 2})
	if err != nil {
		t.Fatalf("BuildLUT: %v", err)
	}
	twin := core.New(core.NewLCG48(1))
	for i, v := range result.Picks {
		if want := lut.Pick(twin); v != want {
			t.Fatalf("picks[%d] = %d, want %d", i, v, want)
		}
	}
}

func TestDrawWeightedQueryForm(t *testing.T) {
	sCfg := newTestCfg(t)
	d, err := NewDrawHandler(sCfg)
	if err != nil {
		t.Fatalf("NewDrawHandler: %v", err)
	}

	q := httptest.NewRequest(http.MethodGet, "/v1/draw?stream=audit&kind=sample&weights=5,0,1,4&count=2", nil)
	w := httptest.NewRecorder()
	d.Draw(w, q)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var result DrawResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Picks) != 2 {
		t.Fatalf("got %d picks, want 2", len(result.Picks))
	}
	for _, idx := range result.Picks {
		if idx == 1 {
			t.Fatalf("zero-weight index must never be sampled: %v", result.Picks)
		}
	}
}

func TestDrawWeightedRejectsBadWeights(t *testing.T) {
	sCfg := newTestCfg(t)
	d, err := NewDrawHandler(sCfg)
	if err != nil {
		t.Fatalf("NewDrawHandler: %v", err)
	}

	cases := []string{
		"/v1/draw?stream=audit&kind=weighted",              // 無權重
		"/v1/draw?stream=audit&kind=weighted&weights=0,0",  // 全零
		"/v1/draw?stream=audit&kind=weighted&weights=1,-2", // 負權重
		"/v1/draw?stream=audit&kind=weighted&weights=1,x",  // 非整數
		"/v1/draw?stream=audit&kind=shuffle&weights=1,-1",
	}
	for _, target := range cases {
		q := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		d.Draw(w, q)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, w.Code)
		}
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	sCfg := newTestCfg(t)
	d, _ := NewDrawHandler(sCfg)
	s, err := NewSnapshotHandler(sCfg)
	if err != nil {
		t.Fatalf("NewSnapshotHandler: %v", err)
	}

	// 1. 取 snapshot
	w := httptest.NewRecorder()
	s.Snapshot(w, httptest.NewRequest(http.MethodGet, "/v1/snapshot?stream=audit", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("snapshot status = %d", w.Code)
	}
	var snap SnapshotResult
	if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}

	// 2. draw 一批
	w = httptest.NewRecorder()
	d.Draw(w, httptest.NewRequest(http.MethodGet, "/v1/draw?stream=audit&kind=int&max=100&count=4", nil))
	var first DrawResult
	if err := json.NewDecoder(w.Body).Decode(&first); err != nil {
		t.Fatalf("decode draw: %v", err)
	}

	// 3. restore 後重抽，序列必須重放
	body, _ := json.Marshal(RestoreRequest{Stream: "audit", Snapshot: snap.Snapshot})
	w = httptest.NewRecorder()
	s.Restore(w, httptest.NewRequest(http.MethodPost, "/v1/restore", bytes.NewReader(body)))
	if w.Code != http.StatusNoContent {
		t.Fatalf("restore status = %d, body = %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	d.Draw(w, httptest.NewRequest(http.MethodGet, "/v1/draw?stream=audit&kind=int&max=100&count=4", nil))
	var second DrawResult
	if err := json.NewDecoder(w.Body).Decode(&second); err != nil {
		t.Fatalf("decode draw: %v", err)
	}
	for i := range first.Ints {
		if first.Ints[i] != second.Ints[i] {
			t.Fatalf("replay diverged at %d: %d != %d", i, first.Ints[i], second.Ints[i])
		}
	}
}

func TestUniformEndpoint(t *testing.T) {
	sCfg := newTestCfg(t)
	u, err := NewUniformHandler(sCfg)
	if err != nil {
		t.Fatalf("NewUniformHandler: %v", err)
	}

	body, _ := json.Marshal(UniformRequest{Stream: "audit", Buckets: 10, Trials: 100000})
	w := httptest.NewRecorder()
	u.Uniform(w, httptest.NewRequest(http.MethodPost, "/v1/uniformity", bytes.NewReader(body)))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var report struct {
		Uniform bool    `json:"uniform"`
		PValue  float64 `json:"p_value"`
	}
	if err := json.NewDecoder(w.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !report.Uniform {
		t.Fatalf("bounded draws should look uniform, p = %v", report.PValue)
	}

	// trials 超過上限 → 400
	body, _ = json.Marshal(UniformRequest{Stream: "audit", Buckets: 10, Trials: sCfg.TrialCap + 1})
	w = httptest.NewRecorder()
	u.Uniform(w, httptest.NewRequest(http.MethodPost, "/v1/uniformity", bytes.NewReader(body)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("over-cap status = %d, want 400", w.Code)
	}
}

func TestStreamsListing(t *testing.T) {
	sCfg := newTestCfg(t)
	w := httptest.NewRecorder()
	Streams(sCfg.Lab)(w, httptest.NewRequest(http.MethodGet, "/v1/streams", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"audit"`) {
		t.Fatalf("stream list missing audit: %s", w.Body.String())
	}
}
