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

package recorder

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/zintix-labs/randlab/corefmt"
	"github.com/zintix-labs/randlab/sdk/core"
)

func TestRecordAndReadBack(t *testing.T) {
	r := core.NewLCG48(1)
	var buf bytes.Buffer
	rec, err := NewDrawRecorder(&buf)
	if err != nil {
		t.Fatalf("NewDrawRecorder: %v", err)
	}

	const draws = 5
	for i := 0; i < draws; i++ {
		snap, _ := r.Snapshot()
		v, err := r.Int32N(100)
		if err != nil {
			t.Fatalf("Int32N: %v", err)
		}
		if err := rec.Record("audit", "int32n", 100, strconv.FormatInt(int64(v), 10), snap); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if rec.Count() != draws {
		t.Fatalf("count: got %d, want %d", rec.Count(), draws)
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := ReadAll(&buf)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != draws {
		t.Fatalf("records: got %d, want %d", len(got), draws)
	}

	// 重放驗證：還原取樣前 snapshot，必須得到同一個值。
	for i, g := range got {
		snap, err := corefmt.DecodeBase64(g.Snapshot)
		if err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		replay := core.NewLCG48(0)
		if err := replay.Restore(snap); err != nil {
			t.Fatalf("restore: %v", err)
		}
		v, _ := replay.Int32N(100)
		if strconv.FormatInt(int64(v), 10) != g.Value {
			t.Fatalf("replay mismatch at %d: got %d, want %s", i, v, g.Value)
		}
	}
}
