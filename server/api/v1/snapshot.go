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
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/corefmt"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/server/httperr"
	"github.com/zintix-labs/randlab/server/svrcfg"
)

// SnapshotResult 回傳 stream 當前內部狀態的 opaque blob（base64）。
// 同一個 blob 之後可以 POST 回 /v1/restore 重放同一條序列。
type SnapshotResult struct {
	Stream   string `json:"stream"`
	Snapshot string `json:"snapshot"`
}

type RestoreRequest struct {
	Stream   string `json:"stream"`
	Snapshot string `json:"snapshot"`
}

func (c *SnapshotHandler) Snapshot(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s, err := c.lab.MustStream(q.URL.Query().Get("stream"))
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	snap, err := s.Snapshot()
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	result := &SnapshotResult{Stream: s.Name(), Snapshot: corefmt.EncodeBase64(snap)}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		httperr.Errs(w, err)
		return
	}
}

func (c *SnapshotHandler) Restore(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req := new(RestoreRequest)
	if err := json.NewDecoder(q.Body).Decode(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s, err := c.lab.MustStream(req.Stream)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	snap, err := corefmt.DecodeBase64(req.Snapshot)
	if err != nil {
		httperr.Errs(w, errs.Wrap(errs.NewInvalid(err.Error()), "decode snapshot"))
		return
	}
	if err := s.Restore(snap); err != nil {
		httperr.Errs(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ============================================================
// ** SnapshotHandler **
// ============================================================

type SnapshotHandler struct {
	lab *randlab.Lab
}

func NewSnapshotHandler(sCfg *svrcfg.SvrCfg) (*SnapshotHandler, error) {
	if sCfg.Lab == nil {
		return nil, errs.NewFatal("build snapshot handler: lab is required")
	}
	return &SnapshotHandler{lab: sCfg.Lab}, nil
}
