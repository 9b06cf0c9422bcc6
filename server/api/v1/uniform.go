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
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/server/httperr"
	"github.com/zintix-labs/randlab/server/svrcfg"
	"github.com/zintix-labs/randlab/stats"
)

// UniformRequest 對指定 stream 跑一輪 bounded draw 的卡方均勻度檢定。
// 檢定會前進該 stream 的狀態（消耗 trials 次 draw）。
type UniformRequest struct {
	Stream  string  `json:"stream"`
	Buckets int32   `json:"buckets"`
	Trials  int     `json:"trials"`
	Alpha   float64 `json:"alpha"`
}

func (c *UniformHandler) Uniform(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req := new(UniformRequest)
	if err := json.NewDecoder(q.Body).Decode(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Trials > c.trialCap {
		httperr.Errs(w, errs.Invalidf("trials %d exceeds cap %d", req.Trials, c.trialCap))
		return
	}
	if req.Alpha <= 0 {
		req.Alpha = stats.DefaultAlpha
	}

	s, err := c.lab.MustStream(req.Stream)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	report, err := s.Uniformity(req.Buckets, req.Trials, req.Alpha)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	// ?format=yaml 走人類可讀輸出，預設 JSON
	if q.URL.Query().Get("format") == "yaml" {
		w.Header().Set("Content-Type", "application/yaml")
		render := &stats.YAMLUniformRender{}
		if err := render.Write(w, report); err != nil {
			httperr.Errs(w, err)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	render := &stats.JsonUniformRender{}
	if err := render.Write(w, report); err != nil {
		httperr.Errs(w, err)
		return
	}
}

// ============================================================
// ** UniformHandler **
// ============================================================

type UniformHandler struct {
	lab      *randlab.Lab
	trialCap int
}

func NewUniformHandler(sCfg *svrcfg.SvrCfg) (*UniformHandler, error) {
	if sCfg.Lab == nil {
		return nil, errs.NewFatal("build uniform handler: lab is required")
	}
	return &UniformHandler{lab: sCfg.Lab, trialCap: sCfg.TrialCap}, nil
}
