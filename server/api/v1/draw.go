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
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/corefmt"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/server/httperr"
	"github.com/zintix-labs/randlab/server/svrcfg"
)

// DrawRequest 描述一次抽樣請求。
// GET 走 query string，POST 走 JSON body，欄位相同。
type DrawRequest struct {
	Stream  string `json:"stream"`
	Kind    string `json:"kind"` // int | range | float | bool | bytes | big | weighted | shuffle | sample
	Max     int32  `json:"max"`
	Start   int32  `json:"start"`
	End     int32  `json:"end"`
	Count   int    `json:"count"`
	Bound   string `json:"bound"`   // kind=big 時的上界（十進位字串）
	Weights []int  `json:"weights"` // kind=weighted|shuffle|sample 的權重列表
}

type DrawResult struct {
	Stream string    `json:"stream"`
	Kind   string    `json:"kind"`
	Ints   []int32   `json:"ints,omitempty"`
	Floats []float64 `json:"floats,omitempty"`
	Bools  []bool    `json:"bools,omitempty"`
	Bytes  string    `json:"bytes,omitempty"` // base64
	Big    string    `json:"big,omitempty"`   // 十進位
	Picks  []int     `json:"picks,omitempty"` // weighted | shuffle | sample
}

func (c *DrawHandler) Draw(w http.ResponseWriter, q *http.Request) {
	// 請求方法、結構體校驗
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := decodeDrawRequest(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}
	if req.Count > c.cap {
		httperr.Errs(w, errs.Invalidf("count %d exceeds cap %d", req.Count, c.cap))
		return
	}

	s, err := c.lab.MustStream(req.Stream)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	result := &DrawResult{Stream: s.Name(), Kind: req.Kind}
	switch req.Kind {
	case "int", "":
		result.Kind = "int"
		result.Ints, err = s.Ints(req.Max, req.Count)
	case "range":
		result.Ints = make([]int32, 0, req.Count)
		for i := 0; i < req.Count; i++ {
			var v int32
			v, err = s.Int32Range(req.Start, req.End)
			if err != nil {
				break
			}
			result.Ints = append(result.Ints, v)
		}
	case "float":
		result.Floats, err = s.Floats(req.Count)
	case "bool":
		result.Bools, err = s.Bools(req.Count)
	case "bytes":
		var b []byte
		b, err = s.Bytes(req.Count)
		result.Bytes = corefmt.EncodeBase64(b)
	case "big":
		bound, ok := new(big.Int).SetString(req.Bound, 10)
		if !ok {
			httperr.Errs(w, errs.Invalidf("bound is not a decimal integer: %q", req.Bound))
			return
		}
		var v *big.Int
		v, err = s.NextBig(bound)
		if err == nil {
			result.Big = v.String()
		}
	case "weighted":
		result.Picks, err = s.WeightedPick(req.Weights, req.Count)
	case "shuffle":
		result.Picks, err = s.WeightedShuffle(req.Weights)
	case "sample":
		result.Picks, err = s.WeightedSample(req.Weights, req.Count)
	default:
		err = errs.Invalidf("unknown draw kind: %q", req.Kind)
	}
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		httperr.Errs(w, err)
		return
	}
}

func decodeDrawRequest(q *http.Request) (*DrawRequest, error) {
	req := new(DrawRequest)
	if q.Method == http.MethodPost {
		if err := json.NewDecoder(q.Body).Decode(req); err != nil {
			return nil, errs.Wrap(errs.NewInvalid(err.Error()), "decode draw request")
		}
		return req, nil
	}

	v := q.URL.Query()
	req.Stream = v.Get("stream")
	req.Kind = v.Get("kind")
	req.Bound = v.Get("bound")
	var err error
	if req.Max, err = queryInt32(v.Get("max")); err != nil {
		return nil, err
	}
	if req.Start, err = queryInt32(v.Get("start")); err != nil {
		return nil, err
	}
	if req.End, err = queryInt32(v.Get("end")); err != nil {
		return nil, err
	}
	if s := v.Get("count"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, errs.Invalidf("bad count: %q", s)
		}
		req.Count = n
	}
	if req.Weights, err = queryInts(v.Get("weights")); err != nil {
		return nil, err
	}
	return req, nil
}

// queryInts 解析逗號分隔的整數列表，例如 ?weights=3,5,2。
func queryInts(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errs.Invalidf("bad weights entry: %q", p)
		}
		out[i] = n
	}
	return out, nil
}

func queryInt32(s string) (int32, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, errs.Invalidf("bad int32 query value: %q", s)
	}
	return int32(n), nil
}

// ============================================================
// ** DrawHandler **
// ============================================================

type DrawHandler struct {
	lab *randlab.Lab
	cap int
}

func NewDrawHandler(sCfg *svrcfg.SvrCfg) (*DrawHandler, error) {
	if sCfg.Lab == nil {
		return nil, errs.NewFatal("build draw handler: lab is required")
	}
	return &DrawHandler{lab: sCfg.Lab, cap: sCfg.DrawCap}, nil
}
