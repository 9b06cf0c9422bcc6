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
	"github.com/zintix-labs/randlab/server/httperr"
)

type StreamInfo struct {
	Name          string `json:"name"`
	Deterministic bool   `json:"deterministic"`
}

// Streams 列出 lab 內所有已組裝的 stream。
func Streams(lab *randlab.Lab) http.HandlerFunc {
	return func(w http.ResponseWriter, q *http.Request) {
		if q.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		names := lab.Names()
		infos := make([]StreamInfo, 0, len(names))
		for _, name := range names {
			s, ok := lab.Stream(name)
			if !ok {
				continue
			}
			infos = append(infos, StreamInfo{Name: s.Name(), Deterministic: s.Deterministic()})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string][]StreamInfo{"streams": infos}); err != nil {
			httperr.Errs(w, err)
			return
		}
	}
}
