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

// Package recorder 提供 draw 稽核紀錄：
// 把一條 stream 的每次取樣連同取樣前的 snapshot 寫成 zstd 壓縮的 NDJSON，
// 之後可以離線重放驗證「同一個狀態必然產生同一個值」。
package recorder

import (
	"encoding/json"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/zintix-labs/randlab/corefmt"
	"github.com/zintix-labs/randlab/errs"
)

// DrawRecord 是單筆稽核紀錄。
type DrawRecord struct {
	Stream   string `json:"stream"`
	Op       string `json:"op"`              // 取樣操作名稱，例如 int32n / float64 / bytes
	Bound    int64  `json:"bound,omitempty"` // bounded 操作的上界；其他操作為 0
	Value    string `json:"value"`           // 取樣結果（十進位或 hex，依 Op 而定）
	Snapshot string `json:"snapshot"`        // 取樣前核心狀態（base64）
}

// DrawRecorder 把 DrawRecord 逐筆寫入 zstd 壓縮串流。
//
// 非執行緒安全：一個 recorder 伺候一條 stream 的一個寫入者。
type DrawRecorder struct {
	zw  *zstd.Encoder
	enc *json.Encoder
	n   int64
}

// NewDrawRecorder 在 w 上建立 recorder；呼叫端負責最後 Close。
func NewDrawRecorder(w io.Writer) (*DrawRecorder, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, errs.Wrap(err, "create zstd writer failed")
	}
	return &DrawRecorder{zw: zw, enc: json.NewEncoder(zw)}, nil
}

// Record 寫入一筆紀錄。snapshot 以 base64 編碼進 JSON。
func (r *DrawRecorder) Record(stream, op string, bound int64, value string, snapshot []byte) error {
	rec := DrawRecord{
		Stream:   stream,
		Op:       op,
		Bound:    bound,
		Value:    value,
		Snapshot: corefmt.EncodeBase64(snapshot),
	}
	if err := r.enc.Encode(&rec); err != nil {
		return errs.Wrap(err, "encode draw record failed")
	}
	r.n++
	return nil
}

// Count 回傳已寫入的筆數。
func (r *DrawRecorder) Count() int64 { return r.n }

// Close 沖洗並關閉壓縮串流；Close 之後不得再 Record。
func (r *DrawRecorder) Close() error {
	if err := r.zw.Close(); err != nil {
		return errs.Wrap(err, "close zstd writer failed")
	}
	return nil
}

// ReadAll 解壓並解析一份稽核檔的所有紀錄。
func ReadAll(r io.Reader) ([]DrawRecord, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, errs.Wrap(err, "create zstd reader failed")
	}
	defer zr.Close()

	var out []DrawRecord
	dec := json.NewDecoder(zr)
	for {
		var rec DrawRecord
		if err := dec.Decode(&rec); err == io.EOF {
			return out, nil
		} else if err != nil {
			return nil, errs.Wrap(err, "decode draw record failed")
		}
		out = append(out, rec)
	}
}
