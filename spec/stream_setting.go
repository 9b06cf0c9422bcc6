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

// Package spec 定義 randlab 的設定結構：具名亂數 stream 的宣告。
//
// 一個 StreamSetting 宣告一條可被服務/CLI 取用的具名序列：
// 名稱、起始 seed（未給定時隨機播種）、以及觀測用的描述。
package spec

import (
	"encoding/json"

	"github.com/zintix-labs/randlab/errs"
	"gopkg.in/yaml.v3"
)

// StreamSetting 是單一具名 stream 的設定。
type StreamSetting struct {
	// Name 是 stream 的唯一識別；路由與查表都用它。
	Name string `yaml:"name" json:"name"`

	// Seed 是起始 seed；nil 表示建立時隨機播種（該 stream 即不可重現）。
	Seed *int64 `yaml:"seed" json:"seed"`

	// Note 只用於觀測/日誌。
	Note string `yaml:"note" json:"note"`
}

// init 做基本檢查。
func (s *StreamSetting) init() error {
	if s.Name == "" {
		return errs.NewInvalid("stream setting requires a non-empty name")
	}
	return nil
}

// Deterministic 回報這條 stream 是否宣告了固定 seed。
func (s *StreamSetting) Deterministic() bool {
	return s.Seed != nil
}

// StreamsFile 是設定檔的頂層結構：一個檔案宣告一批 stream。
type StreamsFile struct {
	Streams []*StreamSetting `yaml:"streams" json:"streams"`
}

// GetStreamsByYAML 讀取 YAML 設定、初始化各子設定並執行基本檢查後回傳。
func GetStreamsByYAML(data []byte) (*StreamsFile, error) {
	sf := &StreamsFile{}
	if err := yaml.Unmarshal(data, sf); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}
	if err := sf.initAll(); err != nil {
		return nil, err
	}
	return sf, nil
}

// GetStreamsByJSON 讀取 JSON 設定、初始化各子設定並執行基本檢查後回傳。
func GetStreamsByJSON(data []byte) (*StreamsFile, error) {
	sf := &StreamsFile{}
	if err := json.Unmarshal(data, sf); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}
	if err := sf.initAll(); err != nil {
		return nil, err
	}
	return sf, nil
}

func (sf *StreamsFile) initAll() error {
	if len(sf.Streams) == 0 {
		return errs.NewInvalid("streams file declares no streams")
	}
	for _, s := range sf.Streams {
		if err := s.init(); err != nil {
			return errs.Wrap(err, "stream setting initialized err")
		}
	}
	return nil
}
