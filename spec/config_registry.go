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

package spec

import (
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/zintix-labs/randlab/errs"
)

// Registry 是解析完成的 stream 設定表：name -> setting。
// 建立後唯讀；唯一性只保證在同一個 Registry 內。
type Registry struct {
	settings map[string]*StreamSetting
	names    []string // 固定順序，用於觀測/列舉
}

// LoadRegistry 掃描一或多個 fs.FS 裡的 .yaml/.yml/.json 檔，
// 解析所有 StreamSetting 並做重複名稱檢查。
//
// 設定來源一律以 fs.FS 注入：go:embed、os.DirFS 或自製的合併 FS 都可以；
// 本包不解析「路徑」概念。
func LoadRegistry(srcs ...fs.FS) (*Registry, error) {
	if len(srcs) == 0 {
		return nil, errs.NewFatal("config source required")
	}
	reg := &Registry{settings: map[string]*StreamSetting{}}

	for _, fsys := range srcs {
		err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return errs.Wrap(err, "walk config fs failed")
			}
			if d.IsDir() {
				return nil
			}
			var sf *StreamsFile
			data, rerr := fs.ReadFile(fsys, p)
			if rerr != nil {
				return errs.Wrap(rerr, "read config file failed")
			}
			switch strings.ToLower(path.Ext(p)) {
			case ".yaml", ".yml":
				sf, rerr = GetStreamsByYAML(data)
			case ".json":
				sf, rerr = GetStreamsByJSON(data)
			default:
				return nil // 不認識的副檔名直接略過
			}
			if rerr != nil {
				return errs.WrapWithExtra(rerr, "parse config file failed", p)
			}
			for _, s := range sf.Streams {
				if _, dup := reg.settings[s.Name]; dup {
					return errs.Invalidf("duplicate stream name %q (file %s)", s.Name, p)
				}
				reg.settings[s.Name] = s
				reg.names = append(reg.names, s.Name)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(reg.settings) == 0 {
		return nil, errs.NewInvalid("no stream settings found in config sources")
	}
	sort.Strings(reg.names)
	return reg, nil
}

// Get 依名稱取設定；不存在時回傳 (nil, false)。
func (r *Registry) Get(name string) (*StreamSetting, bool) {
	s, ok := r.settings[name]
	return s, ok
}

// Names 回傳固定順序的 stream 名稱列表。
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len 回傳設定數量。
func (r *Registry) Len() int { return len(r.settings) }
