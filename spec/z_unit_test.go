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
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/randlab/errs"
)

const yamlCfg = `
streams:
  - name: audit
    seed: 1
    note: fixed-seed audit stream
  - name: scratch
`

func TestGetStreamsByYAML(t *testing.T) {
	sf, err := GetStreamsByYAML([]byte(yamlCfg))
	if err != nil {
		t.Fatalf("GetStreamsByYAML: %v", err)
	}
	if len(sf.Streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(sf.Streams))
	}
	if !sf.Streams[0].Deterministic() || *sf.Streams[0].Seed != 1 {
		t.Fatalf("audit stream must carry seed 1")
	}
	if sf.Streams[1].Deterministic() {
		t.Fatalf("scratch stream must have no seed")
	}
}

func TestGetStreamsByJSON(t *testing.T) {
	sf, err := GetStreamsByJSON([]byte(`{"streams":[{"name":"a","seed":7}]}`))
	if err != nil {
		t.Fatalf("GetStreamsByJSON: %v", err)
	}
	if sf.Streams[0].Name != "a" || *sf.Streams[0].Seed != 7 {
		t.Fatalf("unexpected parse result: %+v", sf.Streams[0])
	}
}

func TestStreamSettingRequiresName(t *testing.T) {
	if _, err := GetStreamsByYAML([]byte("streams:\n  - seed: 3\n")); !errs.IsInvalid(err) {
		t.Fatalf("nameless stream must be invalid, got %v", err)
	}
	if _, err := GetStreamsByYAML([]byte("streams: []\n")); !errs.IsInvalid(err) {
		t.Fatalf("empty streams must be invalid, got %v", err)
	}
}

func TestLoadRegistry(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml":    {Data: []byte("streams:\n  - name: one\n    seed: 5\n")},
		"b.json":    {Data: []byte(`{"streams":[{"name":"two"}]}`)},
		"ignore.md": {Data: []byte("# not a config")},
	}
	reg, err := LoadRegistry(fsys)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 settings, got %d", reg.Len())
	}
	if _, ok := reg.Get("one"); !ok {
		t.Fatalf("missing stream 'one'")
	}
	names := reg.Names()
	if len(names) != 2 || names[0] != "one" || names[1] != "two" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestLoadRegistryDuplicate(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("streams:\n  - name: dup\n")},
		"b.yaml": {Data: []byte("streams:\n  - name: dup\n")},
	}
	if _, err := LoadRegistry(fsys); !errs.IsInvalid(err) {
		t.Fatalf("duplicate names must be invalid, got %v", err)
	}
}
