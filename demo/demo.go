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

// Package demo 提供開箱即用的 Lab 組裝：內嵌的 stream 設定 + 預設 logger。
// cmd/* 與外部試用者可以直接拿這裡的組裝結果，不必自己準備 config 檔。
package demo

import (
	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/demo/demo_configs"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/server/logger"
	"github.com/zintix-labs/randlab/server/svrcfg"
)

// NewLab 用內嵌設定組裝一個 Lab。
func NewLab() (*randlab.Lab, error) {
	return randlab.New(randlab.Configs(demo_configs.FS))
}

// NewServerConfig 組裝一份可直接丟給 server.Run 的 SvrCfg。
func NewServerConfig() (*svrcfg.SvrCfg, error) {
	lab, err := NewLab()
	if err != nil {
		return nil, errs.Wrap(err, "new randlab failed")
	}
	scfg := &svrcfg.SvrCfg{
		Log: logger.NewDefaultLogger(logger.ModeDev),
		Lab: lab,
	}
	return scfg, nil
}
