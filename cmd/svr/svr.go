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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/demo/demo_configs"
	"github.com/zintix-labs/randlab/server"
	"github.com/zintix-labs/randlab/server/logger"
	"github.com/zintix-labs/randlab/server/svrcfg"
)

// randlab 的 HTTP 入口。未指定 -config 時使用內嵌的 demo 設定。
// RANDLAB_* 環境變數可覆蓋位址、log 模式與請求上限；flag 優先於環境變數。
func main() {
	cfg, ah, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer ah.Close()
	server.Run(cfg)
}

type config struct {
	ConfigDir string
	Addr      string
	LogMode   string
}

func loadConfig() (*svrcfg.SvrCfg, *logger.AsyncHandler, error) {
	envCfg, err := svrcfg.LoadEnv()
	if err != nil {
		return nil, nil, err
	}

	cfg := new(config)
	flag.StringVar(&cfg.ConfigDir, "config", "", "directory of stream config files (default: embedded demo set)")
	flag.StringVar(&cfg.Addr, "addr", envCfg.Addr, "listen address, e.g. :5909")
	flag.StringVar(&cfg.LogMode, "log-mode", envCfg.LogMode, "log mode: ModeDev|ModeProd|ModeSilence")
	flag.Parse()

	log, ah := logger.NewAsync(envCfg.LogBuf, logger.ParseMode(cfg.LogMode))

	cfgs := randlab.Configs(demo_configs.FS)
	if cfg.ConfigDir != "" {
		cfgs = randlab.Configs(os.DirFS(cfg.ConfigDir))
	}
	lab, err := randlab.New(cfgs)
	if err != nil {
		ah.Close()
		return nil, nil, err
	}

	sCfg := &svrcfg.SvrCfg{
		Log:      log,
		Lab:      lab,
		Addr:     cfg.Addr,
		DrawCap:  envCfg.DrawCap,
		TrialCap: envCfg.TrialCap,
	}
	return sCfg, ah, nil
}
