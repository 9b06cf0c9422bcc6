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

package svrcfg

import (
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/server/logger"
)

// SvrCfg 是 server 組裝時的完整依賴集合。
// 所有欄位都由呼叫端注入；server 套件本身不讀檔案、不讀環境變數。
type SvrCfg struct {
	Log  *slog.Logger
	Lab  *randlab.Lab
	Addr string

	// DrawCap 限制單一 draw 請求可以要求的樣本數上限。
	DrawCap int
	// TrialCap 限制單一 uniformity 請求的試驗次數上限。
	TrialCap int
}

// Env 是透過環境變數覆蓋的啟動參數，由 cmd 層讀取後合併進 SvrCfg。
type Env struct {
	Addr     string `env:"RANDLAB_ADDR"`
	LogMode  string `env:"RANDLAB_LOG_MODE" envDefault:"ModeDev"`
	LogBuf   int    `env:"RANDLAB_LOG_BUF" envDefault:"4096"`
	DrawCap  int    `env:"RANDLAB_DRAW_CAP" envDefault:"4096"`
	TrialCap int    `env:"RANDLAB_TRIAL_CAP" envDefault:"2000000"`
}

// LoadEnv 解析 RANDLAB_* 環境變數。
func LoadEnv() (*Env, error) {
	e := new(Env)
	if err := env.Parse(e); err != nil {
		return nil, errs.Wrap(err, "parse RANDLAB_* env")
	}
	return e, nil
}

// Mode 回傳 Env 對應的 LogMode。
func (e *Env) Mode() logger.LogMode {
	return logger.ParseMode(e.LogMode)
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	if sc.Lab == nil {
		return errs.NewFatal("randlab is required")
	}

	// 上限夾限，避免單一請求吃掉整個 worker
	if sc.DrawCap <= 0 {
		sc.DrawCap = 4096
	}
	sc.DrawCap = min(1<<16, sc.DrawCap)
	if sc.TrialCap <= 0 {
		sc.TrialCap = 2_000_000
	}
	sc.TrialCap = min(10_000_000, sc.TrialCap)
	return nil
}
