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

// Package perf 把 runtime/pprof 包成「跑一段邏輯、落一個 profile 檔」的
// 便利入口，給 cmd/run 這類批次工具用（例如百萬級 bounded draw 的
// 均勻性檢定）。輸出固定寫到 build/profiling/，CPU profile 也可以餵給
// PGO 當構建藍圖。
package perf

import (
	"os"
	"runtime"
	"runtime/pprof"
)

const pprofDir = "build/profiling" // profile 檔輸出目錄

// RunPProf 依 mode 決定以哪種 profiling 包住 exe 執行。
// mode 為空或未知時直接執行，不落檔。
//
//	go run ./cmd/run -p cpu
//	go run ./cmd/run -p heap
func RunPProf(exe func(), mode string) {

	_ = os.MkdirAll(pprofDir, 0o755)

	switch mode {
	case "":
		exe()
	case "cpu":
		PProfCPU(exe)
	case "heap":
		PProfHeap(exe)
	case "allocs":
		PProfAllocs(exe)
	default:
		exe()
	}
}

// PProfCPU 在 exe() 執行期間收 CPU profile。
// 輸出檔：build/profiling/cpu.pprof
func PProfCPU(exe func()) {

	_ = os.MkdirAll(pprofDir, 0o755)

	filePath := pprofDir + "/cpu.pprof"
	f, err := os.Create(filePath)
	if err != nil {
		panic("failed to create cpu.pprof : " + err.Error())
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		panic("failed to start pprof : " + err.Error())
	}
	defer pprof.StopCPUProfile()

	exe()
}

// PProfHeap 在 exe() 結束後寫一次 heap snapshot（in-use memory）。
// 寫檔前先 runtime.GC()，讓 live objects 的視圖貼近真實狀態。
// 輸出檔：build/profiling/heap.pprof
func PProfHeap(exe func()) {
	// 先執行目標邏輯，再拍快照
	exe()

	_ = os.MkdirAll(pprofDir, 0o755)

	runtime.GC()

	filePath := pprofDir + "/heap.pprof"
	f, err := os.Create(filePath)
	if err != nil {
		panic("failed to create heap.pprof : " + err.Error())
	}
	defer f.Close()

	if err := pprof.WriteHeapProfile(f); err != nil {
		panic("failed to write heap profile : " + err.Error())
	}

}

// PProfAllocs 在 exe() 結束後寫出累積配置（allocs）profile，
// 搭配 -alloc_space / -alloc_objects 檢視整體分配熱點。
// 輸出檔：build/profiling/allocs.pprof
func PProfAllocs(exe func()) {
	exe()

	_ = os.MkdirAll(pprofDir, 0o755)

	filePath := pprofDir + "/allocs.pprof"
	f, err := os.Create(filePath)
	if err != nil {
		panic("failed to create allocs.pprof : " + err.Error())
	}
	defer f.Close()

	if prof := pprof.Lookup("allocs"); prof != nil {
		if err := prof.WriteTo(f, 0); err != nil {
			panic("failed to write allocs profile : " + err.Error())
		}
	}

}
