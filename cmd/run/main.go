package main

import "github.com/zintix-labs/randlab/sdk/perf"

// makefile runner
func main() {
	bindVar()
	perf.RunPProf(executeTrials, cfg.pprofmode)
}
