package main

import (
	"crypto/rand"
	"flag"
	"log"
	"math"
	"math/big"
	"os"
	"strconv"

	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/demo/demo_configs"
	"github.com/zintix-labs/randlab/recorder"
	"github.com/zintix-labs/randlab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	stream    string
	seed      int64
	buckets   int
	trials    int
	worker    int
	alpha     float64
	format    string
	trace     string
	traceN    int
	pprofmode string
}

func bindVar() {
	// 綁定 Flag 到本地變數的指標 (&)
	flag.StringVar(&cfg.stream, "stream", "sim", "stream name from the embedded config set")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed; overrides the stream's configured seed")
	flag.IntVar(&cfg.buckets, "buckets", 10, "bucket count for bounded draws")
	flag.IntVar(&cfg.trials, "trials", 10000000, "total bounded draws")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.Float64Var(&cfg.alpha, "alpha", stats.DefaultAlpha, "chi-square significance level")
	flag.StringVar(&cfg.format, "format", "table", "report output: table, json, yaml")
	flag.StringVar(&cfg.trace, "trace", "", "write an NDJSON+zstd audit trace of the first draws to this file")
	flag.IntVar(&cfg.traceN, "trace-n", 256, "number of draws captured in the audit trace")
	flag.StringVar(&cfg.pprofmode, "p", "", "pprof: '', cpu, heap, allocs")

	flag.Parse()
}

// 解析 flag、組 Trialer、跑檢定並輸出報告
func executeTrials() {
	cfg.valid() // 基本檢查

	lab, err := randlab.New(randlab.Configs(demo_configs.FS))
	if err != nil {
		log.Fatal(err)
	}

	var tr *randlab.Trialer
	if cfg.seed >= 0 {
		tr = randlab.NewTrialerWithSeed(cfg.stream, cfg.seed)
	} else {
		tr, err = lab.NewTrialer(cfg.stream)
		if err != nil {
			// 不在內嵌設定中的 stream 名稱：用隨機 seed 起跑
			tr = randlab.NewTrialerWithSeed(cfg.stream, randomSeed())
		}
	}

	if cfg.trace != "" {
		if err := writeTrace(lab); err != nil {
			log.Fatal(err)
		}
	}

	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	p.Printf("%s[STREAM:%s] [WORKERS:%d] [BUCKETS:%d] [TRIALS:%d]%s\n",
		green, cfg.stream, cfg.worker, cfg.buckets, cfg.trials, reset)

	report, used, err := tr.RunMP(int32(cfg.buckets), cfg.trials, cfg.worker, cfg.alpha, true)
	if err != nil {
		log.Fatal(err)
	}
	p.Printf("used: %v\n", used)

	switch cfg.format {
	case "json":
		render := &stats.JsonUniformRender{}
		if err := render.Write(os.Stdout, report); err != nil {
			log.Fatal(err)
		}
	case "yaml":
		render := &stats.YAMLUniformRender{}
		if err := render.Write(os.Stdout, report); err != nil {
			log.Fatal(err)
		}
	default:
		report.StdOut()
	}
}

// writeTrace 把前 traceN 次 bounded draw（含 pre-draw snapshot）寫成稽核軌跡，
// 之後可用 recorder.ReadAll 讀回並逐筆重放驗證。
func writeTrace(lab *randlab.Lab) error {
	s, err := lab.MustStream(cfg.stream)
	if err != nil {
		return err
	}
	f, err := os.Create(cfg.trace)
	if err != nil {
		return err
	}
	defer f.Close()

	rec, err := recorder.NewDrawRecorder(f)
	if err != nil {
		return err
	}
	for i := 0; i < cfg.traceN; i++ {
		snap, err := s.Snapshot()
		if err != nil {
			return err
		}
		v, err := s.Int32N(int32(cfg.buckets))
		if err != nil {
			return err
		}
		if err := rec.Record(s.Name(), "int32n", int64(cfg.buckets), strconv.FormatInt(int64(v), 10), snap); err != nil {
			return err
		}
	}
	return rec.Close()
}

func (cfg *config) valid() {
	// 工作協程檢查(併發數)
	if cfg.worker < 1 {
		log.Fatal("value err : workers must > 0")
	}
	if cfg.buckets < 2 {
		log.Fatal("value err : buckets must >= 2")
	}
	if cfg.trials < 1 {
		log.Fatal("value err : trials must > 0")
	}
	if cfg.trace != "" && cfg.traceN < 1 {
		log.Fatal("value err : trace-n must > 0")
	}

	if cfg.stream == "" {
		cfg.stream = "sim"
	}
}

// randomSeed 用 crypto/rand 取一個非負 seed。
func randomSeed() int64 {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		log.Fatal(err)
	}
	return seed.Int64()
}
