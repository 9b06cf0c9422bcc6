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

// Package stats 收集 bounded draw 的直方圖並驗證均勻性。
//
// 這是 randlab 的「驗證面」：產生器合約宣稱 bounded draw 是精確無偏的，
// 本包提供把大量樣本丟進來、用卡方檢定對均勻虛無假設打分的工具。
package stats

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/zintix-labs/randlab/errs"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang = language.English

// Histogram 對 [0, buckets) 的整數樣本計數。
type Histogram struct {
	counts []int64
	total  int64
	oor    int64 // out-of-range 樣本數；合約正確時恆為 0
}

// NewHistogram 建立一個有 buckets 個桶的直方圖；buckets <= 0 屬合約違規。
func NewHistogram(buckets int) (*Histogram, error) {
	if buckets <= 0 {
		return nil, errs.Invalidf("histogram requires buckets > 0, got %d", buckets)
	}
	return &Histogram{counts: make([]int64, buckets)}, nil
}

// Add 記錄一個樣本。範圍外的樣本另外計數（它代表產生器合約被打破）。
func (h *Histogram) Add(v int) {
	if v < 0 || v >= len(h.counts) {
		h.oor++
		return
	}
	h.counts[v]++
	h.total++
}

// Merge 把另一個直方圖的計數併入 h；桶數必須相同。
// 平行模擬時每個 worker 各自計數，收尾時合併。
func (h *Histogram) Merge(o *Histogram) error {
	if o == nil || len(o.counts) != len(h.counts) {
		return errs.Invalidf("merge requires matching bucket count")
	}
	for i, c := range o.counts {
		h.counts[i] += c
	}
	h.total += o.total
	h.oor += o.oor
	return nil
}

// Counts 回傳各桶計數（共享底層，呼叫端不應修改）。
func (h *Histogram) Counts() []int64 { return h.counts }

// Total 回傳範圍內樣本總數。
func (h *Histogram) Total() int64 { return h.total }

// OutOfRange 回傳範圍外樣本數。
func (h *Histogram) OutOfRange() int64 { return h.oor }

// UniformReport 是一次均勻性檢定的結果。
type UniformReport struct {
	Buckets    int     `json:"buckets" yaml:"buckets"`
	Trials     int64   `json:"trials" yaml:"trials"`
	Counts     []int64 `json:"counts" yaml:"counts"`
	OutOfRange int64   `json:"out_of_range" yaml:"out_of_range"`
	ChiSquare  float64 `json:"chi_square" yaml:"chi_square"`
	DF         int     `json:"df" yaml:"df"`
	PValue     float64 `json:"p_value" yaml:"p_value"`
	Alpha      float64 `json:"alpha" yaml:"alpha"`
	Uniform    bool    `json:"uniform" yaml:"uniform"`
}

// StdOut 以表格輸出檢定摘要。
func (u *UniformReport) StdOut() {
	p := message.NewPrinter(lang)
	keys, msg := u.fmtBasic()
	fmt.Print(fmtTable(p.Sprintf("Uniformity (chi-square)"), keys, msg))
}

func (u *UniformReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	verdict := "reject uniform"
	if u.Uniform {
		verdict = "consistent with uniform"
	}
	basic := map[string]string{
		"Buckets":      p.Sprintf("%d", u.Buckets),
		"Trials":       p.Sprintf("%d", u.Trials),
		"Out of Range": p.Sprintf("%d", u.OutOfRange),
		"Chi-Square":   p.Sprintf("%.4f", u.ChiSquare),
		"DF":           p.Sprintf("%d", u.DF),
		"P-Value":      p.Sprintf("%.6f", u.PValue),
		"Alpha":        p.Sprintf("%.4f", u.Alpha),
		"Verdict":      verdict,
	}
	keys := []string{"Buckets", "Trials", "Out of Range", "Chi-Square", "DF", "P-Value", "Alpha", "Verdict"}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
