package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bodyscrub/bodyscrub/internal/logging"
)

const topN = 5

type Summary struct {
	Bodies     int            `json:"bodies"`
	Cleaned    int            `json:"cleaned"`
	Unchanged  int            `json:"unchanged"`
	Empty      int            `json:"empty"`
	Shadowed   int            `json:"shadowed"`
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	Lines      LineTotals     `json:"lines"`
	TopDrop    []CountItem    `json:"top_drop"`
	TopCutoff  []CountItem    `json:"top_cutoff"`
	TopSources []CountItem    `json:"top_sources"`
	DurationUS LatencySummary `json:"duration_us"`
}

type LineTotals struct {
	Input       int `json:"input"`
	Output      int `json:"output"`
	Kept        int `json:"kept"`
	Dropped     int `json:"dropped"`
	Spam        int `json:"spam"`
	AfterCutoff int `json:"after_cutoff"`
}

type CountItem struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type LatencySummary struct {
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type Reader struct {
	Since time.Time
}

func (r *Reader) Read(path string) ([]logging.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return r.Decode(file)
}

// Decode reads records from a JSONL stream, skipping blank lines and
// records older than Since.
func (r *Reader) Decode(in io.Reader) ([]logging.Record, error) {
	var records []logging.Record
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec logging.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !r.Since.IsZero() && rec.Timestamp.Before(r.Since) {
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func Summarize(records []logging.Record) Summary {
	var summary Summary
	if len(records) == 0 {
		return summary
	}
	summary.Start = records[0].Timestamp
	summary.End = records[0].Timestamp

	dropCounts := map[string]int{}
	cutoffCounts := map[string]int{}
	sourceCounts := map[string]int{}
	durations := make([]int64, 0, len(records))

	for _, rec := range records {
		summary.Bodies++
		if rec.Timestamp.Before(summary.Start) {
			summary.Start = rec.Timestamp
		}
		if rec.Timestamp.After(summary.End) {
			summary.End = rec.Timestamp
		}

		switch rec.Outcome {
		case "cleaned":
			summary.Cleaned++
		case "unchanged":
			summary.Unchanged++
		case "empty":
			summary.Empty++
		}
		if !rec.Applied {
			summary.Shadowed++
		}

		summary.Lines.Input += rec.InputLines
		summary.Lines.Output += rec.OutputLines
		summary.Lines.Kept += rec.Kept
		summary.Lines.Dropped += rec.Dropped
		summary.Lines.Spam += rec.Spam
		summary.Lines.AfterCutoff += rec.AfterCutoff

		for _, m := range rec.Matches {
			if m.Category == "drop" {
				dropCounts[m.PatternID]++
			}
		}
		if rec.CutoffPattern != "" {
			cutoffCounts[rec.CutoffPattern]++
		}
		source := rec.Source
		if source == "" {
			source = "(default)"
		}
		sourceCounts[source]++

		durations = append(durations, rec.DurationUS)
	}

	summary.TopDrop = topCounts(dropCounts, topN)
	summary.TopCutoff = topCounts(cutoffCounts, topN)
	summary.TopSources = topCounts(sourceCounts, topN)
	summary.DurationUS = latencySummary(durations)

	return summary
}

func topCounts(counts map[string]int, n int) []CountItem {
	items := make([]CountItem, 0, len(counts))
	for key, count := range counts {
		items = append(items, CountItem{Key: key, Count: count})
	}
	if len(items) == 0 {
		return nil
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Key < items[j].Key
		}
		return items[i].Count > items[j].Count
	})

	if len(items) > n {
		items = items[:n]
	}
	return items
}

func latencySummary(values []int64) LatencySummary {
	if len(values) == 0 {
		return LatencySummary{}
	}
	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return LatencySummary{
		P50: percentile(sorted, 0.50),
		P95: percentile(sorted, 0.95),
		P99: percentile(sorted, 0.99),
	}
}

func percentile(values []int64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	idx := int(float64(len(values)-1) * p)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(values) {
		idx = len(values) - 1
	}
	return float64(values[idx])
}

func RenderText(summary Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bodies: %d\n", summary.Bodies)
	fmt.Fprintf(&b, "Cleaned: %d\n", summary.Cleaned)
	fmt.Fprintf(&b, "Unchanged: %d\n", summary.Unchanged)
	fmt.Fprintf(&b, "Empty: %d\n", summary.Empty)
	fmt.Fprintf(&b, "Shadowed: %d\n", summary.Shadowed)
	fmt.Fprintf(&b, "Lines in/out: %d/%d\n", summary.Lines.Input, summary.Lines.Output)
	fmt.Fprintf(&b, "Lines kept/dropped/spam/after cutoff: %d/%d/%d/%d\n", summary.Lines.Kept, summary.Lines.Dropped, summary.Lines.Spam, summary.Lines.AfterCutoff)
	fmt.Fprintf(&b, "Duration p50/p95/p99 (us): %.0f/%.0f/%.0f\n", summary.DurationUS.P50, summary.DurationUS.P95, summary.DurationUS.P99)

	writeCounts(&b, "Top drop patterns", summary.TopDrop)
	writeCounts(&b, "Top cutoff patterns", summary.TopCutoff)
	writeCounts(&b, "Top sources", summary.TopSources)

	return b.String()
}

func RenderMarkdown(summary Summary) string {
	var b strings.Builder
	b.WriteString("# bodyscrub report\n\n")
	b.WriteString("## Totals\n\n")
	fmt.Fprintf(&b, "- Bodies: %d\n", summary.Bodies)
	fmt.Fprintf(&b, "- Cleaned: %d\n", summary.Cleaned)
	fmt.Fprintf(&b, "- Unchanged: %d\n", summary.Unchanged)
	fmt.Fprintf(&b, "- Empty: %d\n", summary.Empty)
	fmt.Fprintf(&b, "- Shadowed: %d\n", summary.Shadowed)
	fmt.Fprintf(&b, "- Duration p50/p95/p99 (us): %.0f/%.0f/%.0f\n\n", summary.DurationUS.P50, summary.DurationUS.P95, summary.DurationUS.P99)

	b.WriteString("## Lines\n\n")
	b.WriteString("| input | output | kept | dropped | spam | after cutoff |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d |\n\n", summary.Lines.Input, summary.Lines.Output, summary.Lines.Kept, summary.Lines.Dropped, summary.Lines.Spam, summary.Lines.AfterCutoff)

	writeCountsMarkdown(&b, "Top drop patterns", summary.TopDrop)
	writeCountsMarkdown(&b, "Top cutoff patterns", summary.TopCutoff)
	writeCountsMarkdown(&b, "Top sources", summary.TopSources)

	return b.String()
}

func RenderJSON(summary Summary) ([]byte, error) {
	return json.MarshalIndent(summary, "", "  ")
}

func writeCounts(b *strings.Builder, title string, items []CountItem) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: none\n", title)
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s: %d\n", item.Key, item.Count)
	}
}

func writeCountsMarkdown(b *strings.Builder, title string, items []CountItem) {
	b.WriteString("## ")
	b.WriteString(title)
	b.WriteString("\n\n")
	if len(items) == 0 {
		b.WriteString("- none\n\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "- %s: %d\n", item.Key, item.Count)
	}
	b.WriteString("\n")
}

func WriteOutput(w io.Writer, path string, content []byte) error {
	if path == "" {
		_, err := io.Copy(w, bytes.NewReader(content))
		return err
	}
	return os.WriteFile(path, content, 0o600)
}
