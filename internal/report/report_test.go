package report

import (
	"strings"
	"testing"
	"time"

	"github.com/bodyscrub/bodyscrub/internal/logging"
)

func TestSummarize(t *testing.T) {
	records := []logging.Record{
		{Timestamp: time.Unix(0, 0), Source: "wire", Applied: true, Outcome: "cleaned", InputLines: 6, OutputLines: 2, Kept: 2, Dropped: 1, AfterCutoff: 2, CutoffLine: 3, CutoffPattern: "related-stories", DurationUS: 10,
			Matches: []logging.MatchedLine{{PatternID: "subscribe-cta", Category: "drop", Line: 1}, {PatternID: "related-stories", Category: "cutoff", Line: 3}}},
		{Timestamp: time.Unix(2, 0), Source: "wire", Applied: true, Outcome: "unchanged", InputLines: 3, OutputLines: 3, Kept: 3, CutoffLine: -1, DurationUS: 30},
		{Timestamp: time.Unix(1, 0), Applied: false, Mode: "shadow", Outcome: "empty", InputLines: 1, Dropped: 1, CutoffLine: -1, DurationUS: 20,
			Matches: []logging.MatchedLine{{PatternID: "subscribe-cta", Category: "drop", Line: 0}}},
	}

	summary := Summarize(records)
	if summary.Bodies != 3 {
		t.Fatalf("expected 3 bodies, got %d", summary.Bodies)
	}
	if summary.Cleaned != 1 || summary.Unchanged != 1 || summary.Empty != 1 || summary.Shadowed != 1 {
		t.Fatalf("unexpected outcome counts %+v", summary)
	}
	if summary.Lines.Input != 10 || summary.Lines.Dropped != 2 || summary.Lines.AfterCutoff != 2 {
		t.Fatalf("unexpected line totals %+v", summary.Lines)
	}
	if len(summary.TopDrop) != 1 || summary.TopDrop[0].Key != "subscribe-cta" || summary.TopDrop[0].Count != 2 {
		t.Fatalf("expected subscribe-cta twice, got %+v", summary.TopDrop)
	}
	if len(summary.TopCutoff) != 1 || summary.TopCutoff[0].Key != "related-stories" {
		t.Fatalf("expected related-stories cutoff, got %+v", summary.TopCutoff)
	}
	if summary.TopSources[0].Key != "wire" || summary.TopSources[1].Key != "(default)" {
		t.Fatalf("unexpected sources %+v", summary.TopSources)
	}
	if !summary.Start.Equal(time.Unix(0, 0)) || !summary.End.Equal(time.Unix(2, 0)) {
		t.Fatalf("unexpected window %v - %v", summary.Start, summary.End)
	}
	if summary.DurationUS.P50 != 20 || summary.DurationUS.P99 != 20 {
		t.Fatalf("unexpected durations %+v", summary.DurationUS)
	}
}

func TestDecodeSince(t *testing.T) {
	input := strings.Join([]string{
		`{"ts":"2024-01-01T00:00:00Z","source":"a","outcome":"cleaned","applied":true}`,
		``,
		`{"ts":"2024-01-02T00:00:00Z","source":"b","outcome":"empty","applied":true}`,
	}, "\n")

	r := Reader{Since: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	records, err := r.Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if len(records) != 1 || records[0].Source != "b" {
		t.Fatalf("expected only the newer record, got %+v", records)
	}
}

func TestDecodeReportsLine(t *testing.T) {
	r := Reader{}
	_, err := r.Decode(strings.NewReader("{\"ts\":\"2024-01-01T00:00:00Z\"}\nnot json\n"))
	if err == nil || !strings.HasPrefix(err.Error(), "line 2:") {
		t.Fatalf("expected line 2 error, got %v", err)
	}
}

func TestRenderers(t *testing.T) {
	summary := Summary{Bodies: 1, TopCutoff: []CountItem{{Key: "trending", Count: 1}}}

	if text := RenderText(summary); !strings.Contains(text, "- trending: 1") || !strings.Contains(text, "Top drop patterns: none") {
		t.Fatalf("unexpected text report:\n%s", text)
	}
	if md := RenderMarkdown(summary); !strings.HasPrefix(md, "# bodyscrub report") {
		t.Fatalf("unexpected markdown report:\n%s", md)
	}
	if _, err := RenderJSON(summary); err != nil {
		t.Fatalf("expected json render ok: %v", err)
	}
}
