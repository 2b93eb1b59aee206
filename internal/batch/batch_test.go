package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/bodyscrub/bodyscrub/internal/config"
	"github.com/bodyscrub/bodyscrub/internal/service"
)

func newService(t *testing.T) *service.Service {
	t.Helper()
	svc, err := service.New(config.Default())
	if err != nil {
		t.Fatalf("service.New error: %v", err)
	}
	return svc
}

func TestRunKeepsOrder(t *testing.T) {
	svc := newService(t)

	items := make([]service.Item, 50)
	for i := range items {
		items[i] = service.Item{
			ID:   fmt.Sprintf("a%d", i),
			Body: fmt.Sprintf("Paragraph number %d.\nSubscribe now", i),
		}
	}

	outputs, err := Run(context.Background(), svc, items, 4)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(outputs) != len(items) {
		t.Fatalf("expected %d outputs, got %d", len(items), len(outputs))
	}
	for i, out := range outputs {
		want := fmt.Sprintf("Paragraph number %d.", i)
		if out.ID != items[i].ID || out.Body != want {
			t.Fatalf("output %d out of order: %+v", i, out)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, newService(t), []service.Item{{Body: "x"}}, 1); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestReadWriteJSONL(t *testing.T) {
	input := `{"id":"1","source":"wire","body":"Para one.\nFollow us on Twitter"}

{"id":"2","body":""}
`
	items, err := ReadJSONL(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSONL error: %v", err)
	}
	if len(items) != 2 || items[0].Source != "wire" {
		t.Fatalf("unexpected items %+v", items)
	}

	outputs, err := Run(context.Background(), newService(t), items, 2)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteJSONL(&buf, outputs); err != nil {
		t.Fatalf("WriteJSONL error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var first service.Output
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if first.Body != "Para one." || first.Stats.Dropped != 1 {
		t.Fatalf("unexpected output %+v", first)
	}
}

func TestReadJSONLReportsLine(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader("{\"body\":\"ok\"}\nnot json\n"))
	if err == nil || !strings.HasPrefix(err.Error(), "line 2:") {
		t.Fatalf("expected line number in error, got %v", err)
	}
}
