// Package batch sanitizes many bodies concurrently. Sanitizers share no
// mutable state, so items need no coordination beyond a worker limit.
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/bodyscrub/bodyscrub/internal/service"
	"golang.org/x/sync/errgroup"
)

const maxLineBytes = 16 << 20

// Run processes items with at most workers goroutines. Outputs keep input
// order. Only context cancellation stops a batch early.
func Run(ctx context.Context, svc *service.Service, items []service.Item, workers int) ([]service.Output, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outputs := make([]service.Output, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outputs[i] = svc.Process(item, item.ID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outputs, nil
}

// ReadJSONL reads one item per non-empty line.
func ReadJSONL(r io.Reader) ([]service.Item, error) {
	var items []service.Item
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var item service.Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func WriteJSONL(w io.Writer, outputs []service.Output) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, out := range outputs {
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}
