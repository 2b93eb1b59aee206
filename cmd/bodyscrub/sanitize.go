package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodyscrub/bodyscrub/internal/batch"
	"github.com/bodyscrub/bodyscrub/internal/htmltext"
	"github.com/bodyscrub/bodyscrub/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type sanitizeOptions struct {
	source   string
	html     bool
	selector string
	format   string
	jsonl    bool
	workers  int
}

func newSanitizeCmd(a *app) *cobra.Command {
	var opts sanitizeOptions

	cmd := &cobra.Command{
		Use:   "sanitize [file]",
		Short: "Clean an article body read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != "text" && opts.format != "json" {
				return fmt.Errorf("unknown format %q", opts.format)
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			svc, closeRecords, err := newService(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeRecords() }()

			in, name, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer in.Close()

			if opts.jsonl {
				return runBatch(cmd, svc, in, opts)
			}
			return runSingle(cmd, svc, in, name, opts)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "", "Source name selecting per-source patterns")
	cmd.Flags().BoolVar(&opts.html, "html", false, "Treat input as HTML and extract block text first")
	cmd.Flags().StringVar(&opts.selector, "selector", htmltext.DefaultSelector, "CSS selector for the article root with --html")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text|json")
	cmd.Flags().BoolVar(&opts.jsonl, "jsonl", false, "Read JSONL items {id,source,body} and write JSONL results")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Concurrent workers for --jsonl (default GOMAXPROCS)")

	return cmd
}

func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), "", nil
	}
	file, err := os.Open(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("open input: %w", err)
	}
	return file, filepath.Base(args[0]), nil
}

func runSingle(cmd *cobra.Command, svc *service.Service, in io.Reader, name string, opts sanitizeOptions) error {
	var body string
	if opts.html {
		text, err := htmltext.Lines(in, opts.selector)
		if err != nil {
			return err
		}
		body = text
	} else {
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		body = string(data)
	}

	out := svc.Process(service.Item{ID: name, Source: opts.source, Body: body}, "")
	log.Debug().
		Str("source", opts.source).
		Str("outcome", out.Outcome).
		Int("input_lines", out.Stats.InputLines).
		Int("output_lines", out.Stats.OutputLines).
		Str("cutoff", out.Stats.CutoffPattern).
		Msg("sanitized")
	if out.Empty {
		log.Warn().Str("input", name).Msg("no content survived cleaning")
	}

	w := cmd.OutOrStdout()
	if opts.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if out.Body == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out.Body)
	return err
}

func runBatch(cmd *cobra.Command, svc *service.Service, in io.Reader, opts sanitizeOptions) error {
	items, err := batch.ReadJSONL(in)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].Source == "" {
			items[i].Source = opts.source
		}
		if opts.html {
			text, err := htmltext.Lines(strings.NewReader(items[i].Body), opts.selector)
			if err != nil {
				return fmt.Errorf("item %d: %w", i+1, err)
			}
			items[i].Body = text
		}
	}

	outputs, err := batch.Run(cmd.Context(), svc, items, opts.workers)
	if err != nil {
		return err
	}

	empty := 0
	for _, out := range outputs {
		if out.Empty {
			empty++
		}
	}
	log.Info().Int("items", len(outputs)).Int("empty", empty).Msg("batch sanitized")

	return batch.WriteJSONL(cmd.OutOrStdout(), outputs)
}
