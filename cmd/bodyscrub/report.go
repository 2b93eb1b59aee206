package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/bodyscrub/bodyscrub/internal/report"
	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	var inputPath string
	var since string
	var format string
	var outPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the record log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inputPath == "" {
				cfg, err := a.loadConfig()
				if err != nil {
					return err
				}
				if cfg.Logging.RecordLog == "" {
					return errors.New("input path is required")
				}
				inputPath = cfg.ResolvePath(cfg.Logging.RecordLog)
			}

			reader := report.Reader{}
			if since != "" {
				dur, err := time.ParseDuration(since)
				if err != nil {
					return fmt.Errorf("invalid since duration: %w", err)
				}
				reader.Since = time.Now().Add(-dur)
			}

			records, err := reader.Read(inputPath)
			if err != nil {
				return err
			}

			summary := report.Summarize(records)
			w := cmd.OutOrStdout()
			switch format {
			case "", "text":
				return report.WriteOutput(w, outPath, []byte(report.RenderText(summary)))
			case "md":
				return report.WriteOutput(w, outPath, []byte(report.RenderMarkdown(summary)))
			case "json":
				data, err := report.RenderJSON(summary)
				if err != nil {
					return err
				}
				return report.WriteOutput(w, outPath, data)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
		},
	}

	cmd.Flags().StringVar(&inputPath, "in", "", "Path to record log JSONL (default logging.recordLog)")
	cmd.Flags().StringVar(&since, "since", "", "Only include records newer than this duration (e.g. 10m)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|md|json")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file path (default stdout)")

	return cmd
}
