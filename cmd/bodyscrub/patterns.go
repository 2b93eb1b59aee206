package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/bodyscrub/bodyscrub/internal/rules"
	"github.com/spf13/cobra"
)

func newPatternsCmd(a *app) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the effective drop and cutoff patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			svc, closeRecords, err := newService(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeRecords() }()

			tables := svc.Registry().For(source).Tables()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCATEGORY\tTYPE\tNOTE")
			for _, table := range []rules.Table{tables.Cutoff, tables.Drop} {
				for _, p := range table.Patterns {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Category, p.Type, p.Note)
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Show the tables used for this source")

	return cmd
}
