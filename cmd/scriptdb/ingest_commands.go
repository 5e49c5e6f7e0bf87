package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scriptdb/internal/grid"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var workers int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch and store every catalog source with a sheet URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			runner, err := ctx.newRunner(s, workers)
			if err != nil {
				return err
			}

			tally, err := runner.Run(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Succeeded: %d  Skipped: %d  Failed: %d\n",
				tally.Succeeded, tally.Skipped, tally.Failed)
			for _, failure := range tally.Failures {
				fmt.Fprintf(out, "  %s: %v\n", failure.ScriptKey, failure.Err)
			}
			if tally.Failed > 0 {
				return fmt.Errorf("%d source(s) failed", tally.Failed)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of sources to process (0 = all)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent sources (0 = configured default)")
	return cmd
}

func newReprocessCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reprocess <script-key>",
		Short: "Re-fetch one source and replace its stored records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			runner, err := ctx.newRunner(s, 1)
			if err != nil {
				return err
			}

			outcome, err := runner.RunOne(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %d record(s) for %s (%d dialogue, %d instructions)\n",
				outcome.Report.Total(), outcome.ScriptKey,
				outcome.Report.Dialogue, outcome.Report.Instruction)
			return nil
		},
	}
}

func newIngestFileCommand(ctx *commandContext) *cobra.Command {
	var scriptKey string
	var sheetName string

	cmd := &cobra.Command{
		Use:   "ingest-file <path>",
		Short: "Ingest a local XLSX or CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(scriptKey)
			if key == "" {
				return fmt.Errorf("--key is required")
			}

			g, err := grid.FromFile(args[0], sheetName)
			if err != nil {
				return err
			}

			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			runner, err := ctx.newRunner(s, 1)
			if err != nil {
				return err
			}

			outcome, err := runner.IngestGrid(cmd.Context(), key, g)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %d record(s) for %s (%d dialogue, %d instructions)\n",
				outcome.Report.Total(), key,
				outcome.Report.Dialogue, outcome.Report.Instruction)
			return nil
		},
	}

	cmd.Flags().StringVar(&scriptKey, "key", "", "Script key to store the records under")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Worksheet name for XLSX files (default: first sheet)")
	return cmd
}
