package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"scriptdb/internal/store"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var byCharacter bool
	var instructionsOnly bool
	var character string
	var contains string
	var limit int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize stored dialogue records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()

			counts, err := s.FlagCounts(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Records: %d (%d dialogue, %d instructions)\n",
				counts.Total(), counts.Dialogue, counts.Instruction)

			if byCharacter {
				tallies, err := s.CharacterCounts(cmd.Context(), limit)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(tallies))
				for _, tally := range tallies {
					rows = append(rows, []string{tally.Character, strconv.FormatInt(tally.Count, 10)})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Character", "Lines"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			}

			filter := store.SampleFilter{
				Character: character,
				Contains:  contains,
				Limit:     limit,
			}
			if instructionsOnly {
				flag := true
				filter.Instruction = &flag
			}
			samples, err := s.SampleRecords(cmd.Context(), filter)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(samples))
			for _, sample := range samples {
				kind := "dialogue"
				if sample.Instruction {
					kind = "instruction"
				}
				rows = append(rows, []string{
					sample.ScriptKey,
					strconv.Itoa(sample.RowIndex),
					sample.Character,
					sample.Dialogue,
					kind,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Script", "Row", "Character", "Dialogue", "Kind"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&byCharacter, "by-character", false, "Show per-character line counts instead of samples")
	cmd.Flags().BoolVar(&instructionsOnly, "instructions", false, "Only show records flagged as instructions")
	cmd.Flags().StringVar(&character, "character", "", "Filter samples to one character")
	cmd.Flags().StringVar(&contains, "contains", "", "Filter samples by dialogue substring")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows to show")
	return cmd
}
