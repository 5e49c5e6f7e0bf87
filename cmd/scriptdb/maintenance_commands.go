package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scriptdb/internal/classify"
	"scriptdb/internal/textrepair"
)

func newRepairNamesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "repair-names",
		Short: "Apply the character-name corruption table to stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			changed, err := s.RepairCharacterNames(cmd.Context(), textrepair.New())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Repaired %d record(s)\n", changed)

			suspicious, err := s.SuspiciousCharacterNames(cmd.Context())
			if err != nil {
				return err
			}
			if len(suspicious) > 0 {
				fmt.Fprintln(out, "Names still looking corrupted (not in the repair table):")
				for _, name := range suspicious {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}
			return nil
		},
	}
}

func newReclassifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reclassify",
		Short: "Re-run instruction classification over stored records",
		Long: "Re-runs the dialogue/instruction classifier over every stored record and " +
			"updates flags that changed. Text is never modified, so the sweep is safe " +
			"to repeat after tuning classifier thresholds.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			classifier := classify.New(classify.Options{ShortLineLimit: cfg.Classify.ShortLineLimit})
			changed, err := s.Reclassify(cmd.Context(), classifier)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reclassified %d record(s)\n", changed)
			return nil
		},
	}
}
