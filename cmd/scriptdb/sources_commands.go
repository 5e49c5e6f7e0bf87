package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage the script catalog",
	}

	sourcesCmd.AddCommand(newSourcesListCommand(ctx))
	sourcesCmd.AddCommand(newSourcesImportCommand(ctx))

	return sourcesCmd
}

func newSourcesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered scripts and their sheet URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			scripts, err := s.ListScripts(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(scripts))
			for _, script := range scripts {
				rows = append(rows, []string{script.Key, script.Title, script.SheetURL})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "Title", "Sheet URL"},
				rows,
				nil,
			))
			return nil
		},
	}
}

// newSourcesImportCommand reads a CSV catalog of key,title,url rows. A header
// line starting with "key" is skipped so exported catalogs round-trip.
func newSourcesImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Register scripts from a CSV catalog (key,title,url)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer file.Close()

			reader := csv.NewReader(file)
			reader.FieldsPerRecord = -1
			rows, err := reader.ReadAll()
			if err != nil {
				return fmt.Errorf("parse catalog: %w", err)
			}

			s, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			imported := 0
			for i, row := range rows {
				if len(row) == 0 {
					continue
				}
				key := strings.TrimSpace(row[0])
				if key == "" {
					continue
				}
				if i == 0 && strings.EqualFold(key, "key") {
					continue
				}
				var title, sheetURL string
				if len(row) > 1 {
					title = strings.TrimSpace(row[1])
				}
				if len(row) > 2 {
					sheetURL = strings.TrimSpace(row[2])
				}
				if _, err := s.UpsertScript(cmd.Context(), key, title, sheetURL); err != nil {
					return fmt.Errorf("import %s: %w", key, err)
				}
				imported++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d script(s)\n", imported)
			return nil
		},
	}
}
