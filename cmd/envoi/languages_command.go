package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"envoi/internal/language"
)

type languageRow struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Native string `json:"native,omitempty"`
}

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the languages the translation catalog supports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			clients, err := ctx.ensureClients(cmd.Context())
			if err != nil {
				return err
			}
			langs, err := language.NewTranslateCatalog(clients.Translate, cfg.Transcribe.CatalogPageSize).Languages(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([]languageRow, 0, len(langs))
			for _, l := range langs {
				rows = append(rows, languageRow{Code: l.Code, Name: l.Name, Native: language.NativeName(l.Code)})
			}
			if asJSON {
				return writeJSON(cmd, rows)
			}

			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{r.Code, r.Name, r.Native})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Code", "Name", "Native"}, table, nil))
			fmt.Fprintf(cmd.OutOrStdout(), "%d languages\n", len(rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}
