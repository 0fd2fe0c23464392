package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/scout-api/internal/api"
	"github.com/sells-group/scout-api/internal/export"
)

var (
	exportListID string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a list's companies to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		populated, err := api.PopulateList(cmd.Context(), st, exportListID)
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = populated.Name + "." + format.Extension()
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := export.Write(f, format, populated.Companies); err != nil {
			return err
		}
		zap.L().Info("list exported",
			zap.String("list", populated.Name),
			zap.String("file", out),
			zap.Int("companies", len(populated.Companies)),
		)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportListID, "list", "", "list id to export (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: json, csv or xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default <list name>.<format>)")
	exportCmd.MarkFlagRequired("list")
	rootCmd.AddCommand(exportCmd)
}
