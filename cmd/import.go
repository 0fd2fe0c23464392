package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/scout-api/internal/ingest"
	"github.com/sells-group/scout-api/internal/model"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import companies from a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		var companies []model.Company
		switch strings.ToLower(filepath.Ext(importFile)) {
		case ".csv":
			f, err := os.Open(importFile)
			if err != nil {
				return eris.Wrap(err, "open import file")
			}
			defer f.Close()
			companies, err = ingest.ReadCSV(f)
			if err != nil {
				return err
			}
		case ".xlsx":
			var err error
			companies, err = ingest.ReadXLSX(importFile)
			if err != nil {
				return err
			}
		default:
			return eris.Errorf("unsupported import file type: %s", importFile)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		for _, c := range companies {
			if _, err := st.CreateCompany(ctx, c); err != nil {
				return eris.Wrapf(err, "import company %s", c.Name)
			}
		}

		zap.L().Info("import complete",
			zap.Int("companies", len(companies)),
			zap.String("file", importFile),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "path to CSV or XLSX file (required)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
