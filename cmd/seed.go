package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/scout-api/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all companies with the embedded starter set",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(cmd.Context()); err != nil {
			return err
		}
		return seed.Apply(cmd.Context(), st)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
