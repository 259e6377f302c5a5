package cmd

import (
	"encoding/json"

	"diabetescheck/db"

	"github.com/spf13/cobra"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Dump stored feedback records as JSON lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := db.Open(cfg.Database.Driver, cfg.Database.Path)
		if err != nil {
			return err
		}
		defer repo.Close()

		records, err := repo.AllPredictions(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	},
}
