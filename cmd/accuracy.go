package cmd

import (
	"encoding/json"
	"fmt"

	"diabetescheck/accuracy"
	"diabetescheck/db"

	"github.com/spf13/cobra"
)

var accuracyJSON bool

var accuracyCmd = &cobra.Command{
	Use:   "accuracy",
	Short: "Print cumulative and running accuracy from stored feedback",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := db.Open(cfg.Database.Driver, cfg.Database.Path)
		if err != nil {
			return err
		}
		defer repo.Close()

		report, err := accuracy.NewAggregator(repo).Report(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if accuracyJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		fmt.Fprintf(out, "predictions: %d\n", report.Total)
		fmt.Fprintf(out, "correct:     %d\n", report.Correct)
		fmt.Fprintf(out, "accuracy:    %.2f (%+.2f)\n", report.Accuracy, report.Delta)
		fmt.Fprintln(out, "history:")
		for i, v := range report.History {
			fmt.Fprintf(out, "  %4d  %.2f\n", i, v)
		}
		return nil
	},
}

func init() {
	accuracyCmd.Flags().BoolVar(&accuracyJSON, "json", false, "Print the report as JSON")
}
