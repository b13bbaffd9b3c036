package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Ramsey-B/fennel/pkg/models"
	"github.com/Ramsey-B/fennel/pkg/normalizers"
)

func newSearchCmd() *cobra.Command {
	var (
		query       models.SearchQuery
		patientName string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search orders for a patient and print JSON",
		Long: `Search orders for a patient and print the ranked results as JSON.

Examples:
  fennel search --last Smith
  fennel search --first John --last Smith --dos 06/15/2023
  fennel search --name "Smith, John" --months 6 --limit 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if patientName != "" && !query.HasName() {
				query.FirstName, query.LastName = normalizers.SplitPatientName(patientName)
			}

			a, err := loadApp()
			if err != nil {
				return err
			}

			db, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			svc, err := a.searchService(db)
			if err != nil {
				return err
			}

			results, err := svc.Search(cmd.Context(), query)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"results": results})
		},
	}

	cmd.Flags().StringVar(&query.FirstName, "first", "", "patient first name")
	cmd.Flags().StringVar(&query.LastName, "last", "", "patient last name")
	cmd.Flags().StringVar(&patientName, "name", "", `full patient name, "Last, First" or "First Last"`)
	cmd.Flags().StringVar(&query.DateOfService, "dos", "", "target date of service")
	cmd.Flags().IntVar(&query.MonthsRange, "months", 0, "months either side of the date of service (0 = default)")
	cmd.Flags().IntVarP(&query.Limit, "limit", "n", 0, "maximum number of results (0 = default)")

	return cmd
}
