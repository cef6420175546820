package main

import (
	"github.com/spf13/cobra"

	"logit-backend/internal/timesheets"
)

func newNormalizeCmd() *cobra.Command {
	var input, month string
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Print the normalized rows of a timesheet file as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := loadRows(input)
			if err != nil {
				return err
			}
			if month != "" {
				if _, rows, err = selectMonth(rows, month); err != nil {
					return err
				}
			}
			if rows == nil {
				rows = []timesheets.NormalizedRow{}
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"periods": timesheets.Periods(rows),
				"total":   len(rows),
				"rows":    rows,
			})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV or Excel timesheet file")
	cmd.Flags().StringVar(&month, "month", "", "Only keep rows for this month (YYYY-MM)")
	return cmd
}
