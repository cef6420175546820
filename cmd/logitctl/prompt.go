package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"logit-backend/internal/analyses"
	"logit-backend/internal/timesheets"
)

func newPromptCmd() *cobra.Command {
	var input, employee, month string
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Render the monthly summary prompt without calling a model",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, _, err := buildPrompt(input, employee, month)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV or Excel timesheet file")
	cmd.Flags().StringVar(&employee, "employee", "", "Employee code used in the prompt (defaults to the file's Employee ID)")
	cmd.Flags().StringVar(&month, "month", "", "Month to summarize (YYYY-MM)")
	return cmd
}

func buildPrompt(input, employee, month string) (string, string, error) {
	rows, err := loadRows(input)
	if err != nil {
		return "", "", err
	}
	period, rows, err := selectMonth(rows, month)
	if err != nil {
		return "", "", err
	}
	employee = strings.TrimSpace(employee)
	if employee == "" {
		for _, r := range rows {
			if r.EmpID != "" {
				employee = r.EmpID
				break
			}
		}
	}
	if employee == "" {
		return "", "", fmt.Errorf("--employee is required when the file has no Employee ID column")
	}
	return analyses.BuildPrompt(employee, timesheets.PeriodLabel(period), rows), period, nil
}
