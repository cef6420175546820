package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"logit-backend/internal/timesheets"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "logitctl",
		Short: "Inspect timesheet files and try summary prompts locally",
		Long: `Read a CSV or Excel timesheet the same way the API does, print the normalized rows,
render the monthly summary prompt, or run it against the configured model.

Model settings come from the same environment variables as the API server
(LLM_PROVIDER, LLM_MODEL, OLLAMA_BASE_URL, OPENAI_API_KEY, ANTHROPIC_API_KEY, LLM_TIMEOUT).`,
		Example: `
  # Show normalized rows and detected periods
  logitctl normalize -i june.xlsx

  # Render the prompt for one employee and month
  logitctl prompt -i june.xlsx --employee E100 --month 2025-06

  # Run the prompt against the configured provider
  LLM_PROVIDER=ollama LLM_MODEL=gemma3 logitctl analyze -i june.xlsx --employee E100
`,
		SilenceUsage: true,
	}
	root.AddCommand(newNormalizeCmd(), newPromptCmd(), newAnalyzeCmd())
	return root
}

// loadRows decodes and normalizes path.
func loadRows(path string) ([]timesheets.NormalizedRow, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("--input is required")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	raw, err := timesheets.Decode(filepath.Base(path), f)
	if err != nil {
		return nil, err
	}
	return timesheets.Normalize(raw), nil
}

// selectMonth keeps rows for month, or requires the file to hold a single month.
func selectMonth(rows []timesheets.NormalizedRow, month string) (string, []timesheets.NormalizedRow, error) {
	month = strings.TrimSpace(month)
	if month != "" {
		if _, ok := timesheets.ParsePeriod(month); !ok {
			return "", nil, fmt.Errorf("--month must be YYYY-MM, got %q", month)
		}
		selected := timesheets.FilterPeriod(rows, month)
		if len(selected) == 0 {
			return "", nil, fmt.Errorf("no rows for %s", month)
		}
		return month, selected, nil
	}
	periods := timesheets.Periods(rows)
	switch len(periods) {
	case 0:
		return "", nil, fmt.Errorf("no dated rows in input")
	case 1:
		return periods[0], rows, nil
	default:
		return "", nil, fmt.Errorf("input spans %s; pass --month", strings.Join(periods, ", "))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
