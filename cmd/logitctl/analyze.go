package main

import (
	"github.com/spf13/cobra"

	"logit-backend/internal/bootstrap"
	"logit-backend/internal/llm"
	"logit-backend/internal/shared/config"
)

func newAnalyzeCmd() *cobra.Command {
	var input, employee, month, provider, model string
	var structured bool
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the monthly summary prompt against the configured model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if provider != "" {
				cfg.LLMProvider = provider
			}
			if model != "" {
				cfg.LLMModel = model
			}
			prompt, period, err := buildPrompt(input, employee, month)
			if err != nil {
				return err
			}
			gen, err := bootstrap.BuildGenerator(cfg)
			if err != nil {
				return err
			}
			analyzer := &llm.Analyzer{Gen: gen, Timeout: cfg.LLMTimeout, Structured: structured}
			verdict, err := analyzer.Analyze(cmd.Context(), prompt)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"provider":   gen.Name(),
				"model":      verdict.Model,
				"month_year": period,
				"summary":    verdict.Summary,
				"rating":     verdict.Rating,
			})
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "CSV or Excel timesheet file")
	cmd.Flags().StringVar(&employee, "employee", "", "Employee code used in the prompt")
	cmd.Flags().StringVar(&month, "month", "", "Month to summarize (YYYY-MM)")
	cmd.Flags().StringVar(&provider, "provider", "", "Override LLM_PROVIDER (ollama, openai, anthropic)")
	cmd.Flags().StringVar(&model, "model", "", "Override LLM_MODEL")
	cmd.Flags().BoolVar(&structured, "structured", true, "Send the result schema to providers that support it")
	return cmd
}
