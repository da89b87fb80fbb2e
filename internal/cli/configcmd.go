package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "base_url          = %s\n", cfg.BaseURL)
			fmt.Fprintf(out, "api_key           = %s\n", maskSecret(cfg.APIKey))
			fmt.Fprintf(out, "model             = %s\n", cfg.Model)
			fmt.Fprintf(out, "server_start      = %s\n", cfg.ServerStart)
			fmt.Fprintf(out, "load_model        = %t\n", cfg.ShouldLoadModel())
			fmt.Fprintf(out, "gpu               = %s\n", cfg.GPU)
			fmt.Fprintf(out, "context_length    = %d\n", cfg.ContextLength)
			fmt.Fprintf(out, "model_identifier  = %s\n", cfg.ModelIdentifier)
			fmt.Fprintf(out, "start_timeout_ms  = %d\n", cfg.StartTimeoutMS)
			fmt.Fprintf(out, "poll_interval_ms  = %d\n", cfg.PollIntervalMS)
			fmt.Fprintf(out, "temperature       = %g\n", cfg.Temperature)
			fmt.Fprintf(out, "max_tokens        = %d\n", cfg.MaxTokens)
			fmt.Fprintf(out, "max_diff_bytes    = %d\n", cfg.MaxDiffBytes)
			fmt.Fprintf(out, "log_level         = %s\n", cfg.LogLevel)
			return nil
		},
	}
}

// maskSecret keeps a short prefix for recognizability.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-2)
}
