package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"commitgen/internal/lifecycle"
)

func newServerCmd(opts *rootOptions) *cobra.Command {
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Manage the local inference server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("server requires a subcommand: ensure|status")
		},
	}

	ensureCmd := &cobra.Command{
		Use:   "ensure",
		Short: "Start the inference server if needed and wait until it is ready",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			// `server ensure` tolerates a missing model: it only skips the
			// load stage, bring-up itself needs no model id.
			if cfg.ValidateModel() != nil {
				cfg.Model = ""
			}
			mgr := lifecycle.New(lifecycle.FromConfig(cfg), opts.log)
			if err := mgr.Ensure(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "inference server is ready at", cfg.BaseURL)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Report server reachability and helper-tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr := lifecycle.New(lifecycle.FromConfig(opts.cfg), opts.log)
			st := mgr.CurrentStatus(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "server:     %s (%s)\n", onOff(st.Reachable, "reachable", "not reachable"), opts.cfg.BaseURL)
			fmt.Fprintf(out, "helper lms: %s\n", onOff(st.HelperAvailable, "installed", "not installed"))
			return nil
		},
	}

	serverCmd.AddCommand(ensureCmd, statusCmd)
	return serverCmd
}

func onOff(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}
