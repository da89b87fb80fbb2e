package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"commitgen/internal/git"
	"commitgen/internal/lifecycle"
)

type checkStatus string

const (
	checkOK   checkStatus = "ok"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

type checkResult struct {
	Name    string
	Status  checkStatus
	Details string
}

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the commitgen environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runChecks(cmd.Context(), opts)
			out := cmd.OutOrStdout()
			failed := false
			for _, c := range checks {
				fmt.Fprintf(out, "%-5s %-18s %s\n", "["+c.Status+"]", c.Name, c.Details)
				if c.Status == checkFail {
					failed = true
				}
			}
			if failed {
				return fmt.Errorf("doctor found problems, see above")
			}
			return nil
		},
	}
}

func runChecks(ctx context.Context, opts *rootOptions) []checkResult {
	cfg := opts.cfg
	var checks []checkResult

	repo := git.New()
	if repo.IsRepo(ctx) {
		c := checkResult{Name: "git repository", Status: checkOK, Details: "inside a work tree"}
		if files, err := repo.StagedFiles(ctx); err == nil && len(files) == 0 {
			c.Details = "inside a work tree, nothing staged yet"
		}
		checks = append(checks, c)
	} else {
		checks = append(checks, checkResult{Name: "git repository", Status: checkFail, Details: "not inside a git work tree"})
	}

	if err := cfg.ValidateModel(); err != nil {
		checks = append(checks, checkResult{Name: "model", Status: checkFail, Details: err.Error()})
	} else {
		checks = append(checks, checkResult{Name: "model", Status: checkOK, Details: cfg.Model})
	}

	mgr := lifecycle.New(lifecycle.FromConfig(cfg), opts.log)
	st := mgr.CurrentStatus(ctx)
	if st.HelperAvailable {
		checks = append(checks, checkResult{Name: "helper tool", Status: checkOK, Details: "lms is installed"})
	} else {
		checks = append(checks, checkResult{Name: "helper tool", Status: checkWarn, Details: "lms not found, model loading and fast start are unavailable"})
	}
	if st.Reachable {
		checks = append(checks, checkResult{Name: "inference server", Status: checkOK, Details: "reachable at " + cfg.BaseURL})
	} else {
		detail := "not reachable at " + cfg.BaseURL
		if cfg.AutoStartDisabled() {
			detail += " (auto-start disabled)"
		} else {
			detail += ", commitgen will try to start it"
		}
		checks = append(checks, checkResult{Name: "inference server", Status: checkWarn, Details: detail})
	}

	if strings.TrimSpace(cfg.ServerStart) != "" && !cfg.AutoStartDisabled() {
		checks = append(checks, checkResult{Name: "start command", Status: checkOK, Details: cfg.ServerStart})
	}
	return checks
}
