package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"commitgen/internal/git"
	"commitgen/internal/lifecycle"
	"commitgen/internal/llm"
	"commitgen/internal/prompt"
)

// runGenerate is the default flow: staged diff -> ensure server -> propose
// message -> confirm -> commit.
func runGenerate(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()
	cfg := opts.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}

	repo := git.New()
	if !repo.IsRepo(ctx) {
		return fmt.Errorf("not inside a git repository")
	}
	diff, err := repo.StagedDiff(ctx, cfg.MaxDiffBytes)
	if err != nil {
		return err
	}
	if strings.TrimSpace(diff) == "" {
		return fmt.Errorf("nothing is staged: stage changes with `git add` first")
	}
	files, err := repo.StagedFiles(ctx)
	if err != nil {
		return err
	}

	mgr := lifecycle.New(lifecycle.FromConfig(cfg), opts.log)
	if err := mgr.Ensure(ctx); err != nil {
		return err
	}

	client := llm.New(cfg.BaseURL, cfg.APIKey, opts.log)
	msg, err := client.CommitMessage(ctx, llm.Prompt{
		Model:       cfg.Model,
		Diff:        diff,
		Files:       files,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n  %s\n\n", msg)
	if opts.dryRun {
		return nil
	}

	if !opts.yes {
		ok, err := prompt.Confirm("Commit with this message?", true)
		if err != nil {
			if prompt.IsAborted(err) {
				fmt.Fprintln(out, "aborted")
				return nil
			}
			return err
		}
		if !ok {
			fmt.Fprintln(out, "not committed")
			return nil
		}
	}

	if err := repo.Commit(ctx, msg); err != nil {
		return err
	}
	fmt.Fprintln(out, "committed")
	return nil
}
