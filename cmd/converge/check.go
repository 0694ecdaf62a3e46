package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/converge/internal/config"
	"github.com/alexisbeaulieu97/converge/internal/engine"
)

type checkOptions struct {
	ManifestPath string
	Verbose      bool
}

var checkCmdRunner = runCheck

func newCheckCmd(root *rootFlags) *cobra.Command {
	opts := checkOptions{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report each resource's state without converging anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			return checkCmdRunner(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ManifestPath, "config", "c", "", "Path to manifest file")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runCheck(cmd *cobra.Command, opts checkOptions) error {
	manifest, err := config.ParseManifest(opts.ManifestPath)
	if err != nil {
		return err
	}

	log, err := newRunLogger(opts.Verbose, manifest.Settings.Verbose)
	if err != nil {
		return err
	}

	registry, err := newResourceRegistry()
	if err != nil {
		return err
	}

	runner := engine.NewRunner(registry, log)
	summary, runErr := runner.Run(context.Background(), manifest, engine.ModeCheck, engine.Hooks{})

	out := cmd.OutOrStdout()
	for _, res := range summary.Results {
		fmt.Fprintf(out, "%-14s %s", res.Status, res.ResourceID)
		if res.Message != "" {
			fmt.Fprintf(out, " — %s", res.Message)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "\n%d checked: %d satisfied, %d unmet, %d failed\n",
		summary.Total, summary.Satisfied, summary.Unmet, summary.Failed)

	if runErr != nil {
		return runErr
	}
	if summary.Unmet > 0 {
		return fmt.Errorf("%d of %d resources not in target state", summary.Unmet, summary.Total)
	}

	return nil
}
