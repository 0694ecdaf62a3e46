package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/converge/internal/config"
	"github.com/alexisbeaulieu97/converge/internal/engine"
	"github.com/alexisbeaulieu97/converge/internal/logger"
	"github.com/alexisbeaulieu97/converge/internal/model"
	"github.com/alexisbeaulieu97/converge/internal/tui"
)

type applyOptions struct {
	ManifestPath string
	Verbose      bool
	Interactive  bool
}

var applyCmdRunner = runApply

func newApplyCmd(root *rootFlags) *cobra.Command {
	opts := applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Converge every manifest resource to its target state",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			opts.Interactive = !root.noTUI && term.IsTerminal(int(os.Stdout.Fd()))
			return applyCmdRunner(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ManifestPath, "config", "c", "", "Path to manifest file")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runApply(opts applyOptions) error {
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := engine.NewRunner(registry, log)
	modelState := tui.NewModel(manifest)

	var program *tea.Program
	var programErr error
	done := make(chan struct{})

	if opts.Interactive {
		program = tea.NewProgram(modelState)
		go func() {
			_, programErr = program.Run()
			close(done)
		}()
	}

	hooks := engine.Hooks{
		OnStart: func(id string) {
			dispatch(opts.Interactive, program, &modelState, tui.ResourceStartMsg{ID: id})
		},
		OnResult: func(res model.ResourceResult) {
			dispatch(opts.Interactive, program, &modelState, tui.ResourceCompleteMsg{Result: res})
		},
	}

	summary, runErr := runner.Run(ctx, manifest, engine.ModeApply, hooks)
	dispatch(opts.Interactive, program, &modelState, tui.RunDoneMsg{})

	if opts.Interactive {
		<-done
		if programErr != nil {
			return programErr
		}
	} else {
		fmt.Fprintln(os.Stdout, modelState.View())
	}

	if runErr != nil {
		return runErr
	}

	log.With(map[string]any{
		"satisfied": summary.Satisfied,
		"converged": summary.Converged,
		"duration":  summary.Duration.String(),
	}).Info("run complete")

	return nil
}

func newRunLogger(verboseFlag, verboseSetting bool) (*logger.Logger, error) {
	level := "info"
	if verboseFlag || verboseSetting {
		level = "debug"
	}
	return logger.New(logger.Options{Level: level, HumanReadable: true})
}

// dispatch sends a message to the running program, or applies it directly to
// the local model when no program is attached.
func dispatch(interactive bool, program *tea.Program, state *tui.Model, msg tea.Msg) {
	if interactive {
		if program != nil {
			program.Send(msg)
		}
		return
	}

	updated, _ := state.Update(msg)
	if m, ok := updated.(tui.Model); ok {
		*state = m
	}
}
