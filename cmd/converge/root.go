package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
	noTUI   bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "converge",
		Short:         "Converge brings resources to their declared target state",
		Long:          "Converge reads a declarative manifest, checks each resource's current state against its target state, and performs only the actions needed to reach it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&flags.noTUI, "no-tui", false, "Disable the interactive progress view")

	cmd.AddCommand(newApplyCmd(flags))
	cmd.AddCommand(newCheckCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
