package commands

import (
	"github.com/spf13/cobra"
)

var verbose bool

func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the policyctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "policyctl",
		Short:        "Fill insurance policy templates from the command line",
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(fillCmd(), annotationsCmd(), translitCmd())
	return root
}
