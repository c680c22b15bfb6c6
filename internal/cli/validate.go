package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foxhoundv/wingmix/internal/document"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate an automation document",
		Long: `Check that a document conforms to the automation sequence shape and
its invariants without touching the mixer or the library.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := document.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d events, %d initial-state entries, %.2fs)\n",
				args[0], len(seq.Events), len(seq.InitialState), seq.Duration)
			return nil
		},
	}
}
