package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/foxhoundv/wingmix/internal/document"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List automations in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.LoadConfig()
			if err != nil {
				return err
			}
			lib, err := rootOpts.OpenLibrary(cfg)
			if err != nil {
				return err
			}
			defer lib.Close()

			entries, err := lib.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "library is empty")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tEVENTS\tDURATION\tCREATED\tID")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%d\t%.2fs\t%s\t%s\n",
					e.Name, e.EventCount, e.Duration, e.CreatedAt.Local().Format(time.DateTime), e.ID)
			}
			return w.Flush()
		},
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a library automation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.LoadConfig()
			if err != nil {
				return err
			}
			lib, err := rootOpts.OpenLibrary(cfg)
			if err != nil {
				return err
			}
			defer lib.Close()

			entry, seq, err := lib.GetByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if raw {
				data, err := document.Marshal(seq)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:      %s\n", entry.Name)
			fmt.Fprintf(out, "id:        %s\n", entry.ID)
			fmt.Fprintf(out, "created:   %s\n", entry.CreatedAt.Local().Format(time.DateTime))
			fmt.Fprintf(out, "duration:  %.2fs\n", entry.Duration)
			fmt.Fprintf(out, "events:    %d\n", entry.EventCount)
			fmt.Fprintf(out, "baseline:  %d entries\n", len(seq.InitialState))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the full document instead of a summary")

	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import an automation document into the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := document.Load(args[0])
			if err != nil {
				return err
			}

			cfg, err := rootOpts.LoadConfig()
			if err != nil {
				return err
			}
			lib, err := rootOpts.OpenLibrary(cfg)
			if err != nil {
				return err
			}
			defer lib.Close()

			entry, err := lib.Save(cmd.Context(), name, seq)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s as %q (%s)\n", args[0], entry.Name, entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "library name for the imported automation")
	cmd.MarkFlagRequired("name")

	return cmd
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <name> <file>",
		Short: "Export a library automation to a document file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.LoadConfig()
			if err != nil {
				return err
			}
			lib, err := rootOpts.OpenLibrary(cfg)
			if err != nil {
				return err
			}
			defer lib.Close()

			_, seq, err := lib.GetByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := document.Save(args[1], seq); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %q to %s\n", args[0], args[1])
			return nil
		},
	}
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a library automation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.LoadConfig()
			if err != nil {
				return err
			}
			lib, err := rootOpts.OpenLibrary(cfg)
			if err != nil {
				return err
			}
			defer lib.Close()

			if err := lib.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", args[0])
			return nil
		},
	}
}
