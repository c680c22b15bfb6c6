// Package cli implements the wingmix command tree.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/foxhoundv/wingmix/internal/config"
	"github.com/foxhoundv/wingmix/internal/store"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the wingmix CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "wingmix",
		Short: "Record and replay Behringer Wing mixer automation",
		Long: `wingmix records mixer parameter changes (fader, mute, pan) as timed
automation and replays them later with the original timing, optionally
resuming from any point in the timeline.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to wingmix.yaml (defaults apply when unset)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewRecordCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewArmCommand(opts))

	return cmd
}

// LoadConfig resolves the effective configuration.
func (o *RootOptions) LoadConfig() (*config.Config, error) {
	if o.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(o.ConfigPath)
}

// Logger builds the CLI logger. Verbose enables debug records.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenLibrary opens the automation library named by the configuration.
func (o *RootOptions) OpenLibrary(cfg *config.Config) (*store.Store, error) {
	return store.Open(cfg.Library.Path)
}
