package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/foxhoundv/wingmix/internal/osc"
	"github.com/foxhoundv/wingmix/internal/player"
)

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		from float64
		name string
	)

	cmd := &cobra.Command{
		Use:   "play [file]",
		Short: "Replay an automation with its original timing",
		Long: `Replay a recorded automation against the mixer. The source is either
an automation document file or, with --name, an entry from the library.

With --from the timeline resumes mid-way: events before the position are
skipped and the initial state is not applied. Starting from 0 first
re-establishes the recorded initial state.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" && len(args) == 0 {
				return fmt.Errorf("either a file argument or --name is required")
			}
			if name != "" && len(args) > 0 {
				return fmt.Errorf("a file argument and --name are mutually exclusive")
			}
			return runPlay(cmd, rootOpts, args, name, from)
		},
	}

	cmd.Flags().Float64Var(&from, "from", 0, "timeline position to start from, in seconds")
	cmd.Flags().StringVar(&name, "name", "", "play a library entry instead of a file")

	return cmd
}

func runPlay(cmd *cobra.Command, rootOpts *RootOptions, args []string, name string, from float64) error {
	cfg, err := rootOpts.LoadConfig()
	if err != nil {
		return err
	}
	log := rootOpts.Logger(cmd.ErrOrStderr())

	dispatcher := osc.NewDispatcher(cfg.Mixer.Host, cfg.Mixer.Port, log)
	p := player.New(dispatcher, player.WithLogger(log))

	if name != "" {
		lib, err := rootOpts.OpenLibrary(cfg)
		if err != nil {
			return err
		}
		defer lib.Close()

		_, seq, err := lib.GetByName(cmd.Context(), name)
		if err != nil {
			return err
		}
		p.LoadSequence(seq)
	} else {
		if err := p.LoadAutomation(args[0]); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := p.StartPlayback(ctx, from); err != nil {
		return err
	}

	select {
	case <-p.Done():
		fmt.Fprintf(cmd.OutOrStdout(), "playback finished at %.2fs\n", p.Position())
	case <-ctx.Done():
		p.StopPlayback()
		fmt.Fprintf(cmd.OutOrStdout(), "playback stopped at %.2fs\n", p.Position())
	}
	return nil
}
