package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/foxhoundv/wingmix/internal/automation"
	"github.com/foxhoundv/wingmix/internal/document"
	"github.com/foxhoundv/wingmix/internal/mixer"
	"github.com/foxhoundv/wingmix/internal/osc"
	"github.com/foxhoundv/wingmix/internal/recorder"
)

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		output   string
		name     string
		settle   time.Duration
		channels string
		buses    string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record live mixer changes as automation",
		Long: `Listen for parameter changes from the mixer and record the ones on
armed strips as a timed automation. Recording runs until interrupted
(ctrl-c) and the result is written to a document file (--output), the
library (--name), or both.

The settle window lets the mixer's state reports build the initial-state
snapshot before the timeline starts.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" && name == "" {
				return fmt.Errorf("at least one of --output or --name is required")
			}
			return runRecord(cmd, rootOpts, output, name, settle, channels, buses)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the recording to this document file")
	cmd.Flags().StringVar(&name, "name", "", "save the recording to the library under this name")
	cmd.Flags().DurationVar(&settle, "settle", 2*time.Second, "baseline capture window before the timeline starts")
	cmd.Flags().StringVar(&channels, "channels", "", "override armed channels, e.g. \"1-4,7\"")
	cmd.Flags().StringVar(&buses, "buses", "", "override armed buses, e.g. \"1,2\"")

	return cmd
}

func runRecord(cmd *cobra.Command, rootOpts *RootOptions, output, name string, settle time.Duration, channels, buses string) error {
	cfg, err := rootOpts.LoadConfig()
	if err != nil {
		return err
	}
	log := rootOpts.Logger(cmd.ErrOrStderr())

	armed := mixer.NewArmed()
	if channels != "" || buses != "" {
		chRefs, err := mixer.ParseRefs(automation.ChannelTypeChannel, channels)
		if err != nil {
			return err
		}
		busRefs, err := mixer.ParseRefs(automation.ChannelTypeBus, buses)
		if err != nil {
			return err
		}
		armed.Arm(chRefs...)
		armed.Arm(busRefs...)
	} else {
		refs, err := cfg.ArmedRefs()
		if err != nil {
			return err
		}
		armed.Arm(refs...)
	}
	if len(armed.List()) == 0 {
		return fmt.Errorf("no strips armed: set armed lists in the config or pass --channels/--buses")
	}

	state := mixer.NewState()
	rec := recorder.New()
	feed := mixer.NewFeed(state, armed, rec, log)
	receiver := osc.NewReceiver(cfg.Mixer.ListenAddr, feed.HandleChange, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	recvErr := make(chan error, 1)
	go func() { recvErr <- receiver.Run(ctx) }()

	if settle > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "capturing baseline for %s...\n", settle)
		select {
		case <-time.After(settle):
		case <-ctx.Done():
			return fmt.Errorf("interrupted during baseline capture")
		case err := <-recvErr:
			return err
		}
	}

	rec.StartRecording(state.Snapshot())
	fmt.Fprintf(cmd.OutOrStdout(), "recording on %s (%d strips armed), press ctrl-c to stop\n",
		cfg.Mixer.ListenAddr, len(armed.List()))

	select {
	case <-ctx.Done():
	case err := <-recvErr:
		if err != nil {
			rec.StopRecording()
			return err
		}
	}

	seq := rec.StopRecording()
	fmt.Fprintf(cmd.OutOrStdout(), "recorded %d events over %.2fs\n", len(seq.Events), seq.Duration)

	// The signal context is already cancelled; persistence uses a fresh one.
	return saveRecording(context.Background(), cmd, rootOpts, seq, output, name)
}

func saveRecording(ctx context.Context, cmd *cobra.Command, rootOpts *RootOptions, seq *automation.Sequence, output, name string) error {
	if output != "" {
		if err := document.Save(output, seq); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
	}
	if name != "" {
		cfg, err := rootOpts.LoadConfig()
		if err != nil {
			return err
		}
		lib, err := rootOpts.OpenLibrary(cfg)
		if err != nil {
			return err
		}
		defer lib.Close()

		entry, err := lib.Save(ctx, name, seq)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved to library as %q (%s)\n", entry.Name, entry.ID)
	}
	return nil
}
