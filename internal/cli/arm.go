package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foxhoundv/wingmix/internal/automation"
	"github.com/foxhoundv/wingmix/internal/mixer"
)

// NewArmCommand creates the arm command.
func NewArmCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		channels string
		buses    string
	)

	cmd := &cobra.Command{
		Use:   "arm",
		Short: "Show the effective armed strip set",
		Long: `Resolve the armed strip set a recording would use: the configured
armed lists, or the --channels/--buses overrides. Useful to check a
channel list expression before recording with it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
				cfg, err := rootOpts.LoadConfig()
				if err != nil {
					return err
				}
				refs, err := cfg.ArmedRefs()
				if err != nil {
					return err
				}
				armed.Arm(refs...)
			}

			refs := armed.List()
			if len(refs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no strips armed")
				return nil
			}
			for _, r := range refs {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&channels, "channels", "", "channel list, e.g. \"1-4,7\"")
	cmd.Flags().StringVar(&buses, "buses", "", "bus list, e.g. \"1,2\"")

	return cmd
}
