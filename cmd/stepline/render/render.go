package rendercmd

import (
	"fmt"

	"stepline"
	"stepline/config"

	"github.com/spf13/cobra"
)

// Cmd returns the "stepline render" command.
func Cmd() *cobra.Command {
	var (
		current int
		width   int
		labels  string
	)

	cmd := &cobra.Command{
		Use:   "render [label]...",
		Short: "Render a step indicator once",
		Long: `Render prints a horizontal step indicator for the given labels.
Steps before --current show a checkmark, the current step is highlighted,
and later steps are muted. Out-of-range --current values are fine: negative
shows everything pending, past the end shows everything completed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if labels == "" {
				labels = cfg.Labels
			}
			mode, err := (&config.Config{Labels: labels}).LabelMode()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("width") {
				width = cfg.Width
			}

			out := stepline.Render(args, current,
				stepline.WithWidth(width),
				stepline.WithLabels(mode),
			)
			if out != "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&current, "current", "c", 0, "Zero-based index of the active step")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "Viewport width in cells (0 = unconstrained)")
	cmd.Flags().StringVar(&labels, "labels", "", "Label visibility: auto, always, or never")

	return cmd
}
