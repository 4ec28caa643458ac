package main

import (
	"fmt"
	"os"

	rendercmd "stepline/cmd/stepline/render"
	runcmd "stepline/cmd/stepline/run"
	"stepline/cmd/stepline/ui"
	"stepline/internal/logging"
	"stepline/internal/support/buildinfo"

	"github.com/spf13/cobra"
)

func main() {
	var (
		debug   bool
		noInput bool
	)
	if err := logging.Configure(logging.LevelWarn); err != nil {
		_, _ = os.Stderr.WriteString("configure logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	root := &cobra.Command{
		Use:           "stepline",
		Short:         "Step-progress indicators for multi-stage terminal workflows",
		Version:       buildinfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := logging.LevelWarn
			if debug {
				level = logging.LevelDebug
			}
			if err := logging.Configure(level); err != nil {
				return err
			}

			ui.ConfigureInteraction(noInput)
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&noInput, "no-input", false, "Force plain non-interactive output")

	root.AddCommand(rendercmd.Cmd())
	root.AddCommand(runcmd.Cmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
