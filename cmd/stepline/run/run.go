package runcmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"stepline"
	"stepline/cmd/stepline/ui"
	"stepline/plan"
	"stepline/progress"
	"stepline/telemetry"

	"github.com/spf13/cobra"
)

// Cmd returns the "stepline run" command.
func Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <plan.yaml>",
		Short: "Execute a step plan with live progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.Load(args[0])
			if err != nil {
				return err
			}

			name := p.Name
			if name == "" {
				name = "run"
			}

			failedIdx := -1
			runErr := ui.RunWithLiveBar(cmd.Context(), func(ctx context.Context, report progress.Reporter) error {
				rt := ui.NewRunTelemetry(report)
				defer rt.Close()

				op, err := telemetry.EmitPlan(ctx, rt.Tracer("stepline"), name, p.Telemetry())
				if err != nil {
					return err
				}

				var stepErr error
				for i, step := range p.Steps {
					stepErr = op.RunStep(op.Context(), step.ID, func(ctx context.Context) error {
						return execStep(ctx, step.Run)
					})
					if stepErr != nil {
						failedIdx = i
						stepErr = fmt.Errorf("step %q: %w", step.Label, stepErr)
						break
					}
				}
				op.End(stepErr)
				return stepErr
			})

			// Final state on stdout, whatever happened during the run.
			current := len(p.Steps)
			if failedIdx >= 0 {
				current = failedIdx
			}
			fmt.Fprintln(cmd.OutOrStdout(), stepline.Render(p.Labels(), current))

			if runErr != nil {
				fmt.Fprintln(os.Stderr, ui.ErrorMsg("%v", runErr))
				return runErr
			}
			fmt.Fprintln(os.Stderr, ui.SuccessMsg("%s: %d steps completed", name, len(p.Steps)))
			return nil
		},
	}
}

// execStep runs one plan command through the shell. On failure the last
// line of combined output is folded into the error so the indicator's
// status line says what broke.
func execStep(ctx context.Context, command string) error {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if msg := lastLine(out); msg != "" {
		return fmt.Errorf("%w: %s", err, msg)
	}
	return err
}

func lastLine(out []byte) string {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	if len(lines) == 0 {
		return ""
	}
	return string(bytes.TrimSpace(lines[len(lines)-1]))
}
