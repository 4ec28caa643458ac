package rendercmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func runRender(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	lipgloss.SetColorProfile(termenv.Ascii)

	var out bytes.Buffer
	cmd := Cmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("render %v error = %v", args, err)
	}
	return out.String()
}

func TestRenderCommand(t *testing.T) {
	out := runRender(t, "Fetch", "Build", "Push", "--current", "1")

	if !strings.Contains(out, "✓") {
		t.Fatalf("output %q missing completed marker", out)
	}
	if !strings.Contains(out, "(2)") {
		t.Fatalf("output %q missing current marker", out)
	}
	if !strings.Contains(out, "Build") {
		t.Fatalf("output %q missing label row", out)
	}
}

func TestRenderCommandNoSteps(t *testing.T) {
	out := runRender(t)
	if out != "" {
		t.Fatalf("no-step render printed %q, want nothing", out)
	}
}

func TestRenderCommandLabelsNever(t *testing.T) {
	out := runRender(t, "Fetch", "Build", "--current", "0", "--labels", "never")
	if strings.Contains(out, "Fetch") {
		t.Fatalf("labels=never output still has labels: %q", out)
	}
}

func TestRenderCommandRejectsBadLabels(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := Cmd()
	cmd.SetArgs([]string{"A", "--labels", "sometimes"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("Execute() error = nil, want invalid labels error")
	}
}
