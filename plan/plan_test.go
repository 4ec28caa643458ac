package plan

import (
	"os"
	"path/filepath"
	"testing"
)

const validPlan = `
name: release
steps:
  - label: Fetch sources
    run: git fetch --all
  - id: build
    label: Build
    run: make build
  - label: Publish artifacts
    run: make publish
`

func TestParse(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(validPlan))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got, want := p.Name, "release"; got != want {
		t.Fatalf("Name = %q, want %q", got, want)
	}
	if got, want := len(p.Steps), 3; got != want {
		t.Fatalf("step count = %d, want %d", got, want)
	}
	if got, want := p.Steps[0].ID, "fetch-sources"; got != want {
		t.Fatalf("defaulted id = %q, want %q", got, want)
	}
	if got, want := p.Steps[1].ID, "build"; got != want {
		t.Fatalf("explicit id = %q, want %q", got, want)
	}

	labels := p.Labels()
	if got, want := labels[2], "Publish artifacts"; got != want {
		t.Fatalf("Labels()[2] = %q, want %q", got, want)
	}
}

func TestParseRejectsInvalidPlans(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		yaml string
	}{
		{name: "empty", yaml: "name: x"},
		{name: "missing label", yaml: "steps:\n  - run: true"},
		{name: "missing run", yaml: "steps:\n  - label: Build"},
		{name: "duplicate ids", yaml: "steps:\n  - {id: a, label: One, run: true}\n  - {id: a, label: Two, run: true}"},
		{name: "bad yaml", yaml: "steps: ["},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.yaml)); err == nil {
				t.Fatalf("Parse(%q) error = nil, want error", tc.yaml)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(validPlan), 0o644); err != nil {
		t.Fatalf("write plan: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got, want := len(p.Steps), 3; got != want {
		t.Fatalf("step count = %d, want %d", got, want)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load(missing) error = nil, want error")
	}
}

func TestTelemetryConversion(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(validPlan))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tp := p.Telemetry()
	if got, want := len(tp.Steps), 3; got != want {
		t.Fatalf("telemetry step count = %d, want %d", got, want)
	}
	if got, want := tp.Steps[0].ID, "fetch-sources"; got != want {
		t.Fatalf("telemetry id = %q, want %q", got, want)
	}
	if got, want := tp.Steps[0].Label, "Fetch sources"; got != want {
		t.Fatalf("telemetry label = %q, want %q", got, want)
	}
}

func TestSlug(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in, want string
	}{
		{"Fetch sources", "fetch-sources"},
		{"  Run  unit  tests ", "run-unit-tests"},
		{"Deploy v2!", "deploy-v2"},
	}

	for _, tc := range testCases {
		if got := slug(tc.in); got != tc.want {
			t.Fatalf("slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
