// Package plan loads YAML step-plan files for the run command.
//
// A plan is an ordered list of steps, each with a display label and a shell
// command. Step order in the file is display order on the indicator.
package plan

import (
	"fmt"
	"os"
	"strings"

	"stepline/telemetry"

	"gopkg.in/yaml.v3"
)

// Step is one plan entry.
type Step struct {
	ID    string `yaml:"id,omitempty"` // defaults to a slug of the label
	Label string `yaml:"label"`
	Run   string `yaml:"run"` // shell command executed for this step
}

// Plan is an ordered step sequence loaded from a YAML file.
type Plan struct {
	Name  string `yaml:"name,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and validates plan YAML.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}

	if len(p.Steps) == 0 {
		return nil, fmt.Errorf("plan has no steps")
	}

	seen := make(map[string]struct{}, len(p.Steps))
	for i := range p.Steps {
		step := &p.Steps[i]
		step.Label = strings.TrimSpace(step.Label)
		if step.Label == "" {
			return nil, fmt.Errorf("step %d: label is required", i)
		}
		if strings.TrimSpace(step.Run) == "" {
			return nil, fmt.Errorf("step %d (%s): run command is required", i, step.Label)
		}

		step.ID = strings.TrimSpace(step.ID)
		if step.ID == "" {
			step.ID = slug(step.Label)
		}
		if _, dup := seen[step.ID]; dup {
			return nil, fmt.Errorf("step %d: duplicate id %q", i, step.ID)
		}
		seen[step.ID] = struct{}{}
	}

	return &p, nil
}

// Labels returns the step labels in display order.
func (p *Plan) Labels() []string {
	labels := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		labels[i] = s.Label
	}
	return labels
}

// Telemetry converts the plan into its span-announced form.
func (p *Plan) Telemetry() telemetry.Plan {
	steps := make([]telemetry.PlannedStep, len(p.Steps))
	for i, s := range p.Steps {
		steps[i] = telemetry.PlannedStep{ID: s.ID, Label: s.Label}
	}
	return telemetry.Plan{Steps: steps}
}

func slug(label string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
