package stepline

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette — matches a muted, dark-terminal friendly scheme. Colors degrade
// to plain text when the active lipgloss profile is Ascii.
var (
	accent = lipgloss.Color("99")
	bright = lipgloss.Color("255")
	dim    = lipgloss.Color("243")
	faint  = lipgloss.Color("238")

	completedStyle = lipgloss.NewStyle().Background(accent).Foreground(bright).Bold(true)
	currentStyle   = lipgloss.NewStyle().Foreground(accent).Bold(true)
	pendingStyle   = lipgloss.NewStyle().Foreground(dim)
	baselineStyle  = lipgloss.NewStyle().Foreground(faint)

	currentLabelStyle = lipgloss.NewStyle().Bold(true)
	mutedLabelStyle   = lipgloss.NewStyle().Foreground(dim)
)

const checkmark = "✓"

// minConnector is the shortest baseline segment drawn between two markers.
const minConnector = 2

// LabelMode controls whether the label row renders beneath the markers.
type LabelMode int

const (
	// LabelsAuto shows labels only when they fit the configured width.
	LabelsAuto LabelMode = iota
	// LabelsAlways shows labels regardless of width.
	LabelsAlways
	// LabelsNever renders the marker row only.
	LabelsNever
)

type options struct {
	width  int
	labels LabelMode
}

// Option adjusts rendering.
type Option func(*options)

// WithWidth constrains the indicator to w terminal cells. Zero means
// unconstrained. The width only gates label visibility in LabelsAuto mode;
// markers are never truncated.
func WithWidth(w int) Option {
	return func(o *options) { o.width = w }
}

// WithLabels sets the label visibility mode.
func WithLabels(m LabelMode) Option {
	return func(o *options) { o.labels = m }
}

// Render draws steps as a horizontal row of markers joined by a baseline,
// with each label centered beneath its marker on wide enough viewports.
// Completed markers carry a checkmark, the current marker shows its 1-based
// number outlined in the accent color, pending markers show a muted number.
//
// Render is pure: identical inputs yield identical output, no error paths
// exist, and an empty steps slice yields an empty string.
func Render(steps []string, current int, opts ...Option) string {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	n := len(steps)
	if n == 0 {
		return ""
	}

	markers := make([]string, n)
	markerW := make([]int, n)
	labelW := make([]int, n)
	for i := range steps {
		plain := markerText(i, current)
		markers[i] = markerStyle(StateAt(i, current)).Render(plain)
		markerW[i] = lipgloss.Width(plain)
		labelW[i] = lipgloss.Width(steps[i])
	}

	withLabels := o.labels != LabelsNever && anyPositive(labelW)
	starts := layout(markerW, labelW, withLabels)
	if withLabels && o.labels == LabelsAuto && o.width > 0 {
		if totalWidth(starts, markerW, labelW) > o.width {
			withLabels = false
			starts = layout(markerW, labelW, false)
		}
	}

	markerLine := renderMarkerLine(markers, markerW, starts)
	if !withLabels {
		return markerLine
	}
	return markerLine + "\n" + renderLabelLine(steps, markerW, labelW, starts, current)
}

func anyPositive(ws []int) bool {
	for _, w := range ws {
		if w > 0 {
			return true
		}
	}
	return false
}

func markerText(i, current int) string {
	if StateAt(i, current) == StateCompleted {
		return " " + checkmark + " "
	}
	num := strconv.Itoa(i + 1)
	if StateAt(i, current) == StateCurrent {
		return "(" + num + ")"
	}
	return " " + num + " "
}

func markerStyle(s State) lipgloss.Style {
	switch s {
	case StateCompleted:
		return completedStyle
	case StateCurrent:
		return currentStyle
	default:
		return pendingStyle
	}
}

func labelStyle(s State) lipgloss.Style {
	switch s {
	case StateCurrent:
		return currentLabelStyle
	case StatePending:
		return mutedLabelStyle
	default:
		return lipgloss.NewStyle()
	}
}

// layout assigns a starting column to every marker. Markers sit at least
// minConnector cells apart; when labels render, spacing grows so adjacent
// labels keep a two-cell gap between their centered positions.
func layout(markerW, labelW []int, withLabels bool) []int {
	starts := make([]int, len(markerW))
	for i := 1; i < len(markerW); i++ {
		starts[i] = starts[i-1] + markerW[i-1] + minConnector
		if !withLabels {
			continue
		}
		prevCenter := starts[i-1] + markerW[i-1]/2
		minCenter := prevCenter + (labelW[i-1]+1)/2 + labelW[i]/2 + 2
		if starts[i]+markerW[i]/2 < minCenter {
			starts[i] = minCenter - markerW[i]/2
		}
	}
	return starts
}

// totalWidth measures the widest of the marker and label rows.
func totalWidth(starts, markerW, labelW []int) int {
	last := len(starts) - 1
	width := starts[last] + markerW[last]
	for i, s := range starts {
		center := s + markerW[i]/2
		labelStart := center - labelW[i]/2
		if labelStart < 0 {
			labelStart = 0
		}
		if end := labelStart + labelW[i]; end > width {
			width = end
		}
	}
	return width
}

func renderMarkerLine(markers []string, markerW, starts []int) string {
	var b strings.Builder
	pos := 0
	for i, m := range markers {
		if fill := starts[i] - pos; fill > 0 {
			b.WriteString(baselineStyle.Render(strings.Repeat("─", fill)))
			pos = starts[i]
		}
		b.WriteString(m)
		pos += markerW[i]
	}
	return b.String()
}

func renderLabelLine(labels []string, markerW, labelW, starts []int, current int) string {
	var b strings.Builder
	pos := 0
	for i, label := range labels {
		if labelW[i] == 0 {
			continue
		}
		center := starts[i] + markerW[i]/2
		start := center - labelW[i]/2
		if start < pos {
			start = pos
		}
		b.WriteString(strings.Repeat(" ", start-pos))
		b.WriteString(labelStyle(StateAt(i, current)).Render(label))
		pos = start + labelW[i]
	}
	return b.String()
}
