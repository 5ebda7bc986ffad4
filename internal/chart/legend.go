package chart

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KaramelBytes/plyview/internal/colorize"
)

// ColorBarSteps is the number of samples drawn for a continuous color bar.
const ColorBarSteps = 20

var (
	legendBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#243141")).Padding(0, 1)
	legendTitle = lipgloss.NewStyle().Bold(true)
	legendDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Legend renders the legend of a colorize result for a terminal. A
// continuous source yields a color bar labeled with the legend domain, a
// qualitative pass one swatch per class. Base colors have no legend.
func Legend(title string, res *colorize.Result) string {
	var body string
	switch src := res.Source.(type) {
	case colorize.Continuous:
		body = colorBar(src, res.Legend)
	case nil:
		body = legendDim.Render("base colors")
	default:
		body = swatches(res.Classes, res.Unmapped)
	}
	return legendBox.Render(lipgloss.JoinVertical(lipgloss.Left, legendTitle.Render(title), body))
}

func colorBar(c colorize.Continuous, l colorize.Legend) string {
	var b strings.Builder
	for _, rgb := range colorize.Gradient(c, ColorBarSteps) {
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(rgb.Hex())).Render(" "))
	}
	bar := b.String()

	lo, hi := formatTick(l.Min), formatTick(l.Max)
	labels := []string{lo}
	if l.Mode == colorize.Diverging {
		mid := formatTick(l.Mid)
		left := ColorBarSteps/2 - lipgloss.Width(lo) - lipgloss.Width(mid)/2
		labels = append(labels, strings.Repeat(" ", max(1, left)), mid)
	}
	used := 0
	for _, s := range labels {
		used += lipgloss.Width(s)
	}
	labels = append(labels, strings.Repeat(" ", max(1, ColorBarSteps-used-lipgloss.Width(hi))), hi)

	return lipgloss.JoinVertical(lipgloss.Left, bar, strings.Join(labels, ""), legendDim.Render(l.Mode.String()))
}

func swatches(classes []colorize.ClassColor, unmapped []float32) string {
	missing := make(map[float32]bool, len(unmapped))
	for _, id := range unmapped {
		missing[id] = true
	}
	lines := make([]string, 0, len(classes))
	for _, cc := range classes {
		line := lipgloss.NewStyle().Foreground(lipgloss.Color(cc.Color.Hex())).Render("██") + " " + classLine(cc.ID)
		if missing[cc.ID] {
			line += legendDim.Render(" (unmapped)")
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return legendDim.Render("no classes")
	}
	return strings.Join(lines, "\n")
}

func classLine(id float32) string {
	label := colorize.ClassLabel(id)
	num := strconv.FormatFloat(float64(id), 'g', -1, 32)
	if label == num {
		return num
	}
	return num + " " + label
}
