package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nelsonPires5/openchamber/internal/core"
)

var (
	styleProvider = lipgloss.NewStyle().Bold(true)
	styleLabel    = lipgloss.NewStyle().Width(18)
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleMuted    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleBarUsed  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleBarWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleBarCrit  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

const barWidth = 20

func renderResults(results []core.ProviderResult) string {
	var b strings.Builder
	for _, res := range results {
		b.WriteString(renderResult(res))
		b.WriteString("\n")
	}
	return b.String()
}

func renderResult(res core.ProviderResult) string {
	name := res.ProviderName
	if name == "" {
		name = res.ProviderID
	}

	var b strings.Builder
	b.WriteString(styleProvider.Render(name))
	b.WriteString("\n")

	if !res.OK {
		b.WriteString("  " + styleError.Render(res.Error) + "\n")
		return b.String()
	}

	for _, label := range sortedKeys(res.Usage.Windows) {
		b.WriteString(renderWindow(label, res.Usage.Windows[label]))
	}
	for _, model := range sortedModelKeys(res.Usage.Models) {
		b.WriteString("  " + styleMuted.Render(model) + "\n")
		windows := res.Usage.Models[model].Windows
		for _, label := range sortedKeys(windows) {
			b.WriteString("  " + renderWindow(label, windows[label]))
		}
	}
	return b.String()
}

func renderWindow(label string, w core.UsageWindow) string {
	var b strings.Builder
	b.WriteString("  " + styleLabel.Render(label))

	if w.UsedPercent != nil {
		b.WriteString(usageBar(*w.UsedPercent))
		b.WriteString(fmt.Sprintf(" %5.1f%%", *w.UsedPercent))
	} else if w.ValueLabel != "" {
		b.WriteString(w.ValueLabel)
	}

	if w.UsedPercent != nil && w.ValueLabel != "" {
		b.WriteString("  " + styleMuted.Render(w.ValueLabel))
	}
	if w.ResetAtFormatted != nil {
		b.WriteString("  " + styleMuted.Render("resets "+*w.ResetAtFormatted))
	}

	b.WriteString("\n")
	return b.String()
}

func usageBar(usedPercent float64) string {
	filled := int(usedPercent / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	style := styleBarUsed
	switch {
	case usedPercent >= 95:
		style = styleBarCrit
	case usedPercent >= 80:
		style = styleBarWarn
	}

	return style.Render(strings.Repeat("█", filled)) +
		styleMuted.Render(strings.Repeat("░", barWidth-filled))
}

func sortedKeys(m map[string]core.UsageWindow) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedModelKeys(m map[string]core.ModelUsage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
