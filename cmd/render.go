package main

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"flex_report/internal/models"
	"flex_report/internal/service"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const barCells = 40

var (
	colorGood  = lipgloss.Color("#2E9E44")
	colorWarn  = lipgloss.Color("#F4D03F")
	colorBad   = lipgloss.Color("#E74C3C")
	colorMuted = lipgloss.Color("#6C7A80")
)

var styles = struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style
	Marker lipgloss.Style
	Box    lipgloss.Style
}{
	Title:  lipgloss.NewStyle().Bold(true),
	Label:  lipgloss.NewStyle().Width(18).Foreground(colorMuted),
	Muted:  lipgloss.NewStyle().Foreground(colorMuted),
	Error:  lipgloss.NewStyle().Foreground(colorBad),
	Marker: lipgloss.NewStyle().Foreground(colorBad).Bold(true),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 1),
}

// bar renders pct (0..100) as a green-yellow-red bar with a marker at
// service.ReportMarkerPct.
func bar(pct float64) string {
	pct = math.Max(0, math.Min(pct, 100))
	filled := int(math.Round(pct / 100 * barCells))
	marker := int(math.Round(service.ReportMarkerPct / 100 * barCells))

	var b strings.Builder
	for i := 0; i < barCells; i++ {
		if i == marker {
			b.WriteString(styles.Marker.Render("|"))
			continue
		}
		ch := "░"
		if i < filled {
			ch = "█"
		}
		b.WriteString(lipgloss.NewStyle().Foreground(cellColor(i)).Render(ch))
	}
	return b.String()
}

func cellColor(i int) lipgloss.Color {
	switch {
	case i < barCells/2:
		return colorGood
	case i < barCells*3/4:
		return colorWarn
	default:
		return colorBad
	}
}

func row(label, value string) string {
	return styles.Label.Render(label) + value
}

func renderEstimate(est models.RULEstimate) string {
	lines := []string{
		styles.Title.Render("FLEX REPORT"),
		"",
		row("Fluid", est.Fluid),
		row("Hours in use", humanize.Commaf(math.Round(est.ElapsedHours))),
	}
	if est.EffectiveHours != est.ElapsedHours {
		lines = append(lines, row("Effective age", humanize.Commaf(math.Round(est.EffectiveHours))))
	}
	lines = append(lines,
		row("Severity", fmt.Sprintf("%.2f (%s)", est.SeverityRating, est.SeveritySource)),
		row("Health index", fmt.Sprintf("%.1f%% (limit %.0f%%)", est.CurrentHealthIndex, est.ThresholdPct)),
		"",
		bar(est.UsedFraction*100),
	)

	if rem, ok := est.Remaining(); ok {
		lines = append(lines, fmt.Sprintf("This oil has %s hours left of useful life.", humanize.Comma(int64(math.Round(rem)))))
	} else {
		lines = append(lines, "Remaining useful life could not be determined.")
	}

	if d := est.Deposits; d != nil {
		lines = append(lines, "", bar(d.DepositPct),
			fmt.Sprintf("This oil has a %s%% level of deposits (%s).", humanize.Ftoa(d.DepositPct), d.Class))
	}
	return styles.Box.Render(strings.Join(lines, "\n"))
}

func renderList(title string, items []string) string {
	lines := []string{styles.Title.Render(fmt.Sprintf("%s (%d)", title, len(items)))}
	for _, it := range items {
		lines = append(lines, "  "+it)
	}
	return strings.Join(lines, "\n")
}

func renderTree(tree map[string]map[string][]string) string {
	lines := []string{styles.Title.Render("Equipment")}
	for _, m := range sortedKeys(tree) {
		lines = append(lines, "  "+m)
		for _, cat := range sortedKeys(tree[m]) {
			lines = append(lines, "    "+styles.Muted.Render(cat)+": "+strings.Join(tree[m][cat], ", "))
		}
	}
	return strings.Join(lines, "\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
