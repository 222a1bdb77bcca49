// Package render formats reports for terminals.
package render

import (
	"fmt"
	"strings"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/charmbracelet/lipgloss"
)

const listLimit = 5

var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7D79FF"}
	colorSecondary = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	colorHigh      = lipgloss.Color("#E5484D")
	colorMedium    = lipgloss.Color("#F5A524")
	colorLow       = lipgloss.Color("#46A758")

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSecondary).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(colorSecondary)
)

func severityStyle(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeverityHigh:
		return lipgloss.NewStyle().Foreground(colorHigh).Bold(true)
	case model.SeverityMedium:
		return lipgloss.NewStyle().Foreground(colorMedium)
	default:
		return lipgloss.NewStyle().Foreground(colorLow)
	}
}

func section(title string, body string) string {
	return boxStyle.Render(titleStyle.Render(title) + "\n\n" + strings.TrimRight(body, "\n"))
}

func name(c model.Contact) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// Report lays out the headline numbers, hubs, risks and introductions.
func Report(r model.Report) string {
	var health strings.Builder
	m := r.Metrics
	fmt.Fprintf(&health, "%s\n", r.Summary.TopInsight)
	fmt.Fprintf(&health, "Connections: %d   Density: %.3f   Avg strength: %.1f\n",
		m.TotalConnections, m.NetworkDensity, m.AverageStrength)
	fmt.Fprintf(&health, "Bidirectional: %.0f%%   Connected contacts: %.0f%%\n",
		m.BidirectionalRatio*100, m.ConnectedContactsRatio*100)
	fmt.Fprintf(&health, "Clusters: %d   Isolated: %d   Trend: %s",
		len(r.Clusters), len(r.Isolated), r.Summary.HealthTrend)

	blocks := []string{section("Network Health", health.String())}
	if len(r.Hubs) > 0 {
		blocks = append(blocks, section("Hubs", Hubs(r.Hubs)))
	}
	if len(r.RiskAlerts) > 0 {
		blocks = append(blocks, section("Risks", Risks(r.RiskAlerts)))
	}
	if len(r.Introductions) > 0 {
		blocks = append(blocks, section("Introductions", Introductions(r.Introductions)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func Hubs(hubs []model.Hub) string {
	var b strings.Builder
	for _, h := range hubs {
		fmt.Fprintf(&b, "• %s %s\n", name(h.Contact),
			mutedStyle.Render(fmt.Sprintf("(%d connections, avg strength %.1f)", h.Degree, h.AvgStrength)))
	}
	return b.String()
}

func Risks(alerts []model.RiskAlert) string {
	var b strings.Builder
	for i, a := range alerts {
		if i == listLimit {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("… and %d more", len(alerts)-listLimit)))
			b.WriteString("\n")
			break
		}
		fmt.Fprintf(&b, "• %s %s\n", severityStyle(a.Severity).Render(strings.ToUpper(string(a.Severity))), a.Description)
	}
	return b.String()
}

func Introductions(intros []model.IntroductionSuggestion) string {
	var b strings.Builder
	for i, s := range intros {
		if i == listLimit {
			break
		}
		fmt.Fprintf(&b, "• %s ↔ %s %s\n", name(s.ContactA), name(s.ContactB), mutedStyle.Render(fmt.Sprintf("[%d]", s.Score)))
		for _, reason := range s.Reasons {
			fmt.Fprintf(&b, "    %s\n", reason)
		}
	}
	return b.String()
}

// Summary renders just the insights summary box.
func Summary(s model.InsightsSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.TopInsight)
	fmt.Fprintf(&b, "Actionable items: %d   Trend: %s\n", s.ActionableCount, s.HealthTrend)
	if len(s.RiskAlerts) > 0 {
		b.WriteString("\n")
		b.WriteString(Risks(s.RiskAlerts))
	}
	if len(s.Introductions) > 0 {
		b.WriteString("\n")
		b.WriteString(Introductions(s.Introductions))
	}
	return section("Summary", b.String())
}
