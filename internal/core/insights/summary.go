package insights

import (
	"fmt"
	"math"
	"time"

	"github.com/agenthands/kinship/internal/core/metrics"
	"github.com/agenthands/kinship/internal/core/model"
)

const (
	summaryIntroductionLimit = 5
	wellConnectedRatio       = 0.5
	improvingFactor          = 1.1
	decliningFactor          = 0.9
)

// ComputeInsightsSummary rolls metrics, risks and the top introductions into
// one headline and a trend based on recent interaction volume.
func ComputeInsightsSummary(contacts []model.Contact, connections []model.ContactConnection, interactions []model.Interaction, favors []model.Favor, asOf time.Time) model.InsightsSummary {
	risks := ComputeRiskAlerts(contacts, connections, interactions, favors, asOf)
	return SummarizeRisks(contacts, connections, interactions, risks, asOf)
}

// SummarizeRisks builds the summary around risk alerts computed elsewhere,
// so a report and its summary can share one clustering.
func SummarizeRisks(contacts []model.Contact, connections []model.ContactConnection, interactions []model.Interaction, risks []model.RiskAlert, asOf time.Time) model.InsightsSummary {
	m := metrics.ComputeNetworkMetrics(contacts, connections)
	intros := SuggestIntroductions(contacts, connections, summaryIntroductionLimit)
	return summarize(len(contacts), m, risks, intros, interactions, asOf)
}

func summarize(contactCount int, m model.NetworkMetrics, risks []model.RiskAlert, intros []model.IntroductionSuggestion, interactions []model.Interaction, asOf time.Time) model.InsightsSummary {
	if len(intros) > summaryIntroductionLimit {
		intros = intros[:summaryIntroductionLimit]
	}

	high, medium := 0, 0
	for _, r := range risks {
		switch r.Severity {
		case model.SeverityHigh:
			high++
		case model.SeverityMedium:
			medium++
		}
	}

	total, _ := windowActivity(interactions, asOf)

	return model.InsightsSummary{
		Metrics:         m,
		RiskAlerts:      risks,
		Introductions:   intros,
		ActionableCount: high + medium + len(intros),
		TopInsight:      topInsight(contactCount, high, len(intros), m.ConnectedContactsRatio),
		HealthTrend:     trend(total),
	}
}

func topInsight(contactCount, highRisks, intros int, connectedRatio float64) string {
	switch {
	case highRisks == 1:
		return "1 high-priority risk in your network needs attention"
	case highRisks > 1:
		return fmt.Sprintf("%d high-priority risks in your network need attention", highRisks)
	case intros == 1:
		return "1 promising introduction you could make"
	case intros > 1:
		return fmt.Sprintf("%d promising introductions you could make", intros)
	case contactCount > 0 && connectedRatio < wellConnectedRatio:
		uncovered := int(math.Round((1 - connectedRatio) * 100))
		return fmt.Sprintf("%d%% of your contacts have no mapped connections yet", uncovered)
	default:
		return "Your network is well-connected"
	}
}

func trend(a activity) model.HealthTrend {
	current, prior := float64(a.current), float64(a.prior)
	switch {
	case current > prior*improvingFactor:
		return model.TrendImproving
	case current < prior*decliningFactor:
		return model.TrendDeclining
	default:
		return model.TrendStable
	}
}
