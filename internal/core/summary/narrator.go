package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/kinship/internal/config"
	"github.com/agenthands/kinship/internal/core/common"
	"github.com/agenthands/kinship/internal/core/model"
	"github.com/agenthands/kinship/internal/llm"
)

const (
	digestRiskLimit         = 5
	digestIntroductionLimit = 3
)

type narrative struct {
	Narrative string `json:"narrative"`
}

type clusterName struct {
	Name string `json:"name"`
}

// Narrator turns computed reports into prose with an LLM.
type Narrator struct {
	LLM     llm.LLMClient
	Prompts config.NarrativePrompts
}

func NewNarrator(llmClient llm.LLMClient, prompts config.NarrativePrompts) *Narrator {
	return &Narrator{
		LLM:     llmClient,
		Prompts: prompts,
	}
}

// Narrate describes the report in a few sentences. Without an LLM it returns
// the report's top insight unchanged.
func (n *Narrator) Narrate(ctx context.Context, report model.Report) (string, error) {
	if n == nil || n.LLM == nil || n.Prompts.Report == "" {
		return report.Summary.TopInsight, nil
	}

	prompt := fmt.Sprintf(n.Prompts.Report, Digest(report))
	response, err := n.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate narrative: %w", err)
	}

	result, err := common.ParseJSON[narrative](response)
	if err == nil && result.Narrative != "" {
		return result.Narrative, nil
	}
	return strings.TrimSpace(response), nil
}

// NameCluster asks for a short label for a cluster. It returns an empty name
// when no LLM or prompt is configured.
func (n *Narrator) NameCluster(ctx context.Context, cluster model.Cluster) (string, error) {
	if n == nil || n.LLM == nil || n.Prompts.ClusterName == "" {
		return "", nil
	}

	prompt := fmt.Sprintf(n.Prompts.ClusterName, describeCluster(cluster))
	response, err := n.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate cluster name: %w", err)
	}

	result, err := common.ParseJSON[clusterName](response)
	if err == nil && result.Name != "" {
		return result.Name, nil
	}
	return strings.Trim(strings.TrimSpace(response), `"`), nil
}

// Digest renders the parts of a report worth narrating as plain text.
func Digest(r model.Report) string {
	var b strings.Builder
	m := r.Metrics

	fmt.Fprintf(&b, "Connections: %d (density %.2f, average strength %.1f, %.0f%% bidirectional)\n",
		m.TotalConnections, m.NetworkDensity, m.AverageStrength, m.BidirectionalRatio*100)
	fmt.Fprintf(&b, "Contacts with at least one connection: %.0f%%\n", m.ConnectedContactsRatio*100)
	fmt.Fprintf(&b, "Clusters: %d, isolated contacts: %d\n", len(r.Clusters), len(r.Isolated))
	fmt.Fprintf(&b, "Interaction trend: %s\n", r.Summary.HealthTrend)

	if len(r.Hubs) > 0 {
		b.WriteString("Most connected contacts:\n")
		for _, h := range r.Hubs {
			fmt.Fprintf(&b, "- %s (%d connections)\n", displayName(h.Contact), h.Degree)
		}
	}

	if len(r.RiskAlerts) > 0 {
		b.WriteString("Risks:\n")
		for i, a := range r.RiskAlerts {
			if i == digestRiskLimit {
				fmt.Fprintf(&b, "- and %d more\n", len(r.RiskAlerts)-digestRiskLimit)
				break
			}
			fmt.Fprintf(&b, "- [%s] %s\n", a.Severity, a.Description)
		}
	}

	if len(r.Introductions) > 0 {
		b.WriteString("Suggested introductions:\n")
		for i, s := range r.Introductions {
			if i == digestIntroductionLimit {
				break
			}
			fmt.Fprintf(&b, "- %s and %s: %s\n", displayName(s.ContactA), displayName(s.ContactB), strings.Join(s.Reasons, "; "))
		}
	}

	fmt.Fprintf(&b, "Headline: %s\n", r.Summary.TopInsight)
	return b.String()
}

func describeCluster(c model.Cluster) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Members: %d\n", len(c.Members))
	if c.DominantType != "" {
		fmt.Fprintf(&b, "Most common relationship: %s\n", c.DominantType)
	}
	if len(c.SharedTags) > 0 {
		fmt.Fprintf(&b, "Shared tags: %s\n", strings.Join(c.SharedTags, ", "))
	}
	if c.CommonCountry != "" {
		fmt.Fprintf(&b, "Country: %s\n", c.CommonCountry)
	}
	companies := make(map[string]int)
	for _, m := range c.Members {
		if m.Company != "" {
			companies[m.Company]++
		}
	}
	for _, m := range c.Members {
		if m.Company != "" && companies[m.Company]*2 >= len(c.Members) {
			fmt.Fprintf(&b, "Mostly at: %s\n", m.Company)
			break
		}
	}
	return b.String()
}

func displayName(c model.Contact) string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}
