package summary

import (
	"context"
	"errors"
	"testing"

	"github.com/agenthands/kinship/internal/config"
	"github.com/agenthands/kinship/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockLLMClient struct {
	Response string
	Err      error
	Prompts  []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func sampleReport() model.Report {
	return model.Report{
		Metrics: model.NetworkMetrics{TotalConnections: 4, NetworkDensity: 0.4, AverageStrength: 3.5, ConnectedContactsRatio: 0.8},
		Hubs: []model.Hub{
			{Contact: model.Contact{ID: "h", Name: "Hana"}, Degree: 4},
		},
		RiskAlerts: []model.RiskAlert{
			{Type: model.RiskCoolingHub, Severity: model.SeverityHigh, Description: "Hana connects 4 people but you interacted 0 times"},
		},
		Introductions: []model.IntroductionSuggestion{
			{ContactA: model.Contact{ID: "a", Name: "Ada"}, ContactB: model.Contact{ID: "b"}, Score: 40, Reasons: []string{"Both work at Acme"}},
		},
		Summary: model.InsightsSummary{TopInsight: "1 high-priority risk in your network needs attention", HealthTrend: model.TrendDeclining},
	}
}

func TestNarrate(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "```json\n{\"narrative\": \"Your network is cooling around Hana.\"}\n```"}
	n := NewNarrator(mockLLM, config.NarrativePrompts{Report: "Report:\n%s"})

	out, err := n.Narrate(context.Background(), sampleReport())

	require.NoError(t, err)
	assert.Equal(t, "Your network is cooling around Hana.", out)
	require.Len(t, mockLLM.Prompts, 1)
	assert.Contains(t, mockLLM.Prompts[0], "- Hana (4 connections)")
	assert.Contains(t, mockLLM.Prompts[0], "- Ada and b: Both work at Acme")
	assert.Contains(t, mockLLM.Prompts[0], "[high]")
}

func TestNarrate_FallsBackToRawText(t *testing.T) {
	n := NewNarrator(&MockLLMClient{Response: "  Things look fine.  "}, config.NarrativePrompts{Report: "%s"})

	out, err := n.Narrate(context.Background(), sampleReport())

	require.NoError(t, err)
	assert.Equal(t, "Things look fine.", out)
}

func TestNarrate_WithoutLLM(t *testing.T) {
	var nilNarrator *Narrator
	out, err := nilNarrator.Narrate(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "1 high-priority risk in your network needs attention", out)

	out, err = NewNarrator(nil, config.NarrativePrompts{Report: "%s"}).Narrate(context.Background(), sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "1 high-priority risk in your network needs attention", out)
}

func TestNarrate_PropagatesErrors(t *testing.T) {
	boom := errors.New("rate limited")
	n := NewNarrator(&MockLLMClient{Err: boom}, config.NarrativePrompts{Report: "%s"})

	_, err := n.Narrate(context.Background(), sampleReport())
	assert.ErrorIs(t, err, boom)
}

func TestNameCluster(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"name": "Berlin investors"}`}
	n := NewNarrator(mockLLM, config.NarrativePrompts{ClusterName: "Traits:\n%s"})
	cluster := model.Cluster{
		Members: []model.Contact{
			{ID: "a", Company: "Acme"},
			{ID: "b", Company: "Acme"},
			{ID: "c"},
		},
		DominantType:  model.ConnectionInvestedIn,
		SharedTags:    []string{"investor"},
		CommonCountry: "DE",
	}

	name, err := n.NameCluster(context.Background(), cluster)

	require.NoError(t, err)
	assert.Equal(t, "Berlin investors", name)
	assert.Contains(t, mockLLM.Prompts[0], "Shared tags: investor")
	assert.Contains(t, mockLLM.Prompts[0], "Mostly at: Acme")
	assert.Contains(t, mockLLM.Prompts[0], "Country: DE")
}

func TestNameCluster_QuotedFallback(t *testing.T) {
	n := NewNarrator(&MockLLMClient{Response: `"Golf friends"`}, config.NarrativePrompts{ClusterName: "%s"})

	name, err := n.NameCluster(context.Background(), model.Cluster{})
	require.NoError(t, err)
	assert.Equal(t, "Golf friends", name)
}

func TestNameCluster_NoPrompt(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"name": "x"}`}

	name, err := NewNarrator(mockLLM, config.NarrativePrompts{}).NameCluster(context.Background(), model.Cluster{})

	require.NoError(t, err)
	assert.Empty(t, name)
	assert.Empty(t, mockLLM.Prompts)
}
