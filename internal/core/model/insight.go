package model

import "time"

type NetworkMetrics struct {
	TotalConnections       int     `json:"total_connections"`
	NetworkDensity         float64 `json:"network_density"`
	AverageStrength        float64 `json:"average_strength"`
	BidirectionalRatio     float64 `json:"bidirectional_ratio"`
	ConnectedContactsRatio float64 `json:"connected_contacts_ratio"`
}

type TypeBreakdown struct {
	Type        ConnectionType `json:"type"`
	Count       int            `json:"count"`
	AvgStrength float64        `json:"avg_strength"`
}

// StrengthDistribution holds edge counts indexed by strength; index 0 is unused.
type StrengthDistribution [6]int

type Hub struct {
	Contact         Contact          `json:"contact"`
	Degree          int              `json:"degree"`
	AvgStrength     float64          `json:"avg_strength"`
	ConnectionTypes []ConnectionType `json:"connection_types"`
}

type Cluster struct {
	ID            string         `json:"id"`
	Members       []Contact      `json:"members"`
	InternalEdges int            `json:"internal_edges"`
	AvgStrength   float64        `json:"avg_strength"`
	DominantType  ConnectionType `json:"dominant_type,omitempty"`
	SharedTags    []string       `json:"shared_tags"`
	CommonCountry string         `json:"common_country,omitempty"`
}

type BridgeContact struct {
	Contact         Contact `json:"contact"`
	ClustersTouched int     `json:"clusters_touched"`
	Degree          int     `json:"degree"`
}

type IntroductionSuggestion struct {
	ContactA Contact  `json:"contact_a"`
	ContactB Contact  `json:"contact_b"`
	Score    int      `json:"score"`
	Reasons  []string `json:"reasons"`
}

type WeakLinkReason string

const (
	WeakNoRecentInteraction WeakLinkReason = "no_recent_interaction"
	WeakLowStrength         WeakLinkReason = "low_strength"
	WeakOneDirectional      WeakLinkReason = "one_directional"
)

type WeakConnectionAlert struct {
	Connection ContactConnection `json:"connection"`
	Source     Contact           `json:"source"`
	Target     Contact           `json:"target"`
	Reason     WeakLinkReason    `json:"reason"`
	Message    string            `json:"message"`
}

type RiskType string

const (
	RiskSinglePointOfFailure RiskType = "single_point_of_failure"
	RiskCoolingHub           RiskType = "cooling_hub"
	RiskUnbalancedFavor      RiskType = "unbalanced_favor"
	RiskIsolatedHighValue    RiskType = "isolated_high_value"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank orders severities for sorting; lower is more urgent.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	default:
		return 2
	}
}

type RiskAlert struct {
	Type        RiskType `json:"type"`
	Severity    Severity `json:"severity"`
	Contact     Contact  `json:"contact"`
	Description string   `json:"description"`
}

type NetworkReach struct {
	DirectReach  int `json:"direct_reach"`
	SecondDegree int `json:"second_degree"`
	ThirdDegree  int `json:"third_degree"`
}

type CountryDensity struct {
	Country       string  `json:"country"`
	ContactCount  int     `json:"contact_count"`
	InternalEdges int     `json:"internal_edges"`
	Density       float64 `json:"density"`
}

type HealthTrend string

const (
	TrendImproving HealthTrend = "improving"
	TrendStable    HealthTrend = "stable"
	TrendDeclining HealthTrend = "declining"
)

type InsightsSummary struct {
	Metrics         NetworkMetrics           `json:"metrics"`
	RiskAlerts      []RiskAlert              `json:"risk_alerts"`
	Introductions   []IntroductionSuggestion `json:"introductions"`
	ActionableCount int                      `json:"actionable_count"`
	TopInsight      string                   `json:"top_insight"`
	HealthTrend     HealthTrend              `json:"health_trend"`
}

// Report bundles every analyzer's output for one snapshot.
type Report struct {
	GeneratedAt          time.Time                `json:"generated_at"`
	Metrics              NetworkMetrics           `json:"metrics"`
	ConnectionTypes      []TypeBreakdown          `json:"connection_types"`
	StrengthDistribution StrengthDistribution     `json:"strength_distribution"`
	Hubs                 []Hub                    `json:"hubs"`
	Clusters             []Cluster                `json:"clusters"`
	Isolated             []Contact                `json:"isolated"`
	Bridges              []BridgeContact          `json:"bridges"`
	Introductions        []IntroductionSuggestion `json:"introductions"`
	WeakConnections      []WeakConnectionAlert    `json:"weak_connections"`
	RiskAlerts           []RiskAlert              `json:"risk_alerts"`
	Reach                NetworkReach             `json:"reach"`
	Geography            []CountryDensity         `json:"geography"`
	Summary              InsightsSummary          `json:"summary"`
}
