package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/agenthands/kinship/internal/core/community"
	"github.com/agenthands/kinship/internal/core/graph"
	"github.com/agenthands/kinship/internal/core/model"
)

const (
	coolingHubMinDegree   = 3
	coolingHubHighDegree  = 5
	favorMinDegree        = 2
	favorImbalanceMedium  = 3
	favorImbalanceHigh    = 5
	highValueMinRating    = 4
	highValueMinInfluence = 4
)

// ComputeRiskAlerts flags contacts whose position or history makes the
// network fragile, most severe first. A contact may appear under several
// alert types.
//
// Any contact with at least three connections counts as a hub for
// cooling_hub, whether or not it ranks among the top FindHubs results.
func ComputeRiskAlerts(contacts []model.Contact, connections []model.ContactConnection, interactions []model.Interaction, favors []model.Favor, asOf time.Time) []model.RiskAlert {
	clusters := community.DetectClusters(contacts, connections)
	return ComputeRiskAlertsIn(contacts, connections, interactions, favors, clusters, asOf)
}

// ComputeRiskAlertsIn is ComputeRiskAlerts against an explicit clustering,
// which only affects single_point_of_failure.
func ComputeRiskAlertsIn(contacts []model.Contact, connections []model.ContactConnection, interactions []model.Interaction, favors []model.Favor, clusters []model.Cluster, asOf time.Time) []model.RiskAlert {
	alerts := []model.RiskAlert{}

	for _, b := range FindBridgeContactsIn(contacts, connections, clusters) {
		if b.ClustersTouched < 2 {
			continue
		}
		severity := model.SeverityMedium
		if b.ClustersTouched >= 3 {
			severity = model.SeverityHigh
		}
		alerts = append(alerts, model.RiskAlert{
			Type:        model.RiskSinglePointOfFailure,
			Severity:    severity,
			Contact:     b.Contact,
			Description: fmt.Sprintf("%s is the only link between %d groups in your network", b.Contact.Name, b.ClustersTouched),
		})
	}

	g := graph.Build(connections)
	_, perContact := windowActivity(interactions, asOf)
	people := uniqueContacts(contacts)

	for _, c := range people {
		degree := g.Degree[c.ID]
		if degree < coolingHubMinDegree {
			continue
		}
		a := perContact[c.ID]
		if a.prior == 0 || a.current >= a.prior {
			continue
		}
		severity := model.SeverityMedium
		if degree >= coolingHubHighDegree {
			severity = model.SeverityHigh
		}
		alerts = append(alerts, model.RiskAlert{
			Type:     model.RiskCoolingHub,
			Severity: severity,
			Contact:  c,
			Description: fmt.Sprintf("%s connects %d people but you interacted %d times in the last 30 days, down from %d",
				c.Name, degree, a.current, a.prior),
		})
	}

	given := make(map[string]int)
	received := make(map[string]int)
	for _, f := range favors {
		switch f.Direction {
		case model.FavorGiven:
			given[f.ContactID]++
		case model.FavorReceived:
			received[f.ContactID]++
		}
	}
	for _, c := range people {
		if g.Degree[c.ID] < favorMinDegree {
			continue
		}
		diff := given[c.ID] - received[c.ID]
		imbalance := diff
		if imbalance < 0 {
			imbalance = -imbalance
		}
		if imbalance < favorImbalanceMedium {
			continue
		}
		severity := model.SeverityMedium
		if imbalance >= favorImbalanceHigh {
			severity = model.SeverityHigh
		}
		desc := fmt.Sprintf("You are giving more than receiving with %s (%d given, %d received)", c.Name, given[c.ID], received[c.ID])
		if diff < 0 {
			desc = fmt.Sprintf("You are receiving more than giving with %s (%d given, %d received)", c.Name, given[c.ID], received[c.ID])
		}
		alerts = append(alerts, model.RiskAlert{
			Type:        model.RiskUnbalancedFavor,
			Severity:    severity,
			Contact:     c,
			Description: desc,
		})
	}

	for _, c := range people {
		if g.Degree[c.ID] > 0 || !highValue(c) {
			continue
		}
		alerts = append(alerts, model.RiskAlert{
			Type:        model.RiskIsolatedHighValue,
			Severity:    model.SeverityMedium,
			Contact:     c,
			Description: fmt.Sprintf("%s is a high-value contact with no connections to the rest of your network", c.Name),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
	})
	return alerts
}

func highValue(c model.Contact) bool {
	return (c.Rating != nil && *c.Rating >= highValueMinRating) ||
		(c.InfluenceLevel != nil && *c.InfluenceLevel >= highValueMinInfluence)
}
