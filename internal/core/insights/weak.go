package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/agenthands/kinship/internal/core/graph"
	"github.com/agenthands/kinship/internal/core/model"
)

const (
	day = 24 * time.Hour

	// StaleAfter is how long a strong connection may go without an
	// interaction on either side before it is flagged.
	StaleAfter = 90 * day

	// ActivityWindow is the length of the current and prior windows compared
	// for cooling hubs and the health trend.
	ActivityWindow = 30 * day
)

var weakReasonRank = map[model.WeakLinkReason]int{
	model.WeakNoRecentInteraction: 0,
	model.WeakLowStrength:         1,
	model.WeakOneDirectional:      2,
}

// FindWeakConnections flags fragile connections as of the given instant. One
// connection can produce several alerts. Alerts are grouped by reason, stale
// strong ties first, then low strength, then one-directional records.
func FindWeakConnections(contacts []model.Contact, connections []model.ContactConnection, interactions []model.Interaction, asOf time.Time) []model.WeakConnectionAlert {
	index := graph.ContactIndex(contacts)
	recent := contactsSeenBetween(interactions, asOf.Add(-StaleAfter), asOf)

	alerts := []model.WeakConnectionAlert{}
	for _, e := range connections {
		src, okS := index[e.SourceContactID]
		dst, okT := index[e.TargetContactID]
		if !okS || !okT {
			continue
		}

		strength := graph.Strength(e)
		emit := func(reason model.WeakLinkReason, msg string) {
			alerts = append(alerts, model.WeakConnectionAlert{
				Connection: e,
				Source:     src,
				Target:     dst,
				Reason:     reason,
				Message:    msg,
			})
		}

		if strength <= 2 {
			emit(model.WeakLowStrength, fmt.Sprintf("%s and %s have a weak connection (strength %d)", src.Name, dst.Name, strength))
		}
		if strength >= 4 {
			_, srcSeen := recent[src.ID]
			_, dstSeen := recent[dst.ID]
			if !srcSeen && !dstSeen {
				emit(model.WeakNoRecentInteraction, fmt.Sprintf("No interaction with %s or %s in the last 90 days despite a strong connection", src.Name, dst.Name))
			}
		}
		if !e.Bidirectional {
			emit(model.WeakOneDirectional, fmt.Sprintf("Connection from %s to %s is only recorded one way", src.Name, dst.Name))
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return weakReasonRank[alerts[i].Reason] < weakReasonRank[alerts[j].Reason]
	})
	return alerts
}

// contactsSeenBetween collects contacts with at least one interaction in
// [since, asOf]. Interactions dated after asOf have not happened yet.
func contactsSeenBetween(interactions []model.Interaction, since, asOf time.Time) map[string]struct{} {
	seen := make(map[string]struct{})
	for _, in := range interactions {
		if !in.Date.Before(since) && !in.Date.After(asOf) {
			seen[in.ContactID] = struct{}{}
		}
	}
	return seen
}

// activity counts interactions in the window ending at asOf (current) and in
// the window of equal length before it (prior).
type activity struct {
	current int
	prior   int
}

func windowActivity(interactions []model.Interaction, asOf time.Time) (total activity, perContact map[string]activity) {
	currentStart := asOf.Add(-ActivityWindow)
	priorStart := asOf.Add(-2 * ActivityWindow)

	perContact = make(map[string]activity)
	for _, in := range interactions {
		if in.Date.After(asOf) || !in.Date.After(priorStart) {
			continue
		}
		a := perContact[in.ContactID]
		if in.Date.After(currentStart) {
			a.current++
			total.current++
		} else {
			a.prior++
			total.prior++
		}
		perContact[in.ContactID] = a
	}
	return total, perContact
}
