package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agenthands/kinship/internal/core/graph"
	"github.com/agenthands/kinship/internal/core/model"
)

// Score contributions for a candidate introduction.
const (
	scoreSharedTag        = 15
	scoreSameCompany      = 25
	scoreSameCity         = 20
	scoreSameCountry      = 10
	scoreSharedInterest   = 10
	scoreSharedGoal       = 12
	scoreSameRelationship = 5
	scoreMutualConnection = 20

	// A pair with a single reason must score at least this much to be suggested.
	minSingleReasonScore = 25
)

// SuggestIntroductions scores every pair of contacts that are not yet
// connected in either direction and returns the best candidates, highest
// score first. A limit <= 0 means DefaultIntroductionLimit.
//
// Every pair is compared, so cost grows quadratically with the address book.
func SuggestIntroductions(contacts []model.Contact, connections []model.ContactConnection, limit int) []model.IntroductionSuggestion {
	if limit <= 0 {
		limit = DefaultIntroductionLimit
	}

	people := uniqueContacts(contacts)
	existing := graph.EdgePairs(connections)
	g := graph.Build(connections)

	suggestions := []model.IntroductionSuggestion{}
	for i := 0; i < len(people); i++ {
		for j := i + 1; j < len(people); j++ {
			a, b := people[i], people[j]
			if _, ok := existing[graph.PairKey(a.ID, b.ID)]; ok {
				continue
			}
			score, reasons := scorePair(a, b, g)
			if len(reasons) >= 2 || score >= minSingleReasonScore {
				suggestions = append(suggestions, model.IntroductionSuggestion{
					ContactA: a,
					ContactB: b,
					Score:    score,
					Reasons:  reasons,
				})
			}
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}

func scorePair(a, b model.Contact, g *graph.Graph) (int, []string) {
	score := 0
	var reasons []string

	if tags := intersect(a.Tags, b.Tags); len(tags) > 0 {
		score += scoreSharedTag * len(tags)
		reasons = append(reasons, "Shared tags: "+strings.Join(tags, ", "))
	}
	if sameNonEmpty(a.Company, b.Company) {
		score += scoreSameCompany
		reasons = append(reasons, "Both work at "+a.Company)
	}
	switch {
	case sameNonEmpty(a.City, b.City):
		score += scoreSameCity
		reasons = append(reasons, "Both based in "+a.City)
	case sameNonEmpty(a.Country, b.Country):
		score += scoreSameCountry
		reasons = append(reasons, "Both based in "+a.Country)
	}
	if interests := intersect(a.PersonalInterests, b.PersonalInterests); len(interests) > 0 {
		score += scoreSharedInterest * len(interests)
		reasons = append(reasons, "Shared interests: "+strings.Join(interests, ", "))
	}
	if goals := intersect(a.ProfessionalGoals, b.ProfessionalGoals); len(goals) > 0 {
		score += scoreSharedGoal * len(goals)
		reasons = append(reasons, "Shared goals: "+strings.Join(goals, ", "))
	}
	if sameNonEmpty(a.RelationshipType, b.RelationshipType) {
		score += scoreSameRelationship
		reasons = append(reasons, "Both are "+a.RelationshipType+" contacts")
	}

	mutual := 0
	for id := range g.Neighbors(a.ID) {
		if _, ok := g.Neighbors(b.ID)[id]; ok {
			mutual++
		}
	}
	if mutual > 0 {
		score += scoreMutualConnection * mutual
		if mutual == 1 {
			reasons = append(reasons, "1 mutual connection")
		} else {
			reasons = append(reasons, fmt.Sprintf("%d mutual connections", mutual))
		}
	}

	return score, reasons
}

func sameNonEmpty(a, b string) bool {
	return a != "" && a == b
}

// intersect returns the distinct values of a that also appear in b, in a's order.
func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{})
	for _, v := range a {
		if _, ok := inB[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
