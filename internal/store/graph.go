package store

import (
	"context"
	"fmt"
	"time"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/agenthands/kinship/internal/driver"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// GraphStore keeps contacts as :Contact nodes joined by :CONNECTED
// relationships, with interactions and favors as standalone nodes.
//
// Connections whose endpoints are not among the owner's contacts cannot be
// expressed as relationships and are dropped on import.
type GraphStore struct {
	Driver driver.GraphDriver
	logger *zap.Logger
}

func NewGraphStore(d driver.GraphDriver, logger *zap.Logger) *GraphStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphStore{Driver: d, logger: logger}
}

func (s *GraphStore) Close() error {
	return s.Driver.Close(context.Background())
}

func (s *GraphStore) Import(ctx context.Context, ownerID string, snap *model.Snapshot) error {
	prepared, err := prepare(ownerID, snap)
	if err != nil {
		return err
	}

	contacts := make([]map[string]interface{}, 0, len(prepared.Contacts))
	for i, c := range prepared.Contacts {
		contacts = append(contacts, map[string]interface{}{
			"position":           i,
			"id":                 c.ID,
			"name":               c.Name,
			"company":            c.Company,
			"city":               c.City,
			"country":            c.Country,
			"tags":               orEmpty(c.Tags),
			"personal_interests": orEmpty(c.PersonalInterests),
			"professional_goals": orEmpty(c.ProfessionalGoals),
			"relationship_type":  c.RelationshipType,
			"rating":             optionalInt(c.Rating),
			"influence_level":    optionalInt(c.InfluenceLevel),
		})
	}

	connections := make([]map[string]interface{}, 0, len(prepared.Connections))
	for i, e := range prepared.Connections {
		connections = append(connections, map[string]interface{}{
			"position":          i,
			"id":                e.ID,
			"source_contact_id": e.SourceContactID,
			"target_contact_id": e.TargetContactID,
			"connection_type":   string(e.ConnectionType),
			"strength":          optionalInt(e.Strength),
			"bidirectional":     e.Bidirectional,
		})
	}

	interactions := make([]map[string]interface{}, 0, len(prepared.Interactions))
	for i, in := range prepared.Interactions {
		interactions = append(interactions, map[string]interface{}{
			"position":   i,
			"id":         in.ID,
			"contact_id": in.ContactID,
			"date":       formatTime(in.Date),
			"type":       in.Type,
		})
	}

	favors := make([]map[string]interface{}, 0, len(prepared.Favors))
	for i, f := range prepared.Favors {
		favors = append(favors, map[string]interface{}{
			"position":   i,
			"id":         f.ID,
			"contact_id": f.ContactID,
			"direction":  string(f.Direction),
			"date":       formatTime(f.Date),
		})
	}

	// The clear and every batch share one transaction so a failed import
	// leaves the previous snapshot in place.
	statements := []driver.Statement{
		{Query: driver.DeleteOwnerQuery, Params: map[string]interface{}{"owner_id": ownerID}},
	}
	batches := []struct {
		query string
		key   string
		rows  []map[string]interface{}
	}{
		{driver.SaveContactsQuery, "contacts", contacts},
		{driver.SaveConnectionsQuery, "connections", connections},
		{driver.SaveInteractionsQuery, "interactions", interactions},
		{driver.SaveFavorsQuery, "favors", favors},
	}
	for _, b := range batches {
		if len(b.rows) == 0 {
			continue
		}
		statements = append(statements, driver.Statement{
			Query:  b.query,
			Params: map[string]interface{}{"owner_id": ownerID, b.key: b.rows},
		})
	}
	if err := s.Driver.ExecuteWrite(ctx, statements); err != nil {
		return fmt.Errorf("failed to import snapshot for owner %s: %w", ownerID, err)
	}

	s.logger.Debug("snapshot imported into graph",
		zap.String("owner_id", ownerID),
		zap.Int("contacts", len(contacts)),
		zap.Int("connections", len(connections)),
	)
	return nil
}

func (s *GraphStore) Snapshot(ctx context.Context, ownerID string) (*model.Snapshot, error) {
	params := map[string]interface{}{"owner_id": ownerID}
	snap := &model.Snapshot{}

	res, err := s.Driver.ExecuteQuery(ctx, driver.GetContactsQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	for _, rec := range res.Records {
		snap.Contacts = append(snap.Contacts, model.Contact{
			ID:                recString(rec, "id"),
			Name:              recString(rec, "name"),
			Company:           recString(rec, "company"),
			City:              recString(rec, "city"),
			Country:           recString(rec, "country"),
			Tags:              recStrings(rec, "tags"),
			PersonalInterests: recStrings(rec, "personal_interests"),
			ProfessionalGoals: recStrings(rec, "professional_goals"),
			RelationshipType:  recString(rec, "relationship_type"),
			Rating:            recInt(rec, "rating"),
			InfluenceLevel:    recInt(rec, "influence_level"),
		})
	}
	if len(snap.Contacts) == 0 {
		return nil, ErrNotFound
	}

	res, err = s.Driver.ExecuteQuery(ctx, driver.GetConnectionsQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load connections: %w", err)
	}
	for _, rec := range res.Records {
		bidirectional, _ := get(rec, "bidirectional").(bool)
		snap.Connections = append(snap.Connections, model.ContactConnection{
			ID:              recString(rec, "id"),
			SourceContactID: recString(rec, "source_contact_id"),
			TargetContactID: recString(rec, "target_contact_id"),
			ConnectionType:  model.ConnectionType(recString(rec, "connection_type")),
			Strength:        recInt(rec, "strength"),
			Bidirectional:   bidirectional,
		})
	}

	res, err = s.Driver.ExecuteQuery(ctx, driver.GetInteractionsQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load interactions: %w", err)
	}
	for _, rec := range res.Records {
		date, err := recTime(rec, "date")
		if err != nil {
			return nil, err
		}
		snap.Interactions = append(snap.Interactions, model.Interaction{
			ID:        recString(rec, "id"),
			ContactID: recString(rec, "contact_id"),
			Date:      date,
			Type:      recString(rec, "type"),
		})
	}

	res, err = s.Driver.ExecuteQuery(ctx, driver.GetFavorsQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load favors: %w", err)
	}
	for _, rec := range res.Records {
		date, err := recTime(rec, "date")
		if err != nil {
			return nil, err
		}
		snap.Favors = append(snap.Favors, model.Favor{
			ID:        recString(rec, "id"),
			ContactID: recString(rec, "contact_id"),
			Direction: model.FavorDirection(recString(rec, "direction")),
			Date:      date,
		})
	}

	return snap, nil
}

func (s *GraphStore) Owners(ctx context.Context) ([]string, error) {
	res, err := s.Driver.ExecuteQuery(ctx, driver.GetOwnersQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	owners := make([]string, 0, len(res.Records))
	for _, rec := range res.Records {
		owners = append(owners, recString(rec, "owner_id"))
	}
	return owners, nil
}

func get(rec *neo4j.Record, key string) interface{} {
	v, _ := rec.Get(key)
	return v
}

func recString(rec *neo4j.Record, key string) string {
	s, _ := get(rec, key).(string)
	return s
}

func recInt(rec *neo4j.Record, key string) *int {
	switch v := get(rec, key).(type) {
	case int64:
		n := int(v)
		return &n
	case int:
		return &v
	default:
		return nil
	}
}

func recStrings(rec *neo4j.Record, key string) []string {
	switch v := get(rec, key).(type) {
	case []string:
		if len(v) == 0 {
			return nil
		}
		return v
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func recTime(rec *neo4j.Record, key string) (time.Time, error) {
	switch v := get(rec, key).(type) {
	case time.Time:
		return v, nil
	case string:
		return parseTime(v)
	default:
		return time.Time{}, fmt.Errorf("record field %s has unexpected type %T", key, v)
	}
}

func optionalInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return int64(*p)
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
