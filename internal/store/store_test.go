package store

import (
	"context"
	"testing"
	"time"

	"github.com/agenthands/kinship/internal/config"
	"github.com/agenthands/kinship/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day1 = time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)

func sampleSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Contacts: []model.Contact{
			{ID: "a", Name: "Ada", Company: "Acme", City: "Berlin", Country: "DE",
				Tags: []string{"investor", "ai"}, PersonalInterests: []string{"chess"},
				RelationshipType: "friend", Rating: model.IntPtr(5), InfluenceLevel: model.IntPtr(7)},
			{ID: "b", Name: "Bo", Country: "FR"},
			{ID: "c", Name: "Cy", ProfessionalGoals: []string{"raise"}},
		},
		Connections: []model.ContactConnection{
			{ID: "ab", SourceContactID: "a", TargetContactID: "b", ConnectionType: model.ConnectionWorksWith, Strength: model.IntPtr(4), Bidirectional: true},
			{SourceContactID: "b", TargetContactID: "c", ConnectionType: model.ConnectionKnows},
		},
		Interactions: []model.Interaction{
			{ID: "i1", ContactID: "a", Date: day1, Type: "call"},
		},
		Favors: []model.Favor{
			{ContactID: "b", Direction: model.FavorGiven, Date: day1.Add(time.Hour)},
		},
	}
}

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	_, err := s.Snapshot(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	in := sampleSnapshot()
	require.NoError(t, s.Import(ctx, "owner-1", in))

	got, err := s.Snapshot(ctx, "owner-1")
	require.NoError(t, err)

	assert.Equal(t, in.Contacts, got.Contacts)
	require.Len(t, got.Connections, 2)
	assert.Equal(t, in.Connections[0], got.Connections[0])
	assert.NotEmpty(t, got.Connections[1].ID, "missing ids are generated on import")
	assert.Nil(t, got.Connections[1].Strength)
	require.Len(t, got.Interactions, 1)
	assert.True(t, day1.Equal(got.Interactions[0].Date))
	require.Len(t, got.Favors, 1)
	assert.Equal(t, model.FavorGiven, got.Favors[0].Direction)
	assert.Empty(t, in.Connections[1].ID, "import must not mutate the caller's snapshot")

	// Mutating the returned copy does not leak into the store.
	got.Contacts[0].Tags[0] = "changed"
	again, err := s.Snapshot(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "investor", again.Contacts[0].Tags[0])

	// Import replaces rather than appends.
	require.NoError(t, s.Import(ctx, "owner-1", &model.Snapshot{Contacts: []model.Contact{{ID: "z", Name: "Zed"}}}))
	replaced, err := s.Snapshot(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, []model.Contact{{ID: "z", Name: "Zed"}}, replaced.Contacts)
	assert.Empty(t, replaced.Connections)

	require.NoError(t, s.Import(ctx, "owner-0", sampleSnapshot()))
	owners, err := s.Owners(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"owner-0", "owner-1"}, owners)

	assert.ErrorIs(t, s.Import(ctx, " ", sampleSnapshot()), ErrInvalid)
	assert.ErrorIs(t, s.Import(ctx, "owner-2", nil), ErrInvalid)
	assert.ErrorIs(t, s.Import(ctx, "owner-2", &model.Snapshot{Contacts: []model.Contact{{Name: "no id"}}}), ErrInvalid)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(":memory:", nil)
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/kinship.db"
	ctx := context.Background()

	s, err := NewSQLiteStore(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Import(ctx, "owner", sampleSnapshot()))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path, nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Snapshot(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, got.Contacts, 3)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Backend: "memory"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, config.StoreConfig{Backend: "SQLite", SQLitePath: ":memory:"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, config.StoreConfig{Backend: "redis"}, nil)
	assert.Error(t, err)
}
