package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS contacts (
	owner_id           TEXT    NOT NULL,
	position           INTEGER NOT NULL,
	id                 TEXT    NOT NULL,
	name               TEXT    NOT NULL DEFAULT '',
	company            TEXT    NOT NULL DEFAULT '',
	city               TEXT    NOT NULL DEFAULT '',
	country            TEXT    NOT NULL DEFAULT '',
	tags               TEXT    NOT NULL DEFAULT '[]',
	personal_interests TEXT    NOT NULL DEFAULT '[]',
	professional_goals TEXT    NOT NULL DEFAULT '[]',
	relationship_type  TEXT    NOT NULL DEFAULT '',
	rating             INTEGER,
	influence_level    INTEGER,
	PRIMARY KEY (owner_id, position)
);

CREATE TABLE IF NOT EXISTS connections (
	owner_id          TEXT    NOT NULL,
	position          INTEGER NOT NULL,
	id                TEXT    NOT NULL,
	source_contact_id TEXT    NOT NULL,
	target_contact_id TEXT    NOT NULL,
	connection_type   TEXT    NOT NULL DEFAULT '',
	strength          INTEGER,
	bidirectional     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (owner_id, position)
);

CREATE TABLE IF NOT EXISTS interactions (
	owner_id   TEXT    NOT NULL,
	position   INTEGER NOT NULL,
	id         TEXT    NOT NULL,
	contact_id TEXT    NOT NULL,
	date       TEXT    NOT NULL,
	type       TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (owner_id, position)
);

CREATE TABLE IF NOT EXISTS favors (
	owner_id   TEXT    NOT NULL,
	position   INTEGER NOT NULL,
	id         TEXT    NOT NULL,
	contact_id TEXT    NOT NULL,
	direction  TEXT    NOT NULL,
	date       TEXT    NOT NULL,
	PRIMARY KEY (owner_id, position)
);
`

// SQLiteStore persists snapshots in a single SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (creating if needed) the database at dsn and applies
// the schema. Use ":memory:" for a throwaway database.
func NewSQLiteStore(dsn string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps :memory: databases alive.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout = 5000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: failed to apply schema: %w", err)
	}

	logger.Info("sqlite store ready", zap.String("dsn", dsn))
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Import(ctx context.Context, ownerID string, snap *model.Snapshot) (err error) {
	prepared, err := prepare(ownerID, snap)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: failed to begin import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"contacts", "connections", "interactions", "favors"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE owner_id = ?", ownerID); err != nil {
			return fmt.Errorf("sqlite: failed to clear %s: %w", table, err)
		}
	}

	for i, c := range prepared.Contacts {
		tags, perr := encodeList(c.Tags)
		if perr != nil {
			return perr
		}
		interests, perr := encodeList(c.PersonalInterests)
		if perr != nil {
			return perr
		}
		goals, perr := encodeList(c.ProfessionalGoals)
		if perr != nil {
			return perr
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO contacts (owner_id, position, id, name, company, city, country, tags,
				personal_interests, professional_goals, relationship_type, rating, influence_level)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ownerID, i, c.ID, c.Name, c.Company, c.City, c.Country, tags,
			interests, goals, c.RelationshipType, nullInt(c.Rating), nullInt(c.InfluenceLevel))
		if err != nil {
			return fmt.Errorf("sqlite: failed to insert contact %s: %w", c.ID, err)
		}
	}

	for i, e := range prepared.Connections {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO connections (owner_id, position, id, source_contact_id, target_contact_id,
				connection_type, strength, bidirectional)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			ownerID, i, e.ID, e.SourceContactID, e.TargetContactID,
			string(e.ConnectionType), nullInt(e.Strength), e.Bidirectional)
		if err != nil {
			return fmt.Errorf("sqlite: failed to insert connection %s: %w", e.ID, err)
		}
	}

	for i, in := range prepared.Interactions {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO interactions (owner_id, position, id, contact_id, date, type)
			VALUES (?, ?, ?, ?, ?, ?)`,
			ownerID, i, in.ID, in.ContactID, formatTime(in.Date), in.Type)
		if err != nil {
			return fmt.Errorf("sqlite: failed to insert interaction %s: %w", in.ID, err)
		}
	}

	for i, f := range prepared.Favors {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO favors (owner_id, position, id, contact_id, direction, date)
			VALUES (?, ?, ?, ?, ?, ?)`,
			ownerID, i, f.ID, f.ContactID, string(f.Direction), formatTime(f.Date))
		if err != nil {
			return fmt.Errorf("sqlite: failed to insert favor %s: %w", f.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: failed to commit import: %w", err)
	}

	s.logger.Debug("snapshot imported",
		zap.String("owner_id", ownerID),
		zap.Int("contacts", len(prepared.Contacts)),
		zap.Int("connections", len(prepared.Connections)),
	)
	return nil
}

func (s *SQLiteStore) Snapshot(ctx context.Context, ownerID string) (*model.Snapshot, error) {
	snap := &model.Snapshot{}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, company, city, country, tags, personal_interests, professional_goals,
			relationship_type, rating, influence_level
		FROM contacts WHERE owner_id = ? ORDER BY position`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query contacts: %w", err)
	}
	err = scanRows(rows, func() error {
		var (
			c                      model.Contact
			tags, interests, goals string
			rating, influence      sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Company, &c.City, &c.Country, &tags, &interests, &goals,
			&c.RelationshipType, &rating, &influence); err != nil {
			return err
		}
		var derr error
		if c.Tags, derr = decodeList(tags); derr != nil {
			return derr
		}
		if c.PersonalInterests, derr = decodeList(interests); derr != nil {
			return derr
		}
		if c.ProfessionalGoals, derr = decodeList(goals); derr != nil {
			return derr
		}
		c.Rating = intPtr(rating)
		c.InfluenceLevel = intPtr(influence)
		snap.Contacts = append(snap.Contacts, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to read contacts: %w", err)
	}
	if len(snap.Contacts) == 0 {
		return nil, ErrNotFound
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, source_contact_id, target_contact_id, connection_type, strength, bidirectional
		FROM connections WHERE owner_id = ? ORDER BY position`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query connections: %w", err)
	}
	err = scanRows(rows, func() error {
		var (
			e        model.ContactConnection
			typ      string
			strength sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.SourceContactID, &e.TargetContactID, &typ, &strength, &e.Bidirectional); err != nil {
			return err
		}
		e.ConnectionType = model.ConnectionType(typ)
		e.Strength = intPtr(strength)
		snap.Connections = append(snap.Connections, e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to read connections: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, contact_id, date, type
		FROM interactions WHERE owner_id = ? ORDER BY position`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query interactions: %w", err)
	}
	err = scanRows(rows, func() error {
		var (
			in   model.Interaction
			date string
		)
		if err := rows.Scan(&in.ID, &in.ContactID, &date, &in.Type); err != nil {
			return err
		}
		t, perr := parseTime(date)
		if perr != nil {
			return perr
		}
		in.Date = t
		snap.Interactions = append(snap.Interactions, in)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to read interactions: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `
		SELECT id, contact_id, direction, date
		FROM favors WHERE owner_id = ? ORDER BY position`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query favors: %w", err)
	}
	err = scanRows(rows, func() error {
		var (
			f               model.Favor
			direction, date string
		)
		if err := rows.Scan(&f.ID, &f.ContactID, &direction, &date); err != nil {
			return err
		}
		t, perr := parseTime(date)
		if perr != nil {
			return perr
		}
		f.Direction = model.FavorDirection(direction)
		f.Date = t
		snap.Favors = append(snap.Favors, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to read favors: %w", err)
	}

	return snap, nil
}

func (s *SQLiteStore) Owners(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT owner_id FROM contacts ORDER BY owner_id")
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query owners: %w", err)
	}

	owners := []string{}
	err = scanRows(rows, func() error {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		owners = append(owners, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to read owners: %w", err)
	}
	return owners, nil
}

// scanRows calls fn for each row and always closes rows.
func scanRows(rows *sql.Rows, fn func() error) error {
	defer rows.Close()
	for rows.Next() {
		if err := fn(); err != nil {
			return err
		}
	}
	return rows.Err()
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("sqlite: failed to encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decode list %q: %w", raw, err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}
