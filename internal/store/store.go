// Package store keeps one contact-network snapshot per owner. Backends are
// interchangeable; every read returns a fresh copy the caller may keep.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agenthands/kinship/internal/core/model"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when an owner has no contacts on record.
	ErrNotFound = errors.New("owner not found")
	// ErrInvalid is returned for imports that cannot be stored at all.
	ErrInvalid = errors.New("invalid snapshot")
)

type Store interface {
	// Snapshot loads everything recorded for an owner.
	Snapshot(ctx context.Context, ownerID string) (*model.Snapshot, error)
	// Import replaces the owner's data with snap.
	Import(ctx context.Context, ownerID string, snap *model.Snapshot) error
	// Owners lists owners with at least one contact, sorted.
	Owners(ctx context.Context) ([]string, error)
	Close() error
}

// prepare validates an import and returns a copy with missing record ids filled in.
func prepare(ownerID string, snap *model.Snapshot) (*model.Snapshot, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("%w: owner id is required", ErrInvalid)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: snapshot is required", ErrInvalid)
	}

	out := snap.Clone()
	for i, c := range out.Contacts {
		if c.ID == "" {
			return nil, fmt.Errorf("%w: contact %d has no id", ErrInvalid, i)
		}
	}
	for i := range out.Connections {
		if out.Connections[i].ID == "" {
			out.Connections[i].ID = uuid.NewString()
		}
	}
	for i := range out.Interactions {
		if out.Interactions[i].ID == "" {
			out.Interactions[i].ID = uuid.NewString()
		}
	}
	for i := range out.Favors {
		if out.Favors[i].ID == "" {
			out.Favors[i].ID = uuid.NewString()
		}
	}
	return out, nil
}
