// Package users implements the local-mode credential store: the full list of
// user records serialized as JSON under a single key of the session store.
// Reads and writes are whole-list, read-modify-write with no isolation; when
// two contexts update the same account the later write wins.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/shutterpro/internal/client/models"
	"github.com/dmitrijs2005/shutterpro/internal/client/repositories/sessionstore"
	"github.com/dmitrijs2005/shutterpro/internal/common"
)

// StorageKey is the session-store key holding the serialized user list.
const StorageKey = "users"

// Repository is the read/write contract the session layer needs from the
// credential store in local mode.
type Repository interface {
	List(ctx context.Context) ([]models.UserRecord, error)
	SaveAll(ctx context.Context, list []models.UserRecord) error
	FindByEmail(ctx context.Context, email string) (*models.UserRecord, error)
}

// LocalRepository stores user records in the client's key-value store.
type LocalRepository struct {
	kv sessionstore.Repository
}

// NewLocalRepository returns a LocalRepository over the given key-value store.
func NewLocalRepository(kv sessionstore.Repository) *LocalRepository {
	return &LocalRepository{kv: kv}
}

// List returns every stored user record. An absent key yields an empty list.
func (r *LocalRepository) List(ctx context.Context) ([]models.UserRecord, error) {
	raw, err := r.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if raw == nil {
		return []models.UserRecord{}, nil
	}

	var list []models.UserRecord
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return list, nil
}

// SaveAll replaces the stored list with the given one.
func (r *LocalRepository) SaveAll(ctx context.Context, list []models.UserRecord) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	if err := r.kv.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

// FindByEmail locates a record by email (case-insensitive).
// Returns common.ErrorNotFound when no record matches.
func (r *LocalRepository) FindByEmail(ctx context.Context, email string) (*models.UserRecord, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if strings.EqualFold(list[i].Email, email) {
			u := list[i]
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}
