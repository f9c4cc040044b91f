// Package storage is the persistent key-value store behind the session.
// Values are JSON-encoded and namespaced by a prefix. Failures never reach
// the caller as errors: writes report false, reads report absence, and the
// cause is logged.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/dmitrijs2005/gophadmin/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophadmin/internal/dbx"
	"github.com/dmitrijs2005/gophadmin/internal/logging"
)

// Key names a value the application persists.
type Key string

const (
	KeyAuthToken          Key = "auth_token"
	KeyUserData           Key = "user_data"
	KeyRefreshToken       Key = "refresh_token"
	KeyAuthTokenExpiresAt Key = "auth_token_expires_at"
)

// AppKeys is every key Clear removes.
var AppKeys = []Key{KeyAuthToken, KeyUserData, KeyRefreshToken, KeyAuthTokenExpiresAt}

type Store struct {
	db     *sql.DB
	repo   kv.Repository
	prefix string
	log    logging.Logger
}

func New(db *sql.DB, prefix string, log logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		db:     db,
		repo:   kv.NewSQLiteRepository(db),
		prefix: prefix,
		log:    log.With("component", "storage"),
	}
}

func (s *Store) name(key Key) string {
	return s.prefix + string(key)
}

// Set stores value under key and reports whether it was persisted.
func (s *Store) Set(ctx context.Context, key Key, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.Error(ctx, "encode value", "key", key, "error", err)
		return false
	}
	if err := s.repo.Set(ctx, s.name(key), data); err != nil {
		s.log.Error(ctx, "persist value", "key", key, "error", err)
		return false
	}
	return true
}

// Load decodes the value stored under key into dst. It reports false when
// the key is absent, unreadable or does not decode; dst is then untouched.
func (s *Store) Load(ctx context.Context, key Key, dst any) bool {
	data, err := s.repo.Get(ctx, s.name(key))
	if err != nil {
		s.log.Error(ctx, "read value", "key", key, "error", err)
		return false
	}
	if data == nil {
		return false
	}
	if !json.Valid(data) {
		s.log.Warn(ctx, "corrupt value treated as absent", "key", key)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Warn(ctx, "value does not decode, treated as absent", "key", key, "error", err)
		return false
	}
	return true
}

// Loader is anything with the Load method of Store.
type Loader interface {
	Load(ctx context.Context, key Key, dst any) bool
}

// Get is the typed form of Load.
func Get[T any](ctx context.Context, s Loader, key Key) (T, bool) {
	var v T
	if !s.Load(ctx, key, &v) {
		var zero T
		return zero, false
	}
	return v, true
}

// Has reports whether anything is stored under key, decodable or not.
func (s *Store) Has(ctx context.Context, key Key) bool {
	data, err := s.repo.Get(ctx, s.name(key))
	if err != nil {
		s.log.Error(ctx, "read value", "key", key, "error", err)
		return false
	}
	return data != nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key Key) {
	if err := s.repo.Delete(ctx, s.name(key)); err != nil {
		s.log.Error(ctx, "remove value", "key", key, "error", err)
	}
}

// Clear removes every application key in one transaction. Rows written by
// anything else under the same database survive.
func (s *Store) Clear(ctx context.Context) {
	names := make([]string, 0, len(AppKeys))
	for _, k := range AppKeys {
		names = append(names, s.name(k))
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return kv.NewSQLiteRepository(tx).DeleteMany(ctx, names)
	})
	if err != nil {
		s.log.Error(ctx, "clear application keys", "error", err)
	}
}
