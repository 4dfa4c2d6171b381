// Package storage implements the client-side "local storage": a small string key/value map per
// scope, where a scope is a browser session (web) or a terminal profile (tui).
// Each scope is persisted as one msgpack blob in the storage database.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/nwcreek/internal/utils"
)

// Well-known keys
const (
	TokenKey = "token" // Bearer token for the backend API
	ThemeKey = "theme" // "dark" or "light"
)

// Repository handles storage_scopes database operations.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time

	// Striped locks serialize read-modify-write cycles per scope.
	// Web sessions and TUI profiles never share a scope across processes.
	locks [32]sync.Mutex
	// loaded runs between the read and the write of Update (tests only).
	loaded func(scope string)
}

// NewRepository creates a new storage repository.
//
// Parameters:
//   - db: Database connection with the storage schema applied
//   - log: Structured logger
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "storage").Logger(),
		now: time.Now,
	}
}

// Load returns the key/value map of a scope.
// A scope that was never written returns an empty map, not an error.
func (r *Repository) Load(scope string) (map[string]string, error) {
	var blob []byte
	err := r.db.QueryRow("SELECT data FROM storage_scopes WHERE scope = ?", scope).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scope %s: %w", scope, err)
	}

	values := map[string]string{}
	if err := msgpack.Unmarshal(blob, &values); err != nil {
		return nil, fmt.Errorf("failed to decode scope %s: %w", scope, err)
	}
	return values, nil
}

// Save replaces the key/value map of a scope.
func (r *Repository) Save(scope string, values map[string]string) error {
	if values == nil {
		values = map[string]string{}
	}
	blob, err := msgpack.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode scope %s: %w", scope, err)
	}

	now := r.now().Unix()
	_, err = r.db.Exec(`
		INSERT INTO storage_scopes (scope, data, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(scope) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, scope, blob, now, now)
	if err != nil {
		return fmt.Errorf("failed to save scope %s: %w", scope, err)
	}
	return nil
}

// Update applies fn to the values of a scope and saves them when fn reports a
// change. Concurrent updates of the same scope run one after another, so a
// removal is never undone by a write based on an older read.
func (r *Repository) Update(scope string, fn func(values map[string]string) bool) error {
	mu := r.lockFor(scope)
	mu.Lock()
	defer mu.Unlock()

	values, err := r.Load(scope)
	if err != nil {
		return err
	}
	if r.loaded != nil {
		r.loaded(scope)
	}
	if !fn(values) {
		return nil
	}
	return r.Save(scope, values)
}

func (r *Repository) lockFor(scope string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(scope))
	return &r.locks[h.Sum32()%uint32(len(r.locks))]
}

// Touch marks a scope as recently used without changing its values.
func (r *Repository) Touch(scope string) error {
	_, err := r.db.Exec("UPDATE storage_scopes SET updated_at = ? WHERE scope = ?", r.now().Unix(), scope)
	if err != nil {
		return fmt.Errorf("failed to touch scope %s: %w", scope, err)
	}
	return nil
}

// Delete removes a scope entirely.
func (r *Repository) Delete(scope string) error {
	if _, err := r.db.Exec("DELETE FROM storage_scopes WHERE scope = ?", scope); err != nil {
		return fmt.Errorf("failed to delete scope %s: %w", scope, err)
	}
	return nil
}

// PurgeIdle deletes every scope not updated within maxIdle.
//
// Returns:
//   - int64: Number of scopes removed
//   - error: Error if the delete fails
func (r *Repository) PurgeIdle(maxIdle time.Duration) (int64, error) {
	cutoff := r.now().Add(-maxIdle).Unix()
	done := utils.MeasureDBQuery("purge_idle_scopes", r.log)
	res, err := r.db.Exec("DELETE FROM storage_scopes WHERE updated_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge idle scopes: %w", err)
	}
	n, _ := res.RowsAffected()
	done(n)
	if n > 0 {
		r.log.Info().Int64("removed", n).Dur("max_idle", maxIdle).Msg("Purged idle storage scopes")
	}
	return n, nil
}

// Scope returns the Store for one scope.
func (r *Repository) Scope(name string) *Scoped {
	return &Scoped{repo: r, scope: name}
}
