package scheduler

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// Conner exposes the underlying connection of a database
type Conner interface {
	Conn() *sql.DB
	Name() string
}

// CheckStorageJob runs SQLite's integrity check on the local storage database
type CheckStorageJob struct {
	log zerolog.Logger
	db  Conner
}

// NewCheckStorageJob creates a new CheckStorageJob
func NewCheckStorageJob(db Conner, log zerolog.Logger) *CheckStorageJob {
	return &CheckStorageJob{
		log: log.With().Str("job", "check_storage").Logger(),
		db:  db,
	}
}

// Name returns the job name
func (j *CheckStorageJob) Name() string {
	return "check_storage"
}

// Run executes PRAGMA integrity_check
func (j *CheckStorageJob) Run() error {
	var result string
	if err := j.db.Conn().QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		// Sessions can be recreated by logging in again, so this is reported, not repaired
		j.log.Error().Str("database", j.db.Name()).Str("result", result).Msg("Storage integrity check failed")
		return fmt.Errorf("database %s is corrupted: %s", j.db.Name(), result)
	}

	j.log.Debug().Str("database", j.db.Name()).Msg("Database integrity OK")
	return nil
}
