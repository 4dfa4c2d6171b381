package scheduler

import (
	"github.com/rs/zerolog"
)

// Checkpointer truncates a SQLite WAL file
type Checkpointer interface {
	WALCheckpoint(mode string) error
	Name() string
}

// WALCheckpointJob keeps the storage WAL from growing unbounded
type WALCheckpointJob struct {
	log zerolog.Logger
	db  Checkpointer
}

// NewWALCheckpointJob creates a new WALCheckpointJob
func NewWALCheckpointJob(db Checkpointer, log zerolog.Logger) *WALCheckpointJob {
	return &WALCheckpointJob{
		log: log.With().Str("job", "wal_checkpoint").Logger(),
		db:  db,
	}
}

// Name returns the job name
func (j *WALCheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run executes a TRUNCATE checkpoint
func (j *WALCheckpointJob) Run() error {
	if err := j.db.WALCheckpoint("TRUNCATE"); err != nil {
		return err
	}
	j.log.Debug().Str("database", j.db.Name()).Msg("WAL checkpoint completed")
	return nil
}
