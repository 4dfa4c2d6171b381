package scheduler

import (
	"time"

	"github.com/rs/zerolog"
)

// IdlePurger removes local-storage scopes that have been idle too long
type IdlePurger interface {
	PurgeIdle(maxIdle time.Duration) (int64, error)
}

// PurgeSessionsJob drops browser sessions idle for longer than the session TTL
type PurgeSessionsJob struct {
	log     zerolog.Logger
	storage IdlePurger
	ttl     time.Duration
}

// NewPurgeSessionsJob creates a new PurgeSessionsJob
func NewPurgeSessionsJob(storage IdlePurger, ttl time.Duration, log zerolog.Logger) *PurgeSessionsJob {
	return &PurgeSessionsJob{
		log:     log.With().Str("job", "purge_sessions").Logger(),
		storage: storage,
		ttl:     ttl,
	}
}

// Name returns the job name
func (j *PurgeSessionsJob) Name() string {
	return "purge_sessions"
}

// Run executes the purge
func (j *PurgeSessionsJob) Run() error {
	removed, err := j.storage.PurgeIdle(j.ttl)
	if err != nil {
		return err
	}
	j.log.Debug().Int64("removed", removed).Msg("Idle sessions purged")
	return nil
}
