// Package scheduler runs housekeeping jobs on cron schedules.
package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is one unit of housekeeping. Name is used as the log field.
type Job interface {
	Run() error
	Name() string
}

// Scheduler wraps a seconds-resolution cron. A job that panics is recovered,
// and a job still running when its next tick arrives skips that tick.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

func New(log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log: log,
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("jobs", s.Entries()).Msg("Scheduler started")
}

// Stop blocks until in-flight jobs return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

// AddJob schedules job with a six-field spec (seconds first) or a descriptor
// such as "@hourly" or "@every 30s".
func (s *Scheduler) AddJob(spec string, job Job) error {
	if _, err := s.cron.AddFunc(spec, func() { _ = s.run(job) }); err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name(), err)
	}
	s.log.Info().Str("schedule", spec).Str("job", job.Name()).Msg("Job registered")
	return nil
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// RunNow runs job on the calling goroutine, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	return s.run(job)
}

func (s *Scheduler) run(job Job) error {
	start := time.Now()
	err := job.Run()
	ev := s.log.Debug()
	if err != nil {
		ev = s.log.Error().Err(err)
	}
	ev.Str("job", job.Name()).Dur("took", time.Since(start)).Msg("Job finished")
	return err
}

// cronLogger routes cron's own messages to zerolog. Its chatter goes to debug.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
