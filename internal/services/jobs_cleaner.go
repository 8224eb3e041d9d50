package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type JobCleanupRepository interface {
	RemoveOldJobs(ctx context.Context, expirationTime time.Time) (int64, error)
}

// JobsCleaner purges postings whose scraped_at is older than the configured
// expiration. Deletion is an administrative action outside the ingestion
// pipeline itself.
type JobsCleaner struct {
	jobs                 JobCleanupRepository
	cron                 *cron.Cron
	expirationTimeInDays int
}

func NewJobsCleaner(jobs JobCleanupRepository, expirationInDays int) (*JobsCleaner, error) {

	if expirationInDays <= 0 {
		return nil, errors.New("expiration in days must be greater than zero")
	}

	jc := &JobsCleaner{
		jobs:                 jobs,
		cron:                 cron.New(),
		expirationTimeInDays: expirationInDays,
	}

	_, err := jc.cron.AddFunc("0 0 * * *", jc.cleanOldJobs)
	if err != nil {
		return nil, err
	}

	jc.cron.Start()
	log.Infof("jobs cleaner started, expiration in days: %d", jc.expirationTimeInDays)
	return jc, nil
}

func (jc *JobsCleaner) Stop() {
	jc.cron.Stop()
}

func (jc *JobsCleaner) cleanOldJobs() {
	expirationTime := time.Now().Add(-time.Duration(jc.expirationTimeInDays) * 24 * time.Hour)
	rowsAffected, err := jc.jobs.RemoveOldJobs(context.Background(), expirationTime)
	if err != nil {
		log.Errorf("Failed to clean old jobs: %v", err)
	} else {
		log.Infof("Old jobs were cleaned at %v, affected rows: %v", time.Now(), rowsAffected)
	}
}
