package services

import (
	"context"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// IngestScheduler triggers smart ingestion runs on a cron schedule. Ticks
// that fire while a run is still in progress are skipped.
type IngestScheduler struct {
	cron     *cron.Cron
	ingestor *Ingestor
}

func NewIngestScheduler(spec string, ingestor *Ingestor) (*IngestScheduler, error) {

	s := &IngestScheduler{
		cron:     cron.New(),
		ingestor: ingestor,
	}

	_, err := s.cron.AddFunc(spec, s.runSmartIngestion)
	if err != nil {
		return nil, err
	}

	s.cron.Start()
	log.Infof("ingestion scheduler started with spec %q", spec)
	return s, nil
}

func (s *IngestScheduler) Stop() {
	s.cron.Stop()
}

func (s *IngestScheduler) runSmartIngestion() {
	_, err := s.ingestor.RunSmart(context.Background())
	if errors.Is(err, ErrRunInProgress) {
		log.Warn("scheduled ingestion skipped: previous run still in progress")
	}
}
