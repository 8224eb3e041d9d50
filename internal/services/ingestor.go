package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/talentsync/job-ingest/internal/clients/jsearch"
	"github.com/talentsync/job-ingest/internal/domain/models"
	"github.com/talentsync/job-ingest/internal/events"
	"github.com/talentsync/job-ingest/internal/logger"
	"github.com/talentsync/job-ingest/internal/metrics"
)

type providerClient interface {
	Search(ctx context.Context, params jsearch.SearchParameters) ([]models.Job, error)
}

type jobRepository interface {
	Upsert(ctx context.Context, job models.Job, policy models.MergePolicy) (bool, error)
}

type skillEnricher interface {
	Enrich(ctx context.Context, job *models.Job)
}

type RunState int32

const (
	StateIdle RunState = iota
	StateRunning
	StateCompleted
)

func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// RunSummary aggregates per-record outcomes of one ingestion run. A run
// always completes; individual failures are counted, not fatal.
type RunSummary struct {
	Strategy   string    `json:"strategy"`
	Inserted   int       `json:"inserted"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

var ErrRunInProgress = errors.New("ingestion run already in progress")

// Ingestor walks planned (keyword, location) combinations, pacing between
// provider calls, and upserts every fetched posting. Runs are serialized:
// triggering while a run is in progress returns ErrRunInProgress.
type Ingestor struct {
	bus      EventBus.Bus
	provider providerClient
	jobs     jobRepository
	enricher skillEnricher
	planner  *QueryPlanner
	pacer    *Pacer
	policy   models.MergePolicy

	busy  atomic.Bool
	state atomic.Int32

	mu          sync.Mutex
	lastSummary *RunSummary
}

func NewIngestor(bus EventBus.Bus, provider providerClient, jobs jobRepository,
	planner *QueryPlanner, pacer *Pacer, policy models.MergePolicy) *Ingestor {

	return &Ingestor{
		bus:      bus,
		provider: provider,
		jobs:     jobs,
		planner:  planner,
		pacer:    pacer,
		policy:   policy,
	}
}

// SetSkillEnricher enables AI skill enrichment for postings that carry a
// description but no provider-reported skills.
func (i *Ingestor) SetSkillEnricher(enricher skillEnricher) {
	i.enricher = enricher
}

// RunFull visits the entire keyword x location cross product.
func (i *Ingestor) RunFull(ctx context.Context) (*RunSummary, error) {
	return i.run(ctx, "full", i.visitExhaustive)
}

// RunSmart visits the priority combinations first, then a random sample of
// the remaining cross product, to cap provider calls per run.
func (i *Ingestor) RunSmart(ctx context.Context) (*RunSummary, error) {
	return i.run(ctx, "smart", i.visitPriorityAndSample)
}

func (i *Ingestor) State() RunState {
	return RunState(i.state.Load())
}

// Busy reports whether a run is currently in progress. Triggering a run while
// busy still fails with ErrRunInProgress; this is only a cheap pre-check.
func (i *Ingestor) Busy() bool {
	return i.busy.Load()
}

func (i *Ingestor) LastSummary() *RunSummary {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.lastSummary == nil {
		return nil
	}
	summary := *i.lastSummary
	return &summary
}

func (i *Ingestor) run(ctx context.Context, strategy string,
	visit func(ctx context.Context, summary *RunSummary)) (*RunSummary, error) {

	if !i.busy.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer i.busy.Store(false)

	i.state.Store(int32(StateRunning))
	summary := &RunSummary{Strategy: strategy, StartedAt: time.Now()}

	log.Infof("starting %v ingestion run", strategy)

	visit(ctx, summary)

	summary.FinishedAt = time.Now()
	i.state.Store(int32(StateCompleted))

	i.mu.Lock()
	i.lastSummary = summary
	i.mu.Unlock()

	duration := summary.FinishedAt.Sub(summary.StartedAt)
	metrics.RunDuration.Observe(duration.Seconds())

	i.bus.Publish(events.RunCompletedTopic, events.RunCompleted{
		Strategy: strategy,
		Inserted: summary.Inserted,
		Updated:  summary.Updated,
		Skipped:  summary.Skipped,
		Failed:   summary.Failed,
	})

	log.Infof("%v ingestion run ended after %v: inserted %v, updated %v, skipped %v, failed %v",
		strategy, duration, summary.Inserted, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (i *Ingestor) visitExhaustive(ctx context.Context, summary *RunSummary) {

	for _, combination := range i.planner.Exhaustive() {

		if ctx.Err() != nil {
			log.Infof("ingestion run canceled: %v", ctx.Err())
			return
		}

		i.fetchAndStore(ctx, combination, "", summary)

		if err := i.pacer.WaitShort(ctx); err != nil {
			log.Infof("ingestion run canceled: %v", err)
			return
		}
	}
}

func (i *Ingestor) visitPriorityAndSample(ctx context.Context, summary *RunSummary) {

	priority, sampled := i.planner.PriorityAndSample()

	for _, combination := range priority {

		if ctx.Err() != nil {
			log.Infof("ingestion run canceled: %v", ctx.Err())
			return
		}

		i.fetchAndStore(ctx, combination, "us", summary)

		if err := i.pacer.WaitLong(ctx); err != nil {
			log.Infof("ingestion run canceled: %v", err)
			return
		}
	}

	for _, combination := range sampled {

		if ctx.Err() != nil {
			log.Infof("ingestion run canceled: %v", ctx.Err())
			return
		}

		i.fetchAndStore(ctx, combination, "", summary)

		if err := i.pacer.WaitShort(ctx); err != nil {
			log.Infof("ingestion run canceled: %v", err)
			return
		}
	}
}

// fetchAndStore issues one provider call and upserts every returned record.
// A provider error degrades to zero results for this combination and never
// aborts the run.
func (i *Ingestor) fetchAndStore(ctx context.Context, combination models.Combination,
	country string, summary *RunSummary) {

	params := jsearch.SearchParameters{
		Keyword:    combination.Keyword,
		Location:   combination.Location,
		Page:       1,
		DatePosted: jsearch.PostedThisWeek,
		Country:    country,
	}

	start := time.Now()
	jobs, err := i.provider.Search(ctx, params)
	metrics.StepDuration.WithLabelValues("provider_fetch").Observe(time.Since(start).Seconds())

	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeProviderApi).
			Errorf("failed to fetch jobs for %q in %q: %v", combination.Keyword, combination.Location, err)
		return
	}

	log.Infof("found %v jobs for %q in %q", len(jobs), combination.Keyword, combination.Location)

	for _, job := range jobs {
		i.storeJob(ctx, job, summary)
	}
}

func (i *Ingestor) storeJob(ctx context.Context, job models.Job, summary *RunSummary) {

	if job.ExternalID == "" {
		summary.Skipped++
		metrics.OutcomesCounter.WithLabelValues("skipped").Inc()
		log.Warnf("skipping job %q at %q: missing external id", job.Title, job.Company)
		return
	}

	if i.enricher != nil {
		i.enricher.Enrich(ctx, &job)
	}

	start := time.Now()
	created, err := i.jobs.Upsert(ctx, job, i.policy)
	metrics.StepDuration.WithLabelValues("store_write").Observe(time.Since(start).Seconds())

	if err != nil {
		summary.Failed++
		metrics.OutcomesCounter.WithLabelValues("failed").Inc()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to upsert job %v: %v", job.ExternalID, err)
		return
	}

	if created {
		summary.Inserted++
		metrics.OutcomesCounter.WithLabelValues("inserted").Inc()
		i.bus.Publish(events.JobDiscoveredTopic, events.JobDiscovered{Job: job})
		log.Infof("saved new job: %v at %v", job.Title, job.Company)
	} else {
		summary.Updated++
		metrics.OutcomesCounter.WithLabelValues("updated").Inc()
		log.Infof("updated job: %v at %v", job.Title, job.Company)
	}
}

// IngestCombination fetches one page for a single combination and stores the
// results, outside any planned run. Used by the live-search endpoint.
func (i *Ingestor) IngestCombination(ctx context.Context, keyword, location string, page int) ([]models.Job, error) {

	params := jsearch.SearchParameters{
		Keyword:    keyword,
		Location:   location,
		Page:       page,
		DatePosted: jsearch.PostedThisWeek,
	}

	jobs, err := i.provider.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{Strategy: "live"}
	for _, job := range jobs {
		i.storeJob(ctx, job, summary)
	}

	return jobs, nil
}
