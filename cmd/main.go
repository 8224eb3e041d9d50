package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/samber/lo"
	"github.com/talentsync/job-ingest/internal/clients/gemini"
	"github.com/talentsync/job-ingest/internal/clients/jsearch"
	"github.com/talentsync/job-ingest/internal/config"
	"github.com/talentsync/job-ingest/internal/domain/models"
	"github.com/talentsync/job-ingest/internal/logger"
	"github.com/talentsync/job-ingest/internal/metrics"
	"github.com/talentsync/job-ingest/internal/notifier"
	"github.com/talentsync/job-ingest/internal/repositories"
	"github.com/talentsync/job-ingest/internal/server"
	"github.com/talentsync/job-ingest/internal/services"
)

func buildIngestor(ctx context.Context, cfg *config.Config, jobs *repositories.Jobs, bus EventBus.Bus) *services.Ingestor {

	providerClient := jsearch.NewClient(cfg.Provider.APIKey, cfg.Provider.Host)
	providerClient.SetRateLimit(cfg.Provider.MaxRequestsPerSecond)

	priority := lo.Map(cfg.Ingest.Priority, func(pair config.SearchPair, _ int) models.Combination {
		return models.Combination{Keyword: pair.Keyword, Location: pair.Location}
	})
	planner := services.NewQueryPlanner(cfg.Ingest.Keywords, cfg.Ingest.Locations,
		priority, cfg.Ingest.MaxSampledCombinations)

	pacer := services.NewPacer(cfg.Ingest.ShortDelay, cfg.Ingest.LongDelay)

	policy, err := models.ToMergePolicy(cfg.Ingest.MergePolicy)
	if err != nil {
		log.Fatalf("invalid merge policy: %v", err)
	}

	ingestor := services.NewIngestor(bus, providerClient, jobs, planner, pacer, policy)

	if cfg.AI.Enabled() {
		model := gemini.Model15Flash
		if cfg.AI.Model != "" {
			model = gemini.Model(cfg.AI.Model)
		}

		aiClient, err := gemini.NewClient(ctx, cfg.AI.Key, model)
		if err != nil {
			log.Fatalf("can't create AI client: %v", err)
		}
		aiClient.SetMinuteRateLimit(cfg.AI.MaxRequestsPerMinute)
		aiClient.SetDayRateLimit(cfg.AI.MaxRequestsPerDay)

		ingestor.SetSkillEnricher(services.NewSkillExtractor(aiClient))
	}

	return ingestor
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.Register()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	if err = dbContext.Migrate(); err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	jobs := repositories.NewJobsRepository(dbContext.DB)
	bus := EventBus.New()

	ingestor := buildIngestor(ctx, cfg, jobs, bus)

	if cfg.Telegram.Enabled() {
		tgNotifier, err := notifier.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, bus)
		if err != nil {
			log.Fatalf("can't create telegram notifier: %v", err)
		}
		defer tgNotifier.Stop()
	}

	cleaner, err := services.NewJobsCleaner(jobs, cfg.Ingest.JobExpirationInDays)
	if err != nil {
		log.Fatalf("can't create jobs cleaner: %v", err)
	}
	defer cleaner.Stop()

	if cfg.Ingest.Schedule != "" {
		scheduler, err := services.NewIngestScheduler(cfg.Ingest.Schedule, ingestor)
		if err != nil {
			log.Fatalf("can't create ingest scheduler: %v", err)
		}
		defer scheduler.Stop()
	}

	httpServer := server.NewServer(ctx, cfg.Server.Port, jobs, ingestor)
	go httpServer.Run()

	<-ctx.Done()

	log.Info("Shutting down services...")
	httpServer.Stop()
	log.Info("Services stopped.")
}
