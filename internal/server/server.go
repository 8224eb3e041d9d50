package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/talentsync/job-ingest/internal/domain/models"
	"github.com/talentsync/job-ingest/internal/repositories"
	"github.com/talentsync/job-ingest/internal/services"
)

type jobsRepository interface {
	Get(ctx context.Context, filter repositories.JobFilter, limit int, offset int) ([]models.Job, error)
	Count(ctx context.Context) (int64, error)
}

type ingestor interface {
	RunFull(ctx context.Context) (*services.RunSummary, error)
	RunSmart(ctx context.Context) (*services.RunSummary, error)
	IngestCombination(ctx context.Context, keyword, location string, page int) ([]models.Job, error)
	State() services.RunState
	LastSummary() *services.RunSummary
	Busy() bool
}

// Server exposes the stored jobs and ingestion triggers over HTTP. Scrape
// triggers run in the background against runCtx, so they survive the request
// but stop on shutdown.
type Server struct {
	httpServer *http.Server
	runCtx     context.Context
}

func NewServer(runCtx context.Context, port int, jobs jobsRepository, ingestor ingestor) *Server {

	server := &Server{runCtx: runCtx}
	server.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: newEngine(runCtx, jobs, ingestor),
	}
	return server
}

func newEngine(runCtx context.Context, jobs jobsRepository, ingestor ingestor) *gin.Engine {

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	handler := &jobsHandler{jobs: jobs, ingestor: ingestor, runCtx: runCtx}

	api := engine.Group("/api")
	api.GET("/jobs", handler.getJobs)
	api.GET("/jobs/search", handler.searchJobs)
	api.GET("/jobs/status", handler.getStatus)
	api.POST("/jobs/scrape", handler.triggerFullScrape)
	api.POST("/jobs/smart-scrape", handler.triggerSmartScrape)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return engine
}

func (s *Server) Run() {
	log.Infof("http server listening on %v", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("http server stopped: %v", err)
	}
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Errorf("http server shutdown: %v", err)
	}
}
