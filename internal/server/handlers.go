package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/talentsync/job-ingest/internal/domain/models"
	"github.com/talentsync/job-ingest/internal/repositories"
	"github.com/talentsync/job-ingest/internal/services"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type jobsHandler struct {
	jobs     jobsRepository
	ingestor ingestor
	runCtx   context.Context
}

func (h *jobsHandler) getJobs(c *gin.Context) {

	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "per_page", defaultPageSize)
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > maxPageSize {
		perPage = defaultPageSize
	}

	filter := repositories.JobFilter{
		Keyword:  c.Query("keyword"),
		Location: c.Query("location"),
	}

	jobs, err := h.jobs.Get(c.Request.Context(), filter, perPage, (page-1)*perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch jobs"})
		return
	}

	total, err := h.jobs.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":     jobViews(jobs),
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// searchJobs fetches one page from the provider for the given combination,
// stores the results and returns them, bypassing the planner.
func (h *jobsHandler) searchJobs(c *gin.Context) {

	keyword := c.Query("keyword")
	location := c.Query("location")
	if keyword == "" || location == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword and location are required"})
		return
	}

	page := intQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}

	jobs, err := h.ingestor.IngestCombination(c.Request.Context(), keyword, location, page)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "provider search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": jobViews(jobs), "count": len(jobs)})
}

func (h *jobsHandler) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state":    h.ingestor.State().String(),
		"last_run": h.ingestor.LastSummary(),
	})
}

func (h *jobsHandler) triggerFullScrape(c *gin.Context) {
	h.triggerScrape(c, "full", h.ingestor.RunFull)
}

func (h *jobsHandler) triggerSmartScrape(c *gin.Context) {
	h.triggerScrape(c, "smart", h.ingestor.RunSmart)
}

func (h *jobsHandler) triggerScrape(c *gin.Context, strategy string,
	run func(ctx context.Context) (*services.RunSummary, error)) {

	if h.ingestor.Busy() {
		c.JSON(http.StatusConflict, gin.H{"error": "an ingestion run is already in progress"})
		return
	}

	go func() {
		if _, err := run(h.runCtx); err != nil {
			if errors.Is(err, services.ErrRunInProgress) {
				log.Infof("%v run trigger lost the race to a concurrent run", strategy)
			} else {
				log.Errorf("%v run failed: %v", strategy, err)
			}
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"message": strategy + " ingestion run started"})
}

type jobView struct {
	ExternalID     string   `json:"external_id"`
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	URL            string   `json:"url"`
	Snippet        string   `json:"snippet"`
	Skills         []string `json:"skills"`
	PostedAt       string   `json:"posted_at"`
	ScrapedAt      string   `json:"scraped_at"`
	Source         string   `json:"source"`
	SearchKeyword  string   `json:"search_keyword"`
	SearchLocation string   `json:"search_location"`
}

func jobViews(jobs []models.Job) []jobView {

	views := make([]jobView, 0, len(jobs))
	for _, job := range jobs {
		views = append(views, jobView{
			ExternalID:     job.ExternalID,
			Title:          job.Title,
			Company:        job.Company,
			Location:       job.Location,
			URL:            job.URL,
			Snippet:        job.Snippet,
			Skills:         job.SkillsAsArray(),
			PostedAt:       job.PostedAt,
			ScrapedAt:      job.ScrapedAt.Format("2006-01-02T15:04:05Z07:00"),
			Source:         job.Source,
			SearchKeyword:  job.SearchKeyword,
			SearchLocation: job.SearchLocation,
		})
	}
	return views
}

func intQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return value
}
