package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"github.com/talentsync/job-ingest/internal/domain/models"
	"github.com/talentsync/job-ingest/internal/logger"
	"github.com/talentsync/job-ingest/internal/metrics"
)

type aiClient interface {
	GenerateResponse(ctx context.Context, request string) (string, error)
}

var codeBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// SkillExtractor fills in skill tags for postings whose provider response
// carried a description but no skills, by asking the AI to extract them.
// Results are memoized by description hash; failures degrade to no skills.
type SkillExtractor struct {
	aiClient aiClient
	cache    *gocache.Cache
}

func NewSkillExtractor(aiClient aiClient) *SkillExtractor {
	return &SkillExtractor{
		aiClient: aiClient,
		cache:    gocache.New(30*time.Minute, time.Hour),
	}
}

func (s *SkillExtractor) Enrich(ctx context.Context, job *models.Job) {

	if job.Skills != "" || job.Description == "" {
		return
	}

	cacheID := descriptionCacheID(job.Description)
	if cached, found := s.cache.Get(cacheID); found {
		job.SetSkills(cached.([]string))
		return
	}

	start := time.Now()
	skills, err := s.extractSkills(ctx, job.Description)
	metrics.StepDuration.WithLabelValues("ai_enrichment").Observe(time.Since(start).Seconds())

	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).
			Errorf("failed to extract skills for job %v: %v", job.ExternalID, err)
		return
	}

	if cacheErr := s.cache.Add(cacheID, skills, gocache.DefaultExpiration); cacheErr != nil {
		log.Errorf("failed to cache extracted skills: %v", cacheErr)
	}

	job.SetSkills(skills)
}

func (s *SkillExtractor) extractSkills(ctx context.Context, description string) ([]string, error) {

	response, err := s.aiClient.GenerateResponse(ctx, skillExtractionRequest(description))
	if err != nil {
		return nil, err
	}

	return parseSkills(response)
}

func skillExtractionRequest(description string) string {
	return "Extract up to 10 key technical skills from the following job description. " +
		"Respond with a JSON array of short skill names only, no explanation, no code block markers.\n\n" +
		description
}

// parseSkills tolerates markdown code fences around the JSON array, which
// the model sometimes adds despite instructions.
func parseSkills(response string) ([]string, error) {

	if match := codeBlockRegex.FindStringSubmatch(response); match != nil {
		response = match[1]
	}
	response = strings.TrimSpace(response)

	var skills []string
	if err := json.Unmarshal([]byte(response), &skills); err != nil {
		return nil, err
	}
	return skills, nil
}

func descriptionCacheID(description string) string {
	descriptionHash := sha256.Sum256([]byte(description))
	return hex.EncodeToString(descriptionHash[:])
}
