package services

import (
	"math/rand"
	"time"

	"github.com/samber/lo"
	"github.com/talentsync/job-ingest/internal/domain/models"
)

// QueryPlanner enumerates the (keyword, location) combinations an ingestion
// run visits, bounding total provider calls per run.
type QueryPlanner struct {
	keywords   []string
	locations  []string
	priority   []models.Combination
	maxSampled int
	rng        *rand.Rand
}

func NewQueryPlanner(keywords, locations []string, priority []models.Combination, maxSampled int) *QueryPlanner {
	return &QueryPlanner{
		keywords:   keywords,
		locations:  locations,
		priority:   priority,
		maxSampled: maxSampled,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRandSource replaces the shuffle source, making sampling deterministic.
func (p *QueryPlanner) SetRandSource(source rand.Source) {
	p.rng = rand.New(source)
}

// Exhaustive returns the full cross product in nested order: every location
// for the first keyword, then every location for the second, and so on.
func (p *QueryPlanner) Exhaustive() []models.Combination {

	combinations := make([]models.Combination, 0, len(p.keywords)*len(p.locations))
	for _, keyword := range p.keywords {
		for _, location := range p.locations {
			combinations = append(combinations, models.Combination{Keyword: keyword, Location: location})
		}
	}
	return combinations
}

// PriorityAndSample returns the fixed priority pairs in listed order and a
// uniformly shuffled sample of the remaining cross product, truncated to the
// configured maximum. The sample never contains a priority pair.
func (p *QueryPlanner) PriorityAndSample() (priority []models.Combination, sampled []models.Combination) {

	remaining := lo.Filter(p.Exhaustive(), func(c models.Combination, _ int) bool {
		return !lo.Contains(p.priority, c)
	})

	p.rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})

	sampleSize := p.maxSampled
	if sampleSize > len(remaining) {
		sampleSize = len(remaining)
	}

	return p.priority, remaining[:sampleSize]
}
