package services

import (
	"math/rand"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/talentsync/job-ingest/internal/domain/models"
)

var testKeywords = []string{"Software Engineer Intern", "SDE Intern", "Full Stack Intern"}
var testLocations = []string{"San Jose, CA", "Palo Alto, CA", "Sunnyvale, CA"}

var testPriority = []models.Combination{
	{Keyword: "Software Engineer Intern", Location: "San Jose, CA"},
	{Keyword: "SDE Intern", Location: "Palo Alto, CA"},
}

func Test_Exhaustive_NestedOrder(t *testing.T) {

	planner := NewQueryPlanner(testKeywords, testLocations, testPriority, 6)
	combinations := planner.Exhaustive()

	assert.Len(t, combinations, 9)
	assert.Equal(t, models.Combination{Keyword: "Software Engineer Intern", Location: "San Jose, CA"}, combinations[0])
	assert.Equal(t, models.Combination{Keyword: "Software Engineer Intern", Location: "Palo Alto, CA"}, combinations[1])
	assert.Equal(t, models.Combination{Keyword: "Software Engineer Intern", Location: "Sunnyvale, CA"}, combinations[2])
	assert.Equal(t, models.Combination{Keyword: "SDE Intern", Location: "San Jose, CA"}, combinations[3])
	assert.Equal(t, models.Combination{Keyword: "Full Stack Intern", Location: "Sunnyvale, CA"}, combinations[8])
}

func Test_PriorityAndSample_PriorityComesFirstInDeclaredOrder(t *testing.T) {

	planner := NewQueryPlanner(testKeywords, testLocations, testPriority, 6)
	priority, sampled := planner.PriorityAndSample()

	assert.Equal(t, testPriority, priority)

	for _, pair := range testPriority {
		assert.Equal(t, 1, lo.Count(priority, pair))
		assert.NotContains(t, sampled, pair)
	}
}

func Test_PriorityAndSample_SampleSizeIsBounded(t *testing.T) {

	planner := NewQueryPlanner(testKeywords, testLocations, testPriority, 6)
	_, sampled := planner.PriorityAndSample()

	// 9 combinations minus 2 priority pairs leaves 7; capped at 6
	assert.Len(t, sampled, 6)

	unbounded := NewQueryPlanner(testKeywords[:1], testLocations, nil, 6)
	_, sampled = unbounded.PriorityAndSample()
	assert.Len(t, sampled, 3)
}

func Test_PriorityAndSample_SampleHasNoDuplicates(t *testing.T) {

	planner := NewQueryPlanner(testKeywords, testLocations, testPriority, 6)
	_, sampled := planner.PriorityAndSample()

	assert.Len(t, lo.Uniq(sampled), len(sampled))
}

func Test_PriorityAndSample_DeterministicWithSeededSource(t *testing.T) {

	first := NewQueryPlanner(testKeywords, testLocations, testPriority, 6)
	first.SetRandSource(rand.NewSource(42))

	second := NewQueryPlanner(testKeywords, testLocations, testPriority, 6)
	second.SetRandSource(rand.NewSource(42))

	_, sampledFirst := first.PriorityAndSample()
	_, sampledSecond := second.PriorityAndSample()

	assert.Equal(t, sampledFirst, sampledSecond)
}
