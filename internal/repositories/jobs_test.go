package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentsync/job-ingest/internal/domain/models"
)

func newTestContext(t *testing.T) *DbContext {
	t.Helper()

	dbCtx, err := NewDbContext(":memory:")
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())

	t.Cleanup(func() { _ = dbCtx.Close() })
	return dbCtx
}

func testJob(externalID string) models.Job {
	return models.Job{
		ExternalID:     externalID,
		Title:          "Software Engineer Intern",
		Company:        "Acme Robotics",
		Location:       "San Jose, CA",
		URL:            "https://jobs.example.com/" + externalID,
		Snippet:        "Acme Robotics is looking for...",
		Description:    "Acme Robotics is looking for a Software Engineer Intern.",
		ScrapedAt:      time.Now(),
		Source:         "LinkedIn",
		SearchKeyword:  "Software Engineer Intern",
		SearchLocation: "Silicon Valley, CA",
	}
}

func Test_Upsert_InsertsThenUpdates(t *testing.T) {

	repo := NewJobsRepository(newTestContext(t).DB)
	ctx := context.Background()

	created, err := repo.Upsert(ctx, testJob("job-1"), models.MergeReplace)
	assert.NoError(t, err)
	assert.True(t, created)

	changed := testJob("job-1")
	changed.Title = "Senior Software Engineer"
	created, err = repo.Upsert(ctx, changed, models.MergeReplace)
	assert.NoError(t, err)
	assert.False(t, created)

	count, err := repo.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stored, err := repo.GetByExternalID(ctx, "job-1")
	assert.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Senior Software Engineer", stored.Title)
}

func Test_Upsert_ReplacePolicyIsLastWriteWins(t *testing.T) {

	repo := NewJobsRepository(newTestContext(t).DB)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, testJob("job-1"), models.MergeReplace)
	require.NoError(t, err)

	// a sparser re-ingestion wipes previously richer fields
	sparse := models.Job{ExternalID: "job-1", Title: "Software Engineer Intern", ScrapedAt: time.Now()}
	_, err = repo.Upsert(ctx, sparse, models.MergeReplace)
	require.NoError(t, err)

	stored, err := repo.GetByExternalID(ctx, "job-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "", stored.Company)
	assert.Equal(t, "", stored.Description)
}

func Test_Upsert_MergePolicyKeepsRicherFields(t *testing.T) {

	repo := NewJobsRepository(newTestContext(t).DB)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, testJob("job-1"), models.MergeFill)
	require.NoError(t, err)

	sparse := models.Job{ExternalID: "job-1", Title: "Renamed Title", ScrapedAt: time.Now()}
	created, err := repo.Upsert(ctx, sparse, models.MergeFill)
	require.NoError(t, err)
	assert.False(t, created)

	stored, err := repo.GetByExternalID(ctx, "job-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Renamed Title", stored.Title)
	assert.Equal(t, "Acme Robotics", stored.Company)
	assert.Equal(t, "San Jose, CA", stored.Location)
}

func Test_Upsert_DistinctExternalIDsStayDistinct(t *testing.T) {

	repo := NewJobsRepository(newTestContext(t).DB)
	ctx := context.Background()

	ids := []string{"a", "b", "c"}
	for i := 0; i < 3; i++ {
		for _, id := range ids {
			_, err := repo.Upsert(ctx, testJob(id), models.MergeReplace)
			require.NoError(t, err)
		}
	}

	count, err := repo.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(ids)), count)
}

func Test_Get_FiltersAndPaginates(t *testing.T) {

	repo := NewJobsRepository(newTestContext(t).DB)
	ctx := context.Background()

	first := testJob("job-1")
	first.Title = "Backend Intern"
	first.Location = "Palo Alto, CA"
	second := testJob("job-2")
	second.ScrapedAt = first.ScrapedAt.Add(time.Minute)

	for _, job := range []models.Job{first, second} {
		_, err := repo.Upsert(ctx, job, models.MergeReplace)
		require.NoError(t, err)
	}

	jobs, err := repo.Get(ctx, JobFilter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "job-2", jobs[0].ExternalID) // newest first

	jobs, err = repo.Get(ctx, JobFilter{Keyword: "Backend"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "job-1", jobs[0].ExternalID)

	jobs, err = repo.Get(ctx, JobFilter{Location: "Palo Alto"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	jobs, err = repo.Get(ctx, JobFilter{}, 1, 1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
}

func Test_Get_FilterWildcardsMatchLiterally(t *testing.T) {

	repo := NewJobsRepository(newTestContext(t).DB)
	ctx := context.Background()

	literal := testJob("job-1")
	literal.Title = "100% Remote Engineer"
	plain := testJob("job-2")
	plain.Title = "Backend Engineer"

	for _, job := range []models.Job{literal, plain} {
		_, err := repo.Upsert(ctx, job, models.MergeReplace)
		require.NoError(t, err)
	}

	// "%" must match only titles containing a literal percent sign
	jobs, err := repo.Get(ctx, JobFilter{Keyword: "%"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "job-1", jobs[0].ExternalID)

	jobs, err = repo.Get(ctx, JobFilter{Keyword: "_"}, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func Test_RemoveOldJobs(t *testing.T) {

	repo := NewJobsRepository(newTestContext(t).DB)
	ctx := context.Background()

	old := testJob("old")
	old.ScrapedAt = time.Now().AddDate(0, 0, -40)
	fresh := testJob("fresh")

	for _, job := range []models.Job{old, fresh} {
		_, err := repo.Upsert(ctx, job, models.MergeReplace)
		require.NoError(t, err)
	}

	removed, err := repo.RemoveOldJobs(ctx, time.Now().AddDate(0, 0, -30))
	assert.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	count, _ := repo.Count(ctx)
	assert.Equal(t, int64(1), count)
}
