package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/talentsync/job-ingest/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

// Upsert stores a job keyed by its external id and reports whether a new row
// was created. The write is an atomic ON CONFLICT upsert, so the one-row-per-
// external-id invariant holds even if runs overlap; only the created/updated
// tag relies on the preceding lookup.
func (repo *Jobs) Upsert(ctx context.Context, job models.Job, policy models.MergePolicy) (bool, error) {

	existing, err := repo.GetByExternalID(ctx, job.ExternalID)
	if err != nil {
		return false, err
	}

	if existing != nil && policy == models.MergeFill {
		job = existing.MergeFrom(job)
	}
	job.ID = 0

	err = repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		UpdateAll: true,
	}).Create(&job).Error

	return existing == nil, err
}

func (repo *Jobs) GetByExternalID(ctx context.Context, externalID string) (*models.Job, error) {

	var job models.Job
	err := repo.db.WithContext(ctx).First(&job, "external_id = ?", externalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (repo *Jobs) Get(ctx context.Context, filter JobFilter, limit int, offset int) ([]models.Job, error) {

	var jobs []models.Job
	query := repo.db.WithContext(ctx).Order("scraped_at DESC")

	if filter.Keyword != "" {
		query = query.Where(`title LIKE ? ESCAPE '\'`, "%"+escapeLike(filter.Keyword)+"%")
	}
	if filter.Location != "" {
		query = query.Where(`location LIKE ? ESCAPE '\'`, "%"+escapeLike(filter.Location)+"%")
	}

	if err := query.Limit(limit).Offset(offset).Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (repo *Jobs) Count(ctx context.Context) (int64, error) {

	var count int64
	if err := repo.db.WithContext(ctx).Model(&models.Job{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *Jobs) RemoveOldJobs(ctx context.Context, expirationTime time.Time) (int64, error) {
	res := repo.db.WithContext(ctx).Delete(&models.Job{}, "scraped_at < ?", expirationTime)
	return res.RowsAffected, res.Error
}

type JobFilter struct {
	Keyword  string
	Location string
}

// escapeLike neutralizes LIKE wildcards in user-supplied filter values, so a
// filter of "%" matches a literal percent sign instead of everything.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
