package models

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// Job is one posting as ingested from the provider. ExternalID is the
// provider-assigned identifier and the dedup key.
type Job struct {
	ID             uint   `gorm:"primaryKey"`
	ExternalID     string `gorm:"uniqueIndex;not null"`
	Title          string
	Company        string
	Location       string
	URL            string
	Snippet        string
	Description    string
	Skills         string
	PostedAt       string
	ScrapedAt      time.Time
	Source         string
	SearchKeyword  string
	SearchLocation string
	SalaryMin      *float64
	SalaryMax      *float64
	SalaryCurrency *string
	EmploymentType *string
}

func (j *Job) SkillsAsArray() []string {
	if j.Skills == "" {
		return []string{}
	}
	return strings.Split(j.Skills, ",")
}

func (j *Job) SetSkills(skills []string) {
	j.Skills = strings.Join(lo.Map(skills, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}), ",")
}

// MergeFrom fills empty fields of incoming from the receiver, so a sparser
// re-ingestion doesn't wipe previously richer data. ScrapedAt and the search
// attribution always come from the incoming record.
func (j *Job) MergeFrom(incoming Job) Job {
	merged := incoming

	if merged.Title == "" {
		merged.Title = j.Title
	}
	if merged.Company == "" {
		merged.Company = j.Company
	}
	if merged.Location == "" {
		merged.Location = j.Location
	}
	if merged.URL == "" {
		merged.URL = j.URL
	}
	if merged.Snippet == "" {
		merged.Snippet = j.Snippet
	}
	if merged.Description == "" {
		merged.Description = j.Description
	}
	if merged.Skills == "" {
		merged.Skills = j.Skills
	}
	if merged.PostedAt == "" {
		merged.PostedAt = j.PostedAt
	}
	if merged.Source == "" {
		merged.Source = j.Source
	}
	if merged.SalaryMin == nil {
		merged.SalaryMin = j.SalaryMin
	}
	if merged.SalaryMax == nil {
		merged.SalaryMax = j.SalaryMax
	}
	if merged.SalaryCurrency == nil {
		merged.SalaryCurrency = j.SalaryCurrency
	}
	if merged.EmploymentType == nil {
		merged.EmploymentType = j.EmploymentType
	}
	return merged
}
