package jsearch

import (
	"strings"
	"time"

	"github.com/talentsync/job-ingest/internal/domain/models"
)

const snippetLength = 200

// wireJob mirrors one element of the provider's "data" array.
type wireJob struct {
	JobID            string   `json:"job_id"`
	JobTitle         string   `json:"job_title"`
	EmployerName     string   `json:"employer_name"`
	JobCity          string   `json:"job_city"`
	JobState         string   `json:"job_state"`
	JobApplyLink     string   `json:"job_apply_link"`
	JobDescription   string   `json:"job_description"`
	JobPostedAt      string   `json:"job_posted_at_datetime_utc"`
	JobPublisher     string   `json:"job_publisher"`
	JobRequiredSkill []string `json:"job_required_skills"`
	JobMinSalary     *float64 `json:"job_min_salary"`
	JobMaxSalary     *float64 `json:"job_max_salary"`
	JobSalaryCurr    *string  `json:"job_salary_currency"`
	JobEmploymentTp  *string  `json:"job_employment_type"`
}

func (w wireJob) toJob(keyword, location string) models.Job {

	job := models.Job{
		ExternalID:     w.JobID,
		Title:          w.JobTitle,
		Company:        w.EmployerName,
		Location:       joinLocation(w.JobCity, w.JobState),
		URL:            w.JobApplyLink,
		Snippet:        makeSnippet(w.JobDescription),
		Description:    w.JobDescription,
		PostedAt:       w.JobPostedAt,
		ScrapedAt:      time.Now(),
		Source:         w.JobPublisher,
		SearchKeyword:  keyword,
		SearchLocation: location,
		SalaryMin:      w.JobMinSalary,
		SalaryMax:      w.JobMaxSalary,
		SalaryCurrency: w.JobSalaryCurr,
		EmploymentType: w.JobEmploymentTp,
	}
	job.SetSkills(w.JobRequiredSkill)
	return job
}

// makeSnippet truncates a description to its first 200 characters plus an
// ellipsis marker. Truncation counts runes, not bytes, so a multibyte
// character is never split. An absent description yields an empty snippet.
func makeSnippet(description string) string {
	if description == "" {
		return ""
	}
	runes := []rune(description)
	if len(runes) <= snippetLength {
		return description + "..."
	}
	return string(runes[:snippetLength]) + "..."
}

// joinLocation keeps partial segments like ", CA" as-is: the provider's
// city/state fields are not normalized further.
func joinLocation(city, state string) string {
	return strings.TrimSpace(city + ", " + state)
}
