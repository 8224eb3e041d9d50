package events

import "github.com/talentsync/job-ingest/internal/domain/models"

var (
	JobDiscoveredTopic = "JobDiscoveredEvent"
	RunCompletedTopic  = "IngestionRunCompletedEvent"
)

// JobDiscovered is published once per newly inserted posting. Re-ingestions
// of a known external id don't raise it.
type JobDiscovered struct {
	Job models.Job
}

type RunCompleted struct {
	Strategy string
	Inserted int
	Updated  int
	Skipped  int
	Failed   int
}
