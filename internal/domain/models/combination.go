package models

// Combination is one (keyword, location) search pair produced by the query
// planner and consumed once per ingestion run. Not persisted.
type Combination struct {
	Keyword  string `mapstructure:"keyword" json:"keyword"`
	Location string `mapstructure:"location" json:"location"`
}
