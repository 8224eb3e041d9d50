package jsearch

import (
	"fmt"
	"net/url"
	"strconv"
)

// DatePosted filters postings by recency on the provider side.
type DatePosted string

const (
	PostedAnyTime   DatePosted = "all"
	PostedToday     DatePosted = "today"
	PostedThisWeek  DatePosted = "week"
	PostedThisMonth DatePosted = "month"
)

type SearchParameters struct {
	Keyword    string
	Location   string
	Page       int
	DatePosted DatePosted
	Country    string
}

func (s SearchParameters) Validate() error {

	if s.Keyword == "" {
		return fmt.Errorf("keyword must not be empty")
	}

	if s.Location == "" {
		return fmt.Errorf("location must not be empty")
	}

	// zero means "unset": ToURLParams substitutes the first page
	if s.Page < 0 {
		return fmt.Errorf("page must be non-negative")
	}

	return nil
}

func (s SearchParameters) ToURLParams() url.Values {

	page := s.Page
	if page == 0 {
		page = 1
	}

	datePosted := s.DatePosted
	if datePosted == "" {
		datePosted = PostedThisWeek
	}

	params := url.Values{}
	params.Add("query", s.Keyword+" in "+s.Location)
	params.Add("page", strconv.Itoa(page))
	params.Add("num_pages", "1")
	params.Add("date_posted", string(datePosted))

	if s.Country != "" {
		params.Add("country", s.Country)
	}

	return params
}
