package jsearch

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

func responseFromFile(name string) (*http.Response, error) {
	file, err := os.ReadFile("testdata/" + name)

	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBuffer(file)),
	}, err
}

func Test_Search_ShouldBeSuccessful(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "https://jsearch.p.rapidapi.com/search?"+
			"date_posted=week&num_pages=1&page=1&query=Software+Engineer+Intern+in+Silicon+Valley%2C+CA" &&
			req.Header.Get("X-RapidAPI-Key") == "test-key" &&
			req.Header.Get("X-RapidAPI-Host") == "jsearch.p.rapidapi.com"
	})).Return(responseFromFile("search_response.json"))

	client := NewClient("test-key", "jsearch.p.rapidapi.com")
	client.SetHTTPClient(mockClient)

	params := SearchParameters{
		Keyword:  "Software Engineer Intern",
		Location: "Silicon Valley, CA",
		Page:     1,
	}
	jobs, err := client.Search(context.Background(), params)
	assert.NoError(err)

	assert.Len(jobs, 2)
	assert.Equal("aBcD123==", jobs[0].ExternalID)
	assert.Equal("Software Engineer Intern", jobs[0].Title)
	assert.Equal("Acme Robotics", jobs[0].Company)
	assert.Equal("San Jose, CA", jobs[0].Location)
	assert.Equal([]string{"Go", "C++", "Linux"}, jobs[0].SkillsAsArray())
	assert.Equal("Software Engineer Intern", jobs[0].SearchKeyword)
	assert.Equal("Silicon Valley, CA", jobs[0].SearchLocation)
	assert.NotNil(jobs[0].SalaryMin)
	assert.Equal(45.0, *jobs[0].SalaryMin)

	// second record: the provider omitted city, skills and salary
	assert.Equal("eFgH456==", jobs[1].ExternalID)
	assert.Equal(", CA", jobs[1].Location)
	assert.Empty(jobs[1].SkillsAsArray())
	assert.Nil(jobs[1].SalaryMin)
	assert.Equal("", jobs[1].PostedAt)
}

func Test_Search_SnippetDerivation(t *testing.T) {

	long := strings.Repeat("a", 250)
	job := wireJob{JobID: "1", JobDescription: long}.toJob("kw", "loc")
	assert.Equal(t, strings.Repeat("a", 200)+"...", job.Snippet)
	assert.Len(t, job.Snippet, 203)

	short := wireJob{JobID: "2", JobDescription: "tiny"}.toJob("kw", "loc")
	assert.Equal(t, "tiny...", short.Snippet)

	empty := wireJob{JobID: "3"}.toJob("kw", "loc")
	assert.Equal(t, "", empty.Snippet)

	// a multibyte rune straddling the cut must not be split mid-sequence
	multibyte := strings.Repeat("a", 199) + strings.Repeat("é", 10)
	job = wireJob{JobID: "4", JobDescription: multibyte}.toJob("kw", "loc")
	assert.True(t, utf8.ValidString(job.Snippet))
	assert.Equal(t, strings.Repeat("a", 199)+"é...", job.Snippet)
	assert.Equal(t, snippetLength+3, utf8.RuneCountInString(job.Snippet))
}

func Test_Search_ProviderErrorStatus_ReturnsError(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(responseFromFile("search_error.json"))

	client := NewClient("test-key", "jsearch.p.rapidapi.com")
	client.SetHTTPClient(mockClient)

	jobs, err := client.Search(context.Background(), SearchParameters{Keyword: "golang", Location: "San Jose, CA"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MONTHLY quota")
	assert.Nil(t, jobs)
}

func Test_Search_InvalidParameters(t *testing.T) {

	client := NewClient("test-key", "jsearch.p.rapidapi.com")

	_, err := client.Search(context.Background(), SearchParameters{Location: "San Jose, CA"})
	assert.Error(t, err)

	_, err = client.Search(context.Background(), SearchParameters{Keyword: "golang"})
	assert.Error(t, err)
}

func Test_SearchParameters_PageValidation(t *testing.T) {

	params := SearchParameters{Keyword: "golang", Location: "San Jose, CA", Page: -1}
	assert.Error(t, params.Validate())

	// an unset page is valid and resolves to the first page
	params.Page = 0
	assert.NoError(t, params.Validate())
	assert.Equal(t, "1", params.ToURLParams().Get("page"))
}

func Test_SearchParameters_CountryFilter(t *testing.T) {

	params := SearchParameters{Keyword: "SDE Intern", Location: "Mountain View, CA", Country: "us"}
	values := params.ToURLParams()

	assert.Equal(t, "SDE Intern in Mountain View, CA", values.Get("query"))
	assert.Equal(t, "us", values.Get("country"))
	assert.Equal(t, "1", values.Get("page"))
	assert.Equal(t, "week", values.Get("date_posted"))
}
