package jsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/talentsync/job-ingest/internal/domain/models"
	"golang.org/x/time/rate"
)

type searchResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message"`
	Data    []wireJob `json:"data"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues paged search requests to the JSearch API and translates
// responses into job records. A provider error (transport failure, non-2xx
// status or a non-OK envelope status) is returned as an error so callers can
// tell it apart from a legitimately empty result set.
type Client struct {
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
	apiKey      string
	host        string
}

func NewClient(apiKey, host string) *Client {
	return &Client{httpClient: &http.Client{}, apiKey: apiKey, host: host}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) Search(ctx context.Context, parameters SearchParameters) ([]models.Job, error) {

	if err := parameters.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	apiURL := "https://" + c.host + "/search"
	params := parameters.ToURLParams()

	body, err := c.sendRequest(ctx, "GET", apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var response searchResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&response); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	if response.Status != "OK" {
		if response.Message == "" {
			response.Message = "unknown provider error"
		}
		return nil, fmt.Errorf("provider returned status %q: %v", response.Status, response.Message)
	}

	jobs := make([]models.Job, 0, len(response.Data))
	for _, raw := range response.Data {
		jobs = append(jobs, raw.toJob(parameters.Keyword, parameters.Location))
	}

	return jobs, nil
}

func (c *Client) sendRequest(ctx context.Context, method string, url string, body io.Reader) ([]byte, error) {

	if c.rateLimiter != nil {
		err := c.rateLimiter.Wait(ctx)
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	return c.handleResponse(resp)
}

func (c *Client) handleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed with status %v, body: %v", resp.StatusCode, string(body))
	}

	return body, nil
}
