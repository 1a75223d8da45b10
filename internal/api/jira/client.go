package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vilaca/teamboard/internal/api"
	"github.com/vilaca/teamboard/internal/domain"
)

const (
	searchPath      = "/rest/api/2/search"
	defaultPageSize = 50
)

// Client implements api.IssueClient for Jira.
type Client struct {
	baseURL    string
	auth       api.AuthProvider
	pageSize   int
	httpClient api.HTTPClient
}

// NewClient creates a new Jira client.
func NewClient(config api.ClientConfig, httpClient api.HTTPClient) *Client {
	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		auth:       config.Auth,
		pageSize:   pageSize,
		httpClient: httpClient,
	}
}

// SearchIssues runs a JQL search and follows pagination until every issue is read.
// A non-success response is reported as *api.StatusError.
func (c *Client) SearchIssues(ctx context.Context, req api.SearchRequest) ([]domain.Issue, error) {
	jql := strings.TrimSpace(req.JQL)
	if jql == "" {
		return nil, errors.New("jql is required")
	}

	var issues []domain.Issue
	seen := make(map[int]struct{})
	startAt := 0

	for {
		if _, ok := seen[startAt]; ok {
			return nil, fmt.Errorf("pagination startAt %d repeated", startAt)
		}
		seen[startAt] = struct{}{}

		var page searchResponse
		if err := c.doRequest(ctx, c.searchURL(jql, req, startAt), &page); err != nil {
			return nil, fmt.Errorf("failed to search issues: %w", err)
		}

		issues = append(issues, page.Issues...)

		if len(page.Issues) == 0 {
			break
		}
		startAt = page.StartAt + len(page.Issues)
		if startAt >= page.Total {
			break
		}
	}

	if issues == nil {
		issues = []domain.Issue{}
	}
	return issues, nil
}

func (c *Client) searchURL(jql string, req api.SearchRequest, startAt int) string {
	q := url.Values{}
	q.Set("jql", jql)
	if len(req.Fields) > 0 {
		q.Set("fields", strings.Join(req.Fields, ","))
	}
	if len(req.Expand) > 0 {
		q.Set("expand", strings.Join(req.Expand, ","))
	}
	q.Set("startAt", strconv.Itoa(startAt))
	q.Set("maxResults", strconv.Itoa(c.pageSize))

	return c.baseURL + searchPath + "?" + q.Encode()
}

// doRequest performs an authenticated GET against the Jira API and decodes the JSON body.
func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.auth != nil {
		if err := c.auth.Apply(req); err != nil {
			return fmt.Errorf("failed to apply auth: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &api.StatusError{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &api.DecodeError{Err: err}
	}

	return nil
}

// Jira API response types
type searchResponse struct {
	StartAt    int            `json:"startAt"`
	MaxResults int            `json:"maxResults"`
	Total      int            `json:"total"`
	Issues     []domain.Issue `json:"issues"`
}
