package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vilaca/teamboard/internal/domain"
)

// IssueClient defines the interface for issue tracker clients.
// Consumers depend on this interface, not on the Jira implementation.
type IssueClient interface {
	// SearchIssues runs a query in the tracker's search language and returns every matching issue.
	SearchIssues(ctx context.Context, req SearchRequest) ([]domain.Issue, error)
}

// SearchRequest describes one issue search.
type SearchRequest struct {
	JQL    string
	Fields []string
	Expand []string
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	BaseURL  string
	Auth     AuthProvider
	PageSize int
}

// StatusError is returned when the tracker answers with a non-success status.
type StatusError struct {
	StatusCode int
	Header     http.Header
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

// DecodeError marks a success response whose body could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "failed to decode response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
