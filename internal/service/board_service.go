package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vilaca/teamboard/internal/api"
	"github.com/vilaca/teamboard/internal/domain"
)

// BoardService fetches the issues of one workflow status and turns them into cards.
type BoardService struct {
	client      api.IssueClient
	transformer *Transformer
	project     string
	fields      []string
	logger      *zap.Logger
	now         Clock
}

// BoardServiceConfig holds the dependencies of a BoardService.
type BoardServiceConfig struct {
	Client      api.IssueClient
	Transformer *Transformer
	// Project is the JQL project list, e.g. "ABC" or "ABC, DEF".
	Project string
	// Fields are the issue fields requested on every search.
	Fields []string
	Logger *zap.Logger
	// Clock defaults to time.Now.
	Clock Clock
}

// NewBoardService creates a new board service.
func NewBoardService(cfg BoardServiceConfig) *BoardService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	return &BoardService{
		client:      cfg.Client,
		transformer: cfg.Transformer,
		project:     cfg.Project,
		fields:      cfg.Fields,
		logger:      logger,
		now:         now,
	}
}

// BuildJQL returns the search for issues of project in the given status.
func BuildJQL(status, project string) string {
	return fmt.Sprintf(`status in ("%s") and project in (%s)`, status, project)
}

// FetchIssues returns the cards for every issue in status.
// A failed search yields an empty board; a malformed issue is an error.
func (s *BoardService) FetchIssues(ctx context.Context, status string) ([]domain.Card, error) {
	issues, err := s.SearchForIssues(ctx, BuildJQL(status, s.project))
	if err != nil {
		return nil, err
	}

	today := s.now()
	cards := make([]domain.Card, 0, len(issues))
	for _, issue := range issues {
		card, err := s.transformer.ProcessIssue(issue, today)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// SearchForIssues runs jql with the changelog expanded.
// When the tracker cannot answer the failure is logged and an empty list returned,
// so callers cannot tell "no issues" from "query failed". Only a response that
// could not be decoded is returned as an error.
func (s *BoardService) SearchForIssues(ctx context.Context, jql string) ([]domain.Issue, error) {
	issues, err := s.client.SearchIssues(ctx, api.SearchRequest{
		JQL:    jql,
		Fields: s.fields,
		Expand: []string{"changelog"},
	})
	if err == nil {
		return issues, nil
	}

	var decodeErr *api.DecodeError
	if errors.As(err, &decodeErr) {
		return nil, fmt.Errorf("query %q: %w", jql, err)
	}

	s.logger.Warn("unable to get issues for query", zap.String("jql", jql), zap.Error(err))

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		s.logger.Debug("response status",
			zap.Int("status", statusErr.StatusCode),
			zap.Any("headers", api.SanitizeHeaders(statusErr.Header)),
		)
		s.logger.Debug("response body", zap.String("body", statusErr.Body))
	}

	return []domain.Issue{}, nil
}
