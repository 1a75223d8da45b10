package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vilaca/teamboard/internal/config"
	"github.com/vilaca/teamboard/internal/domain"
)

// FieldError reports issue data that lacks a field the board depends on.
// It usually means the project field path is misconfigured.
type FieldError struct {
	IssueKey string
	Field    string
	Reason   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("issue %s: field %s: %s", e.IssueKey, e.Field, e.Reason)
}

// Transformer turns raw Jira issues into board cards.
type Transformer struct {
	projectField config.FieldPath
	flaggedField string
	colors       *ColorResolver
}

// NewTransformer creates a transformer reading the project name at projectField
// and the impediment flag from flaggedField.
func NewTransformer(projectField config.FieldPath, flaggedField string, colors *ColorResolver) *Transformer {
	return &Transformer{
		projectField: projectField,
		flaggedField: flaggedField,
		colors:       colors,
	}
}

// ProcessIssue builds the card for one issue. today anchors the age calculation.
func (t *Transformer) ProcessIssue(issue domain.Issue, today time.Time) (domain.Card, error) {
	if issue.Key == "" {
		return domain.Card{}, &FieldError{IssueKey: "<unknown>", Field: "key", Reason: "missing"}
	}

	summary, err := t.summary(issue)
	if err != nil {
		return domain.Card{}, err
	}

	project, err := t.project(issue)
	if err != nil {
		return domain.Card{}, err
	}

	age, err := IssueAge(issue.Changelog, today)
	if err != nil {
		return domain.Card{}, fmt.Errorf("issue %s: changelog: %w", issue.Key, err)
	}

	card := domain.Card{
		Key:     issue.Key,
		Summary: summary,
		Project: project,
		Color:   t.colors.Color(project),
		Flagged: !isNull(issue.Fields[t.flaggedField]),
		Age:     age,
	}

	if raw := issue.Fields["assignee"]; !isNull(raw) {
		var assignee domain.User
		if err := json.Unmarshal(raw, &assignee); err != nil {
			return domain.Card{}, &FieldError{IssueKey: issue.Key, Field: "assignee", Reason: err.Error()}
		}
		card.AssigneeName = assignee.Name
		card.AssigneeFullName = assignee.DisplayName
		card.AssigneeAvatar = assignee.AvatarURLs[domain.AvatarSize]
	}

	return card, nil
}

func (t *Transformer) summary(issue domain.Issue) (string, error) {
	raw, ok := issue.Fields["summary"]
	if !ok || isNull(raw) {
		return "", &FieldError{IssueKey: issue.Key, Field: "summary", Reason: "missing"}
	}
	var summary string
	if err := json.Unmarshal(raw, &summary); err != nil {
		return "", &FieldError{IssueKey: issue.Key, Field: "summary", Reason: "not a string"}
	}
	return summary, nil
}

// project reads fields[Field][Key] as a string.
func (t *Transformer) project(issue domain.Issue) (string, error) {
	path := t.projectField.String()

	raw, ok := issue.Fields[t.projectField.Field]
	if !ok || isNull(raw) {
		return "", &FieldError{IssueKey: issue.Key, Field: path, Reason: fmt.Sprintf("field %q missing", t.projectField.Field)}
	}

	var outer map[string]json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil {
		return "", &FieldError{IssueKey: issue.Key, Field: path, Reason: fmt.Sprintf("field %q is not an object", t.projectField.Field)}
	}

	inner, ok := outer[t.projectField.Key]
	if !ok || isNull(inner) {
		return "", &FieldError{IssueKey: issue.Key, Field: path, Reason: fmt.Sprintf("key %q missing", t.projectField.Key)}
	}

	var project string
	if err := json.Unmarshal(inner, &project); err != nil {
		return "", &FieldError{IssueKey: issue.Key, Field: path, Reason: fmt.Sprintf("key %q is not a string", t.projectField.Key)}
	}
	return project, nil
}

// isNull reports whether a raw field is absent or JSON null.
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
