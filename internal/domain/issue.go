package domain

import "encoding/json"

// Issue represents a raw issue as returned by the Jira search endpoint.
// Fields are kept undecoded because the project field is configurable.
type Issue struct {
	Key       string                     `json:"key"`
	Fields    map[string]json.RawMessage `json:"fields"`
	Changelog Changelog                  `json:"changelog"`
}

// Changelog holds the issue history, oldest entry first.
type Changelog struct {
	Histories []History `json:"histories"`
}

// History is a single timestamped changelog entry.
type History struct {
	Created string       `json:"created"`
	Items   []ChangeItem `json:"items"`
}

// ChangeItem describes one field change inside a History entry.
type ChangeItem struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

// IsTransitionTo reports whether the item moves the issue into the given status.
func (i ChangeItem) IsTransitionTo(status string) bool {
	return i.Field == StatusField && i.ToString == status
}

// User is a Jira user as embedded in the assignee field.
type User struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"displayName"`
	AvatarURLs  map[string]string `json:"avatarUrls"`
}

// Card is the flattened view of an issue consumed by the board templates.
// Recreated on every request.
type Card struct {
	Key              string
	Summary          string
	AssigneeName     string
	AssigneeFullName string
	AssigneeAvatar   string
	Project          string
	Color            string
	Flagged          bool
	Age              int
}
