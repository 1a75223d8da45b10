package domain

// Changelog values that mark an issue entering progress.
const (
	// StatusField is the changelog field name for workflow transitions
	StatusField = "status"
	// StatusInProgress is the target status counted by the age calculation
	StatusInProgress = "In Progress"
)

// AvatarSize is the avatarUrls key used for assignee avatars.
const AvatarSize = "48x48"

// DefaultFlaggedField is the Jira custom field holding the "flagged" impediment marker.
const DefaultFlaggedField = "customfield_10200"
