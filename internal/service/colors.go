package service

import (
	"slices"
	"strings"

	"github.com/vilaca/teamboard/internal/config"
)

// ColorResolver maps project names to their configured display color.
type ColorResolver struct {
	groups       config.ProjectGroups
	defaultColor string
}

// NewColorResolver creates a resolver. Aliases in groups are expected lowercase,
// as produced by config.Load.
func NewColorResolver(groups config.ProjectGroups, defaultColor string) *ColorResolver {
	return &ColorResolver{
		groups:       groups,
		defaultColor: defaultColor,
	}
}

// Color returns the color of the first group listing project (case-insensitive),
// or the default color.
func (r *ColorResolver) Color(project string) string {
	name := strings.ToLower(strings.TrimSpace(project))
	for _, group := range r.groups {
		if slices.Contains(group.SubProjects, name) {
			return group.Color
		}
	}
	return r.defaultColor
}
