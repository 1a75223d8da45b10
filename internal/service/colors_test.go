package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vilaca/teamboard/internal/config"
)

func testGroups() config.ProjectGroups {
	return config.ProjectGroups{
		{Name: "platform", Color: "#3366ff", SubProjects: []string{"core", "api"}},
		{Name: "mobile", Color: "green", SubProjects: []string{"ios", "android"}},
	}
}

func TestColorResolver_Color(t *testing.T) {
	resolver := NewColorResolver(testGroups(), "#999999")

	tests := []struct {
		project  string
		expected string
	}{
		{"core", "#3366ff"},
		{"API", "#3366ff"},
		{"Android", "green"},
		{" ios ", "green"},
		{"billing", "#999999"},
		{"", "#999999"},
	}

	for _, tt := range tests {
		t.Run(tt.project, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolver.Color(tt.project))
		})
	}
}

func TestColorResolver_CaseInsensitive(t *testing.T) {
	resolver := NewColorResolver(config.ProjectGroups{
		{Name: "abc", Color: "red", SubProjects: []string{"abc"}},
	}, "grey")

	assert.Equal(t, resolver.Color("abc"), resolver.Color("ABC"))
	assert.Equal(t, "red", resolver.Color("AbC"))
}

func TestColorResolver_FirstGroupWins(t *testing.T) {
	resolver := NewColorResolver(config.ProjectGroups{
		{Name: "first", Color: "red", SubProjects: []string{"shared"}},
		{Name: "second", Color: "blue", SubProjects: []string{"shared"}},
	}, "grey")

	assert.Equal(t, "red", resolver.Color("shared"))
}

func TestColorResolver_NoGroups(t *testing.T) {
	resolver := NewColorResolver(config.ProjectGroups{}, "grey")

	assert.Equal(t, "grey", resolver.Color("anything"))
}
