package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
issue_tracker:
  url: https://jira.example.com/
  project: ABC, DEF
  project_field: components/name
tokens:
  jira_token: secret
projects:
  platform:
    color: "#3366ff"
    sub_projects: [Core, api]
  mobile:
    color: green
    sub_projects: [ios, android]
default_project_color: "#999999"
`

// clearEnv isolates a test from overrides set in the surrounding environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "JIRA_URL", "JIRA_TOKEN", "TEAMBOARD_CONFIG"} {
		t.Setenv(key, "")
	}
}

// TestParse_Defaults tests that unset values fall back to defaults.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestParse_Defaults(t *testing.T) {
	// Arrange
	clearEnv(t)

	// Act
	cfg, err := Parse([]byte(validConfig))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "https://jira.example.com", cfg.IssueTracker.URL)
	assert.Equal(t, "customfield_10200", cfg.IssueTracker.FlaggedField)
	assert.Equal(t, AuthBasic, cfg.IssueTracker.AuthScheme)
	assert.Equal(t, DefaultPageSize, cfg.IssueTracker.PageSize)
	assert.Equal(t, DefaultTimeout, cfg.IssueTracker.Timeout)
	assert.Equal(t, FieldPath{Field: "components", Key: "name"}, cfg.IssueTracker.ProjectField)
}

// TestParse_ProjectGroupsKeepFileOrder tests that groups keep their declaration order
// and aliases are lowercased.
func TestParse_ProjectGroupsKeepFileOrder(t *testing.T) {
	// Arrange
	clearEnv(t)

	// Act
	cfg, err := Parse([]byte(validConfig))

	// Assert
	require.NoError(t, err)
	require.Len(t, cfg.Projects, 2)
	assert.Equal(t, "platform", cfg.Projects[0].Name)
	assert.Equal(t, []string{"core", "api"}, cfg.Projects[0].SubProjects)
	assert.Equal(t, "mobile", cfg.Projects[1].Name)
	assert.Equal(t, "green", cfg.Projects[1].Color)
}

// TestParse_ProjectFieldMapping tests the explicit {field, key} form.
func TestParse_ProjectFieldMapping(t *testing.T) {
	// Arrange
	clearEnv(t)
	data := `
issue_tracker:
  url: https://jira.example.com
  project: ABC
  project_field:
    field: customfield_10100
    key: value
  auth_scheme: Bearer
  page_size: 10
  timeout: 5s
tokens:
  jira_token: secret
projects: {}
default_project_color: grey
`

	// Act
	cfg, err := Parse([]byte(data))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, FieldPath{Field: "customfield_10100", Key: "value"}, cfg.IssueTracker.ProjectField)
	assert.Equal(t, AuthBearer, cfg.IssueTracker.AuthScheme)
	assert.Equal(t, 10, cfg.IssueTracker.PageSize)
	assert.Equal(t, 5*time.Second, cfg.IssueTracker.Timeout)
	assert.NotNil(t, cfg.Projects)
	assert.Empty(t, cfg.Projects)
}

// TestParse_EnvOverrides tests that environment variables win over the file.
func TestParse_EnvOverrides(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("JIRA_URL", "https://other.example.com")
	t.Setenv("JIRA_TOKEN", "from-env")

	// Act
	cfg, err := Parse([]byte(validConfig))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "https://other.example.com", cfg.IssueTracker.URL)
	assert.Equal(t, "from-env", cfg.Tokens.JiraToken)
}

// TestParse_InvalidPortEnv tests that an invalid PORT falls back to the default.
func TestParse_InvalidPortEnv(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("PORT", "invalid")

	// Act
	cfg, err := Parse([]byte(validConfig))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{
			name:    "missing projects mapping",
			data:    "issue_tracker: {url: u, project: p, project_field: a/b}\ntokens: {jira_token: t}\ndefault_project_color: grey\n",
			wantErr: "projects mapping is required",
		},
		{
			name:    "missing default color",
			data:    "issue_tracker: {url: u, project: p, project_field: a/b}\ntokens: {jira_token: t}\nprojects: {}\n",
			wantErr: "default_project_color is required",
		},
		{
			name:    "malformed project field",
			data:    "issue_tracker: {url: u, project: p, project_field: components}\ntokens: {jira_token: t}\nprojects: {}\ndefault_project_color: grey\n",
			wantErr: "invalid field path",
		},
		{
			name:    "missing token",
			data:    "issue_tracker: {url: u, project: p, project_field: a/b}\nprojects: {}\ndefault_project_color: grey\n",
			wantErr: "tokens.jira_token is required",
		},
		{
			name:    "unknown auth scheme",
			data:    "issue_tracker: {url: u, project: p, project_field: a/b, auth_scheme: digest}\ntokens: {jira_token: t}\nprojects: {}\ndefault_project_color: grey\n",
			wantErr: "auth_scheme",
		},
		{
			name:    "duplicate alias",
			data:    "issue_tracker: {url: u, project: p, project_field: a/b}\ntokens: {jira_token: t}\nprojects:\n  one: {color: red, sub_projects: [abc]}\n  two: {color: blue, sub_projects: [ABC]}\ndefault_project_color: grey\n",
			wantErr: `sub project "abc" listed under both "one" and "two"`,
		},
		{
			name:    "unknown key",
			data:    "issue_tracker: {url: u, project: p, project_field: a/b}\ntokens: {jira_token: t}\nprojects: {}\ndefault_project_color: grey\ncolour: red\n",
			wantErr: "field colour not found",
		},
		{
			name:    "unknown key in project group",
			data:    "issue_tracker: {url: u, project: p, project_field: a/b}\ntokens: {jira_token: t}\nprojects:\n  a: {color: red, sub_project: [core]}\ndefault_project_color: grey\n",
			wantErr: `project "a": line 4: field sub_project not found`,
		},
		{
			name:    "functional group color",
			data:    "issue_tracker: {url: u, project: p, project_field: a/b}\ntokens: {jira_token: t}\nprojects:\n  a: {color: \"rgb(1,2,3)\", sub_projects: [core]}\ndefault_project_color: grey\n",
			wantErr: `projects.a.color "rgb(1,2,3)" must be a hex color or a color name`,
		},
		{
			name:    "malformed default color",
			data:    "issue_tracker: {url: u, project: p, project_field: a/b}\ntokens: {jira_token: t}\nprojects: {}\ndefault_project_color: \"#12345\"\n",
			wantErr: `default_project_color "#12345" must be a hex color or a color name`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			_, err := Parse([]byte(tt.data))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "teamboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validConfig), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "ABC, DEF", cfg.IssueTracker.Project)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestParseFieldPath(t *testing.T) {
	tests := []struct {
		in      string
		want    FieldPath
		wantErr bool
	}{
		{in: "components/name", want: FieldPath{Field: "components", Key: "name"}},
		{in: " project / key ", want: FieldPath{Field: "project", Key: "key"}},
		{in: "components", wantErr: true},
		{in: "/name", wantErr: true},
		{in: "a/b/c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFieldPath(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Field+"/"+tt.want.Key, got.String())
		})
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("TEAMBOARD_CONFIG", "")
	assert.Equal(t, DefaultConfigPath, PathFromEnv())

	t.Setenv("TEAMBOARD_CONFIG", "/etc/teamboard.yaml")
	assert.Equal(t, "/etc/teamboard.yaml", PathFromEnv())
}

func TestSearchFields(t *testing.T) {
	clearEnv(t)
	cfg, err := Parse([]byte(validConfig))
	require.NoError(t, err)

	assert.Equal(t, []string{"summary", "assignee", "customfield_10200", "components"}, cfg.SearchFields())
}

func TestValidColor(t *testing.T) {
	tests := []struct {
		color string
		want  bool
	}{
		{"#abc", true},
		{"#3366ff", true},
		{"#3366ff80", true},
		{"red", true},
		{"RebeccaPurple", true},
		{"#12345", false},
		{"#ggg", false},
		{"rgb(1,2,3)", false},
		{"hsl(120, 50%, 50%)", false},
		{"red; background: url(x)", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidColor(tt.color))
		})
	}
}
