package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vilaca/teamboard/internal/domain"
)

// Defaults applied when the file leaves a value unset.
const (
	DefaultPort       = 8080
	DefaultPageSize   = 50
	DefaultTimeout    = 30 * time.Second
	DefaultConfigPath = "teamboard.yaml"
)

// Supported Jira authentication schemes.
const (
	AuthBasic  = "basic"
	AuthBearer = "bearer"
)

// Config holds application configuration.
// Loaded once at startup and read-only afterwards.
type Config struct {
	Port                int                `yaml:"port"`
	IssueTracker        IssueTrackerConfig `yaml:"issue_tracker"`
	Tokens              TokensConfig       `yaml:"tokens"`
	Projects            ProjectGroups      `yaml:"projects"`
	DefaultProjectColor string             `yaml:"default_project_color"`
}

// IssueTrackerConfig describes the Jira instance and what to query on it.
type IssueTrackerConfig struct {
	URL string `yaml:"url"`

	// Project is spliced verbatim into "project in (...)", so it may list several keys.
	Project string `yaml:"project"`

	// ProjectField locates the display project name inside an issue's fields.
	ProjectField FieldPath `yaml:"project_field"`

	FlaggedField string        `yaml:"flagged_field"`
	AuthScheme   string        `yaml:"auth_scheme"`
	PageSize     int           `yaml:"page_size"`
	Timeout      time.Duration `yaml:"timeout"`
}

// TokensConfig holds credentials. Never logged.
type TokensConfig struct {
	JiraToken string `yaml:"jira_token"`
}

// FieldPath is a two-level path into an issue's fields: fields[Field][Key].
type FieldPath struct {
	Field string `yaml:"field"`
	Key   string `yaml:"key"`
}

// String returns the path in its "field/key" form.
func (p FieldPath) String() string {
	return p.Field + "/" + p.Key
}

// IsZero reports whether the path is unset.
func (p FieldPath) IsZero() bool {
	return p.Field == "" && p.Key == ""
}

// ParseFieldPath parses a "field/key" string.
func ParseFieldPath(s string) (FieldPath, error) {
	field, key, ok := strings.Cut(strings.TrimSpace(s), "/")
	field, key = strings.TrimSpace(field), strings.TrimSpace(key)
	if !ok || field == "" || key == "" || strings.Contains(key, "/") {
		return FieldPath{}, fmt.Errorf("invalid field path %q: expected \"field/key\"", s)
	}
	return FieldPath{Field: field, Key: key}, nil
}

// UnmarshalYAML accepts either "field/key" or a {field, key} mapping.
func (p *FieldPath) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := ParseFieldPath(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*p = parsed
		return nil
	case yaml.MappingNode:
		type plain FieldPath
		var raw plain
		if err := node.Decode(&raw); err != nil {
			return err
		}
		*p = FieldPath{Field: strings.TrimSpace(raw.Field), Key: strings.TrimSpace(raw.Key)}
		return nil
	default:
		return fmt.Errorf("line %d: project_field must be a string or a mapping", node.Line)
	}
}

// colorPattern accepts hex colors (#rgb, #rgba, #rrggbb, #rrggbbaa) and CSS color keywords.
// html/template blanks functional forms such as rgb(...) inside style attributes.
var colorPattern = regexp.MustCompile(`^(#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|[a-zA-Z]+)$`)

// ValidColor reports whether c can be used as a project color.
func ValidColor(c string) bool {
	return colorPattern.MatchString(c)
}

// projectGroupKeys are the keys allowed inside a project group.
var projectGroupKeys = map[string]bool{"color": true, "sub_projects": true}

// ProjectGroup maps a set of project aliases to one display color.
type ProjectGroup struct {
	Name        string   `yaml:"-"`
	Color       string   `yaml:"color"`
	SubProjects []string `yaml:"sub_projects"`
}

// ProjectGroups keeps the parent projects in file order, so the first match wins deterministically.
type ProjectGroups []ProjectGroup

// UnmarshalYAML decodes a parent-name -> group mapping preserving order.
func (g *ProjectGroups) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: projects must be a mapping of parent project to group", node.Line)
	}

	groups := make(ProjectGroups, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if err := checkGroupKeys(name, node.Content[i+1]); err != nil {
			return err
		}
		var group ProjectGroup
		if err := node.Content[i+1].Decode(&group); err != nil {
			return fmt.Errorf("project %q: %w", name, err)
		}
		group.Name = name
		groups = append(groups, group)
	}

	*g = groups
	return nil
}

// checkGroupKeys rejects unknown keys in a group; node.Decode does not inherit KnownFields.
func checkGroupKeys(name string, node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !projectGroupKeys[key.Value] {
			return fmt.Errorf("project %q: line %d: field %s not found", name, key.Line, key.Value)
		}
	}
	return nil
}

// Load reads the YAML file at path, applies environment overrides and defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse is Load without the file read.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// PathFromEnv returns the config path from TEAMBOARD_CONFIG or the default.
func PathFromEnv() string {
	return getEnvOrDefault("TEAMBOARD_CONFIG", DefaultConfigPath)
}

// Validate checks that every required key is present and consistent.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.IssueTracker.URL == "" {
		errs = append(errs, errors.New("issue_tracker.url is required"))
	}
	if c.IssueTracker.Project == "" {
		errs = append(errs, errors.New("issue_tracker.project is required"))
	}
	if c.IssueTracker.ProjectField.Field == "" || c.IssueTracker.ProjectField.Key == "" {
		errs = append(errs, errors.New("issue_tracker.project_field needs both a field and a key"))
	}
	switch c.IssueTracker.AuthScheme {
	case AuthBasic, AuthBearer:
	default:
		errs = append(errs, fmt.Errorf("issue_tracker.auth_scheme %q is not one of basic, bearer", c.IssueTracker.AuthScheme))
	}
	if c.IssueTracker.PageSize < 1 {
		errs = append(errs, fmt.Errorf("issue_tracker.page_size %d must be positive", c.IssueTracker.PageSize))
	}
	if c.IssueTracker.Timeout < 0 {
		errs = append(errs, fmt.Errorf("issue_tracker.timeout %s must not be negative", c.IssueTracker.Timeout))
	}
	if c.Tokens.JiraToken == "" {
		errs = append(errs, errors.New("tokens.jira_token is required (or set JIRA_TOKEN)"))
	}
	if c.Projects == nil {
		errs = append(errs, errors.New("projects mapping is required"))
	}
	if c.DefaultProjectColor == "" {
		errs = append(errs, errors.New("default_project_color is required"))
	} else if !ValidColor(c.DefaultProjectColor) {
		errs = append(errs, fmt.Errorf("default_project_color %q must be a hex color or a color name", c.DefaultProjectColor))
	}

	owner := make(map[string]string)
	for _, group := range c.Projects {
		if group.Color == "" {
			errs = append(errs, fmt.Errorf("projects.%s.color is required", group.Name))
		} else if !ValidColor(group.Color) {
			errs = append(errs, fmt.Errorf("projects.%s.color %q must be a hex color or a color name", group.Name, group.Color))
		}
		for _, alias := range group.SubProjects {
			if prev, dup := owner[alias]; dup {
				errs = append(errs, fmt.Errorf("sub project %q listed under both %q and %q", alias, prev, group.Name))
				continue
			}
			owner[alias] = group.Name
		}
	}

	return errors.Join(errs...)
}

// SearchFields returns the issue fields requested from Jira.
func (c *Config) SearchFields() []string {
	return []string{"summary", "assignee", c.IssueTracker.FlaggedField, c.IssueTracker.ProjectField.Field}
}

// applyEnv overrides file values with environment variables.
func (c *Config) applyEnv() {
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			c.Port = p
		}
	}
	c.IssueTracker.URL = getEnvOrDefault("JIRA_URL", c.IssueTracker.URL)
	c.Tokens.JiraToken = getEnvOrDefault("JIRA_TOKEN", c.Tokens.JiraToken)
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.IssueTracker.FlaggedField == "" {
		c.IssueTracker.FlaggedField = domain.DefaultFlaggedField
	}
	if c.IssueTracker.AuthScheme == "" {
		c.IssueTracker.AuthScheme = AuthBasic
	}
	if c.IssueTracker.PageSize == 0 {
		c.IssueTracker.PageSize = DefaultPageSize
	}
	if c.IssueTracker.Timeout == 0 {
		c.IssueTracker.Timeout = DefaultTimeout
	}
}

// normalize trims values and lowercases project aliases for case-insensitive lookup.
func (c *Config) normalize() {
	c.IssueTracker.URL = strings.TrimRight(strings.TrimSpace(c.IssueTracker.URL), "/")
	c.IssueTracker.Project = strings.TrimSpace(c.IssueTracker.Project)
	c.IssueTracker.AuthScheme = strings.ToLower(strings.TrimSpace(c.IssueTracker.AuthScheme))
	c.Tokens.JiraToken = strings.TrimSpace(c.Tokens.JiraToken)
	c.DefaultProjectColor = strings.TrimSpace(c.DefaultProjectColor)

	for i := range c.Projects {
		c.Projects[i].Color = strings.TrimSpace(c.Projects[i].Color)
		aliases := make([]string, 0, len(c.Projects[i].SubProjects))
		for _, alias := range c.Projects[i].SubProjects {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias != "" {
				aliases = append(aliases, alias)
			}
		}
		c.Projects[i].SubProjects = aliases
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
