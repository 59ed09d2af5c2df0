// Package config loads, validates, and re-serializes MkDocs-style site
// configuration files. Ordered sections (nav, plugins, markdown_extensions,
// extra assets) keep their document order through a load/save cycle.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	siteerrors "github.com/docsmith/docsmith/internal/errors"
	"github.com/docsmith/docsmith/internal/nav"
)

// Config represents a full site configuration file.
type Config struct {
	SiteName        string   `yaml:"site_name"`
	RepoName        string   `yaml:"repo_name,omitempty"`
	RepoURL         string   `yaml:"repo_url,omitempty"`
	GoogleAnalytics []string `yaml:"google_analytics,omitempty"`

	DocsDir string `yaml:"docs_dir,omitempty"`
	SiteDir string `yaml:"site_dir,omitempty"`

	Nav                nav.Tree      `yaml:"nav,omitempty"`
	Theme              ThemeConfig   `yaml:"theme,omitempty"`
	Plugins            []string      `yaml:"plugins,omitempty"`
	MarkdownExtensions ExtensionList `yaml:"markdown_extensions,omitempty"`
	ExtraCSS           []string      `yaml:"extra_css,omitempty"`
	ExtraJavascript    []string      `yaml:"extra_javascript,omitempty"`

	Serve  *ServeConfig  `yaml:"serve,omitempty"`
	Daemon *DaemonConfig `yaml:"daemon,omitempty"`
}

// ThemeConfig represents the theme block.
type ThemeConfig struct {
	Name      string    `yaml:"name"`
	Logo      string    `yaml:"logo,omitempty"`
	Favicon   string    `yaml:"favicon,omitempty"`
	CustomDir string    `yaml:"custom_dir,omitempty"`
	Palette   []Palette `yaml:"palette,omitempty"`
}

// Palette is one color scheme variant of the theme.
type Palette struct {
	Scheme  string        `yaml:"scheme,omitempty"`
	Primary string        `yaml:"primary,omitempty"`
	Accent  string        `yaml:"accent,omitempty"`
	Toggle  *ToggleConfig `yaml:"toggle,omitempty"`
}

// ToggleConfig describes the palette switcher control.
type ToggleConfig struct {
	Icon string `yaml:"icon,omitempty"`
	Name string `yaml:"name,omitempty"`
}

// Extension is a markdown extension reference, optionally with options.
type Extension struct {
	Name    string
	Options map[string]any
}

// ExtensionList preserves the authored order of markdown_extensions.
type ExtensionList []Extension

// UnmarshalYAML decodes the two authored shapes of an extension entry:
//
//	- footnotes
//	- toc:
//	    permalink: true
func (e *Extension) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		e.Name = value.Value
		return nil
	case yaml.MappingNode:
		if len(value.Content) != 2 {
			return fmt.Errorf("line %d: markdown extension entry must have exactly one name", value.Line)
		}
		e.Name = value.Content[0].Value
		opts := make(map[string]any)
		if err := value.Content[1].Decode(&opts); err != nil {
			return fmt.Errorf("line %d: invalid options for extension %q: %w", value.Line, e.Name, err)
		}
		e.Options = opts
		return nil
	default:
		return fmt.Errorf("line %d: markdown extension entry must be a name or a single-key mapping", value.Line)
	}
}

// MarshalYAML encodes the entry back into the shape it was authored in.
func (e Extension) MarshalYAML() (any, error) {
	if len(e.Options) == 0 {
		return e.Name, nil
	}
	return map[string]map[string]any{e.Name: e.Options}, nil
}

// Names returns the ordered extension names.
func (l ExtensionList) Names() []string {
	names := make([]string, 0, len(l))
	for _, e := range l {
		names = append(names, e.Name)
	}
	return names
}

// Get returns the extension with the given name, if present.
func (l ExtensionList) Get(name string) (Extension, bool) {
	for _, e := range l {
		if e.Name == name {
			return e, true
		}
	}
	return Extension{}, false
}

// ServeConfig configures the local preview server.
type ServeConfig struct {
	Address    string `yaml:"address,omitempty"`
	LiveReload *bool  `yaml:"live_reload,omitempty"`
	CacheSize  int    `yaml:"cache_size,omitempty"`
}

// DaemonConfig configures continuous-build mode.
type DaemonConfig struct {
	RebuildInterval string       `yaml:"rebuild_interval,omitempty"`
	StateDir        string       `yaml:"state_dir,omitempty"`
	GitSync         bool         `yaml:"git_sync,omitempty"`
	GitBranch       string       `yaml:"git_branch,omitempty"`
	Events          *EventsConfig `yaml:"events,omitempty"`
}

// EventsConfig configures NATS build-event publishing and the link cache.
type EventsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	NATSURL  string `yaml:"nats_url,omitempty"`
	Subject  string `yaml:"subject,omitempty"`
	KVBucket string `yaml:"kv_bucket,omitempty"`
}

// Load loads a site configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, siteerrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the working copy only. Parse stays
	// expansion-free so Marshal/Save keep authored ${VAR} references.
	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, siteerrors.ConfigParseFailed(configPath, err)
	}
	return cfg, nil
}

// ResolvePaths anchors relative directory settings at baseDir, usually
// the directory containing the configuration file. Serialization keeps
// the original relative values, so call this only on working copies.
func (c *Config) ResolvePaths(baseDir string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(baseDir, *p)
		}
	}
	resolve(&c.DocsDir)
	resolve(&c.SiteDir)
	resolve(&c.Theme.CustomDir)
}

// Parse decodes a site configuration from raw YAML. Environment
// references are left untouched so that a parsed config serializes back
// to its authored form; Load performs the expansion.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}
