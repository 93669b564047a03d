// Package config provides configuration types, defaults, loading and
// persistence for panelshell.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"panelshell/internal/panel"
)

// ErrInvalidPanel is returned by Validate for a malformed panel entry.
var ErrInvalidPanel = errors.New("invalid panel")

// EnvPrefix is the prefix for environment overrides, e.g.
// PANELSHELL_LOG_LEVEL=debug.
const EnvPrefix = "PANELSHELL"

// Content types.
const (
	ContentText     = "text"
	ContentResource = "resource"
	ContentCommand  = "command"
)

// Config holds all panelshell configuration.
type Config struct {
	Panels    []PanelConfig   `mapstructure:"panels"`
	UI        UIConfig        `mapstructure:"ui"`
	Resources ResourcesConfig `mapstructure:"resources"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Control   ControlConfig   `mapstructure:"control"`
}

// PanelConfig declares one overlay panel.
type PanelConfig struct {
	Name         string        `mapstructure:"name"`
	Title        string        `mapstructure:"title"`
	Key          string        `mapstructure:"key"`
	Priority     string        `mapstructure:"priority"`
	Suppressible bool          `mapstructure:"suppressible"`
	Content      ContentConfig `mapstructure:"content"`
}

// ContentConfig describes what a panel shows.
type ContentConfig struct {
	Type     string        `mapstructure:"type"`
	Text     string        `mapstructure:"text"`
	Resource string        `mapstructure:"resource"`
	Command  string        `mapstructure:"command"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// UIConfig holds shell display settings.
type UIConfig struct {
	CloseAnimation time.Duration `mapstructure:"close_animation"`
	StatusBar      bool          `mapstructure:"status_bar"`
	Mouse          bool          `mapstructure:"mouse"`
}

// ResourcesConfig configures the resource loader.
type ResourcesConfig struct {
	Dir           string        `mapstructure:"dir"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	MarkdownWidth int           `mapstructure:"markdown_width"`
	Watch         bool          `mapstructure:"watch"`
}

// LogConfig configures the file logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// TracingConfig configures OTLP export of panel spans.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Exporter    string `mapstructure:"exporter"`
	Endpoint    string `mapstructure:"endpoint"`
	File        string `mapstructure:"file"`
	ServiceName string `mapstructure:"service_name"`
	Insecure    bool   `mapstructure:"insecure"`
}

// ControlConfig configures the local HTTP control server.
type ControlConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// DefaultPanels returns the panels used when none are configured.
func DefaultPanels() []PanelConfig {
	return []PanelConfig{
		{
			Name:         "help",
			Title:        "Help",
			Key:          "h",
			Priority:     "low",
			Suppressible: true,
			Content: ContentConfig{
				Type: ContentText,
				Text: "Press SPC to open the command menu. esc closes the panel on top, SPC c closes every panel.",
			},
		},
		{
			Name:         "notes",
			Title:        "Notes",
			Key:          "n",
			Priority:     "medium",
			Suppressible: true,
			Content: ContentConfig{
				Type:     ContentResource,
				Resource: "notes.md",
			},
		},
		{
			Name:     "uptime",
			Title:    "Uptime",
			Key:      "u",
			Priority: "high",
			Content: ContentConfig{
				Type:    ContentCommand,
				Command: "uptime",
				Timeout: 5 * time.Second,
			},
		},
	}
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Panels: DefaultPanels(),
		UI: UIConfig{
			CloseAnimation: 150 * time.Millisecond,
			StatusBar:      true,
			Mouse:          true,
		},
		Resources: ResourcesConfig{
			Dir:           ".panelshell/resources",
			CacheTTL:      5 * time.Minute,
			MarkdownWidth: 80,
			Watch:         true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			File:   defaultLogFile(),
		},
		Tracing: TracingConfig{
			Exporter:    "otlp-http",
			Endpoint:    "localhost:4318",
			ServiceName: "panelshell",
			Insecure:    true,
		},
		Control: ControlConfig{
			Addr: "127.0.0.1:7878",
		},
	}
}

func defaultLogFile() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "panelshell", "panelshell.log")
	}
	return filepath.Join(os.TempDir(), "panelshell.log")
}

// SetDefaults registers every default value with v so env overrides and
// partial files resolve against them.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("ui.close_animation", d.UI.CloseAnimation)
	v.SetDefault("ui.status_bar", d.UI.StatusBar)
	v.SetDefault("ui.mouse", d.UI.Mouse)
	v.SetDefault("resources.dir", d.Resources.Dir)
	v.SetDefault("resources.cache_ttl", d.Resources.CacheTTL)
	v.SetDefault("resources.markdown_width", d.Resources.MarkdownWidth)
	v.SetDefault("resources.watch", d.Resources.Watch)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("tracing.insecure", d.Tracing.Insecure)
	v.SetDefault("control.enabled", d.Control.Enabled)
	v.SetDefault("control.addr", d.Control.Addr)
}

// SearchPaths returns the config file locations checked in order when no
// explicit path is given.
func SearchPaths() []string {
	paths := []string{filepath.Join(".panelshell", "config.yaml")}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "panelshell", "config.yaml"))
	}
	return paths
}

// Resolve returns path if set, else the first existing search path.
// It returns "" when no config file exists.
func Resolve(path string) string {
	if path != "" {
		return path
	}
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// NewViper returns a viper instance with defaults and env overrides wired.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the config at path (or the first search path found) and
// returns the validated result along with the viper instance used, which
// callers may Watch. A missing file yields defaults.
func Load(path string) (Config, *viper.Viper, error) {
	v := NewViper()
	if file := Resolve(path); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, nil, fmt.Errorf("reading config %s: %w", file, err)
		}
	}
	cfg, err := Decode(v)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, v, nil
}

// Decode unmarshals v into a Config, fills default panels and validates.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if len(cfg.Panels) == 0 {
		cfg.Panels = DefaultPanels()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Watch calls onChange with the re-decoded config whenever the file
// backing v changes. Invalid edits are reported through onError and the
// previous config stays in effect.
func Watch(v *viper.Viper, onChange func(Config), onError func(error)) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(fsnotify.Event) {
		cfg, err := Decode(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := ValidatePanels(c.Panels); err != nil {
		return err
	}
	if c.UI.CloseAnimation < 0 {
		return fmt.Errorf("ui.close_animation must not be negative")
	}
	if c.Resources.MarkdownWidth < 0 {
		return fmt.Errorf("resources.markdown_width must not be negative")
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log.format %q: must be console or json", c.Log.Format)
	}
	switch c.Tracing.Exporter {
	case "", "otlp-http", "otlp-grpc":
	case "file":
		if c.Tracing.Enabled && c.Tracing.File == "" {
			return fmt.Errorf("tracing.file is required for the file exporter")
		}
	default:
		return fmt.Errorf("tracing.exporter %q: must be otlp-http, otlp-grpc or file", c.Tracing.Exporter)
	}
	if c.Control.Enabled && c.Control.Addr == "" {
		return fmt.Errorf("control.addr is required when control is enabled")
	}
	return nil
}

// ValidatePanels checks panel entries for required fields, unique names
// and keys, known priorities and complete content.
func ValidatePanels(panels []PanelConfig) error {
	names := make(map[string]int, len(panels))
	keys := make(map[string]int, len(panels))
	for i, p := range panels {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("panel %d: name is required: %w", i, ErrInvalidPanel)
		}
		if j, dup := names[p.Name]; dup {
			return fmt.Errorf("panel %d: name %q already used by panel %d: %w", i, p.Name, j, ErrInvalidPanel)
		}
		names[p.Name] = i
		if p.Key != "" {
			if len([]rune(p.Key)) != 1 {
				return fmt.Errorf("panel %q: key %q must be a single character: %w", p.Name, p.Key, ErrInvalidPanel)
			}
			if j, dup := keys[p.Key]; dup {
				return fmt.Errorf("panel %q: key %q already used by panel %d: %w", p.Name, p.Key, j, ErrInvalidPanel)
			}
			keys[p.Key] = i
		}
		if _, err := panel.ParsePriority(p.Priority); err != nil {
			return fmt.Errorf("panel %q: %v: %w", p.Name, err, ErrInvalidPanel)
		}
		if err := validateContent(p.Content); err != nil {
			return fmt.Errorf("panel %q: %v: %w", p.Name, err, ErrInvalidPanel)
		}
	}
	return nil
}

func validateContent(c ContentConfig) error {
	switch c.Type {
	case "", ContentText:
		return nil
	case ContentResource:
		if c.Resource == "" {
			return errors.New("resource content requires resource")
		}
	case ContentCommand:
		if strings.TrimSpace(c.Command) == "" {
			return errors.New("command content requires command")
		}
		if c.Timeout < 0 {
			return errors.New("command timeout must not be negative")
		}
	default:
		return fmt.Errorf("unknown content type %q", c.Type)
	}
	return nil
}

// PanelPriority returns the parsed priority of p. Validate guarantees it
// parses; an invalid value falls back to medium.
func (p PanelConfig) PanelPriority() panel.Priority {
	prio, err := panel.ParsePriority(p.Priority)
	if err != nil {
		return panel.PriorityMedium
	}
	return prio
}

// DisplayTitle returns the title, or the name when no title is set.
func (p PanelConfig) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Name
}

// Panel returns the named panel config.
func (c Config) Panel(name string) (PanelConfig, bool) {
	for _, p := range c.Panels {
		if p.Name == name {
			return p, true
		}
	}
	return PanelConfig{}, false
}
