package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"

	"github.com/wechange-eg/cosinnus-core-sub001/internal/domain"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "COSINNUS_"

// Config is the immutable application configuration
type Config struct {
	Server ServerConfig `toml:"server" envPrefix:"SERVER_"`
	Search SearchConfig `toml:"search" envPrefix:"SEARCH_"`
	Page   PageConfig   `toml:"page"`
	UI     UISettings   `toml:"ui" envPrefix:"UI_"`
	Map    MapConfig    `toml:"map"`
	Dev    DevConfig    `toml:"dev" envPrefix:"DEV_"`
	Log    LogConfig    `toml:"log" envPrefix:"LOG_"`
}

// ServerConfig locates the search endpoint
type ServerConfig struct {
	BaseURL        string `toml:"base_url" env:"BASE_URL"`
	SearchPath     string `toml:"search_path" env:"SEARCH_PATH"`
	QuickPath      string `toml:"quicksearch_path" env:"QUICKSEARCH_PATH"`
	FilterGroup    string `toml:"filter_group" env:"FILTER_GROUP"`
	RequestTimeout int    `toml:"request_timeout_ms" env:"REQUEST_TIMEOUT_MS"`
}

// SearchConfig tunes the search coordinator
type SearchConfig struct {
	DebounceMS         int  `toml:"debounce_ms" env:"DEBOUNCE_MS"`
	ExtendedDebounceMS int  `toml:"extended_debounce_ms" env:"EXTENDED_DEBOUNCE_MS"`
	MinQueryLength     int  `toml:"min_query_length" env:"MIN_QUERY_LENGTH"`
	PageSize           int  `toml:"page_size" env:"PAGE_SIZE"`
	InfiniteScroll     bool `toml:"infinite_scroll" env:"INFINITE_SCROLL"`
}

// PageConfig holds the constants a portal page provides
type PageConfig struct {
	Portal      string            `toml:"portal"`
	Features    map[string]bool   `toml:"features"`
	MarkerIcons map[string]string `toml:"marker_icons"` // result type name -> icon
	Topics      []Label           `toml:"topics"`
	SDGs        []Label           `toml:"sdgs"`
	ManagedTags []Label           `toml:"managed_tags"`
}

// Label names one filter id
type Label struct {
	ID   int    `toml:"id"`
	Name string `toml:"name"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	CompactWidth int  `toml:"compact_width" env:"COMPACT_WIDTH"`
	HoverRate    int  `toml:"hover_rate" env:"HOVER_RATE"` // hover updates per second
	Mouse        bool `toml:"mouse" env:"MOUSE"`
}

// MapConfig is the initial viewport
type MapConfig struct {
	South float64 `toml:"south"`
	West  float64 `toml:"west"`
	North float64 `toml:"north"`
	East  float64 `toml:"east"`
}

// DevConfig configures the development search endpoint
type DevConfig struct {
	Addr      string `toml:"addr" env:"ADDR"`
	LatencyMS int    `toml:"latency_ms" env:"LATENCY_MS"`
	Fixtures  string `toml:"fixtures" env:"FIXTURES"` // empty uses the embedded set
}

// LogConfig configures the log file
type LogConfig struct {
	File    string `toml:"file" env:"FILE"`
	Verbose bool   `toml:"verbose" env:"VERBOSE"`
}

// Overrides are command line values; empty fields leave the config unchanged
type Overrides struct {
	BaseURL        string
	FilterGroup    string
	LogFile        string
	Verbose        bool
	InfiniteScroll bool
	Addr           string
	LatencyMS      int
}

// LoadOptions controls Load
type LoadOptions struct {
	Path        string            // TOML file; empty uses DefaultPath
	Required    bool              // a missing file is an error
	Environment map[string]string // nil reads the process environment
	Overrides   Overrides
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8000",
			SearchPath:     "/maps/search/",
			QuickPath:      "/search/api/quicksearch/",
			RequestTimeout: 10000,
		},
		Search: SearchConfig{
			DebounceMS:         400,
			ExtendedDebounceMS: 5000,
			MinQueryLength:     3,
			PageSize:           50,
		},
		Page: PageConfig{
			Portal:   "wechange",
			Features: map[string]bool{},
			MarkerIcons: map[string]string{
				domain.TypePeople.String():        "☺",
				domain.TypeEvents.String():        "◷",
				domain.TypeProjects.String():      "◆",
				domain.TypeGroups.String():        "●",
				domain.TypeIdeas.String():         "✶",
				domain.TypeOrganizations.String(): "■",
				domain.TypeCloudfile.String():     "▤",
			},
		},
		UI: UISettings{
			CompactWidth: 100,
			HoverRate:    20,
			Mouse:        true,
		},
		Map: MapConfig{South: 47.2, West: 5.8, North: 55.1, East: 15.1},
		Dev: DevConfig{Addr: "127.0.0.1:8000"},
		Log: LogConfig{File: "cosinnus.log"},
	}
}

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "cosinnus", "config.toml")
}

// Load assembles the configuration: defaults, then the TOML file, then the
// environment, then command line overrides
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()

	path := opts.Path
	if path == "" {
		path = DefaultPath()
	}
	if err := loadFile(&cfg, path, opts.Required); err != nil {
		return Config{}, err
	}

	envOpts := env.Options{Prefix: EnvPrefix, Environment: opts.Environment}
	if err := env.ParseWithOptions(&cfg, envOpts); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	opts.Overrides.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse reads a TOML document on top of the defaults
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

func loadFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			return fmt.Errorf("failed to parse config %s:%d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (o Overrides) apply(cfg *Config) {
	if o.BaseURL != "" {
		cfg.Server.BaseURL = o.BaseURL
	}
	if o.FilterGroup != "" {
		cfg.Server.FilterGroup = o.FilterGroup
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
	if o.Verbose {
		cfg.Log.Verbose = true
	}
	if o.InfiniteScroll {
		cfg.Search.InfiniteScroll = true
	}
	if o.Addr != "" {
		cfg.Dev.Addr = o.Addr
	}
	if o.LatencyMS > 0 {
		cfg.Dev.LatencyMS = o.LatencyMS
	}
}

// Validate reports every invalid setting
func (c Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.Server.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("server.base_url %q is not an absolute URL", c.Server.BaseURL))
	}
	if c.Server.SearchPath == "" {
		errs = append(errs, errors.New("server.search_path must not be empty"))
	}
	if c.Search.DebounceMS <= 0 {
		errs = append(errs, errors.New("search.debounce_ms must be positive"))
	}
	if c.Search.ExtendedDebounceMS < c.Search.DebounceMS {
		errs = append(errs, errors.New("search.extended_debounce_ms must not be below debounce_ms"))
	}
	if c.Search.MinQueryLength < 1 {
		errs = append(errs, errors.New("search.min_query_length must be at least 1"))
	}
	if c.Search.PageSize < 1 {
		errs = append(errs, errors.New("search.page_size must be at least 1"))
	}
	if c.UI.HoverRate < 1 {
		errs = append(errs, errors.New("ui.hover_rate must be at least 1"))
	}
	if c.Map.South >= c.Map.North || c.Map.West >= c.Map.East {
		errs = append(errs, errors.New("map bounds must have south < north and west < east"))
	}
	return errors.Join(errs...)
}

// BaseDelay is the debounce delay while idle
func (c Config) BaseDelay() time.Duration {
	return time.Duration(c.Search.DebounceMS) * time.Millisecond
}

// ExtendedDelay is the debounce delay while a request is in flight
func (c Config) ExtendedDelay() time.Duration {
	return time.Duration(c.Search.ExtendedDebounceMS) * time.Millisecond
}

// RequestTimeout bounds each search request
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeout) * time.Millisecond
}

// Latency is the artificial delay of the development endpoint
func (c Config) Latency() time.Duration {
	return time.Duration(c.Dev.LatencyMS) * time.Millisecond
}

// StartBounds is the initial map viewport
func (c Config) StartBounds() domain.Bounds {
	return domain.Bounds{South: c.Map.South, West: c.Map.West, North: c.Map.North, East: c.Map.East}
}

// Icon returns the marker icon of a result type
func (c Config) Icon(t domain.ResultType) string {
	if icon, ok := c.Page.MarkerIcons[t.String()]; ok {
		return icon
	}
	return "•"
}

// Feature reports whether a page feature flag is enabled
func (c Config) Feature(name string) bool {
	return c.Page.Features[name]
}

// TopicName returns the label of a topic id, or the id itself
func (c Config) TopicName(id int) string {
	return labelName(c.Page.Topics, id)
}

// SDGName returns the label of an SDG id, or the id itself
func (c Config) SDGName(id int) string {
	return labelName(c.Page.SDGs, id)
}

// ManagedTagName returns the label of a managed tag id, or the id itself
func (c Config) ManagedTagName(id int) string {
	return labelName(c.Page.ManagedTags, id)
}

func labelName(labels []Label, id int) string {
	for _, l := range labels {
		if l.ID == id {
			return l.Name
		}
	}
	return strconv.Itoa(id)
}
