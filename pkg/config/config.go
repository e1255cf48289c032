// Package config loads the crawler configuration.
//
// Values are layered, later layers winning:
//
//  1. built-in defaults (Default)
//  2. an optional YAML file (--config flag or CONFIG_FILE)
//  3. .env.local and .env in the working directory
//  4. the process environment
//
// Global settings are read from the variable named by a field's `env` tag.
// Per-source settings use the same tags with "*" replaced by the upper-cased
// source name, so ENABLE_* becomes ENABLE_COIN98 and *_HOME_URL becomes
// COIN98_HOME_URL.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"newscrawler/pkg/db"
	"newscrawler/pkg/logger"
	"newscrawler/pkg/render"
	"newscrawler/pkg/scheduler"
	"newscrawler/pkg/sites"
)

// ErrNoSourcesEnabled is returned when every source is disabled
var ErrNoSourcesEnabled = errors.New("no sources enabled")

// Defaults
const (
	DefaultAPIEndpoint   = "http://localhost:8080/admin/news-articles"
	DefaultMaxArticles   = 5
	DefaultLogLevel      = "INFO"
	DefaultLogFile       = "crawler.log"
	DefaultRenderTimeout = 30 * time.Second
	DefaultRenderClient  = "browser"
)

// Config is the complete crawler configuration
type Config struct {
	Schedule    scheduler.ScheduleConfig `yaml:"schedule"`
	Log         LogConfig                `yaml:"log"`
	Delivery    DeliveryConfig           `yaml:"delivery"`
	Render      RenderConfig             `yaml:"render"`
	Archive     ArchiveConfig            `yaml:"archive"`
	MetricsAddr string                   `yaml:"metrics_addr" env:"METRICS_ADDR"`
	// Sources is keyed by source name
	Sources map[string]SourceConfig `yaml:"sources"`
}

// LogConfig configures the process logger
type LogConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL"`
	File        string `yaml:"file" env:"LOG_FILE"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT"`
}

// Logger returns the logger configuration. Output goes to stdout and, when
// set, the log file.
func (c LogConfig) Logger() logger.Config {
	paths := []string{"stdout"}
	if c.File != "" {
		paths = append(paths, c.File)
	}
	return logger.Config{
		Level:       c.Level,
		Development: c.Development,
		OutputPaths: paths,
	}
}

// DeliveryConfig holds the global delivery settings, used by sources that do not override them
type DeliveryConfig struct {
	APIEndpoint string `yaml:"api_endpoint" env:"API_ENDPOINT"`
	MaxArticles int    `yaml:"max_articles" env:"MAX_ARTICLES"`
}

// RenderConfig configures the HTTP renderer
type RenderConfig struct {
	Timeout       time.Duration `yaml:"timeout" env:"RENDER_TIMEOUT"`
	WordThreshold int           `yaml:"word_threshold" env:"RENDER_WORD_THRESHOLD"`
	// Client is browser or cloudflare
	Client string `yaml:"client" env:"RENDER_CLIENT"`
}

// Options returns the render options used for every page. Cache bypass is
// always requested.
func (c RenderConfig) Options() render.Options {
	return render.Options{
		BypassCache:        true,
		WordCountThreshold: c.WordThreshold,
	}
}

// ArchiveConfig selects the optional archive backend
type ArchiveConfig struct {
	Backend string `yaml:"backend" env:"ARCHIVE_BACKEND"`
	Table   string `yaml:"table" env:"ARCHIVE_TABLE"`

	MongoURI        string `yaml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase   string `yaml:"mongo_database" env:"MONGO_DATABASE"`
	MongoCollection string `yaml:"mongo_collection" env:"MONGO_COLLECTION"`

	PostgresDSN string `yaml:"postgres_dsn" env:"POSTGRES_DSN"`

	SupabaseURL        string `yaml:"supabase_url" env:"SUPABASE_URL"`
	SupabaseKey        string `yaml:"supabase_key" env:"SUPABASE_KEY"`
	SupabaseDBURL      string `yaml:"supabase_db_url" env:"SUPABASE_DB_URL"`
	SupabaseDBPassword string `yaml:"supabase_db_password" env:"SUPABASE_DB_PASSWORD"`
}

// DB converts the archive settings into the store configuration
func (c ArchiveConfig) DB() db.ArchiveConfig {
	return db.ArchiveConfig{
		Backend: c.Backend,
		Table:   c.Table,
		Mongo: db.MongoConfig{
			URI:        c.MongoURI,
			Database:   c.MongoDatabase,
			Collection: c.MongoCollection,
		},
		Postgres: db.PostgresConfig{DSN: c.PostgresDSN},
		Supabase: db.SupabaseConfig{
			SupabaseURL:      c.SupabaseURL,
			SupabaseKey:      c.SupabaseKey,
			ConnectionString: c.SupabaseDBURL,
			Password:         c.SupabaseDBPassword,
		},
	}
}

// SourceConfig overrides settings of one source. Zero values fall back to
// the global settings or the source's own defaults; an explicit max_articles
// of 0 removes the cap.
type SourceConfig struct {
	Enabled      *bool         `yaml:"enabled" env:"ENABLE_*"`
	HomeURL      string        `yaml:"home_url" env:"*_HOME_URL"`
	APIEndpoint  string        `yaml:"api_endpoint" env:"*_API_ENDPOINT"`
	MaxArticles  *int          `yaml:"max_articles" env:"*_MAX_ARTICLES"`
	FeedURL      string        `yaml:"feed_url" env:"*_FEED_URL"`
	SitemapURL   string        `yaml:"sitemap_url" env:"*_SITEMAP_URL"`
	ArticleDelay time.Duration `yaml:"article_delay" env:"*_ARTICLE_DELAY"`
}

// IsEnabled reports whether the source is enabled; sources are enabled unless switched off
func (c SourceConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Source is the resolved configuration of one source
type Source struct {
	Name        string
	Settings    sites.Settings
	APIEndpoint string
	MaxArticles int
	FeedURL     string
	SitemapURL  string
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{
		Schedule: scheduler.DefaultScheduleConfig(),
		Log: LogConfig{
			Level: DefaultLogLevel,
			File:  DefaultLogFile,
		},
		Delivery: DeliveryConfig{
			APIEndpoint: DefaultAPIEndpoint,
			MaxArticles: DefaultMaxArticles,
		},
		Render: RenderConfig{
			Timeout:       DefaultRenderTimeout,
			WordThreshold: render.DefaultOptions().WordCountThreshold,
			Client:        DefaultRenderClient,
		},
		Archive: ArchiveConfig{
			Backend: db.BackendNone,
		},
		Sources: make(map[string]SourceConfig),
	}
	for _, name := range sites.Names() {
		cfg.Sources[name] = SourceConfig{}
	}
	return cfg
}

// Load builds the configuration from defaults, the YAML file at path (or
// CONFIG_FILE when path is empty), .env files and the environment
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// EnabledSources returns the enabled source names in sorted order
func (c *Config) EnabledSources() []string {
	var names []string
	for name, sc := range c.Sources {
		if sc.IsEnabled() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Source resolves the configuration of the named source
func (c *Config) Source(name string) Source {
	sc := c.Sources[name]

	res := Source{
		Name: name,
		Settings: sites.Settings{
			HomeURL:      sc.HomeURL,
			ArticleDelay: sc.ArticleDelay,
		},
		APIEndpoint: c.Delivery.APIEndpoint,
		MaxArticles: c.Delivery.MaxArticles,
		FeedURL:     sc.FeedURL,
		SitemapURL:  sc.SitemapURL,
	}
	if sc.APIEndpoint != "" {
		res.APIEndpoint = sc.APIEndpoint
	}
	if sc.MaxArticles != nil {
		res.MaxArticles = *sc.MaxArticles
	}
	return res
}

func envName(tag, source string) string {
	return strings.ReplaceAll(tag, "*", strings.ToUpper(source))
}
