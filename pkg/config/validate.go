package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"newscrawler/pkg/db"
	"newscrawler/pkg/sites"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration. Every problem found is reported.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Schedule.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("schedule: %w", err))
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		errs = append(errs, &ValidationError{Field: "log.level", Message: "must be one of: debug, info, warn, error, fatal"})
	}

	switch strings.ToLower(c.Render.Client) {
	case "browser", "cloudflare":
	default:
		errs = append(errs, &ValidationError{Field: "render.client", Message: "must be one of: browser, cloudflare"})
	}
	if c.Render.Timeout <= 0 {
		errs = append(errs, &ValidationError{Field: "render.timeout", Message: "must be positive"})
	}

	switch strings.ToLower(strings.TrimSpace(c.Archive.Backend)) {
	case "", db.BackendNone, db.BackendMongo, db.BackendPostgres, db.BackendSupabase:
	default:
		errs = append(errs, fmt.Errorf("archive.backend: %w: %q", db.ErrUnknownBackend, c.Archive.Backend))
	}

	for name, sc := range c.Sources {
		if _, err := sites.New(name, sites.Settings{}); err != nil {
			errs = append(errs, fmt.Errorf("sources: %w", err))
			continue
		}
		if !sc.IsEnabled() {
			continue
		}
		src := c.Source(name)
		if err := validateURL("sources."+name+".api_endpoint", src.APIEndpoint); err != nil {
			errs = append(errs, err)
		}
		if sc.HomeURL != "" {
			if err := validateURL("sources."+name+".home_url", sc.HomeURL); err != nil {
				errs = append(errs, err)
			}
		}
	}

	return errors.Join(errs...)
}

func validateURL(field, raw string) error {
	if raw == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ValidationError{Field: field, Message: "must be an absolute http(s) URL"}
	}
	return nil
}
