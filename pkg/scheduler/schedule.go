package scheduler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Schedule types
const (
	TypeInterval = "interval"
	TypeDaily    = "daily"
	TypeHourly   = "hourly"
	TypeCustom   = "custom"
)

var (
	// ErrInvalidScheduleType is returned for a schedule type other than interval, daily, hourly or custom
	ErrInvalidScheduleType = errors.New("invalid schedule type")
	// ErrInvalidTime is returned for a time of day that is not HH:MM
	ErrInvalidTime = errors.New("invalid time of day")
	// ErrInvalidInterval is returned for a non-positive interval
	ErrInvalidInterval = errors.New("interval must be positive")
	// ErrNoCustomTimes is returned when a custom schedule has no usable entry
	ErrNoCustomTimes = errors.New("no custom times configured")
)

// ScheduleConfig describes when crawl cycles are triggered
type ScheduleConfig struct {
	Type            string   `yaml:"type" env:"SCHEDULE_TYPE"`
	IntervalMinutes int      `yaml:"interval_minutes" env:"INTERVAL_MINUTES"`
	DailyTime       string   `yaml:"daily_time" env:"DAILY_TIME"`
	CustomTimes     []string `yaml:"custom_times" env:"CUSTOM_TIMES"`
	RunImmediately  bool     `yaml:"run_immediately" env:"RUN_IMMEDIATELY"`
}

// DefaultScheduleConfig returns an hourly interval schedule that also runs at startup
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{
		Type:            TypeInterval,
		IntervalMinutes: 60,
		DailyTime:       "09:00",
		CustomTimes:     []string{"06:00", "12:00", "18:00"},
		RunImmediately:  true,
	}
}

// Validate checks that the schedule can be turned into cron specs
func (c ScheduleConfig) Validate() error {
	_, err := CronSpecs(c)
	return err
}

// CronSpecs converts cfg into robfig/cron specs.
//
// Intervals of an hour or more are scheduled in whole hours, so 90 minutes
// runs hourly. Custom entries without a colon are ignored.
func CronSpecs(cfg ScheduleConfig) ([]string, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case TypeInterval:
		if cfg.IntervalMinutes <= 0 {
			return nil, fmt.Errorf("%w: %d minutes", ErrInvalidInterval, cfg.IntervalMinutes)
		}
		if cfg.IntervalMinutes >= 60 {
			return []string{fmt.Sprintf("@every %dh", cfg.IntervalMinutes/60)}, nil
		}
		return []string{fmt.Sprintf("@every %dm", cfg.IntervalMinutes)}, nil

	case TypeDaily:
		spec, err := dailySpec(cfg.DailyTime)
		if err != nil {
			return nil, err
		}
		return []string{spec}, nil

	case TypeHourly:
		return []string{"@hourly"}, nil

	case TypeCustom:
		var specs []string
		for _, entry := range cfg.CustomTimes {
			entry = strings.TrimSpace(entry)
			if !strings.Contains(entry, ":") {
				continue
			}
			spec, err := dailySpec(entry)
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		}
		if len(specs) == 0 {
			return nil, ErrNoCustomTimes
		}
		return specs, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidScheduleType, cfg.Type)
	}
}

// dailySpec turns "HH:MM" into "M H * * *"
func dailySpec(hhmm string) (string, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 || len(m) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTime, hhmm)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
