package model

import "time"

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default search settings applied to new runs
	DefaultAlgorithm     Algorithm `json:"default_algorithm"`
	DefaultMaxTrials     int       `json:"default_max_trials"`
	DefaultTimeLimitSecs float64   `json:"default_time_limit_secs"`
	DefaultBatchSize     int       `json:"default_batch_size"`
	DefaultWorkers       int       `json:"default_workers"`
	DefaultContainer     string    `json:"default_container"` // Container preset name

	// Application preferences
	LogLevel    string   `json:"log_level"` // "debug", "info", "warn", "error"
	RecentFiles []string `json:"recent_files"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// matching the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultAlgorithm:     defaults.Algorithm,
		DefaultMaxTrials:     defaults.MaxTrials,
		DefaultTimeLimitSecs: defaults.TimeLimit.Seconds(),
		DefaultBatchSize:     defaults.BatchSize,
		DefaultWorkers:       defaults.Workers,
		DefaultContainer:     "Order bin 1200x1200x1500",
		LogLevel:             "info",
		RecentFiles:          []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a SearchSettings struct.
// Zero values in the config leave the corresponding setting untouched.
func (c AppConfig) ApplyToSettings(s *SearchSettings) {
	if c.DefaultAlgorithm != "" {
		s.Algorithm = c.DefaultAlgorithm
	}
	if c.DefaultMaxTrials > 0 {
		s.MaxTrials = c.DefaultMaxTrials
	}
	if c.DefaultTimeLimitSecs > 0 {
		s.TimeLimit = time.Duration(c.DefaultTimeLimitSecs * float64(time.Second))
	}
	if c.DefaultBatchSize > 0 {
		s.BatchSize = c.DefaultBatchSize
	}
	if c.DefaultWorkers > 0 {
		s.Workers = c.DefaultWorkers
	}
}

// AddRecentFile moves path to the front of the recent list, keeping at most limit entries.
func (c *AppConfig) AddRecentFile(path string, limit int) {
	files := []string{path}
	for _, f := range c.RecentFiles {
		if f != path {
			files = append(files, f)
		}
	}
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	c.RecentFiles = files
}
