package config

import "fmt"

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Sprintf("log_level: must be one of debug, info, warn, error; got %q", c.LogLevel))
	}

	if c.Matcher.FuzzyThreshold < 0 || c.Matcher.FuzzyThreshold > 100 {
		errs = append(errs, fmt.Sprintf("matcher.fuzzy_threshold: must be between 0 and 100, got %d", c.Matcher.FuzzyThreshold))
	}
	if c.Matcher.Workers < 0 {
		errs = append(errs, fmt.Sprintf("matcher.workers: must not be negative, got %d", c.Matcher.Workers))
	}

	if c.Certificates.Dir == "" {
		errs = append(errs, "certificates.dir: required")
	}

	if c.SMTP.Port < 0 || c.SMTP.Port > 65535 {
		errs = append(errs, fmt.Sprintf("smtp.port: must be between 0 and 65535, got %d", c.SMTP.Port))
	}

	return errs
}

// ValidateSMTP checks the fields only the send path needs. Kept separate so
// match-only runs work without any mail configuration.
func (c *Config) ValidateSMTP() []string {
	var errs []string

	if c.SMTP.Host == "" {
		errs = append(errs, "smtp.host: required for sending")
	}
	if c.SMTP.From == "" {
		errs = append(errs, "smtp.from: required for sending")
	}

	return errs
}
