// Package config handles TOML configuration loading with environment
// variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Matcher      MatcherConfig      `toml:"matcher"`
	Certificates CertificatesConfig `toml:"certificates"`
	Audit        AuditConfig        `toml:"audit"`
	SMTP         SMTPConfig         `toml:"smtp"`
	LogLevel     string             `toml:"log_level"`
}

type MatcherConfig struct {
	// FuzzyThreshold is the minimum similarity percentage for fuzzy
	// matches. 0 selects the engine default.
	FuzzyThreshold int `toml:"fuzzy_threshold"`
	// NoiseWords replaces the built-in noise vocabulary when set.
	NoiseWords []string `toml:"noise_words"`
	// Workers bounds parallel matching; 0 means one per CPU.
	Workers int `toml:"workers"`
}

type CertificatesConfig struct {
	Dir string `toml:"dir"`
}

type AuditConfig struct {
	Path string `toml:"path"`
}

type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
	Subject  string `toml:"subject"`
	Body     string `toml:"body"`
	// Retries is the number of delivery attempts per recipient.
	Retries int `toml:"retries"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing environment variables: %s", strings.Join(missing, "; "))
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Certificates.Dir == "" {
		c.Certificates.Dir = "./certificates"
	}
	if c.Audit.Path == "" {
		c.Audit.Path = "./data/certsend.db"
	}
	if c.SMTP.Port == 0 {
		c.SMTP.Port = 587
	}
	if c.SMTP.Subject == "" {
		c.SMTP.Subject = "Your certificate"
	}
	if c.SMTP.Retries == 0 {
		c.SMTP.Retries = 3
	}
}

// substituteEnvVars replaces ${VAR}, ${VAR:-default}, and ${VAR:?message}
// with environment variable values. For the :- and :? forms an empty value
// counts as unset. Variables that cannot be resolved are left unchanged
// and reported in missing, with the :? message attached.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		expr := match[2 : len(match)-1] // Strip ${ and }
		if name, def, ok := strings.Cut(expr, ":-"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			return def
		}
		if name, message, ok := strings.Cut(expr, ":?"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			missing = append(missing, name+": "+message)
			return match
		}
		if value, ok := os.LookupEnv(expr); ok {
			return value
		}
		missing = append(missing, expr)
		return match
	})
	return result, missing
}
