package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Data source kinds.
const (
	SourceDir      = "dir"
	SourcePostgres = "postgres"
)

// ServerConfig controls the HTTP boundary.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigin   string        `yaml:"allowed_origin"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DataFiles names the CSV file of each dataset inside DataConfig.Dir.
type DataFiles struct {
	Training     string `yaml:"training"`
	Descriptions string `yaml:"descriptions"`
	Precautions  string `yaml:"precautions"`
	Medications  string `yaml:"medications"`
}

// DataConfig selects where reference data is read from.
type DataConfig struct {
	Source         string        `yaml:"source"`
	Dir            string        `yaml:"dir"`
	Files          DataFiles     `yaml:"files"`
	ConditionIndex string        `yaml:"condition_index,omitempty"`
	DatabaseURL    string        `yaml:"database_url,omitempty"`
	LoadTimeout    time.Duration `yaml:"load_timeout"`
}

// MatchingConfig holds request validation policy.
type MatchingConfig struct {
	MinSymptoms int  `yaml:"min_symptoms"`
	FoldCase    bool `yaml:"fold_case"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the in-memory representation of the service configuration file.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Matching MatchingConfig `yaml:"matching"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigin:   "*",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Data: DataConfig{
			Source: SourceDir,
			Dir:    "data",
			Files: DataFiles{
				Training:     "Training_data.csv",
				Descriptions: "description.csv",
				Precautions:  "precautions_df.csv",
				Medications:  "medications.csv",
			},
			LoadTimeout: 30 * time.Second,
		},
		Matching: MatchingConfig{
			MinSymptoms: 1,
			FoldCase:    true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads path over DefaultConfig and applies environment overrides.  An
// empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
		// Relative data paths are resolved against the config file.
		base := filepath.Dir(path)
		cfg.Data.Dir = resolvePath(base, cfg.Data.Dir)
		cfg.Data.ConditionIndex = resolvePath(base, cfg.Data.ConditionIndex)
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save marshals cfg and writes it to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides lets deployment environments override file settings.
// PORT and DATABASE_URL follow the usual platform conventions.
func (c *Config) applyEnvOverrides() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.Data.DatabaseURL = url
	}
	if src := os.Getenv("SYMPTOM_CHECKER_DATA_SOURCE"); src != "" {
		c.Data.Source = src
	}
	if dir := os.Getenv("SYMPTOM_CHECKER_DATA_DIR"); dir != "" {
		c.Data.Dir = dir
	}
	if lvl := os.Getenv("SYMPTOM_CHECKER_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
	if v := os.Getenv("SYMPTOM_CHECKER_MIN_SYMPTOMS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SYMPTOM_CHECKER_MIN_SYMPTOMS %q: %w", v, err)
		}
		c.Matching.MinSymptoms = n
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case SourceDir:
		if c.Data.Dir == "" {
			return fmt.Errorf("data.dir is required for source %q", SourceDir)
		}
	case SourcePostgres:
		if c.Data.DatabaseURL == "" {
			return fmt.Errorf("data.database_url (or DATABASE_URL) is required for source %q", SourcePostgres)
		}
	default:
		return fmt.Errorf("unknown data.source %q (want %s or %s)", c.Data.Source, SourceDir, SourcePostgres)
	}
	if c.Matching.MinSymptoms < 1 {
		return fmt.Errorf("matching.min_symptoms must be at least 1, got %d", c.Matching.MinSymptoms)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("unknown logging.format %q (want json or console)", c.Logging.Format)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
