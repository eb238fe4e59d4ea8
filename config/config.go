package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"prompt-db/promptdb"
)

const appDirName = "prompt-db"

type Config struct {
	Port            string        `yaml:"port"`
	DataDir         string        `yaml:"data_dir"`
	FileName        string        `yaml:"file_name"`
	SeedFile        string        `yaml:"seed_file"`
	LogMode         string        `yaml:"log_mode"`
	DiagLogFile     string        `yaml:"diag_log_file"`
	DiagLogEnabled  bool          `yaml:"diag_log_enabled"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func defaultConfig() *Config {
	return &Config{
		Port:            "8188",
		FileName:        promptdb.DefaultFileName,
		LogMode:         "dev",
		DiagLogEnabled:  true,
		ShutdownTimeout: 15 * time.Second,
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// PROMPTDB_CONFIG (if any), then environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := strings.TrimSpace(os.Getenv("PROMPTDB_CONFIG")); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.DataDir = getEnv("PROMPTDB_DATA_DIR", cfg.DataDir)
	cfg.FileName = getEnv("PROMPTDB_FILE", cfg.FileName)
	cfg.SeedFile = getEnv("PROMPTDB_SEED_FILE", cfg.SeedFile)
	cfg.LogMode = getEnv("LOG_MODE", cfg.LogMode)
	cfg.DiagLogFile = getEnv("PROMPTDB_DIAG_LOG", cfg.DiagLogFile)

	var err error
	if cfg.DiagLogEnabled, err = getEnvBool("PROMPTDB_DIAG_ENABLED", cfg.DiagLogEnabled); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return nil, err
	}

	if cfg.DiagLogFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.DiagLogFile = filepath.Join(home, "pylog.txt")
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("config: port must not be empty")
	}
	if c.FileName == "" || strings.ContainsAny(c.FileName, `/\`) {
		return fmt.Errorf("config: invalid document file name %q", c.FileName)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: shutdown_timeout must be positive")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

// ResolveDataDir returns the configured data directory, falling back to the
// user config directory and then the working directory.
func (c *Config) ResolveDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, appDirName)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// DocumentPath is where the prompt document lives.
func (c *Config) DocumentPath() string {
	return filepath.Join(c.ResolveDataDir(), c.FileName)
}

func getEnv(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback
	}
	return strings.TrimSpace(val)
}

func getEnvBool(key string, fallback bool) (bool, error) {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return fallback, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(val))
	if err != nil {
		return fallback, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
