package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
		Port    int    `yaml:"port"`
	} `yaml:"server"`
	Storage struct {
		DBPath      string `yaml:"db_path"`
		BlobDir     string `yaml:"blob_dir"`
		BlobBaseURL string `yaml:"blob_base_url"`
	} `yaml:"storage"`
	Security struct {
		RateLimit struct {
			RPS   float64 `yaml:"rps"`
			Burst int     `yaml:"burst"`
		} `yaml:"rate_limit"`
	} `yaml:"security"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	host := c.Server.Address
	port := c.Server.Port
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// Load reads a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnv overlays BIRDFEED_* environment variables onto cfg and reports
// whether any were present. Env wins over the file; flags win over both.
func ApplyEnv(cfg *Config) bool {
	used := false
	if v := os.Getenv("BIRDFEED_ADDR"); v != "" {
		cfg.Server.Address = v
		used = true
	}
	if v := os.Getenv("BIRDFEED_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
			used = true
		}
	}
	if v := os.Getenv("BIRDFEED_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
		used = true
	}
	if v := os.Getenv("BIRDFEED_BLOB_DIR"); v != "" {
		cfg.Storage.BlobDir = v
		used = true
	}
	if v := os.Getenv("BIRDFEED_BLOB_BASE_URL"); v != "" {
		cfg.Storage.BlobBaseURL = v
		used = true
	}
	if v := os.Getenv("BIRDFEED_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
		used = true
	}
	if v := os.Getenv("BIRDFEED_RATE_RPS"); v != "" {
		if r, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Security.RateLimit.RPS = r
			used = true
		}
	}
	if v := os.Getenv("BIRDFEED_RATE_BURST"); v != "" {
		if b, err := strconv.Atoi(v); err == nil {
			cfg.Security.RateLimit.Burst = b
			used = true
		}
	}
	return used
}
