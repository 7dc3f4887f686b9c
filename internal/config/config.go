package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Auth     Auth     `yaml:"auth"`
	Media    Media    `yaml:"media"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Database struct {
	// Backend selects the driver: postgres, mysql or sqlite.
	Backend string `yaml:"backend"`
	DSN     string `yaml:"dsn"`
}

type Auth struct {
	// Secret signs session tokens. Required in production; the
	// POSTBOARD_AUTH_SECRET env var takes precedence over the file.
	Secret        string `yaml:"secret"`
	SessionMaxAge int    `yaml:"session_max_age_hours"`
}

type Media struct {
	Dir string `yaml:"dir"`
}

func Load(path string) (*Config, error) {
	config := &Config{
		Server: Server{Addr: ":8080"},
		Auth:   Auth{SessionMaxAge: 24 * 14},
		Media:  Media{Dir: "media"},
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(file, config); err != nil {
		return nil, err
	}

	if v := os.Getenv("POSTBOARD_DB_DSN"); v != "" {
		config.Database.DSN = v
	}
	if v := os.Getenv("POSTBOARD_AUTH_SECRET"); v != "" {
		config.Auth.Secret = v
	}

	if config.Database.Backend == "" {
		return nil, fmt.Errorf("config: database.backend is required")
	}
	if config.Auth.Secret == "" {
		return nil, fmt.Errorf("config: auth.secret is required")
	}

	return config, nil
}
