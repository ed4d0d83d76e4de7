package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SourceCSV = "csv"
	SourceSQL = "sql"
)

type Env struct {
	AppAddr     string   `yaml:"app_addr"`
	GinMode     string   `yaml:"gin_mode"`
	Source      string   `yaml:"source"`
	DatasetPath string   `yaml:"dataset"`
	DB          DBEnv    `yaml:"db"`
	CORSOrigins []string `yaml:"cors_allowed_origins"`
}

type DBEnv struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
}

// LoadEnv builds the runtime settings: defaults, then the optional YAML file
// named by TRIPDASH_CONFIG_PATH, then individual environment variables.
func LoadEnv() (Env, error) {
	env := Env{
		AppAddr:     ":8080",
		Source:      SourceCSV,
		DatasetPath: "datasets/car_sharing_trips.csv",
		DB: DBEnv{
			Driver: "mysql",
			Table:  "car_sharing_trips",
		},
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
	}

	if path := strings.TrimSpace(os.Getenv("TRIPDASH_CONFIG_PATH")); path != "" {
		if err := loadFromFile(path, &env); err != nil {
			return Env{}, err
		}
	}

	if v := strings.TrimSpace(os.Getenv("APP_ADDR")); v != "" {
		env.AppAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("GIN_MODE")); v != "" {
		env.GinMode = v
	}
	if v := strings.TrimSpace(os.Getenv("TRIPDASH_SOURCE")); v != "" {
		env.Source = v
	}
	if v := strings.TrimSpace(os.Getenv("TRIPDASH_DATASET")); v != "" {
		env.DatasetPath = v
	}
	if v := strings.TrimSpace(os.Getenv("TRIPDASH_DB_DRIVER")); v != "" {
		env.DB.Driver = v
	}
	if v := strings.TrimSpace(os.Getenv("TRIPDASH_DB_DSN")); v != "" {
		env.DB.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("TRIPDASH_DB_TABLE")); v != "" {
		env.DB.Table = v
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		env.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSOrigins = append(env.CORSOrigins, o)
			}
		}
	}

	env.Source = strings.ToLower(env.Source)
	env.DB.Driver = strings.ToLower(env.DB.Driver)
	if err := env.validate(); err != nil {
		return Env{}, err
	}
	return env, nil
}

func (e Env) validate() error {
	switch e.Source {
	case SourceCSV:
		if strings.TrimSpace(e.DatasetPath) == "" {
			return fmt.Errorf("dataset path is required for source %q", e.Source)
		}
	case SourceSQL:
		if _, ok := driverNames[e.DB.Driver]; !ok {
			return fmt.Errorf("unsupported TRIPDASH_DB_DRIVER %q", e.DB.Driver)
		}
		if strings.TrimSpace(e.DB.DSN) == "" {
			return fmt.Errorf("TRIPDASH_DB_DSN is required for source %q", e.Source)
		}
		if !validTableName(e.DB.Table) {
			return fmt.Errorf("invalid TRIPDASH_DB_TABLE %q", e.DB.Table)
		}
	default:
		return fmt.Errorf("unsupported TRIPDASH_SOURCE %q", e.Source)
	}
	return nil
}

// validTableName keeps the table identifier safe to splice into SQL.
func validTableName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

func loadFromFile(path string, env *Env) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, env); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
