// Package config loads config.yaml, an optional .env file and DIABETES_*
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"diabetescheck/logging"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Http struct {
		Port           int           `yaml:"port" validate:"gt=0,lte=65535"`
		Timeout        time.Duration `yaml:"timeout" validate:"gt=0"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"http"`
	Database struct {
		Driver string `yaml:"driver" validate:"oneof=sqlite json"`
		Path   string `yaml:"path" validate:"required"`
	} `yaml:"database"`
	Model struct {
		Type  string `yaml:"type" validate:"oneof=decision_tree logistic_regression"`
		Path  string `yaml:"path" validate:"required"`
		Watch bool   `yaml:"watch"`
	} `yaml:"model"`
	Session struct {
		Capacity int `yaml:"capacity" validate:"gte=0"`
	} `yaml:"session"`
	Auth struct {
		Password string `yaml:"password"`
	} `yaml:"auth"`
	Log    logging.Config `yaml:"log"`
	Locale string         `yaml:"locale" validate:"required"`
}

// Default returns the settings used when config.yaml omits a key.
func Default() *Config {
	c := &Config{}
	c.Http.Port = 8080
	c.Http.Timeout = 30 * time.Second
	c.Http.AllowedOrigins = []string{"*"}
	c.Database.Driver = "sqlite"
	c.Database.Path = "./data/feedback.db"
	c.Model.Type = "decision_tree"
	c.Model.Path = "./models/diabetes_model.json"
	c.Model.Watch = true
	c.Session.Capacity = 1024
	c.Log.Level = "info"
	c.Locale = "pt-BR"
	return c
}

var validate = validator.New()

// Load reads path (missing file means defaults), then .env, then the
// environment, and validates the result.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		file, err := os.Open(path)
		switch {
		case err == nil:
			defer file.Close()
			if err := yaml.NewDecoder(file).Decode(c); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("DIABETES_HTTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DIABETES_HTTP_PORT: %w", err)
		}
		c.Http.Port = port
	}
	if v, ok := lookup("DIABETES_MODEL_WATCH"); ok {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DIABETES_MODEL_WATCH: %w", err)
		}
		c.Model.Watch = watch
	}
	overrides := map[string]*string{
		"DIABETES_DB_DRIVER":  &c.Database.Driver,
		"DIABETES_DB_PATH":    &c.Database.Path,
		"DIABETES_MODEL_TYPE": &c.Model.Type,
		"DIABETES_MODEL_PATH": &c.Model.Path,
		"DIABETES_PASSWORD":   &c.Auth.Password,
		"DIABETES_LOG_LEVEL":  &c.Log.Level,
		"DIABETES_LOG_FILE":   &c.Log.File,
		"DIABETES_LOCALE":     &c.Locale,
	}
	for key, dst := range overrides {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	return nil
}
