package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"tracker-comparer/core/database"
	"tracker-comparer/core/fetch"
	"tracker-comparer/core/logger"
	"tracker-comparer/core/server"
	"tracker-comparer/core/storage"
	"tracker-comparer/feature/compare"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the whole application configuration. Each section is owned by
// the package that consumes it and maps to an environment prefix, so
// fetch.max_attempts is read from FETCH_MAX_ATTEMPTS.
type Config struct {
	Server   server.Config   `mapstructure:"server"`
	Storage  storage.Config  `mapstructure:"storage"`
	Log      logger.Config   `mapstructure:"log"`
	Database database.Config `mapstructure:"database"`
	Fetch    fetch.Config    `mapstructure:"fetch"`
	// Cookies are signed-in session cookies, one variable per service.
	Cookies fetch.CookieConfig `mapstructure:"cookies"`
	Compare compare.Config     `mapstructure:"compare"`
}

// LoadConfig reads dir/.env when present, then the environment, on top of
// the default tags of every section.
func LoadConfig(dir string) (*Config, error) {
	// Without a .env file the environment alone is used.
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()
	registerKeys(v, reflect.TypeOf(Config{}), "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case database.DriverSQLite, database.DriverMySQL:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be %s or %s, got %q", database.DriverSQLite, database.DriverMySQL, c.Database.Driver)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// registerKeys gives viper every mapstructure key with its default tag.
// Keys are registered even when the default is empty, otherwise
// AutomaticEnv never looks them up during Unmarshal.
func registerKeys(v *viper.Viper, t reflect.Type, prefix string) {
	for _, field := range reflect.VisibleFields(t) {
		name := field.Tag.Get("mapstructure")
		if name == "" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		if field.Type.Kind() == reflect.Struct {
			registerKeys(v, field.Type, name)
			continue
		}
		v.SetDefault(name, field.Tag.Get("default"))
	}
}
