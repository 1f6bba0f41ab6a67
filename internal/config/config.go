// Package config loads service settings from an optional YAML file,
// .env files and environment variables, in that order of precedence
// (environment wins), and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting of the server and CLI.
type Config struct {
	Port            string        `yaml:"port" validate:"required,numeric"`
	DistanceUnit    string        `yaml:"distance_unit" validate:"oneof=km mi"`
	DatasetSource   string        `yaml:"dataset_source" validate:"required"`
	DatasetSheet    string        `yaml:"dataset_sheet"`
	DatasetStrict   bool          `yaml:"dataset_strict"`
	AWSRegion       string        `yaml:"aws_region"`
	Geocoder        string        `yaml:"geocoder" validate:"oneof=mapbox ors"`
	GeocoderAPIKey  string        `yaml:"geocoder_api_key"`
	GeocoderCountry string        `yaml:"geocoder_country"`
	GeocodeTimeout  time.Duration `yaml:"geocode_timeout" validate:"gt=0"`
	CacheBackend    string        `yaml:"cache_backend" validate:"oneof=none postgres sqlite redis"`
	DatabaseURL     string        `yaml:"database_url" validate:"required_if=CacheBackend postgres"`
	SqlitePath      string        `yaml:"sqlite_path" validate:"required_if=CacheBackend sqlite"`
	RedisAddr       string        `yaml:"redis_addr" validate:"required_if=CacheBackend redis"`
	CacheTTL        time.Duration `yaml:"cache_ttl" validate:"gte=0"`
	LogLevel        string        `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Port:            "8080",
		DistanceUnit:    "km",
		DatasetSource:   "data/offices.csv",
		Geocoder:        "mapbox",
		GeocoderCountry: "US",
		GeocodeTimeout:  5 * time.Second,
		CacheBackend:    "none",
		SqlitePath:      "data/cache.db",
		CacheTTL:        30 * 24 * time.Hour,
		LogLevel:        "info",
	}
}

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// LoadDotEnv loads .env into the process environment when present.
// It reports whether a file was loaded.
func LoadDotEnv() bool {
	return godotenv.Load() == nil
}

// Load builds the configuration from defaults, the YAML file at path
// (skipped when path is empty) and environment overrides, then validates it.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("load config: parse %q: %w", path, err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	c.DistanceUnit = strings.ToLower(c.DistanceUnit)
	c.Geocoder = strings.ToLower(c.Geocoder)
	c.CacheBackend = strings.ToLower(c.CacheBackend)
	c.LogLevel = strings.ToLower(c.LogLevel)

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	c.Port = Get("PORT", c.Port)
	c.DistanceUnit = Get("DISTANCE_UNIT", c.DistanceUnit)
	c.DatasetSource = Get("DATASET_SOURCE", c.DatasetSource)
	c.DatasetSheet = Get("DATASET_SHEET", c.DatasetSheet)
	c.AWSRegion = Get("AWS_REGION", c.AWSRegion)
	c.Geocoder = Get("GEOCODER", c.Geocoder)
	c.GeocoderAPIKey = Get("GEOCODER_API_KEY", c.GeocoderAPIKey)
	c.GeocoderCountry = Get("GEOCODER_COUNTRY", c.GeocoderCountry)
	c.CacheBackend = Get("CACHE_BACKEND", c.CacheBackend)
	c.DatabaseURL = Get("DATABASE_URL", c.DatabaseURL)
	c.SqlitePath = Get("SQLITE_PATH", c.SqlitePath)
	c.RedisAddr = Get("REDIS_ADDR", c.RedisAddr)
	c.LogLevel = Get("LOG_LEVEL", c.LogLevel)

	if v := Get("DATASET_STRICT", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DATASET_STRICT=%q: %w", v, err)
		}
		c.DatasetStrict = b
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"GEOCODE_TIMEOUT", &c.GeocodeTimeout},
		{"CACHE_TTL", &c.CacheTTL},
	}
	for _, d := range durations {
		v := Get(d.key, "")
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", d.key, v, err)
		}
		*d.dst = parsed
	}

	return nil
}

var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return yamlName(f.Tag.Get("yaml"))
	})
	return v
}()

// Validate reports every invalid setting, named by its YAML key.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %q)", fe.Field(), fe.Tag(), fe.Param(), fmt.Sprint(fe.Value())))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s: failed %s (got %q)", fe.Field(), fe.Tag(), fmt.Sprint(fe.Value())))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func yamlName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}
