// Package config loads the YAML configuration shared by the postdeck client and the postsd server.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Version string        `yaml:"version" default:"1"`
	API     APIConfig     `yaml:"api"`
	Server  ServerConfig  `yaml:"server"`
	Theme   ThemeConfig   `yaml:"theme"`
	Logging LoggingConfig `yaml:"logging"`
}

type APIConfig struct {
	BaseURL   string        `yaml:"base_url" default:"http://localhost:12600"`
	Timeout   time.Duration `yaml:"timeout" default:"10s"`
	UserAgent string        `yaml:"user_agent" default:"postdeck"`
}

type ServerConfig struct {
	Host     string         `yaml:"host" default:"0.0.0.0"`
	Port     string         `yaml:"port" default:"12600"`
	Storage  string         `yaml:"storage" default:"sqlite"`
	Gzip     bool           `yaml:"gzip" default:"true"`
	Database DatabaseConfig `yaml:"database"`
	S3       S3Config       `yaml:"s3"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" default:"./posts.db"`
}

type S3Config struct {
	Endpoint string `yaml:"endpoint" default:""`
	Region   string `yaml:"region" default:"auto"`
	Bucket   string `yaml:"bucket" default:"posts"`
	Prefix   string `yaml:"prefix" default:"posts/"`

	// Credentials are read from the environment only.
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

type ThemeConfig struct {
	Default            string       `yaml:"default" default:"dark"`
	SyntaxHighlighting SyntaxConfig `yaml:"syntax_highlighting"`
}

type SyntaxConfig struct {
	DefaultDark  string `yaml:"default_dark" default:"gruvbox"`
	DefaultLight string `yaml:"default_light" default:"catppuccin-latte"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
	File  string `yaml:"file" default:"postdeck.log"`
}

var AppConfig *Config

func LoadConfig(path string) error {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	data, err := os.ReadFile(path)
	if err != nil {
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
		applyEnv(config)
		AppConfig = config
		return nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if !slicesContains(SupportedVersions, config.Version) {
		return fmt.Errorf("unsupported configuration version %q", config.Version)
	}

	applyEnv(config)
	AppConfig = config
	return nil
}

// Default returns a Config with every default applied and no file or
// environment input.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

func applyEnv(config *Config) {
	if v := os.Getenv(EnvAPIURL); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv(EnvS3AccessKey); v != "" {
		config.Server.S3.AccessKeyID = v
	}
	if v := os.Getenv(EnvS3SecretKey); v != "" {
		config.Server.S3.SecretAccessKey = v
	}
}

func slicesContains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

var durationType = reflect.TypeOf(time.Duration(0))

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		if field.Type() == durationType {
			if val, err := time.ParseDuration(defaultValue); err == nil {
				field.SetInt(int64(val))
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
