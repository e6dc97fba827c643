package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load, with
// dots in keys replaced by underscores (PRIMER_REGISTRY_DATABASE_PATH).
const EnvPrefix = "PRIMER_REGISTRY"

type AppConfig struct {
	LogLevel            string `mapstructure:"log_level"             validate:"required,oneof=trace debug info warn error"`
	HumanReadableOutput bool   `mapstructure:"human_readable_output"`
	StrictSequences     bool   `mapstructure:"strict_sequences"`
	MetricsFile         string `mapstructure:"metrics_file"`

	Database DatabaseConfig `mapstructure:"database"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"   validate:"required,oneof=sqlite postgres"`
	Path     string `mapstructure:"path"     validate:"required_if=Driver sqlite"`
	Host     string `mapstructure:"host"     validate:"required_if=Driver postgres"`
	Port     int    `mapstructure:"port"     validate:"omitempty,min=1,max=65535"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database" validate:"required_if=Driver postgres"`
	SSLMode  string `mapstructure:"sslmode"`
	// LogQueries echoes every SQL statement through the gorm logger.
	LogQueries bool `mapstructure:"log_queries"`
}

type ArchiveConfig struct {
	Type       string   `mapstructure:"type"        validate:"required,oneof=memory filesystem s3"`
	StorageDir string   `mapstructure:"storage_dir" validate:"required_if=Type filesystem"`
	S3         S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	KeyID     string `mapstructure:"key_id"`
	AccessKey string `mapstructure:"access_key"`
	Timeout   string `mapstructure:"timeout"`
}

// DefaultValue seeds a configuration key before files and environment are read.
type DefaultValue struct {
	Key   string
	Value any
}

var Defaults = []DefaultValue{
	{Key: "log_level", Value: "info"},
	{Key: "human_readable_output", Value: true},
	{Key: "strict_sequences", Value: false},
	{Key: "metrics_file", Value: ""},

	{Key: "database.driver", Value: "sqlite"},
	{Key: "database.path", Value: filepath.Join("data", "primers_db.db")},
	{Key: "database.host", Value: ""},
	{Key: "database.port", Value: 5432},
	{Key: "database.username", Value: ""},
	{Key: "database.password", Value: ""},
	{Key: "database.database", Value: ""},
	{Key: "database.sslmode", Value: "disable"},
	{Key: "database.log_queries", Value: false},

	{Key: "archive.type", Value: "filesystem"},
	{Key: "archive.storage_dir", Value: filepath.Join("data", "primer-sets")},
	{Key: "archive.s3.endpoint", Value: ""},
	{Key: "archive.s3.region", Value: ""},
	{Key: "archive.s3.bucket", Value: ""},
	{Key: "archive.s3.key_id", Value: ""},
	{Key: "archive.s3.access_key", Value: ""},
	{Key: "archive.s3.timeout", Value: "30s"},
}

// Load builds an AppConfig from Defaults, the optional config file at path,
// PRIMER_REGISTRY_* environment variables and finally overrides, in increasing
// precedence. The result is validated before it is returned.
func Load(path string, overrides ...DefaultValue) (*AppConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, d := range Defaults {
		v.SetDefault(d.Key, d.Value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}

			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	for _, o := range overrides {
		v.Set(o.Key, o.Value)
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// StorageDirAbs returns the archive storage directory, resolved against the
// working directory when it is relative.
func (c ArchiveConfig) StorageDirAbs() string {
	if !filepath.IsAbs(c.StorageDir) {
		wd, _ := os.Getwd()

		return filepath.Join(wd, c.StorageDir)
	}

	return c.StorageDir
}
