// Package config loads nanoeln settings from an optional YAML file and
// NANOELN_* environment variables. Environment values win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"nanoeln/internal/blob"
	"nanoeln/internal/seed"
	"nanoeln/pkg/domain"
)

// EnvConfigPath names the variable holding the YAML config path.
const EnvConfigPath = "NANOELN_CONFIG"

// Storage drivers.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config is the full runtime configuration.
type Config struct {
	Storage    StorageConfig    `yaml:"storage"`
	Blob       BlobConfig       `yaml:"blob"`
	Actor      domain.Actor     `yaml:"actor"`
	Log        LogConfig        `yaml:"log"`
	Prediction PredictionConfig `yaml:"prediction"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// StorageConfig selects the snapshot backend.
type StorageConfig struct {
	Driver      string `yaml:"driver"` // memory, sqlite, postgres
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// BlobConfig selects where raw instrument files are kept.
type BlobConfig struct {
	Driver blob.Driver      `yaml:"driver"` // fs, s3, minio, memory
	Root   string           `yaml:"root"`
	S3     blob.S3Config    `yaml:"s3"`
	MinIO  blob.MinIOConfig `yaml:"minio"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Mode  string `yaml:"mode"`  // development, production, nop
	Level string `yaml:"level"` // debug, info, warn, error
}

// PredictionConfig configures the formula predictor.
type PredictionConfig struct {
	Noise bool `yaml:"noise"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Storage: StorageConfig{Driver: StorageSQLite, SQLitePath: "nanoeln.db"},
		Blob:    BlobConfig{Driver: blob.DriverFilesystem, Root: "./instrument-files"},
		Actor:   seed.DefaultActor,
		Log:     LogConfig{Mode: "production", Level: "info"},
		Prediction: PredictionConfig{
			Noise: true,
		},
		Metrics: MetricsConfig{Addr: ":9464"},
	}
}

// Load builds a Config from defaults, the YAML file at path (or the file
// named by NANOELN_CONFIG when path is empty) and the environment read
// through getenv. A nil getenv reads the process environment. A missing
// file yields defaults.
func Load(path string, getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := Default()
	if path == "" {
		path = getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str("NANOELN_STORAGE_DRIVER", &c.Storage.Driver)
	str("NANOELN_SQLITE_PATH", &c.Storage.SQLitePath)
	str("NANOELN_POSTGRES_DSN", &c.Storage.PostgresDSN)

	driver := string(c.Blob.Driver)
	str("NANOELN_BLOB_DRIVER", &driver)
	c.Blob.Driver = blob.Driver(driver)
	str("NANOELN_BLOB_ROOT", &c.Blob.Root)
	str("NANOELN_S3_BUCKET", &c.Blob.S3.Bucket)
	str("NANOELN_S3_REGION", &c.Blob.S3.Region)
	str("NANOELN_S3_ENDPOINT", &c.Blob.S3.Endpoint)
	str("NANOELN_S3_ACCESS_KEY_ID", &c.Blob.S3.AccessKeyID)
	str("NANOELN_S3_SECRET_ACCESS_KEY", &c.Blob.S3.SecretAccessKey)
	str("NANOELN_MINIO_ENDPOINT", &c.Blob.MinIO.Endpoint)
	str("NANOELN_MINIO_BUCKET", &c.Blob.MinIO.Bucket)
	str("NANOELN_MINIO_ACCESS_KEY", &c.Blob.MinIO.AccessKey)
	str("NANOELN_MINIO_SECRET_KEY", &c.Blob.MinIO.SecretKey)

	str("NANOELN_ACTOR_ID", &c.Actor.ID)
	str("NANOELN_ACTOR_NAME", &c.Actor.Name)
	str("NANOELN_LOG_MODE", &c.Log.Mode)
	str("NANOELN_LOG_LEVEL", &c.Log.Level)
	str("NANOELN_METRICS_ADDR", &c.Metrics.Addr)

	for key, dst := range map[string]*bool{
		"NANOELN_S3_PATH_STYLE":       &c.Blob.S3.PathStyle,
		"NANOELN_MINIO_USE_SSL":       &c.Blob.MinIO.UseSSL,
		"NANOELN_MINIO_ENSURE_BUCKET": &c.Blob.MinIO.EnsureBucket,
		"NANOELN_PREDICTION_NOISE":    &c.Prediction.Noise,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects unknown drivers and modes.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageSQLite, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Blob.Driver {
	case blob.DriverFilesystem, blob.DriverS3, blob.DriverMinIO, blob.DriverMemory:
	default:
		return fmt.Errorf("unknown blob driver %q", c.Blob.Driver)
	}
	switch c.Log.Mode {
	case "development", "production", "nop":
	default:
		return fmt.Errorf("unknown log mode %q", c.Log.Mode)
	}
	if strings.TrimSpace(c.Actor.ID) == "" {
		return errors.New("actor id required")
	}
	return nil
}

// BlobOpenConfig converts the blob settings for blob.Open.
func (c Config) BlobOpenConfig() blob.Config {
	return blob.Config{Driver: c.Blob.Driver, Root: c.Blob.Root, S3: c.Blob.S3, MinIO: c.Blob.MinIO}
}
