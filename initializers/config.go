package initializers

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration of the API server and the board client.
type Config struct {
	Env      string         `yaml:"env"`
	LogLevel string         `yaml:"log_level"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	Search   SearchConfig   `yaml:"search"`
	Events   EventsConfig   `yaml:"events"`
	Client   ClientConfig   `yaml:"client"`
}

type ServerConfig struct {
	Port                  string        `yaml:"port"`
	ClientURL             string        `yaml:"client_url"`
	DefaultSubmitterEmail string        `yaml:"default_submitter_email"`
	ShutdownTimeout       time.Duration `yaml:"shutdown_timeout"`
	RateLimitPerMinute    int           `yaml:"rate_limit_per_minute"`
	StrictLimitPerMinute  int           `yaml:"strict_limit_per_minute"`
}

type DatabaseConfig struct {
	URL            string `yaml:"url"`
	AutoMigrate    bool   `yaml:"auto_migrate"`
	MigrationsPath string `yaml:"migrations_path"`
	Debug          bool   `yaml:"debug"`
}

type StorageConfig struct {
	UploadDir      string `yaml:"upload_dir"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
	S3Bucket       string `yaml:"s3_bucket"`
	S3Region       string `yaml:"s3_region"`
	S3Endpoint     string `yaml:"s3_endpoint"`
	S3AccessKey    string `yaml:"s3_access_key"`
	S3SecretKey    string `yaml:"s3_secret_key"`
	S3PublicURL    string `yaml:"s3_public_url"`
}

// S3Enabled reports whether attachments go to object storage.
func (s StorageConfig) S3Enabled() bool {
	return s.S3Bucket != "" && s.S3Region != "" && s.S3AccessKey != "" && s.S3SecretKey != ""
}

type SearchConfig struct {
	ElasticsearchURL string `yaml:"elasticsearch_url"`
	Index            string `yaml:"index"`
}

type EventsConfig struct {
	AMQPURL  string `yaml:"amqp_url"`
	Exchange string `yaml:"exchange"`
}

type ClientConfig struct {
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`
	UserID  uint          `yaml:"user_id"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Env:      "development",
		LogLevel: "info",
		Server: ServerConfig{
			Port:                  "3000",
			ClientURL:             "http://localhost:5173",
			DefaultSubmitterEmail: "demo.submitter@example.com",
			ShutdownTimeout:       10 * time.Second,
			RateLimitPerMinute:    100,
			StrictLimitPerMinute:  10,
		},
		Database: DatabaseConfig{
			AutoMigrate:    true,
			MigrationsPath: "file://db/migrations",
		},
		Storage: StorageConfig{
			UploadDir:      "uploads/initiatives",
			MaxUploadBytes: 50 << 20,
		},
		Search: SearchConfig{Index: "initiatives"},
		Events: EventsConfig{Exchange: "innovation.events"},
		Client: ClientConfig{
			APIURL:  "http://localhost:3000/api",
			Timeout: 10 * time.Second,
		},
	}
}

// LoadConfig reads path (optional, may be empty or missing) over the defaults
// and then applies environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.Env, "APP_ENV")
	setString(&c.LogLevel, "LOG_LEVEL")

	setString(&c.Server.Port, "PORT")
	setString(&c.Server.ClientURL, "CLIENT_URL")
	setString(&c.Server.DefaultSubmitterEmail, "DEFAULT_SUBMITTER_EMAIL")

	setString(&c.Database.URL, "DIRECT_URL")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.MigrationsPath, "MIGRATIONS_PATH")
	if err := setBool(&c.Database.AutoMigrate, "AUTO_MIGRATE"); err != nil {
		return err
	}
	if err := setBool(&c.Database.Debug, "DB_DEBUG"); err != nil {
		return err
	}

	setString(&c.Storage.UploadDir, "UPLOAD_DIR")
	setString(&c.Storage.S3Bucket, "S3_BUCKET")
	setString(&c.Storage.S3Region, "S3_REGION")
	setString(&c.Storage.S3Endpoint, "S3_ENDPOINT")
	setString(&c.Storage.S3AccessKey, "S3_ACCESS_KEY")
	setString(&c.Storage.S3SecretKey, "S3_SECRET_KEY")
	setString(&c.Storage.S3PublicURL, "S3_PUBLIC_URL")

	setString(&c.Search.ElasticsearchURL, "ELASTICSEARCH_URL")
	setString(&c.Events.AMQPURL, "AMQP_URL")
	setString(&c.Client.APIURL, "API_URL")
	if v := os.Getenv("BOARD_USER_ID"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("BOARD_USER_ID: %w", err)
		}
		c.Client.UserID = uint(id)
	}
	return nil
}

// Validate checks the settings the API server cannot start without.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database url is empty (set DATABASE_URL)")
	}
	if c.Server.Port == "" {
		return errors.New("server port is empty")
	}
	return nil
}

func (c Config) IsDevelopment() bool { return c.Env != "production" }

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
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
