package infrastructure

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root application configuration, loaded from a config file
// and/or environment variables by LoadConfig.
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	Eventstore EventstoreConfig `mapstructure:"eventstore"`
	Projection ProjectionConfig `mapstructure:"projection"`
	IDGen      IDGenConfig      `mapstructure:"idgen"`
	Crypto     CryptoConfig     `mapstructure:"crypto"`
	Events     EventsConfig     `mapstructure:"events"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// EventstoreConfig tunes the append-only log.
type EventstoreConfig struct {
	InstanceID          string `mapstructure:"instance_id"`
	MaxPushBatchSize    int    `mapstructure:"max_push_batch_size"`
	EnableSubscriptions bool   `mapstructure:"enable_subscriptions"`
}

// ProjectionConfig tunes the projection manager's worker loops.
type ProjectionConfig struct {
	PollIntervalMs int `mapstructure:"poll_interval_ms"`
	BatchSize      int `mapstructure:"batch_size"`
	MaxErrorCount  int `mapstructure:"max_error_count"` // not read by ProjectionManager
	LockTTLMs      int `mapstructure:"lock_ttl_ms"`
}

func (c ProjectionConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func (c ProjectionConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLMs) * time.Millisecond
}

// IDGenConfig configures the snowflake-style distributed ID generator.
type IDGenConfig struct {
	MachineID int64 `mapstructure:"machine_id"` // 0..1023
	EpochMs   int64 `mapstructure:"epoch_ms"`
}

// CryptoConfig configures password hashing and symmetric encryption.
type CryptoConfig struct {
	BcryptCost  int               `mapstructure:"bcrypt_cost"` // 4..31
	AESKeys     map[string]string `mapstructure:"aes_keys"`    // key id -> base64-encoded key
	ActiveKeyID string            `mapstructure:"active_key_id"`
}

// EventsConfig holds in-process event-dispatcher configuration.
type EventsConfig struct {
	Publisher string `mapstructure:"publisher"` // channel, pubsub
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error, fatal
	Format string `mapstructure:"format"` // json, text
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("IAMCORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "file:events.db?cache=shared&mode=rwc")
	viper.SetDefault("database.maxopenconns", 25)
	viper.SetDefault("database.maxidleconns", 5)

	viper.SetDefault("eventstore.instance_id", "default")
	viper.SetDefault("eventstore.max_push_batch_size", 100)
	viper.SetDefault("eventstore.enable_subscriptions", true)

	viper.SetDefault("projection.poll_interval_ms", 1000)
	viper.SetDefault("projection.batch_size", 200)
	viper.SetDefault("projection.max_error_count", 5)
	viper.SetDefault("projection.lock_ttl_ms", 30000)

	viper.SetDefault("idgen.machine_id", 0)
	viper.SetDefault("idgen.epoch_ms", 1700000000000)

	viper.SetDefault("crypto.bcrypt_cost", 12)
	viper.SetDefault("crypto.active_key_id", "")

	viper.SetDefault("events.publisher", "channel")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s (supported: sqlite, postgres)", config.Database.Driver)
	}
	if config.Database.DSN == "" {
		return fmt.Errorf("database DSN cannot be empty")
	}

	if config.Projection.PollIntervalMs <= 0 {
		return fmt.Errorf("projection.poll_interval_ms must be positive")
	}
	if config.Projection.LockTTLMs <= 0 {
		return fmt.Errorf("projection.lock_ttl_ms must be positive")
	}

	if config.IDGen.MachineID < 0 || config.IDGen.MachineID > 1023 {
		return fmt.Errorf("idgen.machine_id must be in [0, 1023], got %d", config.IDGen.MachineID)
	}

	if config.Crypto.BcryptCost < 4 || config.Crypto.BcryptCost > 31 {
		return fmt.Errorf("crypto.bcrypt_cost must be in [4, 31], got %d", config.Crypto.BcryptCost)
	}

	switch config.Events.Publisher {
	case "channel", "pubsub":
	default:
		return fmt.Errorf("unsupported events publisher: %s (supported: channel, pubsub)", config.Events.Publisher)
	}

	switch config.Logging.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("unsupported logging level: %s (supported: debug, info, warn, error, fatal)", config.Logging.Level)
	}

	switch config.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported logging format: %s (supported: json, text)", config.Logging.Format)
	}

	return nil
}

// GetSQLiteDSN returns a SQLite DSN for the given database file.
func GetSQLiteDSN(dbFile string) string {
	return fmt.Sprintf("file:%s?cache=shared&mode=rwc", dbFile)
}

// GetPostgresDSN returns a PostgreSQL DSN with the given parameters.
func GetPostgresDSN(host, user, password, dbname string, port int, sslmode string) string {
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		host, user, password, dbname, port, sslmode)
}
