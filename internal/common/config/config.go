// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Mail     MailConfig     `mapstructure:"mail"`
	IMAP     IMAPConfig     `mapstructure:"imap"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MailConfig selects and configures the outbound mail provider.
type MailConfig struct {
	Provider string `mapstructure:"provider"` // "smtp" or "ses"

	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		UseTLS   bool   `mapstructure:"use_tls"`
	} `mapstructure:"smtp"`

	SES struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"ses"`

	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	CC       string `mapstructure:"cc"`
}

// IMAPConfig configures the mailbox used for archiving sent messages.
type IMAPConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	UseTLS      bool   `mapstructure:"use_tls"`
	Folder      string `mapstructure:"folder"`
	AppendDelay int    `mapstructure:"append_delay"` // milliseconds, settle time between send and append
}

// NotifierConfig holds the scan loop settings.
type NotifierConfig struct {
	Interval int    `mapstructure:"interval"` // milliseconds
	BaseURL  string `mapstructure:"base_url"`
	// Policy decides when the notified flag is flipped relative to the send:
	// "pre-commit" marks before sending (never duplicate-send),
	// "post-commit" marks after sending (never silent-drop).
	Policy   string            `mapstructure:"policy"`
	LockTTL  int               `mapstructure:"lock_ttl"` // milliseconds
	MinDate  string            `mapstructure:"min_date"` // YYYY-MM-DD floor applied to all classes
	MinDates map[string]string `mapstructure:"min_dates"` // optional per-class overrides, keyed by type tag
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

const (
	PolicyPreCommit  = "pre-commit"
	PolicyPostCommit = "post-commit"
)
