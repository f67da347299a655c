package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "STOREFRONT_CONFIG"

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SlogLevel parses Level, falling back to info.
func (c LogConfig) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"` // postgres or sqlite
	Host        string `mapstructure:"host"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	Name        string `mapstructure:"name"`
	Port        string `mapstructure:"port"`
	TimeZone    string `mapstructure:"timezone"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// DSN returns the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.TimeZone,
	)
}

type SessionConfig struct {
	Name   string `mapstructure:"name"`
	Secret string `mapstructure:"secret"`
	Store  string `mapstructure:"store"` // cookie or gorm
	MaxAge int    `mapstructure:"max_age"`
}

type CatalogConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type OIDCConfig struct {
	Issuer       string `mapstructure:"issuer"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

func (c OIDCConfig) Enabled() bool {
	return c.Issuer != "" && c.ClientID != ""
}

type AfricaTalkingConfig struct {
	Username string `mapstructure:"username"`
	APIKey   string `mapstructure:"api_key"`
	SMSURL   string `mapstructure:"sms_url"`
	SenderID string `mapstructure:"sender_id"`
}

func (c AfricaTalkingConfig) Enabled() bool {
	return c.APIKey != ""
}

type EmailConfig struct {
	AWSAccessKeyID     string `mapstructure:"aws_access_key_id"`
	AWSSecretAccessKey string `mapstructure:"aws_secret_access_key"`
	AWSRegion          string `mapstructure:"aws_region"`
	SenderEmail        string `mapstructure:"sender_address"`
}

func (c EmailConfig) Enabled() bool {
	return c.SenderEmail != ""
}

type Config struct {
	Server   ServerConfig        `mapstructure:"server"`
	Log      LogConfig           `mapstructure:"log"`
	Database DatabaseConfig      `mapstructure:"database"`
	Session  SessionConfig       `mapstructure:"session"`
	Catalog  CatalogConfig       `mapstructure:"catalog"`
	OIDC     OIDCConfig          `mapstructure:"oidc"`
	Email    EmailConfig         `mapstructure:"email"`
	SMS      AfricaTalkingConfig `mapstructure:"sms"`
}

// Load reads configuration from defaults, an optional config file, an optional
// .env file and the environment, in increasing order of precedence.
func Load(args []string) (Config, error) {
	const op = "config.Load"

	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if path := configFilepath(args); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s: failed to read config file: %w", op, err)
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "info")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.user", "test")
	v.SetDefault("database.password", "test")
	v.SetDefault("database.name", "test")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.timezone", "Africa/Nairobi")
	v.SetDefault("database.sqlite_path", "storefront.db")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("session.name", "gosess")
	v.SetDefault("session.secret", "change-me")
	v.SetDefault("session.store", "gorm")
	v.SetDefault("session.max_age", 14*24*3600)

	v.SetDefault("catalog.page_size", 5)

	v.SetDefault("oidc.issuer", "")
	v.SetDefault("oidc.client_id", "")
	v.SetDefault("oidc.client_secret", "")
	v.SetDefault("oidc.redirect_url", "")

	v.SetDefault("email.aws_access_key_id", "")
	v.SetDefault("email.aws_secret_access_key", "")
	v.SetDefault("email.aws_region", "us-east-1")
	v.SetDefault("email.sender_address", "")

	v.SetDefault("sms.username", "")
	v.SetDefault("sms.api_key", "")
	v.SetDefault("sms.sms_url", "https://api.sandbox.africastalking.com/version1/messaging") // Sandbox URL
	v.SetDefault("sms.sender_id", "AFRICASTKNG")                                             // Default sandbox sender ID
}

func bindEnv(v *viper.Viper) error {
	envs := map[string]string{
		"server.addr":                 "HTTP_ADDR",
		"server.mode":                 "GIN_MODE",
		"log.level":                   "LOG_LEVEL",
		"database.driver":             "DB_DRIVER",
		"database.host":               "POSTGRES_HOST",
		"database.user":               "POSTGRES_USER",
		"database.password":           "POSTGRES_PASSWORD",
		"database.name":               "POSTGRES_DB",
		"database.port":               "DB_PORT",
		"database.sqlite_path":        "SQLITE_PATH",
		"database.auto_migrate":       "DB_AUTO_MIGRATE",
		"session.secret":              "SESSION_SECRET",
		"session.store":               "SESSION_STORE",
		"oidc.issuer":                 "OIDC_ISSUER",
		"oidc.client_id":              "OIDC_CLIENT_ID",
		"oidc.client_secret":          "OIDC_CLIENT_SECRET",
		"oidc.redirect_url":           "OIDC_REDIRECT_URL",
		"email.aws_access_key_id":     "AWS_ACCESS_KEY_ID",
		"email.aws_secret_access_key": "AWS_SECRET_ACCESS_KEY",
		"email.aws_region":            "AWS_REGION",
		"email.sender_address":        "AWS_SENDER_ADDRESS",
		"sms.username":                "AT_USERNAME",
		"sms.api_key":                 "AT_API_KEY",
		"sms.sms_url":                 "AT_SMS_URL",
		"sms.sender_id":               "AT_SENDER_ID",
	}
	for key, env := range envs {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}
	return nil
}

func configFilepath(args []string) string {
	cmdLine := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	path := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(args)

	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env
	}
	return *path
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server mode %q", c.Server.Mode)
	}

	switch c.Session.Store {
	case "cookie", "gorm":
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}

	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog page size must be positive, got %d", c.Catalog.PageSize)
	}
	return nil
}

// String renders the configuration without secrets.
func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "server.addr=%q server.mode=%q log.level=%q ", c.Server.Addr, c.Server.Mode, c.Log.Level)
	fmt.Fprintf(&b, "database.driver=%q database.host=%q database.name=%q ", c.Database.Driver, c.Database.Host, c.Database.Name)
	fmt.Fprintf(&b, "session.store=%q catalog.page_size=%d ", c.Session.Store, c.Catalog.PageSize)
	fmt.Fprintf(&b, "oidc=%t email=%t sms=%t", c.OIDC.Enabled(), c.Email.Enabled(), c.SMS.Enabled())
	return b.String()
}
