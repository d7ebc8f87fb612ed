package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	NATS       NATSConfig       `mapstructure:"nats"`
	CORS       CORSConfig       `mapstructure:"cors"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Cache      CacheConfig      `mapstructure:"cache"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	StreamName string `mapstructure:"stream_name"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// ScoringConfig holds the tunable data behind the risk scoring engine. The
// keyword and prefix lists live here rather than in the engine so they can be
// adjusted without touching the scoring algorithm.
type ScoringConfig struct {
	// Substring-matched against normalized input, case-insensitive.
	DangerousKeywords []string `mapstructure:"dangerous_keywords"`

	// Credential-phishing keywords used for the phone co-occurrence boost.
	CredentialKeywords []string `mapstructure:"credential_keywords"`

	// Urgency keywords used for the URL co-occurrence boost.
	UrgencyKeywords []string `mapstructure:"urgency_keywords"`

	// Phone country-code prefixes mapped to heuristic impact (0-100).
	RiskyPhonePrefixes map[string]int `mapstructure:"risky_phone_prefixes"`

	// Domestic country-code prefix; international numbers outside the risk
	// table but not matching this prefix get the non-domestic floor.
	DomesticPrefix string `mapstructure:"domestic_prefix"`

	// URL shortener domain tokens.
	ShortenerDomains []string `mapstructure:"shortener_domains"`
}

type ClassifierConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Endpoint string        `mapstructure:"endpoint"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	ScanTTL time.Duration `mapstructure:"scan_ttl"`
}

// Load reads configuration from file and environment variables. A missing
// config file is not an error; compiled-in defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/scamshield")
	}

	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("SCAMSHIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("database.host", "SCAMSHIELD_DATABASE_HOST")
	v.BindEnv("database.port", "SCAMSHIELD_DATABASE_PORT")
	v.BindEnv("database.user", "SCAMSHIELD_DATABASE_USER")
	v.BindEnv("database.password", "SCAMSHIELD_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "SCAMSHIELD_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "SCAMSHIELD_DATABASE_SSLMODE")
	v.BindEnv("redis.host", "SCAMSHIELD_REDIS_HOST")
	v.BindEnv("redis.port", "SCAMSHIELD_REDIS_PORT")
	v.BindEnv("redis.password", "SCAMSHIELD_REDIS_PASSWORD")
	v.BindEnv("nats.enabled", "SCAMSHIELD_NATS_ENABLED")
	v.BindEnv("nats.url", "SCAMSHIELD_NATS_URL")
	v.BindEnv("classifier.endpoint", "SCAMSHIELD_CLASSIFIER_ENDPOINT")
	v.BindEnv("classifier.api_key", "SCAMSHIELD_CLASSIFIER_API_KEY")
	v.BindEnv("app.environment", "SCAMSHIELD_APP_ENVIRONMENT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

// DefaultScoring returns the compiled-in scoring data.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		DangerousKeywords: []string{
			"winner", "lottery", "urgent", "bank", "kyc", "block", "verify",
			"expire", "package", "delivery", "shipping", "customs",
			"click here", "link",
		},
		CredentialKeywords: []string{"otp", "pin", "password"},
		UrgencyKeywords:    []string{"urgent", "expire"},
		RiskyPhonePrefixes: map[string]int{
			"+92":  100, // Pakistan
			"+880": 100, // Bangladesh
			"+234": 100, // Nigeria
			"+7":   90,
			"+86":  90,
			"+62":  90,
		},
		DomesticPrefix: "+91",
		ShortenerDomains: []string{
			"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly",
			"is.gd", "buff.ly", "cutt.ly", "rb.gy", "tiny.cc",
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "scamshield")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "scamshield")
	v.SetDefault("database.dbname", "scamshield")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.key_prefix", "scamshield:")

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.stream_name", "SCAMSHIELD_REPORTS")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Content-Type", "Authorization"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_minute", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	v.SetDefault("classifier.enabled", true)
	v.SetDefault("classifier.timeout", 5*time.Second)

	v.SetDefault("cache.scan_ttl", 5*time.Minute)

	scoring := DefaultScoring()
	v.SetDefault("scoring.dangerous_keywords", scoring.DangerousKeywords)
	v.SetDefault("scoring.credential_keywords", scoring.CredentialKeywords)
	v.SetDefault("scoring.urgency_keywords", scoring.UrgencyKeywords)
	v.SetDefault("scoring.risky_phone_prefixes", scoring.RiskyPhonePrefixes)
	v.SetDefault("scoring.domestic_prefix", scoring.DomesticPrefix)
	v.SetDefault("scoring.shortener_domains", scoring.ShortenerDomains)
}
