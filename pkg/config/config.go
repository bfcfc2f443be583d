package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"time"

	"stallmap/internal/designer/state"
	"stallmap/pkg/client"
	"stallmap/pkg/logger"
)

type Config struct {
	ServiceName string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	LogLevel  string
	LogFormat string

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	LayoutServiceURL    string
	LayoutClientTimeout time.Duration
	SaveTimeout         time.Duration
	SessionTTL          time.Duration

	DesignerDefaultsFile string
	DesignerDefaults     state.Defaults

	LayoutEventsTopic   string
	LayoutEventsEnabled bool

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the configuration from the environment and exits the process
// when it is invalid.
func Load(serviceName string) *Config {
	cfg, err := FromEnv(serviceName)
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv reads and validates the configuration. The returned Config always
// carries a usable logger, even alongside an error.
func FromEnv(serviceName string) (*Config, error) {
	cfg := &Config{
		ServiceName: serviceName,

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		LogLevel:  getEnvStr(EnvLogLevel, DefaultLogLevel),
		LogFormat: getEnvStr(EnvLogFormat, DefaultLogFormat),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		LayoutServiceURL:    getEnvStr(EnvLayoutServiceURL, DefaultLayoutServiceURL),
		LayoutClientTimeout: getEnvDuration(EnvLayoutClientTimeout, DefaultLayoutClientTimeout),
		SaveTimeout:         getEnvDuration(EnvSaveTimeout, DefaultSaveTimeout),
		SessionTTL:          getEnvDuration(EnvSessionTTL, DefaultSessionTTL),

		DesignerDefaultsFile: getEnvStr(EnvDesignerDefaultsFile, ""),
		DesignerDefaults:     state.DefaultDefaults(),

		LayoutEventsTopic:   getEnvStr(EnvLayoutEventsTopic, DefaultLayoutEventsTopic),
		LayoutEventsEnabled: getEnvBool(EnvLayoutEventsEnabled, DefaultLayoutEventsEnabled),

		Client: client.NewClient(),
	}
	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})

	var problems []string
	if cfg.DesignerDefaultsFile != "" {
		defaults, err := LoadDesignerDefaults(cfg.DesignerDefaultsFile)
		if err != nil {
			problems = append(problems, err.Error())
		} else {
			cfg.DesignerDefaults = defaults
		}
	}

	if err := cfg.validate(problems); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetLayoutClient() {
	cfg.Client.SetLayout(cfg.Log, cfg.LayoutServiceURL, cfg.LayoutClientTimeout)
}

func (cfg *Config) Validate() error {
	return cfg.validate(nil)
}

func (cfg *Config) validate(errors []string) error {
	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if u, err := url.Parse(cfg.LayoutServiceURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Sprintf("LayoutServiceURL must be an absolute http(s) URL, got: %s", cfg.LayoutServiceURL))
	}

	if cfg.LogFormat != logger.JSON && cfg.LogFormat != logger.TEXT {
		errors = append(errors, fmt.Sprintf("LogFormat must be 'json' or 'text', got: %s", cfg.LogFormat))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"LayoutClientTimeout", cfg.LayoutClientTimeout},
		{"SaveTimeout", cfg.SaveTimeout},
		{"SessionTTL", cfg.SessionTTL},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}

	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.LayoutEventsEnabled && cfg.LayoutEventsTopic == "" {
		errors = append(errors, "LayoutEventsTopic cannot be empty when layout events are enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"layout_service_url", cfg.LayoutServiceURL,
		"layout_client_timeout", cfg.LayoutClientTimeout,
		"save_timeout", cfg.SaveTimeout,
		"session_ttl", cfg.SessionTTL,
		"designer_defaults_file", cfg.DesignerDefaultsFile,
		"layout_events_enabled", cfg.LayoutEventsEnabled,
		"layout_events_topic", cfg.LayoutEventsTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown(ctx context.Context) error {
	return cfg.Client.GracefulShutdown(ctx)
}
