package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Persistence drivers.
const (
	DriverMongo    = "mongo"
	DriverMutation = "mutation"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Gemini      GeminiConfig      `mapstructure:"gemini"`
	Generation  GenerationConfig  `mapstructure:"generation"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	S3          S3Config          `mapstructure:"s3"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	// WebhookSecret, when set, must match the X-Vapi-Secret header of webhook calls.
	WebhookSecret string        `mapstructure:"webhook_secret"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
}

type GeminiConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type GenerationConfig struct {
	// Parallel runs the workout and diet model calls concurrently.
	Parallel bool `mapstructure:"parallel"`
	// FallbackOnModelError substitutes the fallback plan when the model call itself fails.
	FallbackOnModelError bool `mapstructure:"fallback_on_model_error"`
}

type PersistenceConfig struct {
	Driver   string         `mapstructure:"driver"`
	Timeout  time.Duration  `mapstructure:"timeout"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Mutation MutationConfig `mapstructure:"mutation"`
}

type MongoConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

// MutationConfig points at a Convex-compatible HTTP mutation endpoint.
type MutationConfig struct {
	URL       string `mapstructure:"url"`
	Path      string `mapstructure:"path"`
	AuthToken string `mapstructure:"auth_token"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig enables the plan read endpoints when Secret is set.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type TracingConfig struct {
	// Exporter is "stdout", "otlp" or empty for a no-op provider.
	Exporter    string `mapstructure:"exporter"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

var defaults = map[string]interface{}{
	"server.address":                     ":8080",
	"server.webhook_secret":              "",
	"server.read_timeout":                "15s",
	"server.write_timeout":               "120s",
	"log.mode":                           "dev",
	"gemini.api_key":                     "",
	"gemini.model":                       "gemini-2.0-flash-001",
	"gemini.temperature":                 0.8,
	"gemini.timeout":                     "45s",
	"generation.parallel":                false,
	"generation.fallback_on_model_error": false,
	"persistence.driver":                 DriverMongo,
	"persistence.timeout":                "10s",
	"persistence.mongo.uri":              "mongodb://localhost:27017",
	"persistence.mongo.name":             "fitness_planner",
	"persistence.mutation.url":           "",
	"persistence.mutation.path":          "plans:createPlan",
	"persistence.mutation.auth_token":    "",
	"s3.endpoint":                        "",
	"s3.region":                          "us-east-1",
	"s3.access_key_id":                   "",
	"s3.secret_access_key":               "",
	"s3.bucket_name":                     "",
	"s3.use_ssl":                         true,
	"jwt.secret":                         "",
	"tracing.exporter":                   "",
	"tracing.endpoint":                   "",
	"tracing.service_name":               "fitness-planner",
}

// LoadConfig reads configuration from file or environment variables.
// A .env file in the working directory is loaded into the environment first.
func LoadConfig(path string) (config Config, err error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, persistence.mongo.uri -> PERSISTENCE_MONGO_URI
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// AutomaticEnv only resolves keys viper already knows about.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}
	config.Persistence.Driver = strings.ToLower(strings.TrimSpace(config.Persistence.Driver))
	return config, nil
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return errors.New("gemini.api_key (GEMINI_API_KEY) is required")
	}
	switch c.Persistence.Driver {
	case DriverMongo:
		if c.Persistence.Mongo.URI == "" {
			return errors.New("persistence.mongo.uri is required for the mongo driver")
		}
	case DriverMutation:
		if c.Persistence.Mutation.URL == "" {
			return errors.New("persistence.mutation.url is required for the mutation driver")
		}
	default:
		return fmt.Errorf("unknown persistence.driver %q", c.Persistence.Driver)
	}
	if budget := c.RequestBudget(); c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= budget {
		return fmt.Errorf("server.write_timeout %s must exceed two model calls plus persistence (%s)",
			c.Server.WriteTimeout, budget)
	}
	switch c.Tracing.Exporter {
	case "", "stdout", "otlp":
	default:
		return fmt.Errorf("unknown tracing.exporter %q", c.Tracing.Exporter)
	}
	return nil
}

// RequestBudget is the longest a sequential generation request may take:
// two model calls and one persistence call.
func (c Config) RequestBudget() time.Duration {
	return 2*c.Gemini.Timeout + c.Persistence.Timeout
}
