package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Redis     RedisConfig     `envPrefix:"REDIS_"`
	Database  DatabaseConfig  `envPrefix:"DATABASE_"`
	LLM       LLMConfig       `envPrefix:"LLM_"`
	Search    SearchConfig    `envPrefix:"SEARCH_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
	Auth      AuthConfig      `envPrefix:"AUTH_"`
	Kafka     KafkaConfig     `envPrefix:"KAFKA_"`
}

type ServerConfig struct {
	Addr string `env:"ADDR" envDefault:":8080"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type DatabaseConfig struct {
	Enabled  bool   `env:"ENABLED" envDefault:"false"`
	URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" envDefault:"product_search"`
}

type LLMConfig struct {
	GoogleAIAPIKey  string `env:"GOOGLE_AI_API_KEY"`
	Model           string `env:"MODEL" envDefault:"googleai/gemini-2.5-flash"`
	MaxOutputTokens int    `env:"MAX_OUTPUT_TOKENS" envDefault:"2000"`
}

// SearchConfig carries the tunables of the search pipeline. The timeout and
// retry values changed too often in production to be constants.
type SearchConfig struct {
	OverallTimeout    time.Duration `env:"OVERALL_TIMEOUT" envDefault:"45s"`
	ProviderTimeout   time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"18s"`
	MaxRetries        int           `env:"MAX_RETRIES" envDefault:"1"`
	MaxResults        int           `env:"MAX_RESULTS" envDefault:"10"`
	CheckImages       bool          `env:"CHECK_IMAGES" envDefault:"false"`
	ImageCheckTimeout time.Duration `env:"IMAGE_CHECK_TIMEOUT" envDefault:"3s"`
	PlaceholderHosts  []string      `env:"PLACEHOLDER_HOSTS" envDefault:"placehold.co,via.placeholder.com,placekitten.com,dummyimage.com"`
}

type RateLimitConfig struct {
	Window      time.Duration `env:"WINDOW" envDefault:"60s"`
	MaxRequests int           `env:"MAX_REQUESTS" envDefault:"10"`
	// FailOpen admits traffic when the store is unreachable instead of
	// returning 500.
	FailOpen bool `env:"FAIL_OPEN" envDefault:"false"`
}

type AuthConfig struct {
	// APIKey enables authentication when set. Anonymous traffic is still
	// served, but tracked separately by the rate limiter.
	APIKey    string `env:"API_KEY"`
	JWTSecret string `env:"JWT_SECRET"`
}

type KafkaConfig struct {
	Enabled bool     `env:"ENABLED" envDefault:"false"`
	Brokers []string `env:"BROKERS" envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"product-search.events"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
