package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Amazon    AmazonConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Ranking   RankingConfig
	Generator GeneratorConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AmazonConfig holds RapidAPI Amazon data API configuration
type AmazonConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	Marketplace string `mapstructure:"marketplace"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP  int `mapstructure:"per_ip"`
	Amazon int `mapstructure:"amazon"`
}

// RankingConfig holds product ranking configuration
type RankingConfig struct {
	Limit         int      `mapstructure:"limit"`
	PremiumBrands []string `mapstructure:"premium_brands"`
}

// GeneratorConfig holds site generator configuration
type GeneratorConfig struct {
	NichesFile   string `mapstructure:"niches_file"`
	TemplateFile string `mapstructure:"template_file"`
	OutputDir    string `mapstructure:"output_dir"`
	AffiliateTag string `mapstructure:"affiliate_tag"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/nichegen/")

	// Environment variable settings
	v.SetEnvPrefix("NICHEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Amazon API defaults. The empty api_key default registers the key so
	// AutomaticEnv can populate it during Unmarshal.
	v.SetDefault("amazon.api_key", "")
	v.SetDefault("amazon.base_url", "https://amazon-real-time-api.p.rapidapi.com")
	v.SetDefault("amazon.marketplace", "US")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	// Rate limit defaults
	// 60/min matches the RapidAPI free tier
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.amazon", 60)

	// Ranking defaults; an empty premium_brands list means the built-in set
	v.SetDefault("ranking.limit", 12)
	v.SetDefault("ranking.premium_brands", []string{})

	// Generator defaults
	v.SetDefault("generator.niches_file", "niches.csv")
	v.SetDefault("generator.template_file", "")
	v.SetDefault("generator.output_dir", "sites")
	v.SetDefault("generator.affiliate_tag", "nichegen-20")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Amazon.APIKey == "" {
		return fmt.Errorf("Amazon API key is required (set NICHEGEN_AMAZON_API_KEY)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Ranking.Limit < 0 {
		return fmt.Errorf("ranking limit must not be negative, got: %d", config.Ranking.Limit)
	}

	if config.Generator.AffiliateTag == "" {
		return fmt.Errorf("affiliate tag must not be empty")
	}

	return nil
}
