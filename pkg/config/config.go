package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	JWTSecret    string

	// Coin economy knobs.
	CostPost     int64
	CostConnect  int64
	AllowRefunds bool
	// When true an approved connection still needs the target's acceptance;
	// the decision notification to the target carries the offer.
	RequireTargetAccept bool

	// Requests per minute per client IP for the API group.
	RateLimit int64

	// Optional event stream; publishing is disabled when no brokers are set.
	KafkaBrokers []string
	KafkaTopic   string

	// Cron expression for the periodic ledger reconciliation run.
	ReconcileSpec string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("COST_POST", 2)
	viper.SetDefault("COST_CONNECT", 2)
	viper.SetDefault("ALLOW_REFUNDS", true)
	viper.SetDefault("REQUIRE_TARGET_ACCEPT", false)
	viper.SetDefault("RATE_LIMIT", 120)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "islandvault.events")
	viper.SetDefault("RECONCILE_SPEC", "@every 1h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.CostPost = viper.GetInt64("COST_POST")
	if cfg.CostPost < 0 {
		log.Printf("Warning: COST_POST must not be negative ('%d'). Defaulting to 2.\n", cfg.CostPost)
		cfg.CostPost = 2
	}
	cfg.CostConnect = viper.GetInt64("COST_CONNECT")
	if cfg.CostConnect < 0 {
		log.Printf("Warning: COST_CONNECT must not be negative ('%d'). Defaulting to 2.\n", cfg.CostConnect)
		cfg.CostConnect = 2
	}

	cfg.AllowRefunds = viper.GetBool("ALLOW_REFUNDS")
	cfg.RequireTargetAccept = viper.GetBool("REQUIRE_TARGET_ACCEPT")

	cfg.RateLimit = viper.GetInt64("RATE_LIMIT")
	if cfg.RateLimit <= 0 {
		log.Printf("Warning: Invalid value for RATE_LIMIT ('%d'). Defaulting to 120.\n", cfg.RateLimit)
		cfg.RateLimit = 120
	}

	if brokers := viper.GetString("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")

	cfg.ReconcileSpec = viper.GetString("RECONCILE_SPEC")

	return cfg, nil
}
