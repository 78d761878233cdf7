package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	GA        GAConfig
	WebSocket WebSocketConfig
	History   HistoryConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig governs the orchestrator and proposal lifetime.
type SchedulerConfig struct {
	ProposalTTL       time.Duration
	FitnessWorkers    int
	MaxConcurrentRuns int
}

// GAConfig carries the default genetic algorithm parameters used when a
// generate request omits them. Ranges and defaults mirror the documented
// GAParams wire format.
type GAConfig struct {
	PopulationSize  int
	GenerationCount int
	ElitismCount    int
	CrossoverRate   float64
	MutationRate    float64
	TournamentSize  int
}

// WebSocketConfig tunes the progress channel.
type WebSocketConfig struct {
	PingInterval   time.Duration
	WriteTimeout   time.Duration
	ReadBufferSize int
}

// HistoryConfig controls optional fitness-history archival.
type HistoryConfig struct {
	Enabled    bool
	StorageDir string
	SignedTTL  time.Duration
	Secret     string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		ProposalTTL:       parseDuration(v.GetString("SCHEDULER_PROPOSAL_TTL"), 30*time.Minute),
		FitnessWorkers:    v.GetInt("SCHEDULER_FITNESS_WORKERS"),
		MaxConcurrentRuns: v.GetInt("SCHEDULER_MAX_CONCURRENT_RUNS"),
	}

	cfg.GA = GAConfig{
		PopulationSize:  v.GetInt("GA_POPULATION_SIZE"),
		GenerationCount: v.GetInt("GA_GENERATION_COUNT"),
		ElitismCount:    v.GetInt("GA_ELITISM_COUNT"),
		CrossoverRate:   v.GetFloat64("GA_CROSSOVER_RATE"),
		MutationRate:    v.GetFloat64("GA_MUTATION_RATE"),
		TournamentSize:  v.GetInt("GA_TOURNAMENT_SIZE"),
	}

	cfg.WebSocket = WebSocketConfig{
		PingInterval:   parseDuration(v.GetString("WS_PING_INTERVAL"), 30*time.Second),
		WriteTimeout:   parseDuration(v.GetString("WS_WRITE_TIMEOUT"), 10*time.Second),
		ReadBufferSize: v.GetInt("WS_READ_BUFFER_SIZE"),
	}

	cfg.History = HistoryConfig{
		Enabled:    v.GetBool("HISTORY_ENABLED"),
		StorageDir: v.GetString("HISTORY_STORAGE_DIR"),
		SignedTTL:  parseDuration(v.GetString("HISTORY_SIGNED_URL_TTL"), time.Hour),
		Secret:     v.GetString("HISTORY_SIGNED_URL_SECRET"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "schoolsched")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_PROPOSAL_TTL", "30m")
	v.SetDefault("SCHEDULER_FITNESS_WORKERS", 0)
	v.SetDefault("SCHEDULER_MAX_CONCURRENT_RUNS", 4)

	v.SetDefault("GA_POPULATION_SIZE", 100)
	v.SetDefault("GA_GENERATION_COUNT", 100)
	v.SetDefault("GA_ELITISM_COUNT", 5)
	v.SetDefault("GA_CROSSOVER_RATE", 0.8)
	v.SetDefault("GA_MUTATION_RATE", 0.2)
	v.SetDefault("GA_TOURNAMENT_SIZE", 5)

	v.SetDefault("WS_PING_INTERVAL", "30s")
	v.SetDefault("WS_WRITE_TIMEOUT", "10s")
	v.SetDefault("WS_READ_BUFFER_SIZE", 1024)

	v.SetDefault("HISTORY_ENABLED", false)
	v.SetDefault("HISTORY_STORAGE_DIR", "./data/history")
	v.SetDefault("HISTORY_SIGNED_URL_TTL", "1h")
	v.SetDefault("HISTORY_SIGNED_URL_SECRET", "dev_history_secret")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
