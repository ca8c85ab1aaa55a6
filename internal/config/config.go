package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full runtime configuration of the server.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Scoring   ScoringConfig
	Evaluator EvaluatorConfig
	Jobs      JobsConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Driver     string // postgres | sqlite
	URL        string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// DSN returns the postgres connection string, preferring DATABASE_URL when set.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
	LockTTL  time.Duration
}

// Enabled reports whether a redis address was configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

type AuthConfig struct {
	JWTSecret     string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	// AdminToken guards the admin endpoints; they are disabled when empty.
	AdminToken string
}

type StorageConfig struct {
	Driver         string // local | minio
	UploadDir      string
	MaxUploadBytes int64
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

type ScoringConfig struct {
	Baseline          float64
	SimulationPenalty float64
}

type EvaluatorConfig struct {
	Name         string // rules | gemini
	GeminiAPIKey string
	GeminiModel  string
}

type JobsConfig struct {
	StatsRebuildSchedule string
	TokenCleanupSchedule string
	Enabled              bool
}

var loadDotenv = func() error { return godotenv.Load() }

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// a missing .env is normal outside local development
	_ = loadDotenv()

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			URL:        os.Getenv("DATABASE_URL"),
			Host:       getEnv("POSTGRES_HOST", "localhost"),
			Port:       getEnv("POSTGRES_PORT", "5432"),
			User:       getEnv("POSTGRES_USER", "postgres"),
			Password:   getEnv("POSTGRES_PASSWORD", "postgres"),
			Name:       getEnv("POSTGRES_DB", "interviewprep"),
			SSLMode:    getEnv("POSTGRES_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "interviewprep.db"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			LockTTL:  getEnvDuration("LOCK_TTL", 10*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "dev"),
			AccessExpiry:  getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),
			RefreshExpiry: getEnvDuration("REFRESH_EXPIRY", 30*24*time.Hour),
			AdminToken:    os.Getenv("ADMIN_TOKEN"),
		},
		Storage: StorageConfig{
			Driver:         getEnv("STORAGE_DRIVER", "local"),
			UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
			MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),
			MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
			MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
			MinioBucket:    getEnv("MINIO_BUCKET", "interview-uploads"),
			MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Scoring: ScoringConfig{
			Baseline:          getEnvFloat("SCORE_BASELINE", 60.0),
			SimulationPenalty: getEnvFloat("SIMULATION_PENALTY", 8.0),
		},
		Evaluator: EvaluatorConfig{
			Name:         getEnv("EVALUATOR", "rules"),
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Jobs: JobsConfig{
			StatsRebuildSchedule: getEnv("STATS_REBUILD_SCHEDULE", "0 3 * * *"),
			TokenCleanupSchedule: getEnv("TOKEN_CLEANUP_SCHEDULE", "@hourly"),
			Enabled:              getEnvBool("JOBS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return errors.New("unsupported DB_DRIVER: " + c.Database.Driver + ". Supported: postgres, sqlite")
	}
	switch c.Storage.Driver {
	case "local":
	case "minio":
		if c.Storage.MinioEndpoint == "" {
			return errors.New("MINIO_ENDPOINT is required when STORAGE_DRIVER=minio")
		}
	default:
		return errors.New("unsupported STORAGE_DRIVER: " + c.Storage.Driver + ". Supported: local, minio")
	}
	if c.Storage.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	if c.Scoring.Baseline < 0 || c.Scoring.Baseline > 100 {
		return fmt.Errorf("SCORE_BASELINE must be within [0,100], got %.1f", c.Scoring.Baseline)
	}
	if c.Scoring.SimulationPenalty < 0 || c.Scoring.SimulationPenalty > 100 {
		return fmt.Errorf("SIMULATION_PENALTY must be within [0,100], got %.1f", c.Scoring.SimulationPenalty)
	}
	if c.Auth.AccessExpiry <= 0 || c.Auth.RefreshExpiry <= 0 {
		return errors.New("token expiries must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
