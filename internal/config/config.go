package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PresignTTL time.Duration
}

// RedisConfig holds the pub/sub settings for document update events.
// An empty URL keeps events inside the process.
type RedisConfig struct {
	URL   string
	Topic string
}

// AuthConfig holds the bearer token verification settings.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	TokenTTL  time.Duration
}

// UploadConfig bounds accepted evidence uploads.
type UploadConfig struct {
	MaxBytes int64
}

// ProgramSeed is one program created by the seeder.
type ProgramSeed struct {
	Code string
	Name string
}

// SeedConfig controls the reference data seeded at start-up.
type SeedConfig struct {
	OnStart  bool
	Programs []ProgramSeed
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Timezone string
	LogLevel string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Upload   UploadConfig
	Seed     SeedConfig
}

// DefaultPrograms are seeded when SEED_PROGRAMS is unset.
var DefaultPrograms = []ProgramSeed{
	{Code: "BSIT", Name: "Bachelor of Science in Information Technology"},
	{Code: "BTLED", Name: "Bachelor of Technology and Livelihood Education"},
	{Code: "BSCRIM", Name: "Bachelor of Science in Criminology"},
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("APP_TIMEZONE", "UTC"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:   getEnv("MINIO_ENDPOINT", ""),
			AccessKey:  getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey:  getEnv("MINIO_SECRET_KEY", ""),
			Bucket:     getEnv("MINIO_BUCKET", ""),
			UseSSL:     getEnvBool("MINIO_USE_SSL", false),
			PresignTTL: getEnvDuration("PRESIGN_TTL", 15*time.Minute),
		},
		Redis: RedisConfig{
			URL:   getEnv("REDIS_URL", ""),
			Topic: getEnv("EVENTS_TOPIC", "document-updates"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", "accredapi"),
			TokenTTL:  getEnvDuration("JWT_TTL", 12*time.Hour),
		},
		Upload: UploadConfig{
			MaxBytes: int64(getEnvInt("UPLOAD_MAX_BYTES", 50<<20)),
		},
		Seed: SeedConfig{
			OnStart:  getEnvBool("SEED_ON_START", true),
			Programs: parsePrograms(getEnv("SEED_PROGRAMS", "")),
		},
	}
}

// Location resolves Timezone, falling back to UTC for unknown names.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// parsePrograms reads "CODE:Name;CODE:Name". Malformed entries are skipped.
func parsePrograms(raw string) []ProgramSeed {
	if strings.TrimSpace(raw) == "" {
		return DefaultPrograms
	}
	var out []ProgramSeed
	for _, entry := range strings.Split(raw, ";") {
		code, name, ok := strings.Cut(entry, ":")
		code = strings.ToUpper(strings.TrimSpace(code))
		name = strings.TrimSpace(name)
		if !ok || code == "" || name == "" {
			continue
		}
		out = append(out, ProgramSeed{Code: code, Name: name})
	}
	if len(out) == 0 {
		return DefaultPrograms
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			return d
		}
	}
	return def
}
