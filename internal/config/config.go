package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"membership-admin/pkg/logger"
)

const (
	BackendREST     = "rest"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Placeholder values shipped in sample configs; treated as "not configured".
const (
	placeholderURL = "YOUR_SUPABASE_PROJECT_URL"
	placeholderKey = "YOUR_SUPABASE_ANON_KEY"
)

type Config struct {
	HTTPPort string
	Env      string
	Backend  string
	Schema   string
	Messages MessagesConfig
	Options  OptionsConfig
	HTTP     HTTPConfig
	DB       DBConfig
	Supabase SupabaseConfig
	Redis    RedisConfig
}

type MessagesConfig struct {
	TTL       time.Duration
	DeleteTTL time.Duration
}

// OptionsConfig holds the closed enumerations offered as select options.
type OptionsConfig struct {
	MembershipTypes    []string
	MembershipStatuses []string
	Genders            []string
	TrainingLevels     []string
}

type HTTPConfig struct {
	CORSAllowedOrigins []string
	CSRFEnabled        bool
	CSRFKey            []byte
	RequestTimeout     time.Duration
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	Table           string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type SupabaseConfig struct {
	URL            string
	AnonKey        string
	Table          string
	Timeout        time.Duration
	SkipAuth       bool
	MockUserID     string
	MockUserEmail  string
	MockUserName   string
	MockUserAvatar string
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	MessageKey string
}

func Load(log logger.Logger) (Config, error) {
	err := loadDotEnv(log)
	if err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	env := getEnv("ENV", "development")
	csrfKey, err := loadCSRFKey(env, log)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Env:      env,
		Backend:  strings.ToLower(getEnv("BACKEND", BackendREST)),
		Schema:   strings.ToLower(getEnv("MEMBER_SCHEMA", "canonical")),
		Messages: MessagesConfig{
			TTL:       getEnvDuration("MESSAGE_TTL", 5*time.Second),
			DeleteTTL: getEnvDuration("DELETE_MESSAGE_TTL", 3*time.Second),
		},
		Options: OptionsConfig{
			MembershipTypes:    getEnvList("MEMBERSHIP_TYPES", []string{"Monthly", "Quarterly", "6 Months", "Annual", "Drop-in", "Trial"}),
			MembershipStatuses: getEnvList("MEMBERSHIP_STATUSES", []string{"active", "expired", "suspended", "cancelled"}),
			Genders:            getEnvList("GENDERS", []string{"Male", "Female", "Other"}),
			TrainingLevels:     getEnvList("TRAINING_LEVELS", []string{"Beginner", "Intermediate", "Advanced"}),
		},
		HTTP: HTTPConfig{
			CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			CSRFEnabled:        getEnvBool("CSRF_ENABLED", true),
			CSRFKey:            csrfKey,
			RequestTimeout:     getEnvDuration("HTTP_REQUEST_TIMEOUT", 30*time.Second),
		},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "postgres"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			Table:           getEnv("DB_TABLE", "member"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Supabase: SupabaseConfig{
			URL:            getEnv("SUPABASE_URL", ""),
			AnonKey:        getEnv("SUPABASE_ANON_KEY", getEnv("SUPABASE_PUBLISHABLE_KEY", "")),
			Table:          getEnv("SUPABASE_TABLE", "member"),
			Timeout:        getEnvDuration("SUPABASE_TIMEOUT", 10*time.Second),
			SkipAuth:       getEnvBool("AUTH_SKIP", false),
			MockUserID:     getEnv("AUTH_MOCK_USER_ID", "00000000-0000-0000-0000-000000000001"),
			MockUserEmail:  getEnv("AUTH_MOCK_USER_EMAIL", ""),
			MockUserName:   getEnv("AUTH_MOCK_USER_NAME", ""),
			MockUserAvatar: getEnv("AUTH_MOCK_USER_AVATAR_URL", ""),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", ""),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvInt("REDIS_DB", 0),
			MessageKey: getEnv("REDIS_MESSAGE_KEY", "membership-admin:message"),
		},
	}

	switch cfg.Backend {
	case BackendREST, BackendPostgres, BackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown BACKEND %q", cfg.Backend)
	}

	return cfg, nil
}

// Configured reports whether real backend credentials were supplied.
func (c SupabaseConfig) Configured() bool {
	url := strings.TrimSpace(c.URL)
	key := strings.TrimSpace(c.AnonKey)
	if url == "" || key == "" {
		return false
	}
	return url != placeholderURL && key != placeholderKey
}

func loadCSRFKey(env string, log logger.Logger) ([]byte, error) {
	if keyHex := os.Getenv("CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	if env == "production" {
		return nil, fmt.Errorf("CSRF_KEY is required in production")
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	log.Warn("config: using random csrf key, set CSRF_KEY to keep forms valid across restarts")
	return key, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			result = append(result, item)
		}
	}
	if len(result) == 0 {
		return fallback
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
