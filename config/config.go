package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env           string
	Port          string
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBDSN         string
	DBAutoMigrate bool
	JWTSecret     string
	JWTTTL        time.Duration
	SecureCookies bool
	CORSOrigins   []string
	PostsPerPage  int
	AdminPageSize int
	MediaRoot     string
	MaxUploadMB   int64
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "blogicum")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("JWT_SECRET", "default-secret")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("SECURE_COOKIES", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("POSTS_PER_PAGE", 10)
	v.SetDefault("ADMIN_PAGE_SIZE", 7)
	v.SetDefault("MEDIA_ROOT", "media")
	v.SetDefault("MAX_UPLOAD_MB", 5)
	v.SetDefault("HTTP_READ_TIMEOUT", "15s")
	v.SetDefault("HTTP_WRITE_TIMEOUT", "30s")
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Env:           strings.ToLower(v.GetString("APP_ENV")),
		Port:          v.GetString("PORT"),
		DBDriver:      strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBSSLMode:     v.GetString("DB_SSLMODE"),
		DBDSN:         v.GetString("DB_DSN"),
		DBAutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTTTL:        v.GetDuration("JWT_TTL"),
		SecureCookies: v.GetBool("SECURE_COOKIES"),
		CORSOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		PostsPerPage:  v.GetInt("POSTS_PER_PAGE"),
		AdminPageSize: v.GetInt("ADMIN_PAGE_SIZE"),
		MediaRoot:     v.GetString("MEDIA_ROOT"),
		MaxUploadMB:   v.GetInt64("MAX_UPLOAD_MB"),
		ReadTimeout:   v.GetDuration("HTTP_READ_TIMEOUT"),
		WriteTimeout:  v.GetDuration("HTTP_WRITE_TIMEOUT"),
	}

	if cfg.PostsPerPage < 1 {
		cfg.PostsPerPage = 10
	}
	if cfg.AdminPageSize < 1 {
		cfg.AdminPageSize = 7
	}
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = 24 * time.Hour
	}
	return cfg
}

func (c *Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// DatabaseURL builds the DSN for the configured driver unless DB_DSN is set.
func (c *Config) DatabaseURL() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}

	switch c.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	case "sqlite":
		return c.DBName + ".db?_pragma=foreign_keys(1)"
	default:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
