package config

import (
	"fmt"
	"time"
)

// DatabaseConfig configures the Postgres session store.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            getEnv("POSTGRES_HOST", "localhost"),
		Port:            getEnvInt("POSTGRES_PORT", 5432),
		User:            getEnv("POSTGRES_USER", "postgres"),
		Password:        getEnv("POSTGRES_PASSWORD", ""),
		Name:            getEnv("POSTGRES_DB", "auth"),
		SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
		MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute),
	}
}

// RedisConfig configures the refresh cache and OAuth state store.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnvInt("REDIS_PORT", 6379),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

// JWTConfig configures the token codec's signing secret and lifetimes.
type JWTConfig struct {
	Secret          string
	Issuer          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	RegisterTTL     time.Duration
}

func loadJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:          getEnv("AUTH_SECRET", "dev-secret-change-me"),
		Issuer:          getEnv("PROJECT_NAME", "api-auth"),
		AccessTokenTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		RegisterTTL:     getEnvDuration("REGISTER_TOKEN_TTL", 3*time.Hour),
	}
}

// OAuthConfig configures the Google and Yandex authorization-code clients.
type OAuthConfig struct {
	Host               string
	Port               int
	GoogleClientID     string
	GoogleClientSecret string
	YandexClientID     string
	YandexClientSecret string
	StateTTL           time.Duration
}

func (o OAuthConfig) RedirectURI(provider string) string {
	return fmt.Sprintf("http://%s:%d/api/v1/auth/oauth-redirect/%s", o.Host, o.Port, provider)
}

func loadOAuthConfig() OAuthConfig {
	return OAuthConfig{
		Host:               getEnv("API_AUTH_HOST", "localhost"),
		Port:               getEnvInt("API_AUTH_PORT", 8080),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		YandexClientID:     getEnv("YANDEX_CLIENT_ID", ""),
		YandexClientSecret: getEnv("YANDEX_CLIENT_SECRET", ""),
		StateTTL:           getEnvDuration("OAUTH_STATE_TTL", 10*time.Minute),
	}
}

// NotifyConfig configures the service-to-service notifications client.
type NotifyConfig struct {
	Host      string
	Port      int
	Secret    string
	Timeout   time.Duration
	ServiceName string
}

func (n NotifyConfig) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", n.Host, n.Port)
}

func loadNotifyConfig() NotifyConfig {
	return NotifyConfig{
		Host:        getEnv("API_NOTIFICATIONS_HOST", "localhost"),
		Port:        getEnvInt("API_NOTIFICATIONS_PORT", 8090),
		Secret:      getEnv("SERVICE_TO_SERVICE_SECRET", ""),
		Timeout:     getEnvDuration("NOTIFICATIONS_TIMEOUT", 5*time.Second),
		ServiceName: getEnv("PROJECT_NAME", "api-auth"),
	}
}

// ServerConfig configures the HTTP edge.
type ServerConfig struct {
	Port        string
	CORSOrigins string
	DocsURL     string
	Debug       bool
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		DocsURL:     getEnv("DOCS_URL", "/api/v1/docs"),
		Debug:       getEnv("DEBUG", "false") == "true",
	}
}

// Config aggregates every concern's configuration, loaded once at startup.
type Config struct {
	ProjectName string
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	OAuth       OAuthConfig
	Notify      NotifyConfig
	Server      ServerConfig
}

func Load() *Config {
	return &Config{
		ProjectName: getEnv("PROJECT_NAME", "api-auth"),
		Database:    loadDatabaseConfig(),
		Redis:       loadRedisConfig(),
		JWT:         loadJWTConfig(),
		OAuth:       loadOAuthConfig(),
		Notify:      loadNotifyConfig(),
		Server:      loadServerConfig(),
	}
}
