package config

import (
	"os"
	"strconv"
	"time"

	usecasecontract "github.com/nepcourses/nepcourses-api/internal/usecase/contract"
)

// EsewaConfig holds eSewa gateway credentials and callback URLs.
type EsewaConfig struct {
	SecretKey   string
	ProductCode string
	SuccessURL  string
	FailureURL  string
}

// KhaltiConfig holds Khalti gateway credentials and the browser return URL.
type KhaltiConfig struct {
	SecretKey string
	ReturnURL string
}

// SMTPConfig holds mail delivery settings.
type SMTPConfig struct {
	Host        string
	Port        string
	Username    string
	AppPassword string
	From        string
}

// Config holds application configuration values. It is constructed once at
// startup and injected; handlers and usecases never read the environment
// themselves.
type Config struct {
	Env                string
	Port               string
	ServerURL          string
	ClientURL          string
	MongoURI           string
	MongoDBName        string
	RedisURL           string
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	Esewa              EsewaConfig
	Khalti             KhaltiConfig
	SMTP               SMTPConfig
}

// NewConfig creates a new Config instance, loading values from environment variables.
func NewConfig() *Config {
	serverURL := getEnv("SERVER_URL", "http://localhost:8080")
	return &Config{
		Env:                getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		ServerURL:          serverURL,
		ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
		MongoURI:           getEnv("MONGODB_URI", ""),
		MongoDBName:        getEnv("MONGODB_DB_NAME", "nepcourses"),
		RedisURL:           getEnv("REDIS_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		AccessTokenExpiry:  time.Minute * time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRY_MINUTES", 15)),
		RefreshTokenExpiry: time.Hour * time.Duration(getEnvAsInt("REFRESH_TOKEN_EXPIRY_HOURS", 168)), // 7 days
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		Esewa: EsewaConfig{
			SecretKey:   getEnv("ESEWA_SECRET_KEY", ""),
			ProductCode: getEnv("ESEWA_PRODUCT_CODE", "EPAYTEST"),
			SuccessURL:  getEnv("ESEWA_SUCCESS_URL", serverURL+"/api/v1/payments/esewa/success"),
			FailureURL:  getEnv("ESEWA_FAILURE_URL", serverURL+"/api/v1/payments/esewa/failure"),
		},
		Khalti: KhaltiConfig{
			SecretKey: getEnv("KHALTI_SECRET_KEY", ""),
			ReturnURL: getEnv("KHALTI_RETURN_URL", serverURL+"/api/v1/payments/khalti/return"),
		},
		SMTP: SMTPConfig{
			Host:        getEnv("EMAIL_HOST", ""),
			Port:        getEnv("EMAIL_PORT", "587"),
			Username:    getEnv("EMAIL_USERNAME", ""),
			AppPassword: getEnv("EMAIL_APP_PASSWORD", ""),
			From:        getEnv("EMAIL_FROM", ""),
		},
	}
}

// check if Config implements the provider interface consumed by usecases
var _ usecasecontract.IConfigProvider = (*Config)(nil)

// GetServerURL returns the public base URL of this API server.
func (c *Config) GetServerURL() string {
	return c.ServerURL
}

// GetClientURL returns the base URL of the frontend SPA.
func (c *Config) GetClientURL() string {
	return c.ClientURL
}

// GetGoogleClientID returns the Google OAuth client ID.
func (c *Config) GetGoogleClientID() string {
	return c.GoogleClientID
}

// GetGoogleClientSecret returns the Google OAuth client secret.
func (c *Config) GetGoogleClientSecret() string {
	return c.GoogleClientSecret
}

// IsProduction reports whether the app runs against live gateway endpoints.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// GetAccessTokenExpiry returns the expiry duration for access tokens.
func (c *Config) GetAccessTokenExpiry() time.Duration {
	return c.AccessTokenExpiry
}

// GetRefreshTokenExpiry returns the expiry duration for refresh tokens.
func (c *Config) GetRefreshTokenExpiry() time.Duration {
	return c.RefreshTokenExpiry
}

// Helper function to get an environment variable or return a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as an integer or return a default value.
func getEnvAsInt(name string, fallback int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
