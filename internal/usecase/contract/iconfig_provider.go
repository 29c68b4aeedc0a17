package usecasecontract

import "time"

// IConfigProvider exposes the configuration values usecases need. The
// concrete config is built once at startup; nothing below this interface
// reads the environment.
type IConfigProvider interface {
	GetServerURL() string
	GetClientURL() string
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	IsProduction() bool
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}
