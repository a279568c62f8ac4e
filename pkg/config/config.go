package config

import (
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Environment variable names for the nitro-utils binary
const (
	EnvPort          = "NITRO_UTILS_PORT"
	EnvRateLimit     = "NITRO_UTILS_RATE_LIMIT"
	EnvRateBurst     = "NITRO_UTILS_RATE_BURST"
	EnvEnableSigning = "NITRO_UTILS_ENABLE_SIGNING"
	EnvVerbose       = "NITRO_UTILS_VERBOSE"
	EnvPrivateKey    = "NITRO_UTILS_PRIVATE_KEY"
)

const (
	DefaultPort      = 8080
	DefaultRateLimit = 100
	DefaultRateBurst = 200

	// MaxRequestBytes bounds the size of a request body accepted by the server
	MaxRequestBytes = 1 << 20
)

// ServerConfig configures the HTTP endpoint
type ServerConfig struct {
	Port int `json:"port"`

	// RateLimit is the sustained number of requests per second. Zero disables limiting.
	RateLimit float64 `json:"rate_limit"`
	RateBurst int     `json:"rate_burst"`

	// EnableSigning exposes /state/sign, which receives private keys over the network
	EnableSigning bool `json:"enable_signing"`

	Verbose bool `json:"verbose"`
}

// NewDefaultServerConfig returns the configuration used when no flags are given
func NewDefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:      DefaultPort,
		RateLimit: DefaultRateLimit,
		RateBurst: DefaultRateBurst,
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	var allErrors field.ErrorList
	if c.Port < 1 || c.Port > 65535 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("port"), c.Port, "port must be between 1-65535"))
	}
	if c.RateLimit < 0 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("rateLimit"), c.RateLimit, "rate limit cannot be negative"))
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		allErrors = append(allErrors, field.Invalid(field.NewPath("rateBurst"), c.RateBurst, "burst must be at least 1 when rate limiting is enabled"))
	}
	if len(allErrors) > 0 {
		return allErrors.ToAggregate()
	}
	return nil
}
