// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"

	"github.com/allisson/go-env"
	validation "github.com/jellydator/validation"
	"github.com/joho/godotenv"

	appvalidation "github.com/allisson/phicrypt/internal/validation"
)

// Config holds all application configuration.
type Config struct {
	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// EncryptionAlgorithm selects the AEAD used for new envelopes
	// ("aes-gcm" or "chacha20-poly1305"). Decryption accepts only envelopes
	// produced with the configured algorithm.
	EncryptionAlgorithm string
	// KDFIterations is the PBKDF2 iteration count for per-envelope key
	// derivation. Lowering it weakens every envelope written afterwards.
	KDFIterations int
	// HashPolicy is the Argon2id cost policy for credential hashing
	// ("interactive" or "moderate").
	HashPolicy string

	// KMSProvider is the KMS provider to use (e.g., "google", "aws", "azure").
	// When set together with KMSKeyURI, MASTER_KEY is expected to hold the
	// KMS-wrapped master key instead of the raw key.
	KMSProvider string
	// KMSKeyURI is the URI for the master key in the KMS.
	KMSKeyURI string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
	// ServerHost is the host address the metrics server will bind to.
	ServerHost string

	// RewrapWorkers is the number of parallel workers for the rewrap batch
	// command.
	RewrapWorkers int
	// RewrapRatePerSec caps how many records per second the rewrap command
	// processes. Zero or negative disables the limiter.
	RewrapRatePerSec float64
}

// Load loads configuration from environment variables and .env file.
//
// The master key itself is intentionally not part of Config: it is loaded and
// validated separately so key material never travels inside a plain config
// struct that gets logged or compared.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Encryption
		EncryptionAlgorithm: env.GetString("ENCRYPTION_ALGORITHM", "aes-gcm"),
		KDFIterations:       env.GetInt("KDF_ITERATIONS", 600000),
		HashPolicy:          env.GetString("HASH_POLICY", "moderate"),

		// KMS configuration
		KMSProvider: env.GetString("KMS_PROVIDER", ""),
		KMSKeyURI:   env.GetString("KMS_KEY_URI", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "phicrypt"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
		ServerHost:       env.GetString("SERVER_HOST", "0.0.0.0"),

		// Rewrap batch job
		RewrapWorkers:    env.GetInt("REWRAP_WORKERS", 4),
		RewrapRatePerSec: env.GetFloat64("REWRAP_RATE_PER_SEC", 100.0),
	}
}

// Validate checks the configuration for values that would make the process
// misbehave at runtime. It is called once at startup; any error is fatal.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.EncryptionAlgorithm, validation.Required, appvalidation.Algorithm),
		validation.Field(&c.KDFIterations, validation.Required, validation.Min(1000)),
		validation.Field(&c.HashPolicy, validation.In("interactive", "moderate")),
		validation.Field(&c.MetricsNamespace, appvalidation.NotBlank),
		validation.Field(&c.MetricsPort, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.RewrapWorkers, validation.Required, validation.Min(1)),
	)
	return appvalidation.WrapValidationError(err)
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
