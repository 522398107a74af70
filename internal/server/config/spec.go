// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for taskhub-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Storage  StorageSection  `koanf:"storage"`
	Security SecuritySection `koanf:"security"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr        string `koanf:"addr"`
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`

	// ReadTimeout and WriteTimeout bound request processing.
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// ShutdownTimeout bounds graceful drain on stop.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimit is the per-client request rate (requests/second).
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the per-client burst allowance.
	RateBurst int `koanf:"rate_burst"`

	// EnableAudit enables per-request audit logging.
	EnableAudit bool `koanf:"enable_audit"`

	// CORSOrigins lists allowed cross-origin origins. Empty disables CORS.
	CORSOrigins []string `koanf:"cors_origins"`
}

// StorageSection configures storage behavior.
type StorageSection struct {
	// Engine selects the storage backend: "badger" or "memory".
	Engine string `koanf:"engine"`

	// DataDir is the Badger data directory. Required for the badger engine.
	DataDir string `koanf:"data_dir"`

	// SyncWrites forces fsync on every write.
	SyncWrites bool `koanf:"sync_writes"`

	// GCInterval controls background value-log GC. Zero disables it.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// SecuritySection configures security settings.
type SecuritySection struct {
	// SigningKey is the HMAC key used to sign access tokens. Required.
	SigningKey string `koanf:"signing_key"`

	// TokenTTL is the access token lifetime.
	TokenTTL time.Duration `koanf:"token_ttl"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
