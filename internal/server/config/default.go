// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultStorageEngine = "badger"
	DefaultDataDir       = "/var/lib/taskhub-server/data"
	DefaultGCInterval    = 10 * time.Minute

	DefaultTokenTTL = 24 * time.Hour

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
//
// The signing key has no default; it must come from the config file or
// environment.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:            DefaultHTTPAddr,
				ReadTimeout:     DefaultReadTimeout,
				WriteTimeout:    DefaultWriteTimeout,
				ShutdownTimeout: DefaultShutdownTimeout,
				RateBurst:       20,
			},
		},
		Storage: StorageSection{
			Engine:     DefaultStorageEngine,
			DataDir:    DefaultDataDir,
			GCInterval: DefaultGCInterval,
		},
		Security: SecuritySection{
			TokenTTL: DefaultTokenTTL,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
