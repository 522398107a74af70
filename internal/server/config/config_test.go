// Package config defines the server configuration structure.
package config

import (
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Server.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.Server.HTTP.Addr, DefaultHTTPAddr)
	}
	if cfg.Server.HTTP.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v, want %v", cfg.Server.HTTP.ShutdownTimeout, DefaultShutdownTimeout)
	}

	if cfg.Storage.Engine != DefaultStorageEngine {
		t.Errorf("Storage.Engine = %q, want %q", cfg.Storage.Engine, DefaultStorageEngine)
	}
	if cfg.Storage.DataDir != DefaultDataDir {
		t.Errorf("DataDir = %q, want %q", cfg.Storage.DataDir, DefaultDataDir)
	}

	if cfg.Security.TokenTTL != DefaultTokenTTL {
		t.Errorf("TokenTTL = %v, want %v", cfg.Security.TokenTTL, DefaultTokenTTL)
	}
	if cfg.Security.SigningKey != "" {
		t.Error("SigningKey must not have a default")
	}

	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, DefaultLogFormat)
	}
}

func TestVerify(t *testing.T) {
	valid := func(t *testing.T) *ServerConfig {
		t.Helper()
		cfg := Default()
		cfg.Storage.Engine = "memory"
		cfg.Security.SigningKey = "0123456789abcdef0123456789abcdef"
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		if err := Verify(valid(t)); err != nil {
			t.Errorf("Verify() error = %v", err)
		}
	})

	t.Run("missing signing key", func(t *testing.T) {
		cfg := valid(t)
		cfg.Security.SigningKey = ""
		if err := Verify(cfg); err == nil {
			t.Error("Verify() accepted empty signing key")
		}
	})

	t.Run("short signing key", func(t *testing.T) {
		cfg := valid(t)
		cfg.Security.SigningKey = "short"
		if err := Verify(cfg); err == nil {
			t.Error("Verify() accepted short signing key")
		}
	})

	t.Run("badger requires data_dir", func(t *testing.T) {
		cfg := valid(t)
		cfg.Storage.Engine = "badger"
		cfg.Storage.DataDir = ""
		if err := Verify(cfg); err == nil {
			t.Error("Verify() accepted badger engine without data_dir")
		}
	})

	t.Run("badger creates data_dir", func(t *testing.T) {
		cfg := valid(t)
		cfg.Storage.Engine = "badger"
		cfg.Storage.DataDir = t.TempDir() + "/data"
		if err := Verify(cfg); err != nil {
			t.Errorf("Verify() error = %v", err)
		}
	})

	t.Run("unknown engine", func(t *testing.T) {
		cfg := valid(t)
		cfg.Storage.Engine = "postgres"
		if err := Verify(cfg); err == nil {
			t.Error("Verify() accepted unknown storage engine")
		}
	})

	t.Run("tls pair required together", func(t *testing.T) {
		cfg := valid(t)
		cfg.Server.HTTP.TLSCertFile = "/tmp/cert.pem"
		if err := Verify(cfg); err == nil {
			t.Error("Verify() accepted cert without key")
		}
	})

	t.Run("zero token ttl", func(t *testing.T) {
		cfg := valid(t)
		cfg.Security.TokenTTL = 0
		if err := Verify(cfg); err == nil {
			t.Error("Verify() accepted zero token_ttl")
		}
	})
}

func TestSanitize(t *testing.T) {
	cfg := &ServerConfig{
		Security: SecuritySection{
			SigningKey: "super-secret-key-1234567890",
		},
	}

	sanitized := Sanitize(cfg)

	// Original should be unchanged
	if cfg.Security.SigningKey != "super-secret-key-1234567890" {
		t.Error("Original config should not be modified")
	}

	if sanitized.Security.SigningKey == cfg.Security.SigningKey {
		t.Error("Sanitized config should mask the signing key")
	}

	// Should preserve first 2 and last 2 characters
	if len(sanitized.Security.SigningKey) != len(cfg.Security.SigningKey) {
		t.Errorf("Masked key length = %d, want %d",
			len(sanitized.Security.SigningKey), len(cfg.Security.SigningKey))
	}
}

func TestSanitize_EmptyKey(t *testing.T) {
	cfg := &ServerConfig{}

	sanitized := Sanitize(cfg)
	if sanitized.Security.SigningKey != "" {
		t.Errorf("empty key sanitized to %q", sanitized.Security.SigningKey)
	}
}
