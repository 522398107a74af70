// Package config defines the server configuration structure.
package config

import (
	"errors"
	"os"
)

// MinSigningKeyLen is the minimum accepted HMAC signing key length in bytes.
const MinSigningKeyLen = 16

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifySecurity(&cfg.Security); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if (cfg.HTTP.TLSCertFile == "") != (cfg.HTTP.TLSKeyFile == "") {
		return errors.New("server.http: tls_cert_file and tls_key_file must be set together")
	}
	if cfg.HTTP.RateLimit < 0 {
		return errors.New("server.http.rate_limit cannot be negative")
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Engine {
	case "memory":
		return nil
	case "badger", "":
	default:
		return errors.New("storage.engine must be \"badger\" or \"memory\"")
	}

	if cfg.DataDir == "" {
		return errors.New("storage.data_dir is required")
	}

	// Check if data directory exists or can be created
	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return errors.New("cannot create data directory: " + err.Error())
	}

	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.SigningKey == "" {
		return errors.New("security.signing_key is required")
	}
	if len(cfg.SigningKey) < MinSigningKeyLen {
		return errors.New("security.signing_key must be at least 16 bytes")
	}
	if cfg.TokenTTL <= 0 {
		return errors.New("security.token_ttl must be positive")
	}
	return nil
}
