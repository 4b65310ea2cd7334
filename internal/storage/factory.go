package storage

import (
	"fmt"

	"github.com/munchclub/muncher/internal/config"
)

// BackendType represents the type of storage backend
type BackendType string

const (
	// BackendFS keeps snapshots in a local directory
	BackendFS BackendType = "fs"
	// BackendObject keeps snapshots in an object-storage bucket
	BackendObject BackendType = "object"
)

// SupportedBackends returns a list of supported backend types
func SupportedBackends() []BackendType {
	return []BackendType{BackendFS, BackendObject}
}

// ValidateBackend validates if a backend type is supported
func ValidateBackend(backend string) (BackendType, error) {
	bt := BackendType(backend)

	for _, supported := range SupportedBackends() {
		if bt == supported {
			return bt, nil
		}
	}

	return "", fmt.Errorf("unsupported storage backend: %s. Supported backends: %v",
		backend, SupportedBackends())
}

// NewStore creates the snapshot store selected by the configuration
func NewStore(cfg *config.Config, validator Validator) (Store, error) {
	backend, err := ValidateBackend(cfg.Storage.Backend)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendObject:
		return NewObjectStore(ObjectConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		}, cfg.Storage.Basename, cfg.Storage.MaxTries, cfg.Storage.NumKeep, validator)
	default:
		return NewFileStore(cfg.Storage.Dir, cfg.Storage.Basename,
			cfg.Storage.MaxTries, cfg.Storage.NumKeep, validator)
	}
}
