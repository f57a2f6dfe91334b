package objectstore

import (
	"context"
	"fmt"

	"github.com/noah-isme/share2teach-api/pkg/config"
)

// New builds the store selected by cfg.Driver, optionally behind a circuit breaker.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case "", config.StorageSeaweedFS:
		store = NewSeaweedFS(cfg.SeaweedMaster, cfg.Timeout, cfg.MaxObjectBytes)
	case config.StorageMinIO:
		store, err = NewMinIO(ctx, cfg.MinIO, cfg.MaxObjectBytes)
	case config.StorageLocal:
		store, err = NewLocal(cfg.LocalDir, cfg.LocalBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.BreakerEnabled {
		store = NewBreaker("objectstore-"+cfg.Driver, store, cfg.Timeout)
	}
	return store, nil
}
