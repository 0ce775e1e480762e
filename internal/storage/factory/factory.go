package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/sortbench/internal/storage"
	"github.com/DjordjeVuckovic/sortbench/internal/storage/es"
	"github.com/DjordjeVuckovic/sortbench/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/sortbench/internal/storage/pg"
)

// NewStorer creates a new storage.Storer based on the storage type
func NewStorer(ctx context.Context, storageType storage.Type, cfg *StorageConfig) (storage.Storer, error) {
	switch storageType {
	case storage.PG:
		if cfg == nil || cfg.Pg == nil {
			return nil, fmt.Errorf("missing PostgreSQL configuration")
		}

		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		s, err := pg.NewStorer(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return s, nil

	case storage.ES:
		if cfg == nil || cfg.Es == nil {
			return nil, fmt.Errorf("missing Elasticsearch configuration")
		}
		return es.NewStorer(ctx, *cfg.Es)

	case storage.InMem:
		return in_mem.NewInMemStorer(), nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), storageType)
	}
}

// NewStorers opens every configured sink. On failure the sinks opened so far
// are closed.
func NewStorers(ctx context.Context, cfg *StorageConfig) ([]storage.Storer, error) {
	storers := make([]storage.Storer, 0, len(cfg.Types))
	for _, t := range cfg.Types {
		s, err := NewStorer(ctx, t, cfg)
		if err != nil {
			_ = storage.CloseAll(storers)
			return nil, fmt.Errorf("open %s sink: %w", t, err)
		}
		storers = append(storers, s)
	}
	return storers, nil
}
