package factory

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/DjordjeVuckovic/sortbench/internal/storage"
	"github.com/DjordjeVuckovic/sortbench/internal/storage/es"
	"github.com/DjordjeVuckovic/sortbench/internal/storage/pg"
	"github.com/DjordjeVuckovic/sortbench/pkg/stringsutil"
)

const (
	EnvPgURL       = "SORTBENCH_PG_URL"
	EnvEsAddresses = "SORTBENCH_ES_ADDRESSES"
	EnvEsIndex     = "SORTBENCH_ES_INDEX"
	EnvEsUsername  = "SORTBENCH_ES_USERNAME"
	EnvEsPassword  = "SORTBENCH_ES_PASSWORD"
)

type StorageConfig struct {
	Types []storage.Type
	Pg    *pg.PoolConfig
	Es    *es.ClientConfig
}

// LoadEnv reads connection settings for the requested sink types. Only the
// variables of requested types are required.
func LoadEnv(types []storage.Type) (*StorageConfig, error) {
	cfg := &StorageConfig{Types: types}

	for _, t := range types {
		if !slices.Contains(storage.Types(), t) {
			slog.Error("Invalid sink type", "value", t)
			return nil, fmt.Errorf(
				"invalid sink type: %s, expected one of %v", t, storage.Types())
		}
	}

	if slices.Contains(types, storage.ES) {
		cfg.Es = &es.ClientConfig{
			Addresses: stringsutil.SplitTrim(os.Getenv(EnvEsAddresses), ","),
			IndexName: os.Getenv(EnvEsIndex),
			Username:  os.Getenv(EnvEsUsername),
			Password:  os.Getenv(EnvEsPassword),
		}
		if len(cfg.Es.Addresses) == 0 {
			slog.Error("Elasticsearch configuration is incomplete", "env", EnvEsAddresses)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: %s is not set", EnvEsAddresses)
		}
		if cfg.Es.IndexName == "" {
			cfg.Es.IndexName = es.DefaultIndexName
		}
	}

	if slices.Contains(types, storage.PG) {
		cfg.Pg = &pg.PoolConfig{
			ConnStr: os.Getenv(EnvPgURL),
		}
		if cfg.Pg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set", "env", EnvPgURL)
			return nil, fmt.Errorf("PostgreSQL connection string is not set: %s", EnvPgURL)
		}
	}

	return cfg, nil
}
