package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/sortbench/internal/apperr"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/history"
	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

const latestRef = "latest"

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// resolveRun loads a stored run by id, or the newest one for "" and "latest".
func resolveRun(ctx context.Context, store *history.Store, ref string) (*runner.Run, error) {
	if ref == "" || ref == latestRef {
		return store.Latest(ctx)
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, apperr.NewFieldValidation("run", fmt.Sprintf("%q is not a run id", ref))
	}
	return store.Get(ctx, id)
}
