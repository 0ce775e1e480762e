// Package storage ships finished benchmark runs to external stores.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

type Storer interface {
	SaveRun(ctx context.Context, run *runner.Run) error
	Close() error
}

type Type string

const (
	ES    Type = "es"
	PG    Type = "pg"
	InMem Type = "in_mem"
)

func Types() []Type {
	return []Type{PG, ES, InMem}
}

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}

// SaveAll hands run to every storer and joins their failures.
func SaveAll(ctx context.Context, storers []Storer, run *runner.Run) error {
	var errs []error
	for _, s := range storers {
		if err := s.SaveRun(ctx, run); err != nil {
			errs = append(errs, fmt.Errorf("%T: %w", s, err))
		}
	}
	return errors.Join(errs...)
}

func CloseAll(storers []Storer) error {
	var errs []error
	for _, s := range storers {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
