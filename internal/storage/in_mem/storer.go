package in_mem

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/sortbench/internal/bench/runner"
)

type InMemStorer struct {
	storageLock sync.RWMutex
	storage     map[uuid.UUID]runner.Run
	order       []uuid.UUID
}

func NewInMemStorer() *InMemStorer {
	return &InMemStorer{
		storage: make(map[uuid.UUID]runner.Run),
	}
}

// SaveRun keeps a copy of run; saving the same id again replaces it.
func (s *InMemStorer) SaveRun(_ context.Context, run *runner.Run) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if _, ok := s.storage[run.ID]; !ok {
		s.order = append(s.order, run.ID)
	}
	cp := *run
	cp.Rows = append([]runner.Row(nil), run.Rows...)
	s.storage[run.ID] = cp

	slog.Debug("run saved to in-memory storage", "id", run.ID, "rows", len(run.Rows))
	return nil
}

func (s *InMemStorer) Get(id uuid.UUID) (runner.Run, bool) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()
	run, ok := s.storage[id]
	return run, ok
}

// Runs returns stored runs in save order.
func (s *InMemStorer) Runs() []runner.Run {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	out := make([]runner.Run, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.storage[id])
	}
	return out
}

func (s *InMemStorer) Close() error {
	return nil
}
