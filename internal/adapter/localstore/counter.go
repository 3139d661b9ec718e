package localstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/skadam/cafe/internal/adapter/logger"
	"github.com/skadam/cafe/internal/interfaces"
)

// Counter is the local order-number source. The in-memory value is
// authoritative; the blob write after each increment is best-effort, so a
// persistence failure can never hand out a duplicate number within a run.
type Counter struct {
	store  *Store
	logger logger.Logger

	mu    sync.Mutex
	value int
}

var _ interfaces.OrderCounter = (*Counter)(nil)

func NewCounter(store *Store, lgr logger.Logger) *Counter {
	return &Counter{store: store, logger: lgr}
}

func (c *Counter) Load(ctx context.Context) error {
	var value int
	if _, err := c.store.Load(KeyOrderCounter, &value); err != nil {
		return fmt.Errorf("failed to load order counter: %w", err)
	}

	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
	return nil
}

func (c *Counter) Next(ctx context.Context) (int, error) {
	c.mu.Lock()
	c.value++
	value := c.value
	c.mu.Unlock()

	if err := c.store.Save(KeyOrderCounter, value); err != nil {
		c.logger.Error("counter_persist_failed", "Failed to persist order counter", "", nil, err)
	}
	return value, nil
}

// Reset starts a new counter epoch. The write is synchronous: a reset that
// does not stick would reissue old numbers after a restart.
func (c *Counter) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.value = 0
	c.mu.Unlock()

	if err := c.store.Save(KeyOrderCounter, 0); err != nil {
		return fmt.Errorf("failed to persist counter reset: %w", err)
	}
	return nil
}
