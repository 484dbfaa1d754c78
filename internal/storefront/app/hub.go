package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jcmexdev/storefront/internal/pkg/eventbus"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/storefront/internal/storefront/orderlog"
)

// Hub is the in-memory session registry. Sessions live only in this map:
// there is no persistence, and an idle session is dropped after ttl.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	api    ports.ShopAPI
	orders orderlog.Repository
	logger *slog.Logger
	ttl    time.Duration
}

// NewHub creates a hub backed by the given shop API. orders may be nil to
// disable the submission audit log.
func NewHub(api ports.ShopAPI, orders orderlog.Repository, logger *slog.Logger, ttl time.Duration) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		sessions: make(map[string]*Session),
		api:      api,
		orders:   orders,
		logger:   logger,
		ttl:      ttl,
	}
}

// Open creates a session, wires its coordinator and loads the catalog. A
// failed catalog fetch leaves the catalog empty and the session usable;
// the failure is logged and not retried.
func (h *Hub) Open(ctx context.Context) *Session {
	bus := eventbus.New(h.logger)
	s := newSession(bus)
	attachCoordinator(s, h.api, h.orders, h.logger)

	items, err := h.api.ProductList(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "catalog fetch failed",
			"session_id", s.ID,
			"error", err,
		)
	} else {
		s.LoadCatalog(ctx, items)
	}

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	h.logger.InfoContext(ctx, "session opened", "session_id", s.ID, "catalog_size", len(items))
	return s
}

// Get returns the session with the given id and refreshes its idle timer.
func (h *Hub) Get(id string) (*Session, bool) {
	h.mu.RLock()
	s, ok := h.sessions[id]
	h.mu.RUnlock()
	if ok {
		s.Touch()
	}
	return s, ok
}

// Len reports the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// ResolveProduct finds a product in the session catalog, falling back to a
// single-item fetch from the backend for ids the catalog does not carry.
func (h *Hub) ResolveProduct(ctx context.Context, s *Session, id string) (entity.Product, error) {
	if p, ok := s.FindProduct(id); ok {
		return p, nil
	}
	p, err := h.api.ProductItem(ctx, id)
	if err != nil {
		return entity.Product{}, fmt.Errorf("resolve product %q: %w", id, err)
	}
	return p, nil
}

// Sweep drops sessions idle for longer than the hub ttl and returns how
// many were removed.
func (h *Hub) Sweep(now time.Time) int {
	cutoff := now.Add(-h.ttl)

	h.mu.Lock()
	defer h.mu.Unlock()
	removed := 0
	for id, s := range h.sessions {
		if s.seenBefore(cutoff) {
			delete(h.sessions, id)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep on the given interval until ctx is cancelled.
func (h *Hub) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := h.Sweep(now); n > 0 {
					h.logger.Info("expired sessions removed", "count", n)
				}
			}
		}
	}()
}
