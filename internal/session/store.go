package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

// ErrCapacity is returned when the store cannot hold another session.
var ErrCapacity = errors.New("session store is full")

// StoreConfig controls session lifetime and capacity.
type StoreConfig struct {
	// TTL is how long an idle session is kept before eviction.
	TTL time.Duration
	// Capacity is the maximum number of live sessions. Zero means unlimited.
	Capacity int
}

type entry struct {
	page     *Page
	lastSeen time.Time
}

// Store keeps pages in memory keyed by session id. Nothing is persisted: an
// evicted session is gone, exactly like a reloaded page.
type Store struct {
	cfg     StoreConfig
	pageCfg PageConfig
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry

	active metric.Int64UpDownCounter
}

// NewStore creates an empty store building pages from pageCfg.
func NewStore(cfg StoreConfig, pageCfg PageConfig) *Store {
	mp := pageCfg.MeterProvider
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	active, err := mp.Meter("github.com/xenking/product-page/internal/session").
		Int64UpDownCounter("sessions.active", metric.WithDescription("Number of live page sessions"))
	if err != nil {
		active = noop.Int64UpDownCounter{}
	}

	return &Store{
		cfg:      cfg,
		pageCfg:  pageCfg,
		now:      time.Now,
		sessions: make(map[string]*entry),
		active:   active,
	}
}

// Get returns the page for id and marks it as recently used.
func (s *Store) Get(id string) (*Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = s.now()
	return e.page, true
}

// Create starts a new session and returns its id.
func (s *Store) Create(ctx context.Context) (string, *Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Capacity > 0 && len(s.sessions) >= s.cfg.Capacity {
		return "", nil, ErrCapacity
	}

	page, err := NewPage(s.pageCfg)
	if err != nil {
		return "", nil, errors.Wrap(err, "new page")
	}

	id := uuid.NewString()
	s.sessions[id] = &entry{page: page, lastSeen: s.now()}
	s.active.Add(ctx, 1)

	zctx.From(ctx).Debug("Session created", zap.String("session", id))
	return id, page, nil
}

// GetOrCreate returns the page for id, starting a new session when id is
// unknown. The returned id differs from the argument when a session was
// created.
func (s *Store) GetOrCreate(ctx context.Context, id string) (string, *Page, error) {
	if id != "" {
		if page, ok := s.Get(id); ok {
			return id, page, nil
		}
	}
	return s.Create(ctx)
}

// View runs fn on the page of session id. Visitors without a live session
// get a fresh default page that is discarded afterwards, so reads never
// start a session.
func (s *Store) View(id string, fn func(p *Page) error) error {
	if id != "" {
		if page, ok := s.Get(id); ok {
			if err := page.Do(fn); !errors.Is(err, ErrClosed) {
				return err
			}
		}
	}

	page, err := NewPage(s.pageCfg)
	if err != nil {
		return errors.Wrap(err, "new page")
	}
	defer page.close()
	return page.Do(fn)
}

// Update runs fn on the page of session id, starting a session when id is
// unknown or expired. It returns the id of the session fn ran on. A page
// evicted between lookup and fn is replaced by a new session.
func (s *Store) Update(ctx context.Context, id string, fn func(p *Page) error) (string, error) {
	for {
		newID, page, err := s.GetOrCreate(ctx, id)
		if err != nil {
			return "", err
		}
		err = page.Do(fn)
		if !errors.Is(err, ErrClosed) {
			return newID, err
		}
		s.forget(ctx, newID, page)
		id = ""
	}
}

// forget drops id if it still maps to page.
func (s *Store) forget(ctx context.Context, id string, page *Page) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	removed := ok && e.page == page
	if removed {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if removed {
		s.active.Add(ctx, -1)
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Capacity returns the configured capacity, zero when unlimited.
func (s *Store) Capacity() int { return s.cfg.Capacity }

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed.
func (s *Store) Sweep(ctx context.Context) int {
	now := s.now()

	s.mu.Lock()
	var expired []*Page
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.cfg.TTL {
			expired = append(expired, e.page)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, p := range expired {
		p.close()
	}
	if n := len(expired); n > 0 {
		s.active.Add(ctx, int64(-n))
		zctx.From(ctx).Debug("Sessions evicted", zap.Int("count", n))
	}
	return len(expired)
}

// Run sweeps expired sessions every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}
