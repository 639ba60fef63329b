package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/whatisthe411/the411/backend/internal/logging"
	"github.com/whatisthe411/the411/backend/internal/model/content"
	"github.com/whatisthe411/the411/backend/internal/service/fetch"
)

// Loader fills a sink with every collection. *fetch.Fetcher implements it.
type Loader interface {
	LoadAll(ctx context.Context, sink fetch.Sink)
}

// Session owns the content store for the lifetime of the process and the
// initial fetch that populates it.
type Session struct {
	id     string
	store  *content.Store
	loader Loader

	mu        sync.Mutex
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a Session around store. Start must be called to fetch content.
func New(store *content.Store, loader Loader) *Session {
	return &Session{
		id:     uuid.NewString(),
		store:  store,
		loader: loader,
		done:   make(chan struct{}),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// Store returns the session's content store.
func (s *Session) Store() *content.Store {
	return s.store
}

// Start launches the initial fetch of all collections in the background.
// Calling Start more than once has no effect.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.startedAt = time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	logger := logging.From(ctx).With("session", s.id)
	runCtx = logging.With(runCtx, logger)

	go func() {
		defer close(s.done)
		logger.Info("fetching collections")
		s.loader.LoadAll(runCtx, s.store)
		logger.Info("initial fetch finished", "elapsed", time.Since(s.startedAt))
	}()
}

// Wait blocks until the initial fetch finishes or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ready reports whether the initial fetch has finished.
func (s *Session) Ready() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Close cancels in-flight fetches and waits for them to stop.
func (s *Session) Close() {
	s.mu.Lock()
	started := s.started
	cancel := s.cancel
	s.mu.Unlock()

	if !started {
		return
	}
	cancel()
	<-s.done
}
