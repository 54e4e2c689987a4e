package gallery

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

type GallerySource interface {
	GalleryProjects(ctx context.Context) ([]GalleryProject, error)
}

type DetailedSource interface {
	DetailedProjects(ctx context.Context) ([]DetailedProject, error)
}

type State int

const (
	StateLoading State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result is the outcome of loading both sources.
type Result struct {
	State   State
	Records []Record
	Err     error
}

func Loading() Result { return Result{State: StateLoading} }

func Ready(records []Record) Result { return Result{State: StateReady, Records: records} }

func Failed(err error) Result { return Result{State: StateFailed, Err: err} }

type Loader struct {
	gallery  GallerySource
	detailed DetailedSource
}

func NewLoader(gallery GallerySource, detailed DetailedSource) *Loader {
	return &Loader{gallery: gallery, detailed: detailed}
}

// Load fetches both collections concurrently and waits for both. The merge
// order does not depend on which fetch finishes first. Any failure fails the
// whole load; there is no partial result.
func (l *Loader) Load(ctx context.Context) Result {
	var (
		galleryProjects  []GalleryProject
		detailedProjects []DetailedProject
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := l.gallery.GalleryProjects(gctx)
		if err != nil {
			return fmt.Errorf("gallery projects: %w", err)
		}
		galleryProjects = items
		return nil
	})
	g.Go(func() error {
		items, err := l.detailed.DetailedProjects(gctx)
		if err != nil {
			return fmt.Errorf("detailed projects: %w", err)
		}
		detailedProjects = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return Failed(err)
	}
	return Ready(Normalize(galleryProjects, detailedProjects))
}

// Session owns the result of one load for one consumer. Once closed, a load
// that completes late is discarded instead of being stored.
type Session struct {
	loader *Loader

	mu     sync.Mutex
	closed bool
	result Result
}

func NewSession(loader *Loader) *Session {
	return &Session{loader: loader, result: Loading()}
}

// Start runs the load in the background. The returned channel is closed when
// the load has finished, whether or not its result was kept.
func (s *Session) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.apply(s.loader.Load(ctx))
	}()
	return done
}

func (s *Session) apply(r Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.result = r
	return true
}

func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}
