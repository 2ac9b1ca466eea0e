package content

import (
	"context"
	"sync/atomic"

	siteerrors "github.com/sooryaraj/folio/internal/errors"
	"github.com/sooryaraj/folio/internal/logging"
)

// Store publishes the current content table. Readers always see a complete
// snapshot; Reload swaps in a new one only when it loads and validates.
type Store struct {
	path     string
	current  atomic.Pointer[Site]
	logger   logging.Logger
	failures *siteerrors.ErrorHandler
}

// NewStore loads path (or the defaults when path is empty) into a new store.
func NewStore(path string, logger logging.Logger) (*Store, error) {
	site, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	s := newStore(path, logger)
	s.current.Store(site)
	return s, nil
}

// NewStaticStore wraps an already loaded site. Reload is a no-op.
func NewStaticStore(site *Site, logger logging.Logger) *Store {
	s := newStore("", logger)
	s.current.Store(site.Clone())
	return s
}

func newStore(path string, logger logging.Logger) *Store {
	l := logger.WithComponent("content")
	return &Store{path: path, logger: l, failures: siteerrors.NewErrorHandler(l)}
}

// Path returns the content file backing the store, "" for defaults.
func (s *Store) Path() string { return s.path }

// Site returns a copy of the current snapshot.
func (s *Store) Site() *Site {
	return s.current.Load().Clone()
}

// Reload re-reads the content file. On failure the previous snapshot stays
// in place and the error is returned.
func (s *Store) Reload(ctx context.Context) error {
	if s.path == "" {
		return nil
	}
	site, err := LoadFile(s.path)
	if err != nil {
		s.failures.Handle(ctx, err)
		s.logger.Info(ctx, "Keeping previous content", "path", s.path)
		return err
	}
	s.current.Store(site)
	s.logger.Info(ctx, "Content reloaded", "path", s.path, "summary", site.String())
	return nil
}
