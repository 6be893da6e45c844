// Package session holds the current bundle and its last projection, and
// persists each successful import.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rpgo/lifeplan-simulator/internal/calculation"
	"github.com/rpgo/lifeplan-simulator/internal/config"
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/rpgo/lifeplan-simulator/internal/output"
)

// ErrNoSession is returned before any bundle has been imported.
var ErrNoSession = errors.New("no session: import a bundle first")

// Session is safe for concurrent use. A failed import or rerun leaves the
// previous state in place.
type Session struct {
	// writeMu serializes run, persist and swap so the store and the
	// in-memory state see replacements in the same order.
	writeMu sync.Mutex
	mu      sync.RWMutex
	parser *config.InputParser
	engine *calculation.CalculationEngine
	store  Store
	logger calculation.Logger
	now    func() time.Time

	bundle *domain.Bundle
	result *domain.Result
}

// New creates an empty session. A nil store disables persistence.
func New(engine *calculation.CalculationEngine, store Store) *Session {
	if store == nil {
		store = NewNoopStore()
	}
	return &Session{
		parser: config.NewInputParser(),
		engine: engine,
		store:  store,
		logger: calculation.NopLogger{},
		now:    time.Now,
	}
}

// SetLogger sets the session logger. If nil is provided, a no-op logger is used.
func (s *Session) SetLogger(l calculation.Logger) {
	if l == nil {
		s.logger = calculation.NopLogger{}
		return
	}
	s.logger = l
}

// Import parses data, runs the projection and replaces the session state.
func (s *Session) Import(ctx context.Context, data []byte, format config.Format) (*domain.Document, error) {
	b, err := s.parser.Parse(data, format)
	if err != nil {
		return nil, err
	}
	return s.replace(ctx, b)
}

// ImportBundle validates an already decoded bundle and replaces the session
// state with it. b is not retained.
func (s *Session) ImportBundle(ctx context.Context, b *domain.Bundle) (*domain.Document, error) {
	if b == nil {
		return nil, domain.NewValidationError("", "bundle is empty")
	}
	c := b.Clone()
	config.ApplyDefaults(c)
	if err := s.parser.ValidateBundle(c); err != nil {
		return nil, err
	}
	return s.replace(ctx, c)
}

func (s *Session) replace(ctx context.Context, b *domain.Bundle) (*domain.Document, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.replaceLocked(ctx, b)
}

func (s *Session) replaceLocked(ctx context.Context, b *domain.Bundle) (*domain.Document, error) {
	res, err := s.engine.Run(b)
	if err != nil {
		return nil, err
	}
	doc := config.NewDocument(res)
	if err := s.persist(ctx, doc); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.bundle = b
	s.result = res
	s.mu.Unlock()

	s.logger.Infof("session imported: %d years", res.Ledger.Len())
	return exportCopy(res), nil
}

func (s *Session) persist(ctx context.Context, doc *domain.Document) error {
	data, err := config.MarshalDocument(doc, config.FormatJSON)
	if err != nil {
		return err
	}
	sum := output.Summarize(doc.Ledger)
	rec := &RunRecord{
		CreatedAt:      s.now().UTC(),
		FirstYear:      sum.FirstYear,
		LastYear:       sum.LastYear,
		FinalNetAssets: sum.FinalNetAssets,
		Document:       data,
	}
	if err := s.store.SaveRun(ctx, rec); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Current returns the export document of the current state.
func (s *Session) Current() (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return nil, ErrNoSession
	}
	return exportCopy(s.result), nil
}

// Ledger returns the last computed ledger.
func (s *Session) Ledger() (*domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return nil, ErrNoSession
	}
	return s.result.Ledger, nil
}

// Rerun projects the current bundle again. The ledger is identical to the
// previous one unless the engine configuration changed.
func (s *Session) Rerun(ctx context.Context) (*domain.Document, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	b := s.bundle
	s.mu.RUnlock()
	if b == nil {
		return nil, ErrNoSession
	}
	return s.replaceLocked(ctx, b)
}

// Restore loads the most recently persisted document into the session.
func (s *Session) Restore(ctx context.Context) (*domain.Document, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	rec, err := s.store.Latest(ctx)
	if err != nil {
		return nil, err
	}
	b, err := s.parser.Parse(rec.Document, config.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("restore run %d: %w", rec.ID, err)
	}
	res, err := s.engine.Run(b)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.bundle = b
	s.result = res
	s.mu.Unlock()
	s.logger.Infof("session restored from run %d", rec.ID)
	return exportCopy(res), nil
}

// History lists persisted runs, newest first.
func (s *Session) History(ctx context.Context, limit int) ([]RunRecord, error) {
	return s.store.List(ctx, limit)
}

// exportCopy detaches the returned document from session state; the ledger
// is immutable and shared.
func exportCopy(res *domain.Result) *domain.Document {
	return &domain.Document{Bundle: *res.Snapshot.Clone(), Ledger: res.Ledger}
}
