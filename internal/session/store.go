package session

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RunRecord is one persisted projection: the exported document plus the
// headline figures listed by history.
type RunRecord struct {
	ID             int64
	CreatedAt      time.Time
	FirstYear      int
	LastYear       int
	FinalNetAssets decimal.Decimal
	// Document is the JSON export of the run.
	Document []byte
}

// Store persists session runs.
type Store interface {
	SaveRun(ctx context.Context, rec *RunRecord) error
	// Latest returns the most recent run, or ErrNoSession when none exists.
	Latest(ctx context.Context) (*RunRecord, error)
	// List returns up to limit runs, newest first, without their documents.
	List(ctx context.Context, limit int) ([]RunRecord, error)
	Close() error
}

// NoopStore is a no-op implementation used when SQLite is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) SaveRun(_ context.Context, _ *RunRecord) error { return nil }
func (n *NoopStore) Latest(_ context.Context) (*RunRecord, error) { return nil, ErrNoSession }
func (n *NoopStore) List(_ context.Context, _ int) ([]RunRecord, error) {
	return nil, nil
}
func (n *NoopStore) Close() error { return nil }
