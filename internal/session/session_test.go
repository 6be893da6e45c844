package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rpgo/lifeplan-simulator/internal/calculation"
	"github.com/rpgo/lifeplan-simulator/internal/config"
	"github.com/rpgo/lifeplan-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundleYAML = `profile:
  current_age: 40
  start_year: 2025
  end_age: 44
  monthly_living_expense: 20
income:
  personal:
    - id: salary
      name: Salary
      role: salary
      amounts: {2025: 500, 2026: 500, 2027: 500, 2028: 500, 2029: 500}
  corporate: []
expenses:
  personal:
    - id: living
      name: Living
      role: living
      amounts: {}
      auto_calculated: true
  corporate: []
`

func newSession(t *testing.T, store Store) *Session {
	t.Helper()
	return New(calculation.NewCalculationEngine(), store)
}

func TestCurrentBeforeImport(t *testing.T) {
	s := newSession(t, nil)
	_, err := s.Current()
	assert.True(t, errors.Is(err, ErrNoSession))
	_, err = s.Ledger()
	assert.True(t, errors.Is(err, ErrNoSession))
	_, err = s.Rerun(context.Background())
	assert.True(t, errors.Is(err, ErrNoSession))
}

func TestImportReplacesState(t *testing.T) {
	s := newSession(t, nil)
	doc, err := s.Import(context.Background(), []byte(bundleYAML), config.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 5, doc.Ledger.Len())

	cur, err := s.Current()
	require.NoError(t, err)
	assert.True(t, doc.Ledger.Equal(cur.Ledger))
	rec, ok := cur.Ledger.Record(2025)
	require.True(t, ok)
	assert.True(t, rec.LivingExpense.Equal(decimal.NewFromInt(240)))
}

func TestFailedImportKeepsState(t *testing.T) {
	s := newSession(t, nil)
	first, err := s.Import(context.Background(), []byte(bundleYAML), config.FormatYAML)
	require.NoError(t, err)

	_, err = s.Import(context.Background(), []byte("income: {personal: [], corporate: []}\n"), config.FormatYAML)
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "profile", ve.Section)

	cur, err := s.Current()
	require.NoError(t, err)
	assert.True(t, first.Ledger.Equal(cur.Ledger))
}

func TestCurrentIsDetached(t *testing.T) {
	s := newSession(t, nil)
	_, err := s.Import(context.Background(), []byte(bundleYAML), config.FormatYAML)
	require.NoError(t, err)

	cur, err := s.Current()
	require.NoError(t, err)
	cur.Profile.CurrentAge = 99
	cur.Income.Personal[0].Amounts[2025] = decimal.NewFromInt(1)

	again, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, 40, again.Profile.CurrentAge)
	assert.True(t, again.Income.Personal[0].Amounts.Get(2025).Equal(decimal.NewFromInt(500)))
}

func TestRerunIsIdempotent(t *testing.T) {
	s := newSession(t, nil)
	first, err := s.Import(context.Background(), []byte(bundleYAML), config.FormatYAML)
	require.NoError(t, err)
	second, err := s.Rerun(context.Background())
	require.NoError(t, err)
	assert.True(t, first.Ledger.Equal(second.Ledger))
}

func TestImportBundleDoesNotRetainInput(t *testing.T) {
	s := newSession(t, nil)
	b := config.CreateExampleBundle()
	_, err := s.ImportBundle(context.Background(), b)
	require.NoError(t, err)
	b.Profile.CurrentAge = 70

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, 30, cur.Profile.CurrentAge)

	_, err = s.ImportBundle(context.Background(), nil)
	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
}

type failingStore struct{ NoopStore }

func (failingStore) SaveRun(context.Context, *RunRecord) error { return errors.New("disk full") }

func TestPersistFailureKeepsState(t *testing.T) {
	s := newSession(t, &failingStore{})
	_, err := s.Import(context.Background(), []byte(bundleYAML), config.FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	_, err = s.Current()
	assert.True(t, errors.Is(err, ErrNoSession))
}

func TestRestoreFromStore(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	first := newSession(t, store)
	doc, err := first.Import(context.Background(), []byte(bundleYAML), config.FormatYAML)
	require.NoError(t, err)

	second := newSession(t, store)
	restored, err := second.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, doc.Ledger.Equal(restored.Ledger))

	runs, err := second.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 2025, runs[0].FirstYear)
	assert.Equal(t, 2029, runs[0].LastYear)
}

func TestRestoreEmptyStore(t *testing.T) {
	_, err := newSession(t, nil).Restore(context.Background())
	assert.True(t, errors.Is(err, ErrNoSession))
}

func TestConcurrentImportsPersistFinalState(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	s := newSession(t, store)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data := strings.Replace(bundleYAML, "end_age: 44", fmt.Sprintf("end_age: %d", 41+i), 1)
			_, err := s.Import(ctx, []byte(data), config.FormatYAML)
			assert.NoError(t, err)
		}(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Rerun(ctx)
			if err != nil {
				assert.True(t, errors.Is(err, ErrNoSession))
			}
		}()
	}
	wg.Wait()

	cur, err := s.Current()
	require.NoError(t, err)
	restored, err := newSession(t, store).Restore(ctx)
	require.NoError(t, err)
	assert.True(t, cur.Ledger.Equal(restored.Ledger), "latest persisted run must be the session's state")
	assert.Equal(t, cur.Profile.EndAge, restored.Profile.EndAge)
}
