package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/models"
	"app/store"
)

// memStore is an in-memory Store with the same replace and first-write
// semantics as the Postgres implementation.
type memStore struct {
	mu        sync.Mutex
	products  map[int64]models.Product
	forecasts map[int64][]models.ForecastPoint

	upsertErr  error
	replaceErr map[int64]error
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[int64]models.Product),
		forecasts: make(map[int64][]models.ForecastPoint),
	}
}

func (m *memStore) UpsertProducts(_ context.Context, products []models.Product) (int, error) {
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := 0
	for _, p := range products {
		if _, exists := m.products[p.ID]; exists {
			continue
		}
		m.products[p.ID] = p
		inserted++
	}
	return inserted, nil
}

func (m *memStore) ReplaceForecasts(_ context.Context, productID int64, fc models.Forecast) error {
	if err := m.replaceErr[productID]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	points := make([]models.ForecastPoint, len(fc.Points))
	copy(points, fc.Points)
	sort.Slice(points, func(i, j int) bool { return points[i].DS.Before(points[j].DS) })
	m.forecasts[productID] = points
	return nil
}

func (m *memStore) ForecastsByProduct(_ context.Context, productID int64) ([]models.ForecastPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	points, ok := m.forecasts[productID]
	if !ok || len(points) == 0 {
		return nil, store.ErrNotFound
	}
	return points, nil
}

func (m *memStore) ListProducts(_ context.Context, limit, offset int) ([]models.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(m.products))
	for id := range m.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var page []models.Product
	for i := offset; i < len(ids) && len(page) < limit; i++ {
		page = append(page, m.products[ids[i]])
	}
	return page, len(ids), nil
}

func newTestCoordinator(st store.Store, f *fakeForecaster) *Coordinator {
	orch := NewOrchestrator(f, 10, 2, testLogger())
	return NewCoordinator(st, orch, testLogger())
}

func TestCoordinatorCompletesAndPersists(t *testing.T) {
	st := newMemStore()
	coord := newTestCoordinator(st, &fakeForecaster{})

	products := []models.Product{{ID: 101, Name: "Pen", Price: 1.5}}
	report := coord.Execute(context.Background(), products, dailySales(101, 20), 90)

	assert.Equal(t, StateCompleted, report.State)
	assert.Equal(t, 1, report.ProductsSaved)
	assert.Equal(t, 1, report.ForecastsSaved)

	points, err := st.ForecastsByProduct(context.Background(), 101)
	require.NoError(t, err)
	assert.Greater(t, len(points), 90)

	_, err = st.ForecastsByProduct(context.Background(), 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCoordinatorReportsSkipsWithoutFailing(t *testing.T) {
	st := newMemStore()
	coord := newTestCoordinator(st, &fakeForecaster{})

	products := []models.Product{{ID: 1}, {ID: 2}}
	sales := append(dailySales(1, 20), dailySales(2, 5)...)
	report := coord.Execute(context.Background(), products, sales, 30)

	assert.Equal(t, StateCompletedWithSkips, report.State)
	assert.Equal(t, 1, report.ForecastsSaved)
	assert.Equal(t, 1, report.SkippedProducts)
	assert.Equal(t, 0, report.FailedProducts)
}

func TestCoordinatorRerunReplacesForecasts(t *testing.T) {
	st := newMemStore()
	coord := newTestCoordinator(st, &fakeForecaster{})

	products := []models.Product{{ID: 101, Name: "Pen", Price: 1.5}}
	coord.Execute(context.Background(), products, dailySales(101, 20), 30)
	first, err := st.ForecastsByProduct(context.Background(), 101)
	require.NoError(t, err)

	coord.Execute(context.Background(), products, dailySales(101, 20), 30)
	second, err := st.ForecastsByProduct(context.Background(), 101)
	require.NoError(t, err)

	// Replace-semantics: the rerun leaves exactly one forecast set, no
	// accumulation across runs.
	assert.Equal(t, len(first), len(second))
}

func TestCoordinatorFirstWriteWinsOnProducts(t *testing.T) {
	st := newMemStore()
	coord := newTestCoordinator(st, &fakeForecaster{})

	coord.Execute(context.Background(), []models.Product{{ID: 1, Name: "Original", Price: 1}}, nil, 30)
	report := coord.Execute(context.Background(), []models.Product{{ID: 1, Name: "Changed", Price: 2}}, nil, 30)

	assert.Equal(t, 0, report.ProductsSaved)
	assert.Equal(t, "Original", st.products[1].Name)
}

func TestCoordinatorFailsWhenProductSaveFails(t *testing.T) {
	st := newMemStore()
	st.upsertErr = fmt.Errorf("connection refused")
	coord := newTestCoordinator(st, &fakeForecaster{})

	report := coord.Execute(context.Background(), []models.Product{{ID: 1}}, dailySales(1, 20), 30)

	assert.Equal(t, StateFailed, report.State)
	assert.Error(t, report.Err)
	assert.Empty(t, st.forecasts)
}

func TestCoordinatorIsolatesPersistenceFailures(t *testing.T) {
	st := newMemStore()
	st.replaceErr = map[int64]error{1: fmt.Errorf("deadlock")}
	coord := newTestCoordinator(st, &fakeForecaster{})

	products := []models.Product{{ID: 1}, {ID: 2}}
	sales := append(dailySales(1, 20), dailySales(2, 20)...)
	report := coord.Execute(context.Background(), products, sales, 30)

	assert.Equal(t, StateCompletedWithSkips, report.State)
	assert.Equal(t, 1, report.ForecastsSaved)
	assert.Equal(t, 1, report.FailedProducts)

	_, err := st.ForecastsByProduct(context.Background(), 2)
	assert.NoError(t, err)
}

// panicStore triggers the coordinator's outer failure boundary.
type panicStore struct{ *memStore }

func (p panicStore) ReplaceForecasts(context.Context, int64, models.Forecast) error {
	panic("unexpected")
}

func TestCoordinatorRecoversFromPanics(t *testing.T) {
	st := panicStore{newMemStore()}
	coord := newTestCoordinator(st, &fakeForecaster{})

	report := coord.Execute(context.Background(), []models.Product{{ID: 1}}, dailySales(1, 20), 30)

	assert.Equal(t, StateFailed, report.State)
	assert.Error(t, report.Err)
}
