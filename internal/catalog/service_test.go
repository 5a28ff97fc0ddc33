package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func game(id uint, name string, rating float64, tags ...string) models.Game {
	g := models.Game{
		Model:      gorm.Model{ID: id, CreatedAt: epoch},
		Slug:       fmt.Sprintf("game-%d", id),
		Name:       name,
		Rating:     rating,
		CategoryID: 1,
		Difficulty: models.DifficultyMedium,
		Status:     models.GameStatusActive,
	}
	for _, t := range tags {
		g.Tags = append(g.Tags, &models.Tag{Name: t})
	}
	return g
}

// exampleCatalog holds games A, B and C with equal creation times.
func exampleCatalog() *MemoryStore {
	return NewMemoryStore(
		game(1, "A", 4.5, "puzzle"),
		game(2, "B", 3.0, "action"),
		game(3, "C", 4.8, "puzzle", "brain"),
	)
}

func newTestService(store Store) *Service {
	return NewService(store, Options{Limits: DefaultLimits, Timeout: time.Second}, zap.NewNop().Sugar())
}

func names(games []models.Game) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.Name
	}
	return out
}

func TestSearchWorkedExamples(t *testing.T) {
	svc := newTestService(exampleCatalog())
	ctx := context.Background()

	page, err := svc.Search(ctx, FilterRequest{Tags: []string{"puzzle"}, SortBy: SortRating, SortOrder: SortDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A"}, names(page.Items))
	assert.EqualValues(t, 2, page.Total)

	page, err = svc.Search(ctx, FilterRequest{MinRating: ptr(4.0)})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, names(page.Items))

	page, err = svc.Search(ctx, FilterRequest{Query: ptr("nonexistent")})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
}

func TestSearchExcludesInactiveGames(t *testing.T) {
	store := exampleCatalog()
	hidden := game(4, "D", 5.0, "puzzle")
	hidden.Status = models.GameStatusInactive
	store.Put(hidden)

	page, err := newTestService(store).Search(context.Background(), FilterRequest{Tags: []string{"puzzle"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "C"}, names(page.Items))
}

func TestSearchConjunctiveFiltering(t *testing.T) {
	store := exampleCatalog()
	d := game(4, "Brain Teaser", 4.9, "puzzle", "brain")
	d.CategoryID = 2
	d.IsFeatured = true
	d.Difficulty = models.DifficultyHard
	store.Put(d)

	req := FilterRequest{
		Query:      ptr("teaser"),
		CategoryID: ptr(uint(2)),
		Tags:       []string{"puzzle", "brain"},
		MinRating:  ptr(4.0),
		MaxRating:  ptr(5.0),
		Difficulty: ptr("hard"),
		Featured:   ptr(true),
	}
	page, err := newTestService(store).Search(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	for _, p := range mustQuery(t, req).Predicates() {
		assert.True(t, p.Match(&page.Items[0]), p.String())
	}
}

func TestSearchFalseFacetIsAConstraint(t *testing.T) {
	store := exampleCatalog()
	f := game(4, "Featured", 4.0)
	f.IsFeatured = true
	store.Put(f)
	svc := newTestService(store)

	all, err := svc.Search(context.Background(), FilterRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 4)

	notFeatured, err := svc.Search(context.Background(), FilterRequest{Featured: ptr(false)})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B", "C"}, names(notFeatured.Items))
}

func TestSearchAbsentFieldsAreNeutral(t *testing.T) {
	svc := newTestService(exampleCatalog())
	base := FilterRequest{SortBy: SortRating}

	withAbsent := base
	withAbsent.Tags = []string{}
	withAbsent.Query = nil

	a, err := svc.Search(context.Background(), base)
	require.NoError(t, err)
	b, err := svc.Search(context.Background(), withAbsent)
	require.NoError(t, err)
	assert.Equal(t, names(a.Items), names(b.Items))
}

func TestSearchIsDeterministic(t *testing.T) {
	store := NewMemoryStore()
	for i := uint(1); i <= 30; i++ {
		store.Put(game(i, fmt.Sprintf("G%02d", i), float64(i%3)))
	}
	svc := newTestService(store)
	req := FilterRequest{SortBy: SortRating, Limit: 7, Page: 2}

	first, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.Search(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, names(first.Items), names(again.Items))
	}

	// Equal ratings fall back to id ascending.
	for i := 1; i < len(first.Items); i++ {
		prev, cur := first.Items[i-1], first.Items[i]
		if prev.Rating == cur.Rating {
			assert.Less(t, prev.ID, cur.ID)
		}
	}
}

func TestSearchEnforcesCap(t *testing.T) {
	store := NewMemoryStore()
	for i := uint(1); i <= 120; i++ {
		store.Put(game(i, fmt.Sprintf("G%03d", i), 3))
	}
	svc := newTestService(store)

	page, err := svc.Search(context.Background(), FilterRequest{Limit: 1000})
	require.NoError(t, err)
	assert.Len(t, page.Items, DefaultLimits.Max)
	assert.EqualValues(t, 120, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	last, err := svc.Search(context.Background(), FilterRequest{Limit: 50, Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.Items, 20)

	beyond, err := svc.Search(context.Background(), FilterRequest{Limit: 50, Page: 9})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
}

func TestSearchHugePageIsRejected(t *testing.T) {
	page, err := newTestService(exampleCatalog()).Search(context.Background(), FilterRequest{Page: math.MaxInt})
	assert.Nil(t, page)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
}

func TestMemoryStoreClampsNegativeOffset(t *testing.T) {
	games, err := exampleCatalog().Find(context.Background(), Query{
		predicates: []Predicate{StatusIs{Status: models.GameStatusActive}},
		order:      []OrderTerm{{Field: FieldID}},
		page:       -3,
		limit:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(games))
}

func TestSearchValidationErrorSkipsStore(t *testing.T) {
	store := new(mockStore)
	svc := newTestService(store)

	_, err := svc.Search(context.Background(), FilterRequest{MinRating: ptr(5.0), MaxRating: ptr(1.0)})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
	store.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}

func TestSearchProviderFailureIsNotEmpty(t *testing.T) {
	store := new(mockStore)
	boom := errors.New("connection refused")
	store.On("Count", mock.Anything, mock.Anything).Return(int64(0), boom).Maybe()
	store.On("Find", mock.Anything, mock.Anything).Return(nil, boom).Maybe()

	page, err := newTestService(store).Search(context.Background(), FilterRequest{})
	assert.Nil(t, page)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeProviderUnavailable))
	assert.ErrorIs(t, err, boom)
}

func TestSearchTimeout(t *testing.T) {
	svc := NewService(blockingStore{}, Options{Limits: DefaultLimits, Timeout: 20 * time.Millisecond}, zap.NewNop().Sugar())

	start := time.Now()
	_, err := svc.Search(context.Background(), FilterRequest{})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeProviderTimeout))
	assert.True(t, apperrors.IsProviderUnavailable(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestSearchConcurrentCallers(t *testing.T) {
	svc := newTestService(exampleCatalog())
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		go func() {
			page, err := svc.Search(context.Background(), FilterRequest{Tags: []string{"puzzle"}, SortBy: SortRating})
			if err == nil && len(page.Items) != 2 {
				err = fmt.Errorf("got %d items", len(page.Items))
			}
			errs <- err
		}()
	}
	for i := 0; i < 20; i++ {
		assert.NoError(t, <-errs)
	}
}

func TestNewServiceNormalizesLimits(t *testing.T) {
	svc := NewService(NewMemoryStore(), Options{Limits: Limits{Default: 80, Max: 10}}, zap.NewNop().Sugar())
	assert.Equal(t, Limits{Default: 10, Max: 10}, svc.Limits())
}

func mustQuery(t *testing.T, req FilterRequest) Query {
	t.Helper()
	q, err := BuildQuery(req, DefaultLimits)
	require.NoError(t, err)
	return q
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Find(ctx context.Context, q Query) ([]models.Game, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Game), args.Error(1)
}

func (m *mockStore) Count(ctx context.Context, preds []Predicate) (int64, error) {
	args := m.Called(ctx, preds)
	return args.Get(0).(int64), args.Error(1)
}

// blockingStore waits for the context like a provider that never answers.
type blockingStore struct{}

func (blockingStore) Find(ctx context.Context, _ Query) ([]models.Game, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingStore) Count(ctx context.Context, _ []Predicate) (int64, error) {
	<-ctx.Done()
	return 0, ctx.Err()
}
