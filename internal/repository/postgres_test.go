package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gameportal/backend/internal/catalog"
	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestWhereClauseRendersPredicates(t *testing.T) {
	q, err := catalog.BuildQuery(catalog.FilterRequest{
		Query:     strPtr("Puz"),
		Tags:      []string{"puzzle", "brain"},
		MinRating: floatPtr(4),
		Featured:  boolPtr(true),
	}, catalog.DefaultLimits)
	require.NoError(t, err)

	sql, args, err := whereClause(q.Predicates())
	require.NoError(t, err)

	assert.Contains(t, sql, "games.status = ?")
	assert.Contains(t, sql, `LOWER(games.name) LIKE ? ESCAPE '\'`)
	assert.Contains(t, sql, `LOWER(games.description) LIKE ? ESCAPE '\'`)
	assert.Contains(t, sql, "games.id IN (SELECT gt.game_id FROM game_tags gt JOIN tags t ON t.id = gt.tag_id")
	assert.Contains(t, sql, "LOWER(t.name) IN (?,?)")
	assert.Contains(t, sql, "HAVING COUNT(DISTINCT LOWER(t.name)) = ?")
	assert.Contains(t, sql, "games.rating >= ?")
	assert.Contains(t, sql, "games.is_featured = ?")
	assert.Equal(t, []interface{}{"active", "%puz%", "%puz%", "puzzle", "brain", 2, 4.0, true}, args)
}

func TestOrderClause(t *testing.T) {
	order, err := orderClause([]catalog.OrderTerm{{Field: catalog.FieldRating, Desc: true}, {Field: catalog.FieldID}})
	require.NoError(t, err)
	assert.Equal(t, "games.rating DESC, games.id ASC", order)

	_, err = orderClause([]catalog.OrderTerm{{Field: "name; DROP TABLE games"}})
	assert.Error(t, err)
}

func TestPostgresCountUsesPositionalArgs(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo := NewGormGameRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "games" WHERE .*games\.status = \$1.*games\.rating >= \$2.*"games"\."deleted_at" IS NULL`).
		WithArgs("active", 4.0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	q, err := catalog.BuildQuery(catalog.FilterRequest{MinRating: floatPtr(4)}, catalog.DefaultLimits)
	require.NoError(t, err)
	n, err := repo.Count(context.Background(), q.Predicates())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProviderFailureSurfaces(t *testing.T) {
	db, mock := newMockPostgres(t)
	mock.MatchExpectationsInOrder(false)
	boom := errors.New("connection reset by peer")
	mock.ExpectQuery(`SELECT count\(\*\) FROM "games"`).WillReturnError(boom)
	mock.ExpectQuery(`SELECT \* FROM "games"`).WillReturnError(boom)

	svc := catalog.NewService(NewGormGameRepository(db), catalog.Options{Limits: catalog.DefaultLimits, Timeout: time.Second}, zap.NewNop().Sugar())
	page, err := svc.Search(context.Background(), catalog.FilterRequest{})

	assert.Nil(t, page)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeProviderUnavailable))
}

func TestPostgresSlowProviderTimesOut(t *testing.T) {
	db, mock := newMockPostgres(t)
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "games"`).
		WillDelayFor(500 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT \* FROM "games"`).
		WillDelayFor(500 * time.Millisecond).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	svc := catalog.NewService(NewGormGameRepository(db), catalog.Options{Limits: catalog.DefaultLimits, Timeout: 20 * time.Millisecond}, zap.NewNop().Sugar())
	_, err := svc.Search(context.Background(), catalog.FilterRequest{})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeProviderTimeout))
}

func TestPostgresSetStatusNotFound(t *testing.T) {
	db, mock := newMockPostgres(t)
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "games" SET .*WHERE id = \$3`).
		WithArgs(string(models.GameStatusInactive), sqlmock.AnyArg(), 42).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := NewGormGameRepository(db).SetStatus(context.Background(), 42, models.GameStatusInactive)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
