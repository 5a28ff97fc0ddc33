package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"gameportal/backend/internal/catalog"
	"gameportal/backend/internal/events"
	"gameportal/backend/internal/handler"
	"gameportal/backend/internal/repository"
	"gameportal/backend/internal/service"
	"gameportal/backend/internal/testutil"
	"gameportal/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "handler-test-secret-value"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db     *gorm.DB
	hub    *events.Hub
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := testutil.NopLogger()
	hub := events.NewHub(log)
	bus := events.NewBus(log, events.Sink{Name: "hub", Publisher: hub})

	games := repository.NewGormGameRepository(db)
	categories := repository.NewGormCategoryRepository(db)
	plays := repository.NewGormPlayRepository(db)
	achievementRepo := repository.NewGormAchievementRepository(db)
	achievements := service.NewAchievementService(achievementRepo, plays, bus, log)
	users := service.NewUserService(repository.NewGormUserRepository(db), plays, achievementRepo)

	h := handler.New(handler.Services{
		Catalog:    catalog.NewService(games, catalog.Options{Limits: catalog.DefaultLimits, Timeout: 2 * time.Second}, log),
		Games:      service.NewGameService(games, categories, bus, log),
		Categories: service.NewCategoryService(categories, bus, log),
		Tags:       service.NewTagService(repository.NewGormTagRepository(db)),
		Plays: service.NewPlayService(service.PlayServiceConfig{
			Plays:        plays,
			Jobs:         &testutil.InlineJobs{},
			Achievements: achievements,
			Publisher:    bus,
		}, log),
		Achievements: achievements,
		Users:        users,
		Hub:          hub,
	}, log)

	return &testEnv{
		db:  db,
		hub: hub,
		router: handler.NewRouter(h, handler.RouterConfig{
			JWTSecret:      testSecret,
			AllowedOrigins: []string{"http://portal.test"},
			Identities:     users,
		}, log),
	}
}

func token(t *testing.T, subject string) string {
	t.Helper()
	tok, err := jwt.GenerateToken(testSecret, subject, subject, subject+"@example.com", time.Hour)
	require.NoError(t, err)
	return tok
}

// do sends a request; body is JSON-encoded when non-nil.
func (e *testEnv) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func slugs(games []handler.GameResponse) []string {
	out := make([]string, len(games))
	for i, g := range games {
		out[i] = g.Slug
	}
	return out
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}

