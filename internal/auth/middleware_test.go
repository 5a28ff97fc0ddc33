package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gameportal/backend/internal/models"
	"gameportal/backend/internal/service"
	"gameportal/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "middleware-test-secret"

type stubUsers struct {
	users map[string]*models.User
	err   error
}

func (s *stubUsers) SyncIdentity(_ context.Context, id service.Identity) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.users[id.Subject]; ok {
		return u, nil
	}
	u := &models.User{Model: gorm.Model{ID: uint(len(s.users) + 1)}, ExternalID: id.Subject, Role: models.RoleUser}
	s.users[id.Subject] = u
	return u, nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(users IdentitySyncer) *gin.Engine {
	r := gin.New()
	echo := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	}
	r.GET("/optional", OptionalAuthMiddleware(testSecret, users), echo)
	r.GET("/private", AuthMiddleware(testSecret, users), echo)
	r.GET("/admin", AuthMiddleware(testSecret, users), AdminMiddleware(), echo)
	return r
}

func request(t *testing.T, r http.Handler, path, subject string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if subject != "" {
		token, err := jwt.GenerateToken(testSecret, subject, "nick", "", time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	users := &stubUsers{users: map[string]*models.User{
		"boss": {Model: gorm.Model{ID: 7}, ExternalID: "boss", Role: models.RoleAdmin},
	}}
	r := newRouter(users)

	w := request(t, r, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":{"code":"UNAUTHORIZED","message":"authorization header required"}}`, w.Body.String())

	w = request(t, r, "/private", "player")
	assert.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer forged.token.value")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := newRouter(&stubUsers{users: map[string]*models.User{}})

	w := request(t, r, "/optional", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())

	w = request(t, r, "/optional", "player")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":1}`, w.Body.String())

	failing := newRouter(&stubUsers{err: errors.New("db down")})
	w = request(t, failing, "/optional", "player")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())
}

func TestAdminMiddleware(t *testing.T) {
	users := &stubUsers{users: map[string]*models.User{
		"boss": {Model: gorm.Model{ID: 7}, ExternalID: "boss", Role: models.RoleAdmin},
	}}
	r := newRouter(users)

	assert.Equal(t, http.StatusForbidden, request(t, r, "/admin", "player").Code)
	assert.Equal(t, http.StatusOK, request(t, r, "/admin", "boss").Code)
	assert.Equal(t, http.StatusUnauthorized, request(t, r, "/admin", "").Code)
}
