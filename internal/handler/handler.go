package handler

import (
	"strconv"

	"gameportal/backend/internal/catalog"
	apperrors "gameportal/backend/internal/errors"
	"gameportal/backend/internal/events"
	"gameportal/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler serves the public, user and admin HTTP API.
type Handler struct {
	catalog      *catalog.Service
	games        *service.GameService
	categories   *service.CategoryService
	tags         *service.TagService
	plays        *service.PlayService
	achievements *service.AchievementService
	users        *service.UserService
	hub          *events.Hub
	upgrader     websocket.Upgrader
	log          *zap.SugaredLogger
}

// Services bundles the dependencies of a Handler.
type Services struct {
	Catalog      *catalog.Service
	Games        *service.GameService
	Categories   *service.CategoryService
	Tags         *service.TagService
	Plays        *service.PlayService
	Achievements *service.AchievementService
	Users        *service.UserService
	Hub          *events.Hub
}

func New(s Services, log *zap.SugaredLogger) *Handler {
	return &Handler{
		catalog:      s.Catalog,
		games:        s.Games,
		categories:   s.Categories,
		tags:         s.Tags,
		plays:        s.Plays,
		achievements: s.Achievements,
		users:        s.Users,
		hub:          s.Hub,
		log:          log.Named("http"),
	}
}

// ErrorBody is the payload of an error response.
type ErrorBody struct {
	Code    string `json:"code" example:"NOT_FOUND"`
	Message string `json:"message" example:"game not found: 42"`
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// MessageResponse is returned by endpoints with nothing else to report.
type MessageResponse struct {
	Message string `json:"message" example:"category deleted"`
}

// respondError renders err with the status and code of its AppError.
// Anything else is reported as an internal error.
func (h *Handler) respondError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError(err)
	}
	if appErr.Status >= 500 {
		h.log.Errorw("request failed",
			"path", c.FullPath(),
			"code", appErr.Code,
			"error", appErr.Error(),
			"request_id", c.GetString(requestIDKey),
		)
	}
	c.AbortWithStatusJSON(appErr.Status, ErrorResponse{
		Error: ErrorBody{Code: appErr.Code, Message: appErr.Message},
	})
}

// bindJSON decodes the body into dst and reports binding failures as bad requests.
func (h *Handler) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, apperrors.NewBadRequestError(err.Error()))
		return false
	}
	return true
}

func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.NewValidationError(name, "must be a positive integer")
	}
	return uint(id), nil
}
