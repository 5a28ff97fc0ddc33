package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := NewProviderTimeoutError(context.DeadlineExceeded)

	assert.True(t, stderrors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, http.StatusGatewayTimeout, err.Status)
	assert.Contains(t, err.Error(), ErrCodeProviderTimeout)
}

func TestAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("search: %w", NewValidationError("min_rating", "must not exceed max_rating"))

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, ErrCodeValidation, appErr.Code)
	assert.True(t, HasCode(wrapped, ErrCodeValidation))
	assert.False(t, HasCode(stderrors.New("plain"), ErrCodeValidation))
}

func TestIsProviderUnavailable(t *testing.T) {
	assert.True(t, IsProviderUnavailable(NewProviderUnavailableError(stderrors.New("conn refused"))))
	assert.True(t, IsProviderUnavailable(NewProviderTimeoutError(context.DeadlineExceeded)))
	assert.False(t, IsProviderUnavailable(NewNotFoundError("game", 1)))
}
