package google

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func apiError(code int) *googleapi.Error {
	return &googleapi.Error{Code: code, Header: make(http.Header)}
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(ErrUnauthorized))
	assert.True(t, IsUnauthorized(apiError(http.StatusUnauthorized)))
	assert.False(t, IsUnauthorized(apiError(http.StatusForbidden)))
	assert.False(t, IsUnauthorized(errors.New("network down")))
	assert.False(t, IsUnauthorized(nil))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(apiError(http.StatusNotFound)))
	assert.False(t, IsNotFound(apiError(http.StatusInternalServerError)))
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(ErrRateLimited))
	assert.True(t, IsRateLimited(apiError(http.StatusTooManyRequests)))
	assert.True(t, IsRateLimited(fmt.Errorf("list files: %w", apiError(http.StatusTooManyRequests))))
	assert.False(t, IsRateLimited(apiError(http.StatusUnauthorized)))
	assert.False(t, IsRateLimited(nil))
}

func TestRetryAfterSeconds(t *testing.T) {
	withHeader := apiError(http.StatusTooManyRequests)
	withHeader.Header.Set("Retry-After", "30")
	assert.Equal(t, 30, RetryAfterSeconds(withHeader))

	assert.Equal(t, 0, RetryAfterSeconds(apiError(http.StatusTooManyRequests)))

	malformed := apiError(http.StatusTooManyRequests)
	malformed.Header.Set("Retry-After", "soon")
	assert.Equal(t, 0, RetryAfterSeconds(malformed))

	assert.Equal(t, 0, RetryAfterSeconds(errors.New("not an api error")))
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil))
	assert.ErrorIs(t, WrapError(apiError(http.StatusUnauthorized)), ErrUnauthorized)
	assert.ErrorIs(t, WrapError(apiError(http.StatusNotFound)), ErrNotFound)
	assert.ErrorIs(t, WrapError(apiError(http.StatusTooManyRequests)), ErrRateLimited)

	plain := errors.New("connection reset")
	assert.Equal(t, plain, WrapError(plain))
}
