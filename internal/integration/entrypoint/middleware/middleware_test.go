package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
	"github.com/finance-tracker/recurring/internal/integration/entrypoint/dto"
)

type stubTokenService struct {
	claims *adapter.TokenClaims
	err    error
}

func (s *stubTokenService) ValidateAccessToken(ctx context.Context, token string) (*adapter.TokenClaims, error) {
	return s.claims, s.err
}

func newAuthEngine(service adapter.TokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(NewAuthMiddleware(service).Authenticate())
	engine.GET("/me", func(c *gin.Context) {
		userID, _ := GetUserIDFromContext(c)
		email, _ := GetUserEmailFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String(), "email": email})
	})
	return engine
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	valid := &stubTokenService{claims: &adapter.TokenClaims{UserID: userID, Email: "someone@example.com", ExpiresAt: time.Now().Add(time.Hour)}}

	tests := []struct {
		name    string
		service adapter.TokenService
		header  string
		status  int
		code    domainerror.AuthErrorCode
	}{
		{name: "missing header", service: valid, status: http.StatusUnauthorized, code: domainerror.ErrCodeMissingToken},
		{name: "not a bearer token", service: valid, header: "Basic abc", status: http.StatusUnauthorized, code: domainerror.ErrCodeInvalidToken},
		{name: "empty bearer token", service: valid, header: "Bearer ", status: http.StatusUnauthorized, code: domainerror.ErrCodeMissingToken},
		{
			name:    "expired token",
			service: &stubTokenService{err: domainerror.ErrExpiredToken},
			header:  "Bearer abc",
			status:  http.StatusUnauthorized,
			code:    domainerror.ErrCodeExpiredToken,
		},
		{
			name:    "invalid token",
			service: &stubTokenService{err: fmt.Errorf("%w: bad signature", domainerror.ErrInvalidToken)},
			header:  "Bearer abc",
			status:  http.StatusUnauthorized,
			code:    domainerror.ErrCodeInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			newAuthEngine(tt.service).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, string(tt.code), body.Code)
		})
	}

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer abc")
		rec := httptest.NewRecorder()

		newAuthEngine(valid).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["user_id"])
		assert.Equal(t, "someone@example.com", body["email"])
	})
}

func TestRateLimiter(t *testing.T) {
	t.Setenv("ENV", "development")
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiterWithConfig(2, time.Minute)
	alice := uuid.New()
	bob := uuid.New()

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader("X-User")); err == nil {
			c.Set(string(UserIDKey), id)
		}
		c.Next()
	})
	engine.POST("/sweep", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusAccepted) })

	call := func(user uuid.UUID) int {
		req := httptest.NewRequest(http.MethodPost, "/sweep", nil)
		req.Header.Set("X-User", user.String())
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusAccepted, call(alice))
	assert.Equal(t, http.StatusAccepted, call(alice))
	assert.Equal(t, http.StatusTooManyRequests, call(alice))
	assert.Equal(t, http.StatusAccepted, call(bob), "limits are per user")

	limiter.Reset()
	assert.Equal(t, http.StatusAccepted, call(alice))
}

func TestRateLimiter_WindowExpires(t *testing.T) {
	limiter := NewRateLimiterWithConfig(1, 20*time.Millisecond)

	assert.True(t, limiter.allow("ip:1"))
	assert.False(t, limiter.allow("ip:1"))

	time.Sleep(30 * time.Millisecond)
	limiter.Cleanup()
	assert.Empty(t, limiter.entries)
	assert.True(t, limiter.allow("ip:1"))
}
