package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
)

const (
	testSecret = "token-service-secret"
	testIssuer = "finance-tracker"
)

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(userID uuid.UUID) *CustomClaims {
	now := time.Now()
	return &CustomClaims{
		UserID:    userID.String(),
		Email:     "someone@example.com",
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-time.Minute)),
		},
	}
}

func TestTokenService_ValidateAccessToken(t *testing.T) {
	service := NewTokenService(testSecret, testIssuer)
	ctx := context.Background()
	userID := uuid.New()

	t.Run("valid token", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims(userID))

		claims, err := service.ValidateAccessToken(ctx, token)

		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "someone@example.com", claims.Email)
		assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
	})

	t.Run("falls back to the subject", func(t *testing.T) {
		claims := validClaims(userID)
		claims.UserID = ""
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

		got, err := service.ValidateAccessToken(ctx, token)

		require.NoError(t, err)
		assert.Equal(t, userID, got.UserID)
	})

	t.Run("tokens without a type are accepted", func(t *testing.T) {
		claims := validClaims(userID)
		claims.TokenType = ""
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

		_, err := service.ValidateAccessToken(ctx, token)

		assert.NoError(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims(userID)
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

		_, err := service.ValidateAccessToken(ctx, token)

		assert.True(t, errors.Is(err, domainerror.ErrExpiredToken))
	})

	invalid := []struct {
		name  string
		token func(t *testing.T) string
		want  error
	}{
		{
			name:  "wrong secret",
			token: func(t *testing.T) string { return sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims(userID)) },
			want:  domainerror.ErrInvalidToken,
		},
		{
			name:  "unexpected algorithm",
			token: func(t *testing.T) string { return sign(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims(userID)) },
			want:  domainerror.ErrInvalidToken,
		},
		{
			name: "unsigned",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims(userID))
			},
			want: domainerror.ErrInvalidToken,
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				claims := validClaims(userID)
				claims.Issuer = "someone-else"
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims)
			},
			want: domainerror.ErrInvalidToken,
		},
		{
			name: "refresh token",
			token: func(t *testing.T) string {
				claims := validClaims(userID)
				claims.TokenType = "refresh"
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims)
			},
			want: domainerror.ErrInvalidToken,
		},
		{
			name: "missing expiry",
			token: func(t *testing.T) string {
				claims := validClaims(userID)
				claims.ExpiresAt = nil
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims)
			},
			want: domainerror.ErrInvalidToken,
		},
		{
			name: "subject is not a uuid",
			token: func(t *testing.T) string {
				claims := validClaims(userID)
				claims.UserID = "user-42"
				return sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims)
			},
			want: domainerror.ErrInvalidSubject,
		},
		{
			name:  "garbage",
			token: func(t *testing.T) string { return "not-a-jwt" },
			want:  domainerror.ErrInvalidToken,
		},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateAccessToken(ctx, tt.token(t))

			assert.Truef(t, errors.Is(err, tt.want), "expected %v, got %v", tt.want, err)
		})
	}
}

func TestTokenService_AnyIssuer(t *testing.T) {
	service := NewTokenService(testSecret, "")
	claims := validClaims(uuid.New())
	claims.Issuer = "anything"

	_, err := service.ValidateAccessToken(context.Background(), sign(t, jwt.SigningMethodHS256, []byte(testSecret), claims))

	assert.NoError(t, err)
}

func TestSystemClock_IsUTC(t *testing.T) {
	now := NewSystemClock().Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}
