package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims SessionClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestSessionAuth(t *testing.T) {
	userID := uuid.New()
	valid := SessionClaims{
		Email: "asha@example.com",
		Name:  "Asha Rao",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	notAUser := valid
	notAUser.Subject = "42"

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectSession  bool
	}{
		{
			name:           "Guest",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Valid token",
			header:         "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testJWTSecret), valid),
			expectedStatus: http.StatusOK,
			expectSession:  true,
		},
		{
			name:           "Wrong secret",
			header:         "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), valid),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired",
			header:         "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testJWTSecret), expired),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Unexpected algorithm",
			header:         "Bearer " + signToken(t, jwt.SigningMethodHS512, []byte(testJWTSecret), valid),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Subject is not a uuid",
			header:         "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(testJWTSecret), notAUser),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Not a bearer token",
			header:         "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Session
			var hasSession bool
			handler := SessionAuth(testJWTSecret, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, hasSession = SessionFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectSession, hasSession)
			if tt.expectSession {
				assert.Equal(t, userID, got.UserID)
				assert.Equal(t, "asha@example.com", got.Email)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	handler := RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		assert.True(t, ok)
		assert.NotEqual(t, uuid.Nil, id)
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/wishlist", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/wishlist", nil)
	req = req.WithContext(WithSession(req.Context(), Session{UserID: uuid.New()}))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuth(t *testing.T) {
	logger := zerolog.Nop()
	validAPIKey := "test-api-key-123"

	tests := []struct {
		name           string
		apiKey         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Valid API key",
			apiKey:         validAPIKey,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
		{
			name:           "Invalid API key",
			apiKey:         "invalid-key",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Prefix of the key",
			apiKey:         "test-api",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Missing API key",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := APIKeyAuth(validAPIKey, logger)(testHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/admin/products", nil)
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
		})
	}
}
