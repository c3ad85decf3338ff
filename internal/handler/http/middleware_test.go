package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeeshukhan/shopify-custom-app/internal/shopify"
)

const testAPISecret = "test-api-secret"

func signSessionToken(t *testing.T, secret string, claims SessionClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() SessionClaims {
	return SessionClaims{
		Dest: "https://merchant.myshopify.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func sessionAuthProbe() (http.Handler, *shopify.Session) {
	captured := &shopify.Session{}

	handler := SessionAuth(testAPISecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := SessionFromContext(r.Context()); ok {
			*captured = sess
		}
		w.WriteHeader(http.StatusOK)
	}))

	return handler, captured
}

func TestSessionAuth_ValidToken(t *testing.T) {
	handler, captured := sessionAuthProbe()

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+signSessionToken(t, testAPISecret, validClaims()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "merchant.myshopify.com", captured.Shop)
}

func TestSessionAuth_MissingHeader(t *testing.T) {
	handler, _ := sessionAuthProbe()

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error": "missing authorization header"}`, rec.Body.String())
}

func TestSessionAuth_MalformedHeader(t *testing.T) {
	handler, _ := sessionAuthProbe()

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error": "invalid authorization header format"}`, rec.Body.String())
}

func TestSessionAuth_WrongSecret(t *testing.T) {
	handler, _ := sessionAuthProbe()

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+signSessionToken(t, "wrong-secret", validClaims()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error": "invalid or expired session token"}`, rec.Body.String())
}

func TestSessionAuth_ExpiredToken(t *testing.T) {
	handler, _ := sessionAuthProbe()

	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+signSessionToken(t, testAPISecret, claims))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuth_EmptyDest(t *testing.T) {
	handler, _ := sessionAuthProbe()

	claims := validClaims()
	claims.Dest = ""

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+signSessionToken(t, testAPISecret, claims))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error": "session token has no shop destination"}`, rec.Body.String())
}

func TestSessionFromContext_NotSet(t *testing.T) {
	_, ok := SessionFromContext(t.Context())
	assert.False(t, ok)
}
