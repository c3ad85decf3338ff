package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zeeshukhan/shopify-custom-app/internal/shopify"
	"github.com/zeeshukhan/shopify-custom-app/pkg/httputil"
	"github.com/zeeshukhan/shopify-custom-app/pkg/logger"
)

type contextKeyType string

const sessionKey contextKeyType = "shopify_session"

// SessionClaims are the claims of a Shopify embedded-app session token.
// The dest claim carries the shop origin (https://{shop}.myshopify.com).
type SessionClaims struct {
	Dest string `json:"dest"`
	jwt.RegisteredClaims
}

// SessionAuth validates the embedded-app session token (HS256, signed with
// the app's API secret) and stores a shopify.Session in the request context.
// Handlers behind this middleware receive the session explicitly via
// SessionFromContext; nothing reads ambient authentication state.
func SessionAuth(apiSecret string) func(http.Handler) http.Handler {
	secret := []byte(apiSecret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeAuthError(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeAuthError(w, "invalid authorization header format")
				return
			}

			claims, err := validateSessionToken(parts[1], secret)
			if err != nil {
				writeAuthError(w, "invalid or expired session token")
				return
			}

			shop := strings.TrimPrefix(claims.Dest, "https://")
			shop = strings.TrimSuffix(shop, "/")
			if shop == "" {
				writeAuthError(w, "session token has no shop destination")
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, shopify.Session{Shop: shop})
			ctx = logger.WithShop(ctx, shop)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateSessionToken(tokenString string, secret []byte) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid session token claims")
	}

	return claims, nil
}

// SessionFromContext extracts the authenticated session from the request
// context. The boolean reports whether SessionAuth ran for this request.
func SessionFromContext(ctx context.Context) (shopify.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(shopify.Session)
	return sess, ok
}

func writeAuthError(w http.ResponseWriter, message string) {
	httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorBody{Error: message})
}
