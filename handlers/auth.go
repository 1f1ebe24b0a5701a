package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// Login exchanges the operator passphrase for a bearer token. Only
// registered when auth is configured.
func Login(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(deps.Cfg.AuthPassHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid password")
			return
		}

		claims := jwt.RegisteredClaims{
			Subject:   "operator",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(deps.Cfg.AuthJWTSecret))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to sign token")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"token":   signed,
		})
	}
}

// AuthMiddleware requires a valid bearer token on every API route except
// health, login, and the image file server. A no-op when auth is not
// configured, which matches the original single-user setup.
func AuthMiddleware(deps *Deps) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !deps.Cfg.AuthEnabled() || isPublicPath(r) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")

			token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{},
				func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return []byte(deps.Cfg.AuthJWTSecret), nil
				})
			if err != nil || !token.Valid {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(r *http.Request) bool {
	if r.Method == http.MethodOptions {
		return true
	}
	switch {
	case r.URL.Path == "/api/health",
		r.URL.Path == "/api/auth/login",
		strings.HasPrefix(r.URL.Path, "/api/images/uploads/"):
		return true
	}
	return false
}
