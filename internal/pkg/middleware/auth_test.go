package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobiblio/internal/domain"
	"gobiblio/internal/pkg/middleware"
	"gobiblio/internal/pkg/token"
)

const (
	testSecret = "segredo-de-teste-para-middleware"
	testIssuer = "gobiblio-api"
)

func newTokenService() *token.Service {
	return token.NewService(testSecret, testIssuer, time.Hour)
}

func validTokenFor(t *testing.T, user domain.User) string {
	t.Helper()
	tokenString, err := newTokenService().GenerateToken(user)
	require.NoError(t, err)
	return tokenString
}

// okHandler captura o AuthContext visto pelo handler final.
func okHandler(captured *middleware.AuthContext) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ac, ok := middleware.GetAuthContext(r.Context()); ok {
			*captured = ac
		}
		w.WriteHeader(http.StatusOK)
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorResponse {
	t.Helper()
	var body domain.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	authMW := middleware.NewAuthMiddleware(newTokenService())
	var captured middleware.AuthContext

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/books", nil)

	authMW(okHandler(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "Autenticação necessária.", body.Message)
	assert.False(t, captured.Authenticated)
}

func TestAuthMiddleware_WrongPrefix(t *testing.T) {
	authMW := middleware.NewAuthMiddleware(newTokenService())
	var captured middleware.AuthContext

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpzZW5oYQ==")

	authMW(okHandler(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Autenticação necessária.", decodeError(t, rec).Message)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	authMW := middleware.NewAuthMiddleware(newTokenService())
	var captured middleware.AuthContext

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("Authorization", "Bearer isto.nao.e-um-jwt")

	authMW(okHandler(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token inválido ou expirado.", decodeError(t, rec).Message)
	assert.False(t, captured.Authenticated)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	expiredSvc := token.NewService(testSecret, testIssuer, -time.Minute)
	tokenString, err := expiredSvc.GenerateToken(domain.User{ID: 1, Role: domain.RoleUser})
	require.NoError(t, err)

	authMW := middleware.NewAuthMiddleware(newTokenService())
	var captured middleware.AuthContext

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)

	authMW(okHandler(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token inválido ou expirado.", decodeError(t, rec).Message)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	user := domain.User{ID: 5, Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin}
	tokenString := validTokenFor(t, user)

	authMW := middleware.NewAuthMiddleware(newTokenService())
	var captured middleware.AuthContext

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)

	authMW(okHandler(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, captured.Authenticated)
	assert.Equal(t, 5, captured.UserID)
	assert.Equal(t, domain.RoleAdmin, captured.Role)
}

func TestPermissionMiddleware_NoAuthContext(t *testing.T) {
	adminOnly := middleware.PermissionMiddleware(domain.RoleAdmin)
	var captured middleware.AuthContext

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)

	// Aplicado sem o AuthMiddleware antes: trata como não autenticado.
	adminOnly(okHandler(&captured)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Autorização necessária. Token não processado.", decodeError(t, rec).Message)
}

func TestPermissionMiddleware_WrongRole(t *testing.T) {
	user := domain.User{ID: 2, Role: domain.RoleUser}
	tokenString := validTokenFor(t, user)

	authMW := middleware.NewAuthMiddleware(newTokenService())
	adminOnly := middleware.PermissionMiddleware(domain.RoleAdmin)
	var captured middleware.AuthContext

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)

	authMW(adminOnly(okHandler(&captured))).ServeHTTP(rec, req)

	// Autenticado mas sem a role: 403, distinto do 401 de token.
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "FORBIDDEN", body.Category)
	assert.Equal(t, "Acesso negado. Você não tem a permissão necessária.", body.Message)
	assert.False(t, captured.Authenticated)
}

func TestPermissionMiddleware_AllowedRole(t *testing.T) {
	user := domain.User{ID: 1, Role: domain.RoleAdmin}
	tokenString := validTokenFor(t, user)

	authMW := middleware.NewAuthMiddleware(newTokenService())
	adminOnly := middleware.PermissionMiddleware(domain.RoleAdmin)
	var captured middleware.AuthContext

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)

	authMW(adminOnly(okHandler(&captured))).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.RoleAdmin, captured.Role)
}
