package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/token"
)

// ContextKey é o tipo da chave usada para armazenar as claims do usuário no
// contexto. Usamos um tipo próprio para garantir que esta chave seja única e
// não haja conflito com chaves string de outros pacotes.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// AuthContext representa o resultado da autenticação de uma requisição,
// anexado ao contexto pelo middleware e descartado ao final da requisição.
type AuthContext struct {
	UserID        int
	Role          domain.UserRole
	Authenticated bool
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// GetAuthContext extrai o AuthContext no handler. O segundo retorno indica
// se o middleware de autenticação foi executado para esta rota.
func GetAuthContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(UserClaimsKey).(AuthContext)
	return ac, ok
}

// NewAuthMiddleware cria uma função de middleware que valida um JWT vindo do
// header "Authorization: Bearer <token>" e anexa o AuthContext resultante à
// requisição. Token ausente e token inválido produzem mensagens distintas,
// ambas 401.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			// 1. Extrair o Token do Header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				writeError(w, apperror.NewUnauthorizedError("Autenticação necessária."))
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			// 2. Validar o Token (assinatura, emissor, expiração)
			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				writeError(w, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				writeError(w, apperror.NewUnauthorizedError("Token inválido ou expirado."))
				return
			}

			// 3. Anexar o AuthContext ao contexto da requisição
			ac := AuthContext{
				UserID:        userID,
				Role:          domain.UserRole(claims.Role),
				Authenticated: true,
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PermissionMiddleware restringe a rota às roles informadas. Deve ser aplicado
// depois do AuthMiddleware: requisição sem AuthContext é tratada como não
// autenticada (401); role fora da lista produz 403, distinto do erro de token.
func PermissionMiddleware(requiredRoles ...domain.UserRole) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			ac, ok := GetAuthContext(r.Context())
			if !ok || !ac.Authenticated {
				writeError(w, apperror.NewUnauthorizedError("Autorização necessária. Token não processado."))
				return
			}

			isAuthorized := false
			for _, requiredRole := range requiredRoles {
				if ac.Role == requiredRole {
					isAuthorized = true
					break
				}
			}

			if !isAuthorized {
				writeError(w, apperror.NewForbiddenError("Acesso negado. Você não tem a permissão necessária."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeError envia uma resposta de erro JSON padronizada a partir de um AppError.
func writeError(w http.ResponseWriter, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Status:   "error",
		Code:     status,
		Category: category,
		Message:  message,
	})
}
