package router

import (
	"encoding/json"
	"net/http"
	"time"

	"gobiblio/internal/api/book"
	"gobiblio/internal/api/user"
	"gobiblio/internal/domain"
	"gobiblio/internal/pkg/cache"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/middleware"
)

// Options controla a montagem do pipeline de requisições.
//
// AuthEnabled escolhe em tempo de execução entre o pipeline autenticado
// (rotas protegidas exigem Bearer token) e o pipeline de passagem direta
// (modo desenvolvimento): os handlers são os mesmos, só a fiação muda.
type Options struct {
	AuthEnabled   bool
	RateLimitMax  int
	RateLimitSpan time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(bookHandler *book.Handler, userHandler *user.Handler, tokenSvc middleware.TokenService, cacheClient cache.Client, log logger.Logger, opts Options) http.Handler {

	// Usamos o ServeMux padrão do net/http com patterns de método.
	// Em projetos maiores, pode-se usar um mux de terceiros (e.g., chi),
	// mas o roteamento aqui é direto: método + rota → handler.
	mux := http.NewServeMux()

	authMW := middleware.NewAuthMiddleware(tokenSvc)
	adminMW := middleware.PermissionMiddleware(domain.RoleAdmin)

	// protect aplica o middleware de autenticação apenas no pipeline autenticado.
	protect := func(h http.HandlerFunc) http.Handler {
		if opts.AuthEnabled {
			return authMW(h)
		}
		return h
	}

	// --- 1. Rotas públicas (isentas de autenticação em ambos os modos) ---

	mux.HandleFunc("GET /{$}", RootHandler)
	mux.HandleFunc("GET /ping", PingHandler)

	// Login e registro permanecem alcançáveis sem token.
	mux.HandleFunc("POST /login", userHandler.LoginUserHandler)
	mux.HandleFunc("POST /users", userHandler.RegisterUserHandler)

	// --- 2. Rotas de usuários ---

	// GET /users é restrito a administradores no pipeline autenticado.
	if opts.AuthEnabled {
		mux.Handle("GET /users", authMW(adminMW(http.HandlerFunc(userHandler.ListUsersHandler))))
	} else {
		mux.HandleFunc("GET /users", userHandler.ListUsersHandler)
	}

	// --- 3. Rotas de livros ---

	mux.Handle("GET /books", protect(bookHandler.ListBooksHandler))
	mux.Handle("POST /books", protect(bookHandler.CreateBookHandler))
	mux.Handle("GET /books/{id}", protect(bookHandler.GetBookByIDHandler))
	mux.Handle("PUT /books/{id}", protect(bookHandler.UpdateBookHandler))
	mux.Handle("DELETE /books/{id}", protect(bookHandler.DeleteBookHandler))
	mux.Handle("PATCH /books/{id}/title", protect(bookHandler.UpdateBookTitleHandler))

	// --- 4. Rotas de exemplo protegidas por autenticação e por role ---
	// Existem apenas no pipeline autenticado.

	if opts.AuthEnabled {
		mux.Handle("GET /protected", authMW(http.HandlerFunc(ProtectedHandler)))
		mux.Handle("GET /admin", authMW(adminMW(http.HandlerFunc(AdminHandler))))
	}

	// --- 5. Middlewares globais ---
	// Ordem: RequestID → CORS (responde OPTIONS antes de tudo) → RateLimiter → mux.

	var handler http.Handler = mux
	if cacheClient != nil && opts.RateLimitMax > 0 {
		handler = middleware.RateLimiter(cacheClient, opts.RateLimitMax, opts.RateLimitSpan)(handler)
	}
	handler = middleware.CORS(handler)
	handler = middleware.RequestID(log)(handler)

	return handler
}

// RootHandler responde a raiz da API, útil para testes rápidos.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Bem-vindo à API GoBiblio - API REST com autenticação JWT"))
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// ProtectedHandler demonstra uma rota que exige apenas autenticação: devolve
// a identidade extraída do token.
func ProtectedHandler(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.GetAuthContext(r.Context())
	if !ok || !ac.Authenticated {
		// O middleware já barra este caso; aqui é apenas o contrato do handler.
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "Acesso autorizado",
		"userId":  ac.UserID,
		"role":    ac.Role,
	})
}

// AdminHandler demonstra uma rota restrita à role admin.
func AdminHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": "Bem-vindo, administrador!",
	})
}
