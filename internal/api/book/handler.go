package book

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/logger"
)

// BookService define o contrato que o Handler espera da camada de Serviço.
type BookService interface {
	CreateBook(ctx context.Context, book domain.Book) (domain.Book, error)
	GetBooks(ctx context.Context) ([]domain.Book, error)
	GetBookByID(ctx context.Context, id int) (domain.Book, error)
	UpdateBook(ctx context.Context, id int, update domain.BookUpdate) (domain.Book, error)
	UpdateBookTitle(ctx context.Context, id int, title string) (domain.Book, error)
	DeleteBook(ctx context.Context, id int) error
}

// Handler agrupa todos os métodos de Handler de livros.
type Handler struct {
	Service BookService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc BookService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// bookResponse embute o livro e acrescenta a chave "message" ao lado dos
// campos da entidade, como o contrato de wire exige nas mutações.
type bookResponse struct {
	domain.Book
	Message string `json:"message"`
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		// Sucesso
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	// Tratamento de erros
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category),
			map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Status:   "error",
		Code:     status,
		Category: category,
		Message:  message,
	})
}

// bookID extrai e valida o segmento {id} da rota.
func (h *Handler) bookID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return 0, apperror.NewValidationError("O ID do livro deve ser um inteiro.")
	}
	return id, nil
}

// ListBooksHandler lida com a requisição GET /books.
// @Summary Lista todos os livros
// @Tags books
// @Produce json
// @Success 200 {array} domain.Book
// @Router /books [get]
func (h *Handler) ListBooksHandler(w http.ResponseWriter, r *http.Request) {
	books, err := h.Service.GetBooks(r.Context())
	h.handleServiceResponse(w, r, books, err, http.StatusOK)
}

// CreateBookHandler lida com a requisição POST /books.
// @Summary Adiciona um novo livro
// @Description Cria um livro com título e autor obrigatórios; ano e gênero são opcionais.
// @Tags books
// @Accept json
// @Produce json
// @Param book body domain.Book true "Dados do livro"
// @Success 201 {object} domain.Book "Livro criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido ou campos obrigatórios ausentes"
// @Router /books [post]
func (h *Handler) CreateBookHandler(w http.ResponseWriter, r *http.Request) {
	var book domain.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		h.handleServiceResponse(w, r, nil,
			apperror.NewValidationError("Erro de formato JSON: "+err.Error()), http.StatusCreated)
		return
	}

	created, err := h.Service.CreateBook(r.Context(), book)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusCreated)
		return
	}

	h.handleServiceResponse(w, r, bookResponse{Book: created, Message: "Livro adicionado com sucesso"}, nil, http.StatusCreated)
}

// GetBookByIDHandler lida com a requisição GET /books/{id}.
func (h *Handler) GetBookByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.bookID(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	book, err := h.Service.GetBookByID(r.Context(), id)
	h.handleServiceResponse(w, r, book, err, http.StatusOK)
}

// UpdateBookHandler lida com a requisição PUT /books/{id} (atualização parcial:
// apenas os campos presentes no payload são aplicados).
func (h *Handler) UpdateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.bookID(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	var update domain.BookUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.handleServiceResponse(w, r, nil,
			apperror.NewValidationError("Erro de formato JSON: "+err.Error()), http.StatusOK)
		return
	}

	updated, err := h.Service.UpdateBook(r.Context(), id, update)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, bookResponse{Book: updated, Message: "Livro atualizado com sucesso"}, nil, http.StatusOK)
}

// DeleteBookHandler lida com a requisição DELETE /books/{id}.
func (h *Handler) DeleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.bookID(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	if err := h.Service.DeleteBook(r.Context(), id); err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"message": "Livro removido com sucesso",
		"id":      id,
	}, nil, http.StatusOK)
}

// UpdateBookTitleHandler lida com a requisição PATCH /books/{id}/title,
// que altera apenas o título.
func (h *Handler) UpdateBookTitleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := h.bookID(r)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	var payload struct {
		Title *string `json:"titre"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, r, nil,
			apperror.NewValidationError("Erro de formato JSON: "+err.Error()), http.StatusOK)
		return
	}
	if payload.Title == nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("O título é obrigatório."), http.StatusOK)
		return
	}

	updated, err := h.Service.UpdateBookTitle(r.Context(), id, *payload.Title)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, bookResponse{Book: updated, Message: "Título atualizado com sucesso"}, nil, http.StatusOK)
}
