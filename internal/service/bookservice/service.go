package bookservice

import (
	"context"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/logger"
)

// BookRepository define o contrato (interface) que este Serviço espera da
// camada de Persistência.
type BookRepository interface {
	Create(ctx context.Context, book domain.Book) (domain.Book, error)
	FindAll(ctx context.Context) ([]domain.Book, error)
	FindByID(ctx context.Context, id int) (domain.Book, error)
	Update(ctx context.Context, id int, update domain.BookUpdate) (domain.Book, error)
	Delete(ctx context.Context, id int) error
}

// Service é a camada de regras de negócio dos livros.
type Service struct {
	repo   BookRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Livros.
func NewService(repo BookRepository, log logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// CreateBook valida os campos obrigatórios e delega a criação ao repositório.
// Ano e gênero são opcionais (zero e vazio por padrão).
func (s *Service) CreateBook(ctx context.Context, book domain.Book) (domain.Book, error) {
	if book.Title == "" || book.Author == "" {
		return domain.Book{}, apperror.NewValidationError("O título e o autor são obrigatórios.")
	}

	created, err := s.repo.Create(ctx, book)
	if err != nil {
		return domain.Book{}, err
	}

	s.logger.Info("Livro criado.", map[string]interface{}{"book_id": created.ID, "titre": created.Title})
	return created, nil
}

// GetBooks retorna todos os livros do acervo.
func (s *Service) GetBooks(ctx context.Context) ([]domain.Book, error) {
	return s.repo.FindAll(ctx)
}

// GetBookByID retorna o livro com o ID informado.
func (s *Service) GetBookByID(ctx context.Context, id int) (domain.Book, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateBook aplica uma atualização parcial ao livro: apenas os campos
// presentes no payload são alterados.
func (s *Service) UpdateBook(ctx context.Context, id int, update domain.BookUpdate) (domain.Book, error) {
	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		return domain.Book{}, err
	}

	s.logger.Info("Livro atualizado.", map[string]interface{}{"book_id": id})
	return updated, nil
}

// UpdateBookTitle altera apenas o título do livro.
func (s *Service) UpdateBookTitle(ctx context.Context, id int, title string) (domain.Book, error) {
	if title == "" {
		return domain.Book{}, apperror.NewValidationError("O título é obrigatório.")
	}
	return s.UpdateBook(ctx, id, domain.BookUpdate{Title: &title})
}

// DeleteBook remove o livro com o ID informado.
func (s *Service) DeleteBook(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Livro removido.", map[string]interface{}{"book_id": id})
	return nil
}
