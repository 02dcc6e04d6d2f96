package bookservice_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/service/bookservice"
)

// MockBookRepository é uma implementação mock da interface BookRepository
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) Create(ctx context.Context, book domain.Book) (domain.Book, error) {
	args := m.Called(ctx, book)
	return args.Get(0).(domain.Book), args.Error(1)
}

func (m *MockBookRepository) FindAll(ctx context.Context) ([]domain.Book, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *MockBookRepository) FindByID(ctx context.Context, id int) (domain.Book, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Book), args.Error(1)
}

func (m *MockBookRepository) Update(ctx context.Context, id int, update domain.BookUpdate) (domain.Book, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(domain.Book), args.Error(1)
}

func (m *MockBookRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestLogger() logger.Logger {
	return logger.NewLogger("error")
}

func TestCreateBook_Success(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := bookservice.NewService(mockRepo, newTestLogger())

	input := domain.Book{Title: "Candide", Author: "Voltaire", Year: 1759}
	created := input
	created.ID = 1

	mockRepo.On("Create", mock.Anything, input).Return(created, nil)

	result, err := svc.CreateBook(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, 1, result.ID)
	assert.Equal(t, "Candide", result.Title)
	mockRepo.AssertExpectations(t)
}

func TestCreateBook_Fail_MissingRequiredFields(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := bookservice.NewService(mockRepo, newTestLogger())

	cases := []domain.Book{
		{Author: "Sem Título"},
		{Title: "Sem Autor"},
		{},
	}

	for _, book := range cases {
		_, err := svc.CreateBook(context.Background(), book)
		assert.Error(t, err)
		assert.IsType(t, &apperror.ValidationError{}, err)
	}

	// O repositório nunca deve ser chamado quando a validação falha.
	mockRepo.AssertNotCalled(t, "Create")
}

func TestGetBookByID_Fail_NotFound(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := bookservice.NewService(mockRepo, newTestLogger())

	notFound := apperror.NewNotFoundError("Livro com ID 9 não encontrado.")
	mockRepo.On("FindByID", mock.Anything, 9).Return(domain.Book{}, notFound)

	_, err := svc.GetBookByID(context.Background(), 9)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertExpectations(t)
}

func TestUpdateBook_PassesPartialPayloadThrough(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := bookservice.NewService(mockRepo, newTestLogger())

	year := 1862
	update := domain.BookUpdate{Year: &year}
	updated := domain.Book{ID: 3, Title: "Les Misérables", Author: "Victor Hugo", Year: 1862}

	mockRepo.On("Update", mock.Anything, 3, update).Return(updated, nil)

	result, err := svc.UpdateBook(context.Background(), 3, update)

	assert.NoError(t, err)
	assert.Equal(t, updated, result)
	mockRepo.AssertExpectations(t)
}

func TestUpdateBookTitle_Fail_EmptyTitle(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := bookservice.NewService(mockRepo, newTestLogger())

	_, err := svc.UpdateBookTitle(context.Background(), 1, "")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestUpdateBookTitle_Success(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := bookservice.NewService(mockRepo, newTestLogger())

	updated := domain.Book{ID: 2, Title: "Novo Título", Author: "Albert Camus", Year: 1942}
	mockRepo.On("Update", mock.Anything, 2, mock.MatchedBy(func(u domain.BookUpdate) bool {
		return u.Title != nil && *u.Title == "Novo Título" && u.Author == nil && u.Year == nil && u.Genre == nil
	})).Return(updated, nil)

	result, err := svc.UpdateBookTitle(context.Background(), 2, "Novo Título")

	assert.NoError(t, err)
	assert.Equal(t, "Novo Título", result.Title)
	mockRepo.AssertExpectations(t)
}

func TestDeleteBook_Fail_NotFound(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := bookservice.NewService(mockRepo, newTestLogger())

	notFound := apperror.NewNotFoundError("Livro com ID 7 não encontrado.")
	mockRepo.On("Delete", mock.Anything, 7).Return(notFound)

	err := svc.DeleteBook(context.Background(), 7)

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertExpectations(t)
}

func TestGetBooks_Success(t *testing.T) {
	mockRepo := new(MockBookRepository)
	svc := bookservice.NewService(mockRepo, newTestLogger())

	expected := []domain.Book{
		{ID: 1, Title: "Livro A", Author: "Autor A"},
		{ID: 2, Title: "Livro B", Author: "Autor B"},
	}
	mockRepo.On("FindAll", mock.Anything).Return(expected, nil)

	books, err := svc.GetBooks(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expected, books)
	mockRepo.AssertExpectations(t)
}
