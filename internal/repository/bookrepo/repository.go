package bookrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/logger"
)

// bookFile é o documento JSON persistido: um único objeto com a chave "books"
// contendo a coleção inteira.
type bookFile struct {
	Books []domain.Book `json:"books"`
}

// BookRepository mantém a coleção de livros em memória e a persiste em um
// arquivo JSON, reescrito por inteiro após cada mutação.
//
// As leituras podem rodar em paralelo entre si; as mutações (incluindo a
// gravação do arquivo) são serializadas pelo RWMutex.
type BookRepository struct {
	mu     sync.RWMutex
	path   string
	books  []domain.Book
	nextID int
	logger logger.Logger
}

// NewBookRepository cria o repositório e carrega o arquivo de persistência.
// Se o arquivo não existir, o acervo começa com três livros padrão; se o
// arquivo existir mas estiver corrompido, o erro é registrado e o acervo
// padrão é mantido — a inicialização nunca é fatal.
func NewBookRepository(path string, log logger.Logger) *BookRepository {
	r := &BookRepository{
		path:   path,
		logger: log,
		books: []domain.Book{
			{ID: 1, Title: "Le Petit Prince", Author: "Antoine de Saint-Exupéry", Year: 1943, Genre: "Fiction"},
			{ID: 2, Title: "L'Étranger", Author: "Albert Camus", Year: 1942, Genre: "Philosophie"},
			{ID: 3, Title: "Les Misérables", Author: "Victor Hugo", Year: 1862, Genre: "Roman historique"},
		},
		nextID: 4,
	}
	r.load()
	return r
}

// load lê o arquivo inteiro e substitui a coleção em memória, recalculando o
// contador de IDs como (maior ID existente)+1.
func (r *BookRepository) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Error("Falha ao ler o arquivo de livros.", err)
		}
		return
	}

	var file bookFile
	if err := json.Unmarshal(data, &file); err != nil {
		r.logger.Error("Erro ao carregar os livros: arquivo inválido.", err)
		return
	}

	r.books = file.Books
	r.nextID = 1
	for _, book := range r.books {
		if book.ID >= r.nextID {
			r.nextID = book.ID + 1
		}
	}
}

// persist serializa a coleção inteira e sobrescreve o arquivo. A escrita é
// feita em um arquivo temporário renomeado por cima do destino, para que um
// leitor externo nunca veja um documento parcial.
//
// Deve ser chamado com o lock de escrita já adquirido.
func (r *BookRepository) persist() error {
	data, err := json.MarshalIndent(bookFile{Books: r.books}, "", "    ")
	if err != nil {
		return apperror.NewPersistenceError("falha ao serializar os livros", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperror.NewPersistenceError("falha ao gravar o arquivo de livros", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return apperror.NewPersistenceError("falha ao substituir o arquivo de livros", err)
	}
	return nil
}

// warnPersist registra a falha de persistência sem desfazer a mutação em
// memória: a decisão de ignorar o erro é explícita aqui, não escondida.
func (r *BookRepository) warnPersist(err error) {
	if err != nil {
		r.logger.Warn("Persistência dos livros falhou; coleção em memória segue válida.", map[string]interface{}{
			"file":  r.path,
			"error": err.Error(),
		})
	}
}

// Create atribui o próximo ID livre ao livro, o acrescenta à coleção e
// persiste. O ID 0 é reservado para "não criado".
func (r *BookRepository) Create(ctx context.Context, book domain.Book) (domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book.ID = r.nextID
	r.nextID++
	r.books = append(r.books, book)

	r.warnPersist(r.persist())
	return book, nil
}

// FindAll retorna uma cópia defensiva da coleção.
func (r *BookRepository) FindAll(ctx context.Context) ([]domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]domain.Book, len(r.books))
	copy(books, r.books)
	return books, nil
}

// FindByID retorna o livro com o ID informado.
func (r *BookRepository) FindByID(ctx context.Context, id int) (domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, book := range r.books {
		if book.ID == id {
			return book, nil
		}
	}
	return domain.Book{}, apperror.NewNotFoundError(fmt.Sprintf("Livro com ID %d não encontrado.", id))
}

// Update aplica apenas os campos presentes no payload parcial, deixando os
// demais intactos, e persiste. O ID nunca é alterado.
func (r *BookRepository) Update(ctx context.Context, id int, update domain.BookUpdate) (domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.books {
		if r.books[i].ID != id {
			continue
		}
		if update.Title != nil {
			r.books[i].Title = *update.Title
		}
		if update.Author != nil {
			r.books[i].Author = *update.Author
		}
		if update.Year != nil {
			r.books[i].Year = *update.Year
		}
		if update.Genre != nil {
			r.books[i].Genre = *update.Genre
		}

		r.warnPersist(r.persist())
		return r.books[i], nil
	}
	return domain.Book{}, apperror.NewNotFoundError(fmt.Sprintf("Livro com ID %d não encontrado.", id))
}

// Delete remove o livro com o ID informado e persiste.
func (r *BookRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.books {
		if r.books[i].ID == id {
			r.books = append(r.books[:i], r.books[i+1:]...)
			r.warnPersist(r.persist())
			return nil
		}
	}
	return apperror.NewNotFoundError(fmt.Sprintf("Livro com ID %d não encontrado.", id))
}
