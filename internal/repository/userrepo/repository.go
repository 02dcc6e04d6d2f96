package userrepo

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

// userRecord é a representação persistida do usuário. Diferente de
// domain.User, inclui o hash da senha — que nunca sai nas respostas da API.
type userRecord struct {
	ID           int    `json:"id"`
	Name         string `json:"nom"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	CreatedAt    string `json:"date_creation"`
}

// userFile é o documento JSON persistido: um único objeto com a chave "users".
type userFile struct {
	Users []userRecord `json:"users"`
}

func toRecord(u domain.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

func toDomain(rec userRecord) domain.User {
	return domain.User{
		ID:           rec.ID,
		Name:         rec.Name,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Role:         domain.UserRole(rec.Role),
		CreatedAt:    rec.CreatedAt,
	}
}

// UserRepository mantém a coleção de usuários em memória e a persiste em um
// arquivo JSON, reescrito por inteiro após cada mutação. Mesma disciplina de
// locking do repositório de livros: leituras concorrentes, mutações exclusivas.
type UserRepository struct {
	mu     sync.RWMutex
	path   string
	users  []userRecord
	nextID int
	logger logger.Logger
}

// NewUserRepository cria o repositório e carrega o arquivo de persistência.
// Arquivo ausente ou corrompido nunca é fatal: o repositório começa vazio e
// o erro de parse é apenas registrado.
func NewUserRepository(path string, log logger.Logger) *UserRepository {
	r := &UserRepository{
		path:   path,
		nextID: 1,
		logger: log,
	}
	r.load()
	return r
}

func (r *UserRepository) load() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Error("Falha ao ler o arquivo de usuários.", err)
		}
		return
	}

	var file userFile
	if err := json.Unmarshal(data, &file); err != nil {
		r.logger.Error("Erro ao carregar os usuários: arquivo inválido.", err)
		return
	}

	r.users = file.Users
	r.nextID = 1
	for _, user := range r.users {
		if user.ID >= r.nextID {
			r.nextID = user.ID + 1
		}
	}
}

// persist serializa a coleção inteira e sobrescreve o arquivo (escrita em
// temporário + rename). Deve ser chamado com o lock de escrita adquirido.
func (r *UserRepository) persist() error {
	data, err := json.MarshalIndent(userFile{Users: r.users}, "", "    ")
	if err != nil {
		return apperror.NewPersistenceError("falha ao serializar os usuários", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return apperror.NewPersistenceError("falha ao gravar o arquivo de usuários", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return apperror.NewPersistenceError("falha ao substituir o arquivo de usuários", err)
	}
	return nil
}

func (r *UserRepository) warnPersist(err error) {
	if err != nil {
		r.logger.Warn("Persistência dos usuários falhou; coleção em memória segue válida.", map[string]interface{}{
			"file":  r.path,
			"error": err.Error(),
		})
	}
}

// Save insere um novo usuário, garantindo a unicidade do e-mail e atribuindo
// o próximo ID livre. Retorna ConflictError quando o e-mail já está em uso.
func (r *UserRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.User{}, apperror.NewConflictError(
				fmt.Sprintf("O e-mail '%s' já está em uso.", user.Email),
			)
		}
	}

	user.ID = r.nextID
	r.nextID++
	r.users = append(r.users, toRecord(user))

	r.warnPersist(r.persist())
	return user, nil
}

// FindAll retorna cópias de todos os usuários com o hash de senha limpo.
// Nenhum chamador de FindAll recebe material de credencial.
func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, 0, len(r.users))
	for _, rec := range r.users {
		user := toDomain(rec)
		user.PasswordHash = ""
		users = append(users, user)
	}
	return users, nil
}

// FindByID retorna o usuário com o ID informado, sem o hash de senha.
func (r *UserRepository) FindByID(ctx context.Context, id int) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.users {
		if rec.ID == id {
			user := toDomain(rec)
			user.PasswordHash = ""
			return user, nil
		}
	}
	return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com ID %d não encontrado.", id))
}

// FindByEmail retorna o usuário com o e-mail informado, INCLUINDO o hash de
// senha. Uso restrito ao fluxo de login, que precisa comparar credenciais.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.users {
		if rec.Email == email {
			return toDomain(rec), nil
		}
	}
	return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com e-mail '%s' não encontrado.", email))
}
