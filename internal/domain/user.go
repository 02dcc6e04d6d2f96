package domain

// User representa a entidade do usuário no sistema.
// O hash da senha nunca aparece nas respostas da API (tag json:"-");
// a persistência em arquivo usa um registro próprio no repositório.
type User struct {
	ID           int      `json:"id"`
	Name         string   `json:"nom"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	CreatedAt    string   `json:"date_creation"` // formato "2006-01-02 15:04:05", hora local
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

// Constantes para os papéis de usuário
const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// CreatedAtLayout é o layout de time.Format usado em date_creation.
const CreatedAtLayout = "2006-01-02 15:04:05"

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	Name     string `json:"nom"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // opcional; padrão "user"
}
