package userservice

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/pkg/validator"
)

// UserRepository define o contrato que este Serviço espera da camada de
// Persistência.
type UserRepository interface {
	Save(ctx context.Context, user domain.User) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(user domain.User) (string, error)
}

// UserService implementa o registro, a listagem e o login de usuários.
type UserService struct {
	repo     UserRepository
	tokenSvc TokenService
	logger   logger.Logger
}

// NewService cria uma nova instância do UserService, injetando o Repositório
// e o serviço de tokens.
func NewService(repo UserRepository, tokenSvc TokenService, log logger.Logger) *UserService {
	return &UserService{
		repo:     repo,
		tokenSvc: tokenSvc,
		logger:   log,
	}
}

// Register registra um novo usuário no sistema: valida os campos, faz o
// hashing da senha com bcrypt e persiste. O hash nunca retorna ao chamador.
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	// 1. Campos obrigatórios
	if registration.Name == "" || registration.Email == "" || registration.Password == "" {
		return domain.User{}, apperror.NewValidationError("O nome, o e-mail e a senha são obrigatórios.")
	}

	// 2. Formato do e-mail
	if !validator.IsValidEmail(registration.Email) {
		return domain.User{}, apperror.NewValidationError("Formato de e-mail inválido.")
	}

	// 3. Força da senha
	if !validator.IsStrongPassword(registration.Password) {
		return domain.User{}, apperror.NewValidationError(
			"A senha deve conter pelo menos 8 caracteres, uma maiúscula, uma minúscula e um dígito.",
		)
	}

	// 4. Hashing da senha
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	role := domain.UserRole(registration.Role)
	if role == "" {
		role = domain.RoleUser
	}

	newUser := domain.User{
		Name:         registration.Name,
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    time.Now().Format(domain.CreatedAtLayout),
	}

	// 5. Persistência (o repositório garante a unicidade do e-mail)
	user, err := s.repo.Save(ctx, newUser)
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID, "email": user.Email})

	// Cópia segura para a resposta, sem o hash.
	user.PasswordHash = ""
	return user, nil
}

// GetUsers retorna todos os usuários, sempre sem o hash de senha.
func (s *UserService) GetUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

// Login autentica um usuário e emite um JWT. Email desconhecido e senha
// incorreta produzem exatamente o mesmo erro, para não revelar qual parte
// da credencial falhou.
func (s *UserService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	if email == "" || password == "" {
		return "", domain.User{}, apperror.NewValidationError("O e-mail e a senha são obrigatórios.")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		var notFound *apperror.NotFoundError
		if errors.As(err, &notFound) {
			return "", domain.User{}, apperror.NewUnauthorizedError("E-mail ou senha incorretos.")
		}
		return "", domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, apperror.NewUnauthorizedError("E-mail ou senha incorretos.")
	}

	tokenString, err := s.tokenSvc.GenerateToken(user)
	if err != nil {
		return "", domain.User{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Login efetuado.", map[string]interface{}{"user_id": user.ID})

	user.PasswordHash = ""
	return tokenString, user, nil
}
