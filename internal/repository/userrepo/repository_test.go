package userrepo_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobiblio/internal/domain"
	apperror "gobiblio/internal/errors"
	"gobiblio/internal/pkg/logger"
	"gobiblio/internal/repository/userrepo"
)

func newTestLogger() logger.Logger {
	return logger.NewLogger("error")
}

func newStore(t *testing.T) (*userrepo.UserRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	return userrepo.NewUserRepository(path, newTestLogger()), path
}

func sampleUser(email string) domain.User {
	return domain.User{
		Name:         "Marie Dupont",
		Email:        email,
		PasswordHash: "$2a$10$hash-fictício-para-teste",
		Role:         domain.RoleUser,
		CreatedAt:    "2024-01-01 12:00:00",
	}
}

func TestSave_AssignsSequentialIDs(t *testing.T) {
	repo, _ := newStore(t)
	ctx := context.Background()

	u1, err := repo.Save(ctx, sampleUser("um@example.com"))
	require.NoError(t, err)
	u2, err := repo.Save(ctx, sampleUser("dois@example.com"))
	require.NoError(t, err)

	assert.Equal(t, 1, u1.ID)
	assert.Equal(t, 2, u2.ID)
}

func TestSave_DuplicateEmailConflicts(t *testing.T) {
	repo, _ := newStore(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, sampleUser("mesmo@example.com"))
	require.NoError(t, err)

	_, err = repo.Save(ctx, sampleUser("mesmo@example.com"))
	assert.Error(t, err)
	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestFindAll_NeverExposesPasswordHash(t *testing.T) {
	repo, _ := newStore(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, sampleUser("a@example.com"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, sampleUser("b@example.com"))
	require.NoError(t, err)

	users, err := repo.FindAll(ctx)
	assert.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.PasswordHash)
	}
}

func TestFindByEmail_ReturnsHashForLogin(t *testing.T) {
	repo, _ := newStore(t)
	ctx := context.Background()

	_, err := repo.Save(ctx, sampleUser("login@example.com"))
	require.NoError(t, err)

	user, err := repo.FindByEmail(ctx, "login@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "$2a$10$hash-fictício-para-teste", user.PasswordHash)

	_, err = repo.FindByEmail(ctx, "inexistente@example.com")
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestFindByID(t *testing.T) {
	repo, _ := newStore(t)
	ctx := context.Background()

	saved, err := repo.Save(ctx, sampleUser("id@example.com"))
	require.NoError(t, err)

	user, err := repo.FindByID(ctx, saved.ID)
	assert.NoError(t, err)
	assert.Equal(t, "id@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	_, err = repo.FindByID(ctx, 999)
	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestPersistence_RoundTripAndNextID(t *testing.T) {
	repo, path := newStore(t)
	ctx := context.Background()

	u1, err := repo.Save(ctx, sampleUser("rt1@example.com"))
	require.NoError(t, err)
	u2, err := repo.Save(ctx, sampleUser("rt2@example.com"))
	require.NoError(t, err)

	reloaded := userrepo.NewUserRepository(path, newTestLogger())

	// A coleção recarregada é equivalente (o hash volta no FindByEmail).
	found, err := reloaded.FindByEmail(ctx, u1.Email)
	assert.NoError(t, err)
	assert.Equal(t, u1.ID, found.ID)
	assert.Equal(t, u1.PasswordHash, found.PasswordHash)
	assert.Equal(t, u1.CreatedAt, found.CreatedAt)

	// O contador continua depois do maior ID persistido.
	u3, err := reloaded.Save(ctx, sampleUser("rt3@example.com"))
	assert.NoError(t, err)
	assert.Equal(t, u2.ID+1, u3.ID)
}

func TestPersistedFileFormat(t *testing.T) {
	repo, path := newStore(t)

	_, err := repo.Save(context.Background(), sampleUser("format@example.com"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Documento com a chave "users"; o arquivo guarda o password_hash,
	// ao contrário das respostas da API.
	var doc map[string][]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc["users"], 1)

	entry := doc["users"][0]
	assert.Equal(t, "Marie Dupont", entry["nom"])
	assert.Equal(t, "format@example.com", entry["email"])
	assert.Equal(t, "$2a$10$hash-fictício-para-teste", entry["password_hash"])
	assert.Equal(t, "user", entry["role"])
	assert.Equal(t, "2024-01-01 12:00:00", entry["date_creation"])
}

func TestLoad_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("não é json"), 0o600))

	repo := userrepo.NewUserRepository(path, newTestLogger())
	users, err := repo.FindAll(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, users)
}
