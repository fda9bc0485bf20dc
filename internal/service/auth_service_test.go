package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository"
)

// mockAuthRepository реализует AuthRepository для тестов.
type mockAuthRepository struct {
	usersByName  map[string]*models.User
	usersByEmail map[string]*models.User
	profiles     map[uuid.UUID]*models.Profile
	tokensByUser map[uuid.UUID]string
	usersByToken map[string]*models.User
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByName:  make(map[string]*models.User),
		usersByEmail: make(map[string]*models.User),
		profiles:     make(map[uuid.UUID]*models.Profile),
		tokensByUser: make(map[uuid.UUID]string),
		usersByToken: make(map[string]*models.User),
	}
}

func (m *mockAuthRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.usersByName[user.Username] = user
	m.usersByEmail[user.Email] = user
	return nil
}

func (m *mockAuthRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if user, ok := m.usersByName[username]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	profile.CreatedAt = time.Now()
	m.profiles[profile.UserID] = profile
	return nil
}

func (m *mockAuthRepository) GetOrCreateToken(ctx context.Context, userID uuid.UUID, newKey string) (string, error) {
	if key, ok := m.tokensByUser[userID]; ok {
		return key, nil
	}
	m.tokensByUser[userID] = newKey
	for _, user := range m.usersByName {
		if user.ID == userID {
			m.usersByToken[newKey] = user
		}
	}
	return newKey, nil
}

func (m *mockAuthRepository) ResolveToken(ctx context.Context, key string) (*models.User, models.Role, error) {
	user, ok := m.usersByToken[key]
	if !ok {
		return nil, "", repository.ErrTokenNotFound
	}
	return user, m.profiles[user.ID].Type, nil
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Username:         "ivan_petrov",
		Email:            "ivan@example.com",
		Password:         "strongpass",
		RepeatedPassword: "strongpass",
		Type:             "customer",
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newMockAuthRepository()
	auth := NewAuthService(repo)
	ctx := context.Background()

	registered, err := auth.Register(ctx, validRegisterInput())
	assert.NoError(t, err)
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "ivan_petrov", registered.Username)
	assert.Equal(t, "ivan@example.com", registered.Email)

	// Логин тем же паролем возвращает тот же токен, без ротации.
	loggedIn, err := auth.Login(ctx, LoginInput{Username: "ivan_petrov", Password: "strongpass"})
	assert.NoError(t, err)
	assert.Equal(t, registered.Token, loggedIn.Token)
	assert.Equal(t, registered.UserID, loggedIn.UserID)
}

func TestAuthService_RegisterPasswordMismatch(t *testing.T) {
	repo := newMockAuthRepository()
	auth := NewAuthService(repo)

	in := validRegisterInput()
	in.RepeatedPassword = "otherpass99"

	_, err := auth.Register(context.Background(), in)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, repo.usersByName)
}

func TestAuthService_RegisterUsernameTaken(t *testing.T) {
	repo := newMockAuthRepository()
	auth := NewAuthService(repo)
	ctx := context.Background()

	_, err := auth.Register(ctx, validRegisterInput())
	assert.NoError(t, err)

	in := validRegisterInput()
	in.Email = "other@example.com"
	_, err = auth.Register(ctx, in)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_RegisterEmailTaken(t *testing.T) {
	repo := newMockAuthRepository()
	auth := NewAuthService(repo)
	ctx := context.Background()

	_, err := auth.Register(ctx, validRegisterInput())
	assert.NoError(t, err)

	in := validRegisterInput()
	in.Username = "another_user"
	_, err = auth.Register(ctx, in)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_RegisterInvalidRole(t *testing.T) {
	repo := newMockAuthRepository()
	auth := NewAuthService(repo)

	in := validRegisterInput()
	in.Type = "admin"

	_, err := auth.Register(context.Background(), in)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_LoginWrongCredentials(t *testing.T) {
	repo := newMockAuthRepository()
	auth := NewAuthService(repo)
	ctx := context.Background()

	_, err := auth.Register(ctx, validRegisterInput())
	assert.NoError(t, err)

	// Неизвестное имя и неверный пароль дают одинаковый ответ.
	_, errUnknown := auth.Login(ctx, LoginInput{Username: "no_such_user", Password: "strongpass"})
	_, errWrongPass := auth.Login(ctx, LoginInput{Username: "ivan_petrov", Password: "wrongpass1"})

	assert.ErrorIs(t, errUnknown, apperror.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, apperror.ErrInvalidCredentials)
}

func TestAuthService_Authenticate(t *testing.T) {
	repo := newMockAuthRepository()
	auth := NewAuthService(repo)
	ctx := context.Background()

	in := validRegisterInput()
	in.Type = "business"
	registered, err := auth.Register(ctx, in)
	assert.NoError(t, err)

	caller, err := auth.Authenticate(ctx, registered.Token)
	assert.NoError(t, err)
	assert.Equal(t, registered.UserID, caller.ID)
	assert.Equal(t, models.RoleBusiness, caller.Role)

	_, err = auth.Authenticate(ctx, "0000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	_, err = auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}
