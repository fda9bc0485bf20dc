package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository"
	"github.com/ignatzorin/marketplace-backend/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateProfile(ctx context.Context, profile *models.Profile) error
	GetOrCreateToken(ctx context.Context, userID uuid.UUID, newKey string) (string, error)
	ResolveToken(ctx context.Context, key string) (*models.User, models.Role, error)
}

// AuthService инкапсулирует регистрацию, вход и проверку bearer токенов.
type AuthService struct {
	repo AuthRepository
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Username         string
	Email            string
	Password         string
	RepeatedPassword string
	Type             string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Username string
	Password string
}

// AuthResult возвращает итог регистрации или входа.
type AuthResult struct {
	Token    string
	Username string
	Email    string
	UserID   uuid.UUID
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

// Register создаёт пользователя с профилем выбранного типа и выдаёт токен.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}
	if in.Password != in.RepeatedPassword {
		return nil, apperror.Validation("пароли не совпадают")
	}
	if !models.ValidRole(in.Type) {
		return nil, apperror.Validation("тип профиля должен быть customer или business")
	}

	if _, err := s.repo.GetUserByUsername(ctx, in.Username); err == nil {
		return nil, apperror.Validation("это имя пользователя уже занято")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if _, err := s.repo.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, apperror.Validation("этот email уже зарегистрирован")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(passHash),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	profile := &models.Profile{
		UserID: user.ID,
		Type:   models.Role(in.Type),
	}

	if err := s.repo.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		UserID:   user.ID,
	}, nil
}

// Login проверяет учётные данные и возвращает существующий токен
// пользователя. Причина отказа в ответе не раскрывается.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.repo.GetUserByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		UserID:   user.ID,
	}, nil
}

// Authenticate проверяет bearer токен и возвращает вызывающего.
func (s *AuthService) Authenticate(ctx context.Context, key string) (*Caller, error) {
	if key == "" {
		return nil, apperror.ErrUnauthorized
	}

	user, role, err := s.repo.ResolveToken(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth service: %w", err)
	}

	return &Caller{
		ID:      user.ID,
		Role:    role,
		IsStaff: user.IsStaff,
	}, nil
}

// issueToken возвращает действующий токен пользователя, создавая новый
// только при первом обращении.
func (s *AuthService) issueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	key, err := generateTokenKey()
	if err != nil {
		return "", err
	}

	token, err := s.repo.GetOrCreateToken(ctx, userID, key)
	if err != nil {
		return "", fmt.Errorf("auth service: %w", err)
	}

	return token, nil
}

// generateTokenKey формирует случайный 40-символьный hex ключ.
func generateTokenKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth service: не удалось сгенерировать токен: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
