package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/marketplace-backend/internal/models"
)

// ErrUserNotFound возвращается, когда запись пользователя не найдена.
var ErrUserNotFound = errors.New("user not found")

// ErrTokenNotFound возвращается, когда bearer токен не найден.
var ErrTokenNotFound = errors.New("token not found")

// UserRepository отвечает за работу с таблицами users, profiles и auth_tokens.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser создаёт нового пользователя.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, is_staff)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, is_staff, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Username, user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.IsStaff, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: create user %w", err)
	}

	return nil
}

// GetUserByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, password_hash, is_staff, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}

	return &user, nil
}

// GetUserByUsername возвращает пользователя по имени.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, password_hash, is_staff, created_at, updated_at
		FROM users
		WHERE username = $1
	`
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by username %w", err)
	}

	return &user, nil
}

// GetUserByEmail возвращает пользователя по email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, password_hash, is_staff, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}

	return &user, nil
}

// UpdateUserEmail обновляет email в учётной записи. Email профиля
// отдельно не хранится, наружу он отдаётся из users.
func (r *UserRepository) UpdateUserEmail(ctx context.Context, userID uuid.UUID, email string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET email = $1, updated_at = NOW() WHERE id = $2`, email, userID)
	if err != nil {
		return fmt.Errorf("user repository: update email %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("user repository: update email rows affected %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// CreateProfile создаёт профиль пользователя.
func (r *UserRepository) CreateProfile(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, type)
		VALUES ($1, $2)
		RETURNING created_at
	`

	if err := r.db.QueryRowxContext(ctx, query, profile.UserID, profile.Type).
		Scan(&profile.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create profile %w", err)
	}

	return nil
}

// GetProfile возвращает профиль вместе с username и email учётной записи.
func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	query := `
		SELECT p.user_id, u.username, u.email, p.type, p.first_name, p.last_name,
		       p.file, p.location, p.tel, p.description, p.working_hours, p.created_at
		FROM profiles p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
	`
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get profile %w", err)
	}

	return &profile, nil
}

// UpdateProfile сохраняет изменяемые поля профиля.
// Тип профиля зафиксирован при регистрации и здесь не трогается.
func (r *UserRepository) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	query := `
		UPDATE profiles
		SET first_name = $2,
		    last_name = $3,
		    file = $4,
		    location = $5,
		    tel = $6,
		    description = $7,
		    working_hours = $8
		WHERE user_id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		profile.UserID,
		profile.FirstName,
		profile.LastName,
		profile.File,
		profile.Location,
		profile.Tel,
		profile.Description,
		profile.WorkingHours,
	)
	if err != nil {
		return fmt.Errorf("user repository: update profile %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("user repository: update profile rows affected %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ListProfiles возвращает профили, опционально отфильтрованные по роли.
func (r *UserRepository) ListProfiles(ctx context.Context, role models.Role) ([]models.Profile, error) {
	query := `
		SELECT p.user_id, u.username, u.email, p.type, p.first_name, p.last_name,
		       p.file, p.location, p.tel, p.description, p.working_hours, p.created_at
		FROM profiles p
		JOIN users u ON u.id = p.user_id
	`
	args := []interface{}{}
	if role != "" {
		query += ` WHERE p.type = $1`
		args = append(args, role)
	}
	query += ` ORDER BY p.created_at DESC`

	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, args...); err != nil {
		return nil, fmt.Errorf("user repository: list profiles %w", err)
	}

	return profiles, nil
}

// GetOrCreateToken возвращает существующий bearer токен пользователя или
// сохраняет переданный новый. Токен не ротируется при повторных логинах.
func (r *UserRepository) GetOrCreateToken(ctx context.Context, userID uuid.UUID, newKey string) (string, error) {
	query := `
		INSERT INTO auth_tokens (key, user_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET key = auth_tokens.key
		RETURNING key
	`

	var key string
	if err := r.db.GetContext(ctx, &key, query, newKey, userID); err != nil {
		return "", fmt.Errorf("user repository: get or create token %w", err)
	}

	return key, nil
}

// ResolveToken возвращает пользователя и роль его профиля по bearer токену.
func (r *UserRepository) ResolveToken(ctx context.Context, key string) (*models.User, models.Role, error) {
	var row struct {
		models.User
		Type models.Role `db:"type"`
	}
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.is_staff,
		       u.created_at, u.updated_at, p.type
		FROM auth_tokens t
		JOIN users u ON u.id = t.user_id
		JOIN profiles p ON p.user_id = u.id
		WHERE t.key = $1
	`
	if err := r.db.GetContext(ctx, &row, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrTokenNotFound
		}
		return nil, "", fmt.Errorf("user repository: resolve token %w", err)
	}

	user := row.User
	return &user, row.Type, nil
}

// GetRole возвращает роль профиля пользователя.
func (r *UserRepository) GetRole(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	var role models.Role
	if err := r.db.GetContext(ctx, &role, `SELECT type FROM profiles WHERE user_id = $1`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("user repository: get role %w", err)
	}
	return role, nil
}
