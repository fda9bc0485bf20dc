package models

import (
	"time"

	"github.com/google/uuid"
)

// Role определяет тип профиля пользователя. Значение фиксируется при
// регистрации и больше не меняется.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleBusiness Role = "business"
)

// ValidRole проверяет, что строка является допустимой ролью.
func ValidRole(v string) bool {
	switch Role(v) {
	case RoleCustomer, RoleBusiness:
		return true
	}
	return false
}

// User описывает учётную запись пользователя платформы.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsStaff      bool      `db:"is_staff" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Profile описывает профиль, связанный с учётной записью один к одному.
// Контактные поля опциональны и хранятся как NULL.
type Profile struct {
	UserID       uuid.UUID `db:"user_id" json:"user"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"-"`
	Type         Role      `db:"type" json:"type"`
	FirstName    *string   `db:"first_name" json:"first_name"`
	LastName     *string   `db:"last_name" json:"last_name"`
	File         *string   `db:"file" json:"file"`
	Location     *string   `db:"location" json:"location"`
	Tel          *string   `db:"tel" json:"tel"`
	Description  *string   `db:"description" json:"description"`
	WorkingHours *string   `db:"working_hours" json:"working_hours"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// AuthToken хранит выданный пользователю bearer токен. Токен один на
// пользователя и переиспользуется при каждом логине.
type AuthToken struct {
	Key       string    `db:"key" json:"key"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
