package service

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
)

// Caller описывает аутентифицированного инициатора запроса.
type Caller struct {
	ID      uuid.UUID
	Role    models.Role
	IsStaff bool
}

// Action перечисляет операции, требующие проверки прав.
type Action string

const (
	ActionOfferCreate  Action = "offer:create"
	ActionOrderCreate  Action = "order:create"
	ActionReviewCreate Action = "review:create"
	ActionOrderDelete  Action = "order:delete"
)

// rolePolicy сопоставляет операции с требуемой ролью профиля.
// Операции владения (редактирование своего оффера, профиля, отзыва)
// проверяются в сервисах отдельно, сравнением идентификаторов.
var rolePolicy = map[Action]models.Role{
	ActionOfferCreate:  models.RoleBusiness,
	ActionOrderCreate:  models.RoleCustomer,
	ActionReviewCreate: models.RoleCustomer,
}

// Authorize проверяет право вызывающего на операцию.
func Authorize(caller Caller, action Action) error {
	if action == ActionOrderDelete {
		if !caller.IsStaff {
			return apperror.ErrForbidden
		}
		return nil
	}

	required, ok := rolePolicy[action]
	if !ok {
		return nil
	}
	if caller.Role != required {
		return apperror.ErrForbidden
	}

	return nil
}

// IsOwner сообщает, совпадает ли вызывающий с владельцем ресурса.
func (c Caller) IsOwner(ownerID uuid.UUID) bool {
	return c.ID == ownerID
}
