package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
)

func TestAuthorize(t *testing.T) {
	customer := Caller{ID: uuid.New(), Role: models.RoleCustomer}
	business := Caller{ID: uuid.New(), Role: models.RoleBusiness}
	staff := Caller{ID: uuid.New(), Role: models.RoleCustomer, IsStaff: true}

	assert.NoError(t, Authorize(business, ActionOfferCreate))
	assert.ErrorIs(t, Authorize(customer, ActionOfferCreate), apperror.ErrForbidden)

	assert.NoError(t, Authorize(customer, ActionOrderCreate))
	assert.ErrorIs(t, Authorize(business, ActionOrderCreate), apperror.ErrForbidden)

	assert.NoError(t, Authorize(customer, ActionReviewCreate))
	assert.ErrorIs(t, Authorize(business, ActionReviewCreate), apperror.ErrForbidden)

	// Удаление заказов доступно только staff, роль профиля не важна.
	assert.NoError(t, Authorize(staff, ActionOrderDelete))
	assert.ErrorIs(t, Authorize(customer, ActionOrderDelete), apperror.ErrForbidden)
	assert.ErrorIs(t, Authorize(business, ActionOrderDelete), apperror.ErrForbidden)
}

func TestCallerIsOwner(t *testing.T) {
	id := uuid.New()
	caller := Caller{ID: id}

	assert.True(t, caller.IsOwner(id))
	assert.False(t, caller.IsOwner(uuid.New()))
}
