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

// mockOrderRepository реализует OrderRepository для тестов.
type mockOrderRepository struct {
	orders map[uuid.UUID]*models.Order
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[uuid.UUID]*models.Order)}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	order.ID = uuid.New()
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *mockOrderRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var result []models.Order
	for _, o := range m.orders {
		if o.CustomerUserID == userID || o.BusinessUserID == userID {
			result = append(result, *o)
		}
	}
	return result, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	return nil
}

func (m *mockOrderRepository) CountByBusinessAndStatus(ctx context.Context, businessUserID uuid.UUID, status models.OrderStatus) (int, error) {
	count := 0
	for _, o := range m.orders {
		if o.BusinessUserID == businessUserID && o.Status == status {
			count++
		}
	}
	return count, nil
}

// mockRoleRepository реализует OrderRoleRepository и ReviewRoleRepository.
type mockRoleRepository struct {
	roles map[uuid.UUID]models.Role
}

func newMockRoleRepository() *mockRoleRepository {
	return &mockRoleRepository{roles: make(map[uuid.UUID]models.Role)}
}

func (m *mockRoleRepository) GetRole(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	role, ok := m.roles[userID]
	if !ok {
		return "", repository.ErrUserNotFound
	}
	return role, nil
}

// orderFixture собирает сервис заказов поверх моков с одним оффером
// business пользователя.
type orderFixture struct {
	svc      *OrderService
	orders   *mockOrderRepository
	roles    *mockRoleRepository
	business Caller
	customer Caller
	detailID uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	offerRepo := newMockOfferRepository()
	offerSvc := NewOfferService(offerRepo)
	business := businessCaller()

	offer, err := offerSvc.Create(context.Background(), business, OfferCreateInput{
		Title:   "Дизайн логотипа",
		Details: threeTiers(),
	})
	if err != nil {
		t.Fatalf("не удалось подготовить оффер: %v", err)
	}

	orders := newMockOrderRepository()
	roles := newMockRoleRepository()
	roles.roles[business.ID] = models.RoleBusiness

	customer := Caller{ID: uuid.New(), Role: models.RoleCustomer}
	roles.roles[customer.ID] = models.RoleCustomer

	return &orderFixture{
		svc:      NewOrderService(orders, offerRepo, roles),
		orders:   orders,
		roles:    roles,
		business: business,
		customer: customer,
		detailID: offerRepo.details[offer.ID][0].ID,
	}
}

func TestOrderService_Create(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.customer, f.detailID)
	assert.NoError(t, err)
	assert.Equal(t, f.customer.ID, order.CustomerUserID)
	// Business сторона берётся из владельца оффера.
	assert.Equal(t, f.business.ID, order.BusinessUserID)
	assert.Equal(t, models.OrderStatusInProgress, order.Status)
}

func TestOrderService_CreateRequiresCustomer(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Create(context.Background(), f.business, f.detailID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestOrderService_CreateUnknownDetail(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Create(context.Background(), f.customer, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrOfferDetailNotFound)
}

func TestOrderService_ListOnlyParties(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.customer, f.detailID)
	assert.NoError(t, err)

	mine, err := f.svc.List(ctx, f.customer)
	assert.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := f.svc.List(ctx, f.business)
	assert.NoError(t, err)
	assert.Len(t, theirs, 1)

	stranger := Caller{ID: uuid.New(), Role: models.RoleBusiness}
	none, err := f.svc.List(ctx, stranger)
	assert.NoError(t, err)
	assert.Empty(t, none)
}

func TestOrderService_GetParticipantsOnly(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.customer, f.detailID)
	assert.NoError(t, err)

	_, err = f.svc.Get(ctx, f.customer, order.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, f.business, order.ID)
	assert.NoError(t, err)

	stranger := Caller{ID: uuid.New(), Role: models.RoleCustomer}
	_, err = f.svc.Get(ctx, stranger, order.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	staff := Caller{ID: uuid.New(), Role: models.RoleCustomer, IsStaff: true}
	_, err = f.svc.Get(ctx, staff, order.ID)
	assert.NoError(t, err)
}

func TestOrderService_GetNotFoundBeforeForbidden(t *testing.T) {
	f := newOrderFixture(t)

	// Для несуществующего заказа отвечаем 404 даже постороннему.
	stranger := Caller{ID: uuid.New(), Role: models.RoleCustomer}
	_, err := f.svc.Get(context.Background(), stranger, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrOrderNotFound)

	err = f.svc.Delete(context.Background(), stranger, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrOrderNotFound)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.customer, f.detailID)
	assert.NoError(t, err)

	// Customer сторона статус менять не может.
	_, err = f.svc.UpdateStatus(ctx, f.customer, order.ID, "completed")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// Staff, не являющийся стороной сделки, тоже получает отказ.
	staff := Caller{ID: uuid.New(), Role: models.RoleBusiness, IsStaff: true}
	_, err = f.svc.UpdateStatus(ctx, staff, order.ID, "completed")
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// Неизвестный статус.
	_, err = f.svc.UpdateStatus(ctx, f.business, order.ID, "paused")
	assert.True(t, apperror.IsValidation(err))

	// Повтор текущего статуса — no-op.
	same, err := f.svc.UpdateStatus(ctx, f.business, order.ID, "in_progress")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusInProgress, same.Status)

	updated, err := f.svc.UpdateStatus(ctx, f.business, order.ID, "completed")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)

	// Из конечного статуса переходов нет.
	_, err = f.svc.UpdateStatus(ctx, f.business, order.ID, "canceled")
	assert.True(t, apperror.IsValidation(err))
}

func TestOrderService_DeleteStaffOnly(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.customer, f.detailID)
	assert.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.business, order.ID), apperror.ErrForbidden)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.customer, order.ID), apperror.ErrForbidden)

	staff := Caller{ID: uuid.New(), Role: models.RoleCustomer, IsStaff: true}
	assert.NoError(t, f.svc.Delete(ctx, staff, order.ID))

	_, err = f.svc.Get(ctx, staff, order.ID)
	assert.ErrorIs(t, err, apperror.ErrOrderNotFound)
}

func TestOrderService_CountForBusiness(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.customer, f.detailID)
	assert.NoError(t, err)

	count, err := f.svc.CountForBusiness(ctx, f.business.ID, models.OrderStatusInProgress)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = f.svc.CountForBusiness(ctx, f.business.ID, models.OrderStatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = f.svc.UpdateStatus(ctx, f.business, order.ID, "completed")
	assert.NoError(t, err)

	count, err = f.svc.CountForBusiness(ctx, f.business.ID, models.OrderStatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	// Несуществующий пользователь и пользователь без business профиля
	// неразличимы в ответе.
	_, err = f.svc.CountForBusiness(ctx, uuid.New(), models.OrderStatusInProgress)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	_, err = f.svc.CountForBusiness(ctx, f.customer.ID, models.OrderStatusInProgress)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}
