package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository"
)

// OrderRepository описывает зависимости OrderService от слоя хранилища.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByBusinessAndStatus(ctx context.Context, businessUserID uuid.UUID, status models.OrderStatus) (int, error)
}

// OrderOfferRepository даёт OrderService доступ к тарифам офферов.
type OrderOfferRepository interface {
	GetDetailByID(ctx context.Context, id uuid.UUID) (*models.OfferDetail, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
}

// OrderRoleRepository даёт OrderService доступ к ролям профилей.
type OrderRoleRepository interface {
	GetRole(ctx context.Context, userID uuid.UUID) (models.Role, error)
}

// OrderService инкапсулирует жизненный цикл заказов.
type OrderService struct {
	orders OrderRepository
	offers OrderOfferRepository
	users  OrderRoleRepository
}

// NewOrderService создаёт сервис заказов.
func NewOrderService(orders OrderRepository, offers OrderOfferRepository, users OrderRoleRepository) *OrderService {
	return &OrderService{orders: orders, offers: offers, users: users}
}

// Create создаёт заказ по тарифу оффера. Заказывать могут только
// customer пользователи, business сторона фиксируется из владельца
// оффера в момент создания.
func (s *OrderService) Create(ctx context.Context, caller Caller, offerDetailID uuid.UUID) (*models.Order, error) {
	if err := Authorize(caller, ActionOrderCreate); err != nil {
		return nil, err
	}

	detail, err := s.offers.GetDetailByID(ctx, offerDetailID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferDetailNotFound) {
			return nil, apperror.ErrOfferDetailNotFound
		}
		return nil, fmt.Errorf("order service: %w", err)
	}

	offer, err := s.offers.GetByID(ctx, detail.OfferID)
	if err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}

	order := &models.Order{
		OfferDetailID:  detail.ID,
		CustomerUserID: caller.ID,
		BusinessUserID: offer.UserID,
		Status:         models.OrderStatusInProgress,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}

	return order, nil
}

// Get возвращает заказ. Видят его только участники сделки и staff.
func (s *OrderService) Get(ctx context.Context, caller Caller, id uuid.UUID) (*models.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.isParticipant(caller, order) {
		return nil, apperror.ErrForbidden
	}

	return order, nil
}

// List возвращает заказы, где вызывающий выступает любой из сторон.
func (s *OrderService) List(ctx context.Context, caller Caller) ([]models.Order, error) {
	orders, err := s.orders.ListForUser(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}
	return orders, nil
}

// UpdateStatus изменяет статус заказа. Менять статус может только
// business сторона сделки, из конечных статусов переходов нет.
func (s *OrderService) UpdateStatus(ctx context.Context, caller Caller, id uuid.UUID, status string) (*models.Order, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.IsOwner(order.BusinessUserID) {
		return nil, apperror.ErrForbidden
	}

	if !models.ValidOrderStatus(status) {
		return nil, apperror.Validation("статус должен быть in_progress, completed или canceled")
	}

	next := models.OrderStatus(status)
	if next == order.Status {
		return order, nil
	}
	if order.Status.Terminal() {
		return nil, apperror.Validation("заказ в статусе %s изменить нельзя", order.Status)
	}

	if err := s.orders.UpdateStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}

	return s.getOrder(ctx, id)
}

// Delete удаляет заказ. Операция доступна только staff пользователям.
func (s *OrderService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if _, err := s.getOrder(ctx, id); err != nil {
		return err
	}

	if err := Authorize(caller, ActionOrderDelete); err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("order service: %w", err)
	}

	return nil
}

// CountForBusiness возвращает число заказов business пользователя в
// заданном статусе. Пользователь должен существовать и иметь business
// профиль.
func (s *OrderService) CountForBusiness(ctx context.Context, businessUserID uuid.UUID, status models.OrderStatus) (int, error) {
	role, err := s.users.GetRole(ctx, businessUserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, apperror.ErrUserNotFound
		}
		return 0, fmt.Errorf("order service: %w", err)
	}
	if role != models.RoleBusiness {
		return 0, apperror.ErrUserNotFound
	}

	count, err := s.orders.CountByBusinessAndStatus(ctx, businessUserID, status)
	if err != nil {
		return 0, fmt.Errorf("order service: %w", err)
	}

	return count, nil
}

// getOrder загружает заказ, преобразуя отсутствие записи в 404.
func (s *OrderService) getOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, apperror.ErrOrderNotFound
		}
		return nil, fmt.Errorf("order service: %w", err)
	}
	return order, nil
}

// isParticipant сообщает, относится ли вызывающий к сделке.
func (s *OrderService) isParticipant(caller Caller, order *models.Order) bool {
	return caller.IsStaff ||
		caller.IsOwner(order.CustomerUserID) ||
		caller.IsOwner(order.BusinessUserID)
}
