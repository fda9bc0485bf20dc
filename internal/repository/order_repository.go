package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/marketplace-backend/internal/models"
)

// ErrOrderNotFound возвращается, когда заказ не найден.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository отвечает за работу с таблицей orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository создаёт экземпляр репозитория.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderSelect = `
	SELECT o.id, o.offer_detail_id, o.customer_user_id, o.business_user_id,
	       o.status, o.created_at, o.updated_at,
	       d.title, d.revisions, d.delivery_time_in_days, d.price, d.features, d.offer_type
	FROM orders o
	JOIN offer_details d ON d.id = o.offer_detail_id
`

// Create сохраняет новый заказ и дочитывает поля тарифа для ответа.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.QueryRowxContext(ctx, `
		INSERT INTO orders (offer_detail_id, customer_user_id, business_user_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, order.OfferDetailID, order.CustomerUserID, order.BusinessUserID, order.Status).
		Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return fmt.Errorf("order repository: create %w", err)
	}

	created, err := r.GetByID(ctx, order.ID)
	if err != nil {
		return err
	}
	*order = *created

	return nil
}

// GetByID возвращает заказ со слепком полей тарифа.
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	rows, err := r.db.QueryxContext(ctx, orderSelect+` WHERE o.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("order repository: get by id %w", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}

	return &orders[0], nil
}

// ListForUser возвращает заказы, где пользователь выступает заказчиком
// или исполнителем, сначала свежие.
func (r *OrderRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	rows, err := r.db.QueryxContext(ctx,
		orderSelect+` WHERE o.customer_user_id = $1 OR o.business_user_id = $1 ORDER BY o.created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("order repository: list for user %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// UpdateStatus изменяет статус заказа.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("order repository: update status %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("order repository: update status rows affected %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// Delete удаляет заказ.
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("order repository: delete %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("order repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}

	return nil
}

// CountByBusinessAndStatus возвращает число заказов исполнителя в заданном статусе.
func (r *OrderRepository) CountByBusinessAndStatus(ctx context.Context, businessUserID uuid.UUID, status models.OrderStatus) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM orders WHERE business_user_id = $1 AND status = $2`,
		businessUserID, status); err != nil {
		return 0, fmt.Errorf("order repository: count by business and status %w", err)
	}
	return count, nil
}

// scanOrders читает строки заказов, разворачивая массив фич тарифа.
func scanOrders(rows *sqlx.Rows) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var features pq.StringArray
		if err := rows.Scan(&o.ID, &o.OfferDetailID, &o.CustomerUserID, &o.BusinessUserID,
			&o.Status, &o.CreatedAt, &o.UpdatedAt,
			&o.Title, &o.Revisions, &o.DeliveryTimeInDays, &o.Price, &features, &o.OfferType); err != nil {
			return nil, fmt.Errorf("order repository: scan %w", err)
		}
		o.Features = []string(features)
		if o.Features == nil {
			o.Features = []string{}
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("order repository: rows %w", err)
	}

	return orders, nil
}
