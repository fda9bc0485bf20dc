package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus определяет состояние заказа.
type OrderStatus string

const (
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// OrderStatuses перечисляет допустимые статусы.
var OrderStatuses = []OrderStatus{OrderStatusInProgress, OrderStatusCompleted, OrderStatusCanceled}

// ValidOrderStatus проверяет, что строка является допустимым статусом.
func ValidOrderStatus(v string) bool {
	switch OrderStatus(v) {
	case OrderStatusInProgress, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// Terminal сообщает, является ли статус конечным. Из конечного статуса
// переходы запрещены.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// Order описывает покупку тарифа оффера customer пользователем.
// Business сторона фиксируется из владельца оффера в момент создания
// и позже не пересчитывается.
type Order struct {
	ID             uuid.UUID   `db:"id" json:"id"`
	OfferDetailID  uuid.UUID   `db:"offer_detail_id" json:"-"`
	CustomerUserID uuid.UUID   `db:"customer_user_id" json:"customer_user"`
	BusinessUserID uuid.UUID   `db:"business_user_id" json:"business_user"`
	Status         OrderStatus `db:"status" json:"status"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`

	// Снимок полей тарифа, подтягивается JOIN-ом при чтении.
	Title              string    `db:"title" json:"title"`
	Revisions          int       `db:"revisions" json:"revisions"`
	DeliveryTimeInDays int       `db:"delivery_time_in_days" json:"delivery_time_in_days"`
	Price              int       `db:"price" json:"price"`
	Features           []string  `db:"-" json:"features"`
	OfferType          OfferType `db:"offer_type" json:"offer_type"`
}
