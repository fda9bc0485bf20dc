package dto

import (
	"github.com/google/uuid"
)

// RegisterRequest содержит тело запроса регистрации.
type RegisterRequest struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	RepeatedPassword string `json:"repeated_password"`
	Type             string `json:"type"`
}

// LoginRequest содержит тело запроса входа.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileUpdateRequest содержит частичное обновление профиля.
// Отсутствующие поля остаются nil и не применяются.
type ProfileUpdateRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	File         *string `json:"file"`
	Location     *string `json:"location"`
	Tel          *string `json:"tel"`
	Description  *string `json:"description"`
	WorkingHours *string `json:"working_hours"`
	Email        *string `json:"email"`
}

// OfferDetailRequest содержит один тариф в запросе создания или
// обновления оффера.
type OfferDetailRequest struct {
	Title              string   `json:"title"`
	Revisions          int      `json:"revisions"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days"`
	Price              int      `json:"price"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type"`
}

// OfferCreateRequest содержит тело запроса создания оффера.
type OfferCreateRequest struct {
	Title       string               `json:"title"`
	Image       *string              `json:"image"`
	Description string               `json:"description"`
	Details     []OfferDetailRequest `json:"details"`
}

// OfferUpdateRequest содержит частичное обновление оффера.
type OfferUpdateRequest struct {
	Title       *string              `json:"title"`
	Image       *string              `json:"image"`
	Description *string              `json:"description"`
	Details     []OfferDetailRequest `json:"details"`
}

// OrderCreateRequest содержит тело запроса создания заказа.
// Единственное допустимое поле — offer_detail_id.
type OrderCreateRequest struct {
	OfferDetailID uuid.UUID `json:"offer_detail_id"`
}

// OrderStatusUpdateRequest содержит тело запроса смены статуса заказа.
// Единственное допустимое поле — status.
type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

// ReviewCreateRequest содержит тело запроса создания отзыва.
type ReviewCreateRequest struct {
	BusinessUser uuid.UUID `json:"business_user"`
	Rating       int       `json:"rating"`
	Description  string    `json:"description"`
}

// ReviewUpdateRequest содержит частичное обновление отзыва.
// Допустимы только rating и description.
type ReviewUpdateRequest struct {
	Rating      *int    `json:"rating"`
	Description *string `json:"description"`
}
