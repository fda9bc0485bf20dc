package models

import (
	"time"

	"github.com/google/uuid"
)

// OfferType определяет тариф оффера. У каждого оффера ровно три тарифа,
// по одному каждого типа.
type OfferType string

const (
	OfferTypeBasic    OfferType = "basic"
	OfferTypeStandard OfferType = "standard"
	OfferTypePremium  OfferType = "premium"
)

// OfferTypes перечисляет допустимые тарифы в каноническом порядке.
var OfferTypes = []OfferType{OfferTypeBasic, OfferTypeStandard, OfferTypePremium}

// ValidOfferType проверяет, что строка является допустимым тарифом.
func ValidOfferType(v string) bool {
	switch OfferType(v) {
	case OfferTypeBasic, OfferTypeStandard, OfferTypePremium:
		return true
	}
	return false
}

// Offer описывает услугу, созданную business пользователем.
type Offer struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user"`
	Title       string    `db:"title" json:"title"`
	Image       *string   `db:"image" json:"image"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	// Агрегаты по тарифам, считаются запросом и никогда не хранятся.
	MinPrice        int `db:"min_price" json:"min_price"`
	MinDeliveryTime int `db:"min_delivery_time" json:"min_delivery_time"`

	Details []OfferDetail `json:"details,omitempty"`
}

// OfferDetail описывает один тариф оффера.
type OfferDetail struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	OfferID            uuid.UUID `db:"offer_id" json:"-"`
	Title              string    `db:"title" json:"title"`
	Revisions          int       `db:"revisions" json:"revisions"`
	DeliveryTimeInDays int       `db:"delivery_time_in_days" json:"delivery_time_in_days"`
	Price              int       `db:"price" json:"price"`
	Features           []string  `db:"-" json:"features"`
	OfferType          OfferType `db:"offer_type" json:"offer_type"`
}

// OfferOwner содержит публичные данные владельца оффера для detail-ответа.
type OfferOwner struct {
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Username  string `db:"username" json:"username"`
}
