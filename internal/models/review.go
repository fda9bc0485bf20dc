package models

import (
	"time"

	"github.com/google/uuid"
)

// Review описывает отзыв customer пользователя о business пользователе.
// Пара (reviewer, business_user) уникальна.
type Review struct {
	ID             uuid.UUID `db:"id" json:"id"`
	BusinessUserID uuid.UUID `db:"business_user_id" json:"business_user"`
	ReviewerID     uuid.UUID `db:"reviewer_id" json:"reviewer"`
	Rating         int       `db:"rating" json:"rating"`
	Description    string    `db:"description" json:"description"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// BaseInfo содержит агрегированную статистику платформы.
type BaseInfo struct {
	ReviewCount          int     `db:"review_count" json:"review_count"`
	AverageRating        float64 `db:"average_rating" json:"average_rating"`
	BusinessProfileCount int     `db:"business_profile_count" json:"business_profile_count"`
	OfferCount           int     `db:"offer_count" json:"offer_count"`
}
