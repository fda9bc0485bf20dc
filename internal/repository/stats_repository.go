package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/marketplace-backend/internal/models"
)

// StatsRepository считает агрегаты платформы для публичной статистики.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository создаёт экземпляр репозитория.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetBaseInfo возвращает сводные показатели платформы.
// Средний рейтинг округляется до двух знаков, при отсутствии
// отзывов равен нулю.
func (r *StatsRepository) GetBaseInfo(ctx context.Context) (*models.BaseInfo, error) {
	var info models.BaseInfo
	query := `
		SELECT
			(SELECT COUNT(*) FROM reviews) AS review_count,
			(SELECT COALESCE(ROUND(AVG(rating)::numeric, 2), 0) FROM reviews) AS average_rating,
			(SELECT COUNT(*) FROM profiles WHERE type = 'business') AS business_profile_count,
			(SELECT COUNT(*) FROM offers) AS offer_count
	`
	if err := r.db.GetContext(ctx, &info, query); err != nil {
		return nil, fmt.Errorf("stats repository: get base info %w", err)
	}

	return &info, nil
}
