package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/marketplace-backend/internal/models"
)

// ErrReviewNotFound возвращается, когда отзыв не найден.
var ErrReviewNotFound = errors.New("review not found")

// ErrDuplicateReview возвращается при попытке оставить второй отзыв
// тому же исполнителю.
var ErrDuplicateReview = errors.New("review already exists")

// ReviewListParams задаёт фильтры и сортировку списка отзывов.
type ReviewListParams struct {
	BusinessUserID *uuid.UUID
	ReviewerID     *uuid.UUID
	Ordering       string
}

// ReviewRepository отвечает за работу с таблицей reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository создаёт экземпляр репозитория.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create сохраняет новый отзыв. Уникальность пары автор-исполнитель
// гарантирует ограничение в БД, гонка двух параллельных запросов
// разрешается здесь.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (business_user_id, reviewer_id, rating, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		review.BusinessUserID, review.ReviewerID, review.Rating, review.Description).
		Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateReview
		}
		return fmt.Errorf("review repository: create %w", err)
	}

	return nil
}

// GetByID возвращает отзыв по идентификатору.
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	query := `
		SELECT id, business_user_id, reviewer_id, rating, description, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &review, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("review repository: get by id %w", err)
	}

	return &review, nil
}

// ExistsForPair сообщает, оставлял ли автор отзыв этому исполнителю.
func (r *ReviewRepository) ExistsForPair(ctx context.Context, reviewerID, businessUserID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE reviewer_id = $1 AND business_user_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, reviewerID, businessUserID); err != nil {
		return false, fmt.Errorf("review repository: exists for pair %w", err)
	}
	return exists, nil
}

// List возвращает отзывы с фильтрами и сортировкой.
func (r *ReviewRepository) List(ctx context.Context, params ReviewListParams) ([]models.Review, error) {
	where := []string{}
	args := []interface{}{}
	argID := 1

	if params.BusinessUserID != nil {
		where = append(where, fmt.Sprintf("business_user_id = $%d", argID))
		args = append(args, *params.BusinessUserID)
		argID++
	}

	if params.ReviewerID != nil {
		where = append(where, fmt.Sprintf("reviewer_id = $%d", argID))
		args = append(args, *params.ReviewerID)
		argID++
	}

	query := `
		SELECT id, business_user_id, reviewer_id, rating, description, created_at, updated_at
		FROM reviews
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += reviewOrderClause(params.Ordering)

	var reviews []models.Review
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, fmt.Errorf("review repository: list %w", err)
	}

	return reviews, nil
}

// Update сохраняет рейтинг и текст отзыва.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, description = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		review.ID, review.Rating, review.Description).Scan(&review.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("review repository: update %w", err)
	}

	return nil
}

// Delete удаляет отзыв.
func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("review repository: delete %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("review repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return ErrReviewNotFound
	}

	return nil
}

// reviewOrderClause преобразует параметр сортировки в безопасный ORDER BY.
// Допустимы updated_at и rating, префикс "-" меняет направление.
func reviewOrderClause(ordering string) string {
	direction := "ASC"
	column := ordering
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		column = strings.TrimPrefix(ordering, "-")
	}

	switch column {
	case "updated_at":
		return fmt.Sprintf(" ORDER BY updated_at %s", direction)
	case "rating":
		return fmt.Sprintf(" ORDER BY rating %s", direction)
	default:
		return " ORDER BY updated_at DESC"
	}
}
