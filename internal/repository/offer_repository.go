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

// ErrOfferNotFound возвращается, когда оффер не найден.
var ErrOfferNotFound = errors.New("offer not found")

// ErrOfferDetailNotFound возвращается, когда тариф оффера не найден.
var ErrOfferDetailNotFound = errors.New("offer detail not found")

// OfferListParams задаёт фильтры, сортировку и пагинацию списка офферов.
type OfferListParams struct {
	CreatorID       *uuid.UUID
	MinPrice        *int
	MaxDeliveryTime *int
	Search          string
	Ordering        string
	Limit           int
	Offset          int
}

// OfferRepository отвечает за работу с таблицами offers и offer_details.
type OfferRepository struct {
	db *sqlx.DB
}

// NewOfferRepository создаёт экземпляр репозитория.
func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// Create сохраняет оффер вместе со всеми тарифами в одной транзакции.
func (r *OfferRepository) Create(ctx context.Context, offer *models.Offer, details []models.OfferDetail) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("offer repository: begin tx %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowxContext(ctx, `
		INSERT INTO offers (user_id, title, image, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, offer.UserID, offer.Title, offer.Image, offer.Description).
		Scan(&offer.ID, &offer.CreatedAt, &offer.UpdatedAt); err != nil {
		return fmt.Errorf("offer repository: insert offer %w", err)
	}

	for i := range details {
		d := &details[i]
		d.OfferID = offer.ID
		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO offer_details (offer_id, title, revisions, delivery_time_in_days, price, features, offer_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, d.OfferID, d.Title, d.Revisions, d.DeliveryTimeInDays, d.Price,
			pq.Array(d.Features), d.OfferType).Scan(&d.ID); err != nil {
			return fmt.Errorf("offer repository: insert detail %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("offer repository: commit %w", err)
	}

	offer.Details = details
	return nil
}

// GetByID возвращает оффер с агрегатами по тарифам.
// Тарифы и данные владельца загружаются отдельными методами.
func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	query := `
		SELECT o.id, o.user_id, o.title, o.image, o.description, o.created_at, o.updated_at,
		       MIN(d.price) AS min_price,
		       MIN(d.delivery_time_in_days) AS min_delivery_time
		FROM offers o
		JOIN offer_details d ON d.offer_id = o.id
		WHERE o.id = $1
		GROUP BY o.id
	`
	if err := r.db.GetContext(ctx, &offer, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("offer repository: get by id %w", err)
	}

	return &offer, nil
}

// ListDetails возвращает тарифы оффера в фиксированном порядке basic, standard, premium.
func (r *OfferRepository) ListDetails(ctx context.Context, offerID uuid.UUID) ([]models.OfferDetail, error) {
	query := `
		SELECT id, offer_id, title, revisions, delivery_time_in_days, price, features, offer_type
		FROM offer_details
		WHERE offer_id = $1
		ORDER BY CASE offer_type WHEN 'basic' THEN 1 WHEN 'standard' THEN 2 ELSE 3 END
	`

	rows, err := r.db.QueryxContext(ctx, query, offerID)
	if err != nil {
		return nil, fmt.Errorf("offer repository: list details %w", err)
	}
	defer rows.Close()

	return scanDetails(rows)
}

// GetDetailByID возвращает тариф по идентификатору.
func (r *OfferRepository) GetDetailByID(ctx context.Context, id uuid.UUID) (*models.OfferDetail, error) {
	query := `
		SELECT id, offer_id, title, revisions, delivery_time_in_days, price, features, offer_type
		FROM offer_details
		WHERE id = $1
	`

	rows, err := r.db.QueryxContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("offer repository: get detail %w", err)
	}
	defer rows.Close()

	details, err := scanDetails(rows)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrOfferDetailNotFound
	}

	return &details[0], nil
}

// Update сохраняет изменённые поля оффера и переданные тарифы.
// Тариф сопоставляется с существующим по offer_type.
func (r *OfferRepository) Update(ctx context.Context, offer *models.Offer, details []models.OfferDetail) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("offer repository: begin tx %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowxContext(ctx, `
		UPDATE offers
		SET title = $2, image = $3, description = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, offer.ID, offer.Title, offer.Image, offer.Description).
		Scan(&offer.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOfferNotFound
		}
		return fmt.Errorf("offer repository: update offer %w", err)
	}

	for i := range details {
		d := &details[i]
		result, err := tx.ExecContext(ctx, `
			UPDATE offer_details
			SET title = $3, revisions = $4, delivery_time_in_days = $5, price = $6, features = $7
			WHERE offer_id = $1 AND offer_type = $2
		`, offer.ID, d.OfferType, d.Title, d.Revisions, d.DeliveryTimeInDays, d.Price, pq.Array(d.Features))
		if err != nil {
			return fmt.Errorf("offer repository: update detail %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("offer repository: update detail rows affected %w", err)
		}
		if affected == 0 {
			return ErrOfferDetailNotFound
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("offer repository: commit %w", err)
	}

	return nil
}

// Delete удаляет оффер, тарифы удаляются каскадно.
func (r *OfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("offer repository: delete %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("offer repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return ErrOfferNotFound
	}

	return nil
}

// List возвращает страницу офферов с агрегатами и общее число записей.
func (r *OfferRepository) List(ctx context.Context, params OfferListParams) ([]models.Offer, int, error) {
	where := []string{}
	args := []interface{}{}
	having := []string{}
	argID := 1

	if params.CreatorID != nil {
		where = append(where, fmt.Sprintf("o.user_id = $%d", argID))
		args = append(args, *params.CreatorID)
		argID++
	}

	if params.Search != "" {
		where = append(where, fmt.Sprintf("(o.title ILIKE $%d OR o.description ILIKE $%d)", argID, argID))
		args = append(args, "%"+params.Search+"%")
		argID++
	}

	if params.MinPrice != nil {
		having = append(having, fmt.Sprintf("MIN(d.price) >= $%d", argID))
		args = append(args, *params.MinPrice)
		argID++
	}

	if params.MaxDeliveryTime != nil {
		having = append(having, fmt.Sprintf("MIN(d.delivery_time_in_days) <= $%d", argID))
		args = append(args, *params.MaxDeliveryTime)
		argID++
	}

	base := `
		FROM offers o
		JOIN offer_details d ON d.offer_id = o.id
	`
	if len(where) > 0 {
		base += " WHERE " + strings.Join(where, " AND ")
	}
	base += " GROUP BY o.id"
	if len(having) > 0 {
		base += " HAVING " + strings.Join(having, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM (SELECT o.id " + base + ") AS filtered"

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("offer repository: count %w", err)
	}

	query := `
		SELECT o.id, o.user_id, o.title, o.image, o.description, o.created_at, o.updated_at,
		       MIN(d.price) AS min_price,
		       MIN(d.delivery_time_in_days) AS min_delivery_time
	` + base + orderClause(params.Ordering)

	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1)
	args = append(args, params.Limit, params.Offset)

	var offers []models.Offer
	if err := r.db.SelectContext(ctx, &offers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("offer repository: list %w", err)
	}

	return offers, total, nil
}

// ListDetailRefs возвращает идентификаторы тарифов для набора офферов.
func (r *OfferRepository) ListDetailRefs(ctx context.Context, offerIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	refs := make(map[uuid.UUID][]uuid.UUID, len(offerIDs))
	if len(offerIDs) == 0 {
		return refs, nil
	}

	query := `
		SELECT id, offer_id
		FROM offer_details
		WHERE offer_id = ANY($1)
		ORDER BY CASE offer_type WHEN 'basic' THEN 1 WHEN 'standard' THEN 2 ELSE 3 END
	`

	rows, err := r.db.QueryxContext(ctx, query, pq.Array(offerIDs))
	if err != nil {
		return nil, fmt.Errorf("offer repository: list detail refs %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, offerID uuid.UUID
		if err := rows.Scan(&id, &offerID); err != nil {
			return nil, fmt.Errorf("offer repository: scan detail ref %w", err)
		}
		refs[offerID] = append(refs[offerID], id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("offer repository: detail refs rows %w", err)
	}

	return refs, nil
}

// GetOwner возвращает имя, фамилию и username владельца оффера.
func (r *OfferRepository) GetOwner(ctx context.Context, userID uuid.UUID) (*models.OfferOwner, error) {
	var owner models.OfferOwner
	query := `
		SELECT COALESCE(p.first_name, '') AS first_name,
		       COALESCE(p.last_name, '') AS last_name,
		       u.username
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE u.id = $1
	`
	if err := r.db.GetContext(ctx, &owner, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("offer repository: get owner %w", err)
	}

	return &owner, nil
}

// orderClause преобразует параметр сортировки в безопасный ORDER BY.
// Допустимы updated_at и min_price, префикс "-" меняет направление.
func orderClause(ordering string) string {
	direction := "ASC"
	column := ordering
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		column = strings.TrimPrefix(ordering, "-")
	}

	switch column {
	case "updated_at":
		return fmt.Sprintf(" ORDER BY o.updated_at %s", direction)
	case "min_price":
		return fmt.Sprintf(" ORDER BY MIN(d.price) %s", direction)
	default:
		return " ORDER BY o.updated_at DESC"
	}
}

// scanDetails читает строки тарифов, разворачивая массив фич.
func scanDetails(rows *sqlx.Rows) ([]models.OfferDetail, error) {
	var details []models.OfferDetail
	for rows.Next() {
		var d models.OfferDetail
		var features pq.StringArray
		if err := rows.Scan(&d.ID, &d.OfferID, &d.Title, &d.Revisions,
			&d.DeliveryTimeInDays, &d.Price, &features, &d.OfferType); err != nil {
			return nil, fmt.Errorf("offer repository: scan detail %w", err)
		}
		d.Features = []string(features)
		if d.Features == nil {
			d.Features = []string{}
		}
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("offer repository: details rows %w", err)
	}

	return details, nil
}
