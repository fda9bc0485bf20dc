package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository"
	"github.com/ignatzorin/marketplace-backend/internal/validation"
)

// OfferRepository описывает зависимости OfferService от слоя хранилища.
type OfferRepository interface {
	Create(ctx context.Context, offer *models.Offer, details []models.OfferDetail) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	ListDetails(ctx context.Context, offerID uuid.UUID) ([]models.OfferDetail, error)
	GetDetailByID(ctx context.Context, id uuid.UUID) (*models.OfferDetail, error)
	Update(ctx context.Context, offer *models.Offer, details []models.OfferDetail) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params repository.OfferListParams) ([]models.Offer, int, error)
	ListDetailRefs(ctx context.Context, offerIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	GetOwner(ctx context.Context, userID uuid.UUID) (*models.OfferOwner, error)
}

// OfferService инкапсулирует бизнес-логику офферов и их тарифов.
type OfferService struct {
	repo OfferRepository
}

// OfferDetailInput содержит данные одного тарифа.
type OfferDetailInput struct {
	Title              string   `json:"title"`
	Revisions          int      `json:"revisions"`
	DeliveryTimeInDays int      `json:"delivery_time_in_days"`
	Price              int      `json:"price"`
	Features           []string `json:"features"`
	OfferType          string   `json:"offer_type"`
}

// OfferCreateInput содержит данные нового оффера.
type OfferCreateInput struct {
	Title       string
	Image       *string
	Description string
	Details     []OfferDetailInput
}

// OfferUpdateInput содержит изменяемые поля оффера. Нулевой указатель
// означает, что поле в запросе не передавалось.
type OfferUpdateInput struct {
	Title       *string
	Image       *string
	Description *string
	Details     []OfferDetailInput
}

// OfferListResult содержит страницу офферов со ссылками на тарифы.
type OfferListResult struct {
	Offers     []models.Offer
	DetailRefs map[uuid.UUID][]uuid.UUID
	Total      int
}

// NewOfferService создаёт сервис офферов.
func NewOfferService(repo OfferRepository) *OfferService {
	return &OfferService{repo: repo}
}

// Create сохраняет новый оффер. Создавать офферы могут только business
// пользователи, тарифов всегда ровно три.
func (s *OfferService) Create(ctx context.Context, caller Caller, in OfferCreateInput) (*models.Offer, error) {
	if err := Authorize(caller, ActionOfferCreate); err != nil {
		return nil, err
	}

	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}

	details, err := buildDetailSet(in.Details)
	if err != nil {
		return nil, err
	}

	offer := &models.Offer{
		UserID:      caller.ID,
		Title:       in.Title,
		Image:       in.Image,
		Description: in.Description,
	}
	applyDetailAggregates(offer, details)

	if err := s.repo.Create(ctx, offer, details); err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}

	return offer, nil
}

// applyDetailAggregates выставляет min_price и min_delivery_time оффера
// по тарифам. При чтении из базы те же агрегаты считает SQL запрос.
func applyDetailAggregates(offer *models.Offer, details []models.OfferDetail) {
	for i, d := range details {
		if i == 0 || d.Price < offer.MinPrice {
			offer.MinPrice = d.Price
		}
		if i == 0 || d.DeliveryTimeInDays < offer.MinDeliveryTime {
			offer.MinDeliveryTime = d.DeliveryTimeInDays
		}
	}
}

// Get возвращает оффер с агрегатами и тарифами.
func (s *OfferService) Get(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, apperror.ErrOfferNotFound
		}
		return nil, fmt.Errorf("offer service: %w", err)
	}

	details, err := s.repo.ListDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}
	offer.Details = details

	return offer, nil
}

// GetOwner возвращает публичные данные владельца оффера.
func (s *OfferService) GetOwner(ctx context.Context, userID uuid.UUID) (*models.OfferOwner, error) {
	owner, err := s.repo.GetOwner(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, fmt.Errorf("offer service: %w", err)
	}
	return owner, nil
}

// GetDetail возвращает отдельный тариф.
func (s *OfferService) GetDetail(ctx context.Context, id uuid.UUID) (*models.OfferDetail, error) {
	detail, err := s.repo.GetDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOfferDetailNotFound) {
			return nil, apperror.ErrOfferDetailNotFound
		}
		return nil, fmt.Errorf("offer service: %w", err)
	}
	return detail, nil
}

// Update частично обновляет оффер владельца. Переданные тарифы
// сопоставляются с существующими по offer_type.
func (s *OfferService) Update(ctx context.Context, caller Caller, id uuid.UUID, in OfferUpdateInput) (*models.Offer, error) {
	offer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.IsOwner(offer.UserID) {
		return nil, apperror.ErrForbidden
	}

	if in.Title != nil {
		if err := validation.ValidateTitle(*in.Title); err != nil {
			return nil, apperror.Validation("%s", err.Error())
		}
		offer.Title = *in.Title
	}
	if in.Image != nil {
		offer.Image = in.Image
	}
	if in.Description != nil {
		offer.Description = *in.Description
	}

	details := make([]models.OfferDetail, 0, len(in.Details))
	for _, d := range in.Details {
		if d.OfferType == "" {
			return nil, apperror.Validation("тариф должен содержать offer_type")
		}
		detail, err := buildDetail(d)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}

	if err := s.repo.Update(ctx, offer, details); err != nil {
		if errors.Is(err, repository.ErrOfferDetailNotFound) {
			return nil, apperror.Validation("тариф с таким offer_type не найден у оффера")
		}
		return nil, fmt.Errorf("offer service: %w", err)
	}

	return s.Get(ctx, id)
}

// Delete удаляет оффер владельца вместе с тарифами.
func (s *OfferService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	offer, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !caller.IsOwner(offer.UserID) {
		return apperror.ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("offer service: %w", err)
	}

	return nil
}

// List возвращает страницу офферов с агрегатами и ссылками на тарифы.
func (s *OfferService) List(ctx context.Context, params repository.OfferListParams) (*OfferListResult, error) {
	offers, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(offers))
	for _, o := range offers {
		ids = append(ids, o.ID)
	}

	refs, err := s.repo.ListDetailRefs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("offer service: %w", err)
	}

	return &OfferListResult{
		Offers:     offers,
		DetailRefs: refs,
		Total:      total,
	}, nil
}

// buildDetailSet проверяет, что переданы ровно три тарифа, по одному
// каждого типа.
func buildDetailSet(inputs []OfferDetailInput) ([]models.OfferDetail, error) {
	if len(inputs) != len(models.OfferTypes) {
		return nil, apperror.Validation("оффер должен содержать ровно три тарифа: basic, standard и premium")
	}

	seen := map[models.OfferType]bool{}
	details := make([]models.OfferDetail, 0, len(inputs))
	for _, in := range inputs {
		detail, err := buildDetail(in)
		if err != nil {
			return nil, err
		}
		if seen[detail.OfferType] {
			return nil, apperror.Validation("тариф %s передан более одного раза", detail.OfferType)
		}
		seen[detail.OfferType] = true
		details = append(details, detail)
	}

	return details, nil
}

// buildDetail валидирует и собирает один тариф.
func buildDetail(in OfferDetailInput) (models.OfferDetail, error) {
	if !models.ValidOfferType(in.OfferType) {
		return models.OfferDetail{}, apperror.Validation("offer_type должен быть basic, standard или premium")
	}
	if err := validation.ValidateTitle(in.Title); err != nil {
		return models.OfferDetail{}, apperror.Validation("%s", err.Error())
	}
	if in.Price < 0 {
		return models.OfferDetail{}, apperror.Validation("цена не может быть отрицательной")
	}
	if in.DeliveryTimeInDays < 0 {
		return models.OfferDetail{}, apperror.Validation("срок доставки не может быть отрицательным")
	}
	if in.Revisions < 0 {
		return models.OfferDetail{}, apperror.Validation("число правок не может быть отрицательным")
	}
	if err := validation.ValidateFeatures(in.Features); err != nil {
		return models.OfferDetail{}, apperror.Validation("%s", err.Error())
	}

	features := in.Features
	if features == nil {
		features = []string{}
	}

	return models.OfferDetail{
		Title:              in.Title,
		Revisions:          in.Revisions,
		DeliveryTimeInDays: in.DeliveryTimeInDays,
		Price:              in.Price,
		Features:           features,
		OfferType:          models.OfferType(in.OfferType),
	}, nil
}
