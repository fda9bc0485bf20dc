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

// ReviewRepository описывает зависимости ReviewService от слоя хранилища.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ExistsForPair(ctx context.Context, reviewerID, businessUserID uuid.UUID) (bool, error)
	List(ctx context.Context, params repository.ReviewListParams) ([]models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewRoleRepository даёт ReviewService доступ к ролям профилей.
type ReviewRoleRepository interface {
	GetRole(ctx context.Context, userID uuid.UUID) (models.Role, error)
}

// ReviewService инкапсулирует бизнес-логику отзывов.
type ReviewService struct {
	reviews ReviewRepository
	users   ReviewRoleRepository
}

// ReviewCreateInput содержит данные нового отзыва.
type ReviewCreateInput struct {
	BusinessUserID uuid.UUID
	Rating         int
	Description    string
}

// ReviewUpdateInput содержит изменяемые поля отзыва.
type ReviewUpdateInput struct {
	Rating      *int
	Description *string
}

// NewReviewService создаёт сервис отзывов.
func NewReviewService(reviews ReviewRepository, users ReviewRoleRepository) *ReviewService {
	return &ReviewService{reviews: reviews, users: users}
}

// Create сохраняет отзыв customer пользователя о business пользователе.
// Одному исполнителю можно оставить не больше одного отзыва.
func (s *ReviewService) Create(ctx context.Context, caller Caller, in ReviewCreateInput) (*models.Review, error) {
	if err := Authorize(caller, ActionReviewCreate); err != nil {
		return nil, err
	}

	role, err := s.users.GetRole(ctx, in.BusinessUserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.Validation("business_user не найден")
		}
		return nil, fmt.Errorf("review service: %w", err)
	}
	if role != models.RoleBusiness {
		return nil, apperror.Validation("отзыв можно оставить только business пользователю")
	}

	if err := validation.ValidateRating(in.Rating); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}

	exists, err := s.reviews.ExistsForPair(ctx, caller.ID, in.BusinessUserID)
	if err != nil {
		return nil, fmt.Errorf("review service: %w", err)
	}
	if exists {
		return nil, apperror.Validation("вы уже оставили отзыв этому исполнителю")
	}

	review := &models.Review{
		BusinessUserID: in.BusinessUserID,
		ReviewerID:     caller.ID,
		Rating:         in.Rating,
		Description:    in.Description,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, apperror.Validation("вы уже оставили отзыв этому исполнителю")
		}
		return nil, fmt.Errorf("review service: %w", err)
	}

	return review, nil
}

// Get возвращает отзыв по идентификатору.
func (s *ReviewService) Get(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, apperror.ErrReviewNotFound
		}
		return nil, fmt.Errorf("review service: %w", err)
	}
	return review, nil
}

// List возвращает отзывы с фильтрами и сортировкой.
func (s *ReviewService) List(ctx context.Context, params repository.ReviewListParams) ([]models.Review, error) {
	reviews, err := s.reviews.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("review service: %w", err)
	}
	return reviews, nil
}

// Update изменяет рейтинг и текст отзыва. Редактировать отзыв может
// только его автор.
func (s *ReviewService) Update(ctx context.Context, caller Caller, id uuid.UUID, in ReviewUpdateInput) (*models.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.IsOwner(review.ReviewerID) {
		return nil, apperror.ErrForbidden
	}

	if in.Rating != nil {
		if err := validation.ValidateRating(*in.Rating); err != nil {
			return nil, apperror.Validation("%s", err.Error())
		}
		review.Rating = *in.Rating
	}
	if in.Description != nil {
		review.Description = *in.Description
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("review service: %w", err)
	}

	return review, nil
}

// Delete удаляет отзыв. Операция доступна только автору.
func (s *ReviewService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !caller.IsOwner(review.ReviewerID) {
		return apperror.ErrForbidden
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("review service: %w", err)
	}

	return nil
}
