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

// ProfileRepository описывает зависимости ProfileService от слоя хранилища.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
	UpdateUserEmail(ctx context.Context, userID uuid.UUID, email string) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListProfiles(ctx context.Context, role models.Role) ([]models.Profile, error)
}

// ProfileService инкапсулирует чтение и редактирование профилей.
type ProfileService struct {
	repo ProfileRepository
}

// ProfileUpdateInput содержит изменяемые поля профиля. Нулевой указатель
// означает, что поле в запросе не передавалось и не трогается.
type ProfileUpdateInput struct {
	FirstName    *string
	LastName     *string
	File         *string
	Location     *string
	Tel          *string
	Description  *string
	WorkingHours *string
	Email        *string
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Get возвращает профиль пользователя.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, fmt.Errorf("profile service: %w", err)
	}
	return profile, nil
}

// Update частично обновляет профиль. Редактировать профиль может только
// его владелец, тип и username не меняются.
func (s *ProfileService) Update(ctx context.Context, caller Caller, userID uuid.UUID, in ProfileUpdateInput) (*models.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !caller.IsOwner(userID) {
		return nil, apperror.ErrForbidden
	}

	if err := s.validateUpdate(in); err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != profile.Email {
		if other, err := s.repo.GetUserByEmail(ctx, *in.Email); err == nil && other.ID != userID {
			return nil, apperror.Validation("этот email уже зарегистрирован")
		} else if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("profile service: %w", err)
		}

		if err := s.repo.UpdateUserEmail(ctx, userID, *in.Email); err != nil {
			return nil, fmt.Errorf("profile service: %w", err)
		}
		profile.Email = *in.Email
	}

	applyIfSet(&profile.FirstName, in.FirstName)
	applyIfSet(&profile.LastName, in.LastName)
	applyIfSet(&profile.File, in.File)
	applyIfSet(&profile.Location, in.Location)
	applyIfSet(&profile.Tel, in.Tel)
	applyIfSet(&profile.Description, in.Description)
	applyIfSet(&profile.WorkingHours, in.WorkingHours)

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}

	return profile, nil
}

// ListByRole возвращает профили заданного типа.
func (s *ProfileService) ListByRole(ctx context.Context, role models.Role) ([]models.Profile, error) {
	profiles, err := s.repo.ListProfiles(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}
	return profiles, nil
}

// validateUpdate проверяет переданные поля профиля.
func (s *ProfileService) validateUpdate(in ProfileUpdateInput) error {
	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return apperror.Validation("%s", err.Error())
		}
	}
	if err := validation.ValidateOptionalLength("имя", in.FirstName, validation.MaxNameLength); err != nil {
		return apperror.Validation("%s", err.Error())
	}
	if err := validation.ValidateOptionalLength("фамилия", in.LastName, validation.MaxNameLength); err != nil {
		return apperror.Validation("%s", err.Error())
	}
	if err := validation.ValidateOptionalLength("локация", in.Location, validation.MaxLocationLength); err != nil {
		return apperror.Validation("%s", err.Error())
	}
	if err := validation.ValidateOptionalLength("телефон", in.Tel, validation.MaxTelLength); err != nil {
		return apperror.Validation("%s", err.Error())
	}
	if err := validation.ValidateOptionalLength("часы работы", in.WorkingHours, validation.MaxWorkingHoursLen); err != nil {
		return apperror.Validation("%s", err.Error())
	}
	return nil
}

// applyIfSet копирует значение, если поле присутствовало в запросе.
func applyIfSet(dst **string, src *string) {
	if src != nil {
		*dst = src
	}
}
