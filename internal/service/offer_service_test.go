package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/repository"
)

// mockOfferRepository реализует OfferRepository для тестов.
type mockOfferRepository struct {
	offers  map[uuid.UUID]*models.Offer
	details map[uuid.UUID][]models.OfferDetail
	owners  map[uuid.UUID]*models.OfferOwner
}

func newMockOfferRepository() *mockOfferRepository {
	return &mockOfferRepository{
		offers:  make(map[uuid.UUID]*models.Offer),
		details: make(map[uuid.UUID][]models.OfferDetail),
		owners:  make(map[uuid.UUID]*models.OfferOwner),
	}
}

func (m *mockOfferRepository) Create(ctx context.Context, offer *models.Offer, details []models.OfferDetail) error {
	offer.ID = uuid.New()
	now := time.Now()
	offer.CreatedAt = now
	offer.UpdatedAt = now
	stored := make([]models.OfferDetail, 0, len(details))
	for _, d := range details {
		d.ID = uuid.New()
		d.OfferID = offer.ID
		stored = append(stored, d)
	}
	m.offers[offer.ID] = offer
	m.details[offer.ID] = stored
	return nil
}

func (m *mockOfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	offer, ok := m.offers[id]
	if !ok {
		return nil, repository.ErrOfferNotFound
	}
	copied := *offer
	return &copied, nil
}

func (m *mockOfferRepository) ListDetails(ctx context.Context, offerID uuid.UUID) ([]models.OfferDetail, error) {
	return m.details[offerID], nil
}

func (m *mockOfferRepository) GetDetailByID(ctx context.Context, id uuid.UUID) (*models.OfferDetail, error) {
	for _, list := range m.details {
		for _, d := range list {
			if d.ID == id {
				copied := d
				return &copied, nil
			}
		}
	}
	return nil, repository.ErrOfferDetailNotFound
}

func (m *mockOfferRepository) Update(ctx context.Context, offer *models.Offer, details []models.OfferDetail) error {
	stored, ok := m.offers[offer.ID]
	if !ok {
		return repository.ErrOfferNotFound
	}
	stored.Title = offer.Title
	stored.Image = offer.Image
	stored.Description = offer.Description
	stored.UpdatedAt = time.Now()

	for _, d := range details {
		matched := false
		for i, existing := range m.details[offer.ID] {
			if existing.OfferType == d.OfferType {
				d.ID = existing.ID
				d.OfferID = offer.ID
				m.details[offer.ID][i] = d
				matched = true
			}
		}
		if !matched {
			return repository.ErrOfferDetailNotFound
		}
	}
	return nil
}

func (m *mockOfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.offers[id]; !ok {
		return repository.ErrOfferNotFound
	}
	delete(m.offers, id)
	delete(m.details, id)
	return nil
}

func (m *mockOfferRepository) List(ctx context.Context, params repository.OfferListParams) ([]models.Offer, int, error) {
	offers := make([]models.Offer, 0, len(m.offers))
	for _, o := range m.offers {
		offers = append(offers, *o)
	}
	return offers, len(offers), nil
}

func (m *mockOfferRepository) ListDetailRefs(ctx context.Context, offerIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	refs := make(map[uuid.UUID][]uuid.UUID)
	for _, id := range offerIDs {
		for _, d := range m.details[id] {
			refs[id] = append(refs[id], d.ID)
		}
	}
	return refs, nil
}

func (m *mockOfferRepository) GetOwner(ctx context.Context, userID uuid.UUID) (*models.OfferOwner, error) {
	owner, ok := m.owners[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return owner, nil
}

func businessCaller() Caller {
	return Caller{ID: uuid.New(), Role: models.RoleBusiness}
}

func threeTiers() []OfferDetailInput {
	return []OfferDetailInput{
		{Title: "Базовый пакет", Revisions: 1, DeliveryTimeInDays: 3, Price: 1000, Features: []string{"логотип"}, OfferType: "basic"},
		{Title: "Стандартный пакет", Revisions: 3, DeliveryTimeInDays: 5, Price: 3000, Features: []string{"логотип", "визитка"}, OfferType: "standard"},
		{Title: "Премиум пакет", Revisions: 10, DeliveryTimeInDays: 7, Price: 9000, Features: []string{"логотип", "визитка", "фирменный стиль"}, OfferType: "premium"},
	}
}

func TestOfferService_CreateAndGet(t *testing.T) {
	repo := newMockOfferRepository()
	svc := NewOfferService(repo)
	ctx := context.Background()
	caller := businessCaller()

	offer, err := svc.Create(ctx, caller, OfferCreateInput{
		Title:       "Дизайн логотипа",
		Description: "Нарисую логотип",
		Details:     threeTiers(),
	})
	assert.NoError(t, err)
	assert.Equal(t, caller.ID, offer.UserID)

	got, err := svc.Get(ctx, offer.ID)
	assert.NoError(t, err)
	assert.Len(t, got.Details, 3)
}

func TestOfferService_CreateComputesAggregates(t *testing.T) {
	repo := newMockOfferRepository()
	svc := NewOfferService(repo)
	caller := businessCaller()

	// Агрегаты должны быть посчитаны уже в ответе на создание,
	// без повторного чтения из базы.
	offer, err := svc.Create(context.Background(), caller, OfferCreateInput{
		Title:   "Дизайн логотипа",
		Details: threeTiers(),
	})
	assert.NoError(t, err)
	assert.Equal(t, 1000, offer.MinPrice)
	assert.Equal(t, 3, offer.MinDeliveryTime)
}

func TestOfferService_CreateRequiresBusiness(t *testing.T) {
	repo := newMockOfferRepository()
	svc := NewOfferService(repo)

	caller := Caller{ID: uuid.New(), Role: models.RoleCustomer}
	_, err := svc.Create(context.Background(), caller, OfferCreateInput{
		Title:   "Дизайн логотипа",
		Details: threeTiers(),
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestOfferService_CreateRequiresThreeTiers(t *testing.T) {
	repo := newMockOfferRepository()
	svc := NewOfferService(repo)
	ctx := context.Background()
	caller := businessCaller()

	_, err := svc.Create(ctx, caller, OfferCreateInput{
		Title:   "Дизайн логотипа",
		Details: threeTiers()[:2],
	})
	assert.True(t, apperror.IsValidation(err))

	// Три тарифа, но один тип дважды.
	tiers := threeTiers()
	tiers[2].OfferType = "basic"
	_, err = svc.Create(ctx, caller, OfferCreateInput{
		Title:   "Дизайн логотипа",
		Details: tiers,
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestOfferService_CreateRejectsNegativePrice(t *testing.T) {
	repo := newMockOfferRepository()
	svc := NewOfferService(repo)
	caller := businessCaller()

	tiers := threeTiers()
	tiers[0].Price = -100
	_, err := svc.Create(context.Background(), caller, OfferCreateInput{
		Title:   "Дизайн логотипа",
		Details: tiers,
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestOfferService_UpdateOwnerOnly(t *testing.T) {
	repo := newMockOfferRepository()
	svc := NewOfferService(repo)
	ctx := context.Background()
	owner := businessCaller()

	offer, err := svc.Create(ctx, owner, OfferCreateInput{
		Title:   "Дизайн логотипа",
		Details: threeTiers(),
	})
	assert.NoError(t, err)

	stranger := businessCaller()
	newTitle := "Другое название"
	_, err = svc.Update(ctx, stranger, offer.ID, OfferUpdateInput{Title: &newTitle})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := svc.Update(ctx, owner, offer.ID, OfferUpdateInput{Title: &newTitle})
	assert.NoError(t, err)
	assert.Equal(t, "Другое название", updated.Title)
}

func TestOfferService_UpdateDetailByType(t *testing.T) {
	repo := newMockOfferRepository()
	svc := NewOfferService(repo)
	ctx := context.Background()
	owner := businessCaller()

	offer, err := svc.Create(ctx, owner, OfferCreateInput{
		Title:   "Дизайн логотипа",
		Details: threeTiers(),
	})
	assert.NoError(t, err)

	updated, err := svc.Update(ctx, owner, offer.ID, OfferUpdateInput{
		Details: []OfferDetailInput{
			{Title: "Премиум плюс", Revisions: 20, DeliveryTimeInDays: 10, Price: 15000, Features: []string{"всё включено"}, OfferType: "premium"},
		},
	})
	assert.NoError(t, err)

	var premium *models.OfferDetail
	for i := range updated.Details {
		if updated.Details[i].OfferType == models.OfferTypePremium {
			premium = &updated.Details[i]
		}
	}
	assert.NotNil(t, premium)
	assert.Equal(t, "Премиум плюс", premium.Title)
	assert.Equal(t, 15000, premium.Price)

	// Тариф без offer_type отклоняется.
	_, err = svc.Update(ctx, owner, offer.ID, OfferUpdateInput{
		Details: []OfferDetailInput{
			{Title: "Без типа", Price: 100},
		},
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestOfferService_DeleteOwnerOnly(t *testing.T) {
	repo := newMockOfferRepository()
	svc := NewOfferService(repo)
	ctx := context.Background()
	owner := businessCaller()

	offer, err := svc.Create(ctx, owner, OfferCreateInput{
		Title:   "Дизайн логотипа",
		Details: threeTiers(),
	})
	assert.NoError(t, err)

	stranger := Caller{ID: uuid.New(), Role: models.RoleCustomer}
	assert.ErrorIs(t, svc.Delete(ctx, stranger, offer.ID), apperror.ErrForbidden)

	// Staff флаг не даёт права на чужой оффер.
	staff := Caller{ID: uuid.New(), Role: models.RoleCustomer, IsStaff: true}
	assert.ErrorIs(t, svc.Delete(ctx, staff, offer.ID), apperror.ErrForbidden)

	assert.NoError(t, svc.Delete(ctx, owner, offer.ID))

	_, err = svc.Get(ctx, offer.ID)
	assert.ErrorIs(t, err, apperror.ErrOfferNotFound)
}

func TestOfferService_GetUnknown(t *testing.T) {
	repo := newMockOfferRepository()
	svc := NewOfferService(repo)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrOfferNotFound)

	_, err = svc.GetDetail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperror.ErrOfferDetailNotFound)
}
