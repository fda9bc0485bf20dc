package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/models"
)

// AuthResponse возвращается при регистрации и входе.
type AuthResponse struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	UserID   uuid.UUID `json:"user_id"`
}

// ProfileDetailResponse содержит полный профиль для GET/PATCH /profile/{id}/.
// Пустые опциональные поля отдаются как "", не как null.
type ProfileDetailResponse struct {
	User         uuid.UUID   `json:"user"`
	Username     string      `json:"username"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	File         string      `json:"file"`
	Location     string      `json:"location"`
	Tel          string      `json:"tel"`
	Description  string      `json:"description"`
	WorkingHours string      `json:"working_hours"`
	Type         models.Role `json:"type"`
	Email        string      `json:"email"`
	CreatedAt    time.Time   `json:"created_at"`
}

// BusinessProfileResponse содержит контактную проекцию business профиля
// для спискового эндпоинта.
type BusinessProfileResponse struct {
	User         uuid.UUID   `json:"user"`
	Username     string      `json:"username"`
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	File         string      `json:"file"`
	Location     string      `json:"location"`
	Tel          string      `json:"tel"`
	Description  string      `json:"description"`
	WorkingHours string      `json:"working_hours"`
	Type         models.Role `json:"type"`
}

// CustomerProfileResponse содержит минимальную проекцию customer профиля:
// идентичность и имя, без контактных полей.
type CustomerProfileResponse struct {
	User      uuid.UUID   `json:"user"`
	Username  string      `json:"username"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	File      string      `json:"file"`
	Type      models.Role `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
}

// DetailRef указывает на тариф оффера в списковой выдаче: идентификатор
// и путь до полного payload-а.
type DetailRef struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}

// OfferListItemResponse содержит списковую проекцию оффера: агрегаты и
// ссылки на тарифы вместо их полных payload-ов.
type OfferListItemResponse struct {
	ID              uuid.UUID   `json:"id"`
	User            uuid.UUID   `json:"user"`
	Title           string      `json:"title"`
	Image           *string     `json:"image"`
	Description     string      `json:"description"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	Details         []DetailRef `json:"details"`
	MinPrice        int         `json:"min_price"`
	MinDeliveryTime int         `json:"min_delivery_time"`
}

// OfferRetrieveResponse содержит детальную проекцию оффера: полные
// тарифы и публичные данные владельца.
type OfferRetrieveResponse struct {
	ID              uuid.UUID            `json:"id"`
	User            uuid.UUID            `json:"user"`
	Title           string               `json:"title"`
	Image           *string              `json:"image"`
	Description     string               `json:"description"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	Details         []models.OfferDetail `json:"details"`
	MinPrice        int                  `json:"min_price"`
	MinDeliveryTime int                  `json:"min_delivery_time"`
	UserDetails     *models.OfferOwner   `json:"user_details"`
}

// OrderResponse содержит заказ со слепком полей тарифа.
type OrderResponse struct {
	ID                 uuid.UUID          `json:"id"`
	CustomerUser       uuid.UUID          `json:"customer_user"`
	BusinessUser       uuid.UUID          `json:"business_user"`
	Title              string             `json:"title"`
	Revisions          int                `json:"revisions"`
	DeliveryTimeInDays int                `json:"delivery_time_in_days"`
	Price              int                `json:"price"`
	Features           []string           `json:"features"`
	OfferType          models.OfferType   `json:"offer_type"`
	Status             models.OrderStatus `json:"status"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          *time.Time         `json:"updated_at,omitempty"`
}

// CountResponse возвращается счётчиками заказов.
type CountResponse struct {
	OrderCount          *int `json:"order_count,omitempty"`
	CompletedOrderCount *int `json:"completed_order_count,omitempty"`
}

// NewAuthResponse собирает ответ регистрации и входа.
func NewAuthResponse(token, username, email string, userID uuid.UUID) AuthResponse {
	return AuthResponse{
		Token:    token,
		Username: username,
		Email:    email,
		UserID:   userID,
	}
}

// NewProfileDetailResponse собирает полную проекцию профиля.
func NewProfileDetailResponse(p *models.Profile) ProfileDetailResponse {
	return ProfileDetailResponse{
		User:         p.UserID,
		Username:     p.Username,
		FirstName:    emptyIfNil(p.FirstName),
		LastName:     emptyIfNil(p.LastName),
		File:         emptyIfNil(p.File),
		Location:     emptyIfNil(p.Location),
		Tel:          emptyIfNil(p.Tel),
		Description:  emptyIfNil(p.Description),
		WorkingHours: emptyIfNil(p.WorkingHours),
		Type:         p.Type,
		Email:        p.Email,
		CreatedAt:    p.CreatedAt,
	}
}

// NewBusinessProfileResponse собирает контактную проекцию business профиля.
func NewBusinessProfileResponse(p *models.Profile) BusinessProfileResponse {
	return BusinessProfileResponse{
		User:         p.UserID,
		Username:     p.Username,
		FirstName:    emptyIfNil(p.FirstName),
		LastName:     emptyIfNil(p.LastName),
		File:         emptyIfNil(p.File),
		Location:     emptyIfNil(p.Location),
		Tel:          emptyIfNil(p.Tel),
		Description:  emptyIfNil(p.Description),
		WorkingHours: emptyIfNil(p.WorkingHours),
		Type:         p.Type,
	}
}

// NewCustomerProfileResponse собирает минимальную проекцию customer профиля.
func NewCustomerProfileResponse(p *models.Profile) CustomerProfileResponse {
	return CustomerProfileResponse{
		User:      p.UserID,
		Username:  p.Username,
		FirstName: emptyIfNil(p.FirstName),
		LastName:  emptyIfNil(p.LastName),
		File:      emptyIfNil(p.File),
		Type:      p.Type,
		CreatedAt: p.CreatedAt,
	}
}

// NewOfferListItemResponse собирает списковую проекцию оффера.
func NewOfferListItemResponse(o *models.Offer, detailIDs []uuid.UUID) OfferListItemResponse {
	refs := make([]DetailRef, 0, len(detailIDs))
	for _, id := range detailIDs {
		refs = append(refs, DetailRef{
			ID:  id,
			URL: fmt.Sprintf("/offerdetails/%s/", id),
		})
	}

	return OfferListItemResponse{
		ID:              o.ID,
		User:            o.UserID,
		Title:           o.Title,
		Image:           o.Image,
		Description:     o.Description,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Details:         refs,
		MinPrice:        o.MinPrice,
		MinDeliveryTime: o.MinDeliveryTime,
	}
}

// NewOfferRetrieveResponse собирает детальную проекцию оффера.
func NewOfferRetrieveResponse(o *models.Offer, owner *models.OfferOwner) OfferRetrieveResponse {
	return OfferRetrieveResponse{
		ID:              o.ID,
		User:            o.UserID,
		Title:           o.Title,
		Image:           o.Image,
		Description:     o.Description,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Details:         o.Details,
		MinPrice:        o.MinPrice,
		MinDeliveryTime: o.MinDeliveryTime,
		UserDetails:     owner,
	}
}

// NewOrderResponse собирает проекцию заказа. В ответе на создание
// updated_at не отдаётся.
func NewOrderResponse(o *models.Order, withUpdatedAt bool) OrderResponse {
	resp := OrderResponse{
		ID:                 o.ID,
		CustomerUser:       o.CustomerUserID,
		BusinessUser:       o.BusinessUserID,
		Title:              o.Title,
		Revisions:          o.Revisions,
		DeliveryTimeInDays: o.DeliveryTimeInDays,
		Price:              o.Price,
		Features:           o.Features,
		OfferType:          o.OfferType,
		Status:             o.Status,
		CreatedAt:          o.CreatedAt,
	}
	if withUpdatedAt {
		updatedAt := o.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// emptyIfNil разворачивает опциональное поле в строку.
func emptyIfNil(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
