package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/marketplace-backend/internal/dto"
	"github.com/ignatzorin/marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// ProfileHandler предоставляет HTTP слой для профилей.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler создаёт хэндлер.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get обрабатывает GET /profile/:pk/.
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "pk")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProfileDetailResponse(profile))
}

// Update обрабатывает PATCH /profile/:pk/.
// Поля type и username игнорируются: тип зафиксирован при регистрации.
func (h *ProfileHandler) Update(c *gin.Context) {
	caller, err := common.CurrentCaller(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	userID, err := common.ParseUUIDParam(c, "pk")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректный JSON")
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), caller, userID, service.ProfileUpdateInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		File:         req.File,
		Location:     req.Location,
		Tel:          req.Tel,
		Description:  req.Description,
		WorkingHours: req.WorkingHours,
		Email:        req.Email,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProfileDetailResponse(profile))
}

// ListBusiness обрабатывает GET /profiles/business/.
func (h *ProfileHandler) ListBusiness(c *gin.Context) {
	profiles, err := h.profiles.ListByRole(c.Request.Context(), models.RoleBusiness)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	results := make([]dto.BusinessProfileResponse, 0, len(profiles))
	for i := range profiles {
		results = append(results, dto.NewBusinessProfileResponse(&profiles[i]))
	}

	c.JSON(http.StatusOK, results)
}

// ListCustomer обрабатывает GET /profiles/customer/.
func (h *ProfileHandler) ListCustomer(c *gin.Context) {
	profiles, err := h.profiles.ListByRole(c.Request.Context(), models.RoleCustomer)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	results := make([]dto.CustomerProfileResponse, 0, len(profiles))
	for i := range profiles {
		results = append(results, dto.NewCustomerProfileResponse(&profiles[i]))
	}

	c.JSON(http.StatusOK, results)
}
