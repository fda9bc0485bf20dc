package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/dto"
	"github.com/ignatzorin/marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/repository"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// ReviewHandler предоставляет HTTP слой для отзывов.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler создаёт хэндлер.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// List обрабатывает GET /reviews/.
func (h *ReviewHandler) List(c *gin.Context) {
	params := repository.ReviewListParams{
		Ordering: c.Query("ordering"),
	}

	if raw := c.Query("business_user"); raw != "" {
		businessUserID, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, common.ErrInvalidUUID.Error())
			return
		}
		params.BusinessUserID = &businessUserID
	}

	if raw := c.Query("reviewer_id"); raw != "" {
		reviewerID, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, common.ErrInvalidUUID.Error())
			return
		}
		params.ReviewerID = &reviewerID
	}

	reviews, err := h.reviews.List(c.Request.Context(), params)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	if reviews == nil {
		reviews = []models.Review{}
	}
	c.JSON(http.StatusOK, reviews)
}

// Create обрабатывает POST /reviews/.
func (h *ReviewHandler) Create(c *gin.Context) {
	caller, err := common.CurrentCaller(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.ReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректный JSON")
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), caller, service.ReviewCreateInput{
		BusinessUserID: req.BusinessUser,
		Rating:         req.Rating,
		Description:    req.Description,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// Get обрабатывает GET /reviews/:id/.
func (h *ReviewHandler) Get(c *gin.Context) {
	reviewID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	review, err := h.reviews.Get(c.Request.Context(), reviewID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// Update обрабатывает PATCH /reviews/:id/. В теле допустимы только
// rating и description, любое другое поле отклоняется.
func (h *ReviewHandler) Update(c *gin.Context) {
	caller, err := common.CurrentCaller(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	reviewID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.ReviewUpdateRequest
	if err := common.BindStrictJSON(c, &req, "rating", "description"); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	review, err := h.reviews.Update(c.Request.Context(), caller, reviewID, service.ReviewUpdateInput{
		Rating:      req.Rating,
		Description: req.Description,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// Delete обрабатывает DELETE /reviews/:id/.
func (h *ReviewHandler) Delete(c *gin.Context) {
	caller, err := common.CurrentCaller(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	reviewID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), caller, reviewID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
