package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/dto"
	"github.com/ignatzorin/marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/marketplace-backend/internal/repository"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// OfferHandler предоставляет HTTP слой для офферов и их тарифов.
type OfferHandler struct {
	offers *service.OfferService
}

// NewOfferHandler создаёт хэндлер.
func NewOfferHandler(offers *service.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

// List обрабатывает GET /offers/. Эндпоинт открыт без авторизации.
func (h *OfferHandler) List(c *gin.Context) {
	params, err := parseOfferListParams(c)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	page := dto.ParsePage(c.Query("page"))
	pageSize := dto.ParsePageSize(c.Query("page_size"))
	params.Limit = pageSize
	params.Offset = (page - 1) * pageSize

	result, err := h.offers.List(c.Request.Context(), *params)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	items := make([]dto.OfferListItemResponse, 0, len(result.Offers))
	for i := range result.Offers {
		offer := &result.Offers[i]
		items = append(items, dto.NewOfferListItemResponse(offer, result.DetailRefs[offer.ID]))
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(
		c.Request.URL.Path, c.Request.URL.Query(), page, pageSize, result.Total, items))
}

// Create обрабатывает POST /offers/.
func (h *OfferHandler) Create(c *gin.Context) {
	caller, err := common.CurrentCaller(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.OfferCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректный JSON")
		return
	}

	offer, err := h.offers.Create(c.Request.Context(), caller, service.OfferCreateInput{
		Title:       req.Title,
		Image:       req.Image,
		Description: req.Description,
		Details:     toDetailInputs(req.Details),
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, offer)
}

// Retrieve обрабатывает GET /offers/:id/. Требует авторизации и отдаёт
// полные тарифы с данными владельца.
func (h *OfferHandler) Retrieve(c *gin.Context) {
	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	offer, err := h.offers.Get(c.Request.Context(), offerID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	owner, err := h.offers.GetOwner(c.Request.Context(), offer.UserID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOfferRetrieveResponse(offer, owner))
}

// Update обрабатывает PATCH и PUT /offers/:id/.
func (h *OfferHandler) Update(c *gin.Context) {
	caller, err := common.CurrentCaller(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.OfferUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректный JSON")
		return
	}

	offer, err := h.offers.Update(c.Request.Context(), caller, offerID, service.OfferUpdateInput{
		Title:       req.Title,
		Image:       req.Image,
		Description: req.Description,
		Details:     toDetailInputs(req.Details),
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// Delete обрабатывает DELETE /offers/:id/.
func (h *OfferHandler) Delete(c *gin.Context) {
	caller, err := common.CurrentCaller(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.offers.Delete(c.Request.Context(), caller, offerID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetDetail обрабатывает GET /offerdetails/:id/.
func (h *OfferHandler) GetDetail(c *gin.Context) {
	detailID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	detail, err := h.offers.GetDetail(c.Request.Context(), detailID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// parseOfferListParams разбирает фильтры спискового эндпоинта.
func parseOfferListParams(c *gin.Context) (*repository.OfferListParams, error) {
	params := &repository.OfferListParams{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
	}

	if raw := c.Query("creator_id"); raw != "" {
		creatorID, err := uuid.Parse(raw)
		if err != nil {
			return nil, common.ErrInvalidUUID
		}
		params.CreatorID = &creatorID
	}

	if raw := c.Query("min_price"); raw != "" {
		minPrice, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errInvalidIntQuery("min_price")
		}
		params.MinPrice = &minPrice
	}

	if raw := c.Query("max_delivery_time"); raw != "" {
		maxDelivery, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errInvalidIntQuery("max_delivery_time")
		}
		params.MaxDeliveryTime = &maxDelivery
	}

	return params, nil
}

// toDetailInputs конвертирует тело запроса в входные данные сервиса.
func toDetailInputs(details []dto.OfferDetailRequest) []service.OfferDetailInput {
	inputs := make([]service.OfferDetailInput, 0, len(details))
	for _, d := range details {
		inputs = append(inputs, service.OfferDetailInput{
			Title:              d.Title,
			Revisions:          d.Revisions,
			DeliveryTimeInDays: d.DeliveryTimeInDays,
			Price:              d.Price,
			Features:           d.Features,
			OfferType:          d.OfferType,
		})
	}
	return inputs
}
