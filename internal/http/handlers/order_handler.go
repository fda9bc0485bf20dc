package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/marketplace-backend/internal/dto"
	"github.com/ignatzorin/marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// OrderHandler предоставляет HTTP слой для заказов.
type OrderHandler struct {
	orders *service.OrderService
}

// NewOrderHandler создаёт хэндлер.
func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List обрабатывает GET /orders/. Возвращаются только заказы, где
// вызывающий является одной из сторон.
func (h *OrderHandler) List(c *gin.Context) {
	caller, err := common.CurrentCaller(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	orders, err := h.orders.List(c.Request.Context(), caller)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	results := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		results = append(results, dto.NewOrderResponse(&orders[i], true))
	}

	c.JSON(http.StatusOK, results)
}

// Create обрабатывает POST /orders/. В теле допустимо только поле
// offer_detail_id.
func (h *OrderHandler) Create(c *gin.Context) {
	caller, err := common.CurrentCaller(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.OrderCreateRequest
	if err := common.BindStrictJSON(c, &req, "offer_detail_id"); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.Create(c.Request.Context(), caller, req.OfferDetailID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewOrderResponse(order, false))
}

// Get обрабатывает GET /orders/:id/.
func (h *OrderHandler) Get(c *gin.Context) {
	caller, err := common.CurrentCaller(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.Get(c.Request.Context(), caller, orderID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOrderResponse(order, true))
}

// UpdateStatus обрабатывает PATCH /orders/:id/. В теле допустимо только
// поле status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	caller, err := common.CurrentCaller(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.OrderStatusUpdateRequest
	if err := common.BindStrictJSON(c, &req, "status"); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), caller, orderID, req.Status)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOrderResponse(order, true))
}

// Delete обрабатывает DELETE /orders/:id/. Операция доступна только
// staff пользователям.
func (h *OrderHandler) Delete(c *gin.Context) {
	caller, err := common.CurrentCaller(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	orderID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.orders.Delete(c.Request.Context(), caller, orderID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CountInProgress обрабатывает GET /order-count/:pk/.
func (h *OrderHandler) CountInProgress(c *gin.Context) {
	businessUserID, err := common.ParseUUIDParam(c, "pk")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	count, err := h.orders.CountForBusiness(c.Request.Context(), businessUserID, models.OrderStatusInProgress)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{OrderCount: &count})
}

// CountCompleted обрабатывает GET /completed-order-count/:pk/.
func (h *OrderHandler) CountCompleted(c *gin.Context) {
	businessUserID, err := common.ParseUUIDParam(c, "pk")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	count, err := h.orders.CountForBusiness(c.Request.Context(), businessUserID, models.OrderStatusCompleted)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CountResponse{CompletedOrderCount: &count})
}
