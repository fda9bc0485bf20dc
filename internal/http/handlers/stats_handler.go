package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/marketplace-backend/internal/http/handlers/common"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// StatsHandler предоставляет HTTP слой для публичной статистики.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler создаёт хэндлер.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// BaseInfo обрабатывает GET /base-info/. Эндпоинт открыт без авторизации.
func (h *StatsHandler) BaseInfo(c *gin.Context) {
	info, err := h.stats.GetBaseInfo(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}
