package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/marketplace-backend/internal/config"
	"github.com/ignatzorin/marketplace-backend/internal/http/handlers"
	"github.com/ignatzorin/marketplace-backend/internal/http/middleware"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// SetupRouter собирает маршруты HTTP API.
// Открыты без авторизации: регистрация, вход, список офферов,
// статистика платформы и health check. Остальное за bearer токеном.
func SetupRouter(
	cfg *config.Config,
	authService *service.AuthService,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	offerHandler *handlers.OfferHandler,
	orderHandler *handlers.OrderHandler,
	reviewHandler *handlers.ReviewHandler,
	statsHandler *handlers.StatsHandler,
	mediaHandler *handlers.MediaHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	authRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
	r.POST("/registration/", authRateLimit, authHandler.Register)
	r.POST("/login/", authRateLimit, authHandler.Login)

	// Публичные маршруты
	r.GET("/offers/", offerHandler.List)
	r.GET("/base-info/", statsHandler.BaseInfo)

	// Защищённые маршруты
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		protected.GET("/profile/:pk/", middleware.UUIDValidator("pk"), profileHandler.Get)
		protected.PATCH("/profile/:pk/", middleware.UUIDValidator("pk"), profileHandler.Update)
		protected.GET("/profiles/business/", profileHandler.ListBusiness)
		protected.GET("/profiles/customer/", profileHandler.ListCustomer)

		protected.POST("/offers/", offerHandler.Create)
		protected.GET("/offers/:id/", middleware.UUIDValidator("id"), offerHandler.Retrieve)
		protected.PUT("/offers/:id/", middleware.UUIDValidator("id"), offerHandler.Update)
		protected.PATCH("/offers/:id/", middleware.UUIDValidator("id"), offerHandler.Update)
		protected.DELETE("/offers/:id/", middleware.UUIDValidator("id"), offerHandler.Delete)
		protected.GET("/offerdetails/:id/", middleware.UUIDValidator("id"), offerHandler.GetDetail)

		protected.GET("/orders/", orderHandler.List)
		protected.POST("/orders/", orderHandler.Create)
		protected.GET("/orders/:id/", middleware.UUIDValidator("id"), orderHandler.Get)
		protected.PATCH("/orders/:id/", middleware.UUIDValidator("id"), orderHandler.UpdateStatus)
		protected.DELETE("/orders/:id/", middleware.UUIDValidator("id"), orderHandler.Delete)
		protected.GET("/order-count/:pk/", middleware.UUIDValidator("pk"), orderHandler.CountInProgress)
		protected.GET("/completed-order-count/:pk/", middleware.UUIDValidator("pk"), orderHandler.CountCompleted)

		protected.GET("/reviews/", reviewHandler.List)
		protected.POST("/reviews/", reviewHandler.Create)
		protected.GET("/reviews/:id/", middleware.UUIDValidator("id"), reviewHandler.Get)
		protected.PATCH("/reviews/:id/", middleware.UUIDValidator("id"), reviewHandler.Update)
		protected.DELETE("/reviews/:id/", middleware.UUIDValidator("id"), reviewHandler.Delete)

		protected.POST("/uploads/", mediaHandler.Upload)
	}

	return r
}
