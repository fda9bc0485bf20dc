package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/marketplace-backend/internal/http/middleware"
	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

// withCaller подставляет аутентифицированного вызывающего в контекст,
// как это делает AuthMiddleware после проверки токена.
func withCaller(caller service.Caller) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextCallerKey, caller)
		c.Next()
	}
}

func newOrderTestRouter(authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	if authenticated {
		r.Use(withCaller(service.Caller{ID: uuid.New(), Role: models.RoleCustomer}))
	}

	handler := &OrderHandler{orders: service.NewOrderService(nil, nil, nil)}
	r.GET("/orders/", handler.List)
	r.POST("/orders/", handler.Create)
	r.GET("/orders/:id/", handler.Get)
	r.PATCH("/orders/:id/", handler.UpdateStatus)
	return r
}

func TestOrderHandler_Unauthorized(t *testing.T) {
	r := newOrderTestRouter(false)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/orders/"},
		{http.MethodPost, "/orders/"},
		{http.MethodGet, "/orders/" + uuid.NewString() + "/"},
		{http.MethodPatch, "/orders/" + uuid.NewString() + "/"},
	} {
		req, _ := http.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestOrderHandler_CreateRejectsExtraFields(t *testing.T) {
	r := newOrderTestRouter(true)

	body := `{"offer_detail_id": "` + uuid.NewString() + `", "status": "completed"}`
	req, _ := http.NewRequest(http.MethodPost, "/orders/", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "недопустимые поля")
}

func TestOrderHandler_UpdateStatusRejectsExtraFields(t *testing.T) {
	r := newOrderTestRouter(true)

	body := `{"status": "completed", "business_user": "` + uuid.NewString() + `"}`
	req, _ := http.NewRequest(http.MethodPatch, "/orders/"+uuid.NewString()+"/", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "недопустимые поля")
}

func TestOrderHandler_InvalidUUID(t *testing.T) {
	r := newOrderTestRouter(true)

	req, _ := http.NewRequest(http.MethodGet, "/orders/not-a-uuid/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_CreateInvalidJSON(t *testing.T) {
	r := newOrderTestRouter(true)

	req, _ := http.NewRequest(http.MethodPost, "/orders/", strings.NewReader("{broken"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
