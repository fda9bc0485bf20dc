package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/marketplace-backend/internal/models"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

func newReviewTestRouter(authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	if authenticated {
		r.Use(withCaller(service.Caller{ID: uuid.New(), Role: models.RoleCustomer}))
	}

	handler := &ReviewHandler{reviews: service.NewReviewService(nil, nil)}
	r.POST("/reviews/", handler.Create)
	r.PATCH("/reviews/:id/", handler.Update)
	r.DELETE("/reviews/:id/", handler.Delete)
	return r
}

func TestReviewHandler_Unauthorized(t *testing.T) {
	r := newReviewTestRouter(false)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/reviews/"},
		{http.MethodPatch, "/reviews/" + uuid.NewString() + "/"},
		{http.MethodDelete, "/reviews/" + uuid.NewString() + "/"},
	} {
		req, _ := http.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestReviewHandler_UpdateRejectsExtraFields(t *testing.T) {
	r := newReviewTestRouter(true)

	// Поменять адресата отзыва через PATCH нельзя.
	body := `{"rating": 4, "business_user": "` + uuid.NewString() + `"}`
	req, _ := http.NewRequest(http.MethodPatch, "/reviews/"+uuid.NewString()+"/", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "недопустимые поля")
}

func TestReviewHandler_UpdateInvalidUUID(t *testing.T) {
	r := newReviewTestRouter(true)

	req, _ := http.NewRequest(http.MethodPatch, "/reviews/42/", strings.NewReader(`{"rating": 4}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_CreateInvalidJSON(t *testing.T) {
	r := newReviewTestRouter(true)

	req, _ := http.NewRequest(http.MethodPost, "/reviews/", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
