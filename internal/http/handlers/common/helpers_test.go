package common

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newJSONContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	return c
}

func TestBindStrictJSON(t *testing.T) {
	type payload struct {
		Status string `json:"status"`
	}

	var req payload
	c := newJSONContext(t, `{"status": "completed"}`)
	err := BindStrictJSON(c, &req, "status")
	assert.NoError(t, err)
	assert.Equal(t, "completed", req.Status)
}

func TestBindStrictJSON_ExtraFields(t *testing.T) {
	type payload struct {
		Status string `json:"status"`
	}

	var req payload
	c := newJSONContext(t, `{"status": "completed", "price": 1, "id": 2}`)
	err := BindStrictJSON(c, &req, "status")
	assert.Error(t, err)
	// Лишние поля перечисляются в сообщении по алфавиту.
	assert.Equal(t, "недопустимые поля: id, price", err.Error())
}

func TestBindStrictJSON_InvalidJSON(t *testing.T) {
	var req struct{}
	c := newJSONContext(t, `{broken`)
	assert.Error(t, BindStrictJSON(c, &req))
}

func TestParseUUIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "6ba7b810-9dad-11d1-80b4-00c04fd430c8"}}

	id, err := ParseUUIDParam(c, "id")
	assert.NoError(t, err)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", id.String())

	c.Params = gin.Params{{Key: "id", Value: "42"}}
	_, err = ParseUUIDParam(c, "id")
	assert.ErrorIs(t, err, ErrInvalidUUID)
}
