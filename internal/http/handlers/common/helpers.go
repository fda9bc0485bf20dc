package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/marketplace-backend/internal/http/middleware"
	"github.com/ignatzorin/marketplace-backend/internal/logger"
	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
	"github.com/ignatzorin/marketplace-backend/internal/service"
)

var (
	// ErrCallerNotFound возвращается, когда вызывающий отсутствует в контексте.
	ErrCallerNotFound = errors.New("пользователь не найден в контексте")

	// ErrInvalidUUID возвращается при ошибке разбора UUID.
	ErrInvalidUUID = errors.New("неверный формат UUID")
)

// CurrentCaller извлекает аутентифицированного вызывающего из контекста.
func CurrentCaller(c *gin.Context) (service.Caller, error) {
	raw, exists := c.Get(middleware.ContextCallerKey)
	if !exists {
		return service.Caller{}, ErrCallerNotFound
	}

	caller, ok := raw.(service.Caller)
	if !ok {
		return service.Caller{}, ErrCallerNotFound
	}

	return caller, nil
}

// ParseUUIDParam разбирает UUID из path параметра.
func ParseUUIDParam(c *gin.Context, paramName string) (uuid.UUID, error) {
	param := c.Param(paramName)
	if param == "" {
		return uuid.Nil, fmt.Errorf("параметр %s отсутствует", paramName)
	}

	parsed, err := uuid.Parse(param)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}

	return parsed, nil
}

// RespondAppError преобразует ошибку сервиса в HTTP ответ.
// AppError несёт статус сам, остальное считается внутренней ошибкой.
func RespondAppError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
		return
	}

	if logger.Log != nil {
		logger.Log.WithError(err).Error("внутренняя ошибка при обработке запроса")
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
}

// RespondBadRequest отправляет 400 с сообщением.
func RespondBadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "некорректный запрос"
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// RespondUnauthorized отправляет 401 с сообщением.
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "требуется авторизация"
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
}

// BindStrictJSON читает тело запроса, проверяет отсутствие лишних полей
// и разбирает его в req. Список allowed перечисляет допустимые ключи.
func BindStrictJSON(c *gin.Context, req interface{}, allowed ...string) error {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return fmt.Errorf("не удалось прочитать тело запроса")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return fmt.Errorf("некорректный JSON")
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, key := range allowed {
		allowedSet[key] = true
	}

	var extra []string
	for key := range raw {
		if !allowedSet[key] {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return fmt.Errorf("недопустимые поля: %s", strings.Join(extra, ", "))
	}

	if err := json.Unmarshal(body, req); err != nil {
		return fmt.Errorf("некорректный JSON")
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	return nil
}
