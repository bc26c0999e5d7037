package httpapi

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/booking_engine/internal/model"
	"github.com/labstack/echo/v4"
)

// StatusFor сопоставляет ошибку таксономии движка с HTTP-статусом
func StatusFor(err error) int {
	switch {
	case model.IsValidation(err):
		return http.StatusBadRequest
	case model.IsAuthorization(err):
		return http.StatusForbidden
	case model.IsNotFound(err):
		return http.StatusNotFound
	case model.IsConflict(err):
		return http.StatusConflict
	case model.IsDependency(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError отдаёт ошибку клиенту. Конфликт получает отдельное
// сообщение "выберите другой слот": его нельзя путать с ошибкой ввода,
// клиенту нужно обновить данные и повторить.
func writeError(c echo.Context, err error) error {
	status := StatusFor(err)
	body := echo.Map{"error": err.Error()}

	var validation *model.ValidationError
	if errors.As(err, &validation) && validation.Field != "" {
		body["field"] = validation.Field
	}

	var conflict *model.ConflictError
	if errors.As(err, &conflict) {
		body["error"] = "slot is no longer available, please pick another"
		body["slot_id"] = conflict.SlotID.String()
	}

	var notFound *model.NotFoundError
	if errors.As(err, &notFound) {
		body["slot_id"] = notFound.SlotID.String()
	}

	return c.JSON(status, body)
}
