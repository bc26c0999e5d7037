package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/booking_engine/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SlotHandler HTTP-обработчики операций движка
type SlotHandler struct {
	availability *service.AvailabilityService
	booking      *service.BookingService
}

func NewSlotHandler(availability *service.AvailabilityService, booking *service.BookingService) *SlotHandler {
	return &SlotHandler{
		availability: availability,
		booking:      booking,
	}
}

// CreateSlot обрабатывает POST /v1/slots
func (h *SlotHandler) CreateSlot(c echo.Context) error {
	var in service.CreateSlotInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	slot, err := h.availability.CreateSlot(c.Request().Context(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, slot)
}

// UpdateSlot обрабатывает PATCH /v1/slots/:id
func (h *SlotHandler) UpdateSlot(c echo.Context) error {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}

	var in service.UpdateSlotInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	slot, err := h.availability.UpdateSlot(c.Request().Context(), actorFrom(c), slotID, in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, slot)
}

// DeleteSlot обрабатывает DELETE /v1/slots/:id
func (h *SlotHandler) DeleteSlot(c echo.Context) error {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}

	if err := h.availability.DeleteSlot(c.Request().Context(), actorFrom(c), slotID); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// ListSlots обрабатывает GET /v1/coaches/:id/slots?from=...&to=...
func (h *SlotHandler) ListSlots(c echo.Context) error {
	coachID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coach id"})
	}

	from, err := timeParam(c, "from")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from parameter, want RFC3339"})
	}
	to, err := timeParam(c, "to")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to parameter, want RFC3339"})
	}

	slots, err := h.availability.ListSlots(c.Request().Context(), actorFrom(c), coachID, from, to)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"slots": slots})
}

// HoldSlot обрабатывает POST /v1/slots/:id/hold
func (h *SlotHandler) HoldSlot(c echo.Context) error {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}

	slot, err := h.availability.HoldSlot(c.Request().Context(), actorFrom(c), slotID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, slot)
}

// ReleaseSlot обрабатывает POST /v1/slots/:id/release
func (h *SlotHandler) ReleaseSlot(c echo.Context) error {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}

	slot, err := h.availability.ReleaseSlot(c.Request().Context(), actorFrom(c), slotID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, slot)
}

// BookSlot обрабатывает POST /v1/slots/:id/book
func (h *SlotHandler) BookSlot(c echo.Context) error {
	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid slot id"})
	}

	slot, err := h.booking.BookSlot(c.Request().Context(), actorFrom(c), slotID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, slot)
}

// GrantClient обрабатывает POST /v1/coaches/:id/clients/:clientID
func (h *SlotHandler) GrantClient(c echo.Context) error {
	coachID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coach id"})
	}
	clientID, err := uuid.Parse(c.Param("clientID"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client id"})
	}

	if err := h.availability.GrantClient(c.Request().Context(), actorFrom(c), coachID, clientID); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RevokeClient обрабатывает DELETE /v1/coaches/:id/clients/:clientID
func (h *SlotHandler) RevokeClient(c echo.Context) error {
	coachID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coach id"})
	}
	clientID, err := uuid.Parse(c.Param("clientID"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client id"})
	}

	if err := h.availability.RevokeClient(c.Request().Context(), actorFrom(c), coachID, clientID); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func timeParam(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
