package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer собирает echo-сервер с маршрутами движка
func NewServer(handler *SlotHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	v1 := e.Group("/v1", RequireActor)
	v1.POST("/slots", handler.CreateSlot)
	v1.PATCH("/slots/:id", handler.UpdateSlot)
	v1.DELETE("/slots/:id", handler.DeleteSlot)
	v1.POST("/slots/:id/hold", handler.HoldSlot)
	v1.POST("/slots/:id/release", handler.ReleaseSlot)
	v1.POST("/slots/:id/book", handler.BookSlot)
	v1.GET("/coaches/:id/slots", handler.ListSlots)
	v1.POST("/coaches/:id/clients/:clientID", handler.GrantClient)
	v1.DELETE("/coaches/:id/clients/:clientID", handler.RevokeClient)

	return e
}
