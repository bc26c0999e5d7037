package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/booking_engine/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "actor"

// RequireActor извлекает актора из заголовков X-Actor-Id / X-Actor-Role.
// Аутентификацию выполняет внешний шлюз, сюда приходит уже проверенная
// личность; движок доверяет заголовкам и проверяет только авторизацию.
func RequireActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Request().Header.Get("X-Actor-Id"))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid X-Actor-Id"})
		}

		role := model.Role(c.Request().Header.Get("X-Actor-Role"))
		switch role {
		case model.RoleCoach, model.RoleClient, model.RoleAdmin:
		default:
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing or invalid X-Actor-Role"})
		}

		c.Set(actorContextKey, model.Actor{ID: id, Role: role})
		return next(c)
	}
}

func actorFrom(c echo.Context) model.Actor {
	actor, _ := c.Get(actorContextKey).(model.Actor)
	return actor
}
