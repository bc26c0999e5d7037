package model

import "github.com/google/uuid"

type Role string

const (
	RoleCoach  Role = "COACH"
	RoleClient Role = "CLIENT"
	RoleAdmin  Role = "ADMIN"
)

// Actor вызывающая сторона, аутентификация выполняется внешним слоем.
// Движок проверяет только авторизацию (роль и принадлежность к тренеру).
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

// IsCoach проверяет роль тренера
func (a Actor) IsCoach() bool { return a.Role == RoleCoach }

// IsClient проверяет роль клиента
func (a Actor) IsClient() bool { return a.Role == RoleClient }

// IsAdmin проверяет роль администратора
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
