package model

import (
	"time"

	"github.com/google/uuid"
)

// CoachSession запись о занятии, создаётся при успешном бронировании слота.
// SessionNumber - порядковый номер занятия клиента у этого тренера,
// считается по количеству предыдущих неудалённых занятий.
type CoachSession struct {
	ID            uuid.UUID  `json:"id"`
	CoachID       uuid.UUID  `json:"coach_id"`
	ClientID      uuid.UUID  `json:"client_id"`
	SlotID        uuid.UUID  `json:"slot_id"`
	ScheduledAt   time.Time  `json:"scheduled_at"`
	SessionNumber int        `json:"session_number"`
	CreatedAt     time.Time  `json:"created_at"`
	DeletedAt     *time.Time `json:"deleted_at"`
}
