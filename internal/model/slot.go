package model

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusOpen   SlotStatus = "OPEN"
	SlotStatusHeld   SlotStatus = "HELD"
	SlotStatusBooked SlotStatus = "BOOKED"
)

// AvailabilitySlot слот доступности тренера, который может забронировать клиент
type AvailabilitySlot struct {
	ID        uuid.UUID  `json:"id"`
	CoachID   uuid.UUID  `json:"coach_id"`
	StartTime time.Time  `json:"start_time"` // всегда в UTC
	EndTime   time.Time  `json:"end_time"`   // всегда в UTC
	Timezone  string     `json:"timezone"`   // IANA-зона, только для отображения
	Status    SlotStatus `json:"status"`
	ClientID  *uuid.UUID `json:"client_id"` // указатель - nil пока слот OPEN
	HeldAt    *time.Time `json:"held_at"`   // когда слот был взят в HELD, для sweeper'а
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at"` // soft-delete, скрывает слот из всех запросов
}

// IsDeleted проверяет, помечен ли слот как удалённый
func (s *AvailabilitySlot) IsDeleted() bool {
	return s.DeletedAt != nil
}

// HeldBy проверяет, удерживается ли слот указанным клиентом
func (s *AvailabilitySlot) HeldBy(clientID uuid.UUID) bool {
	return s.Status == SlotStatusHeld && s.ClientID != nil && *s.ClientID == clientID
}
