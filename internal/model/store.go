package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SlotStore хранилище слотов. Методы-переходы (Hold, Book, Release,
// ReleaseExpired, SoftDelete) атомарны: ожидаемый статус проверяется
// в том же действии, что и запись, проигравший гонку получает ConflictError.
type SlotStore interface {
	Create(ctx context.Context, slot *AvailabilitySlot) error
	Update(ctx context.Context, slot *AvailabilitySlot) error
	GetByID(ctx context.Context, id uuid.UUID) (*AvailabilitySlot, error)
	ListByCoach(ctx context.Context, coachID uuid.UUID, from, to *time.Time, onlyOpen bool) ([]*AvailabilitySlot, error)
	ActiveByCoach(ctx context.Context, coachID uuid.UUID) ([]*AvailabilitySlot, error)
	LockCoach(ctx context.Context, coachID uuid.UUID) error
	Hold(ctx context.Context, slotID, clientID uuid.UUID, heldAt time.Time) (*AvailabilitySlot, error)
	Book(ctx context.Context, slotID, clientID uuid.UUID, from SlotStatus) (*AvailabilitySlot, error)
	Release(ctx context.Context, slotID uuid.UUID) (*AvailabilitySlot, error)
	ReleaseExpired(ctx context.Context, slotID uuid.UUID, cutoff time.Time) (bool, error)
	ExpiredHolds(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error)
	SoftDelete(ctx context.Context, slotID uuid.UUID, deletedAt time.Time) error
}

// SessionRecorder внешний коллаборатор, материализующий занятие
// при бронировании. Его запись обязана участвовать в той же транзакции,
// что и перевод слота в BOOKED.
type SessionRecorder interface {
	Create(ctx context.Context, session *CoachSession) error
	CountByClient(ctx context.Context, clientID uuid.UUID) (int, error)
}

// AccessStore связь клиент-тренер
type AccessStore interface {
	IsClientOf(ctx context.Context, clientID, coachID uuid.UUID) (bool, error)
	Grant(ctx context.Context, clientID, coachID uuid.UUID) error
	Revoke(ctx context.Context, clientID, coachID uuid.UUID) error
}

// Store точка входа в хранилище. WithinTx выполняет fn против копии Store,
// привязанной к одной транзакции: всё внутри либо коммитится целиком,
// либо откатывается целиком.
type Store interface {
	Slots() SlotStore
	Sessions() SessionRecorder
	Access() AccessStore
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
