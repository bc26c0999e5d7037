package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_engine/internal/model"
	"github.com/Freeeeeet/booking_engine/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SessionRepository хранилище записей о занятиях.
// Реализует интерфейс SessionRecorder движка бронирования: запись занятия
// делается тем же tx, что и перевод слота в BOOKED.
type SessionRepository struct {
	db base.DB
}

func NewSessionRepository(db base.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// WithTx возвращает копию репозитория, привязанную к транзакции
func (r *SessionRepository) WithTx(tx pgx.Tx) *SessionRepository {
	return &SessionRepository{db: tx}
}

// Create создаёт запись о занятии
func (r *SessionRepository) Create(ctx context.Context, session *model.CoachSession) error {
	query := `
		INSERT INTO coach_sessions (id, coach_id, client_id, slot_id, scheduled_at, session_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		session.ID,
		session.CoachID,
		session.ClientID,
		session.SlotID,
		session.ScheduledAt,
		session.SessionNumber,
	).Scan(&session.CreatedAt)

	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// CountByClient считает неудалённые занятия клиента,
// по ним вычисляется порядковый номер следующего занятия
func (r *SessionRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM coach_sessions
		WHERE client_id = $1 AND deleted_at IS NULL
	`

	var count int
	if err := r.db.QueryRow(ctx, query, clientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sessions by client: %w", err)
	}

	return count, nil
}
