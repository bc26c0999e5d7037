package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/booking_engine/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccessRepository связь клиент-тренер. Движок проверяет по ней,
// что клиент бронирует слоты именно своего тренера.
type AccessRepository struct {
	db base.DB
}

func NewAccessRepository(db base.DB) *AccessRepository {
	return &AccessRepository{db: db}
}

// WithTx возвращает копию репозитория, привязанную к транзакции
func (r *AccessRepository) WithTx(tx pgx.Tx) *AccessRepository {
	return &AccessRepository{db: tx}
}

// IsClientOf проверяет, является ли клиент клиентом тренера
func (r *AccessRepository) IsClientOf(ctx context.Context, clientID, coachID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM coach_clients
			WHERE client_id = $1 AND coach_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, clientID, coachID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check client access: %w", err)
	}

	return exists, nil
}

// Grant привязывает клиента к тренеру
func (r *AccessRepository) Grant(ctx context.Context, clientID, coachID uuid.UUID) error {
	query := `
		INSERT INTO coach_clients (client_id, coach_id)
		VALUES ($1, $2)
		ON CONFLICT (client_id, coach_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, clientID, coachID); err != nil {
		return fmt.Errorf("grant client access: %w", err)
	}

	return nil
}

// Revoke отвязывает клиента от тренера. Как и Grant, идемпотентен:
// повторный отзыв несуществующей связи не ошибка.
func (r *AccessRepository) Revoke(ctx context.Context, clientID, coachID uuid.UUID) error {
	query := `
		DELETE FROM coach_clients
		WHERE client_id = $1 AND coach_id = $2
	`

	if _, err := r.db.Exec(ctx, query, clientID, coachID); err != nil {
		return fmt.Errorf("revoke client access: %w", err)
	}

	return nil
}
