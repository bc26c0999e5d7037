package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/booking_engine/internal/model"
	"github.com/Freeeeeet/booking_engine/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const slotColumns = `id, coach_id, start_time, end_time, timezone, status, client_id, held_at, notes, created_at, updated_at, deleted_at`

type SlotRepository struct {
	db base.DB
}

func NewSlotRepository(db base.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

// WithTx возвращает копию репозитория, привязанную к транзакции.
// Все проверки и записи внутри одной операции обязаны идти через
// один и тот же tx, иначе возможна гонка check-then-write.
func (r *SlotRepository) WithTx(tx pgx.Tx) *SlotRepository {
	return &SlotRepository{db: tx}
}

// Create создаёт новый слот
func (r *SlotRepository) Create(ctx context.Context, slot *model.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots (id, coach_id, start_time, end_time, timezone, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		slot.ID,
		slot.CoachID,
		slot.StartTime,
		slot.EndTime,
		slot.Timezone,
		slot.Status,
		slot.Notes,
	).Scan(&slot.CreatedAt, &slot.UpdatedAt)

	if err != nil {
		if base.IsExclusionViolation(err) {
			return &model.ValidationError{Field: "start_time", Reason: "slot overlaps an existing slot"}
		}
		return fmt.Errorf("create slot: %w", err)
	}

	return nil
}

// Update обновляет время и заметку слота. Слот должен оставаться OPEN:
// условие в WHERE и есть compare-and-swap, ноль строк означает конфликт.
func (r *SlotRepository) Update(ctx context.Context, slot *model.AvailabilitySlot) error {
	query := `
		UPDATE availability_slots
		SET start_time = $2, end_time = $3, notes = $4, updated_at = now()
		WHERE id = $1 AND status = 'OPEN' AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query, slot.ID, slot.StartTime, slot.EndTime, slot.Notes).Scan(&slot.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return &model.ConflictError{SlotID: slot.ID, Reason: "slot is no longer open"}
		}
		if base.IsExclusionViolation(err) {
			return &model.ValidationError{Field: "start_time", Reason: "slot overlaps an existing slot"}
		}
		return fmt.Errorf("update slot: %w", err)
	}

	return nil
}

// GetByID получает слот по ID, удалённые слоты не видны
func (r *SlotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE id = $1 AND deleted_at IS NULL
	`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// ListByCoach получает слоты тренера, опционально в диапазоне дат.
// onlyOpen ограничивает выборку открытыми слотами (видимость клиента).
func (r *SlotRepository) ListByCoach(ctx context.Context, coachID uuid.UUID, from, to *time.Time, onlyOpen bool) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE coach_id = $1 AND deleted_at IS NULL
	`
	args := []any{coachID}

	if onlyOpen {
		query += ` AND status = 'OPEN'`
	}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(` AND start_time >= $%d`, len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(` AND start_time < $%d`, len(args))
	}
	query += ` ORDER BY start_time`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list slots by coach: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// ActiveByCoach получает неудалённые слоты тренера в статусах OPEN и HELD
// для проверки пересечений. HELD учитывается, потому что release или
// протухание hold'а вернёт такой слот в OPEN. BOOKED терминален и не мешает.
func (r *SlotRepository) ActiveByCoach(ctx context.Context, coachID uuid.UUID) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT ` + slotColumns + `
		FROM availability_slots
		WHERE coach_id = $1 AND status IN ('OPEN', 'HELD') AND deleted_at IS NULL
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, coachID)
	if err != nil {
		return nil, fmt.Errorf("get active slots by coach: %w", err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// LockCoach берёт advisory-lock транзакции на тренера.
// Сериализует создание/изменение слотов одного тренера, чтобы две
// конкурентные проверки пересечения не прошли одновременно.
func (r *SlotRepository) LockCoach(ctx context.Context, coachID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, coachID)
	if err != nil {
		return fmt.Errorf("lock coach: %w", err)
	}
	return nil
}

// Hold переводит слот OPEN -> HELD для клиента
func (r *SlotRepository) Hold(ctx context.Context, slotID, clientID uuid.UUID, heldAt time.Time) (*model.AvailabilitySlot, error) {
	query := `
		UPDATE availability_slots
		SET status = 'HELD', client_id = $2, held_at = $3, updated_at = now()
		WHERE id = $1 AND status = 'OPEN' AND deleted_at IS NULL
		RETURNING ` + slotColumns

	slot, err := scanSlot(r.db.QueryRow(ctx, query, slotID, clientID, heldAt))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, &model.ConflictError{SlotID: slotID, Reason: "slot is no longer open"}
		}
		return nil, fmt.Errorf("hold slot: %w", err)
	}

	return slot, nil
}

// Book переводит слот в BOOKED. Ожидаемый исходный статус задаёт вызывающий:
// OPEN для прямого бронирования, HELD для подтверждения своего hold'а
// (тогда client_id в WHERE гарантирует, что hold принадлежит этому клиенту).
func (r *SlotRepository) Book(ctx context.Context, slotID, clientID uuid.UUID, from model.SlotStatus) (*model.AvailabilitySlot, error) {
	query := `
		UPDATE availability_slots
		SET status = 'BOOKED', client_id = $2, held_at = NULL, updated_at = now()
		WHERE id = $1 AND status = $3 AND deleted_at IS NULL
		  AND ($3 = 'OPEN' OR client_id = $2)
		RETURNING ` + slotColumns

	slot, err := scanSlot(r.db.QueryRow(ctx, query, slotID, clientID, from))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, &model.ConflictError{SlotID: slotID, Reason: "slot is no longer available"}
		}
		return nil, fmt.Errorf("book slot: %w", err)
	}

	return slot, nil
}

// Release возвращает слот HELD -> OPEN и очищает client_id/held_at
func (r *SlotRepository) Release(ctx context.Context, slotID uuid.UUID) (*model.AvailabilitySlot, error) {
	query := `
		UPDATE availability_slots
		SET status = 'OPEN', client_id = NULL, held_at = NULL, updated_at = now()
		WHERE id = $1 AND status = 'HELD' AND deleted_at IS NULL
		RETURNING ` + slotColumns

	slot, err := scanSlot(r.db.QueryRow(ctx, query, slotID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, &model.ConflictError{SlotID: slotID, Reason: "slot is not held"}
		}
		return nil, fmt.Errorf("release slot: %w", err)
	}

	return slot, nil
}

// ReleaseExpired освобождает слот, если его hold протух к моменту cutoff.
// Возвращает false, если слот уже не HELD или hold свежее cutoff:
// слот, забронированный между сканом и освобождением, не откатывается.
func (r *SlotRepository) ReleaseExpired(ctx context.Context, slotID uuid.UUID, cutoff time.Time) (bool, error) {
	query := `
		UPDATE availability_slots
		SET status = 'OPEN', client_id = NULL, held_at = NULL, updated_at = now()
		WHERE id = $1 AND status = 'HELD' AND deleted_at IS NULL AND held_at <= $2
	`

	tag, err := r.db.Exec(ctx, query, slotID, cutoff)
	if err != nil {
		return false, fmt.Errorf("release expired hold: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ExpiredHolds получает ID всех слотов с протухшими hold'ами
func (r *SlotRepository) ExpiredHolds(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT id
		FROM availability_slots
		WHERE status = 'HELD' AND deleted_at IS NULL AND held_at <= $1
		ORDER BY held_at
	`

	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("get expired holds: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan expired hold id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// SoftDelete помечает открытый слот удалённым. Запись остаётся для аудита.
func (r *SlotRepository) SoftDelete(ctx context.Context, slotID uuid.UUID, deletedAt time.Time) error {
	query := `
		UPDATE availability_slots
		SET deleted_at = $2, updated_at = now()
		WHERE id = $1 AND status = 'OPEN' AND deleted_at IS NULL
	`

	tag, err := r.db.Exec(ctx, query, slotID, deletedAt)
	if err != nil {
		return fmt.Errorf("soft delete slot: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return &model.ConflictError{SlotID: slotID, Reason: "slot is no longer open"}
	}

	return nil
}

func scanSlot(row pgx.Row) (*model.AvailabilitySlot, error) {
	var slot model.AvailabilitySlot
	err := row.Scan(
		&slot.ID,
		&slot.CoachID,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Timezone,
		&slot.Status,
		&slot.ClientID,
		&slot.HeldAt,
		&slot.Notes,
		&slot.CreatedAt,
		&slot.UpdatedAt,
		&slot.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func scanSlots(rows pgx.Rows) ([]*model.AvailabilitySlot, error) {
	var slots []*model.AvailabilitySlot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}
