package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/booking_engine/internal/clock"
	"github.com/Freeeeeet/booking_engine/internal/model"
	"github.com/Freeeeeet/booking_engine/internal/timeutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvailabilityService жизненный цикл слотов: создание, изменение,
// удаление, hold и release, плюс освобождение протухших hold'ов.
type AvailabilityService struct {
	store   model.Store
	clock   clock.Clock
	holdTTL time.Duration
	logger  *zap.Logger
}

func NewAvailabilityService(store model.Store, clk clock.Clock, holdTTL time.Duration, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{
		store:   store,
		clock:   clk,
		holdTTL: holdTTL,
		logger:  logger,
	}
}

// CreateSlotInput параметры создания слота
type CreateSlotInput struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Timezone  string    `json:"timezone"`
	Notes     string    `json:"notes"`
}

// UpdateSlotInput параметры изменения слота, nil-поля не меняются
type UpdateSlotInput struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Notes     *string    `json:"notes"`
}

// CreateSlot создаёт открытый слот тренера.
// Проверка пересечений и вставка идут в одной транзакции под
// advisory-lock'ом тренера, иначе два конкурентных создания могли бы
// одновременно пройти проверку и оставить пересекающиеся слоты.
func (s *AvailabilityService) CreateSlot(ctx context.Context, actor model.Actor, in CreateSlotInput) (*model.AvailabilitySlot, error) {
	if !actor.IsCoach() {
		return nil, &model.AuthorizationError{Reason: "only a coach can create slots"}
	}

	if !in.StartTime.Before(in.EndTime) {
		return nil, &model.ValidationError{Field: "end_time", Reason: "must be after start_time"}
	}
	if _, err := timeutil.LoadZone(in.Timezone); err != nil {
		return nil, &model.ValidationError{Field: "timezone", Reason: err.Error()}
	}

	slot := &model.AvailabilitySlot{
		ID:        uuid.New(),
		CoachID:   actor.ID,
		StartTime: in.StartTime.UTC(),
		EndTime:   in.EndTime.UTC(),
		Timezone:  in.Timezone,
		Status:    model.SlotStatusOpen,
		Notes:     in.Notes,
	}

	err := s.store.WithinTx(ctx, func(tx model.Store) error {
		if err := tx.Slots().LockCoach(ctx, actor.ID); err != nil {
			return storeErr("lock coach", err)
		}

		// HELD-слоты тоже считаются: release или протухший hold вернёт их в OPEN
		active, err := tx.Slots().ActiveByCoach(ctx, actor.ID)
		if err != nil {
			return storeErr("load active slots", err)
		}
		for _, other := range active {
			if timeutil.Overlaps(slot.StartTime, slot.EndTime, other.StartTime, other.EndTime) {
				return &model.ValidationError{Field: "start_time", Reason: "slot overlaps an existing slot"}
			}
		}

		if err := tx.Slots().Create(ctx, slot); err != nil {
			return storeErr("create slot", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot created",
		zap.String("slot_id", slot.ID.String()),
		zap.String("coach_id", slot.CoachID.String()),
		zap.Time("start_time", slot.StartTime),
		zap.Time("end_time", slot.EndTime),
	)

	return slot, nil
}

// UpdateSlot меняет время и/или заметку открытого слота тренера
func (s *AvailabilityService) UpdateSlot(ctx context.Context, actor model.Actor, slotID uuid.UUID, in UpdateSlotInput) (*model.AvailabilitySlot, error) {
	var updated *model.AvailabilitySlot

	err := s.store.WithinTx(ctx, func(tx model.Store) error {
		slot, err := tx.Slots().GetByID(ctx, slotID)
		if err != nil {
			return storeErr("load slot", err)
		}
		if slot == nil {
			return &model.NotFoundError{SlotID: slotID}
		}

		if !actor.IsCoach() || slot.CoachID != actor.ID {
			return &model.AuthorizationError{Reason: "only the owning coach can update a slot"}
		}
		if slot.Status != model.SlotStatusOpen {
			return &model.ConflictError{SlotID: slotID, Reason: "slot is no longer open"}
		}

		if in.StartTime != nil {
			slot.StartTime = in.StartTime.UTC()
		}
		if in.EndTime != nil {
			slot.EndTime = in.EndTime.UTC()
		}
		if in.Notes != nil {
			slot.Notes = *in.Notes
		}

		if !slot.StartTime.Before(slot.EndTime) {
			return &model.ValidationError{Field: "end_time", Reason: "must be after start_time"}
		}

		if err := tx.Slots().LockCoach(ctx, slot.CoachID); err != nil {
			return storeErr("lock coach", err)
		}

		active, err := tx.Slots().ActiveByCoach(ctx, slot.CoachID)
		if err != nil {
			return storeErr("load active slots", err)
		}
		for _, other := range active {
			if other.ID == slot.ID {
				continue // себя при проверке пересечений не учитываем
			}
			if timeutil.Overlaps(slot.StartTime, slot.EndTime, other.StartTime, other.EndTime) {
				return &model.ValidationError{Field: "start_time", Reason: "slot overlaps an existing slot"}
			}
		}

		if err := tx.Slots().Update(ctx, slot); err != nil {
			return storeErr("update slot", err)
		}

		updated = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot updated",
		zap.String("slot_id", updated.ID.String()),
		zap.String("coach_id", updated.CoachID.String()),
	)

	return updated, nil
}

// DeleteSlot помечает открытый слот удалённым. Слот остаётся в БД
// для аудита, но исчезает из всех запросов и переходов.
func (s *AvailabilityService) DeleteSlot(ctx context.Context, actor model.Actor, slotID uuid.UUID) error {
	slot, err := s.store.Slots().GetByID(ctx, slotID)
	if err != nil {
		return storeErr("load slot", err)
	}
	if slot == nil {
		return &model.NotFoundError{SlotID: slotID}
	}

	if !actor.IsCoach() || slot.CoachID != actor.ID {
		return &model.AuthorizationError{Reason: "only the owning coach can delete a slot"}
	}

	if err := s.store.Slots().SoftDelete(ctx, slotID, s.clock.Now()); err != nil {
		return storeErr("soft delete slot", err)
	}

	s.logger.Info("Slot deleted",
		zap.String("slot_id", slotID.String()),
		zap.String("coach_id", slot.CoachID.String()),
	)

	return nil
}

// ListSlots возвращает слоты тренера. Владелец и админ видят слоты
// в любом статусе, клиент - только открытые слоты своего тренера.
func (s *AvailabilityService) ListSlots(ctx context.Context, actor model.Actor, coachID uuid.UUID, from, to *time.Time) ([]*model.AvailabilitySlot, error) {
	onlyOpen := true

	switch {
	case actor.IsAdmin():
		onlyOpen = false
	case actor.IsCoach():
		if actor.ID != coachID {
			return nil, &model.AuthorizationError{Reason: "a coach can only list own slots"}
		}
		onlyOpen = false
	case actor.IsClient():
		ok, err := s.store.Access().IsClientOf(ctx, actor.ID, coachID)
		if err != nil {
			return nil, storeErr("check client access", err)
		}
		if !ok {
			return nil, &model.AuthorizationError{Reason: "client does not belong to this coach"}
		}
	default:
		return nil, &model.AuthorizationError{Reason: "unknown role"}
	}

	slots, err := s.store.Slots().ListByCoach(ctx, coachID, from, to, onlyOpen)
	if err != nil {
		return nil, storeErr("list slots", err)
	}

	return slots, nil
}

// HoldSlot временно резервирует открытый слот за клиентом.
// Hold эксклюзивен и живёт holdTTL, после чего sweeper вернёт слот в OPEN.
func (s *AvailabilityService) HoldSlot(ctx context.Context, actor model.Actor, slotID uuid.UUID) (*model.AvailabilitySlot, error) {
	if !actor.IsClient() {
		return nil, &model.AuthorizationError{Reason: "only a client can hold a slot"}
	}

	slot, err := s.store.Slots().GetByID(ctx, slotID)
	if err != nil {
		return nil, storeErr("load slot", err)
	}
	if slot == nil {
		return nil, &model.NotFoundError{SlotID: slotID}
	}

	ok, err := s.store.Access().IsClientOf(ctx, actor.ID, slot.CoachID)
	if err != nil {
		return nil, storeErr("check client access", err)
	}
	if !ok {
		return nil, &model.AuthorizationError{Reason: "client does not belong to the slot's coach"}
	}

	if slot.Status != model.SlotStatusOpen {
		return nil, &model.ConflictError{SlotID: slotID, Reason: "slot is no longer available"}
	}

	held, err := s.store.Slots().Hold(ctx, slotID, actor.ID, s.clock.Now())
	if err != nil {
		return nil, storeErr("hold slot", err)
	}

	s.logger.Info("Slot held",
		zap.String("slot_id", slotID.String()),
		zap.String("client_id", actor.ID.String()),
	)

	return held, nil
}

// ReleaseSlot снимает hold. Разрешено удерживающему клиенту,
// владеющему тренеру и админу.
func (s *AvailabilityService) ReleaseSlot(ctx context.Context, actor model.Actor, slotID uuid.UUID) (*model.AvailabilitySlot, error) {
	slot, err := s.store.Slots().GetByID(ctx, slotID)
	if err != nil {
		return nil, storeErr("load slot", err)
	}
	if slot == nil {
		return nil, &model.NotFoundError{SlotID: slotID}
	}

	if slot.Status != model.SlotStatusHeld {
		return nil, &model.ConflictError{SlotID: slotID, Reason: "slot is not held"}
	}

	allowed := actor.IsAdmin() ||
		(actor.IsCoach() && slot.CoachID == actor.ID) ||
		(actor.IsClient() && slot.HeldBy(actor.ID))
	if !allowed {
		return nil, &model.AuthorizationError{Reason: "no permission to release this hold"}
	}

	released, err := s.store.Slots().Release(ctx, slotID)
	if err != nil {
		return nil, storeErr("release slot", err)
	}

	s.logger.Info("Slot released",
		zap.String("slot_id", slotID.String()),
		zap.String("actor_id", actor.ID.String()),
		zap.String("actor_role", string(actor.Role)),
	)

	return released, nil
}

// SweepExpiredHolds освобождает все слоты с протухшими hold'ами и
// возвращает количество освобождённых. Каждый слот обрабатывается
// независимо: ошибка одного не прерывает остальных. Повторный запуск
// без новых hold'ов ничего не меняет.
func (s *AvailabilityService) SweepExpiredHolds(ctx context.Context) (int, error) {
	cutoff := s.clock.Now().Add(-s.holdTTL)

	ids, err := s.store.Slots().ExpiredHolds(ctx, cutoff)
	if err != nil {
		return 0, storeErr("scan expired holds", err)
	}

	released := 0
	for _, id := range ids {
		ok, err := s.store.Slots().ReleaseExpired(ctx, id, cutoff)
		if err != nil {
			s.logger.Error("Failed to release expired hold",
				zap.String("slot_id", id.String()),
				zap.Error(err))
			continue
		}
		if ok {
			released++
		}
	}

	if released > 0 {
		s.logger.Info("Expired holds released", zap.Int("count", released))
	}

	return released, nil
}

// GrantClient привязывает клиента к тренеру
func (s *AvailabilityService) GrantClient(ctx context.Context, actor model.Actor, coachID, clientID uuid.UUID) error {
	if !actor.IsAdmin() && !(actor.IsCoach() && actor.ID == coachID) {
		return &model.AuthorizationError{Reason: "only the coach or an admin can grant access"}
	}

	if err := s.store.Access().Grant(ctx, clientID, coachID); err != nil {
		return storeErr("grant client access", err)
	}

	s.logger.Info("Client access granted",
		zap.String("coach_id", coachID.String()),
		zap.String("client_id", clientID.String()),
	)

	return nil
}

// RevokeClient отвязывает клиента от тренера
func (s *AvailabilityService) RevokeClient(ctx context.Context, actor model.Actor, coachID, clientID uuid.UUID) error {
	if !actor.IsAdmin() && !(actor.IsCoach() && actor.ID == coachID) {
		return &model.AuthorizationError{Reason: "only the coach or an admin can revoke access"}
	}

	if err := s.store.Access().Revoke(ctx, clientID, coachID); err != nil {
		return storeErr("revoke client access", err)
	}

	s.logger.Info("Client access revoked",
		zap.String("coach_id", coachID.String()),
		zap.String("client_id", clientID.String()),
	)

	return nil
}
