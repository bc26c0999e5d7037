package service

import (
	"context"

	"github.com/Freeeeeet/booking_engine/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService атомарный сценарий бронирования: перевод слота
// в BOOKED и запись занятия в одной транзакции
type BookingService struct {
	store  model.Store
	logger *zap.Logger
}

func NewBookingService(store model.Store, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:  store,
		logger: logger,
	}
}

// BookSlot бронирует слот для клиента. Слот перечитывается внутри
// транзакции: проверка статуса отдельным запросом до записи была бы
// гонкой, при которой два клиента одновременно видят OPEN и оба
// бронируют. Здесь из двух конкурентных вызовов ровно один проходит,
// второй получает ConflictError.
func (s *BookingService) BookSlot(ctx context.Context, actor model.Actor, slotID uuid.UUID) (*model.AvailabilitySlot, error) {
	if !actor.IsClient() {
		return nil, &model.AuthorizationError{Reason: "only a client can book a slot"}
	}

	var booked *model.AvailabilitySlot
	var session *model.CoachSession

	err := s.store.WithinTx(ctx, func(tx model.Store) error {
		slot, err := tx.Slots().GetByID(ctx, slotID)
		if err != nil {
			return storeErr("load slot", err)
		}
		if slot == nil {
			return &model.NotFoundError{SlotID: slotID}
		}

		ok, err := tx.Access().IsClientOf(ctx, actor.ID, slot.CoachID)
		if err != nil {
			return storeErr("check client access", err)
		}
		if !ok {
			return &model.AuthorizationError{Reason: "client does not belong to the slot's coach"}
		}

		// Прямое бронирование из OPEN или подтверждение своего hold'а.
		// Чужой hold эксклюзивен, перехватывать его нельзя.
		var from model.SlotStatus
		switch {
		case slot.Status == model.SlotStatusOpen:
			from = model.SlotStatusOpen
		case slot.HeldBy(actor.ID):
			from = model.SlotStatusHeld
		default:
			return &model.ConflictError{SlotID: slotID, Reason: "slot is no longer available"}
		}

		booked, err = tx.Slots().Book(ctx, slotID, actor.ID, from)
		if err != nil {
			return storeErr("book slot", err)
		}

		prior, err := tx.Sessions().CountByClient(ctx, actor.ID)
		if err != nil {
			return storeErr("count prior sessions", err)
		}

		session = &model.CoachSession{
			ID:            uuid.New(),
			CoachID:       booked.CoachID,
			ClientID:      actor.ID,
			SlotID:        booked.ID,
			ScheduledAt:   booked.StartTime,
			SessionNumber: prior + 1,
		}
		if err := tx.Sessions().Create(ctx, session); err != nil {
			return storeErr("record session", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot booked",
		zap.String("slot_id", booked.ID.String()),
		zap.String("coach_id", booked.CoachID.String()),
		zap.String("client_id", actor.ID.String()),
		zap.String("session_id", session.ID.String()),
		zap.Int("session_number", session.SessionNumber),
	)

	return booked, nil
}
