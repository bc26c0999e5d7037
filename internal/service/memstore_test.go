package service

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/booking_engine/internal/model"
	"github.com/google/uuid"
)

// memStore реализация model.Store в памяти для тестов движка.
// Мьютекс держится на всю транзакцию, что даёт ту же сериализацию
// переходов, которую в проде обеспечивает Postgres. Транзакция работает
// с копией данных: при ошибке копия выбрасывается, имитируя rollback.
type memStore struct {
	mu       sync.Mutex
	slots    map[uuid.UUID]*model.AvailabilitySlot
	sessions []*model.CoachSession
	access   map[uuid.UUID]map[uuid.UUID]bool // clientID -> coachID -> есть доступ

	failSessionCreate error // инъекция сбоя SessionRecorder'а

	inTx bool
}

func newMemStore() *memStore {
	return &memStore{
		slots:  make(map[uuid.UUID]*model.AvailabilitySlot),
		access: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (s *memStore) Slots() model.SlotStore          { return &memSlots{s} }
func (s *memStore) Sessions() model.SessionRecorder { return &memSessions{s} }
func (s *memStore) Access() model.AccessStore       { return &memAccess{s} }

func (s *memStore) WithinTx(ctx context.Context, fn func(tx model.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memStore{
		slots:             make(map[uuid.UUID]*model.AvailabilitySlot, len(s.slots)),
		sessions:          append([]*model.CoachSession(nil), s.sessions...),
		access:            s.access,
		failSessionCreate: s.failSessionCreate,
		inTx:              true,
	}
	for id, slot := range s.slots {
		tx.slots[id] = cloneSlot(slot)
	}

	if err := fn(tx); err != nil {
		return err
	}

	s.slots = tx.slots
	s.sessions = tx.sessions
	return nil
}

func (s *memStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func cloneSlot(slot *model.AvailabilitySlot) *model.AvailabilitySlot {
	c := *slot
	if slot.ClientID != nil {
		id := *slot.ClientID
		c.ClientID = &id
	}
	if slot.HeldAt != nil {
		t := *slot.HeldAt
		c.HeldAt = &t
	}
	if slot.DeletedAt != nil {
		t := *slot.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

type memSlots struct {
	s *memStore
}

func (m *memSlots) Create(ctx context.Context, slot *model.AvailabilitySlot) error {
	defer m.s.lock()()
	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now
	m.s.slots[slot.ID] = cloneSlot(slot)
	return nil
}

func (m *memSlots) Update(ctx context.Context, slot *model.AvailabilitySlot) error {
	defer m.s.lock()()
	stored, ok := m.s.slots[slot.ID]
	if !ok || stored.IsDeleted() || stored.Status != model.SlotStatusOpen {
		return &model.ConflictError{SlotID: slot.ID, Reason: "slot is no longer open"}
	}
	stored.StartTime = slot.StartTime
	stored.EndTime = slot.EndTime
	stored.Notes = slot.Notes
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memSlots) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	defer m.s.lock()()
	slot, ok := m.s.slots[id]
	if !ok || slot.IsDeleted() {
		return nil, nil
	}
	return cloneSlot(slot), nil
}

func (m *memSlots) ListByCoach(ctx context.Context, coachID uuid.UUID, from, to *time.Time, onlyOpen bool) ([]*model.AvailabilitySlot, error) {
	defer m.s.lock()()
	var out []*model.AvailabilitySlot
	for _, slot := range m.s.slots {
		if slot.CoachID != coachID || slot.IsDeleted() {
			continue
		}
		if onlyOpen && slot.Status != model.SlotStatusOpen {
			continue
		}
		if from != nil && slot.StartTime.Before(*from) {
			continue
		}
		if to != nil && !slot.StartTime.Before(*to) {
			continue
		}
		out = append(out, cloneSlot(slot))
	}
	return out, nil
}

func (m *memSlots) ActiveByCoach(ctx context.Context, coachID uuid.UUID) ([]*model.AvailabilitySlot, error) {
	defer m.s.lock()()
	var out []*model.AvailabilitySlot
	for _, slot := range m.s.slots {
		if slot.CoachID != coachID || slot.IsDeleted() || slot.Status == model.SlotStatusBooked {
			continue
		}
		out = append(out, cloneSlot(slot))
	}
	return out, nil
}

func (m *memSlots) LockCoach(ctx context.Context, coachID uuid.UUID) error {
	return nil // транзакционный мьютекс уже сериализует всё
}

func (m *memSlots) Hold(ctx context.Context, slotID, clientID uuid.UUID, heldAt time.Time) (*model.AvailabilitySlot, error) {
	defer m.s.lock()()
	slot, ok := m.s.slots[slotID]
	if !ok || slot.IsDeleted() || slot.Status != model.SlotStatusOpen {
		return nil, &model.ConflictError{SlotID: slotID, Reason: "slot is no longer open"}
	}
	slot.Status = model.SlotStatusHeld
	slot.ClientID = &clientID
	held := heldAt
	slot.HeldAt = &held
	slot.UpdatedAt = time.Now().UTC()
	return cloneSlot(slot), nil
}

func (m *memSlots) Book(ctx context.Context, slotID, clientID uuid.UUID, from model.SlotStatus) (*model.AvailabilitySlot, error) {
	defer m.s.lock()()
	slot, ok := m.s.slots[slotID]
	if !ok || slot.IsDeleted() || slot.Status != from {
		return nil, &model.ConflictError{SlotID: slotID, Reason: "slot is no longer available"}
	}
	if from == model.SlotStatusHeld && (slot.ClientID == nil || *slot.ClientID != clientID) {
		return nil, &model.ConflictError{SlotID: slotID, Reason: "slot is no longer available"}
	}
	slot.Status = model.SlotStatusBooked
	slot.ClientID = &clientID
	slot.HeldAt = nil
	slot.UpdatedAt = time.Now().UTC()
	return cloneSlot(slot), nil
}

func (m *memSlots) Release(ctx context.Context, slotID uuid.UUID) (*model.AvailabilitySlot, error) {
	defer m.s.lock()()
	slot, ok := m.s.slots[slotID]
	if !ok || slot.IsDeleted() || slot.Status != model.SlotStatusHeld {
		return nil, &model.ConflictError{SlotID: slotID, Reason: "slot is not held"}
	}
	slot.Status = model.SlotStatusOpen
	slot.ClientID = nil
	slot.HeldAt = nil
	slot.UpdatedAt = time.Now().UTC()
	return cloneSlot(slot), nil
}

func (m *memSlots) ReleaseExpired(ctx context.Context, slotID uuid.UUID, cutoff time.Time) (bool, error) {
	defer m.s.lock()()
	slot, ok := m.s.slots[slotID]
	if !ok || slot.IsDeleted() || slot.Status != model.SlotStatusHeld {
		return false, nil
	}
	if slot.HeldAt == nil || slot.HeldAt.After(cutoff) {
		return false, nil
	}
	slot.Status = model.SlotStatusOpen
	slot.ClientID = nil
	slot.HeldAt = nil
	slot.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *memSlots) ExpiredHolds(ctx context.Context, cutoff time.Time) ([]uuid.UUID, error) {
	defer m.s.lock()()
	var ids []uuid.UUID
	for _, slot := range m.s.slots {
		if slot.Status == model.SlotStatusHeld && !slot.IsDeleted() &&
			slot.HeldAt != nil && !slot.HeldAt.After(cutoff) {
			ids = append(ids, slot.ID)
		}
	}
	return ids, nil
}

func (m *memSlots) SoftDelete(ctx context.Context, slotID uuid.UUID, deletedAt time.Time) error {
	defer m.s.lock()()
	slot, ok := m.s.slots[slotID]
	if !ok || slot.IsDeleted() || slot.Status != model.SlotStatusOpen {
		return &model.ConflictError{SlotID: slotID, Reason: "slot is no longer open"}
	}
	t := deletedAt
	slot.DeletedAt = &t
	slot.UpdatedAt = time.Now().UTC()
	return nil
}

type memSessions struct {
	s *memStore
}

func (m *memSessions) Create(ctx context.Context, session *model.CoachSession) error {
	defer m.s.lock()()
	if m.s.failSessionCreate != nil {
		return m.s.failSessionCreate
	}
	session.CreatedAt = time.Now().UTC()
	c := *session
	m.s.sessions = append(m.s.sessions, &c)
	return nil
}

func (m *memSessions) CountByClient(ctx context.Context, clientID uuid.UUID) (int, error) {
	defer m.s.lock()()
	count := 0
	for _, session := range m.s.sessions {
		if session.ClientID == clientID && session.DeletedAt == nil {
			count++
		}
	}
	return count, nil
}

type memAccess struct {
	s *memStore
}

func (m *memAccess) IsClientOf(ctx context.Context, clientID, coachID uuid.UUID) (bool, error) {
	defer m.s.lock()()
	return m.s.access[clientID][coachID], nil
}

func (m *memAccess) Grant(ctx context.Context, clientID, coachID uuid.UUID) error {
	defer m.s.lock()()
	if m.s.access[clientID] == nil {
		m.s.access[clientID] = make(map[uuid.UUID]bool)
	}
	m.s.access[clientID][coachID] = true
	return nil
}

func (m *memAccess) Revoke(ctx context.Context, clientID, coachID uuid.UUID) error {
	defer m.s.lock()()
	delete(m.s.access[clientID], coachID)
	return nil
}
