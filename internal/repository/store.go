package repository

import (
	"context"

	"github.com/Freeeeeet/booking_engine/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store реализация model.Store поверх pgx.
// Вне транзакции репозитории работают через пул, внутри WithinTx -
// через один общий pgx.Tx.
type Store struct {
	pool     *pgxpool.Pool
	slots    *SlotRepository
	sessions *SessionRepository
	access   *AccessRepository
	inTx     bool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:     pool,
		slots:    NewSlotRepository(pool),
		sessions: NewSessionRepository(pool),
		access:   NewAccessRepository(pool),
	}
}

func (s *Store) Slots() model.SlotStore { return s.slots }

func (s *Store) Sessions() model.SessionRecorder { return s.sessions }

func (s *Store) Access() model.AccessStore { return s.access }

// WithinTx выполняет fn в одной транзакции. Любая ошибка fn откатывает
// всё: слот никогда не окажется BOOKED без записи занятия и наоборот.
// Повторный вызов внутри транзакции продолжает ту же транзакцию.
func (s *Store) WithinTx(ctx context.Context, fn func(tx model.Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &model.DependencyError{Op: "begin transaction", Err: err}
	}
	defer tx.Rollback(ctx)

	txStore := &Store{
		pool:     s.pool,
		slots:    s.slots.WithTx(tx),
		sessions: s.sessions.WithTx(tx),
		access:   s.access.WithTx(tx),
		inTx:     true,
	}

	if err := fn(txStore); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return &model.DependencyError{Op: "commit transaction", Err: err}
	}

	return nil
}
