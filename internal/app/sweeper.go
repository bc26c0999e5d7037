package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/booking_engine/internal/service"
	"go.uber.org/zap"
)

// Sweeper фоновый процесс, возвращающий слоты с протухшими hold'ами
// в OPEN. TTL hold'а обеспечивается именно им, а не соединением клиента:
// клиент может просто исчезнуть, слот всё равно освободится.
type Sweeper struct {
	availability *service.AvailabilityService
	interval     time.Duration
	logger       *zap.Logger
	stopChan     chan struct{}
}

// NewSweeper создаёт новый sweeper
func NewSweeper(availability *service.AvailabilityService, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		availability: availability,
		interval:     interval,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start запускает цикл очистки в отдельной горутине
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting hold expiry sweeper", zap.Duration("interval", s.interval))

	go s.run(ctx)
}

// Stop останавливает цикл очистки
func (s *Sweeper) Stop() {
	s.logger.Info("Stopping hold expiry sweeper")
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	// Первый проход сразу при старте
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Hold expiry sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Hold expiry sweeper cancelled")
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	released, err := s.availability.SweepExpiredHolds(ctx)
	if err != nil {
		s.logger.Error("Failed to sweep expired holds", zap.Error(err))
		return
	}

	if released > 0 {
		s.logger.Info("Sweep completed", zap.Int("released", released))
	}
}
