package clock

import (
	"sync"
	"time"
)

// Clock источник текущего времени. Внедряется явно, чтобы тесты
// истечения hold'ов были детерминированными, без реальных задержек.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// System возвращает часы на основе системного времени (в UTC)
func System() Clock {
	return systemClock{}
}

// Fake управляемые часы для тестов
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake создаёт фейковые часы, стоящие на указанном моменте
func NewFake(now time.Time) *Fake {
	return &Fake{now: now.UTC()}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Advance сдвигает часы вперёд на d
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
