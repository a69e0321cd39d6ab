package clock

import (
	"sync"
	"time"
)

// Clock - источник текущего времени. Сервисы получают его при создании,
// чтобы сроки жизни токенов можно было проверять в тестах.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// Real возвращает системные часы (всегда UTC).
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// FakeClock - управляемые часы для тестов.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake создает часы, остановленные на initial.
func NewFake(initial time.Time) *FakeClock {
	return &FakeClock{now: initial.UTC()}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set переставляет часы на t.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t.UTC()
	c.mu.Unlock()
}

// Advance сдвигает часы вперед на d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
