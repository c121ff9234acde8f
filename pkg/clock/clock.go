// Package clock abstrae la hora actual para que los casos de uso sean deterministas en tests.
package clock

import (
	"sync"
	"time"
)

// Clock fuente de la hora actual.
type Clock interface {
	Now() time.Time
}

// System usa time.Now.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed devuelve siempre la misma hora salvo que se avance manualmente.
type Fixed struct {
	mu  sync.RWMutex
	now time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

func (c *Fixed) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *Fixed) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
