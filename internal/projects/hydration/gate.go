// Package hydration guards readers of the project store until its one-time
// startup load has finished.
package hydration

import (
	"context"
	"sync"
	"sync/atomic"
)

// Gate is a one-way "ready" signal: it starts closed, opens exactly once and
// never closes again.
type Gate struct {
	ready atomic.Bool
	once  sync.Once
	done  chan struct{}
}

// NewGate returns a gate that is not ready.
func NewGate() *Gate {
	return &Gate{done: make(chan struct{})}
}

// Ready reports whether hydration has completed.
func (g *Gate) Ready() bool {
	return g.ready.Load()
}

// Done is closed once the gate opens.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

// MarkReady opens the gate. Later calls are no-ops.
func (g *Gate) MarkReady() {
	g.once.Do(func() {
		g.ready.Store(true)
		close(g.done)
	})
}

// Wait blocks until the gate opens or ctx ends.
func (g *Gate) Wait(ctx context.Context) error {
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
