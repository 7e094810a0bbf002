package handler

import "sync/atomic"

// Gate admits one browser-driving request at a time across the server.
type Gate struct {
	busy atomic.Bool
}

// TryAcquire claims the gate, reporting false if it is already held.
func (g *Gate) TryAcquire() bool { return g.busy.CompareAndSwap(false, true) }

// Release frees the gate.
func (g *Gate) Release() { g.busy.Store(false) }

// Busy reports whether a request currently holds the gate.
func (g *Gate) Busy() bool { return g.busy.Load() }
