package workflow

import "sync/atomic"

// BusyFlag is the process-wide "workflow in flight" indicator.
//
// In the default advisory mode Set/Clear are plain stores: two overlapping
// workflows share the flag and the first to settle clears it. In exclusive
// mode the dispatcher only proceeds when TryAcquire wins.
type BusyFlag struct {
	busy atomic.Bool
}

func (b *BusyFlag) Set() {
	b.busy.Store(true)
}

func (b *BusyFlag) Clear() {
	b.busy.Store(false)
}

func (b *BusyFlag) Busy() bool {
	return b.busy.Load()
}

// TryAcquire sets the flag only if it is clear
func (b *BusyFlag) TryAcquire() bool {
	return b.busy.CompareAndSwap(false, true)
}
