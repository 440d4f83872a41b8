package tui

import (
	"time"

	"github.com/DiNaSoR/Veil/pkg/notify"
)

const (
	toastLifetime = 4 * time.Second
	maxToasts     = 4
)

// ToastQueue is a notify.Sink that buffers toasts until the view drains
// them. It is used from the tick goroutine only.
type ToastQueue struct {
	pending []notify.Toast
	shown   []notify.Toast
}

// NewToastQueue creates an empty queue.
func NewToastQueue() *ToastQueue { return &ToastQueue{} }

// Notify buffers a toast.
func (q *ToastQueue) Notify(t notify.Toast) {
	q.pending = append(q.pending, t)
}

// Drain returns and forgets the toasts raised since the last call.
func (q *ToastQueue) Drain() []notify.Toast {
	out := q.pending
	q.pending = nil
	return out
}

// Visible moves pending toasts on screen and returns the ones still alive at
// now, newest last, at most maxToasts.
func (q *ToastQueue) Visible(now time.Time) []notify.Toast {
	q.shown = append(q.shown, q.Drain()...)
	kept := q.shown[:0]
	for _, t := range q.shown {
		if now.Sub(t.At) < toastLifetime {
			kept = append(kept, t)
		}
	}
	if len(kept) > maxToasts {
		kept = kept[len(kept)-maxToasts:]
	}
	q.shown = kept
	return append([]notify.Toast(nil), kept...)
}
