// Package observe provides a small observer primitive for values that change
// over time, such as the resolved auth state or the current route.
package observe

import (
	"sync"
	"sync/atomic"
)

// Observable exposes the latest value of T and change notification.
type Observable[T any] interface {
	// Current returns the latest value.
	Current() T
	// Subscribe registers fn and immediately delivers the current value to it.
	// The returned function removes the subscription; calling it more than once is a no-op.
	Subscribe(fn func(T)) (unsubscribe func())
}

// Option configures a Value.
type Option[T any] func(*Value[T])

// WithEqual suppresses notifications when the new value equals the current one.
func WithEqual[T any](equal func(a, b T) bool) Option[T] {
	return func(v *Value[T]) { v.equal = equal }
}

type subscription[T any] struct {
	fn     func(T)
	active atomic.Bool
}

// Value holds the latest T and notifies subscribers synchronously on Set.
// It is safe for concurrent use. Callbacks run in subscription order and must
// not call Set on the same Value.
type Value[T any] struct {
	mu      sync.Mutex
	current T
	subs    []*subscription[T]
	equal   func(a, b T) bool

	// deliver serialises notifications so subscribers observe values in Set order.
	deliver sync.Mutex
}

var _ Observable[int] = (*Value[int])(nil)

// NewValue constructs a Value holding initial.
func NewValue[T any](initial T, opts ...Option[T]) *Value[T] {
	v := &Value[T]{current: initial}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Current returns the latest value.
func (v *Value[T]) Current() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set stores next and notifies subscribers. It reports whether subscribers were notified.
func (v *Value[T]) Set(next T) bool {
	v.deliver.Lock()
	defer v.deliver.Unlock()

	v.mu.Lock()
	if v.equal != nil && v.equal(v.current, next) {
		v.mu.Unlock()
		return false
	}
	v.current = next
	subs := make([]*subscription[T], len(v.subs))
	copy(subs, v.subs)
	v.mu.Unlock()

	for _, s := range subs {
		if s.active.Load() {
			s.fn(next)
		}
	}
	return true
}

// Subscribe registers fn and delivers the current value to it before returning.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	s := &subscription[T]{fn: fn}
	s.active.Store(true)

	v.deliver.Lock()
	v.mu.Lock()
	v.subs = append(v.subs, s)
	current := v.current
	v.mu.Unlock()
	fn(current)
	v.deliver.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.active.Store(false)
			v.remove(s)
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

func (v *Value[T]) remove(target *subscription[T]) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, s := range v.subs {
		if s == target {
			v.subs = append(v.subs[:i], v.subs[i+1:]...)
			return
		}
	}
}
