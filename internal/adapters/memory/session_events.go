package memory

import (
	"context"
	"sync"

	apperrors "github.com/target/marketnest/internal/errors"
	"github.com/target/marketnest/internal/ports"
)

const eventBuffer = 8

type subscriber struct {
	ch   chan ports.SessionEvent
	done chan struct{}
}

// SessionEvents fans auth events out to subscribers in this process.
// Publish never blocks; a full subscriber buffer drops the event.
type SessionEvents struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

// NewSessionEvents creates an empty in-process event bus.
func NewSessionEvents() *SessionEvents {
	return &SessionEvents{subs: make(map[string]map[*subscriber]struct{})}
}

func (e *SessionEvents) Publish(_ context.Context, ev ports.SessionEvent) error {
	if ev.ClientID == "" {
		return apperrors.ValidationField("client_id", "client id is required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for sub := range e.subs[ev.ClientID] {
		select {
		case sub.ch <- ev:
		default:
		}
	}
	return nil
}

func (e *SessionEvents) Subscribe(
	ctx context.Context,
	clientID string,
) (<-chan ports.SessionEvent, func(), error) {
	if clientID == "" {
		return nil, nil, apperrors.ValidationField("client_id", "client id is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, apperrors.MapStoreError(err, "memory subscribe session events")
	}

	sub := &subscriber{ch: make(chan ports.SessionEvent, eventBuffer), done: make(chan struct{})}
	e.mu.Lock()
	set, ok := e.subs[clientID]
	if !ok {
		set = make(map[*subscriber]struct{})
		e.subs[clientID] = set
	}
	set[sub] = struct{}{}
	e.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.subs[clientID], sub)
			if len(e.subs[clientID]) == 0 {
				delete(e.subs, clientID)
			}
			// Closed under the lock so Publish never sends on a closed channel.
			close(sub.ch)
			e.mu.Unlock()
			close(sub.done)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-sub.done:
		}
	}()

	return sub.ch, stop, nil
}

// Subscribers returns the number of live subscriptions for clientID.
func (e *SessionEvents) Subscribers(clientID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subs[clientID])
}
