package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
	apperrors "github.com/target/marketnest/internal/errors"
	"github.com/target/marketnest/internal/ports"
)

// DefaultEventsPrefix namespaces per-browser auth channels.
const DefaultEventsPrefix = "marketnest:auth:client:"

// eventBuffer bounds each subscriber channel; slow readers drop events.
const eventBuffer = 8

// SessionEvents publishes auth changes on a Redis channel per client id so
// every replica serving the browser's open tabs sees them.
type SessionEvents struct {
	client redis.UniversalClient
	prefix string
	logger *slog.Logger
}

// SessionEventsOptions configures SessionEvents.
type SessionEventsOptions struct {
	Prefix string
	Logger *slog.Logger
}

// NewSessionEvents creates a Redis pub/sub event bus.
func NewSessionEvents(client redis.UniversalClient, opts SessionEventsOptions) *SessionEvents {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultEventsPrefix
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionEvents{client: client, prefix: prefix, logger: logger.With("component", "session_events")}
}

// Publish sends ev to the channel for ev.ClientID.
func (e *SessionEvents) Publish(ctx context.Context, ev ports.SessionEvent) error {
	if ev.ClientID == "" {
		return apperrors.ValidationField("client_id", "client id is required")
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "marshal session event")
	}
	if pubErr := e.client.Publish(ctx, e.channel(ev.ClientID), payload).Err(); pubErr != nil {
		return apperrors.MapStoreError(pubErr, "redis publish session event")
	}
	return nil
}

// Subscribe listens on the channel for clientID. The subscription is
// confirmed before returning so no event published afterwards is missed.
func (e *SessionEvents) Subscribe(
	ctx context.Context,
	clientID string,
) (<-chan ports.SessionEvent, func(), error) {
	if clientID == "" {
		return nil, nil, apperrors.ValidationField("client_id", "client id is required")
	}

	pubsub := e.client.Subscribe(ctx, e.channel(clientID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, apperrors.MapStoreError(err, "redis subscribe session events")
	}

	subCtx, cancel := context.WithCancel(ctx)
	out := make(chan ports.SessionEvent, eventBuffer)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(out)
		e.pump(subCtx, pubsub.Channel(), out)
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			if err := pubsub.Close(); err != nil {
				e.logger.Debug("close pubsub", "client_id", clientID, "error", err)
			}
			wg.Wait()
		})
	}

	// Release the Redis connection when the caller's context ends.
	go func() {
		<-subCtx.Done()
		stop()
	}()

	return out, stop, nil
}

func (e *SessionEvents) pump(ctx context.Context, in <-chan *redis.Message, out chan<- ports.SessionEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-in:
			if !ok {
				return
			}
			var ev ports.SessionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				e.logger.Warn("discard malformed session event", "channel", msg.Channel, "error", err)
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			default:
				e.logger.Warn("session event dropped, subscriber is slow", "client_id", ev.ClientID)
			}
		}
	}
}

func (e *SessionEvents) channel(clientID string) string { return e.prefix + clientID }
