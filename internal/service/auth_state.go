package service

import (
	"context"
	"log/slog"
	"time"

	domainauth "github.com/target/marketnest/internal/domain/auth"
	"github.com/target/marketnest/internal/observe"
	"github.com/target/marketnest/internal/ports"
)

// DefaultRetryInterval is how long a Loading state waits before resolving again.
const DefaultRetryInterval = 3 * time.Second

// StateResolver maps a session ID to the header auth state.
type StateResolver interface {
	ResolveState(ctx context.Context, sessionID string) domainauth.State
}

// AuthStateFeedOptions groups dependencies for AuthStateFeed.
type AuthStateFeedOptions struct {
	Resolver StateResolver
	// Events is optional. Without it a watch resolves and retries but never follows
	// sign-in or sign-out made elsewhere.
	Events        ports.SessionEvents
	RetryInterval time.Duration
	Logger        *slog.Logger
}

// AuthStateFeed produces live auth state observers for a browser.
type AuthStateFeed struct {
	resolver      StateResolver
	events        ports.SessionEvents
	retryInterval time.Duration
	logger        *slog.Logger
}

// NewAuthStateFeed constructs an AuthStateFeed.
func NewAuthStateFeed(opts AuthStateFeedOptions) *AuthStateFeed {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	retry := opts.RetryInterval
	if retry <= 0 {
		retry = DefaultRetryInterval
	}
	return &AuthStateFeed{
		resolver:      opts.Resolver,
		events:        opts.Events,
		retryInterval: retry,
		logger:        logger.With("component", "auth_state_feed"),
	}
}

// Watch returns an observer that starts in Loading, switches to the resolved state
// once the session lookup finishes and then follows auth events for clientID.
// The background work stops when ctx ends.
//
// Once an event has been applied, an in-flight resolution for the old session is
// discarded so a stale lookup never overwrites a newer sign-in or sign-out.
func (f *AuthStateFeed) Watch(ctx context.Context, clientID, sessionID string) *observe.Value[domainauth.State] {
	value := observe.NewValue(domainauth.LoadingState(), observe.WithEqual(domainauth.State.Equal))

	var events <-chan ports.SessionEvent
	stop := func() {}
	if f.events != nil && clientID != "" {
		ch, cancel, err := f.events.Subscribe(ctx, clientID)
		if err != nil {
			f.logger.WarnContext(ctx, "subscribe to session events failed", "client_id", clientID, "error", err)
		} else {
			events, stop = ch, cancel
		}
	}

	go f.run(ctx, value, events, stop, sessionID)
	return value
}

func (f *AuthStateFeed) run(
	ctx context.Context,
	value *observe.Value[domainauth.State],
	events <-chan ports.SessionEvent,
	stop func(),
	sessionID string,
) {
	defer stop()

	resolved := make(chan domainauth.State, 1)
	resolve := func() {
		go func() { resolved <- f.resolver.ResolveState(ctx, sessionID) }()
	}
	resolve()

	var retry <-chan time.Time
	followingEvents := false
	for {
		select {
		case <-ctx.Done():
			return
		case state := <-resolved:
			if followingEvents {
				continue
			}
			value.Set(state)
			if state.IsLoading() {
				retry = time.After(f.retryInterval)
			}
		case <-retry:
			retry = nil
			if !followingEvents {
				resolve()
			}
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			followingEvents = true
			retry = nil
			value.Set(ev.State())
		}
	}
}
