package session

import (
	"context"
	"log/slog"
	"sync"

	"didclient/internal/domain"
	"didclient/internal/logging"
)

// Machine is the single source of truth for the active session.
//
// It has two states, Unauthenticated and Authenticated(Session). Every
// mutation is persisted to the credential store inside the critical section,
// so memory and storage agree on the last writer. Subscribers run after the
// lock is released and may observe racing transitions out of order;
// Event.Seq orders them.
type Machine struct {
	store domain.CredentialStore
	log   *slog.Logger

	mu      sync.RWMutex
	session domain.Session
	seq     uint64

	subMu  sync.Mutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id int
	fn func(domain.Event)
}

// New constructs a Machine persisting through store. It starts
// Unauthenticated; call Start to seed it from storage.
func New(store domain.CredentialStore, log *slog.Logger) *Machine {
	return &Machine{
		store: store,
		log:   logging.OrDiscard(log).With("component", "session"),
	}
}

// Start seeds the machine from the credential store. A stored token is
// trusted optimistically until the first protected call proves otherwise;
// no network request is made.
func (m *Machine) Start(ctx context.Context) domain.State {
	token, ok := m.store.Load(ctx)

	m.mu.Lock()
	var ev domain.Event
	if ok {
		m.session = domain.Session{Token: token}
		ev = m.eventLocked(domain.EventRestored)
	} else {
		m.session = domain.Session{}
	}
	m.mu.Unlock()

	if !ok {
		m.log.DebugContext(ctx, "no stored session")
		return domain.StateUnauthenticated
	}
	m.log.InfoContext(ctx, "session restored", "token", token)
	m.publish(ev)
	return domain.StateAuthenticated
}

// Establish adopts token as the active session, superseding any prior one.
//
// The token is saved before the transition completes. If saving fails the
// session is still active in memory and the returned error wraps
// domain.ErrStorageUnavailable: the session will not survive a restart.
func (m *Machine) Establish(ctx context.Context, token domain.Token) error {
	if token.IsZero() {
		return domain.ErrEmptyToken
	}

	m.mu.Lock()
	saveErr := m.store.Save(ctx, token)
	m.session = domain.Session{Token: token}
	ev := m.eventLocked(domain.EventEstablished)
	m.mu.Unlock()

	if saveErr != nil {
		m.log.WarnContext(ctx, "session established but not persisted", "token", token, "err", saveErr)
	} else {
		m.log.InfoContext(ctx, "session established", "token", token)
	}
	m.publish(ev)
	return saveErr
}

// Terminate ends any session and clears the store. Calling it with no
// session is a no-op apart from clearing storage again.
func (m *Machine) Terminate(ctx context.Context) error {
	_, err := m.end(ctx, "", domain.EventTerminated)
	return err
}

// Expire ends the session only if it still carries token, so a late
// authorization failure for a superseded token cannot end a newer session.
// It reports whether a session was ended.
func (m *Machine) Expire(ctx context.Context, token domain.Token) bool {
	if token.IsZero() {
		return false
	}
	ended, err := m.end(ctx, token, domain.EventExpired)
	if err != nil {
		m.log.WarnContext(ctx, "expired session not cleared from storage", "err", err)
	}
	return ended
}

// end transitions to Unauthenticated. A non-empty match restricts the
// transition to sessions carrying that token.
func (m *Machine) end(ctx context.Context, match domain.Token, kind domain.EventKind) (bool, error) {
	m.mu.Lock()
	if !match.IsZero() && m.session.Token != match {
		m.mu.Unlock()
		return false, nil
	}
	prev := m.session
	m.session = domain.Session{}
	err := m.store.Clear(ctx)
	if !prev.IsPresent() {
		m.mu.Unlock()
		return false, err
	}
	ev := m.eventLocked(kind)
	m.mu.Unlock()

	m.log.InfoContext(ctx, "session ended", "reason", string(kind), "token", prev.Token)
	m.publish(ev)
	return true, err
}

// Current returns the active session, if any.
func (m *Machine) Current() (domain.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session, m.session.IsPresent()
}

// IsAuthenticated reports whether a session is active.
func (m *Machine) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}

// State returns the current lifecycle state.
func (m *Machine) State() domain.State {
	if m.IsAuthenticated() {
		return domain.StateAuthenticated
	}
	return domain.StateUnauthenticated
}

// Subscribe registers fn to be called after every state change. The
// returned function removes the subscription; calling it twice is safe.
func (m *Machine) Subscribe(fn func(domain.Event)) func() {
	m.subMu.Lock()
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscription{id: id, fn: fn})
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// eventLocked numbers the transition just made. Call it only for
// transitions that will be published.
func (m *Machine) eventLocked(kind domain.EventKind) domain.Event {
	m.seq++
	ev := domain.Event{Seq: m.seq, Kind: kind, State: domain.StateUnauthenticated}
	if m.session.IsPresent() {
		ev.State = domain.StateAuthenticated
		ev.Session = m.session
	}
	return ev
}

func (m *Machine) publish(ev domain.Event) {
	m.subMu.Lock()
	subs := make([]subscription, len(m.subs))
	copy(subs, m.subs)
	m.subMu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}

// Compile-time assertion that Machine implements domain.SessionMachine.
var _ domain.SessionMachine = (*Machine)(nil)
