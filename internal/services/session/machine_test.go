package session_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"didclient/internal/domain"
	"didclient/internal/services/session"
	"didclient/internal/store"
)

// brokenStore fails every write and never has anything stored.
type brokenStore struct{}

func (brokenStore) Load(context.Context) (domain.Token, bool) { return "", false }
func (brokenStore) Save(context.Context, domain.Token) error {
	return fmt.Errorf("%w: disk full", domain.ErrStorageUnavailable)
}
func (brokenStore) Clear(context.Context) error {
	return fmt.Errorf("%w: disk full", domain.ErrStorageUnavailable)
}

func TestEstablish_ThenCurrentReturnsToken(t *testing.T) {
	ctx := context.Background()
	m := session.New(store.NewMemoryStore(), nil)

	for _, tok := range []domain.Token{"abc", "eyJhbGciOiJIUzI1NiJ9.e30.sig", "ключ", " spaced "} {
		if err := m.Establish(ctx, tok); err != nil {
			t.Fatalf("Establish(%q): %v", tok, err)
		}
		cur, ok := m.Current()
		if !ok || cur.Token != tok {
			t.Fatalf("Current() = %q, %v; want %q", cur.Token, ok, tok)
		}
	}
}

func TestEstablish_EmptyTokenRejected(t *testing.T) {
	m := session.New(store.NewMemoryStore(), nil)
	if err := m.Establish(context.Background(), ""); !errors.Is(err, domain.ErrEmptyToken) {
		t.Fatalf("want ErrEmptyToken, got %v", err)
	}
	if m.IsAuthenticated() {
		t.Fatal("empty token must not authenticate")
	}
}

func TestEstablish_PersistsAndSupersedes(t *testing.T) {
	ctx := context.Background()
	cs := store.NewMemoryStore()
	m := session.New(cs, nil)

	_ = m.Establish(ctx, "first")
	_ = m.Establish(ctx, "second")

	if got, _ := cs.Load(ctx); got != "second" {
		t.Fatalf("store holds %q, want second", got)
	}
	if cur, _ := m.Current(); cur.Token != "second" {
		t.Fatalf("current %q, want second", cur.Token)
	}
}

func TestTerminate_IdempotentFromUnauthenticated(t *testing.T) {
	ctx := context.Background()
	m := session.New(store.NewMemoryStore(), nil)

	for i := 0; i < 2; i++ {
		if err := m.Terminate(ctx); err != nil {
			t.Fatalf("Terminate #%d: %v", i+1, err)
		}
		if m.State() != domain.StateUnauthenticated {
			t.Fatalf("state %v after Terminate #%d", m.State(), i+1)
		}
	}
}

func TestTerminate_ClearsStore(t *testing.T) {
	ctx := context.Background()
	cs := store.NewMemoryStore()
	m := session.New(cs, nil)

	_ = m.Establish(ctx, "abc")
	if err := m.Terminate(ctx); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if _, ok := cs.Load(ctx); ok {
		t.Fatal("store still holds a token")
	}
	if _, ok := m.Current(); ok {
		t.Fatal("session still present")
	}
}

func TestStart_ColdWithoutToken(t *testing.T) {
	m := session.New(store.NewFileStore(t.TempDir(), nil), nil)
	if st := m.Start(context.Background()); st != domain.StateUnauthenticated {
		t.Fatalf("Start = %v", st)
	}
	if m.IsAuthenticated() {
		t.Fatal("cold start without token is authenticated")
	}
}

func TestStart_ColdWithSavedToken(t *testing.T) {
	ctx := context.Background()
	home := t.TempDir()
	if err := store.NewFileStore(home, nil).Save(ctx, "saved"); err != nil {
		t.Fatal(err)
	}

	m := session.New(store.NewFileStore(home, nil), nil)
	if st := m.Start(ctx); st != domain.StateAuthenticated {
		t.Fatalf("Start = %v", st)
	}
	if cur, ok := m.Current(); !ok || cur.Token != "saved" {
		t.Fatalf("Current = %q, %v", cur.Token, ok)
	}
}

func TestExpire_OnlyMatchingToken(t *testing.T) {
	ctx := context.Background()
	m := session.New(store.NewMemoryStore(), nil)
	_ = m.Establish(ctx, "old")
	_ = m.Establish(ctx, "new")

	if m.Expire(ctx, "old") {
		t.Fatal("stale token expired the newer session")
	}
	if !m.IsAuthenticated() {
		t.Fatal("session lost")
	}
	if !m.Expire(ctx, "new") {
		t.Fatal("matching token did not expire")
	}
	if m.IsAuthenticated() {
		t.Fatal("still authenticated after expiry")
	}
}

func TestExpire_ConcurrentCallsEndOnce(t *testing.T) {
	ctx := context.Background()
	m := session.New(store.NewMemoryStore(), nil)
	_ = m.Establish(ctx, "abc")

	var expiredEvents atomic.Int32
	m.Subscribe(func(ev domain.Event) {
		if ev.Kind == domain.EventExpired {
			expiredEvents.Add(1)
		}
	})

	var ended atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Expire(ctx, "abc") {
				ended.Add(1)
			}
		}()
	}
	wg.Wait()

	if ended.Load() != 1 {
		t.Fatalf("want exactly one winner, got %d", ended.Load())
	}
	if expiredEvents.Load() != 1 {
		t.Fatalf("want one expired event, got %d", expiredEvents.Load())
	}
	if m.IsAuthenticated() {
		t.Fatal("still authenticated")
	}
}

func TestSubscribe_ReceivesTransitionsUntilUnsubscribed(t *testing.T) {
	ctx := context.Background()
	m := session.New(store.NewMemoryStore(), nil)

	var got []domain.Event
	unsubscribe := m.Subscribe(func(ev domain.Event) { got = append(got, ev) })

	_ = m.Establish(ctx, "abc")
	_ = m.Terminate(ctx)
	_ = m.Terminate(ctx) // no change, no event
	unsubscribe()
	unsubscribe()
	_ = m.Establish(ctx, "ignored")

	if len(got) != 2 {
		t.Fatalf("want 2 events, got %d: %+v", len(got), got)
	}
	if got[0].Kind != domain.EventEstablished || got[0].Session.Token != "abc" || got[0].State != domain.StateAuthenticated {
		t.Fatalf("unexpected first event %+v", got[0])
	}
	if got[1].Kind != domain.EventTerminated || got[1].State != domain.StateUnauthenticated || got[1].Session.IsPresent() {
		t.Fatalf("unexpected second event %+v", got[1])
	}
}

func TestStart_PublishesRestored(t *testing.T) {
	ctx := context.Background()
	cs := store.NewMemoryStore()
	_ = cs.Save(ctx, "abc")
	m := session.New(cs, nil)

	var kinds []domain.EventKind
	m.Subscribe(func(ev domain.Event) { kinds = append(kinds, ev.Kind) })
	m.Start(ctx)

	if len(kinds) != 1 || kinds[0] != domain.EventRestored {
		t.Fatalf("want [restored], got %v", kinds)
	}
}

func TestEstablish_StorageFailureStillAuthenticates(t *testing.T) {
	ctx := context.Background()
	m := session.New(brokenStore{}, nil)

	err := m.Establish(ctx, "abc")
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("want ErrStorageUnavailable, got %v", err)
	}
	if !m.IsAuthenticated() {
		t.Fatal("in-memory session should be active")
	}
	if !m.Expire(ctx, "abc") {
		t.Fatal("expire should still end the session when clear fails")
	}
	if m.IsAuthenticated() {
		t.Fatal("still authenticated")
	}
}

func TestSubscribe_HighestSeqMatchesFinalState(t *testing.T) {
	ctx := context.Background()
	m := session.New(store.NewMemoryStore(), nil)

	var (
		mu     sync.Mutex
		latest domain.Event
		seen   = map[uint64]bool{}
	)
	m.Subscribe(func(ev domain.Event) {
		mu.Lock()
		defer mu.Unlock()
		if seen[ev.Seq] {
			t.Errorf("duplicate seq %d", ev.Seq)
		}
		seen[ev.Seq] = true
		if ev.Seq > latest.Seq {
			latest = ev
		}
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = m.Establish(ctx, domain.Token(fmt.Sprintf("tok-%d", i)))
		}(i)
		go func() {
			defer wg.Done()
			_ = m.Terminate(ctx)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if latest.State != m.State() {
		t.Fatalf("highest seq %d says %s, machine is %s", latest.Seq, latest.State, m.State())
	}
	if cur, ok := m.Current(); ok && latest.Session.Token != cur.Token {
		t.Fatalf("highest seq token %q, current %q", latest.Session.Token, cur.Token)
	}
	if uint64(len(seen)) != latest.Seq {
		t.Fatalf("seq has gaps: %d events, max seq %d", len(seen), latest.Seq)
	}
}

func TestStart_NoTokenConsumesNoSeq(t *testing.T) {
	ctx := context.Background()
	m := session.New(store.NewMemoryStore(), nil)
	var got []domain.Event
	m.Subscribe(func(ev domain.Event) { got = append(got, ev) })

	m.Start(ctx)
	_ = m.Terminate(ctx)
	_ = m.Establish(ctx, "abc")

	if len(got) != 1 || got[0].Seq != 1 {
		t.Fatalf("want one event with seq 1, got %+v", got)
	}
}
