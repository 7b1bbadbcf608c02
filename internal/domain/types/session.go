package types

// Session is the client-side record of an authenticated user. It holds only
// the bearer token; a Session with an empty token is no session at all.
type Session struct {
	Token Token `json:"token"`
}

// IsPresent reports whether the session carries a token.
func (s Session) IsPresent() bool { return !s.Token.IsZero() }

// State is the lifecycle state of the session machine.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// EventKind says why the session machine changed state.
type EventKind string

const (
	// EventRestored is emitted when Start finds a persisted token.
	EventRestored EventKind = "restored"
	// EventEstablished is emitted after a new token has been adopted.
	EventEstablished EventKind = "established"
	// EventTerminated is emitted on explicit logout.
	EventTerminated EventKind = "terminated"
	// EventExpired is emitted when the service rejected the credential.
	EventExpired EventKind = "expired"
)

// Event is delivered to subscribers after every state change.
//
// Deliveries from racing transitions may arrive out of order. Seq increases
// with every transition, so the event with the highest Seq a subscriber has
// seen describes the latest state; earlier ones are stale.
type Event struct {
	Seq     uint64
	Kind    EventKind
	State   State
	Session Session // zero unless State is StateAuthenticated
}
