package guard

import (
	"errors"
	"fmt"

	"didclient/internal/domain"
)

// Capability names what a view requires of the session.
type Capability string

const (
	// Authenticated views need an active session. It is the default.
	Authenticated Capability = "authenticated"
	// Public views are always reachable.
	Public Capability = "public"
)

// LoginPath is where unauthenticated visitors are sent.
const LoginPath = "/login"

// Decision is the outcome of a guard check. Redirect is set only when
// Allowed is false.
type Decision struct {
	Allowed  bool
	Redirect string
}

// RedirectError is returned by Require when access is denied.
type RedirectError struct {
	Capability Capability
	Target     string
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%s view requires login: redirect to %s", e.Capability, e.Target)
}

// Is lets errors.Is(err, domain.ErrUnauthenticated) match.
func (e *RedirectError) Is(target error) bool { return target == domain.ErrUnauthenticated }

// Guard evaluates capabilities against an Authenticator.
type Guard struct {
	auth domain.Authenticator
}

// New returns a guard backed by auth.
func New(auth domain.Authenticator) *Guard {
	return &Guard{auth: auth}
}

// Check decides whether a view requiring c may render. An empty capability
// means Authenticated; unknown capabilities are denied.
func (g *Guard) Check(c Capability) Decision {
	switch c {
	case Public:
		return Decision{Allowed: true}
	case Authenticated, "":
		if g.auth.IsAuthenticated() {
			return Decision{Allowed: true}
		}
	}
	return Decision{Redirect: LoginPath}
}

// Require is Check for callers that prefer an error.
func (g *Guard) Require(c Capability) error {
	d := g.Check(c)
	if d.Allowed {
		return nil
	}
	if c == "" {
		c = Authenticated
	}
	return &RedirectError{Capability: c, Target: d.Redirect}
}

// Watch re-checks c on every session event and calls onRedirect when access
// is lost. The returned function stops watching.
func (g *Guard) Watch(sub domain.Subscriber, c Capability, onRedirect func(Decision)) func() {
	return sub.Subscribe(func(domain.Event) {
		if d := g.Check(c); !d.Allowed {
			onRedirect(d)
		}
	})
}

// IsRedirect reports whether err is a guard redirect and returns it.
func IsRedirect(err error) (*RedirectError, bool) {
	var re *RedirectError
	ok := errors.As(err, &re)
	return re, ok
}
