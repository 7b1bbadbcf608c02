// Package guard gates views on the session state.
//
// A protected view asks Check or Require before rendering; when the session
// is absent the decision carries a redirect to the login entry point. Watch
// re-evaluates on every session transition so a view that is already on
// screen is sent away when the session expires.
package guard
