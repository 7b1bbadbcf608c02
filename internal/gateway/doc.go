// Package gateway provides the authenticated request gateway to the identity
// service.
//
// Every protected call reads the current session from a
// domain.SessionSource, sends it as "Authorization: Bearer <token>" together
// with an X-Request-ID, and normalizes failures:
//
//   - no session: domain.ErrUnauthenticated, nothing is sent
//   - no response: *domain.NetworkError, session unchanged, no retry
//   - 401/403: the session that made the call is expired, domain.ErrSessionExpired
//   - other non-2xx: *domain.RequestFailedError with the server's message
//
// Signup and Login bypass the session entirely. Requests are JSON over HTTP
// and accept a context for cancellation and deadlines; timeouts come from the
// supplied http.Client.
package gateway
