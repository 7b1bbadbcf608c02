// Package commands defines the didclient CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - signup   Create an account and receive a DID and private key
//   - login    Exchange credentials for a session
//   - logout   End the session locally
//   - whoami   Show the DID of the logged-in user
//   - verify   Have the service check a signed message
//   - status   Show whether a session is active
//
// # Implementation
//
// The root command loads configuration (file, then environment, then any
// flags given explicitly) and builds the dependency graph before any
// subcommand runs. The saved session is restored at that point and only
// then. Protected commands ask the route guard first and fail with a hint to
// log in when there is no session or the service rejects it.
package commands
