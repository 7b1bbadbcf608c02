// Package app loads didclient configuration and wires its dependencies.
//
// Configuration is layered: built-in defaults, then a YAML file, then
// DIDCLIENT_* environment variables. Command-line flags are applied last by
// the CLI. NewWire turns the result into a credential store, a started
// session machine, the gateway, the route guard and the identity service,
// all sharing the one machine.
package app
