package domain

import (
	interfaces "didclient/internal/domain/interfaces"
	types "didclient/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Token          = types.Token
	Username       = types.Username
	DID            = types.DID
	Session        = types.Session
	State          = types.State
	Event          = types.Event
	EventKind      = types.EventKind
	IdentityRecord = types.IdentityRecord
	SignupRequest  = types.SignupRequest
	SignupResult   = types.SignupResult
	LoginRequest   = types.LoginRequest
	LoginResult    = types.LoginResult
	VerifyRequest  = types.VerifyRequest
	VerifyResult   = types.VerifyResult
)

const (
	StateUnauthenticated = types.StateUnauthenticated
	StateAuthenticated   = types.StateAuthenticated

	EventRestored    = types.EventRestored
	EventEstablished = types.EventEstablished
	EventTerminated  = types.EventTerminated
	EventExpired     = types.EventExpired
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	CredentialStore = interfaces.CredentialStore
	Authenticator   = interfaces.Authenticator
	Subscriber      = interfaces.Subscriber
	SessionSource   = interfaces.SessionSource
	SessionMachine  = interfaces.SessionMachine
	IdentityService = interfaces.IdentityService
	Gateway         = interfaces.Gateway
)
