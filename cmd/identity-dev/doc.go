// Package main runs the in-memory identity service used by didclient during
// development and tests.
//
// HTTP API
//
//	POST /signup {username, email, password}
//	    Create an account. Returns {id, username, email, is_active, did,
//	    public_key, private_key}. The private key is shown once and never kept.
//
//	POST /login {username | email, password}
//	    Returns {access_token, token_type: "bearer"}. Bad credentials are 401.
//
//	GET /did                       (Authorization: Bearer <token>)
//	    Returns {username, did, public_key} for the token's subject.
//
//	GET /protected                 (Bearer)
//	    Returns {message} greeting the token's subject.
//
//	POST /verify {username, message, signature}   (Bearer)
//	    Checks a base64 RSA PKCS#1 v1.5 SHA-256 signature against the stored
//	    public key of username. Returns {message}.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Errors are {"detail": "..."}; validation failures are 422 with
//     {"detail": [{"msg": "..."}]}.
//   - Missing or invalid bearer tokens are 401 {"detail": "Invalid token"}.
//   - Every request is access-logged with method, path, status, request id
//     and duration.
//   - The default listen address is :8000.
package main
