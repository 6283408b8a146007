// Package auth manages marketplace sessions and API tokens.
//
// # Service
//
// The Service is the session store: it tracks the single authenticated user,
// hashes credentials with bcrypt, and writes account records through the
// injected store.UserStore on every register/login/profile update. Logout
// only clears the in-memory session.
//
// # Tokens
//
// JWTManager issues and verifies HS256 tokens with the user ID in the "sub"
// claim. The HTTP API consumes the TokenVerifier interface so tests can
// substitute a fake.
package auth
