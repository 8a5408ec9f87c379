// Package session holds the caller's identity for the duration of a sign-in.
//
// A Session is immutable: it is constructed on sign-in and replaced (never
// mutated) on sign-out, so every consumer holding a reference keeps a
// consistent view of who the caller was when the reference was taken.
package session

// Session is the caller's identity context. The handle is the opaque
// identity the ledger knows the caller by; the token is the transport
// credential presented on authenticated calls. A nil Session means the
// caller is signed out; all methods are nil-safe.
type Session struct {
	handle string
	token  string
}

// New returns a session for a signed-in caller.
func New(handle, token string) *Session {
	return &Session{handle: handle, token: token}
}

// Handle returns the caller's opaque identity handle, or "" when signed out.
func (s *Session) Handle() string {
	if s == nil {
		return ""
	}
	return s.handle
}

// Token returns the transport credential, or "" when signed out.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

// Authenticated reports whether a caller identity is present.
func (s *Session) Authenticated() bool {
	return s != nil && s.handle != ""
}
