package app

// Kind classifies a failure surfaced to a client. Every kind except
// KindAuthenticationFailed is transient: the client may retry the
// operation without reconnecting.
type Kind string

const (
	KindAuthenticationFailed Kind = "authentication_failed"
	KindAuthorizationDenied  Kind = "authorization_denied"
	KindValidationFailed     Kind = "validation_failed"
	KindPersistenceFailed    Kind = "persistence_failed"
	KindTimeout              Kind = "timeout"
)

// Error is delivered only to the originating session, never broadcast.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Message }

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
