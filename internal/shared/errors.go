package shared

import "errors"

var (
	// ErrValidation indicates malformed or rejected input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate indicates a uniqueness conflict (e.g. email already registered).
	ErrDuplicate = wrapKind(ErrValidation, "duplicate entry")
	// ErrForbiddenKeys indicates an update touching fields outside the allow-list.
	ErrForbiddenKeys = wrapKind(ErrValidation, "forbidden update keys")
	// ErrInvalidFileType indicates an upload with a rejected file name or size.
	ErrInvalidFileType = wrapKind(ErrValidation, "invalid file")
	// ErrInvalidCredentials indicates login failure. Unknown email and wrong
	// password both map here.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates a token that is malformed or fails signature checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnauthenticated indicates a well-formed token that no longer maps to a live session.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrNoAvatar indicates an account without a stored avatar.
	ErrNoAvatar = errors.New("avatar not set")
	// ErrPersistence indicates a storage-layer failure.
	ErrPersistence = errors.New("persistence failure")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func wrapKind(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// IsAuthError reports whether err is one of the authentication failures.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrUnauthenticated)
}
