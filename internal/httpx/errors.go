package httpx

import "errors"

var (
	// ErrMalformed marks request bodies that could not be parsed.
	ErrMalformed = errors.New("malformed request body")

	// ErrUnavailable marks failures caused by an unreachable backing store.
	ErrUnavailable = errors.New("store unavailable")
)

// FieldErrors is implemented by validation failures that carry a
// field -> message mapping for the client.
type FieldErrors interface {
	error
	Fields() map[string]string
}

// Malformed wraps a parse failure so the boundary maps it to 400.
func Malformed(err error) error {
	if err == nil {
		return nil
	}
	return &wrapped{sentinel: ErrMalformed, err: err}
}

// Unavailable wraps a store failure so the boundary maps it to 503.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	return &wrapped{sentinel: ErrUnavailable, err: err}
}

type wrapped struct {
	sentinel error
	err      error
}

func (w *wrapped) Error() string { return w.sentinel.Error() + ": " + w.err.Error() }

func (w *wrapped) Unwrap() []error { return []error{w.sentinel, w.err} }
