package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderr.Is(err, target)
}

// IsFatal reports whether the error must abort the event loop.
func IsFatal(e error) bool {
	var invariant *InvariantError
	var panicked *PanicError
	return As(e, &invariant) || As(e, &panicked)
}
