// Package saierr defines the typed error taxonomy the reconciliation core
// and its collaborators report through.
//
// Callers branch on Kind rather than on error text, the same way the
// metadata/serialization contracts in this repo classify failures by a
// closed set of reasons instead of ad-hoc strings.
package saierr

import "fmt"

// Kind classifies an error so callers can branch on intent rather than text.
type Kind int

const (
	// KindInvalidArgument covers an attribute id outside the object's known
	// set, a duplicate attribute on create, or a list count/pointer
	// inconsistency. Surfaced to the caller; no state change.
	KindInvalidArgument Kind = iota
	// KindNotFound covers a referenced VID with no RID, or a missing
	// structured key. Fatal to reconciliation of the object (forces create).
	KindNotFound
	// KindItemExists covers a create that targets an already-present key.
	// No state change.
	KindItemExists
	// KindBufferOverflow covers a GET whose list buffer was too small. The
	// call returns the required count; the caller may retry.
	KindBufferOverflow
	// KindNotSupported covers an attribute marked unsupported by the driver.
	// Reconciliation marks the object as requiring remove+create, or fails
	// if the attribute is CREATE_ONLY.
	KindNotSupported
	// KindNotImplemented covers an operation combination the driver does
	// not implement.
	KindNotImplemented
	// KindMetadataViolation covers an attribute value that violates its
	// declared range or object-type constraint. Reconciliation aborts with
	// a diagnostic dump of the failing object.
	KindMetadataViolation
	// KindInternal covers a broken invariant (duplicate RID in a map, null
	// object type for a valid RID, ...). The process aborts with full
	// context.
	KindInternal
)

// String returns the lower-case, hyphen-separated name used in log fields and the
// transport record grammar's error reporting.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid-argument"
	case KindNotFound:
		return "not-found"
	case KindItemExists:
		return "item-exists"
	case KindBufferOverflow:
		return "buffer-overflow"
	case KindNotSupported:
		return "not-supported"
	case KindNotImplemented:
		return "not-implemented"
	case KindMetadataViolation:
		return "metadata-violation"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("unknown-kind-%d", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an *Error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap constructs an *Error of the given kind wrapping an underlying cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Is reports whether err carries the given Kind, unwrapping through
// intermediate wrappers.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if se, ok := err.(*Error); ok {
			e = se
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}

// Sentinels for the conditions that are compared by identity rather than by
// kind+message (e.g. in matching's "no candidate" path).
var (
	// ErrNoCandidate indicates matching found no viable current-view
	// counterpart; the caller should proceed to create.
	ErrNoCandidate = New(KindNotFound, "no matching candidate in current view")
)
