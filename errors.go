package gosymcore

import "fmt"

// ErrorKind classifies the failures a symbolic operation can report.
type ErrorKind uint8

const (
	// DomainError is a mathematically undefined operation, e.g. log(0).
	DomainError ErrorKind = iota + 1
	// NotImplemented is a variant combination with no rule yet.
	NotImplemented
	// DivisionByZero is division by an exact or inexact zero,
	// including zero raised to a negative power.
	DivisionByZero
)

func (k ErrorKind) String() string {
	switch k {
	case DomainError:
		return "domain error"
	case NotImplemented:
		return "not implemented"
	case DivisionByZero:
		return "division by zero"
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error is returned by every fallible operation in this package.
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return "gosymcore: " + e.Kind.String() + ": " + e.Msg
	}
	return "gosymcore: " + e.Op + ": " + e.Kind.String() + ": " + e.Msg
}

// Is matches sentinels by Kind. DivisionByZero also matches ErrDomain.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Msg != "" {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return t.Kind == DomainError && e.Kind == DivisionByZero
}

var (
	ErrDomain         = &Error{Kind: DomainError}
	ErrNotImplemented = &Error{Kind: NotImplemented}
	ErrDivisionByZero = &Error{Kind: DivisionByZero}
)

// raise aborts the current operation. It is recovered by catch at the
// public API boundary.
func raise(kind ErrorKind, op, format string, args ...any) {
	panic(&Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)})
}

// catch converts a raised *Error into a returned error. Any other panic
// is re-raised.
func catch(errp *error) {
	if r := recover(); r != nil {
		e, ok := r.(*Error)
		if !ok {
			panic(r)
		}
		*errp = e
	}
}

// Try calls fn and returns any *Error it raises as an error. It lets
// callers of the infallible builders (AddOf, MulOf, Sum, Product, ...)
// recover the NotImplemented raised when a RealDouble meets a Complex.
func Try(fn func() Basic) (res Basic, err error) {
	defer catch(&err)
	return fn(), nil
}
