package gravtree

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies the ways a run can fail. A Kind is itself an error, so
// callers can write errors.Is(err, gravtree.DegenerateGeometry).
type Kind int

const (
	// InvalidInput covers particles outside the unit square, non-positive
	// particle counts, malformed files and bad configuration values.
	InvalidInput Kind = iota
	// IOError covers failures opening, reading or writing files.
	IOError
	// DegenerateGeometry is returned when two particles cannot be separated
	// by the quadtree, usually because they sit at the same coordinates.
	DegenerateGeometry
	// InternalInvariant means the tree reached a state that should be
	// impossible.
	InternalInvariant
)

var kindNames = [...]string{
	"InvalidInput", "IOError", "DegenerateGeometry", "InternalInvariant",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) Error() string { return k.String() }

// Error is the error type returned by every package in gravtree. Particle and
// Step are -1 when they aren't known.
type Error struct {
	Kind     Kind
	Op       string
	Particle int
	Step     int
	Err      error
}

func (e *Error) Error() string {
	sb := &strings.Builder{}
	sb.WriteString(e.Kind.String())
	if e.Op != "" {
		fmt.Fprintf(sb, " in %s", e.Op)
	}
	if e.Step >= 0 {
		fmt.Fprintf(sb, " at step %d", e.Step)
	}
	if e.Particle >= 0 {
		fmt.Fprintf(sb, " for particle %d", e.Particle)
	}
	if e.Err != nil {
		fmt.Fprintf(sb, ": %s", e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is e's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Errorf creates an *Error of the given kind with no particle or step
// information.
func Errorf(kind Kind, format string, args ...interface{}) error {
	return &Error{
		Kind: kind, Particle: -1, Step: -1, Err: errorf(format, args...),
	}
}

// Wrap wraps err as an *Error of the given kind. If err is already an *Error,
// its kind is kept and only a missing Op is filled in.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Op == "" {
			e.Op = op
		}
		return e
	}
	return &Error{Kind: kind, Op: op, Particle: -1, Step: -1, Err: err}
}

// At annotates err with the step and particle at which it happened. Values
// that are already set on err are not overwritten. Errors which are not an
// *Error are wrapped as InternalInvariant.
func At(err error, step, particle int) error {
	if err == nil {
		return nil
	}
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{Kind: InternalInvariant, Particle: -1, Step: -1, Err: err}
	}
	if e.Step < 0 {
		e.Step = step
	}
	if e.Particle < 0 {
		e.Particle = particle
	}
	return e
}

// KindOf returns the Kind of err and false if err isn't a gravtree error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	var k Kind
	if errors.As(err, &k) {
		return k, true
	}
	return 0, false
}

func errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
