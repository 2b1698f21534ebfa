// Package dberrors defines the tagged error vocabulary shared by every
// layer of briarql: the node store, the B-tree engine, the catalog and
// executor, and the SQL front-end all report failures as a *dberrors.Error
// carrying one of the fixed Kind values below.
package dberrors

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Kind tags the category of a briarql error.
type Kind int

const (
	// Syntax is a tokenizer or grammar rejection.
	Syntax Kind = iota
	// UnknownTable names a table absent from the catalog.
	UnknownTable
	// AlreadyExists names a table CREATE TABLE collided with.
	AlreadyExists
	// Arity is an INSERT value-count mismatch.
	Arity
	// NodeMissing is a Node Store read of an id with no backing file.
	NodeMissing
	// NodeCorrupt is a Node Store read of a torn or unparsable file.
	NodeCorrupt
	// IO is an underlying filesystem failure.
	IO
	// Unsupported is a statement the grammar accepts but the executor does not.
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "Syntax"
	case UnknownTable:
		return "UnknownTable"
	case AlreadyExists:
		return "AlreadyExists"
	case Arity:
		return "Arity"
	case NodeMissing:
		return "NodeMissing"
	case NodeCorrupt:
		return "NodeCorrupt"
	case IO:
		return "IO"
	case Unsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// Error is the carrier type for every briarql failure.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	prefix := e.Kind.String()
	if e.Kind == Syntax {
		// original_source/src/dbms.py's except SyntaxError handler returns
		// f"Syntax error: {e}"; callers (internal/httpapi, cmd/client) ship
		// this string to operators verbatim, so the literal prefix matters.
		prefix = "Syntax error"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap exposes the wrapped cause so errors.Is/errors.As work against it.
func (e *Error) Unwrap() error { return e.cause }

// New builds a bare tagged error with no underlying cause.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags cause with kind, preserving a stack trace via pkg/errors so
// the original filesystem failure is never silently discarded.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), cause: pkgerrors.WithStack(cause)}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
