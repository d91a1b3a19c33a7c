// Package dberr defines the closed set of errors reported by catalog DDL.
//
// Every failure carries a Kind plus the names involved. Callers branch on the
// kind with errors.Is against the exported sentinels or with KindOf:
//
//	if errors.Is(err, dberr.ErrTableExists) { ... }
//	switch dberr.KindOf(err) { ... }
package dberr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a catalog error.
type Kind int

const (
	KindUnknown Kind = iota
	KindDatabaseExists
	KindDatabaseNotFound
	KindDatabaseInUse
	KindNoDatabaseOpen
	KindTableExists
	KindTableNotFound
	KindColumnNotFound
	KindIndexExists
	KindIndexNotFound
	KindDuplicateKey
	KindInvalidDefinition
	KindEnvironmentFailure
)

var kindNames = map[Kind]string{
	KindUnknown:            "UNKNOWN",
	KindDatabaseExists:     "DATABASE_EXISTS",
	KindDatabaseNotFound:   "DATABASE_NOT_FOUND",
	KindDatabaseInUse:      "DATABASE_IN_USE",
	KindNoDatabaseOpen:     "NO_DATABASE_OPEN",
	KindTableExists:        "TABLE_EXISTS",
	KindTableNotFound:      "TABLE_NOT_FOUND",
	KindColumnNotFound:     "COLUMN_NOT_FOUND",
	KindIndexExists:        "INDEX_EXISTS",
	KindIndexNotFound:      "INDEX_NOT_FOUND",
	KindDuplicateKey:       "DUPLICATE_KEY",
	KindInvalidDefinition:  "INVALID_DEFINITION",
	KindEnvironmentFailure: "ENVIRONMENT_FAILURE",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Category groups kinds by who has to act on them.
type Category int

const (
	// CategoryUser errors are fixed by changing the request.
	CategoryUser Category = iota
	// CategoryData errors come from the stored rows themselves.
	CategoryData
	// CategorySystem errors need operator attention.
	CategorySystem
)

func (k Kind) Category() Category {
	switch k {
	case KindDuplicateKey:
		return CategoryData
	case KindEnvironmentFailure, KindUnknown:
		return CategorySystem
	default:
		return CategoryUser
	}
}

// Error is the structured error returned by every catalog operation.
type Error struct {
	Kind     Kind
	Op       string   // e.g. "CreateIndex"
	Database string   // database involved, if any
	Table    string   // table involved, if any
	Columns  []string // column list involved, if any
	Detail   string
	Cause    error
}

// Sentinels for errors.Is. Only Kind is compared.
var (
	ErrDatabaseExists     = &Error{Kind: KindDatabaseExists}
	ErrDatabaseNotFound   = &Error{Kind: KindDatabaseNotFound}
	ErrDatabaseInUse      = &Error{Kind: KindDatabaseInUse}
	ErrNoDatabaseOpen     = &Error{Kind: KindNoDatabaseOpen}
	ErrTableExists        = &Error{Kind: KindTableExists}
	ErrTableNotFound      = &Error{Kind: KindTableNotFound}
	ErrColumnNotFound     = &Error{Kind: KindColumnNotFound}
	ErrIndexExists        = &Error{Kind: KindIndexExists}
	ErrIndexNotFound      = &Error{Kind: KindIndexNotFound}
	ErrDuplicateKey       = &Error{Kind: KindDuplicateKey}
	ErrInvalidDefinition  = &Error{Kind: KindInvalidDefinition}
	ErrEnvironmentFailure = &Error{Kind: KindEnvironmentFailure}
)

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", e.Kind)
	if e.Op != "" {
		fmt.Fprintf(&b, " %s", e.Op)
	}
	var subject []string
	if e.Database != "" {
		subject = append(subject, "database "+e.Database)
	}
	if e.Table != "" {
		subject = append(subject, "table "+e.Table)
	}
	if len(e.Columns) > 0 {
		subject = append(subject, "columns ("+strings.Join(e.Columns, ", ")+")")
	}
	if len(subject) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(subject, ", "))
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// New builds an error of kind k for operation op.
func New(k Kind, op string) *Error {
	return &Error{Kind: k, Op: op}
}

// Environment wraps an OS or file-system failure.
func Environment(op string, cause error) *Error {
	return &Error{Kind: KindEnvironmentFailure, Op: op, Cause: cause}
}

func (e *Error) WithDatabase(name string) *Error {
	e.Database = name
	return e
}

func (e *Error) WithTable(name string) *Error {
	e.Table = name
	return e
}

func (e *Error) WithColumns(cols []string) *Error {
	e.Columns = append([]string(nil), cols...)
	return e
}

func (e *Error) WithDetail(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}
