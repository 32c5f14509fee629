// Package errs defines the error kinds the ledger surfaces to its callers.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a ledger error.
type Kind int

const (
	// Storage is an underlying persistence failure. It is the kind of any
	// error that carries no other classification.
	Storage Kind = iota
	// NotFound means a referenced user, group or expense does not exist.
	NotFound
	// Validation means the request was malformed and nothing was written.
	Validation
	// Conflict means a precondition rejected the mutation.
	Conflict
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case Validation:
		return "validation"
	case Conflict:
		return "conflict"
	default:
		return "storage"
	}
}

// Error is a classified error. Err, when set, is the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or Storage
// when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Storage
}

// Is reports whether err is classified as kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Msg: fmt.Sprintf(format, args...)}
}

func Validationf(format string, args ...any) *Error {
	return &Error{Kind: Validation, Msg: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: Conflict, Msg: fmt.Sprintf(format, args...)}
}

// StorageErr wraps a persistence failure. A nil err yields nil.
func StorageErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Storage, Msg: msg, Err: err}
}

// Sentinels for the ledger's validation and precondition checks.
var (
	ErrUserNotInGroup     = &Error{Kind: Validation, Msg: "user not in group"}
	ErrPayerNotInGroup    = &Error{Kind: Validation, Msg: "user who paid is not in the group"}
	ErrDuplicateSplitUser = &Error{Kind: Validation, Msg: "duplicate split user"}
	ErrPercentageSum      = &Error{Kind: Validation, Msg: "percentages must sum to 100"}
	ErrPercentageRange    = &Error{Kind: Validation, Msg: "percentage must be greater than 0 and at most 100"}
	ErrSplitsRequired     = &Error{Kind: Validation, Msg: "splits must be provided for percentage split type"}
	ErrSplitsNotAllowed   = &Error{Kind: Validation, Msg: "splits must be empty for equal split type"}
	ErrNoMembers          = &Error{Kind: Validation, Msg: "at least one member is required"}
	ErrNonPositiveAmount  = &Error{Kind: Validation, Msg: "amount must be greater than 0"}
	ErrEmptyDescription   = &Error{Kind: Validation, Msg: "description is required"}
	ErrUnknownSplitType   = &Error{Kind: Validation, Msg: "split type must be equal or percentage"}
	ErrTooFewMembers      = &Error{Kind: Validation, Msg: "a group needs at least 2 members"}
	ErrEmptyName          = &Error{Kind: Validation, Msg: "name is required"}
	ErrInvalidEmail       = &Error{Kind: Validation, Msg: "email is not valid"}
	ErrEmailTaken         = &Error{Kind: Conflict, Msg: "email already registered"}
	ErrOutstandingBalance = &Error{Kind: Conflict, Msg: "cannot delete user with outstanding balances"}
	ErrGroupHasExpenses   = &Error{Kind: Conflict, Msg: "cannot delete group with expenses"}
	ErrUserHasExpenses    = &Error{Kind: Conflict, Msg: "cannot delete user with expense history"}
	ErrGroupTooSmall      = &Error{Kind: Conflict, Msg: "cannot delete user from a group that would drop below 2 members"}
)
