// Package apperr defines the error kinds returned by lifecycle and repository
// operations. Expected business-rule rejections are *Error values; anything
// else is an unexpected failure.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound          Kind = "NotFound"
	KindInvalidState      Kind = "InvalidState"
	KindConflict          Kind = "Conflict"
	KindValidation        Kind = "ValidationError"
	KindDependencyFailure Kind = "DependencyFailure"
)

// Error is a typed rejection carrying a human-readable message.
// Code narrows the kind (for example ALREADY_BORROWED under Conflict).
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind and, when the target sets one, Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

func New(kind Kind, code, msg string) *Error { return &Error{Kind: kind, Code: code, Message: msg} }

func NotFound(msg string) *Error { return New(KindNotFound, "NOT_FOUND", msg) }

func InvalidState(code, msg string) *Error { return New(KindInvalidState, code, msg) }

func Conflict(code, msg string) *Error { return New(KindConflict, code, msg) }

func Validation(msg string) *Error { return New(KindValidation, "VALIDATION", msg) }

func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

func Dependency(msg string, err error) *Error {
	return &Error{Kind: KindDependencyFailure, Code: "DEPENDENCY", Message: msg, Err: err}
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not a typed rejection.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidState      = &Error{Kind: KindInvalidState}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrAlreadyBorrowed   = &Error{Kind: KindConflict, Code: CodeAlreadyBorrowed}
	ErrAlreadyReturned   = &Error{Kind: KindInvalidState, Code: CodeAlreadyReturned}
	ErrDuplicateDisposal = &Error{Kind: KindConflict, Code: CodeDuplicateDisposal}
	ErrAssetBorrowed     = &Error{Kind: KindConflict, Code: CodeAssetBorrowed}
	ErrDisposalPending   = &Error{Kind: KindConflict, Code: CodeDisposalPending}
	ErrAssetRetired      = &Error{Kind: KindInvalidState, Code: CodeAssetRetired}
)

const (
	CodeAlreadyBorrowed   = "ALREADY_BORROWED"
	CodeAlreadyReturned   = "ALREADY_RETURNED"
	CodeDuplicateDisposal = "DUPLICATE_DISPOSAL"
	CodeAssetBorrowed     = "ASSET_BORROWED"
	CodeAssetRetired      = "ASSET_RETIRED"
	CodeDisposalPending   = "DISPOSAL_PENDING"
	CodeDuplicateSerial   = "DUPLICATE_SERIAL"
	CodeDuplicateName     = "DUPLICATE_NAME"
	CodeBadTransition     = "BAD_TRANSITION"
)
