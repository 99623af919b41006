package publish

import (
	"errors"
	"fmt"
)

// PublishError represents a failure in the publication lifecycle.
//
// The taxonomy:
//   - MalformedContent: intake rejected an unparseable or incomplete
//     submission. Reported synchronously, never retried.
//   - DuplicateSubmission: intake rejected a version collision with another
//     open publication or a permanent module. Reported synchronously.
//   - CommitConflict: a competing permanent record appeared between claim
//     and promotion. The publication moves to Failure; manual remediation.
//   - StorageUnavailable: transient infrastructure failure. Safe to retry
//     the whole operation; no partial state is ever visible outside a
//     transaction boundary.
type PublishError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// PublicationID identifies the affected publication, when known.
	PublicationID int64

	// Ident is the content ident hash involved, for version collisions.
	Ident string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes publication errors.
type ErrorCode string

const (
	ErrCodeMalformed ErrorCode = "MALFORMED_CONTENT"
	ErrCodeDuplicate ErrorCode = "DUPLICATE_SUBMISSION"
	ErrCodeConflict  ErrorCode = "COMMIT_CONFLICT"
	ErrCodeStorage   ErrorCode = "STORAGE_UNAVAILABLE"
)

// Error implements the error interface.
func (e *PublishError) Error() string {
	switch {
	case e.Ident != "":
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Ident)
	case e.PublicationID != 0:
		return fmt.Sprintf("%s: %s (publication=%d)", e.Code, e.Message, e.PublicationID)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *PublishError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var pe *PublishError
	if errors.As(err, &pe) {
		return pe.Code == code
	}
	return false
}

// IsMalformed reports whether err is a MalformedContent rejection.
func IsMalformed(err error) bool { return hasCode(err, ErrCodeMalformed) }

// IsDuplicate reports whether err is a DuplicateSubmission rejection.
func IsDuplicate(err error) bool { return hasCode(err, ErrCodeDuplicate) }

// IsConflict reports whether err is a CommitConflict.
func IsConflict(err error) bool { return hasCode(err, ErrCodeConflict) }

// IsStorage reports whether err is a transient storage failure.
func IsStorage(err error) bool { return hasCode(err, ErrCodeStorage) }

func malformed(format string, args ...any) *PublishError {
	return &PublishError{Code: ErrCodeMalformed, Message: fmt.Sprintf(format, args...)}
}

func duplicate(ident string, err error) *PublishError {
	return &PublishError{
		Code:    ErrCodeDuplicate,
		Message: "content version already pending or published",
		Ident:   ident,
		Err:     err,
	}
}

func storage(op string, err error) *PublishError {
	return &PublishError{
		Code:    ErrCodeStorage,
		Message: op,
		Err:     err,
	}
}
