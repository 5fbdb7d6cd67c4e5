package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ErrorCode standardizes graph-store failure semantics.
type ErrorCode string

const (
	CodeNotFound     ErrorCode = "not_found"
	CodeConflict     ErrorCode = "conflict"
	CodeValidation   ErrorCode = "validation"
	CodeTransport    ErrorCode = "transport"
	CodePartialWrite ErrorCode = "partial_write"
)

// Error is the canonical graph error wrapper.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error

	// CommittedUID names the root of what is already visible when a
	// multi-step sequence failed partway (CodePartialWrite only).
	CommittedUID uuid.UUID
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a graph error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with graph error semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// PartialWrite reports a sequence that failed after its first phase
// committed. Callers can retry the remaining phase against CommittedUID.
func PartialWrite(op string, committedUID uuid.UUID, cause error) error {
	e := &Error{
		Code:         CodePartialWrite,
		Op:           strings.TrimSpace(op),
		CommittedUID: committedUID,
		Cause:        cause,
	}
	e.Message = fmt.Sprintf("committed up to %s", committedUID)
	return e
}

// IsCode checks whether err (or a wrapped err) carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var gerr *Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code == code
}

// CodeOf extracts the graph error code when available.
func CodeOf(err error) ErrorCode {
	var gerr *Error
	if !errors.As(err, &gerr) {
		return ""
	}
	return gerr.Code
}

// FieldErrors collects validation violations keyed by field name. The
// component configuration validator reports every violation, not just the
// first.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "no field errors"
	}
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(fe[f], "; ")))
	}
	return strings.Join(parts, ", ")
}

// AsValidation wraps field errors into the canonical taxonomy.
func (fe FieldErrors) AsValidation(op string) error {
	if fe.Empty() {
		return nil
	}
	return NewError(CodeValidation, op, fe.Error(), fe)
}
