package apierr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable codes returned to API callers. Handlers must
// never leak raw store error text; they wrap it in one of these.
const (
	CodeCategorySlugRequired = "category_slug_required"
	CodeCategoryNotFound     = "category_not_found"
	CodeAttemptNotFound      = "attempt_not_found"
	CodeFlagNotFound         = "flag_not_found"
	CodeItemsRequired        = "items_required"
	CodeInvalidItems         = "invalid_items"
	CodeBadRequest           = "bad_request"
	CodeAuthRequired         = "auth_required"
	CodeForbidden            = "forbidden"
	CodeProRequired          = "pro_required"
	CodeRateLimited          = "rate_limited"
	CodeStoreUnavailable     = "store_unavailable"
	CodeTimeout              = "timeout"
	CodeInternal             = "internal_error"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(code string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: code}
}

func NotFound(code string) *Error {
	return &Error{Status: http.StatusNotFound, Code: code}
}

func AuthRequired() *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeAuthRequired}
}

func Forbidden(code string) *Error {
	return &Error{Status: http.StatusForbidden, Code: code}
}

func StoreUnavailable(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Timeout(err)
	}
	return &Error{Status: http.StatusInternalServerError, Code: CodeStoreUnavailable, Err: err}
}

func Timeout(err error) *Error {
	return &Error{Status: http.StatusGatewayTimeout, Code: CodeTimeout, Err: err}
}

// From classifies an arbitrary error into an *Error. Context expiry maps to
// the timeout code so mid-flight store calls aborted by the deadline surface
// as 504 rather than a generic 500.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Timeout(err)
	}
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Err: err}
}

// Write renders err as the canonical error body {"error": code}. Only the
// stable code crosses the wire; the wrapped error stays server-side.
func Write(w http.ResponseWriter, err error) {
	ae := From(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ae.Status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": ae.Code})
}
