package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is returned when a line is not a JSON object.
	ErrMalformedInput = errors.New("malformed json")
	// ErrMissingIdentity is returned when a reading lacks id or model.
	ErrMissingIdentity = errors.New("missing id or model")
	// ErrNotAllowed is returned when the reading's id is not in the allow-list.
	ErrNotAllowed = errors.New("id not allowed")
	// ErrInvalidValue is returned when a present field has the wrong type.
	ErrInvalidValue = errors.New("invalid field value")
	// ErrNotFound is returned when a requested device has never been seen.
	ErrNotFound = errors.New("not found")
)

// Reason is the short code attached to a rejected line.
type Reason string

const (
	ReasonMalformedJSON   Reason = "malformed-json"
	ReasonMissingIdentity Reason = "missing-identity"
	ReasonNotAllowed      Reason = "not-allowed"
	ReasonInvalidValue    Reason = "invalid-value"
)

var reasonErrors = map[Reason]error{
	ReasonMalformedJSON:   ErrMalformedInput,
	ReasonMissingIdentity: ErrMissingIdentity,
	ReasonNotAllowed:      ErrNotAllowed,
	ReasonInvalidValue:    ErrInvalidValue,
}

// Rejection describes why a line did not become a Measurement.
type Rejection struct {
	Err    error
	Reason Reason
	Field  string
}

// Reject builds a Rejection, cause may be nil.
func Reject(reason Reason, field string, cause error) *Rejection {
	return &Rejection{Reason: reason, Field: field, Err: cause}
}

func (r *Rejection) Error() string {
	msg := string(r.Reason)
	if r.Field != "" {
		msg += " (" + r.Field + ")"
	}
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", msg, r.Err)
	}
	return msg
}

// Unwrap exposes both the reason sentinel and the underlying cause.
func (r *Rejection) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel, ok := reasonErrors[r.Reason]; ok {
		errs = append(errs, sentinel)
	}
	if r.Err != nil {
		errs = append(errs, r.Err)
	}
	return errs
}

// ReasonOf extracts the rejection reason from err, if any.
func ReasonOf(err error) (Reason, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}
