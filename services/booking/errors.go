package booking

import (
	"errors"
	"fmt"
)

// Error codes for the booking lifecycle.
const (
	CodeValidation           = "validationError"
	CodeAvailabilityConflict = "availabilityConflict"
	CodeServiceUnavailable   = "serviceUnavailable"
	CodeNotFound             = "notFound"
	CodeAlreadyFinalized     = "alreadyFinalized"
)

// Error is the discriminated error type returned by the engine. Status is
// set only on alreadyFinalized, carrying the record's current status.
type Error struct {
	Code    string
	Message string
	Status  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newValidationError(msg string) error {
	return &Error{Code: CodeValidation, Message: msg}
}

func newConflictError(conflict string) error {
	return &Error{
		Code:    CodeAvailabilityConflict,
		Message: fmt.Sprintf("That time slot is not available. %s Please try a different date or time.", conflict),
	}
}

func newServiceUnavailable(msg string, cause error) error {
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &Error{Code: CodeServiceUnavailable, Message: msg}
}

func newNotFound() error {
	return &Error{Code: CodeNotFound, Message: "Booking not found."}
}

func newAlreadyFinalized(status string) error {
	return &Error{
		Code:    CodeAlreadyFinalized,
		Message: fmt.Sprintf("Booking already %s.", status),
		Status:  status,
	}
}

// IsCode reports whether err is a booking Error carrying the given code.
func IsCode(err error, code string) bool {
	var be *Error
	return errors.As(err, &be) && be.Code == code
}
