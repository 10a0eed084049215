package usecase

import (
	"errors"
	"fmt"
)

// NotFoundError covers records that are missing or owned by someone else.
// The two cases are deliberately indistinguishable to the caller.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

var (
	ErrEventNotFound   = &NotFoundError{Resource: "Event"}
	ErrGoalNotFound    = &NotFoundError{Resource: "Goal"}
	ErrSubtaskNotFound = &NotFoundError{Resource: "Subtask"}
	ErrHabitNotFound   = &NotFoundError{Resource: "Habit"}
	ErrMemoNotFound    = &NotFoundError{Resource: "Memo"}
	ErrSettingNotFound = &NotFoundError{Resource: "Setting"}

	ErrUserIDRequired = errors.New("user ID is required")
)

// ValidationError is returned before any store call when input is rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
