package errs

import "fmt"

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// NotFoundError reports an id that does not exist in the account scope.
type NotFoundError struct {
	ErrorMessage
}

// InvalidParameterError reports malformed query or body input.
type InvalidParameterError struct {
	ErrorMessage
}

// InvalidTransactionError reports a transaction with malformed monetary,
// type or date fields.
type InvalidTransactionError struct {
	ErrorMessage
}

type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

type ExternalServiceError struct {
	ErrorMessage
	Service   string
	Transient bool
	Err       error
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf(format, args...)},
	}
}

func NewInvalidParameterError(format string, args ...any) *InvalidParameterError {
	return &InvalidParameterError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf(format, args...)},
	}
}

func NewInvalidTransactionError(format string, args ...any) *InvalidTransactionError {
	return &InvalidTransactionError{
		ErrorMessage: ErrorMessage{Message: fmt.Sprintf(format, args...)},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	msg := message
	if err != nil {
		msg = message + ": " + err.Error()
	}
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: msg},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service, message string, transient bool, err error) *ExternalServiceError {
	msg := message
	if err != nil {
		msg = message + ": " + err.Error()
	}
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: msg},
		Service:      service,
		Transient:    transient,
		Err:          err,
	}
}
