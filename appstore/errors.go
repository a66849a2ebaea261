package appstore

import "fmt"

// CommunicationError indicates the validation endpoint could not be reached or
// returned something that was not a validation response. The operation can be
// retried as-is.
type CommunicationError struct {
	Err error
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("appstore: communication error: %v", e.Err)
}

func (e *CommunicationError) Unwrap() error {
	return e.Err
}

// ValidationError indicates the endpoint rejected the receipt with a non-zero
// status other than the sandbox redirect signal.
type ValidationError struct {
	Status int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("appstore: receipt validation failed with status %d", e.Status)
}
