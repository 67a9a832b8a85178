package service

import (
	"errors"
	"fmt"
	"log"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrBackingStore matches every *StoreError.
	ErrBackingStore = errors.New("backing store failure")

	ErrUnauthenticated = errors.New("sign-in required")
	ErrEmptyText       = errors.New("text must not be empty")
	ErrStarsOutOfRange = errors.New("stars must be between 1 and 5")
	ErrUnknownReaction = errors.New("unknown reaction")
	ErrMissingID       = errors.New("id is required")
)

// ValidationError is a rejected input. It is returned before the backing
// store is touched.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: err.Error(), Err: err}
}

// StoreError is a failed backing-store write or read.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool { return target == ErrBackingStore }

// storeFailure logs err and wraps it as a *StoreError.
func storeFailure(op string, err error) error {
	log.Printf("[Engagement] %s failed: %v", op, err)
	return &StoreError{Op: op, Err: err}
}
