package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("You don't have enough points to redeem this item.")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrUnavailable         = errors.New("item is no longer available")
	ErrInvalid             = errors.New("invalid input")
	ErrConflict            = errors.New("already exists")
	ErrTransient           = errors.New("store temporarily unavailable")
)

// StoreError 底层存储（网络、锁冲突等）失败，errors.Is(err, ErrTransient) 为 true
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string        { return e.Op + ": " + e.Err.Error() }
func (e *StoreError) Unwrap() error        { return e.Err }
func (e *StoreError) Is(target error) bool { return target == ErrTransient }

func Store(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
