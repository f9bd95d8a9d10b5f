package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated      = errors.New("authentication required")
	ErrForbidden             = errors.New("forbidden")
	ErrEventNotFound         = errors.New("event not found")
	ErrEventCompleted        = errors.New("cannot register for a completed event")
	ErrAlreadyRegistered     = errors.New("already registered for this event")
	ErrStorageUnavailable    = errors.New("storage unavailable")
	ErrImageStoreUnavailable = errors.New("image store unavailable")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInternalServerError   = errors.New("internal server error")
)

// Unavailable 將底層 driver 錯誤標記為 ErrStorageUnavailable，保留原始錯誤供 log 使用
func Unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}
