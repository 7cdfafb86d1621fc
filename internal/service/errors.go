package service

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a request rejected by validation before any write.
var ErrInvalidInput = errors.New("invalid input")

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
