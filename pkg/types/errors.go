package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHex is returned when a wire string is not valid hexadecimal
	ErrInvalidHex = errors.New("invalid hex string")

	// ErrInvalidUint256 is returned when a string cannot be parsed as a uint256
	ErrInvalidUint256 = errors.New("invalid uint256")

	// ErrNegative is returned for negative numeric input
	ErrNegative = errors.New("negative integer")

	// ErrInvalidAddress is returned when a string is not a 20-byte hex address
	ErrInvalidAddress = errors.New("invalid address")
)

// LengthError reports a byte string whose length does not match its fixed-size type
type LengthError struct {
	Type     string
	Expected int
	Got      int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s value has incorrect length: expected %d bytes, got %d", e.Type, e.Expected, e.Got)
}

// RangeError reports a numeric value that does not fit its bounded integer type
type RangeError struct {
	Type  string
	Value string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s value out of range: %s", e.Type, e.Value)
}
