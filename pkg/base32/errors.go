package base32

import "errors"

var (
	// ErrInvalidBase32 indicates the input contains characters outside the
	// Base32 alphabet after normalization, or malformed trailing bits.
	ErrInvalidBase32 = errors.New("invalid base32 string")
)
