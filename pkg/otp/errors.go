package otp

import "errors"

var (
	ErrFailedToGenerateSecretKey = errors.New("failed to generate secret key")
)
