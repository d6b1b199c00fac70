package otpauth

import "errors"

var (
	ErrBadScheme     = errors.New("uri scheme is not otpauth")
	ErrBadAuthority  = errors.New("uri authority is not totp or hotp")
	ErrNoLabel       = errors.New("uri has no usable account label")
	ErrMissingSecret = errors.New("uri has no secret parameter")
	ErrBadCounter    = errors.New("uri counter parameter is not a non-negative integer")
	ErrUnsupported   = errors.New("uri requests unsupported otp parameters")

	ErrFailedToGenerateQRCode = errors.New("failed to generate QR code")
)
