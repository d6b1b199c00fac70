package otpvault

import "errors"

var (
	// ErrThrottled indicates an HOTP generation was requested while the
	// account's cooldown is still running.
	ErrThrottled = errors.New("code generation throttled")
	// ErrAlreadyUpToDate indicates a provisioning URI matches the stored
	// account exactly, so there is nothing to write.
	ErrAlreadyUpToDate = errors.New("account already up to date")
	// ErrDeclined indicates the confirmation callback rejected the change.
	ErrDeclined = errors.New("change declined")
	// ErrCorruptSecret indicates a stored secret no longer decodes; the vault
	// file was edited or damaged outside the application.
	ErrCorruptSecret = errors.New("stored secret is not valid base32")
)
