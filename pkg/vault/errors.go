package vault

import "errors"

var (
	ErrNotFound       = errors.New("account not found")
	ErrNameExists     = errors.New("account name already in use")
	ErrEmptyName      = errors.New("account name is empty")
	ErrEmptySecret    = errors.New("secret is empty")
	ErrSecretTooShort = errors.New("secret key is too short")
	ErrInvalidType    = errors.New("invalid account type")
	ErrWrongType      = errors.New("operation not valid for this account type")
	ErrNoIcon         = errors.New("account has no icon")
	ErrIO             = errors.New("vault storage failure")

	ErrFailedToEncryptSecret      = errors.New("failed to encrypt secret")
	ErrFailedToDecryptSecret      = errors.New("failed to decrypt secret")
	ErrInvalidCipherTooShort      = errors.New("cipher text too short")
	ErrInvalidEncryptionKeyLength = errors.New("invalid encryption key length")
	ErrEncryptionKeyRequired      = errors.New("vault is encrypted and requires its encryption key")
)
