package vault

// Type distinguishes time-based from counter-based accounts.
type Type string

const (
	// TypeTOTP is a time-based account (RFC 6238).
	TypeTOTP Type = "TOTP"
	// TypeHOTP is a counter-based account (RFC 4226).
	TypeHOTP Type = "HOTP"
)

// Valid reports whether t is one of the two known account types.
func (t Type) Valid() bool {
	return t == TypeTOTP || t == TypeHOTP
}

// Account is a single stored OTP account. Secret is always the canonical
// Base32 spelling of the shared key, regardless of how the account was
// entered. Counter is meaningful for HOTP accounts only and stays zero for
// TOTP. Color, when present, is a 24-bit RGB display hint. Icon is the key
// of the account's icon blob in the vault's icon directory, or empty.
type Account struct {
	Name    string  `json:"name"`
	Secret  string  `json:"secret"`
	Type    Type    `json:"type"`
	Counter uint64  `json:"counter"`
	Color   *uint32 `json:"color,omitempty"`
	Icon    string  `json:"icon,omitempty"`
}
