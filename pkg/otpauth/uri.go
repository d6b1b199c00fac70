package otpauth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/otpvault/otpvault/pkg/base32"
	"github.com/otpvault/otpvault/pkg/otp"
	"github.com/otpvault/otpvault/pkg/vault"
)

// Params describes the account being rendered into a provisioning URI.
type Params struct {
	Secret      string // Base32 secret (any accepted spelling)
	AccountName string // account identifier, usually an email
	Issuer      string // optional service name shown by authenticator apps
	Type        vault.Type
	Counter     uint64 // HOTP only
}

// URI renders the account as an otpauth:// URI in the Key Uri Format. The
// secret is canonicalized first so the emitted URI always round-trips
// through Parse.
func URI(p Params) (string, error) {
	if strings.TrimSpace(p.AccountName) == "" {
		return "", ErrNoLabel
	}
	if !p.Type.Valid() {
		return "", fmt.Errorf("%w: type %q", ErrUnsupported, string(p.Type))
	}
	secret, err := base32.Canonicalize(p.Secret)
	if err != nil {
		return "", err
	}
	if secret == "" {
		return "", ErrMissingSecret
	}

	label := url.PathEscape(p.AccountName)
	if p.Issuer != "" {
		label = url.PathEscape(p.Issuer) + ":" + label
	}

	query := url.Values{}
	query.Set("secret", secret)
	if p.Issuer != "" {
		query.Set("issuer", p.Issuer)
	}
	query.Set("algorithm", "SHA1")
	query.Set("digits", fmt.Sprintf("%d", otp.DefaultDigits))

	authority := "totp"
	if p.Type == vault.TypeHOTP {
		authority = "hotp"
		query.Set("counter", fmt.Sprintf("%d", p.Counter))
	} else {
		query.Set("period", fmt.Sprintf("%d", otp.DefaultPeriod))
	}

	return fmt.Sprintf("otpauth://%s/%s?%s", authority, label, query.Encode()), nil
}
