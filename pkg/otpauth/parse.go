package otpauth

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/otpvault/otpvault/pkg/base32"
	"github.com/otpvault/otpvault/pkg/otp"
	"github.com/otpvault/otpvault/pkg/vault"
)

// Draft is a validated-but-not-persisted provisioning record. Secret is the
// canonical Base32 spelling; Counter is zero for TOTP drafts. Issuer carries
// the issuer hint from the label prefix or the issuer query parameter and is
// informational only.
type Draft struct {
	Name    string
	Issuer  string
	Secret  string
	Type    vault.Type
	Counter uint64
}

// Parse validates a provisioning URI and produces a Draft. It is purely
// syntactic: the secret must decode to at least one byte, but the store's
// stricter minimum-length rule is not applied here.
func Parse(raw string) (Draft, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Draft{}, fmt.Errorf("%w: %v", ErrBadScheme, err)
	}
	if !strings.EqualFold(u.Scheme, "otpauth") {
		return Draft{}, fmt.Errorf("%w: %q", ErrBadScheme, u.Scheme)
	}

	var typ vault.Type
	switch strings.ToLower(u.Host) {
	case "totp":
		typ = vault.TypeTOTP
	case "hotp":
		typ = vault.TypeHOTP
	default:
		return Draft{}, fmt.Errorf("%w: %q", ErrBadAuthority, u.Host)
	}

	name, issuer, err := splitLabel(u.Path)
	if err != nil {
		return Draft{}, err
	}

	q := u.Query()

	rawSecret := q.Get("secret")
	if strings.TrimSpace(rawSecret) == "" {
		return Draft{}, ErrMissingSecret
	}
	decoded, err := base32.Decode(rawSecret)
	if err != nil {
		return Draft{}, err
	}
	if len(decoded) == 0 {
		return Draft{}, ErrMissingSecret
	}

	var counter uint64
	if typ == vault.TypeHOTP {
		if raw := q.Get("counter"); raw != "" {
			counter, err = strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return Draft{}, fmt.Errorf("%w: %q", ErrBadCounter, raw)
			}
		}
	}

	if err := checkSupported(q, typ); err != nil {
		return Draft{}, err
	}

	if v := q.Get("issuer"); v != "" {
		issuer = v
	}

	return Draft{
		Name:    name,
		Issuer:  issuer,
		Secret:  base32.Encode(decoded),
		Type:    typ,
		Counter: counter,
	}, nil
}

// splitLabel extracts the account name, and the issuer hint when the label
// has the "Issuer:account" form, from the URI path.
func splitLabel(path string) (name, issuer string, err error) {
	label := strings.TrimSpace(strings.TrimPrefix(path, "/"))
	if label == "" {
		return "", "", ErrNoLabel
	}
	if prefix, suffix, found := strings.Cut(label, ":"); found {
		issuer = strings.TrimSpace(prefix)
		label = strings.TrimSpace(suffix)
		if label == "" {
			return "", "", ErrNoLabel
		}
	}
	return label, issuer, nil
}

// checkSupported rejects parameter values the engine does not implement.
// The parameters are understood, just out of contract: only 6 digits,
// SHA1, and a 30-second period are supported.
func checkSupported(q url.Values, typ vault.Type) error {
	if raw := q.Get("digits"); raw != "" {
		digits, err := strconv.Atoi(raw)
		if err != nil || digits != otp.DefaultDigits {
			return fmt.Errorf("%w: digits=%s", ErrUnsupported, raw)
		}
	}
	if raw := q.Get("algorithm"); raw != "" && !strings.EqualFold(raw, "SHA1") {
		return fmt.Errorf("%w: algorithm=%s", ErrUnsupported, raw)
	}
	if typ == vault.TypeTOTP {
		if raw := q.Get("period"); raw != "" {
			period, err := strconv.Atoi(raw)
			if err != nil || period != otp.DefaultPeriod {
				return fmt.Errorf("%w: period=%s", ErrUnsupported, raw)
			}
		}
	}
	return nil
}
