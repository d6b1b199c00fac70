package otp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/otpvault/otpvault/pkg/base32"
)

const (
	DefaultDigits = 6  // Standard 6-digit OTP codes
	DefaultPeriod = 30 // 30-second validity window (RFC 6238 standard)

	secretKeyBytes = 20 // 160-bit secret (RFC 4226 recommendation)
)

// Generate implements the RFC 4226 HMAC-based one-time-password algorithm.
// The counter is serialized as a big-endian 8-byte value, MAC'ed with
// HMAC-SHA1, and dynamically truncated to a zero-padded decimal code of the
// requested length. Non-positive digits fall back to DefaultDigits.
func Generate(key []byte, counter uint64, digits int) string {
	if digits <= 0 {
		digits = DefaultDigits
	}

	var counterBytes [8]byte
	binary.BigEndian.PutUint64(counterBytes[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(counterBytes[:])
	sum := mac.Sum(nil)

	// Dynamic truncation (RFC 4226 §5.3): the low nibble of the last byte
	// selects a 4-byte window, whose MSB is cleared to stay positive.
	offset := sum[len(sum)-1] & 0x0f
	bin := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	code := uint64(bin) % uint64(math.Pow10(digits))
	return fmt.Sprintf("%0*d", digits, code)
}

// GenerateSecretKey creates a new random shared secret in canonical Base32
// form, suitable for provisioning a fresh account.
func GenerateSecretKey() (string, error) {
	secret := make([]byte, secretKeyBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecretKey, err)
	}
	return base32.Encode(secret), nil
}
