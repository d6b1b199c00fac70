// Package base32 implements the restricted Base32 codec used for OTP shared
// secrets: the RFC 4648 alphabet (A-Z, 2-7) without padding.
//
// Decoding is deliberately forgiving about the way humans type keys. Input is
// case-insensitive, whitespace and dashes are ignored, and the visually
// ambiguous characters 1 and 0 are substituted with I and O before decoding.
// This matches the manual-entry behavior of common authenticator apps, so a
// key read aloud or copied from paper still decodes to the intended bytes.
//
// Decoding is strict about everything else: any character outside the
// alphabet after normalization, or trailing padding bits that are non-zero
// or amount to a whole wasted symbol, fail with ErrInvalidBase32.
//
// Encoding always produces the canonical form: upper-case, unpadded, no
// separators. The two operations form a round trip:
//
//	base32.Encode(mustDecode(s)) == canonical form of s
//
// for every valid input s, which is what lets the vault store re-encoded
// secrets without losing information.
package base32
