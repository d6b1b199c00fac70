package base32

import (
	stdb32 "encoding/base32"
	"fmt"
	"strings"
	"unicode"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// canonical is the RFC 4648 encoding without padding, used for output only.
// Decoding is hand-rolled below because it must normalize user input and
// reject non-zero trailing bits, neither of which encoding/base32 does.
var canonical = stdb32.NewEncoding(alphabet).WithPadding(stdb32.NoPadding)

// decodeTable maps a normalized byte to its 5-bit value, or -1 if the byte
// is not part of the alphabet.
var decodeTable [256]int8

func init() {
	for i := range decodeTable {
		decodeTable[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		decodeTable[alphabet[i]] = int8(i)
	}
}

// normalize prepares user input for decoding: whitespace and dashes are
// dropped, letters are upper-cased, and the ambiguous digits 1 and 0 are
// substituted with the letters I and O they are usually mistaken for.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r) || r == '-':
			return -1
		case r == '1':
			return 'I'
		case r == '0':
			return 'O'
		default:
			return unicode.ToUpper(r)
		}
	}, s)
}

// Decode converts a Base32 string into raw bytes after normalizing it.
// An empty input (or one that is empty after normalization) decodes to an
// empty slice; callers that require a minimum key length check the result.
func Decode(s string) ([]byte, error) {
	s = normalize(s)

	var (
		buf  uint16
		bits uint
		out  = make([]byte, 0, len(s)*5/8)
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		v := int8(-1)
		if c < 128 {
			v = decodeTable[c]
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: illegal character %q", ErrInvalidBase32, rune(s[i]))
		}
		buf = buf<<5 | uint16(v)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buf>>bits))
		}
	}

	// A leftover of 5 or more bits means the input carried an entire symbol
	// that contributes nothing but padding; fewer leftover bits are legal
	// only when they are all zero. Both cases would break the round-trip
	// law encode(decode(s)) == canonicalize(s).
	if bits >= 5 {
		return nil, fmt.Errorf("%w: trailing symbol", ErrInvalidBase32)
	}
	if buf&(1<<bits-1) != 0 {
		return nil, fmt.Errorf("%w: non-zero trailing bits", ErrInvalidBase32)
	}
	return out, nil
}

// Encode converts raw bytes into the canonical Base32 form: upper-case,
// unpadded, no separators.
func Encode(b []byte) string {
	return canonical.EncodeToString(b)
}

// Canonicalize decodes and re-encodes s, yielding the canonical spelling of
// the same key. It fails with ErrInvalidBase32 when s does not decode.
func Canonicalize(s string) (string, error) {
	b, err := Decode(s)
	if err != nil {
		return "", err
	}
	return Encode(b), nil
}
