package base32_test

import (
	"math/rand"
	"testing"

	"github.com/otpvault/otpvault/pkg/base32"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("known vector", func(t *testing.T) {
		t.Parallel()
		got, err := base32.Decode("JBSWY3DPEHPK3PXP")
		require.NoError(t, err)
		assert.Equal(t, append([]byte("Hello!"), 0xDE, 0xAD, 0xBE, 0xEF), got)
	})

	t.Run("case insensitive", func(t *testing.T) {
		t.Parallel()
		upper, err := base32.Decode("JBSWY3DP")
		require.NoError(t, err)
		lower, err := base32.Decode("jbswy3dp")
		require.NoError(t, err)
		assert.Equal(t, upper, lower)
	})

	t.Run("whitespace and dashes ignored", func(t *testing.T) {
		t.Parallel()
		plain, err := base32.Decode("JBSWY3DPEHPK3PXP")
		require.NoError(t, err)
		spaced, err := base32.Decode("jbsw y3dp-ehpk 3pxp")
		require.NoError(t, err)
		assert.Equal(t, plain, spaced)
	})

	t.Run("empty input decodes to empty slice", func(t *testing.T) {
		t.Parallel()
		got, err := base32.Decode("  ")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		for _, in := range []string{
			"JBSWY3D8", // 8 is not in the alphabet
			"JBSW!3DP",
			"A",  // a whole symbol of padding
			"AB", // non-zero trailing bits
			"ÅBCD",
		} {
			_, err := base32.Decode(in)
			assert.ErrorIs(t, err, base32.ErrInvalidBase32, "input %q", in)
		}
	})
}

func TestAmbiguousCharacterSubstitution(t *testing.T) {
	t.Parallel()

	one, err := base32.Decode("1BSWY3DP")
	require.NoError(t, err)
	eye, err := base32.Decode("IBSWY3DP")
	require.NoError(t, err)
	assert.Equal(t, eye, one)

	zero, err := base32.Decode("0BSWY3DP")
	require.NoError(t, err)
	oh, err := base32.Decode("OBSWY3DP")
	require.NoError(t, err)
	assert.Equal(t, oh, zero)
}

func TestEncode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "JBSWY3DPEHPK3PXP", base32.Encode(append([]byte("Hello!"), 0xDE, 0xAD, 0xBE, 0xEF)))
	assert.Equal(t, "AA", base32.Encode([]byte{0}))
	assert.Empty(t, base32.Encode(nil))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for size := 1; size <= 64; size++ {
		buf := make([]byte, size)
		_, err := rng.Read(buf)
		require.NoError(t, err)

		decoded, err := base32.Decode(base32.Encode(buf))
		require.NoError(t, err, "size %d", size)
		assert.Equal(t, buf, decoded, "size %d", size)
	}
}

func TestCanonicalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "already canonical", in: "JBSWY3DPEHPK3PXP", want: "JBSWY3DPEHPK3PXP"},
		{name: "lower case with separators", in: "jbsw y3dp-ehpk3pxp", want: "JBSWY3DPEHPK3PXP"},
		{name: "ambiguous characters", in: "1bswy3dp", want: "IBSWY3DP"},
		{name: "invalid", in: "not!base32", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := base32.Canonicalize(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, base32.ErrInvalidBase32)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
