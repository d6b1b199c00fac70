package otp_test

import (
	"testing"
	"time"

	"github.com/otpvault/otpvault/pkg/otp"

	"github.com/stretchr/testify/assert"
)

func fixedNow(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0).UTC() }
}

func TestClockOffset(t *testing.T) {
	t.Parallel()

	clock := otp.NewClock(otp.WithNowFunc(fixedNow(100)))
	assert.Equal(t, int64(100_000), clock.NowMillis())

	clock.SetOffset(30 * time.Second)
	assert.Equal(t, 30*time.Second, clock.Offset())
	assert.Equal(t, int64(130_000), clock.NowMillis())

	clock.SetOffset(-45 * time.Second)
	assert.Equal(t, int64(55_000), clock.NowMillis())
}

func TestClockOffsetShiftsTOTPWindow(t *testing.T) {
	t.Parallel()

	clock := otp.NewClock(otp.WithNowFunc(fixedNow(59)))
	counter := otp.NewCounter(0)

	// With a +30s correction the clock reads what it would 30s later.
	plain := otp.Generate(rfcKey, counter.ValueAt(clock.Now()), otp.DefaultDigits)
	clock.SetOffset(30 * time.Second)
	shifted := otp.Generate(rfcKey, counter.ValueAt(clock.Now()), otp.DefaultDigits)
	future := otp.Generate(rfcKey, counter.ValueAt(time.Unix(89, 0).UTC()), otp.DefaultDigits)

	assert.Equal(t, future, shifted)
	assert.NotEqual(t, plain, shifted)
}

func TestCounterMath(t *testing.T) {
	t.Parallel()

	counter := otp.NewCounter(0)
	assert.Equal(t, 30*time.Second, counter.TimeStep())

	tests := []struct {
		unix      int64
		value     uint64
		untilNext time.Duration
	}{
		{0, 0, 30 * time.Second},
		{1, 0, 29 * time.Second},
		{29, 0, time.Second},
		{30, 1, 30 * time.Second},
		{59, 1, time.Second},
		{60, 2, 30 * time.Second},
	}
	for _, tt := range tests {
		at := time.Unix(tt.unix, 0).UTC()
		assert.Equal(t, tt.value, counter.ValueAt(at), "value at %d", tt.unix)
		assert.Equal(t, tt.untilNext, counter.UntilNext(at), "until next at %d", tt.unix)
	}
}

func TestCounterCustomStep(t *testing.T) {
	t.Parallel()

	counter := otp.NewCounter(60 * time.Second)
	assert.Equal(t, uint64(1), counter.ValueAt(time.Unix(61, 0).UTC()))
	assert.Equal(t, 59*time.Second, counter.UntilNext(time.Unix(61, 0).UTC()))
}
