// Package otp implements the one-time-password primitive shared by HOTP
// (RFC 4226) and TOTP (RFC 6238), together with the clock and step-counter
// machinery that turns wall time into TOTP counter values.
//
// The primitive is the classic HMAC-SHA1 dynamic truncation: the counter is
// serialized as 8 big-endian bytes, MAC'ed with the shared key, and the MAC
// is truncated to a short decimal code. Generate is pure and deterministic,
// so both OTP flavors reduce to choosing the right counter value:
//
//   - HOTP feeds a persisted, monotonically increasing counter;
//   - TOTP feeds Counter.ValueAt(Clock.Now()), i.e. the index of the
//     current 30-second window.
//
// Clock carries a user-configurable correction offset for devices whose
// system time drifts, and is safe for concurrent use. Counter is a pure
// value type.
//
// # Usage
//
//	key, _ := base32.Decode("JBSWY3DPEHPK3PXP")
//	clock := otp.NewClock()
//	counter := otp.NewCounter(0)
//
//	code := otp.Generate(key, counter.ValueAt(clock.Now()), otp.DefaultDigits)
//
// # See Also
//
//   - RFC 4226 – HMAC-Based One-Time Password (HOTP) Algorithm
//   - RFC 6238 – Time-Based One-Time Password (TOTP) Algorithm
package otp
