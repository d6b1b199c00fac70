// Package otpvault is a personal one-time-password vault: an RFC 4226 HOTP
// and RFC 6238 TOTP generator over a persistent, insertion-ordered account
// store.
//
// The Authenticator is the consumer-facing facade. It ties together the
// building blocks that live in the pkg tree:
//
//   - pkg/otp      — the HMAC-SHA1 code engine, corrected clock, and time
//     step counter
//   - pkg/base32   — the tolerant-in, canonical-out secret codec
//   - pkg/vault    — the persistent account store
//   - pkg/otpauth  — otpauth:// URI parsing, rendering, and QR codes
//   - pkg/throttle — the HOTP generation gate
//   - pkg/transfer — JSON import and export
//
// A minimal session:
//
//	store, err := vault.Open(path)
//	if err != nil { ... }
//	auth := otpvault.New(store)
//
//	if err := auth.AddFromURI(uri, nil); err != nil { ... }
//	code, err := auth.NextCode("alice@example.com")
//
// TOTP reads are side-effect free; HOTP reads advance the account's counter
// (persisting it before the code is returned) and are rate-limited per
// account.
package otpvault
