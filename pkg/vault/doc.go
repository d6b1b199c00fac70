// Package vault implements the persistent account store: a named collection
// of OTP accounts, each holding a Base32 shared secret, an account type
// (TOTP or HOTP), an HOTP counter, and optional display customizations
// (a 24-bit color and an icon blob).
//
// The vault is the single source of truth for account state. It keeps an
// insertion-ordered list in memory, guarded by a RWMutex for the
// multi-reader / single-writer contract, and serializes every successful
// mutation to a JSON file via a temp-file-and-rename write so that a crash
// never leaves a half-written store behind. After a mutating method returns
// nil, a reopened vault observes the new state.
//
// Names are unique case-sensitively and trimmed of surrounding whitespace.
// Secrets are validated on the way in (decodable Base32, at least 10 bytes
// of key material) and persisted in canonical form. A TOTP account's counter
// is pinned to zero; an HOTP account's counter only ever grows.
//
// # Encryption at rest
//
// By default secrets are stored as plain canonical Base32, protected only by
// filesystem permissions. Opening the vault with WithEncryptionKey seals
// every secret with AES-256-GCM before it touches disk; the in-memory
// representation stays plaintext so code generation needs no extra
// round trips. A vault written with encryption refuses to open without the
// key.
//
// # Icons
//
// Icon bytes live outside the record, in a side directory, keyed by a
// sanitized derivation of the account name. The record stores only the key;
// rename moves the blob, delete removes it.
package vault
