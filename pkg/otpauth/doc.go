// Package otpauth handles the otpauth:// provisioning URI format used by
// authenticator apps (the Key Uri Format popularized by Google
// Authenticator):
//
//	otpauth://{totp|hotp}/{label}?secret=BASE32[&counter=N][&issuer=X]...
//
// Parse turns such a URI, typically the payload of a scanned QR code, into a
// validated Draft: a provisioning record that has passed every syntactic
// check but has not touched any store. The label is URL-decoded and trimmed;
// an "Issuer:account" label is split into an issuer hint and the account
// name. The secret is normalized to canonical Base32. Parameters the engine
// does not implement (digits other than 6, algorithms other than SHA1,
// periods other than 30) are recognized and rejected with ErrUnsupported
// rather than silently ignored, so a code that would never match is refused
// at enrollment time.
//
// URI goes the other way, rendering an account back into a provisioning URI,
// and QR wraps it into a scannable PNG. Together they let one authenticator
// hand an account to another.
package otpauth
