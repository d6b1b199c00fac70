package otpvault

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/otpvault/otpvault/pkg/base32"
	"github.com/otpvault/otpvault/pkg/otp"
	"github.com/otpvault/otpvault/pkg/otpauth"
	"github.com/otpvault/otpvault/pkg/throttle"
	"github.com/otpvault/otpvault/pkg/transfer"
	"github.com/otpvault/otpvault/pkg/vault"
)

// Authenticator is the facade over the vault and the code engine. All
// methods are safe for concurrent use.
type Authenticator struct {
	store   *vault.Vault
	clock   *otp.Clock
	counter otp.Counter
	gate    *throttle.Controller
	log     *slog.Logger
	digits  int
	rawNow  func() time.Time
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithClock replaces the corrected clock used for TOTP reads.
func WithClock(c *otp.Clock) Option {
	return func(a *Authenticator) {
		if c != nil {
			a.clock = c
		}
	}
}

// WithLogger sets the logger for operation records.
func WithLogger(log *slog.Logger) Option {
	return func(a *Authenticator) {
		if log != nil {
			a.log = log
		}
	}
}

// WithThrottle replaces the HOTP generation gate, typically to adjust its
// intervals.
func WithThrottle(c *throttle.Controller) Option {
	return func(a *Authenticator) {
		if c != nil {
			a.gate = c
		}
	}
}

// WithDigits overrides the generated code length. The default is 6.
func WithDigits(digits int) Option {
	return func(a *Authenticator) {
		if digits > 0 {
			a.digits = digits
		}
	}
}

// WithNowFunc replaces the uncorrected time source driving the HOTP gate,
// for tests. The gate deliberately ignores the corrected clock: adjusting
// the TOTP time offset must not release or extend cooldowns.
func WithNowFunc(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.rawNow = now
		}
	}
}

// New creates an Authenticator over the given store.
func New(store *vault.Vault, opts ...Option) *Authenticator {
	a := &Authenticator{
		store:   store,
		clock:   otp.NewClock(),
		counter: otp.NewCounter(0),
		gate:    throttle.NewController(),
		log:     slog.Default(),
		digits:  otp.DefaultDigits,
		rawNow:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AccountInfo is the listing view of one account.
type AccountInfo struct {
	Name  string
	Type  vault.Type
	Color *uint32

	// RequiresButton reports that codes for this account are produced on
	// demand (HOTP) rather than displayed continuously.
	RequiresButton bool
}

// Accounts lists all accounts in insertion order.
func (a *Authenticator) Accounts() []AccountInfo {
	accounts := a.store.Accounts()
	infos := make([]AccountInfo, len(accounts))
	for i, acc := range accounts {
		infos[i] = AccountInfo{
			Name:           acc.Name,
			Type:           acc.Type,
			Color:          acc.Color,
			RequiresButton: acc.Type == vault.TypeHOTP,
		}
	}
	return infos
}

// Code is one generated one-time password.
type Code struct {
	Code string

	// SecondsRemaining is how long a TOTP code stays valid; zero for HOTP.
	SecondsRemaining int

	// CooldownMillis is how long until the account accepts another HOTP
	// generation; zero for TOTP.
	CooldownMillis int64
}

// NextCode produces the current code for the account. TOTP reads are pure:
// any number of calls within one time step return the same code. HOTP reads
// persist the advanced counter first and only then derive the code from the
// position just consumed, so a crash between the two can only waste a
// counter value, never reuse one. An HOTP read inside the account's
// cooldown fails with ErrThrottled.
func (a *Authenticator) NextCode(name string) (Code, error) {
	acc, err := a.store.Get(name)
	if err != nil {
		return Code{}, err
	}
	key, err := a.secretKey(acc)
	if err != nil {
		return Code{}, err
	}

	if acc.Type == vault.TypeTOTP {
		now := a.clock.Now()
		return Code{
			Code:             otp.Generate(key, a.counter.ValueAt(now), a.digits),
			SecondsRemaining: int(a.counter.UntilNext(now) / time.Second),
		}, nil
	}

	now := a.rawNow()
	if !a.gate.Allowed(name, now) {
		s := a.gate.Snapshot(name, now)
		return Code{}, fmt.Errorf("%w: %s", ErrThrottled, s.CooldownRemaining.Round(time.Millisecond))
	}

	counter, err := a.store.IncrementCounter(name)
	if err != nil {
		return Code{}, err
	}
	code := otp.Generate(key, counter-1, a.digits)
	a.gate.NoteGenerated(name, code, now)
	a.log.Debug("hotp code generated", "name", name, "counter", counter-1)

	s := a.gate.Snapshot(name, now)
	return Code{Code: code, CooldownMillis: s.CooldownRemaining.Milliseconds()}, nil
}

// CheckCode returns the code at the account's current position without any
// side effect: no counter increment, no throttling. For an HOTP account it
// previews exactly what the next NextCode call will produce. It exists to
// verify a secret against another device after manual entry.
func (a *Authenticator) CheckCode(name string) (string, error) {
	acc, err := a.store.Get(name)
	if err != nil {
		return "", err
	}
	key, err := a.secretKey(acc)
	if err != nil {
		return "", err
	}
	if acc.Type == vault.TypeHOTP {
		return otp.Generate(key, acc.Counter, a.digits), nil
	}
	return otp.Generate(key, a.counter.ValueAt(a.clock.Now()), a.digits), nil
}

// Status reports the throttle state of an HOTP account, for hosts that
// render cooldown countdowns and code placeholders.
func (a *Authenticator) Status(name string) throttle.Snapshot {
	return a.gate.Snapshot(name, a.rawNow())
}

// Tick advances the throttle machinery; hosts with a periodic UI refresh
// call it once per frame.
func (a *Authenticator) Tick() {
	a.gate.Tick(a.rawNow())
}

// AddFromURI provisions an account from an otpauth:// URI and returns the
// parsed draft. When the store already holds an account under the draft's
// name with the same secret, type, and counter, nothing is written and
// ErrAlreadyUpToDate is returned. A non-nil confirm callback sees the
// parsed draft and may veto the change (ErrDeclined); it runs only when a
// write would actually happen.
func (a *Authenticator) AddFromURI(raw string, confirm func(otpauth.Draft) bool) (otpauth.Draft, error) {
	draft, err := otpauth.Parse(raw)
	if err != nil {
		return otpauth.Draft{}, err
	}

	if existing, err := a.store.Get(draft.Name); err == nil {
		if existing.Secret == draft.Secret &&
			existing.Type == draft.Type &&
			existing.Counter == draft.Counter {
			return draft, ErrAlreadyUpToDate
		}
	}

	if confirm != nil && !confirm(draft) {
		return draft, ErrDeclined
	}

	if err := a.store.Upsert(vault.UpsertParams{
		Name:    draft.Name,
		Secret:  draft.Secret,
		Type:    draft.Type,
		Counter: draft.Counter,
	}); err != nil {
		return draft, err
	}
	a.log.Info("account provisioned from uri", "name", draft.Name, "type", string(draft.Type))
	return draft, nil
}

// AddManual provisions an account from hand-entered fields.
func (a *Authenticator) AddManual(name, secret string, typ vault.Type, counter uint64) error {
	if err := a.store.Upsert(vault.UpsertParams{
		Name:    name,
		Secret:  secret,
		Type:    typ,
		Counter: counter,
	}); err != nil {
		return err
	}
	a.log.Info("account added", "name", name, "type", string(typ))
	return nil
}

// Rename moves an account to a new name. Renaming to the current name is a
// no-op.
func (a *Authenticator) Rename(oldName, newName string) error {
	return a.store.Rename(oldName, newName)
}

// Delete removes an account, reporting whether one existed.
func (a *Authenticator) Delete(name string) (bool, error) {
	deleted, err := a.store.Delete(name)
	if err == nil && deleted {
		a.gate.Forget(name)
	}
	return deleted, err
}

// SetColor sets or clears an account's display color.
func (a *Authenticator) SetColor(name string, color *uint32) error {
	return a.store.SetColor(name, color)
}

// SetIcon stores an icon blob for the account.
func (a *Authenticator) SetIcon(name string, data []byte) error {
	return a.store.SetIcon(name, data)
}

// Icon returns the account's icon blob.
func (a *Authenticator) Icon(name string) ([]byte, error) {
	return a.store.Icon(name)
}

// Import reads a JSON account array from r into the store.
func (a *Authenticator) Import(r io.Reader) (transfer.Result, error) {
	return transfer.Import(r, a.store, transfer.WithLogger(a.log))
}

// Export writes all accounts to w as a JSON array.
func (a *Authenticator) Export(w io.Writer) error {
	return transfer.Export(w, a.store, transfer.WithLogger(a.log))
}

// SetTimeOffset replaces the clock correction applied to TOTP reads.
func (a *Authenticator) SetTimeOffset(d time.Duration) {
	a.clock.SetOffset(d)
	a.log.Info("time offset updated", "offset", d)
}

// TimeOffset returns the active clock correction.
func (a *Authenticator) TimeOffset() time.Duration {
	return a.clock.Offset()
}

// ProvisioningURI renders the account as an otpauth:// URI for transfer to
// another authenticator.
func (a *Authenticator) ProvisioningURI(name string) (string, error) {
	acc, err := a.store.Get(name)
	if err != nil {
		return "", err
	}
	return otpauth.URI(otpauth.Params{
		Secret:      acc.Secret,
		AccountName: acc.Name,
		Type:        acc.Type,
		Counter:     acc.Counter,
	})
}

// ProvisioningQR renders the account's provisioning URI as a PNG QR code.
func (a *Authenticator) ProvisioningQR(name string, size int) ([]byte, error) {
	acc, err := a.store.Get(name)
	if err != nil {
		return nil, err
	}
	return otpauth.QR(otpauth.Params{
		Secret:      acc.Secret,
		AccountName: acc.Name,
		Type:        acc.Type,
		Counter:     acc.Counter,
	}, size)
}

// secretKey decodes a stored secret. Stored secrets are canonical, so a
// decode failure means the vault file was tampered with.
func (a *Authenticator) secretKey(acc vault.Account) ([]byte, error) {
	key, err := base32.Decode(acc.Secret)
	if err != nil {
		return nil, errors.Join(ErrCorruptSecret, err)
	}
	return key, nil
}
