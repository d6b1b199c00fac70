package transfer

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/otpvault/otpvault/pkg/vault"
)

// record is one element of the interchange array. Color is signed so
// documents produced by tools that store 32-bit ARGB values (where fully
// opaque colors come out negative) still decode; the vault masks the value
// down to 24 bits on upsert.
type record struct {
	Email   string `json:"email"`
	Secret  string `json:"secret"`
	Counter uint64 `json:"counter"`
	Type    string `json:"type,omitempty"`
	Color   *int64 `json:"color,omitempty"`
}

// Option configures Import and Export.
type Option func(*settings)

type settings struct {
	log *slog.Logger
}

// WithLogger sets the logger used to record skipped entries.
func WithLogger(log *slog.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{log: slog.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Export writes every account of the vault to w as an indented JSON array,
// preserving insertion order.
func Export(w io.Writer, v *vault.Vault, opts ...Option) error {
	s := newSettings(opts)

	accounts := v.Accounts()
	records := make([]record, len(accounts))
	for i, acc := range accounts {
		records[i] = record{
			Email:   acc.Name,
			Secret:  acc.Secret,
			Counter: acc.Counter,
			Type:    string(acc.Type),
		}
		if acc.Color != nil {
			c := int64(*acc.Color)
			records[i].Color = &c
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return errors.Join(ErrWriteFailed, err)
	}
	s.log.Debug("accounts exported", "count", len(records))
	return nil
}

// Result summarizes an import run.
type Result struct {
	Imported int
	Skipped  int
}

// Import reads a full JSON account array from r and upserts each entry into
// the vault, updating accounts that already exist under the same name.
// Elements that fail to decode or fail vault validation are skipped and
// counted; only an unreadable source or a document that is not an array at
// all aborts the run.
func Import(r io.Reader, v *vault.Vault, opts ...Option) (Result, error) {
	s := newSettings(opts)

	raw, err := io.ReadAll(r)
	if err != nil {
		return Result{}, errors.Join(ErrReadFailed, err)
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return Result{}, errors.Join(ErrBadDocument, err)
	}

	var res Result
	for i, elem := range elements {
		var rec record
		if err := json.Unmarshal(elem, &rec); err != nil {
			s.log.Warn("skipping malformed import entry", "index", i, "error", err)
			res.Skipped++
			continue
		}
		if err := upsertRecord(v, rec); err != nil {
			s.log.Warn("skipping rejected import entry", "index", i, "name", rec.Email, "error", err)
			res.Skipped++
			continue
		}
		res.Imported++
	}

	s.log.Info("import finished", "imported", res.Imported, "skipped", res.Skipped)
	return res, nil
}

func upsertRecord(v *vault.Vault, rec record) error {
	// Older exports carried no type field; those are time-based accounts.
	typ := vault.Type(strings.ToUpper(strings.TrimSpace(rec.Type)))
	if typ == "" {
		typ = vault.TypeTOTP
	}

	p := vault.UpsertParams{
		Name:         rec.Email,
		Secret:       rec.Secret,
		OriginalName: rec.Email,
		Type:         typ,
		Counter:      rec.Counter,
	}
	if rec.Color != nil {
		c := uint32(*rec.Color) & 0xffffff
		p.Color = &c
	}
	return v.Upsert(p)
}
