package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/otpvault/otpvault/pkg/base32"
)

const (
	// MinSecretBytes is the minimum amount of decoded key material a stored
	// secret must carry (80 bits, the RFC 4226 minimum).
	MinSecretBytes = 10

	fileVersion = 1
)

// Vault is the persistent account store. All methods are safe for concurrent
// use; mutations are serialized and each one is written to disk before it
// returns.
type Vault struct {
	mu       sync.RWMutex
	path     string
	iconDir  string
	log      *slog.Logger
	key      []byte
	accounts []Account
	index    map[string]int
}

// Option configures a Vault during Open.
type Option func(*Vault)

// WithLogger sets the logger used for mutation and failure records.
func WithLogger(log *slog.Logger) Option {
	return func(v *Vault) {
		if log != nil {
			v.log = log
		}
	}
}

// WithEncryptionKey enables AES-256-GCM encryption of secrets at rest.
// The key must be exactly AESKeySize bytes.
func WithEncryptionKey(key []byte) Option {
	return func(v *Vault) {
		v.key = key
	}
}

// WithIconDir overrides the directory holding icon blobs. The default is an
// "icons" directory next to the vault file.
func WithIconDir(dir string) Option {
	return func(v *Vault) {
		if dir != "" {
			v.iconDir = dir
		}
	}
}

// vaultFile is the on-disk representation.
type vaultFile struct {
	Version   int       `json:"version"`
	Encrypted bool      `json:"encrypted,omitempty"`
	Accounts  []Account `json:"accounts"`
}

// Open loads the vault at path, creating an empty one in memory when the
// file does not exist yet (the file itself appears on the first mutation).
func Open(path string, opts ...Option) (*Vault, error) {
	v := &Vault{
		path:  path,
		log:   slog.Default(),
		index: make(map[string]int),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.iconDir == "" {
		v.iconDir = filepath.Join(filepath.Dir(path), "icons")
	}
	if v.key != nil && len(v.key) != AESKeySize {
		return nil, ErrInvalidEncryptionKeyLength
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			v.log.Debug("vault file does not exist yet, starting empty", "path", path)
			return v, nil
		}
		return nil, errors.Join(ErrIO, err)
	}

	var f vaultFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, errors.Join(ErrIO, err)
	}
	if f.Encrypted && v.key == nil {
		return nil, ErrEncryptionKeyRequired
	}

	for _, acc := range f.Accounts {
		if f.Encrypted {
			secret, err := openSecret(acc.Secret, v.key)
			if err != nil {
				return nil, err
			}
			acc.Secret = secret
		}
		if _, ok := v.index[acc.Name]; ok {
			return nil, errors.Join(ErrIO, fmt.Errorf("duplicate account %q", acc.Name))
		}
		v.index[acc.Name] = len(v.accounts)
		v.accounts = append(v.accounts, acc)
	}

	v.log.Debug("vault opened", "path", path, "accounts", len(v.accounts))
	return v, nil
}

// Path returns the vault file location.
func (v *Vault) Path() string {
	return v.path
}

// Len returns the number of stored accounts.
func (v *Vault) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.accounts)
}

// Names returns the account names in insertion order.
func (v *Vault) Names() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	names := make([]string, len(v.accounts))
	for i, acc := range v.accounts {
		names[i] = acc.Name
	}
	return names
}

// Accounts returns copies of all accounts in insertion order.
func (v *Vault) Accounts() []Account {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]Account, len(v.accounts))
	for i, acc := range v.accounts {
		out[i] = cloneAccount(acc)
	}
	return out
}

// Get returns a copy of the named account or ErrNotFound.
func (v *Vault) Get(name string) (Account, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	idx, ok := v.index[name]
	if !ok {
		return Account{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return cloneAccount(v.accounts[idx]), nil
}

// UpsertParams carries the inputs of an insert, update, or rename. When
// OriginalName is empty the operation targets Name directly; when it differs
// from Name the record is renamed. Color and Icon, when unset, preserve the
// existing values on update.
type UpsertParams struct {
	Name         string
	Secret       string
	OriginalName string
	Type         Type
	Counter      uint64
	Color        *uint32
	Icon         string
}

// Upsert inserts, updates, or renames an account. The secret is normalized
// to canonical Base32 and must carry at least MinSecretBytes of key
// material. A rename onto a name held by a different record fails with
// ErrNameExists. TOTP accounts always persist a zero counter.
func (v *Vault) Upsert(p UpsertParams) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ErrEmptyName
	}
	if !p.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, string(p.Type))
	}
	secret, err := normalizeSecret(p.Secret)
	if err != nil {
		return err
	}
	counter := p.Counter
	if p.Type == TypeTOTP {
		counter = 0
	}
	original := strings.TrimSpace(p.OriginalName)
	if original == "" {
		original = name
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	idxOrig, okOrig := v.index[original]
	if idxName, okName := v.index[name]; okName && (!okOrig || idxName != idxOrig) {
		return fmt.Errorf("%w: %q", ErrNameExists, name)
	}

	prevAccounts := slices.Clone(v.accounts)
	prevIndex := maps.Clone(v.index)

	if okOrig {
		acc := &v.accounts[idxOrig]
		oldName := acc.Name
		acc.Name = name
		acc.Secret = secret
		acc.Type = p.Type
		acc.Counter = counter
		if p.Color != nil {
			c := *p.Color & 0xffffff
			acc.Color = &c
		}
		if p.Icon != "" {
			acc.Icon = p.Icon
		}
		if oldName != name {
			delete(v.index, oldName)
			v.index[name] = idxOrig
			v.moveIconLocked(acc)
		}
	} else {
		acc := Account{
			Name:    name,
			Secret:  secret,
			Type:    p.Type,
			Counter: counter,
			Icon:    p.Icon,
		}
		if p.Color != nil {
			c := *p.Color & 0xffffff
			acc.Color = &c
		}
		v.index[name] = len(v.accounts)
		v.accounts = append(v.accounts, acc)
	}

	if err := v.persistLocked(); err != nil {
		v.accounts = prevAccounts
		v.index = prevIndex
		return err
	}
	v.log.Debug("account saved", "name", name, "type", string(p.Type))
	return nil
}

// Delete removes an account and its icon blob. It reports whether an
// account was removed; deleting an absent name is a no-op.
func (v *Vault) Delete(name string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx, ok := v.index[name]
	if !ok {
		return false, nil
	}

	prevAccounts := slices.Clone(v.accounts)
	prevIndex := maps.Clone(v.index)
	iconKey := v.accounts[idx].Icon

	v.accounts = append(v.accounts[:idx], v.accounts[idx+1:]...)
	delete(v.index, name)
	for i := idx; i < len(v.accounts); i++ {
		v.index[v.accounts[i].Name] = i
	}

	if err := v.persistLocked(); err != nil {
		v.accounts = prevAccounts
		v.index = prevIndex
		return false, err
	}
	if iconKey != "" {
		if err := os.Remove(filepath.Join(v.iconDir, iconKey)); err != nil && !os.IsNotExist(err) {
			v.log.Warn("failed to remove icon blob", "name", name, "error", err)
		}
	}
	v.log.Debug("account deleted", "name", name)
	return true, nil
}

// IncrementCounter advances an HOTP account's counter by one, persists it,
// and returns the new value. TOTP accounts fail with ErrWrongType. The write
// happens before any code derived from the counter is shown, so a crash can
// only burn a counter value, never replay one.
func (v *Vault) IncrementCounter(name string) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx, ok := v.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	acc := &v.accounts[idx]
	if acc.Type != TypeHOTP {
		return 0, fmt.Errorf("%w: counter increment on %s account", ErrWrongType, acc.Type)
	}

	acc.Counter++
	if err := v.persistLocked(); err != nil {
		acc.Counter--
		return 0, err
	}
	return acc.Counter, nil
}

// SetColor sets or clears an account's 24-bit display color.
func (v *Vault) SetColor(name string, color *uint32) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx, ok := v.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	acc := &v.accounts[idx]
	prev := acc.Color
	if color == nil {
		acc.Color = nil
	} else {
		c := *color & 0xffffff
		acc.Color = &c
	}

	if err := v.persistLocked(); err != nil {
		acc.Color = prev
		return err
	}
	return nil
}

// Rename moves an account to a new name, keeping its secret, type, counter,
// and customizations. Renaming an account to its current name is a no-op;
// equality is value equality on the trimmed names.
func (v *Vault) Rename(oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}
	if oldName == newName {
		return nil
	}

	acc, err := v.Get(oldName)
	if err != nil {
		return err
	}
	return v.Upsert(UpsertParams{
		Name:         newName,
		Secret:       acc.Secret,
		OriginalName: oldName,
		Type:         acc.Type,
		Counter:      acc.Counter,
	})
}

// normalizeSecret trims, decodes, and re-encodes a secret, enforcing the
// minimum key length.
func normalizeSecret(secret string) (string, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "", ErrEmptySecret
	}
	decoded, err := base32.Decode(secret)
	if err != nil {
		return "", err
	}
	if len(decoded) == 0 {
		return "", ErrEmptySecret
	}
	if len(decoded) < MinSecretBytes {
		return "", fmt.Errorf("%w: %d bytes, need at least %d", ErrSecretTooShort, len(decoded), MinSecretBytes)
	}
	return base32.Encode(decoded), nil
}

// persistLocked serializes the current state and atomically replaces the
// vault file. Callers hold the write lock.
func (v *Vault) persistLocked() error {
	f := vaultFile{
		Version:  fileVersion,
		Accounts: make([]Account, len(v.accounts)),
	}
	copy(f.Accounts, v.accounts)

	if v.key != nil {
		f.Encrypted = true
		for i := range f.Accounts {
			sealed, err := sealSecret(f.Accounts[i].Secret, v.key)
			if err != nil {
				return err
			}
			f.Accounts[i].Secret = sealed
		}
	}

	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errors.Join(ErrIO, err)
	}

	if err := os.MkdirAll(filepath.Dir(v.path), 0o700); err != nil {
		return errors.Join(ErrIO, err)
	}
	tmp := v.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.Join(ErrIO, err)
	}
	if err := os.Rename(tmp, v.path); err != nil {
		return errors.Join(ErrIO, err)
	}
	return nil
}

func cloneAccount(acc Account) Account {
	if acc.Color != nil {
		c := *acc.Color
		acc.Color = &c
	}
	return acc
}
