package vault

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// iconKey derives a stable filename for an account's icon blob. The name is
// sanitized for the filesystem and suffixed with a short digest of the
// original name so that two accounts whose names sanitize identically still
// get distinct blobs.
func iconKey(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_', r == '@':
			return r
		default:
			return '_'
		}
	}, name)
	sum := sha1.Sum([]byte(name))
	return fmt.Sprintf("%s-%x.png", sanitized, sum[:4])
}

// SetIcon stores icon bytes for an account and records the blob key.
func (v *Vault) SetIcon(name string, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx, ok := v.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	if err := os.MkdirAll(v.iconDir, 0o700); err != nil {
		return errors.Join(ErrIO, err)
	}
	key := iconKey(name)
	if err := os.WriteFile(filepath.Join(v.iconDir, key), data, 0o600); err != nil {
		return errors.Join(ErrIO, err)
	}

	acc := &v.accounts[idx]
	prev := acc.Icon
	acc.Icon = key
	if err := v.persistLocked(); err != nil {
		acc.Icon = prev
		return err
	}
	return nil
}

// Icon returns the stored icon bytes for an account, ErrNoIcon when none is
// set.
func (v *Vault) Icon(name string) ([]byte, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	idx, ok := v.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	key := v.accounts[idx].Icon
	if key == "" {
		return nil, fmt.Errorf("%w: %q", ErrNoIcon, name)
	}

	data, err := os.ReadFile(filepath.Join(v.iconDir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrNoIcon, name)
		}
		return nil, errors.Join(ErrIO, err)
	}
	return data, nil
}

// moveIconLocked renames an account's icon blob after the account itself was
// renamed. Blob loss here is cosmetic, so failures are logged, not fatal.
func (v *Vault) moveIconLocked(acc *Account) {
	if acc.Icon == "" {
		return
	}
	newKey := iconKey(acc.Name)
	oldPath := filepath.Join(v.iconDir, acc.Icon)
	if err := os.Rename(oldPath, filepath.Join(v.iconDir, newKey)); err != nil && !os.IsNotExist(err) {
		v.log.Warn("failed to move icon blob", "name", acc.Name, "error", err)
		return
	}
	acc.Icon = newKey
}
