package transfer_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/otpvault/otpvault/pkg/transfer"
	"github.com/otpvault/otpvault/pkg/vault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "JBSWY3DPEHPK3PXP"

func openTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	v, err := vault.Open(filepath.Join(t.TempDir(), "vault.json"))
	require.NoError(t, err)
	return v
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	src := openTestVault(t)
	color := uint32(0x336699)
	require.NoError(t, src.Upsert(vault.UpsertParams{Name: "alice@example.com", Secret: testSecret, Type: vault.TypeTOTP, Color: &color}))
	require.NoError(t, src.Upsert(vault.UpsertParams{Name: "bob", Secret: testSecret, Type: vault.TypeHOTP, Counter: 7}))

	var buf bytes.Buffer
	require.NoError(t, transfer.Export(&buf, src))

	dst := openTestVault(t)
	res, err := transfer.Import(&buf, dst)
	require.NoError(t, err)
	assert.Equal(t, transfer.Result{Imported: 2}, res)

	assert.Equal(t, []string{"alice@example.com", "bob"}, dst.Names())

	alice, err := dst.Get("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, vault.TypeTOTP, alice.Type)
	require.NotNil(t, alice.Color)
	assert.Equal(t, uint32(0x336699), *alice.Color)

	bob, err := dst.Get("bob")
	require.NoError(t, err)
	assert.Equal(t, vault.TypeHOTP, bob.Type)
	assert.Equal(t, uint64(7), bob.Counter)
}

func TestImportSkipsBadEntries(t *testing.T) {
	t.Parallel()

	doc := `[
		{"email": "alice", "secret": "` + testSecret + `", "type": "TOTP"},
		{"email": "", "secret": "` + testSecret + `", "type": "TOTP"},
		{"email": "carol", "secret": "not-base32!", "type": "TOTP"},
		{"email": "dave", "secret": "` + testSecret + `", "counter": "not-a-number"},
		{"email": "erin", "secret": "` + testSecret + `", "type": "HOTP", "counter": 3}
	]`

	v := openTestVault(t)
	res, err := transfer.Import(strings.NewReader(doc), v)
	require.NoError(t, err)
	assert.Equal(t, transfer.Result{Imported: 2, Skipped: 3}, res)
	assert.Equal(t, []string{"alice", "erin"}, v.Names())
}

func TestImportUpdatesExisting(t *testing.T) {
	t.Parallel()

	v := openTestVault(t)
	require.NoError(t, v.Upsert(vault.UpsertParams{Name: "alice", Secret: testSecret, Type: vault.TypeTOTP}))

	doc := `[{"email": "alice", "secret": "` + testSecret + `", "type": "HOTP", "counter": 5}]`
	res, err := transfer.Import(strings.NewReader(doc), v)
	require.NoError(t, err)
	assert.Equal(t, transfer.Result{Imported: 1}, res)

	assert.Equal(t, 1, v.Len())
	alice, err := v.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, vault.TypeHOTP, alice.Type)
	assert.Equal(t, uint64(5), alice.Counter)
}

func TestImportMissingTypeDefaultsToTOTP(t *testing.T) {
	t.Parallel()

	v := openTestVault(t)
	doc := `[{"email": "alice", "secret": "` + testSecret + `"}]`
	res, err := transfer.Import(strings.NewReader(doc), v)
	require.NoError(t, err)
	assert.Equal(t, transfer.Result{Imported: 1}, res)

	alice, err := v.Get("alice")
	require.NoError(t, err)
	assert.Equal(t, vault.TypeTOTP, alice.Type)
}

func TestImportNegativeARGBColor(t *testing.T) {
	t.Parallel()

	// 0xFF336699 as a signed 32-bit value.
	v := openTestVault(t)
	doc := `[{"email": "alice", "secret": "` + testSecret + `", "type": "TOTP", "color": -13408615}]`
	res, err := transfer.Import(strings.NewReader(doc), v)
	require.NoError(t, err)
	assert.Equal(t, transfer.Result{Imported: 1}, res)

	alice, err := v.Get("alice")
	require.NoError(t, err)
	require.NotNil(t, alice.Color)
	assert.Equal(t, uint32(0x336699), *alice.Color)
}

func TestImportBadDocument(t *testing.T) {
	t.Parallel()

	v := openTestVault(t)
	_, err := transfer.Import(strings.NewReader(`{"not": "an array"}`), v)
	assert.ErrorIs(t, err, transfer.ErrBadDocument)

	_, err = transfer.Import(strings.NewReader(""), v)
	assert.ErrorIs(t, err, transfer.ErrBadDocument)
}
