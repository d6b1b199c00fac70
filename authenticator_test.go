package otpvault_test

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/otpvault/otpvault"
	"github.com/otpvault/otpvault/pkg/otp"
	"github.com/otpvault/otpvault/pkg/otpauth"
	"github.com/otpvault/otpvault/pkg/throttle"
	"github.com/otpvault/otpvault/pkg/transfer"
	"github.com/otpvault/otpvault/pkg/vault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rfcSecret is the RFC 4226/6238 test key "12345678901234567890" in Base32.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

// fakeClock is a settable time source shared by the corrected clock and the
// throttle gate.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestAuthenticator(t *testing.T, clk *fakeClock) (*otpvault.Authenticator, *vault.Vault) {
	t.Helper()
	store, err := vault.Open(filepath.Join(t.TempDir(), "vault.json"))
	require.NoError(t, err)
	auth := otpvault.New(store,
		otpvault.WithClock(otp.NewClock(otp.WithNowFunc(clk.Now))),
		otpvault.WithNowFunc(clk.Now),
	)
	return auth, store
}

func TestTOTPLifecycle(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(59, 0)}
	auth, _ := newTestAuthenticator(t, clk)

	draft, err := auth.AddFromURI("otpauth://totp/alice?secret="+rfcSecret, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", draft.Name)

	accounts := auth.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, "alice", accounts[0].Name)
	assert.Equal(t, vault.TypeTOTP, accounts[0].Type)
	assert.False(t, accounts[0].RequiresButton)

	// RFC 6238 vector: t=59s is step 1 of the 30s counter.
	code, err := auth.NextCode("alice")
	require.NoError(t, err)
	assert.Equal(t, "287082", code.Code)
	assert.Equal(t, 1, code.SecondsRemaining)

	// Reads are pure: the same instant yields the same code, repeatedly.
	again, err := auth.NextCode("alice")
	require.NoError(t, err)
	assert.Equal(t, code.Code, again.Code)

	// The next step rotates the code.
	clk.Advance(time.Second)
	code, err = auth.NextCode("alice")
	require.NoError(t, err)
	assert.NotEqual(t, "287082", code.Code)
	assert.Equal(t, 30, code.SecondsRemaining)
}

func TestHOTPLifecycle(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1_000_000, 0)}
	auth, store := newTestAuthenticator(t, clk)

	require.NoError(t, auth.AddManual("bob", rfcSecret, vault.TypeHOTP, 0))

	// The advanced counter is persisted first; the code comes from the
	// position just consumed, so the first code is the RFC 4226 vector for
	// counter 0.
	code, err := auth.NextCode("bob")
	require.NoError(t, err)
	assert.Equal(t, "755224", code.Code)
	assert.Equal(t, int64(5000), code.CooldownMillis)

	acc, err := store.Get("bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), acc.Counter)

	// A second request inside the cooldown is rejected and burns nothing.
	_, err = auth.NextCode("bob")
	assert.ErrorIs(t, err, otpvault.ErrThrottled)
	acc, err = store.Get("bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), acc.Counter)

	// After the cooldown the next counter value comes out.
	clk.Advance(5 * time.Second)
	code, err = auth.NextCode("bob")
	require.NoError(t, err)
	assert.Equal(t, "287082", code.Code)

	clk.Advance(6 * time.Second)
	code, err = auth.NextCode("bob")
	require.NoError(t, err)
	assert.Equal(t, "359152", code.Code)

	status := auth.Status("bob")
	assert.Equal(t, throttle.StateCoolingVisible, status.State)
	assert.Equal(t, "359152", status.Code)
}

func TestHOTPCodeExpiresFromDisplay(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1_000_000, 0)}
	auth, _ := newTestAuthenticator(t, clk)
	require.NoError(t, auth.AddManual("bob", rfcSecret, vault.TypeHOTP, 0))

	_, err := auth.NextCode("bob")
	require.NoError(t, err)

	clk.Advance(2 * time.Minute)
	auth.Tick()

	status := auth.Status("bob")
	assert.Equal(t, throttle.StateIdle, status.State)
	assert.Empty(t, status.Code)
}

func TestCheckCodeHasNoSideEffects(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1_000_000, 0)}
	auth, store := newTestAuthenticator(t, clk)
	require.NoError(t, auth.AddManual("bob", rfcSecret, vault.TypeHOTP, 4))

	// RFC 4226 vector for counter 4: no increment, a preview of the next
	// NextCode result.
	code, err := auth.CheckCode("bob")
	require.NoError(t, err)
	assert.Equal(t, "338314", code)

	acc, err := store.Get("bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(4), acc.Counter)

	// CheckCode is not throttled either.
	for i := 0; i < 3; i++ {
		again, err := auth.CheckCode("bob")
		require.NoError(t, err)
		assert.Equal(t, code, again)
	}
}

func TestAddFromURIIdempotence(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(0, 0)}
	auth, store := newTestAuthenticator(t, clk)

	uri := "otpauth://hotp/bob?secret=" + rfcSecret + "&counter=3"
	_, err := auth.AddFromURI(uri, nil)
	require.NoError(t, err)

	// The identical URI changes nothing, even when spelled differently.
	_, err = auth.AddFromURI("otpauth://hotp/bob?secret=gezdgnbvgy3tqojqgezdgnbvgy3tqojq&counter=3", nil)
	assert.ErrorIs(t, err, otpvault.ErrAlreadyUpToDate)

	// A differing counter is a real change and goes through confirmation.
	var confirmed otpauth.Draft
	_, err = auth.AddFromURI("otpauth://hotp/bob?secret="+rfcSecret+"&counter=9", func(d otpauth.Draft) bool {
		confirmed = d
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(9), confirmed.Counter)

	acc, err := store.Get("bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(9), acc.Counter)
}

func TestAddFromURIDeclined(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(0, 0)}
	auth, store := newTestAuthenticator(t, clk)

	_, err := auth.AddFromURI("otpauth://totp/alice?secret="+rfcSecret, func(otpauth.Draft) bool {
		return false
	})
	assert.ErrorIs(t, err, otpvault.ErrDeclined)
	assert.Zero(t, store.Len())
}

func TestRenameKeepsCodes(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(59, 0)}
	auth, _ := newTestAuthenticator(t, clk)
	require.NoError(t, auth.AddManual("alice@example.com", rfcSecret, vault.TypeTOTP, 0))

	before, err := auth.NextCode("alice@example.com")
	require.NoError(t, err)

	require.NoError(t, auth.Rename("alice@example.com", "alice"))

	after, err := auth.NextCode("alice")
	require.NoError(t, err)
	assert.Equal(t, before.Code, after.Code)

	_, err = auth.NextCode("alice@example.com")
	assert.ErrorIs(t, err, vault.ErrNotFound)

	// Renaming to the current name is a no-op, not a collision.
	require.NoError(t, auth.Rename("alice", "alice"))
}

func TestDeleteClearsThrottleState(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1_000_000, 0)}
	auth, _ := newTestAuthenticator(t, clk)
	require.NoError(t, auth.AddManual("bob", rfcSecret, vault.TypeHOTP, 0))

	_, err := auth.NextCode("bob")
	require.NoError(t, err)

	deleted, err := auth.Delete("bob")
	require.NoError(t, err)
	assert.True(t, deleted)

	// A recreated account starts with a fresh gate and counter.
	require.NoError(t, auth.AddManual("bob", rfcSecret, vault.TypeHOTP, 0))
	code, err := auth.NextCode("bob")
	require.NoError(t, err)
	assert.Equal(t, "755224", code.Code)

	deleted, err = auth.Delete("nobody")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTimeOffsetShiftsTOTP(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(29, 0)}
	auth, _ := newTestAuthenticator(t, clk)
	require.NoError(t, auth.AddManual("alice", rfcSecret, vault.TypeTOTP, 0))

	code, err := auth.NextCode("alice")
	require.NoError(t, err)
	assert.Equal(t, "755224", code.Code) // step 0

	auth.SetTimeOffset(30 * time.Second)
	assert.Equal(t, 30*time.Second, auth.TimeOffset())

	code, err = auth.NextCode("alice")
	require.NoError(t, err)
	assert.Equal(t, "287082", code.Code) // step 1
}

func TestImportExportThroughFacade(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(0, 0)}
	auth, _ := newTestAuthenticator(t, clk)
	require.NoError(t, auth.AddManual("alice", rfcSecret, vault.TypeTOTP, 0))
	require.NoError(t, auth.AddManual("bob", rfcSecret, vault.TypeHOTP, 7))

	var buf bytes.Buffer
	require.NoError(t, auth.Export(&buf))

	other, otherStore := newTestAuthenticator(t, clk)
	res, err := other.Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, transfer.Result{Imported: 2}, res)
	assert.Equal(t, []string{"alice", "bob"}, otherStore.Names())
}

func TestProvisioningRoundTrip(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(0, 0)}
	auth, _ := newTestAuthenticator(t, clk)
	require.NoError(t, auth.AddManual("bob", rfcSecret, vault.TypeHOTP, 7))

	uri, err := auth.ProvisioningURI("bob")
	require.NoError(t, err)

	draft, err := otpauth.Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "bob", draft.Name)
	assert.Equal(t, rfcSecret, draft.Secret)
	assert.Equal(t, vault.TypeHOTP, draft.Type)
	assert.Equal(t, uint64(7), draft.Counter)

	png, err := auth.ProvisioningQR("bob", 128)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
