// Command otpvault manages a personal one-time-password vault from the
// terminal.
//
// Configuration comes from the environment (optionally via a .env file next
// to the working directory); see pkg/config.App for the variables.
//
// Usage:
//
//	otpvault list
//	otpvault code <name>
//	otpvault check <name>
//	otpvault add -name NAME [-secret SECRET | -gen] [-type totp|hotp] [-counter N]
//	otpvault add-uri [-y] <otpauth-uri>
//	otpvault rename <old> <new>
//	otpvault delete <name>
//	otpvault import <file|->
//	otpvault export <file|->
//	otpvault qr -o FILE [-size N] <name>
//	otpvault set-color <name> <hex|clear>
//	otpvault set-offset <duration>
//	otpvault keygen
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/otpvault/otpvault"
	"github.com/otpvault/otpvault/pkg/config"
	"github.com/otpvault/otpvault/pkg/logger"
	"github.com/otpvault/otpvault/pkg/otp"
	"github.com/otpvault/otpvault/pkg/otpauth"
	"github.com/otpvault/otpvault/pkg/vault"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "otpvault:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command; see the package documentation for usage")
	}

	var cfg config.App
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
	)
	logger.SetAsDefault(log)

	cmd, rest := args[0], args[1:]

	// keygen needs no vault.
	if cmd == "keygen" {
		key, err := vault.GenerateEncodedEncryptionKey()
		if err != nil {
			return err
		}
		fmt.Println(key)
		return nil
	}
	if cmd == "set-offset" {
		return cmdSetOffset(rest)
	}

	vaultOpts := []vault.Option{vault.WithLogger(log)}
	if cfg.IconDir != "" {
		vaultOpts = append(vaultOpts, vault.WithIconDir(cfg.IconDir))
	}
	if cfg.EncryptionKey != "" {
		key, err := vault.DecodeEncryptionKey(cfg.EncryptionKey)
		if err != nil {
			return err
		}
		vaultOpts = append(vaultOpts, vault.WithEncryptionKey(key))
	}

	store, err := vault.Open(cfg.VaultPath, vaultOpts...)
	if err != nil {
		return err
	}

	auth := otpvault.New(store,
		otpvault.WithLogger(log),
		otpvault.WithClock(otp.NewClock(otp.WithOffset(time.Duration(cfg.TimeOffsetMS)*time.Millisecond))),
	)

	switch cmd {
	case "list":
		return cmdList(auth)
	case "code":
		return cmdCode(auth, rest)
	case "check":
		return cmdCheck(auth, rest)
	case "add":
		return cmdAdd(auth, rest)
	case "add-uri":
		return cmdAddURI(auth, rest)
	case "rename":
		return cmdRename(auth, rest)
	case "delete":
		return cmdDelete(auth, rest)
	case "import":
		return cmdImport(auth, rest)
	case "export":
		return cmdExport(auth, rest)
	case "qr":
		return cmdQR(auth, rest)
	case "set-color":
		return cmdSetColor(auth, rest)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdList(auth *otpvault.Authenticator) error {
	for _, acc := range auth.Accounts() {
		line := fmt.Sprintf("%s\t%s", acc.Name, acc.Type)
		if acc.Color != nil {
			line += fmt.Sprintf("\t#%06x", *acc.Color)
		}
		fmt.Println(line)
	}
	return nil
}

func cmdCode(auth *otpvault.Authenticator, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: code <name>")
	}
	code, err := auth.NextCode(args[0])
	if err != nil {
		return err
	}
	fmt.Println(code.Code)
	if code.SecondsRemaining > 0 {
		fmt.Fprintf(os.Stderr, "valid for %ds\n", code.SecondsRemaining)
	}
	return nil
}

func cmdCheck(auth *otpvault.Authenticator, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: check <name>")
	}
	code, err := auth.CheckCode(args[0])
	if err != nil {
		return err
	}
	fmt.Println(code)
	return nil
}

func cmdAdd(auth *otpvault.Authenticator, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	name := fs.String("name", "", "account name")
	secret := fs.String("secret", "", "Base32 shared secret")
	gen := fs.Bool("gen", false, "generate a fresh random secret")
	typ := fs.String("type", "totp", "account type: totp or hotp")
	counter := fs.Uint64("counter", 0, "initial counter (hotp only)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *gen {
		generated, err := otp.GenerateSecretKey()
		if err != nil {
			return err
		}
		*secret = generated
		fmt.Fprintln(os.Stderr, "secret:", generated)
	}

	accountType := vault.Type(strings.ToUpper(*typ))
	if err := auth.AddManual(*name, *secret, accountType, *counter); err != nil {
		return err
	}
	fmt.Println("added", *name)
	return nil
}

func cmdAddURI(auth *otpvault.Authenticator, args []string) error {
	fs := flag.NewFlagSet("add-uri", flag.ContinueOnError)
	yes := fs.Bool("y", false, "apply without confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: add-uri [-y] <otpauth-uri>")
	}

	confirm := func(d otpauth.Draft) bool {
		fmt.Fprintf(os.Stderr, "account: %s", d.Name)
		if d.Issuer != "" {
			fmt.Fprintf(os.Stderr, " (%s)", d.Issuer)
		}
		fmt.Fprintf(os.Stderr, "\ntype: %s\n", d.Type)
		if d.Type == vault.TypeHOTP {
			fmt.Fprintf(os.Stderr, "counter: %d\n", d.Counter)
		}
		if *yes {
			return true
		}
		fmt.Fprint(os.Stderr, "save? [y/N] ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		return strings.EqualFold(strings.TrimSpace(line), "y")
	}

	draft, err := auth.AddFromURI(fs.Arg(0), confirm)
	if err != nil {
		return err
	}
	fmt.Println("saved", draft.Name)
	return nil
}

func cmdRename(auth *otpvault.Authenticator, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: rename <old> <new>")
	}
	return auth.Rename(args[0], args[1])
}

func cmdDelete(auth *otpvault.Authenticator, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <name>")
	}
	deleted, err := auth.Delete(args[0])
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(os.Stderr, "no such account")
	}
	return nil
}

func cmdImport(auth *otpvault.Authenticator, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: import <file|->")
	}
	in := os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	res, err := auth.Import(in)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d, skipped %d\n", res.Imported, res.Skipped)
	return nil
}

func cmdExport(auth *otpvault.Authenticator, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: export <file|->")
	}
	out := os.Stdout
	if args[0] != "-" {
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return auth.Export(out)
}

func cmdQR(auth *otpvault.Authenticator, args []string) error {
	fs := flag.NewFlagSet("qr", flag.ContinueOnError)
	out := fs.String("o", "", "output PNG file")
	size := fs.Int("size", 0, "image edge length in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || *out == "" {
		return fmt.Errorf("usage: qr -o FILE [-size N] <name>")
	}
	png, err := auth.ProvisioningQR(fs.Arg(0), *size)
	if err != nil {
		return err
	}
	return os.WriteFile(*out, png, 0o600)
}

func cmdSetColor(auth *otpvault.Authenticator, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: set-color <name> <hex|clear>")
	}
	if args[1] == "clear" {
		return auth.SetColor(args[0], nil)
	}
	raw := strings.TrimPrefix(args[1], "#")
	parsed, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", args[1], err)
	}
	color := uint32(parsed)
	return auth.SetColor(args[0], &color)
}

// cmdSetOffset persists the clock correction into the .env file so every
// later invocation picks it up.
func cmdSetOffset(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: set-offset <duration, e.g. -30s>")
	}
	offset, err := time.ParseDuration(args[0])
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", args[0], err)
	}

	env, err := godotenv.Read()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if env == nil {
		env = make(map[string]string)
	}
	env["OTPVAULT_TIME_OFFSET_MS"] = strconv.FormatInt(offset.Milliseconds(), 10)
	if err := godotenv.Write(env, ".env"); err != nil {
		return err
	}
	fmt.Printf("time offset set to %s\n", offset)
	return nil
}
