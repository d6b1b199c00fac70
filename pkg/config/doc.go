// Package config loads application configuration from environment variables
// into tagged structs, with optional .env file support.
//
// Each configuration type is parsed once per process and cached; subsequent
// Load calls for the same type return the cached copy. Tests that mutate the
// environment use ResetCache or ForceReload to re-parse.
//
//	type Config struct {
//	    VaultPath string `env:"OTPVAULT_FILE" envDefault:"vault.json"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil { ... }
package config
