package config

// App is the application configuration shared by every CLI command.
type App struct {
	// VaultPath is the location of the account store file.
	VaultPath string `env:"OTPVAULT_FILE" envDefault:"vault.json"`

	// IconDir overrides the icon blob directory; empty means an "icons"
	// directory next to the vault file.
	IconDir string `env:"OTPVAULT_ICON_DIR"`

	// EncryptionKey is an optional base64-encoded 32-byte AES key. When set,
	// secrets are encrypted at rest.
	EncryptionKey string `env:"OTPVAULT_KEY"`

	// TimeOffsetMS is the signed clock correction in milliseconds applied to
	// time-based codes.
	TimeOffsetMS int64 `env:"OTPVAULT_TIME_OFFSET_MS" envDefault:"0"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"OTPVAULT_LOG_LEVEL" envDefault:"warn"`

	// LogFormat is "text" or "json".
	LogFormat string `env:"OTPVAULT_LOG_FORMAT" envDefault:"text"`
}
