package logger

import "log/slog"

// Error records a single error under the key "error"; nil yields an empty
// attribute.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the subsystem name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Account records an account name under the key "account".
func Account(name string) slog.Attr {
	return slog.String("account", name)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
