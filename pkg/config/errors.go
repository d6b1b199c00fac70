package config

import "errors"

var (
	// ErrParsingConfig indicates environment variables could not be parsed
	// into the config struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrConfigNotLoaded indicates the cache lost the config between parse
	// and read.
	ErrConfigNotLoaded = errors.New("configuration has not been loaded")

	// ErrNilPointer indicates a nil pointer was handed to the loader.
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)
