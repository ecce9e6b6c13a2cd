package file

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"
)

var (
	// DefaultMaxSourceSize is 1MB, far above any hand-written soundboard.
	DefaultMaxSourceSize = 1 << 20
	// EnvMaxSourceSize is the environment variable to override the default.
	EnvMaxSourceSize = "SOUNDBOARD_MAX_SOURCE_SIZE"
)

var (
	ErrSourceTooLarge = errors.New("source exceeds maximum allowed size")
	ErrInvalidUTF8    = errors.New("source contains invalid UTF-8 sequences")
)

// MaxSourceSize returns the size limit for sources received over the network.
func MaxSourceSize() int {
	if val := os.Getenv(EnvMaxSourceSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxSourceSize
}

// CheckSource rejects sources that are too large or not UTF-8.
// It rejects rather than truncates, so a source either compiles whole or not at all.
func CheckSource(data []byte) error {
	if limit := MaxSourceSize(); len(data) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrSourceTooLarge, len(data), limit)
	}
	if !utf8.Valid(data) {
		return ErrInvalidUTF8
	}
	return nil
}
