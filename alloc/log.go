package alloc

import "github.com/rs/zerolog"

var logger = zerolog.Nop()

// SetLogger sets the logger used to report refused frees and resizes.
func SetLogger(l zerolog.Logger) {
	logger = l
}
