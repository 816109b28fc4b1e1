package rangecov

import "github.com/rs/zerolog"

var logger = zerolog.Nop()

// SetLogger sets the logger used when no diagnostic log file is configured.
func SetLogger(l zerolog.Logger) {
	logger = l
}
