package engine

import "github.com/rs/zerolog"

var logger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	logger = l
}
