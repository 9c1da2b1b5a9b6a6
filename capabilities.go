package ansimark

import (
	"os"

	"github.com/muesli/termenv"
)

// Capabilities selects which markup a rendering may contain.
type Capabilities struct {
	ANSI  bool
	Xterm bool
	MXP   bool
}

// DetectCapabilities guesses ANSI support for output going to a terminal.
// MXP is never detected; it is negotiated by the telnet layer.
func DetectCapabilities(isTTY bool) Capabilities {
	if !isTTY || os.Getenv("NO_COLOR") != "" {
		return Capabilities{}
	}
	return capabilitiesForProfile(termenv.EnvColorProfile())
}

func capabilitiesForProfile(p termenv.Profile) Capabilities {
	switch p {
	case termenv.TrueColor, termenv.ANSI256:
		return Capabilities{ANSI: true, Xterm: true}
	case termenv.ANSI:
		return Capabilities{ANSI: true}
	default:
		return Capabilities{}
	}
}
