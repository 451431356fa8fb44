package domain

import (
	"fmt"
	"strings"
)

// Mode selects the flavour of outing the planning service should produce.
type Mode string

const (
	ModeSurprise Mode = "surprise"
	ModeMustSee  Mode = "must-see"
)

// ParseMode accepts the wire values plus the camel and snake spellings
// users tend to type on the command line.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "surprise":
		return ModeSurprise, nil
	case "must-see", "mustsee", "must_see":
		return ModeMustSee, nil
	default:
		return "", &ValidationError{Field: "mode", Message: fmt.Sprintf("unknown mode %q (want surprise or must-see)", s)}
	}
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeSurprise || m == ModeMustSee
}

// Label returns a human-friendly name for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeSurprise:
		return "Surprise me"
	case ModeMustSee:
		return "Must-see"
	default:
		return string(m)
	}
}

// KnownInterests is the interest catalogue offered by the preference form.
// The model itself accepts any non-blank interest.
var KnownInterests = []string{"Food", "History", "Art", "Music", "Nightlife", "Shopping"}
