package seeder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned by ParseMode for an unsupported mode name.
var ErrUnknownMode = errors.New("unknown source mode")

// Mode selects which generators feed a run.
type Mode string

const (
	// ModeAll collects quotes and curated entries, then tops up with synthetic.
	ModeAll Mode = "all"

	// ModeQuotes collects quotes only and never tops up.
	ModeQuotes Mode = "quotes"

	// ModeSynthetic generates every record from templates.
	ModeSynthetic Mode = "synthetic"

	// ModeMixed behaves like ModeAll. It is the default.
	ModeMixed Mode = "mixed"
)

// DefaultMode is used when no mode is configured.
const DefaultMode = ModeMixed

// Modes lists every supported mode.
func Modes() []Mode {
	return []Mode{ModeAll, ModeQuotes, ModeSynthetic, ModeMixed}
}

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeAll, ModeQuotes, ModeSynthetic, ModeMixed:
		return m, nil
	case "":
		return DefaultMode, nil
	}
	return "", fmt.Errorf("%w: %q (want one of all, quotes, synthetic, mixed)", ErrUnknownMode, s)
}

func (m Mode) String() string {
	return string(m)
}

func (m Mode) fetchesQuotes() bool {
	return m == ModeAll || m == ModeQuotes || m == ModeMixed
}

func (m Mode) usesCurated() bool {
	return m == ModeAll || m == ModeMixed
}

func (m Mode) topsUp() bool {
	return m == ModeAll || m == ModeSynthetic || m == ModeMixed
}
