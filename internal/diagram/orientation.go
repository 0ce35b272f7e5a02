package diagram

import (
	"fmt"
	"strings"
)

// Orientation controls when a board is drawn from Black's side.
type Orientation int

const (
	Auto Orientation = iota // flip when Black is to move
	On                      // always flip
	Off                     // never flip
)

func (o Orientation) String() string {
	switch o {
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return "auto"
	}
}

// ParseOrientation parses auto, on or off.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return Auto, nil
	case "on":
		return On, nil
	case "off":
		return Off, nil
	default:
		return Auto, fmt.Errorf("unknown inverse mode %q (want auto, on or off)", s)
	}
}

// ShouldInvert decides the board flip for a single diagram. It looks at that
// diagram's side to move only.
func ShouldInvert(blackToMove bool, o Orientation) bool {
	switch o {
	case On:
		return true
	case Off:
		return false
	default:
		return blackToMove
	}
}
