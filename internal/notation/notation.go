// Package notation rewrites SAN piece letters into the alphabet chosen for the
// solution text and renders numbered move lists.
package notation

import (
	"fmt"
	"strings"

	"github.com/vytor/pgn2tex/internal/rules"
	"github.com/vytor/pgn2tex/internal/tex"
)

// Style selects the piece alphabet.
type Style int

const (
	Plain     Style = iota // K Q R B N
	Localized              // K D T L S
	Symbolic               // \king{} \queen{} ...
)

func (s Style) String() string {
	switch s {
	case Localized:
		return "german"
	case Symbolic:
		return "symbols"
	default:
		return "english"
	}
}

// ParseStyle accepts both the CLI names and the descriptive names.
func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "english", "plain":
		return Plain, nil
	case "german", "localized":
		return Localized, nil
	case "symbols", "symbolic":
		return Symbolic, nil
	default:
		return Plain, fmt.Errorf("unknown notation %q (want english, german or symbols)", s)
	}
}

// pieceLetters is the source alphabet in substitution order.
var pieceLetters = []string{"K", "Q", "R", "B", "N"}

var localized = map[string]string{"K": "K", "Q": "D", "R": "T", "B": "L", "N": "S"}

var symbolic = map[string]string{
	"K": `\king{}`,
	"Q": `\queen{}`,
	"R": `\rook{}`,
	"B": `\bishop{}`,
	"N": `\knight{}`,
}

var replacers = map[Style]*strings.Replacer{
	Localized: newPieceReplacer(localized),
	Symbolic:  newPieceReplacer(symbolic),
}

// newPieceReplacer lists every "=X" pair ahead of the bare "X" pairs.
// strings.Replacer tries pairs in argument order at each offset and never
// rescans its own output, so a promotion suffix is rewritten once as a unit
// and replacement text is never substituted again.
func newPieceReplacer(table map[string]string) *strings.Replacer {
	pairs := make([]string, 0, 4*len(pieceLetters))
	for _, l := range pieceLetters {
		pairs = append(pairs, "="+l, "="+table[l])
	}
	for _, l := range pieceLetters {
		pairs = append(pairs, l, table[l])
	}
	return strings.NewReplacer(pairs...)
}

// Transform rewrites the piece letters of a SAN token. Everything outside
// K, Q, R, B, N passes through, including files, ranks, captures, check
// marks and castling.
func Transform(san string, style Style) string {
	r, ok := replacers[style]
	if !ok {
		return san
	}
	return r.Replace(san)
}

var results = map[string]bool{"1-0": true, "0-1": true, "1/2-1/2": true, "*": true}

// MoveList renders the main line as "1. e4 e5 2. Nf3 ..." in the given style.
// Numbers precede white moves only. A recognised result token is appended.
func MoveList(line rules.Line, result string, style Style) string {
	parts := make([]string, 0, len(line.Moves)+1)
	for _, mv := range line.Moves {
		san := Transform(mv.SAN, style)
		if mv.Mover == rules.White {
			parts = append(parts, fmt.Sprintf("%d. %s", mv.Number, san))
		} else {
			parts = append(parts, san)
		}
	}
	if res := strings.TrimSpace(result); results[res] {
		parts = append(parts, res)
	}
	return tex.EscapeMoves(strings.Join(parts, " "))
}
