// Package rules is the narrow boundary between the layout code and the chess
// rules engine. Nothing outside this package and internal/pgn imports
// corentings/chess directly.
package rules

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/corentings/chess/v2"
	"github.com/corentings/chess/v2/opening"
)

// Side identifies the player to move.
type Side uint8

const (
	White Side = iota
	Black
)

func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

// Position is an immutable board state.
type Position struct {
	pos *chess.Position
}

// StartingPosition returns the standard initial position.
func StartingPosition() Position {
	return Position{pos: chess.StartingPosition()}
}

// ParseFEN parses a FEN string into a Position.
func ParseFEN(fen string) (Position, error) {
	fen = strings.TrimSpace(fen)
	if fen == "" {
		return Position{}, fmt.Errorf("empty FEN")
	}
	opt, err := chess.FEN(fen)
	if err != nil {
		return Position{}, err
	}
	return Position{pos: chess.NewGame(opt).Position()}, nil
}

// FromEngine wraps a position produced by the rules engine.
func FromEngine(pos *chess.Position) Position {
	return Position{pos: pos}
}

// Turn reports the side to move.
func (p Position) Turn() Side {
	if p.pos != nil && p.pos.Turn() == chess.Black {
		return Black
	}
	return White
}

// BlackToMove is shorthand for Turn() == Black.
func (p Position) BlackToMove() bool {
	return p.Turn() == Black
}

// FEN serializes the position.
func (p Position) FEN() string {
	if p.pos == nil {
		return chess.StartingPosition().String()
	}
	return p.pos.String()
}

// FullMoveNumber returns the sixth FEN field, or 1 when it is absent or malformed.
func (p Position) FullMoveNumber() int {
	fields := strings.Fields(p.FEN())
	if len(fields) < 6 {
		return 1
	}
	n, err := strconv.Atoi(fields[5])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Move is one main-line move rendered in SAN.
type Move struct {
	SAN    string
	Mover  Side
	Number int // full-move number the move belongs to
}

// Line is the main line of a game replayed from its start position.
type Line struct {
	Start Position
	Final Position
	Moves []Move
}

// StaticLine is a line without moves, used for single positions.
func StaticLine(p Position) Line {
	return Line{Start: p, Final: p}
}

// Replay walks the main line of g and records every move with the position it was played from.
func Replay(g *chess.Game) Line {
	positions := g.Positions()
	moves := g.Moves()
	if len(positions) == 0 {
		return StaticLine(StartingPosition())
	}

	line := Line{
		Start: FromEngine(positions[0]),
		Final: FromEngine(positions[len(positions)-1]),
		Moves: make([]Move, 0, len(moves)),
	}

	notation := chess.AlgebraicNotation{}
	for i, mv := range moves {
		if i >= len(positions)-1 {
			break
		}
		before := FromEngine(positions[i])
		line.Moves = append(line.Moves, Move{
			SAN:    notation.Encode(positions[i], mv),
			Mover:  before.Turn(),
			Number: before.FullMoveNumber(),
		})
	}
	return line
}

// The ECO book is parsed on first use only.
var ecoBook = sync.OnceValue(opening.NewBookECO)

// Opening looks up the ECO classification of g's main line.
func Opening(g *chess.Game) (code, title string, ok bool) {
	o := ecoBook().Find(g.Moves())
	if o == nil {
		return "", "", false
	}
	return o.Code(), o.Title(), true
}
