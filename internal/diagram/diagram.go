// Package diagram turns one game record into one filled LaTeX cell.
package diagram

import (
	"fmt"
	"strings"

	"github.com/vytor/pgn2tex/internal/notation"
	"github.com/vytor/pgn2tex/internal/pgn"
	"github.com/vytor/pgn2tex/internal/rules"
	"github.com/vytor/pgn2tex/internal/tex"
)

// Mode selects which position is drawn and which cell macro is used.
type Mode int

const (
	// Final draws the position at the end of the main line.
	Final Mode = iota
	// Start draws the start position in a fixed-height cell.
	Start
	// StartSolution draws the start position followed by the main line.
	StartSolution
)

func (m Mode) String() string {
	switch m {
	case Start:
		return "start"
	case StartSolution:
		return "start+solution"
	default:
		return "final"
	}
}

// ParseMode parses final, start or start+solution.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "final", "":
		return Final, nil
	case "start":
		return Start, nil
	case "start+solution", "solution":
		return StartSolution, nil
	default:
		return Final, fmt.Errorf("unknown mode %q (want final, start or start+solution)", s)
	}
}

// Layout returns the preamble variant that declares this mode's macros.
func (m Mode) Layout() tex.Layout {
	if m == Final {
		return tex.DiagramLayout
	}
	return tex.CellLayout
}

// Options are fixed for a whole run.
type Options struct {
	Mode        Mode
	FontSize    int
	Orientation Orientation
	HideMover   bool
	WithText    bool
	CellHeight  float64 // centimetres
	Notation    notation.Style
	ShowOpening bool
}

// Block is one rendered cell and its 1-based place in the output.
type Block struct {
	Index int
	Text  string
}

// Renderer fills the cell templates.
type Renderer struct {
	opts Options
}

// NewRenderer returns a Renderer for opts.
func NewRenderer(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

type header struct {
	white, black, result string
	event, site, date    string
	opening              string
}

// Render produces the block for a game record.
func (r *Renderer) Render(rec *pgn.Record) Block {
	h := header{
		white:  rec.Tag("White", "White"),
		black:  rec.Tag("Black", "Black"),
		result: rec.Tag("Result", "*"),
		event:  rec.Tag("Event", ""),
		site:   rec.Tag("Site", ""),
		date:   rec.Tag("Date", ""),
	}
	if r.opts.ShowOpening {
		h.opening = openingText(rec)
	}
	return r.render(rec.Index, rec.Line, h, rec.Tag("Result", ""))
}

// RenderFEN produces the block for a position given directly on the command line.
func (r *Renderer) RenderFEN(pos rules.Position) Block {
	h := header{white: "FEN-Position", result: "*"}
	return r.render(1, rules.StaticLine(pos), h, "")
}

// Position returns the position a record is drawn at in this mode.
func (r *Renderer) Position(line rules.Line) rules.Position {
	if r.opts.Mode == Final {
		return line.Final
	}
	return line.Start
}

func (r *Renderer) render(index int, line rules.Line, h header, result string) Block {
	pos := r.Position(line)
	opts := tex.BoardOptions{
		FontSize:  r.opts.FontSize,
		Inverse:   ShouldInvert(pos.BlackToMove(), r.opts.Orientation),
		HideMover: r.opts.HideMover,
	}

	var title, subtitle string
	if r.opts.WithText {
		title, subtitle = h.title(), h.subtitle()
	}

	var text string
	switch r.opts.Mode {
	case Final:
		if r.opts.WithText {
			text = tex.DiagramText{
				Title:      title,
				Subtitle:   subtitle,
				FEN:        pos.FEN(),
				Options:    opts,
				CellHeight: r.opts.CellHeight,
			}.String()
		} else {
			text = tex.DiagramOnly{FEN: pos.FEN(), Options: opts}.String()
		}
	case Start, StartSolution:
		cell := tex.CellStart{
			Title:      title,
			Subtitle:   subtitle,
			FEN:        pos.FEN(),
			Options:    opts,
			CellHeight: r.opts.CellHeight,
			WithText:   r.opts.WithText,
		}
		if r.opts.Mode == StartSolution {
			text = tex.CellSolution{
				CellStart: cell,
				Solution:  notation.MoveList(line, result, r.opts.Notation),
			}.String()
		} else {
			text = cell.String()
		}
	}
	return Block{Index: index, Text: text}
}

func (h header) title() string {
	if h.black == "" {
		return fmt.Sprintf("%s (%s)", tex.Escape(h.white), tex.Escape(h.result))
	}
	return fmt.Sprintf("%s — %s (%s)", tex.Escape(h.white), tex.Escape(h.black), tex.Escape(h.result))
}

func (h header) subtitle() string {
	parts := make([]string, 0, 4)
	for _, s := range []string{h.event, h.site, h.date, h.opening} {
		if s != "" {
			parts = append(parts, tex.Escape(s))
		}
	}
	return strings.Join(parts, " · ")
}

// openingText prefers the book lookup and falls back to the record's own tags.
func openingText(rec *pgn.Record) string {
	eco, name := rec.ECO, rec.Opening
	if name == "" {
		eco, name = rec.Tag("ECO", ""), rec.Tag("Opening", "")
	}
	return strings.TrimSpace(eco + " " + name)
}
