// Package tex holds every piece of LaTeX markup the tool emits: the document
// preamble and trailer, the per-cell macro calls, and the escaping rules for
// text taken from game headers.
package tex

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"
)

//go:embed templates/*.tex.tmpl
var templatesFS embed.FS

// Layout picks the macro set declared in the preamble.
type Layout int

const (
	// DiagramLayout declares \diagramonly and \diagramtext.
	DiagramLayout Layout = iota
	// CellLayout declares the fixed-height \cellstartonly and \cellstartsolution.
	CellLayout
)

// Page holds the page geometry substituted into the preamble.
type Page struct {
	Paper     string
	Margin    string
	ColumnSep string
}

// DefaultPage is A4 with 2cm margins and a 14pt gutter.
var DefaultPage = Page{Paper: "a4paper", Margin: "2.0cm", ColumnSep: "14pt"}

var templates = template.Must(
	template.New("tex").Delims("<<", ">>").ParseFS(templatesFS, "templates/*.tex.tmpl"),
)

func preambleName(l Layout) string {
	if l == CellLayout {
		return "preamble_cell.tex.tmpl"
	}
	return "preamble_diagram.tex.tmpl"
}

// WritePreamble writes the document head for layout, ending inside the
// two-column environment.
func WritePreamble(w io.Writer, l Layout, page Page) error {
	if page.Paper == "" {
		page.Paper = DefaultPage.Paper
	}
	if page.Margin == "" {
		page.Margin = DefaultPage.Margin
	}
	if page.ColumnSep == "" {
		page.ColumnSep = DefaultPage.ColumnSep
	}
	return templates.ExecuteTemplate(w, preambleName(l), page)
}

// WriteTrailer closes the two-column environment and the document.
func WriteTrailer(w io.Writer) error {
	return templates.ExecuteTemplate(w, "trailer.tex.tmpl", nil)
}

var escaper = strings.NewReplacer(
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
	`\`, `\textbackslash{}`,
)

// Escape neutralises every LaTeX special character in header text
// (names, event, site, date).
func Escape(s string) string {
	return escaper.Replace(s)
}

var moveEscaper = strings.NewReplacer(`%`, `\%`, `#`, `\#`, `_`, `\_`)

// EscapeMoves escapes only %, # and _. Backslashes and braces are kept so
// piece macros such as \knight{} stay live.
func EscapeMoves(s string) string {
	return moveEscaper.Replace(s)
}

// BoardOptions is the optional argument of \chessboard.
type BoardOptions struct {
	FontSize  int
	Inverse   bool
	HideMover bool
}

func (o BoardOptions) String() string {
	opts := []string{fmt.Sprintf("boardfontsize=%dpt", o.FontSize)}
	if o.Inverse {
		opts = append(opts, "inverse")
	}
	if o.HideMover {
		opts = append(opts, "showmover=false")
	}
	return strings.Join(opts, ",")
}

func cm(v float64) string {
	return fmt.Sprintf("%.2fcm", v)
}

func withTextFlag(on bool) string {
	if on {
		return "1"
	}
	return ""
}

// DiagramOnly is a bare board.
type DiagramOnly struct {
	FEN     string
	Options BoardOptions
}

func (d DiagramOnly) String() string {
	return fmt.Sprintf("\\diagramonly{%s}{%s}\n", d.FEN, d.Options)
}

// DiagramText is a board under a title and subtitle, in a cell of fixed height.
type DiagramText struct {
	Title      string
	Subtitle   string
	FEN        string
	Options    BoardOptions
	CellHeight float64
}

func (d DiagramText) String() string {
	return fmt.Sprintf("\\diagramtext{%s}{%s}{%s}{%s}{%s}\n",
		d.Title, d.Subtitle, d.FEN, d.Options, cm(d.CellHeight))
}

// CellStart is a fixed-height cell with the start position and an optional title.
type CellStart struct {
	Title      string
	Subtitle   string
	FEN        string
	Options    BoardOptions
	CellHeight float64
	WithText   bool
}

func (c CellStart) String() string {
	return fmt.Sprintf("\\cellstartonly{%s}{%s}{%s}{%s}{%s}{%s}\n",
		c.Title, c.Subtitle, c.FEN, c.Options, cm(c.CellHeight), withTextFlag(c.WithText))
}

// CellSolution is CellStart followed by the solution move list.
type CellSolution struct {
	CellStart
	Solution string
}

func (c CellSolution) String() string {
	return fmt.Sprintf("\\cellstartsolution{%s}{%s}{%s}{%s}{%s}{%s}{%s}\n",
		c.Title, c.Subtitle, c.FEN, c.Options, cm(c.CellHeight), withTextFlag(c.WithText), c.Solution)
}
