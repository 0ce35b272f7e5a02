// Package document assembles the output file: the preamble, the cells in
// arrival order with their break markers, and the trailer.
package document

import (
	"bufio"
	"fmt"
	"io"

	"github.com/vytor/pgn2tex/internal/diagram"
	"github.com/vytor/pgn2tex/internal/layout"
	"github.com/vytor/pgn2tex/internal/tex"
)

// Writer streams a document. It never reorders or holds back blocks.
type Writer struct {
	w       *bufio.Writer
	layout  tex.Layout
	page    tex.Page
	planner layout.Planner
	count   int
	begun   bool
	ended   bool
}

// NewWriter returns a Writer for the given preamble layout and grid.
func NewWriter(w io.Writer, l tex.Layout, page tex.Page, planner layout.Planner) *Writer {
	return &Writer{
		w:       bufio.NewWriter(w),
		layout:  l,
		page:    page,
		planner: planner,
	}
}

// Begin writes the preamble.
func (d *Writer) Begin() error {
	if d.begun {
		return fmt.Errorf("document already started")
	}
	d.begun = true
	return tex.WritePreamble(d.w, d.layout, d.page)
}

// Add writes a block, then the break the planner puts after it.
func (d *Writer) Add(b diagram.Block) (layout.Break, error) {
	if !d.begun || d.ended {
		return layout.NoBreak, fmt.Errorf("block %d written outside the document body", b.Index)
	}
	if _, err := io.WriteString(d.w, b.Text); err != nil {
		return layout.NoBreak, err
	}
	d.count++

	br := d.planner.After(d.count)
	if br != layout.NoBreak {
		if _, err := io.WriteString(d.w, br.Marker()+"\n"); err != nil {
			return br, err
		}
	}
	return br, nil
}

// End writes the trailer and flushes.
func (d *Writer) End() error {
	if !d.begun {
		return fmt.Errorf("document not started")
	}
	if d.ended {
		return nil
	}
	d.ended = true
	if err := tex.WriteTrailer(d.w); err != nil {
		return err
	}
	return d.w.Flush()
}

// Count returns the number of blocks written so far.
func (d *Writer) Count() int {
	return d.count
}
