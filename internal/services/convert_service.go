package services

import (
	"context"
	stderrors "errors"
	"io"

	"github.com/vytor/pgn2tex/internal/diagram"
	"github.com/vytor/pgn2tex/internal/document"
	"github.com/vytor/pgn2tex/internal/errors"
	"github.com/vytor/pgn2tex/internal/layout"
	"github.com/vytor/pgn2tex/internal/logger"
	"github.com/vytor/pgn2tex/internal/pgn"
	"github.com/vytor/pgn2tex/internal/rules"
)

// Summary describes a finished conversion.
type Summary struct {
	Blocks    int // diagrams written
	Fallbacks int // records drawn from a substitute position
	Pages     int // pages the grid occupies
}

// ConvertService turns game records or a single position into a TeX document.
type ConvertService interface {
	ConvertPGN(ctx context.Context, r io.Reader, w io.Writer, opts ConvertOptions) (Summary, error)
	ConvertFEN(ctx context.Context, fen string, w io.Writer, opts ConvertOptions) (Summary, error)
}

type convertService struct{}

// NewConvertService creates a new ConvertService
func NewConvertService() ConvertService {
	return &convertService{}
}

func newDocument(w io.Writer, opts ConvertOptions) (*document.Writer, layout.Planner) {
	planner := layout.NewPlanner(opts.RowsPerColumn)
	return document.NewWriter(w, opts.Render.Mode.Layout(), opts.Page, planner), planner
}

func summarize(doc *document.Writer, planner layout.Planner, fallbacks int) Summary {
	per := planner.PerPage()
	return Summary{
		Blocks:    doc.Count(),
		Fallbacks: fallbacks,
		Pages:     (doc.Count() + per - 1) / per,
	}
}

func (s *convertService) ConvertPGN(ctx context.Context, r io.Reader, w io.Writer, opts ConvertOptions) (Summary, error) {
	log := logger.FromContext(ctx).WithPrefix("convert")
	log.Debug("converting game records: mode=%s rows=%d", opts.Render.Mode, opts.RowsPerColumn)

	decoded, err := pgn.NewDecodingReader(r, opts.Encoding)
	if err != nil {
		return Summary{}, errors.NewValidationError("encoding", err.Error())
	}

	var readerOpts []pgn.Option
	if opts.Strict {
		readerOpts = append(readerOpts, pgn.WithStrictSetup())
	}
	if opts.Openings {
		readerOpts = append(readerOpts, pgn.WithOpenings())
	}
	records := pgn.NewReader(decoded, readerOpts...)
	renderer := diagram.NewRenderer(opts.Render)
	doc, planner := newDocument(w, opts)

	if err := doc.Begin(); err != nil {
		return Summary{}, errors.NewIOError("write output", err)
	}

	fallbacks := 0
	for {
		if err := ctx.Err(); err != nil {
			return summarize(doc, planner, fallbacks), err
		}

		rec, err := records.Next()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if rec != nil {
				log.Error("game %d rejected: %v", rec.Index, err)
				return summarize(doc, planner, fallbacks), errors.NewRecordError(rec.Index, err)
			}
			return summarize(doc, planner, fallbacks), errors.NewIOError("read game records", err)
		}

		recLog := log.WithField("game", rec.Index)
		if rec.Fallback != nil {
			fallbacks++
			if opts.Diagnostics || opts.Strict {
				recLog.Warn("%v", rec.Fallback)
			} else {
				recLog.Debug("%v", rec.Fallback)
			}
		}
		logRecord(recLog, opts.Diagnostics, renderer.Position(rec.Line), rec)

		br, err := doc.Add(renderer.Render(rec))
		if err != nil {
			return summarize(doc, planner, fallbacks), errors.NewIOError("write output", err)
		}
		if br != layout.NoBreak {
			recLog.Debug("%s break after diagram %d", br, doc.Count())
		}
	}

	if err := doc.End(); err != nil {
		return summarize(doc, planner, fallbacks), errors.NewIOError("write output", err)
	}

	sum := summarize(doc, planner, fallbacks)
	log.Info("wrote %d diagrams on %d pages (%d fallbacks)", sum.Blocks, sum.Pages, sum.Fallbacks)
	return sum, nil
}

func (s *convertService) ConvertFEN(ctx context.Context, fen string, w io.Writer, opts ConvertOptions) (Summary, error) {
	log := logger.FromContext(ctx).WithPrefix("convert")

	pos, err := rules.ParseFEN(fen)
	if err != nil {
		return Summary{}, errors.NewInvalidFENError(fen, err)
	}
	if opts.Diagnostics {
		log.Info("[1] FEN: %s", pos.FEN())
	}

	doc, planner := newDocument(w, opts)
	if err := doc.Begin(); err != nil {
		return Summary{}, errors.NewIOError("write output", err)
	}
	if _, err := doc.Add(diagram.NewRenderer(opts.Render).RenderFEN(pos)); err != nil {
		return summarize(doc, planner, 0), errors.NewIOError("write output", err)
	}
	if err := doc.End(); err != nil {
		return summarize(doc, planner, 0), errors.NewIOError("write output", err)
	}
	return summarize(doc, planner, 0), nil
}

// logRecord writes the per-record diagnostic line. It is logged at INFO when
// diagnostics are on, otherwise at DEBUG. Missing players show as "?".
func logRecord(log *logger.Logger, diagnostics bool, pos rules.Position, rec *pgn.Record) {
	line := "[%d] FEN: %s  %s — %s (%s)"
	args := []any{rec.Index, pos.FEN(), rec.Tag("White", "?"), rec.Tag("Black", "?"), rec.Tag("Result", "*")}
	if diagnostics {
		log.Info(line, args...)
		return
	}
	log.Debug(line, args...)
}
