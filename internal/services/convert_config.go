package services

import (
	"github.com/vytor/pgn2tex/internal/config"
	"github.com/vytor/pgn2tex/internal/diagram"
	"github.com/vytor/pgn2tex/internal/errors"
	"github.com/vytor/pgn2tex/internal/notation"
	"github.com/vytor/pgn2tex/internal/tex"
)

// ConvertOptions holds everything a conversion run needs. It is fixed for the run.
type ConvertOptions struct {
	Render        diagram.Options
	RowsPerColumn int
	Page          tex.Page
	Encoding      string
	Strict        bool
	Openings      bool
	Diagnostics   bool
}

// OptionsFromConfig validates cfg and turns it into typed options.
func OptionsFromConfig(cfg config.Config) (ConvertOptions, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return ConvertOptions{}, errors.NewValidationError("configuration", err.Error())
	}

	mode, err := diagram.ParseMode(cfg.Mode)
	if err != nil {
		return ConvertOptions{}, errors.NewValidationError("mode", err.Error())
	}
	orientation, err := diagram.ParseOrientation(cfg.Inverse)
	if err != nil {
		return ConvertOptions{}, errors.NewValidationError("inverse", err.Error())
	}
	style, err := notation.ParseStyle(cfg.Notation)
	if err != nil {
		return ConvertOptions{}, errors.NewValidationError("notation", err.Error())
	}

	return ConvertOptions{
		Render: diagram.Options{
			Mode:        mode,
			FontSize:    cfg.FontSize,
			Orientation: orientation,
			HideMover:   cfg.HideMover,
			WithText:    cfg.WithText,
			CellHeight:  cfg.CellHeight,
			Notation:    style,
			ShowOpening: cfg.Opening,
		},
		RowsPerColumn: cfg.RowsPerColumn,
		Page:          tex.Page{Paper: cfg.Paper, Margin: cfg.Margin, ColumnSep: cfg.ColumnSep},
		Encoding:      cfg.Encoding,
		Strict:        cfg.Strict,
		Openings:      cfg.Opening,
		Diagnostics:   cfg.Debug,
	}, nil
}
