package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/vytor/pgn2tex/internal/config"
	"github.com/vytor/pgn2tex/internal/diagram"
	"github.com/vytor/pgn2tex/internal/errors"
	"github.com/vytor/pgn2tex/internal/logger"
	"github.com/vytor/pgn2tex/internal/rules"
	"github.com/vytor/pgn2tex/internal/services"
)

// fenOutput is the output file used when a position is given without an input file.
const fenOutput = "position_output.tex"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// flagFields copies a flag's value from src to dst. Only flags set on the
// command line are copied, so they win over a render profile.
var flagFields = map[string]func(dst, src *config.Config){
	"output":          func(d, s *config.Config) { d.Output = s.Output },
	"fen":             func(d, s *config.Config) { d.FEN = s.FEN },
	"mode":            func(d, s *config.Config) { d.Mode = s.Mode },
	"fontsize":        func(d, s *config.Config) { d.FontSize = s.FontSize },
	"rows-per-page":   func(d, s *config.Config) { d.RowsPerColumn = s.RowsPerColumn },
	"rows-per-column": func(d, s *config.Config) { d.RowsPerColumn = s.RowsPerColumn },
	"inverse":         func(d, s *config.Config) { d.Inverse = s.Inverse },
	"with-text":       func(d, s *config.Config) { d.WithText = s.WithText },
	"cellheight":      func(d, s *config.Config) { d.CellHeight = s.CellHeight },
	"hide-mover":      func(d, s *config.Config) { d.HideMover = s.HideMover },
	"notation":        func(d, s *config.Config) { d.Notation = s.Notation },
	"encoding":        func(d, s *config.Config) { d.Encoding = s.Encoding },
	"opening":         func(d, s *config.Config) { d.Opening = s.Opening },
	"strict":          func(d, s *config.Config) { d.Strict = s.Strict },
	"debug":           func(d, s *config.Config) { d.Debug = s.Debug },
	"log-level":       func(d, s *config.Config) { d.LogLevel = s.LogLevel },
}

func newFlagSet(cfg *config.Config, profile *string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("pgn2tex", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: pgn2tex [flags] [input.pgn]")
		fs.PrintDefaults()
	}

	fs.StringVarP(&cfg.Output, "output", "o", cfg.Output, "output .tex file (derived from the input name when empty)")
	fs.StringVar(&cfg.FEN, "fen", cfg.FEN, "render a single position instead of a PGN file")
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "diagram mode: final|start|start+solution")
	fs.IntVar(&cfg.FontSize, "fontsize", cfg.FontSize, "board font size in points")
	fs.IntVar(&cfg.RowsPerColumn, "rows-per-page", cfg.RowsPerColumn, "diagrams per column")
	fs.IntVar(&cfg.RowsPerColumn, "rows-per-column", cfg.RowsPerColumn, "alias for --rows-per-page")
	fs.StringVar(&cfg.Inverse, "inverse", cfg.Inverse, "board orientation: auto|on|off")
	fs.BoolVar(&cfg.WithText, "with-text", cfg.WithText, "print players, result and event above each diagram")
	fs.Float64Var(&cfg.CellHeight, "cellheight", cfg.CellHeight, "cell height in cm")
	fs.BoolVar(&cfg.HideMover, "hide-mover", cfg.HideMover, "hide the side-to-move marker")
	fs.StringVar(&cfg.Notation, "notation", cfg.Notation, "solution notation: english|german|symbols")
	fs.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "input encoding: utf-8|latin1|windows-1252")
	fs.BoolVar(&cfg.Opening, "opening", cfg.Opening, "add the ECO opening name to the subtitle")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "fail on records that need a fallback position")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "log one line per processed record")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "DEBUG|INFO|WARN|ERROR")
	fs.StringVar(profile, "config", "", "YAML render profile")
	return fs
}

// resolveConfig applies flags over the render profile over the environment.
func resolveConfig(args []string, stderr io.Writer) (config.Config, error) {
	env := config.Load()
	fromFlags := env
	var profile string

	fs := newFlagSet(&fromFlags, &profile, stderr)
	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			return config.Config{}, err
		}
		return config.Config{}, errors.NewUsageError(err.Error())
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		fromFlags.Input = rest[0]
	default:
		return config.Config{}, errors.NewUsageError(fmt.Sprintf("expected at most one input file, got %d", len(rest)))
	}

	if profile == "" {
		return fromFlags, nil
	}

	cfg := env
	if err := config.LoadFile(profile, &cfg); err != nil {
		return config.Config{}, errors.NewUsageError(err.Error())
	}
	cfg.Input = fromFlags.Input
	fs.Visit(func(f *pflag.Flag) {
		if copyField, ok := flagFields[f.Name]; ok {
			copyField(&cfg, &fromFlags)
		}
	})
	return cfg, nil
}

// defaultOutput derives the output path from the input name and the mode.
func defaultOutput(cfg config.Config, mode diagram.Mode) string {
	if cfg.Input == "" {
		return fenOutput
	}
	base := strings.TrimSuffix(cfg.Input, filepath.Ext(cfg.Input))
	switch mode {
	case diagram.Start:
		return base + "_start.tex"
	case diagram.StartSolution:
		return base + "_start_solution.tex"
	default:
		return filepath.Base(base) + ".tex"
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	log := logger.New(logger.WithOutput(stderr), logger.WithCaller(false))

	cfg, err := resolveConfig(args, stderr)
	if stderrors.Is(err, pflag.ErrHelp) {
		return errors.ExitOK
	}
	if err != nil {
		log.Error("%v", err)
		return errors.ExitCode(err)
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if cfg.Debug {
		level = logger.DEBUG
	}
	log = logger.New(logger.WithOutput(stderr), logger.WithLevel(level), logger.WithCaller(false))
	logger.SetDefault(log)
	ctx := logger.NewContext(context.Background(), log)

	path, err := convert(ctx, cfg, services.NewConvertService())
	if err != nil {
		log.Error("%v", err)
		return errors.ExitCode(err)
	}
	fmt.Fprintf(stdout, "written: %s\n", path)
	return errors.ExitOK
}

// convert runs one conversion and returns the path it wrote.
func convert(ctx context.Context, cfg config.Config, svc services.ConvertService) (string, error) {
	opts, err := services.OptionsFromConfig(cfg)
	if err != nil {
		return "", err
	}

	switch {
	case cfg.Input == "" && cfg.FEN == "":
		return "", errors.NewUsageError("either an input PGN file or --fen is required")
	case cfg.Input != "" && cfg.FEN != "":
		return "", errors.NewUsageError("an input PGN file and --fen are mutually exclusive")
	}

	// Both sources are checked before the output file is created.
	if cfg.FEN != "" {
		if _, err := rules.ParseFEN(cfg.FEN); err != nil {
			return "", errors.NewInvalidFENError(cfg.FEN, err)
		}
	}
	var in *os.File
	if cfg.Input != "" {
		in, err = os.Open(cfg.Input)
		if err != nil {
			return "", errors.NewInputNotFoundError(cfg.Input, err)
		}
		defer in.Close()
	}

	path := cfg.Output
	if path == "" {
		path = defaultOutput(cfg, opts.Render.Mode)
	}

	out, err := os.Create(path)
	if err != nil {
		return "", errors.NewIOError("create "+path, err)
	}
	defer out.Close()

	if in != nil {
		_, err = svc.ConvertPGN(ctx, in, out, opts)
	} else {
		_, err = svc.ConvertFEN(ctx, cfg.FEN, out, opts)
	}
	if err != nil {
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", errors.NewIOError("close "+path, err)
	}
	return path, nil
}
