package services_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/pgn2tex/internal/config"
	"github.com/vytor/pgn2tex/internal/diagram"
	"github.com/vytor/pgn2tex/internal/errors"
	"github.com/vytor/pgn2tex/internal/logger"
	"github.com/vytor/pgn2tex/internal/notation"
	"github.com/vytor/pgn2tex/internal/services"
)

const twoGames = `[Event "Casual"]
[White "Anderssen"]
[Black "Dufresne"]
[Result "1-0"]

1. e4 e5 2. Nf3 1-0

[Event "Mate in one"]
[SetUp "1"]
[FEN "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1"]
[Result "*"]

1. Ra8# *
`

const brokenSetup = `[White "A"]
[Black "B"]
[SetUp "1"]
[FEN "not a position"]
[Result "*"]

*
`

func testOptions(t *testing.T, mutate func(*config.Config)) services.ConvertOptions {
	t.Helper()
	cfg := config.Defaults()
	if mutate != nil {
		mutate(&cfg)
	}
	opts, err := services.OptionsFromConfig(cfg)
	require.NoError(t, err)
	return opts
}

// quietContext returns a context whose logger writes into buf.
func quietContext(buf *bytes.Buffer, level logger.Level) context.Context {
	return logger.NewContext(context.Background(), logger.New(logger.WithOutput(buf), logger.WithLevel(level)))
}

func TestOptionsFromConfig(t *testing.T) {
	opts := testOptions(t, func(c *config.Config) {
		c.Mode = "start+solution"
		c.Inverse = "on"
		c.Notation = "german"
		c.RowsPerColumn = 0
		c.Debug = true
	})

	assert.Equal(t, diagram.StartSolution, opts.Render.Mode)
	assert.Equal(t, diagram.On, opts.Render.Orientation)
	assert.Equal(t, notation.Localized, opts.Render.Notation)
	assert.Equal(t, 1, opts.RowsPerColumn)
	assert.True(t, opts.Diagnostics)
	assert.Equal(t, "a4paper", opts.Page.Paper)
}

func TestOptionsFromConfig_Invalid(t *testing.T) {
	cfg := config.Defaults()
	cfg.FontSize = 0
	_, err := services.OptionsFromConfig(cfg)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUsage, errors.ExitCode(err))
}

func TestConvertPGN_TwoRecordsOneRow(t *testing.T) {
	var out, logs bytes.Buffer
	svc := services.NewConvertService()
	opts := testOptions(t, func(c *config.Config) { c.RowsPerColumn = 1 })

	sum, err := svc.ConvertPGN(quietContext(&logs, logger.INFO), strings.NewReader(twoGames), &out, opts)
	require.NoError(t, err)

	assert.Equal(t, services.Summary{Blocks: 2, Fallbacks: 0, Pages: 1}, sum)
	doc := out.String()
	assert.True(t, strings.HasPrefix(doc, "\\documentclass"))
	assert.Equal(t, 2, strings.Count(doc, "\\diagramonly{"))
	assert.Equal(t, 1, strings.Count(doc, "\\columnbreak"))
	assert.Equal(t, 1, strings.Count(doc, "\\newpage"))
	assert.Less(t, strings.Index(doc, "\\columnbreak"), strings.Index(doc, "\\newpage"))
	assert.True(t, strings.HasSuffix(doc, "\\end{multicols}\n\\end{document}\n"))

	// Final position of the first game: Black to move, so the board is flipped.
	assert.Contains(t, doc, "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2}{boardfontsize=20pt,inverse}")
	// Final position of the mate puzzle: the rook stands on a8 and Black is mated.
	assert.Contains(t, doc, "R5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 1 1}{boardfontsize=20pt,inverse}")
	assert.NotContains(t, doc, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
}

func TestConvertPGN_StartSolution(t *testing.T) {
	var out, logs bytes.Buffer
	opts := testOptions(t, func(c *config.Config) {
		c.Mode = "start+solution"
		c.Notation = "german"
		c.WithText = true
	})

	_, err := services.NewConvertService().ConvertPGN(quietContext(&logs, logger.INFO), strings.NewReader(twoGames), &out, opts)
	require.NoError(t, err)

	doc := out.String()
	assert.Equal(t, 2, strings.Count(doc, "\\cellstartsolution{"))
	assert.Contains(t, doc, "1. e4 e5 2. Sf3 1-0")
	assert.Contains(t, doc, "1. Ta8\\# *")
	assert.Contains(t, doc, "Anderssen — Dufresne (1-0)")
}

func TestConvertPGN_FallbackIsLoggedAndRendered(t *testing.T) {
	tests := []struct {
		name        string
		diagnostics bool
		level       logger.Level
		wantWarn    bool
		wantLogged  bool
	}{
		{"quiet at info", false, logger.INFO, false, false},
		{"quiet at debug", false, logger.DEBUG, false, true},
		{"diagnostics at info", true, logger.INFO, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, logs bytes.Buffer
			opts := testOptions(t, func(c *config.Config) { c.Debug = tt.diagnostics })

			sum, err := services.NewConvertService().ConvertPGN(quietContext(&logs, tt.level), strings.NewReader(brokenSetup), &out, opts)
			require.NoError(t, err)

			assert.Equal(t, 1, sum.Blocks)
			assert.Equal(t, 1, sum.Fallbacks)
			assert.Contains(t, out.String(), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
			assert.Equal(t, tt.wantWarn, strings.Contains(logs.String(), "WARN"))
			assert.Equal(t, tt.wantLogged, strings.Contains(logs.String(), "invalid SetUp FEN"))
		})
	}
}

func TestConvertPGN_StrictRejectsFallback(t *testing.T) {
	var out, logs bytes.Buffer
	opts := testOptions(t, func(c *config.Config) { c.Strict = true })

	_, err := services.NewConvertService().ConvertPGN(quietContext(&logs, logger.INFO), strings.NewReader(brokenSetup), &out, opts)
	require.Error(t, err)
	assert.Equal(t, errors.ExitRecord, errors.ExitCode(err))
}

func TestConvertPGN_DiagnosticsLine(t *testing.T) {
	tests := []struct {
		name        string
		diagnostics bool
		level       logger.Level
		want        bool
	}{
		{"diagnostics at info", true, logger.INFO, true},
		{"quiet at info", false, logger.INFO, false},
		{"quiet at debug", false, logger.DEBUG, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, logs bytes.Buffer
			opts := testOptions(t, func(c *config.Config) { c.Debug = tt.diagnostics })

			_, err := services.NewConvertService().ConvertPGN(quietContext(&logs, tt.level), strings.NewReader(twoGames), &out, opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.Contains(logs.String(), "[1] FEN: "))
		})
	}
}

func TestConvertPGN_DiagnosticsLineDefaults(t *testing.T) {
	var out, logs bytes.Buffer
	opts := testOptions(t, func(c *config.Config) { c.Debug = true })

	_, err := services.NewConvertService().ConvertPGN(quietContext(&logs, logger.INFO), strings.NewReader("1. d4 *\n"), &out, opts)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "? — ? (*)")
}

func TestConvertPGN_ReadFailure(t *testing.T) {
	var out, logs bytes.Buffer
	in := io.MultiReader(strings.NewReader(twoGames), iotest.ErrReader(stderrors.New("device gone")))

	sum, err := services.NewConvertService().ConvertPGN(quietContext(&logs, logger.INFO), in, &out, testOptions(t, nil))
	require.Error(t, err)
	assert.Equal(t, errors.ExitIO, errors.ExitCode(err))
	assert.Contains(t, err.Error(), "device gone")
	assert.LessOrEqual(t, sum.Blocks, 2)
}

func TestConvertPGN_EmptyInput(t *testing.T) {
	var out, logs bytes.Buffer
	sum, err := services.NewConvertService().ConvertPGN(quietContext(&logs, logger.INFO), strings.NewReader(""), &out, testOptions(t, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Blocks)
	assert.True(t, strings.HasSuffix(out.String(), "\\end{document}\n"))
}

func TestConvertPGN_UnknownEncoding(t *testing.T) {
	var out, logs bytes.Buffer
	opts := testOptions(t, nil)
	opts.Encoding = "ebcdic"

	_, err := services.NewConvertService().ConvertPGN(quietContext(&logs, logger.INFO), strings.NewReader(twoGames), &out, opts)
	require.Error(t, err)
	assert.Equal(t, errors.ExitUsage, errors.ExitCode(err))
	assert.Empty(t, out.String())
}

func TestConvertFEN(t *testing.T) {
	var out, logs bytes.Buffer
	opts := testOptions(t, func(c *config.Config) { c.WithText = true })

	sum, err := services.NewConvertService().ConvertFEN(quietContext(&logs, logger.INFO), "4k3/8/8/8/8/8/8/4K3 b - - 0 1", &out, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Blocks)
	doc := out.String()
	assert.Contains(t, doc, "\\diagramtext{FEN-Position (*)}")
	assert.Contains(t, doc, "4k3/8/8/8/8/8/8/4K3 b - - 0 1")
	assert.Contains(t, doc, "inverse")
}

func TestConvertFEN_Invalid(t *testing.T) {
	var out, logs bytes.Buffer
	_, err := services.NewConvertService().ConvertFEN(quietContext(&logs, logger.INFO), "banana", &out, testOptions(t, nil))
	require.Error(t, err)
	assert.Equal(t, errors.ExitInvalidFEN, errors.ExitCode(err))
	assert.Empty(t, out.String())
}
