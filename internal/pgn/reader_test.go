package pgn_test

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/pgn2tex/internal/pgn"
	"github.com/vytor/pgn2tex/internal/rules"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

const twoGames = `[Event "Casual"]
[Site "Berlin"]
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

func readAll(t *testing.T, rd *pgn.Reader) []*pgn.Record {
	t.Helper()
	var out []*pgn.Record
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		out = append(out, rec)
	}
}

func TestReader_ReadsRecordsInOrder(t *testing.T) {
	recs := readAll(t, pgn.NewReader(strings.NewReader(twoGames)))
	require.Len(t, recs, 2)

	first := recs[0]
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, "Anderssen", first.Tag("White", "White"))
	assert.Equal(t, "Berlin", first.Tags["Site"])
	assert.NoError(t, first.Fallback)
	assert.Equal(t, startFEN, first.Line.Start.FEN())
	assert.Len(t, first.Line.Moves, 3)
	assert.Equal(t, rules.Black, first.Line.Final.Turn())

	second := recs[1]
	assert.Equal(t, 2, second.Index)
	assert.NoError(t, second.Fallback)
	assert.True(t, strings.HasPrefix(second.Line.Start.FEN(), "6k1/5ppp/8/8/8/8/5PPP/R5K1 w"))
	require.Len(t, second.Line.Moves, 1)
	assert.Equal(t, "Ra8#", second.Line.Moves[0].SAN)
	assert.True(t, second.Line.Final.BlackToMove())
}

func TestReader_EOFIsSticky(t *testing.T) {
	rd := pgn.NewReader(strings.NewReader(""))
	_, err := rd.Next()
	assert.Equal(t, io.EOF, err)
	_, err = rd.Next()
	assert.Equal(t, io.EOF, err)
}

const badSetup = `[Event "Broken"]
[SetUp "1"]
[FEN "this is not a fen"]
[Result "*"]

1. d4 *

[Event "Fine"]
[Result "*"]

1. c4 *
`

func TestReader_InvalidSetupFallsBackToStart(t *testing.T) {
	recs := readAll(t, pgn.NewReader(strings.NewReader(badSetup)))
	require.Len(t, recs, 2, "a bad embedded FEN must not stop the stream")

	broken := recs[0]
	require.Error(t, broken.Fallback)
	assert.ErrorIs(t, broken.Fallback, pgn.ErrInvalidSetup)
	assert.Equal(t, startFEN, broken.Line.Start.FEN())
	require.Len(t, broken.Line.Moves, 1)
	assert.Equal(t, "d4", broken.Line.Moves[0].SAN)
	assert.Equal(t, "this is not a fen", broken.Tags["FEN"], "tags keep the original header")

	assert.NoError(t, recs[1].Fallback)
	assert.Equal(t, "c4", recs[1].Line.Moves[0].SAN)
}

func TestReader_StrictSetupReportsError(t *testing.T) {
	rd := pgn.NewReader(strings.NewReader(badSetup), pgn.WithStrictSetup())

	rec, err := rd.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, pgn.ErrInvalidSetup)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.Index)

	rec, err = rd.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, rec.Index)
}

func TestReader_FENWithoutSetUpIsIgnored(t *testing.T) {
	input := `[Event "No setup flag"]
[FEN "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1"]
[Result "*"]

1. e4 *
`
	recs := readAll(t, pgn.NewReader(strings.NewReader(input)))
	require.Len(t, recs, 1)
	assert.NoError(t, recs[0].Fallback)
	assert.Equal(t, startFEN, recs[0].Line.Start.FEN())
}

func TestReader_UnplayableMovesKeepStartPosition(t *testing.T) {
	input := `[Event "Illegal"]
[Result "*"]

1. e5 *
`
	recs := readAll(t, pgn.NewReader(strings.NewReader(input)))
	require.Len(t, recs, 1)
	assert.ErrorIs(t, recs[0].Fallback, pgn.ErrUnplayableMoves)
	assert.Empty(t, recs[0].Line.Moves)
	assert.Equal(t, startFEN, recs[0].Line.Final.FEN())
	assert.Equal(t, "Illegal", recs[0].Tags["Event"])
}

func TestReader_UnplayableMovesKeepPlayedPrefix(t *testing.T) {
	tests := []struct {
		name  string
		moves string
		want  []string
		final string
	}{
		{
			name:  "illegal king move",
			moves: "1. e4 e5 2. Nf3 Nc6 3. Ke5 *",
			want:  []string{"e4", "e5", "Nf3", "Nc6"},
			final: "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		},
		{
			name:  "illegal black reply",
			moves: "1. d4 d4 *",
			want:  []string{"d4"},
			final: "rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 1",
		},
		{
			name:  "castling through pieces",
			moves: "1. e4 e5 2. O-O *",
			want:  []string{"e4", "e5"},
			final: "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "[Event \"Cut short\"]\n[Result \"*\"]\n\n" + tt.moves + "\n"
			recs := readAll(t, pgn.NewReader(strings.NewReader(input)))
			require.Len(t, recs, 1)

			rec := recs[0]
			assert.ErrorIs(t, rec.Fallback, pgn.ErrUnplayableMoves)
			var got []string
			for _, mv := range rec.Line.Moves {
				got = append(got, mv.SAN)
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, startFEN, rec.Line.Start.FEN())
			assert.Equal(t, tt.final, rec.Line.Final.FEN())
		})
	}
}

func TestReader_StrictReportsUnplayableMoves(t *testing.T) {
	input := "[Result \"*\"]\n\n1. e4 e5 2. Ke5 *\n"
	rec, err := pgn.NewReader(strings.NewReader(input), pgn.WithStrictSetup()).Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, pgn.ErrUnplayableMoves)
	require.NotNil(t, rec)
	assert.Len(t, rec.Line.Moves, 2)
}

func TestReader_ReadErrorIsReported(t *testing.T) {
	in := io.MultiReader(strings.NewReader(twoGames), iotest.ErrReader(errors.New("device gone")))
	rd := pgn.NewReader(in)

	var err error
	for i := 0; i < 4 && err == nil; i++ {
		_, err = rd.Next()
	}
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
	assert.Contains(t, err.Error(), "device gone")
}

func TestReader_OversizedGameIsReported(t *testing.T) {
	input := "[Event \"Annotated\"]\n[Result \"*\"]\n\n1. e4 {" + strings.Repeat("long note ", 7*1024) + "} e5 *\n"

	_, err := pgn.NewReader(strings.NewReader(input)).Next()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
}

func TestReader_Openings(t *testing.T) {
	input := `[Event "Open"]
[Result "*"]

1. e4 c5 *
`
	recs := readAll(t, pgn.NewReader(strings.NewReader(input), pgn.WithOpenings()))
	require.Len(t, recs, 1)
	assert.NotEmpty(t, recs[0].ECO)
	assert.Contains(t, recs[0].Opening, "Sicilian")
}

func TestRecord_TagDefaults(t *testing.T) {
	rec := &pgn.Record{Tags: map[string]string{"White": "Tal", "Black": ""}}
	assert.Equal(t, "Tal", rec.Tag("White", "White"))
	assert.Equal(t, "Black", rec.Tag("Black", "Black"))
	assert.Equal(t, "*", rec.Tag("Result", "*"))
}

func TestNewDecodingReader_Latin1(t *testing.T) {
	raw := []byte("[Event \"Turnier\"]\n[White \"M\xfcller\"]\n[Result \"*\"]\n\n1. e4 *\n")
	dec, err := pgn.NewDecodingReader(bytes.NewReader(raw), "latin1")
	require.NoError(t, err)

	recs := readAll(t, pgn.NewReader(dec))
	require.Len(t, recs, 1)
	assert.Equal(t, "Müller", recs[0].Tags["White"])
}

func TestNewDecodingReader_UTF8(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bom and invalid byte", "\xef\xbb\xbf[Event \"Z\xc3\xbcrich\"]\xff", "[Event \"Zürich\"]\ufffd"},
		{"invalid byte without bom", "[Event \"Z\xfcrich\"]", "[Event \"Z\ufffdrich\"]"},
		{"plain", "[Event \"Zürich\"]", "[Event \"Zürich\"]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := pgn.NewDecodingReader(strings.NewReader(tt.raw), "")
			require.NoError(t, err)

			out, err := io.ReadAll(dec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}

func TestNewDecodingReader_Unknown(t *testing.T) {
	_, err := pgn.NewDecodingReader(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}
