// Package pgn reads game records one at a time and derives the position each
// record describes.
package pgn

import (
	"errors"
	"fmt"
	"io"

	"github.com/corentings/chess/v2"
	"github.com/vytor/pgn2tex/internal/rules"
)

var (
	// ErrInvalidSetup marks a record whose SetUp FEN could not be parsed.
	ErrInvalidSetup = errors.New("invalid SetUp FEN, using standard start position")
	// ErrUnplayableMoves marks a record whose movetext could not be replayed.
	ErrUnplayableMoves = errors.New("movetext cannot be replayed past an illegal move, keeping the moves before it")
)

// Record is one game record with its replayed main line.
type Record struct {
	Index int // 1-based position in the input
	Tags  map[string]string
	Line  rules.Line

	// Fallback is non-nil when the record was read with a substitute start
	// position or with its moves cut short.
	Fallback error

	ECO     string
	Opening string
}

// Tag returns the header value for key, or def when the tag is absent or empty.
func (r *Record) Tag(key, def string) string {
	if v, ok := r.Tags[key]; ok && v != "" {
		return v
	}
	return def
}

// Reader yields records from a PGN stream in input order.
type Reader struct {
	scanner  *chess.Scanner
	strict   bool
	openings bool
	index    int
}

// Option configures a Reader.
type Option func(*Reader)

// WithStrictSetup makes Next return an error for any record that would
// otherwise be read with a fallback.
func WithStrictSetup() Option {
	return func(r *Reader) {
		r.strict = true
	}
}

// WithOpenings looks up the ECO opening of every record.
func WithOpenings() Option {
	return func(r *Reader) {
		r.openings = true
	}
}

// NewReader returns a Reader over UTF-8 PGN text.
func NewReader(r io.Reader, opts ...Option) *Reader {
	rd := &Reader{scanner: chess.NewScanner(r)}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// Next returns the next record, or io.EOF once the stream is exhausted.
// In strict mode a record with a fallback is returned together with an error
// wrapping the fallback cause.
func (rd *Reader) Next() (*Record, error) {
	scanned, err := rd.scanner.ScanGame()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("scan game %d: %w", rd.index+1, err)
	}
	rd.index++

	tokens, err := chess.TokenizeGame(scanned)
	if err != nil {
		return nil, fmt.Errorf("tokenize game %d: %w", rd.index, err)
	}

	rec := &Record{Index: rd.index, Tags: headerTags(tokens)}

	tokens, rec.Fallback = applySetup(tokens, rec.Tags)

	game, err := chess.NewParser(tokens).Parse()
	if err != nil {
		rec.Fallback = errors.Join(rec.Fallback, fmt.Errorf("%w: %v", ErrUnplayableMoves, err))
		game = playablePrefix(tokens, err)
	}
	rec.Line = rules.Replay(game)

	if rd.openings {
		if code, title, ok := rules.Opening(game); ok {
			rec.ECO, rec.Opening = code, title
		}
	}

	if rd.strict && rec.Fallback != nil {
		return rec, fmt.Errorf("game %d: %w", rec.Index, rec.Fallback)
	}
	return rec, nil
}

// applySetup decides whether the FEN tag stays in the token stream. The
// engine applies any FEN tag it sees, so a tag that must not be honoured is
// removed before parsing.
func applySetup(tokens []chess.Token, tags map[string]string) ([]chess.Token, error) {
	fen, ok := tags["FEN"]
	if !ok {
		return tokens, nil
	}
	if tags["SetUp"] != "1" {
		return withoutTag(tokens, "FEN"), nil
	}
	if _, err := rules.ParseFEN(fen); err != nil {
		return withoutTag(tokens, "FEN"), fmt.Errorf("%w: %q: %v", ErrInvalidSetup, fen, err)
	}
	return tokens, nil
}

// playablePrefix reparses the record cut before the move that failed, so the
// moves played up to it are kept. cause is the error of the full parse.
func playablePrefix(tokens []chess.Token, cause error) *chess.Game {
	limit := len(tokens)
	var perr *chess.ParserError
	if errors.As(cause, &perr) && perr.Position < limit {
		limit = perr.Position
	}

	starts := moveStarts(tokens)
	for i := len(starts) - 1; i >= 0; i-- {
		if starts[i] > limit {
			continue
		}
		if game, err := chess.NewParser(tokens[:starts[i]]).Parse(); err == nil {
			return game
		}
	}
	if game, err := chess.NewParser(headerTokens(tokens)).Parse(); err == nil {
		return game
	}
	return chess.NewGame()
}
