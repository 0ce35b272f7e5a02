package pgn

import "github.com/corentings/chess/v2"

// headerTags collects the [Key "Value"] pairs of a tokenized record.
func headerTags(tokens []chess.Token) map[string]string {
	out := map[string]string{}
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].Type == chess.TagKey && tokens[i+1].Type == chess.TagValue {
			out[tokens[i].Value] = tokens[i+1].Value
		}
	}
	return out
}

// withoutTag drops the tag pair named key, from its TagStart through its TagEnd.
func withoutTag(tokens []chess.Token, key string) []chess.Token {
	out := make([]chess.Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if tokens[i].Type == chess.TagStart && i+1 < len(tokens) &&
			tokens[i+1].Type == chess.TagKey && tokens[i+1].Value == key {
			for i < len(tokens) && tokens[i].Type != chess.TagEnd {
				i++
			}
			continue
		}
		out = append(out, tokens[i])
	}
	return out
}

// headerTokens returns the leading run of tag pairs, without any movetext.
func headerTokens(tokens []chess.Token) []chess.Token {
	i := 0
	for i < len(tokens) && tokens[i].Type == chess.TagStart {
		for i < len(tokens) && tokens[i].Type != chess.TagEnd {
			i++
		}
		i++
	}
	if i > len(tokens) {
		i = len(tokens)
	}
	return tokens[:i]
}

// moveStarts returns the indexes of the tokens that begin a main-line move.
// Moves inside variations are skipped.
func moveStarts(tokens []chess.Token) []int {
	var out []int
	depth := 0
	for i, tok := range tokens {
		switch tok.Type {
		case chess.VariationStart:
			depth++
		case chess.VariationEnd:
			if depth > 0 {
				depth--
			}
		case chess.PIECE, chess.SQUARE, chess.FILE, chess.KingsideCastle, chess.QueensideCastle:
			if depth == 0 && (i == 0 || !continuesMove(tokens[i-1].Type)) {
				out = append(out, i)
			}
		}
	}
	return out
}

// continuesMove reports whether a token of type prev is followed by more
// tokens of the same move.
func continuesMove(prev chess.TokenType) bool {
	switch prev {
	case chess.PIECE, chess.FILE, chess.RANK, chess.DeambiguationSquare, chess.CAPTURE, chess.PROMOTION:
		return true
	}
	return false
}
