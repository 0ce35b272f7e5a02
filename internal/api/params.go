package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/vytor/pgn2tex/internal/config"
	"github.com/vytor/pgn2tex/internal/errors"
)

// applyQuery overlays the request's query parameters onto cfg. Parameter
// names match the command-line flags.
func applyQuery(cfg *config.Config, q url.Values) error {
	str := func(key string, dst *string) {
		if v := q.Get(key); v != "" {
			*dst = v
		}
	}
	str("mode", &cfg.Mode)
	str("inverse", &cfg.Inverse)
	str("notation", &cfg.Notation)
	str("encoding", &cfg.Encoding)

	ints := []struct {
		keys []string
		dst  *int
	}{
		{[]string{"fontsize"}, &cfg.FontSize},
		{[]string{"rows-per-page", "rows-per-column"}, &cfg.RowsPerColumn},
	}
	for _, p := range ints {
		for _, key := range p.keys {
			v := q.Get(key)
			if v == "" {
				continue
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.NewBadRequestError(fmt.Sprintf("%s must be an integer, got %q", key, v))
			}
			*p.dst = n
		}
	}

	if v := q.Get("cellheight"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.NewBadRequestError(fmt.Sprintf("cellheight must be a number, got %q", v))
		}
		cfg.CellHeight = f
	}

	bools := map[string]*bool{
		"with-text":  &cfg.WithText,
		"hide-mover": &cfg.HideMover,
		"opening":    &cfg.Opening,
		"strict":     &cfg.Strict,
	}
	for key, dst := range bools {
		if !q.Has(key) {
			continue
		}
		v := q.Get(key)
		if v == "" {
			*dst = true
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.NewBadRequestError(fmt.Sprintf("%s must be a boolean, got %q", key, v))
		}
		*dst = b
	}
	return nil
}
