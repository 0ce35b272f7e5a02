package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/vytor/pgn2tex/internal/errors"
	"github.com/vytor/pgn2tex/internal/services"
)

const texContentType = "application/x-tex; charset=utf-8"

type convertFunc func(ctx context.Context, body io.Reader, w io.Writer, opts services.ConvertOptions) (services.Summary, error)

// handleRender converts the PGN request body into a TeX document.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, s.ConvertService.ConvertPGN)
}

// handleRenderFEN renders the single position in the request body.
func (s *Server) handleRenderFEN(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, func(ctx context.Context, body io.Reader, out io.Writer, opts services.ConvertOptions) (services.Summary, error) {
		data, err := io.ReadAll(body)
		if err != nil {
			return services.Summary{}, err
		}
		fen := strings.TrimSpace(string(data))
		if fen == "" {
			return services.Summary{}, errors.NewBadRequestError("request body must contain a FEN")
		}
		return s.ConvertService.ConvertFEN(ctx, fen, out, opts)
	})
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, convert convertFunc) {
	cfg := s.Base
	if err := applyQuery(&cfg, r.URL.Query()); err != nil {
		handleError(w, r, err)
		return
	}
	opts, err := services.OptionsFromConfig(cfg)
	if err != nil {
		handleError(w, r, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.MaxBodyBytes)
	defer body.Close()

	// The document is buffered so a failing record still yields a JSON error.
	var buf bytes.Buffer
	sum, err := convert(r.Context(), body, &buf, opts)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", texContentType)
	w.Header().Set("X-Diagram-Count", strconv.Itoa(sum.Blocks))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
