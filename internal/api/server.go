package api

import (
	"github.com/vytor/pgn2tex/internal/config"
	"github.com/vytor/pgn2tex/internal/services"
)

// Server serves the render endpoints. Base holds the options every request
// starts from before its query parameters are applied.
type Server struct {
	ConvertService services.ConvertService
	Base           config.Config
	MaxBodyBytes   int64
}
