package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/vytor/pgn2tex/internal/errors"
	"github.com/vytor/pgn2tex/internal/logger"
)

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		err = &errors.AppError{
			Code:    errors.ErrCodeBadRequest,
			Message: "request body too large",
			Status:  http.StatusRequestEntityTooLarge,
			Exit:    errors.ExitUsage,
			Err:     err,
		}
	}
	appErr := errors.As(err)

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
