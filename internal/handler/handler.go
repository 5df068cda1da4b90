package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/LibraryApp/internal/auth"
	"github.com/GoArmGo/LibraryApp/internal/usecase"
)

const maxBodyBytes = 1 << 20

// errorResponse — тело ответа с ошибкой.
type errorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal JSON response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, errorResponse{Message: message}, logger)
}

// decodeJSON читает тело запроса, неизвестные поля считаются ошибкой.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if dec.More() {
		return errors.New("invalid JSON body: unexpected trailing data")
	}
	return nil
}

// respondUseCaseError переводит ошибки бизнес-логики в HTTP-ответ.
// notFoundMsg используется для ErrNotFound.
func respondUseCaseError(w http.ResponseWriter, err error, notFoundMsg string, logger *slog.Logger) {
	var ve *usecase.ValidationError
	switch {
	case errors.As(err, &ve):
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Message: ve.Message, Errors: ve.Fields}, logger)
	case errors.Is(err, usecase.ErrDuplicateEmail):
		respondWithError(w, http.StatusBadRequest, "User with this email already exists", logger)
	case errors.Is(err, usecase.ErrIDMismatch):
		respondWithError(w, http.StatusBadRequest, "ID mismatch", logger)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password", logger)
	case errors.Is(err, auth.ErrInvalidToken):
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", logger)
	case errors.Is(err, usecase.ErrNotFound):
		respondWithError(w, http.StatusNotFound, notFoundMsg, logger)
	default:
		logger.Error("request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error", logger)
	}
}
