package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/LibraryApp/internal/usecase"
)

// AuthHandler: обработчик регистрации и входа.
type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	metrics     *Metrics
	logger      *slog.Logger
}

// NewAuthHandler создаёт новый экземпляр AuthHandler. metrics может быть nil.
func NewAuthHandler(uc usecase.AuthUseCase, metrics *Metrics, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authUseCase: uc, metrics: metrics, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"userId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  int64  `json:"userId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// Register обрабатывает POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), h.logger)

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("invalid register body", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body", logger)
		return
	}

	user, err := h.authUseCase.Register(r.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondUseCaseError(w, err, "", logger)
		return
	}

	respondWithJSON(w, http.StatusOK, registerResponse{
		Message: "User registered successfully",
		UserID:  user.ID,
		Name:    user.Name,
		Email:   user.Email,
	}, logger)
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), h.logger)

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("invalid login body", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body", logger)
		return
	}

	res, err := h.authUseCase.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.observeLogin(loginOutcome(err))
		respondUseCaseError(w, err, "", logger)
		return
	}
	h.metrics.observeLogin("success")

	respondWithJSON(w, http.StatusOK, loginResponse{
		Message: "Login successful",
		Token:   res.Token,
		UserID:  res.User.ID,
		Name:    res.User.Name,
		Email:   res.User.Email,
	}, logger)
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, usecase.ErrValidation):
		return "invalid_request"
	default:
		return "error"
	}
}
