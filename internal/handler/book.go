package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/GoArmGo/LibraryApp/internal/domain"
	"github.com/GoArmGo/LibraryApp/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// BookHandler: обработчик HTTP-запросов каталога книг.
type BookHandler struct {
	bookUseCase usecase.BookUseCase
	basePath    string
	logger      *slog.Logger
}

// NewBookHandler создаёт новый экземпляр BookHandler.
// basePath нужен для заголовка Location.
func NewBookHandler(uc usecase.BookUseCase, basePath string, logger *slog.Logger) *BookHandler {
	return &BookHandler{bookUseCase: uc, basePath: basePath, logger: logger}
}

func notFoundMessage(id int64) string {
	return fmt.Sprintf("Book with ID %d not found", id)
}

// bookID читает {id} из пути, при ошибке сам отвечает 400.
func (h *BookHandler) bookID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Warn("invalid book id", "id", raw)
		respondWithError(w, http.StatusBadRequest, "Invalid book ID", logger)
		return 0, false
	}
	return id, true
}

// GetAllBooks обрабатывает GET /book/getAllBooks.
func (h *BookHandler) GetAllBooks(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), h.logger)

	books, err := h.bookUseCase.ListBooks(r.Context())
	if err != nil {
		respondUseCaseError(w, err, "", logger)
		return
	}
	if books == nil {
		books = []domain.Book{}
	}

	logger.Debug("books fetched", "count", len(books))
	respondWithJSON(w, http.StatusOK, books, logger)
}

// GetBook обрабатывает GET /book/getBook/{id}.
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), h.logger)

	id, ok := h.bookID(w, r, logger)
	if !ok {
		return
	}

	book, err := h.bookUseCase.GetBook(r.Context(), id)
	if err != nil {
		respondUseCaseError(w, err, notFoundMessage(id), logger)
		return
	}
	respondWithJSON(w, http.StatusOK, book, logger)
}

// AddBook обрабатывает POST /book/addBook, 201 с Location на созданную книгу.
func (h *BookHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), h.logger)

	var req domain.Book
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("invalid book body", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body", logger)
		return
	}

	book, err := h.bookUseCase.AddBook(r.Context(), req)
	if err != nil {
		respondUseCaseError(w, err, "", logger)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/book/getBook/%d", h.basePath, book.ID))
	respondWithJSON(w, http.StatusCreated, book, logger)
}

// UpdateBook обрабатывает PUT /book/updateBook/{id}, id в пути и теле должны совпадать.
func (h *BookHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), h.logger)

	id, ok := h.bookID(w, r, logger)
	if !ok {
		return
	}

	var req domain.Book
	if err := decodeJSON(r, &req); err != nil {
		logger.Warn("invalid book body", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body", logger)
		return
	}

	if err := h.bookUseCase.UpdateBook(r.Context(), id, req); err != nil {
		respondUseCaseError(w, err, notFoundMessage(id), logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteBook обрабатывает DELETE /book/deleteBook/{id}.
func (h *BookHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context(), h.logger)

	id, ok := h.bookID(w, r, logger)
	if !ok {
		return
	}

	if err := h.bookUseCase.DeleteBook(r.Context(), id); err != nil {
		respondUseCaseError(w, err, notFoundMessage(id), logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
