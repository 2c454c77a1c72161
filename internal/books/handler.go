package books

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mvoronin/library-catalog/backend/internal/models"
	"github.com/mvoronin/library-catalog/backend/internal/store"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// BookStore defines the interface for book persistence.
type BookStore interface {
	InsertBook(ctx context.Context, b *models.Book) error
	ListBooks(ctx context.Context) ([]models.Book, error)
	SearchBooks(ctx context.Context, title, author string) ([]models.Book, error)
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	UpdateBook(ctx context.Context, b *models.Book) error
	DeleteBook(ctx context.Context, id int64) error
}

// Handler holds book HTTP handlers.
type Handler struct {
	store BookStore
}

func NewHandler(store BookStore) *Handler {
	return &Handler{store: store}
}

// List returns every book in the catalog.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListBooks(r.Context())
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.Book{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Search filters the catalog by case-insensitive title and author
// substrings. An empty result is a 404, matching the catalog's contract.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	author := r.URL.Query().Get("author")

	items, err := h.store.SearchBooks(r.Context(), title, author)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if len(items) == 0 {
		http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Add stores a new book.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	var req models.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Author == "" {
		http.Error(w, `{"error":"title and author are required"}`, http.StatusBadRequest)
		return
	}

	book := &models.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Year:        req.Year,
		Genre:       req.Genre,
	}
	if err := h.store.InsertBook(r.Context(), book); err != nil {
		http.Error(w, `{"error":"failed to save book"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, book)
}

// Edit replaces every mutable field of an existing book: fetch the current
// row, build the new value, persist it with an explicit update.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid book id"}`, http.StatusBadRequest)
		return
	}

	var req models.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Title == "" || req.Author == "" {
		http.Error(w, `{"error":"title and author are required"}`, http.StatusBadRequest)
		return
	}

	existing, err := h.store.GetBook(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	updated := &models.Book{
		ID:          existing.ID,
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Year:        req.Year,
		Genre:       req.Genre,
	}
	if err := h.store.UpdateBook(r.Context(), updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a book.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"invalid book id"}`, http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteBook(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"book not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"deleted"}`))
}
