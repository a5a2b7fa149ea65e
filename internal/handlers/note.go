package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"english-assistant/internal/contextutil"
	"english-assistant/internal/service"
)

// NoteHandler serves the signed-in user's notebook.
type NoteHandler struct {
	noteService service.NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// NoteItemResponse is the wire form of a note item.
type NoteItemResponse struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Example   string    `json:"example"`
	IsLearned bool      `json:"isLearned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NotebookResponse groups every item by category.
type NotebookResponse struct {
	UserID     string             `json:"userId"`
	Vocabulary []NoteItemResponse `json:"vocabulary"`
	Formula    []NoteItemResponse `json:"formula"`
	Other      []NoteItemResponse `json:"other"`
}

// Pagination describes the page returned by list and search.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NotePageResponse is one page of items.
type NotePageResponse struct {
	Items      []NoteItemResponse `json:"items"`
	Pagination Pagination         `json:"pagination"`
}

// CountResponse counts items by learned state.
type CountResponse struct {
	Total      int `json:"total"`
	Learned    int `json:"learned"`
	NotLearned int `json:"notLearned"`
}

// NoteStatsResponse holds per-category and overall counts.
type NoteStatsResponse struct {
	Categories map[string]CountResponse `json:"categories"`
	Total      CountResponse            `json:"total"`
}

// GetAll handles GET /notes.
func (h *NoteHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	book, err := h.noteService.GetAll(ctx, contextutil.UserIDFromContext(ctx))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load notes")
		return
	}
	writeData(ctx, w, http.StatusOK, NotebookResponse{
		UserID:     book.UserID,
		Vocabulary: toNoteItems(book.Vocabulary),
		Formula:    toNoteItems(book.Formula),
		Other:      toNoteItems(book.Other),
	})
}

// CreateDefault handles POST /notes/default.
func (h *NoteHandler) CreateDefault(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	created, err := h.noteService.CreateDefault(ctx, contextutil.UserIDFromContext(ctx))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to create notebook")
		return
	}
	status, msg := http.StatusOK, "Notebook already exists"
	if created {
		status, msg = http.StatusCreated, "Notebook created"
	}
	writeJSON(ctx, w, status, SuccessResponse{Success: true, Data: map[string]bool{"created": created}, Message: msg})
}

// Stats handles GET /notes/stats.
func (h *NoteHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.noteService.Stats(ctx, contextutil.UserIDFromContext(ctx))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load note stats")
		return
	}
	resp := NoteStatsResponse{
		Categories: make(map[string]CountResponse, len(stats.Categories)),
		Total:      CountResponse(stats.Total),
	}
	for category, c := range stats.Categories {
		resp.Categories[category] = CountResponse(c)
	}
	writeData(ctx, w, http.StatusOK, resp)
}

// Search handles GET /notes/search.
func (h *NoteHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	params := service.SearchNotesParams{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	var err error
	if params.IsLearned, err = queryBool(q.Get("isLearned")); err != nil {
		writeError(w, http.StatusBadRequest, "isLearned must be true or false")
		return
	}
	if params.Page, params.Limit, err = queryPaging(r); err != nil {
		writeError(w, http.StatusBadRequest, "page and limit must be integers")
		return
	}

	page, err := h.noteService.Search(ctx, contextutil.UserIDFromContext(ctx), params)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to search notes")
		return
	}
	writeData(ctx, w, http.StatusOK, toNotePage(page))
}

// List handles GET /notes/{category}.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	params := service.ListNotesParams{
		Category:  chi.URLParam(r, "category"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	var err error
	if params.IsLearned, err = queryBool(q.Get("isLearned")); err != nil {
		writeError(w, http.StatusBadRequest, "isLearned must be true or false")
		return
	}
	if params.Page, params.Limit, err = queryPaging(r); err != nil {
		writeError(w, http.StatusBadRequest, "page and limit must be integers")
		return
	}

	page, err := h.noteService.List(ctx, contextutil.UserIDFromContext(ctx), params)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list notes")
		return
	}
	writeData(ctx, w, http.StatusOK, toNotePage(page))
}

// Create handles POST /notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var params service.CreateNoteParams
	if err := decodeJSON(r, &params); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.noteService.Create(ctx, contextutil.UserIDFromContext(ctx), params)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to create note")
		return
	}
	writeData(ctx, w, http.StatusCreated, toNoteItem(item))
}

// Get handles GET /notes/{category}/{itemId}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	item, err := h.noteService.Get(ctx, contextutil.UserIDFromContext(ctx), chi.URLParam(r, "category"), chi.URLParam(r, "itemId"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load note")
		return
	}
	writeData(ctx, w, http.StatusOK, toNoteItem(item))
}

// Update handles PUT /notes/{category}/{itemId}.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var params service.UpdateNoteParams
	if err := decodeJSON(r, &params); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.noteService.Update(ctx, contextutil.UserIDFromContext(ctx), chi.URLParam(r, "category"), chi.URLParam(r, "itemId"), params)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to update note")
		return
	}
	writeData(ctx, w, http.StatusOK, toNoteItem(item))
}

// Delete handles DELETE /notes/{category}/{itemId}.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.noteService.Delete(ctx, contextutil.UserIDFromContext(ctx), chi.URLParam(r, "category"), chi.URLParam(r, "itemId")); err != nil {
		handleServiceError(ctx, w, err, "Failed to delete note")
		return
	}
	writeJSON(ctx, w, http.StatusOK, SuccessResponse{Success: true, Message: "Note deleted"})
}

// ToggleLearned handles PATCH /notes/{category}/{itemId}/toggle-learned.
func (h *NoteHandler) ToggleLearned(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	item, err := h.noteService.ToggleLearned(ctx, contextutil.UserIDFromContext(ctx), chi.URLParam(r, "category"), chi.URLParam(r, "itemId"))
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to update note")
		return
	}
	writeData(ctx, w, http.StatusOK, toNoteItem(item))
}

func queryBool(raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// queryPaging reads page and limit; missing values are 0 and get service defaults.
func queryPaging(r *http.Request) (page, limit int, err error) {
	q := r.URL.Query()
	if raw := q.Get("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil {
			return 0, 0, err
		}
	}
	if raw := q.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return 0, 0, err
		}
	}
	return page, limit, nil
}

func toNoteItem(item service.NoteItem) NoteItemResponse {
	return NoteItemResponse(item)
}

func toNoteItems(items []service.NoteItem) []NoteItemResponse {
	out := make([]NoteItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toNoteItem(item))
	}
	return out
}

func toNotePage(p service.NotePage) NotePageResponse {
	return NotePageResponse{
		Items: toNoteItems(p.Items),
		Pagination: Pagination{
			Page:  p.Page,
			Limit: p.Limit,
			Total: p.Total,
			Pages: p.Pages,
		},
	}
}
