package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_service.go -package=mocks english-assistant/internal/service NoteService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"english-assistant/internal/contextutil"
	"english-assistant/internal/storage"
)

// Note paging defaults.
const (
	DefaultNotePageSize = 20
	MaxNotePageSize     = 100
)

// NoteItem is one entry of a user's notebook.
type NoteItem struct {
	ID        string
	Category  string
	Title     string
	Content   string
	Example   string
	IsLearned bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Notebook holds every item of a user grouped by category, oldest first.
type Notebook struct {
	UserID     string
	Vocabulary []NoteItem
	Formula    []NoteItem
	Other      []NoteItem
}

// NotePage is one page of a listing or search.
type NotePage struct {
	Items []NoteItem
	Page  int
	Limit int
	Total int
	Pages int
}

// CategoryCount summarizes the items of one category.
type CategoryCount struct {
	Total      int
	Learned    int
	NotLearned int
}

// NoteStats holds counts per category and over the whole notebook.
type NoteStats struct {
	Categories map[string]CategoryCount
	Total      CategoryCount
}

// ListNotesParams selects a page of one category.
type ListNotesParams struct {
	Category  string `json:"category" validate:"required,oneof=vocabulary formula other"`
	IsLearned *bool  `json:"isLearned"`
	Page      int    `json:"page" validate:"min=0"`
	Limit     int    `json:"limit" validate:"min=0,max=100"`
	SortBy    string `json:"sortBy" validate:"omitempty,oneof=createdAt updatedAt title"`
	SortOrder string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

// SearchNotesParams selects a page of items matching a search term.
type SearchNotesParams struct {
	Query     string `json:"q" validate:"required,notblank,max=200"`
	Category  string `json:"category" validate:"omitempty,oneof=vocabulary formula other"`
	IsLearned *bool  `json:"isLearned"`
	Page      int    `json:"page" validate:"min=0"`
	Limit     int    `json:"limit" validate:"min=0,max=100"`
}

// CreateNoteParams is the input for a new note item.
type CreateNoteParams struct {
	Category  string `json:"category" validate:"required,oneof=vocabulary formula other"`
	Title     string `json:"title" validate:"required,notblank,max=200"`
	Content   string `json:"content" validate:"required,notblank,max=5000"`
	Example   string `json:"example" validate:"max=1000"`
	IsLearned bool   `json:"isLearned"`
}

// UpdateNoteParams is a partial update. Nil fields are left unchanged.
type UpdateNoteParams struct {
	Title     *string `json:"title" validate:"omitnil,notblank,max=200"`
	Content   *string `json:"content" validate:"omitnil,notblank,max=5000"`
	Example   *string `json:"example" validate:"omitnil,max=1000"`
	IsLearned *bool   `json:"isLearned"`
}

// NoteService manages per-user notebooks.
type NoteService interface {
	// GetAll returns the whole notebook, creating it on first access.
	GetAll(ctx context.Context, userID string) (Notebook, error)
	List(ctx context.Context, userID string, params ListNotesParams) (NotePage, error)
	// Search matches title, content and example case-insensitively, newest first.
	Search(ctx context.Context, userID string, params SearchNotesParams) (NotePage, error)
	Get(ctx context.Context, userID, category, id string) (NoteItem, error)
	Create(ctx context.Context, userID string, params CreateNoteParams) (NoteItem, error)
	Update(ctx context.Context, userID, category, id string, params UpdateNoteParams) (NoteItem, error)
	Delete(ctx context.Context, userID, category, id string) error
	ToggleLearned(ctx context.Context, userID, category, id string) (NoteItem, error)
	Stats(ctx context.Context, userID string) (NoteStats, error)
	// CreateDefault creates an empty notebook and reports whether one was created.
	CreateDefault(ctx context.Context, userID string) (bool, error)
}

// noteService implements NoteService.
type noteService struct {
	store storage.NoteStore
}

// NewNoteService creates a new NoteService.
func NewNoteService(store storage.NoteStore) NoteService {
	return &noteService{store: store}
}

func (s *noteService) GetAll(ctx context.Context, userID string) (Notebook, error) {
	if _, err := s.store.EnsureNotebook(ctx, userID); err != nil {
		return Notebook{}, WrapError(err, "failed to create notebook")
	}

	items, _, err := s.store.List(ctx, storage.NoteQuery{
		UserID:    userID,
		SortBy:    storage.SortByCreatedAt,
		Ascending: true,
	})
	if err != nil {
		return Notebook{}, WrapError(err, "failed to list notes")
	}

	nb := Notebook{
		UserID:     userID,
		Vocabulary: []NoteItem{},
		Formula:    []NoteItem{},
		Other:      []NoteItem{},
	}
	for _, item := range items {
		n := toNoteItem(item)
		switch item.Category {
		case storage.CategoryVocabulary:
			nb.Vocabulary = append(nb.Vocabulary, n)
		case storage.CategoryFormula:
			nb.Formula = append(nb.Formula, n)
		default:
			nb.Other = append(nb.Other, n)
		}
	}
	return nb, nil
}

func (s *noteService) List(ctx context.Context, userID string, params ListNotesParams) (NotePage, error) {
	if err := validateStruct(params); err != nil {
		return NotePage{}, err
	}
	page, limit := pageBounds(params.Page, params.Limit)

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = storage.SortByUpdatedAt
	}

	items, total, err := s.store.List(ctx, storage.NoteQuery{
		UserID:    userID,
		Category:  params.Category,
		IsLearned: params.IsLearned,
		SortBy:    sortBy,
		Ascending: params.SortOrder == "asc",
		Limit:     limit,
		Offset:    (page - 1) * limit,
	})
	if err != nil {
		return NotePage{}, WrapError(err, "failed to list notes")
	}
	return newNotePage(items, page, limit, total), nil
}

func (s *noteService) Search(ctx context.Context, userID string, params SearchNotesParams) (NotePage, error) {
	params.Query = strings.TrimSpace(params.Query)
	if err := validateStruct(params); err != nil {
		return NotePage{}, err
	}
	page, limit := pageBounds(params.Page, params.Limit)

	items, total, err := s.store.Search(ctx, storage.NoteQuery{
		UserID:    userID,
		Category:  params.Category,
		IsLearned: params.IsLearned,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	}, params.Query)
	if err != nil {
		return NotePage{}, WrapError(err, "failed to search notes")
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "notes searched",
		"query_length", len(params.Query),
		"matches", total,
	)
	return newNotePage(items, page, limit, total), nil
}

func (s *noteService) Get(ctx context.Context, userID, category, id string) (NoteItem, error) {
	if err := checkCategory(category); err != nil {
		return NoteItem{}, err
	}
	item, err := s.store.Get(ctx, userID, category, id)
	if err != nil {
		return NoteItem{}, noteStoreError(err, "failed to get note")
	}
	return toNoteItem(*item), nil
}

func (s *noteService) Create(ctx context.Context, userID string, params CreateNoteParams) (NoteItem, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Content = strings.TrimSpace(params.Content)
	params.Example = strings.TrimSpace(params.Example)
	if err := validateStruct(params); err != nil {
		return NoteItem{}, err
	}

	item := &storage.NoteItem{
		UserID:    userID,
		Category:  params.Category,
		Title:     params.Title,
		Content:   params.Content,
		Example:   params.Example,
		IsLearned: params.IsLearned,
	}
	if err := s.store.Create(ctx, item); err != nil {
		return NoteItem{}, WrapError(err, "failed to create note")
	}

	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "note created",
		"note_id", item.ID,
		"category", item.Category,
	)
	return toNoteItem(*item), nil
}

func (s *noteService) Update(ctx context.Context, userID, category, id string, params UpdateNoteParams) (NoteItem, error) {
	if err := checkCategory(category); err != nil {
		return NoteItem{}, err
	}
	params.Title = trimPtr(params.Title)
	params.Content = trimPtr(params.Content)
	params.Example = trimPtr(params.Example)
	if err := validateStruct(params); err != nil {
		return NoteItem{}, err
	}

	item, err := s.store.Get(ctx, userID, category, id)
	if err != nil {
		return NoteItem{}, noteStoreError(err, "failed to get note")
	}
	if params.Title != nil {
		item.Title = *params.Title
	}
	if params.Content != nil {
		item.Content = *params.Content
	}
	if params.Example != nil {
		item.Example = *params.Example
	}
	if params.IsLearned != nil {
		item.IsLearned = *params.IsLearned
	}

	if err := s.store.Update(ctx, item); err != nil {
		return NoteItem{}, noteStoreError(err, "failed to update note")
	}
	return toNoteItem(*item), nil
}

func (s *noteService) Delete(ctx context.Context, userID, category, id string) error {
	if err := checkCategory(category); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, userID, category, id); err != nil {
		return noteStoreError(err, "failed to delete note")
	}
	contextutil.LoggerFromContext(ctx).InfoContext(ctx, "note deleted", "note_id", id, "category", category)
	return nil
}

func (s *noteService) ToggleLearned(ctx context.Context, userID, category, id string) (NoteItem, error) {
	if err := checkCategory(category); err != nil {
		return NoteItem{}, err
	}
	item, err := s.store.Get(ctx, userID, category, id)
	if err != nil {
		return NoteItem{}, noteStoreError(err, "failed to get note")
	}
	item.IsLearned = !item.IsLearned
	if err := s.store.Update(ctx, item); err != nil {
		return NoteItem{}, noteStoreError(err, "failed to update note")
	}
	return toNoteItem(*item), nil
}

func (s *noteService) Stats(ctx context.Context, userID string) (NoteStats, error) {
	raw, err := s.store.Stats(ctx, userID)
	if err != nil {
		return NoteStats{}, WrapError(err, "failed to count notes")
	}

	stats := NoteStats{Categories: make(map[string]CategoryCount, len(storage.Categories))}
	for _, c := range storage.Categories {
		cs := raw[c]
		count := CategoryCount{Total: cs.Total, Learned: cs.Learned, NotLearned: cs.Total - cs.Learned}
		stats.Categories[c] = count
		stats.Total.Total += count.Total
		stats.Total.Learned += count.Learned
		stats.Total.NotLearned += count.NotLearned
	}
	return stats, nil
}

func (s *noteService) CreateDefault(ctx context.Context, userID string) (bool, error) {
	created, err := s.store.EnsureNotebook(ctx, userID)
	if err != nil {
		return false, WrapError(err, "failed to create notebook")
	}
	return created, nil
}

func checkCategory(category string) error {
	if storage.ValidCategory(category) {
		return nil
	}
	return &ValidationError{
		Field:   "category",
		Message: fmt.Sprintf("must be one of: %s", strings.Join(storage.Categories, " ")),
	}
}

// noteStoreError maps storage.ErrNotFound to ErrNotFound.
func noteStoreError(err error, msg string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	}
	return WrapError(err, msg)
}

// pageBounds applies the paging defaults. Page is 1-based.
func pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultNotePageSize
	}
	if limit > MaxNotePageSize {
		limit = MaxNotePageSize
	}
	return page, limit
}

func newNotePage(items []storage.NoteItem, page, limit, total int) NotePage {
	out := make([]NoteItem, 0, len(items))
	for _, item := range items {
		out = append(out, toNoteItem(item))
	}
	return NotePage{
		Items: out,
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: (total + limit - 1) / limit,
	}
}

func toNoteItem(item storage.NoteItem) NoteItem {
	return NoteItem{
		ID:        item.ID,
		Category:  item.Category,
		Title:     item.Title,
		Content:   item.Content,
		Example:   item.Example,
		IsLearned: item.IsLearned,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
