package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"english-assistant/internal/contextutil"
	"english-assistant/internal/service"
	"english-assistant/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

// noteRouter mounts the note routes for a signed-in user.
func noteRouter(h *NoteHandler, userID string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(contextutil.WithUserID(r.Context(), userID)))
		})
	})
	r.Get("/notes", h.GetAll)
	r.Post("/notes", h.Create)
	r.Post("/notes/default", h.CreateDefault)
	r.Get("/notes/stats", h.Stats)
	r.Get("/notes/search", h.Search)
	r.Get("/notes/{category}", h.List)
	r.Get("/notes/{category}/{itemId}", h.Get)
	r.Put("/notes/{category}/{itemId}", h.Update)
	r.Delete("/notes/{category}/{itemId}", h.Delete)
	r.Patch("/notes/{category}/{itemId}/toggle-learned", h.ToggleLearned)
	return r
}

func ptr[T any](v T) *T { return &v }

func TestNoteHandler(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	item := service.NoteItem{ID: "n1", Category: "vocabulary", Title: "apple", Content: "quả táo", CreatedAt: created, UpdatedAt: created}

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		mockSetup  func(*mocks.MockNoteService)
		wantStatus int
		check      func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:   "get all",
			method: http.MethodGet,
			path:   "/notes",
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().GetAll(gomock.Any(), "u1").Return(service.Notebook{UserID: "u1", Vocabulary: []service.NoteItem{item}}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp struct {
					Data NotebookResponse `json:"data"`
				}
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("invalid JSON: %v", err)
				}
				if len(resp.Data.Vocabulary) != 1 || resp.Data.Formula == nil || resp.Data.Other == nil {
					t.Errorf("notebook = %+v", resp.Data)
				}
			},
		},
		{
			name:   "list with filters",
			method: http.MethodGet,
			path:   "/notes/vocabulary?isLearned=false&page=2&limit=5&sortBy=title&sortOrder=asc",
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().
					List(gomock.Any(), "u1", service.ListNotesParams{
						Category: "vocabulary", IsLearned: ptr(false), Page: 2, Limit: 5, SortBy: "title", SortOrder: "asc",
					}).
					Return(service.NotePage{Items: []service.NoteItem{item}, Page: 2, Limit: 5, Total: 6, Pages: 2}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp struct {
					Data NotePageResponse `json:"data"`
				}
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("invalid JSON: %v", err)
				}
				want := Pagination{Page: 2, Limit: 5, Total: 6, Pages: 2}
				if resp.Data.Pagination != want || len(resp.Data.Items) != 1 {
					t.Errorf("page = %+v", resp.Data)
				}
			},
		},
		{
			name:       "list with bad isLearned",
			method:     http.MethodGet,
			path:       "/notes/vocabulary?isLearned=maybe",
			mockSetup:  func(m *mocks.MockNoteService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "list with bad page",
			method:     http.MethodGet,
			path:       "/notes/vocabulary?page=two",
			mockSetup:  func(m *mocks.MockNoteService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "unknown category",
			method: http.MethodGet,
			path:   "/notes/idioms",
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().List(gomock.Any(), "u1", gomock.Any()).
					Return(service.NotePage{}, &service.ValidationError{Field: "category", Message: "must be one of: vocabulary formula other"})
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "search",
			method: http.MethodGet,
			path:   "/notes/search?q=app&category=vocabulary",
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().
					Search(gomock.Any(), "u1", service.SearchNotesParams{Query: "app", Category: "vocabulary"}).
					Return(service.NotePage{Items: []service.NoteItem{item}, Page: 1, Limit: 20, Total: 1, Pages: 1}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "stats",
			method: http.MethodGet,
			path:   "/notes/stats",
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().Stats(gomock.Any(), "u1").Return(service.NoteStats{
					Categories: map[string]service.CategoryCount{"vocabulary": {Total: 2, Learned: 1, NotLearned: 1}},
					Total:      service.CategoryCount{Total: 2, Learned: 1, NotLearned: 1},
				}, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp struct {
					Data NoteStatsResponse `json:"data"`
				}
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("invalid JSON: %v", err)
				}
				if resp.Data.Categories["vocabulary"].NotLearned != 1 || resp.Data.Total.Total != 2 {
					t.Errorf("stats = %+v", resp.Data)
				}
			},
		},
		{
			name:   "create",
			method: http.MethodPost,
			path:   "/notes",
			body:   `{"category":"vocabulary","title":"apple","content":"quả táo"}`,
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().
					Create(gomock.Any(), "u1", service.CreateNoteParams{Category: "vocabulary", Title: "apple", Content: "quả táo"}).
					Return(item, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "create default when missing",
			method: http.MethodPost,
			path:   "/notes/default",
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().CreateDefault(gomock.Any(), "u1").Return(true, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:   "create default when present",
			method: http.MethodPost,
			path:   "/notes/default",
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().CreateDefault(gomock.Any(), "u1").Return(false, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "get missing item",
			method: http.MethodGet,
			path:   "/notes/formula/missing",
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().Get(gomock.Any(), "u1", "formula", "missing").Return(service.NoteItem{}, service.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:   "partial update",
			method: http.MethodPut,
			path:   "/notes/vocabulary/n1",
			body:   `{"title":"green apple"}`,
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().
					Update(gomock.Any(), "u1", "vocabulary", "n1", service.UpdateNoteParams{Title: ptr("green apple")}).
					Return(item, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/notes/vocabulary/n1",
			mockSetup: func(m *mocks.MockNoteService) {
				m.EXPECT().Delete(gomock.Any(), "u1", "vocabulary", "n1").Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "toggle learned",
			method: http.MethodPatch,
			path:   "/notes/vocabulary/n1/toggle-learned",
			mockSetup: func(m *mocks.MockNoteService) {
				learned := item
				learned.IsLearned = true
				m.EXPECT().ToggleLearned(gomock.Any(), "u1", "vocabulary", "n1").Return(learned, nil)
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp struct {
					Data NoteItemResponse `json:"data"`
				}
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("invalid JSON: %v", err)
				}
				if !resp.Data.IsLearned || resp.Data.ID != "n1" {
					t.Errorf("item = %+v", resp.Data)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := mocks.NewMockNoteService(ctrl)
			tt.mockSetup(m)
			router := noteRouter(NewNoteHandler(m), "u1")

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s status = %v, want %v (body %s)", tt.method, tt.path, w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.check != nil {
				tt.check(t, w)
			}
		})
	}
}
