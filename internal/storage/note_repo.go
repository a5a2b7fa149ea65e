package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks english-assistant/internal/storage NoteStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// NoteStore defines the interface for note storage operations.
// Every item operation is scoped to one user and category.
type NoteStore interface {
	// EnsureNotebook creates the user's notebook if missing and reports whether it did.
	EnsureNotebook(ctx context.Context, userID string) (bool, error)
	// List returns the page selected by q and the total number of matches.
	List(ctx context.Context, q NoteQuery) ([]NoteItem, int, error)
	// Search is List restricted to items whose title, content or example
	// contains term, case-insensitively.
	Search(ctx context.Context, q NoteQuery, term string) ([]NoteItem, int, error)
	// Get returns ErrNotFound if the item does not exist.
	Get(ctx context.Context, userID, category, id string) (*NoteItem, error)
	// Create assigns ID and timestamps and inserts the item.
	Create(ctx context.Context, item *NoteItem) error
	// Update saves title, content, example and learned state.
	Update(ctx context.Context, item *NoteItem) error
	// Delete returns ErrNotFound if the item does not exist.
	Delete(ctx context.Context, userID, category, id string) error
	// Stats counts items per category.
	Stats(ctx context.Context, userID string) (map[string]CategoryStats, error)
}

// NoteRepo provides methods for note operations.
// It implements the NoteStore interface.
type NoteRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db, now: utcNow}
}

const noteColumns = "id, user_id, category, title, content, example, is_learned, created_at, updated_at"

func scanNote(row interface{ Scan(...any) error }) (*NoteItem, error) {
	var n NoteItem
	err := row.Scan(&n.ID, &n.UserID, &n.Category, &n.Title, &n.Content, &n.Example, &n.IsLearned, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan note item: %w", err)
	}
	return &n, nil
}

// EnsureNotebook creates an empty notebook for userID. It is idempotent.
func (r *NoteRepo) EnsureNotebook(ctx context.Context, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO notebooks (user_id, created_at) VALUES (?, ?) ON CONFLICT (user_id) DO NOTHING",
		userID, r.now(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to create notebook: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to create notebook: %w", err)
	}
	return n > 0, nil
}

// where builds the shared filter clause of q.
func (q NoteQuery) where() (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{q.UserID}
	if q.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, q.Category)
	}
	if q.IsLearned != nil {
		clauses = append(clauses, "is_learned = ?")
		args = append(args, *q.IsLearned)
	}
	return strings.Join(clauses, " AND "), args
}

func (q NoteQuery) orderBy() string {
	col := "updated_at"
	switch q.SortBy {
	case SortByCreatedAt:
		col = "created_at"
	case SortByTitle:
		col = "title"
	}
	dir := "DESC"
	if q.Ascending {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s, id %s", col, dir, dir)
}

// List returns one page of items and the total match count.
func (r *NoteRepo) List(ctx context.Context, q NoteQuery) ([]NoteItem, int, error) {
	where, args := q.where()

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM note_items WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count note items: %w", err)
	}

	query := "SELECT " + noteColumns + " FROM note_items WHERE " + where + " ORDER BY " + q.orderBy()
	if q.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Offset)
	}

	items, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Search filters in Go: SQLite's lower() and LIKE only fold ASCII, and notes
// are mostly Vietnamese.
func (r *NoteRepo) Search(ctx context.Context, q NoteQuery, term string) ([]NoteItem, int, error) {
	where, args := q.where()
	all, err := r.query(ctx, "SELECT "+noteColumns+" FROM note_items WHERE "+where, args...)
	if err != nil {
		return nil, 0, err
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	matches := all[:0]
	for _, item := range all {
		if strings.Contains(strings.ToLower(item.Title), needle) ||
			strings.Contains(strings.ToLower(item.Content), needle) ||
			strings.Contains(strings.ToLower(item.Example), needle) {
			matches = append(matches, item)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
	})

	total := len(matches)
	if q.Offset >= total {
		return []NoteItem{}, total, nil
	}
	end := total
	if q.Limit > 0 && q.Offset+q.Limit < total {
		end = q.Offset + q.Limit
	}
	return matches[q.Offset:end], total, nil
}

func (r *NoteRepo) query(ctx context.Context, query string, args ...any) ([]NoteItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query note items: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	items := []NoteItem{}
	for rows.Next() {
		item, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate note items: %w", err)
	}
	return items, nil
}

// Get gets one item.
func (r *NoteRepo) Get(ctx context.Context, userID, category, id string) (*NoteItem, error) {
	return scanNote(r.db.QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM note_items WHERE user_id = ? AND category = ? AND id = ?",
		userID, category, id,
	))
}

// Create inserts a new item, creating the notebook first if needed.
func (r *NoteRepo) Create(ctx context.Context, item *NoteItem) error {
	if _, err := r.EnsureNotebook(ctx, item.UserID); err != nil {
		return err
	}

	now := r.now()
	item.ID = uuid.New().String()
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO note_items (id, user_id, category, title, content, example, is_learned, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.Category, item.Title, item.Content, item.Example, item.IsLearned, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note item: %w", err)
	}
	return nil
}

// Update saves the mutable fields of an existing item and bumps updated_at.
func (r *NoteRepo) Update(ctx context.Context, item *NoteItem) error {
	item.UpdatedAt = r.now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE note_items SET title = ?, content = ?, example = ?, is_learned = ?, updated_at = ?
		 WHERE user_id = ? AND category = ? AND id = ?`,
		item.Title, item.Content, item.Example, item.IsLearned, item.UpdatedAt,
		item.UserID, item.Category, item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update note item: %w", err)
	}
	return expectOneRow(res)
}

// Delete removes one item.
func (r *NoteRepo) Delete(ctx context.Context, userID, category, id string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM note_items WHERE user_id = ? AND category = ? AND id = ?",
		userID, category, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete note item: %w", err)
	}
	return expectOneRow(res)
}

// Stats returns counts for every category, including empty ones.
func (r *NoteRepo) Stats(ctx context.Context, userID string) (map[string]CategoryStats, error) {
	stats := make(map[string]CategoryStats, len(Categories))
	for _, c := range Categories {
		stats[c] = CategoryStats{}
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT category, COUNT(*), COALESCE(SUM(is_learned), 0) FROM note_items WHERE user_id = ? GROUP BY category",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query note stats: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var category string
		var s CategoryStats
		if err := rows.Scan(&category, &s.Total, &s.Learned); err != nil {
			return nil, fmt.Errorf("failed to scan note stats: %w", err)
		}
		stats[category] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate note stats: %w", err)
	}
	return stats, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
