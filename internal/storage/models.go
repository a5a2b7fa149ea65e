package storage

import "time"

// Note categories.
const (
	CategoryVocabulary = "vocabulary"
	CategoryFormula    = "formula"
	CategoryOther      = "other"
)

// Categories lists every note category in display order.
var Categories = []string{CategoryVocabulary, CategoryFormula, CategoryOther}

// ValidCategory reports whether c is a known note category.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// User is an account created through Google sign-in.
type User struct {
	ID        string // UUID
	GoogleID  string
	Email     string // lower-cased
	Name      string
	Picture   string
	FirstName string
	LastName  string
	Audience  string // student, college, worker, senior or empty
	Language  string
	IsActive  bool
	LastLogin time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NoteItem is one entry in a user's notebook.
type NoteItem struct {
	ID        string // UUID
	UserID    string
	Category  string
	Title     string
	Content   string
	Example   string
	IsLearned bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sort keys accepted by NoteQuery.SortBy.
const (
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"
	SortByTitle     = "title"
)

// NoteQuery selects note items for one user.
type NoteQuery struct {
	UserID    string
	Category  string // empty means every category
	IsLearned *bool  // nil means both
	SortBy    string // defaults to SortByUpdatedAt
	Ascending bool
	Limit     int // 0 means no limit
	Offset    int
}

// CategoryStats counts the items of one category.
type CategoryStats struct {
	Total   int
	Learned int
}
