package memo

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMemoNotFound = errors.New("memo not found")
	ErrInvalidMemo  = errors.New("invalid memo")
)

type Category string

const (
	CategoryResearch  Category = "企業研究"
	CategoryInterview Category = "面接対策"
	CategoryES        Category = "ES"
	CategoryOther     Category = "その他"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryResearch, CategoryInterview, CategoryES, CategoryOther:
		return true
	}
	return false
}

// Memo belongs to a company note. Deleted memos stay stored and can be restored.
type Memo struct {
	ID        uuid.UUID
	NoteID    uuid.UUID
	Category  Category
	Title     string
	Content   string
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
