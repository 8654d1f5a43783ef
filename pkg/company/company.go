package company

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCompanyNotFound       = errors.New("company not found")
	ErrNoteNotFound          = errors.New("company note not found")
	ErrReferenceSiteNotFound = errors.New("reference site not found")
	ErrInvalidCompany        = errors.New("invalid company")
)

type Company struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Note holds everything the user collects about one company. Every company has at most one.
type Note struct {
	ID            uuid.UUID
	CompanyID     uuid.UUID
	Industry      string
	JobType       string
	Location      string
	EmployeeCount string
	ListingStatus string
	BaseSalary    string
	WebTest       string
	WorkingHours  string
	MyPageURL     string
	LoginID       string
	Password      string
	LoginNotes    string
	CustomFields  []CustomField
	FreeMemo      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CustomField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ReferenceSite struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	MemoID    uuid.NullUUID
	Name      string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}
