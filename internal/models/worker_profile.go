package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type GenderType string

const (
	GenderMale        GenderType = "MALE"
	GenderFemale      GenderType = "FEMALE"
	GenderNonBinary   GenderType = "NON_BINARY"
	GenderUnspecified GenderType = "UNSPECIFIED"
)

// ParseGender canonicalizes free-form gender input ("male", "Male", "MALE").
// Empty string and "all" map to GenderUnspecified, which filters treat as a
// no-op.
func ParseGender(s string) GenderType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MALE", "M":
		return GenderMale
	case "FEMALE", "F":
		return GenderFemale
	case "NON_BINARY", "NON-BINARY", "NONBINARY":
		return GenderNonBinary
	default:
		return GenderUnspecified
	}
}

type AccountStatusType string

const (
	AccountStatusIncomplete AccountStatusType = "INCOMPLETE"
	AccountStatusPending    AccountStatusType = "PENDING_REVIEW"
	AccountStatusActive     AccountStatusType = "ACTIVE"
	AccountStatusSuspended  AccountStatusType = "SUSPENDED"
)

/*
WorkerProfile is a support worker's discoverable profile.

Latitude/Longitude are either both set or both nil; a profile without a
geocoded address simply never matches distance-filtered searches. Age is a
legacy column kept for profiles registered before date_of_birth collection
started — date_of_birth is authoritative whenever present.
*/
type WorkerProfile struct {
	Versioned

	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`

	Gender      GenderType `json:"gender"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Age         *int       `json:"age,omitempty"`

	StreetAddress string   `json:"street_address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	PostalCode    string   `json:"postal_code"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`

	Services  []string `json:"services"`
	Languages []string `json:"languages"`
	Skills    []string `json:"skills"`

	AccountStatus AccountStatusType `json:"account_status"`
	IsDeleted     bool              `json:"is_deleted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *WorkerProfile) GetID() string {
	return w.ID.String()
}

/*
WorkerProfileSummary is the fixed search projection: the only shape the
discovery queries ever fetch. Deliberately excludes contact and compliance
detail columns.
*/
type WorkerProfileSummary struct {
	ID         uuid.UUID
	FirstName  string
	LastName   string
	Gender     GenderType
	City       string
	State      string
	PostalCode string
	Latitude   *float64
	Longitude  *float64
	Languages  []string
	Skills     []string
	Services   []string
	CreatedAt  time.Time
}

// HasCoordinates mirrors WorkerProfile.HasCoordinates for the projection.
func (s *WorkerProfileSummary) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// HasCoordinates reports whether the profile has a geocoded location.
func (w *WorkerProfile) HasCoordinates() bool {
	return w.Latitude != nil && w.Longitude != nil
}
