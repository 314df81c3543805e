package models

import (
	"time"

	"github.com/google/uuid"
)

type DocumentStatusType string

const (
	DocumentStatusPending  DocumentStatusType = "PENDING"
	DocumentStatusApproved DocumentStatusType = "APPROVED"
	DocumentStatusRejected DocumentStatusType = "REJECTED"
	DocumentStatusExpired  DocumentStatusType = "EXPIRED"
)

type DocumentCategoryType string

const (
	DocumentCategoryIdentity      DocumentCategoryType = "IDENTITY"
	DocumentCategoryClearance     DocumentCategoryType = "CLEARANCE"
	DocumentCategoryQualification DocumentCategoryType = "QUALIFICATION"
	DocumentCategoryInsurance     DocumentCategoryType = "INSURANCE"
)

// ComplianceDocument is one verification record attached to a worker
// (police check, WWCC, first-aid certificate, ...). Upload and review
// workflows live outside this service; search only reads them.
type ComplianceDocument struct {
	ID           uuid.UUID            `json:"id"`
	WorkerID     uuid.UUID            `json:"worker_id"`
	Category     DocumentCategoryType `json:"category"`
	Status       DocumentStatusType   `json:"status"`
	DocumentType string               `json:"document_type"`
	ExpiresAt    *time.Time           `json:"expires_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}
