package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/remontasupport/remontamarketplace-sub005/internal/models"
)

// ComplianceDocumentRepository reads and writes worker verification
// records. Upload and review workflows live in another service; discovery
// needs these rows for document filters and for dev seeding.
type ComplianceDocumentRepository interface {
	Create(ctx context.Context, d *models.ComplianceDocument) error
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.ComplianceDocument, error)
}

type complianceDocumentRepo struct {
	db DB
}

func NewComplianceDocumentRepository(db DB) ComplianceDocumentRepository {
	return &complianceDocumentRepo{db: db}
}

func (r *complianceDocumentRepo) Create(ctx context.Context, d *models.ComplianceDocument) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO compliance_documents (
            id, worker_id, category, status, document_type, expires_at, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,NOW())
    `, d.ID, d.WorkerID, d.Category, d.Status, d.DocumentType, d.ExpiresAt)
	return err
}

func (r *complianceDocumentRepo) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]*models.ComplianceDocument, error) {
	rows, err := r.db.Query(ctx, `
        SELECT id, worker_id, category, status, document_type, expires_at, created_at
        FROM compliance_documents
        WHERE worker_id = $1
        ORDER BY created_at DESC
    `, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ComplianceDocument
	for rows.Next() {
		d := &models.ComplianceDocument{}
		if err := rows.Scan(&d.ID, &d.WorkerID, &d.Category, &d.Status, &d.DocumentType, &d.ExpiresAt, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
