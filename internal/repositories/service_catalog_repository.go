package repositories

import (
	"context"

	"github.com/google/uuid"
)

// ServiceCatalogRepository manages the catalog of offerable services
// ("Support Worker", "Personal Care", ...). Search matches against the
// canonical names stored here.
type ServiceCatalogRepository interface {
	EnsureService(ctx context.Context, name string) (uuid.UUID, error)
	ListNames(ctx context.Context) ([]string, error)
}

type serviceCatalogRepo struct {
	db DB
}

func NewServiceCatalogRepository(db DB) ServiceCatalogRepository {
	return &serviceCatalogRepo{db: db}
}

// EnsureService inserts the service if missing and returns its ID either way.
func (r *serviceCatalogRepo) EnsureService(ctx context.Context, name string) (uuid.UUID, error) {
	id := uuid.New()
	row := r.db.QueryRow(ctx, `
        INSERT INTO services (id, name, created_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
        RETURNING id
    `, id, name)

	var out uuid.UUID
	if err := row.Scan(&out); err != nil {
		return uuid.Nil, err
	}
	return out, nil
}

func (r *serviceCatalogRepo) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT name FROM services ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
