package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/remontasupport/remontamarketplace-sub005/internal/filters"
	"github.com/remontasupport/remontamarketplace-sub005/internal/models"
	"github.com/remontasupport/remontamarketplace-sub005/internal/utils"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type WorkerProfileRepository interface {
	Create(ctx context.Context, w *models.WorkerProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.WorkerProfile, error)
	Update(ctx context.Context, w *models.WorkerProfile) error
	UpdateIfVersion(ctx context.Context, w *models.WorkerProfile, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.WorkerProfile) error) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	SetCoordinates(ctx context.Context, id uuid.UUID, lat, lng float64) error

	// Search operations. The predicate comes from the filter composer;
	// translation to SQL happens here.
	CountMatching(ctx context.Context, pred filters.Expr) (int, error)
	FetchPage(ctx context.Context, pred filters.Expr, sort string, limit, offset int) ([]*models.WorkerProfileSummary, error)
	FetchWithinBox(ctx context.Context, pred filters.Expr, box utils.BoundingBox) ([]*models.WorkerProfileSummary, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type workerProfileRepo struct {
	*BaseVersionedRepo[*models.WorkerProfile]
	db DB
}

func NewWorkerProfileRepository(db DB) WorkerProfileRepository {
	r := &workerProfileRepo{db: db}
	selectStmt := baseSelectWorkerProfile() + " WHERE w.id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanWorkerProfile)
	return r
}

func baseSelectWorkerProfile() string {
	return `
        SELECT w.id, w.email, w.phone_number, w.first_name, w.last_name,
               w.gender, w.date_of_birth, w.age,
               w.street_address, w.city, w.state, w.postal_code,
               w.latitude, w.longitude,
               w.languages, w.skills,
               w.account_status, w.is_deleted,
               w.created_at, w.updated_at, w.row_version
        FROM workers w`
}

// Only rows a searcher may discover: live, active profiles.
const searchGuard = "w.is_deleted = FALSE AND w.account_status = 'ACTIVE'"

// baseSearchSelect is the fixed projection fetched by every search query —
// never the full record. Offered services are aggregated from the catalog
// join in the same statement.
func baseSearchSelect() string {
	return `
        SELECT w.id, w.first_name, w.last_name, w.gender,
               w.city, w.state, w.postal_code,
               w.latitude, w.longitude,
               w.languages, w.skills, w.created_at,
               COALESCE((SELECT array_agg(s.name ORDER BY s.name)
                           FROM worker_services ws
                           JOIN services s ON s.id = ws.service_id
                          WHERE ws.worker_id = w.id), ARRAY[]::text[]) AS services
        FROM workers w`
}

// Allowed sort keys for standard-mode searches, mapped to ORDER BY clauses.
// Newest profiles first is the product default.
var sortClauses = map[string]string{
	"":           "w.created_at DESC",
	"created_at": "w.created_at DESC",
	"first_name": "w.first_name ASC, w.last_name ASC",
	"last_name":  "w.last_name ASC, w.first_name ASC",
}

/* ---------------------------- CRUD ---------------------------- */

func (r *workerProfileRepo) Create(ctx context.Context, w *models.WorkerProfile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `
        INSERT INTO workers (
            id, email, phone_number, first_name, last_name,
            gender, date_of_birth, age,
            street_address, city, state, postal_code,
            latitude, longitude, languages, skills,
            account_status, is_deleted,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,$4,$5,
            $6,$7,$8,
            $9,$10,$11,$12,
            $13,$14,$15,$16,
            $17,FALSE,
            NOW(),NOW(),1
        )
    `,
		w.ID, w.Email, w.PhoneNumber, w.FirstName, w.LastName,
		w.Gender, w.DateOfBirth, w.Age,
		w.StreetAddress, w.City, w.State, w.PostalCode,
		w.Latitude, w.Longitude, w.Languages, w.Skills,
		w.AccountStatus,
	)
	if err != nil {
		return err
	}

	if len(w.Services) > 0 {
		_, err = tx.Exec(ctx, `
            INSERT INTO worker_services (worker_id, service_id)
            SELECT $1, s.id FROM services s WHERE s.name = ANY($2)
        `, w.ID, w.Services)
	}
	return err
}

func (r *workerProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.WorkerProfile, error) {
	w, err := r.BaseVersionedRepo.GetByID(ctx, id.String())
	if err != nil || w == nil {
		return w, err
	}
	w.Services, err = r.listServices(ctx, w.ID)
	return w, err
}

func (r *workerProfileRepo) listServices(ctx context.Context, workerID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `
        SELECT s.name FROM worker_services ws
        JOIN services s ON s.id = ws.service_id
        WHERE ws.worker_id = $1 ORDER BY s.name
    `, workerID)
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

func (r *workerProfileRepo) Update(ctx context.Context, w *models.WorkerProfile) error {
	_, err := r.update(ctx, w, false, 0)
	return err
}

func (r *workerProfileRepo) UpdateIfVersion(ctx context.Context, w *models.WorkerProfile, expected int64) (pgconn.CommandTag, error) {
	return r.update(ctx, w, true, expected)
}

func (r *workerProfileRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.WorkerProfile) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *workerProfileRepo) update(ctx context.Context, w *models.WorkerProfile, check bool, expected int64) (pgconn.CommandTag, error) {
	sql := `
        UPDATE workers SET
            email=$1, phone_number=$2, first_name=$3, last_name=$4,
            gender=$5, date_of_birth=$6, age=$7,
            street_address=$8, city=$9, state=$10, postal_code=$11,
            latitude=$12, longitude=$13, languages=$14, skills=$15,
            account_status=$16, updated_at=NOW()
    `
	args := []interface{}{
		w.Email, w.PhoneNumber, w.FirstName, w.LastName,
		w.Gender, w.DateOfBirth, w.Age,
		w.StreetAddress, w.City, w.State, w.PostalCode,
		w.Latitude, w.Longitude, w.Languages, w.Skills,
		w.AccountStatus,
	}
	if check {
		sql += `, row_version=row_version+1 WHERE id=$17 AND row_version=$18`
		args = append(args, w.ID, expected)
	} else {
		sql += ` WHERE id=$17`
		args = append(args, w.ID)
	}
	return r.db.Exec(ctx, sql, args...)
}

// SoftDelete flags the profile; rows are never physically removed.
func (r *workerProfileRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE workers SET is_deleted=TRUE, updated_at=NOW() WHERE id=$1
    `, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return utils.ErrNoRowsUpdated
	}
	return nil
}

// SetCoordinates writes a geocoded lat/lng pair. Both columns move
// together so the both-or-neither invariant holds.
func (r *workerProfileRepo) SetCoordinates(ctx context.Context, id uuid.UUID, lat, lng float64) error {
	_, err := r.db.Exec(ctx, `
        UPDATE workers SET latitude=$1, longitude=$2, updated_at=NOW() WHERE id=$3
    `, lat, lng, id)
	return err
}

/* --------------------------- search --------------------------- */

func (r *workerProfileRepo) CountMatching(ctx context.Context, pred filters.Expr) (int, error) {
	args := []interface{}{}
	where, err := translatePredicate(pred, &args)
	if err != nil {
		return 0, err
	}

	var count int
	sql := fmt.Sprintf("SELECT COUNT(*) FROM workers w WHERE %s AND %s", searchGuard, where)
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting matching workers: %w", err)
	}
	return count, nil
}

func (r *workerProfileRepo) FetchPage(
	ctx context.Context,
	pred filters.Expr,
	sort string,
	limit, offset int,
) ([]*models.WorkerProfileSummary, error) {
	orderBy, ok := sortClauses[sort]
	if !ok {
		orderBy = sortClauses[""]
	}

	args := []interface{}{}
	where, err := translatePredicate(pred, &args)
	if err != nil {
		return nil, err
	}

	args = append(args, limit, offset)
	sql := fmt.Sprintf(
		"%s WHERE %s AND %s ORDER BY %s LIMIT $%d OFFSET $%d",
		baseSearchSelect(), searchGuard, where, orderBy, len(args)-1, len(args),
	)
	return r.querySummaries(ctx, sql, args)
}

// FetchWithinBox returns every candidate inside the bounding box, with no
// store-level pagination: final ordering depends on the exact distance
// computed after the fetch, which SQL cannot do for us here.
func (r *workerProfileRepo) FetchWithinBox(
	ctx context.Context,
	pred filters.Expr,
	box utils.BoundingBox,
) ([]*models.WorkerProfileSummary, error) {
	args := []interface{}{}
	where, err := translatePredicate(pred, &args)
	if err != nil {
		return nil, err
	}

	args = append(args, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng)
	n := len(args)
	sql := fmt.Sprintf(
		`%s WHERE %s AND %s
           AND w.latitude IS NOT NULL AND w.longitude IS NOT NULL
           AND w.latitude BETWEEN $%d AND $%d
           AND w.longitude BETWEEN $%d AND $%d`,
		baseSearchSelect(), searchGuard, where, n-3, n-2, n-1, n,
	)
	return r.querySummaries(ctx, sql, args)
}

func (r *workerProfileRepo) querySummaries(ctx context.Context, sql string, args []interface{}) ([]*models.WorkerProfileSummary, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying worker summaries: %w", err)
	}
	defer rows.Close()

	var out []*models.WorkerProfileSummary
	for rows.Next() {
		s := &models.WorkerProfileSummary{}
		if err := rows.Scan(
			&s.ID, &s.FirstName, &s.LastName, &s.Gender,
			&s.City, &s.State, &s.PostalCode,
			&s.Latitude, &s.Longitude,
			&s.Languages, &s.Skills, &s.CreatedAt,
			&s.Services,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *workerProfileRepo) scanWorkerProfile(row pgx.Row) (*models.WorkerProfile, error) {
	w := &models.WorkerProfile{}
	err := row.Scan(
		&w.ID, &w.Email, &w.PhoneNumber, &w.FirstName, &w.LastName,
		&w.Gender, &w.DateOfBirth, &w.Age,
		&w.StreetAddress, &w.City, &w.State, &w.PostalCode,
		&w.Latitude, &w.Longitude,
		&w.Languages, &w.Skills,
		&w.AccountStatus, &w.IsDeleted,
		&w.CreatedAt, &w.UpdatedAt, &w.RowVersion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return w, nil
}
