package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remontasupport/remontamarketplace-sub005/internal/dtos"
	"github.com/remontasupport/remontamarketplace-sub005/internal/filters"
	"github.com/remontasupport/remontamarketplace-sub005/internal/models"
	"github.com/remontasupport/remontamarketplace-sub005/internal/utils"
)

/*──────────────── fake profile store ────────────────*/

type fakeProfileRepo struct {
	countResult int
	countErr    error
	pageRows    []*models.WorkerProfileSummary
	pageErr     error
	boxRows     []*models.WorkerProfileSummary
	boxErr      error

	countCalls int
	pageCalls  int
	boxCalls   int

	lastSort   string
	lastLimit  int
	lastOffset int
	lastBox    utils.BoundingBox
}

func (f *fakeProfileRepo) CountMatching(ctx context.Context, pred filters.Expr) (int, error) {
	f.countCalls++
	return f.countResult, f.countErr
}

func (f *fakeProfileRepo) FetchPage(ctx context.Context, pred filters.Expr, sort string, limit, offset int) ([]*models.WorkerProfileSummary, error) {
	f.pageCalls++
	f.lastSort, f.lastLimit, f.lastOffset = sort, limit, offset
	return f.pageRows, f.pageErr
}

func (f *fakeProfileRepo) FetchWithinBox(ctx context.Context, pred filters.Expr, box utils.BoundingBox) ([]*models.WorkerProfileSummary, error) {
	f.boxCalls++
	f.lastBox = box
	return f.boxRows, f.boxErr
}

func (f *fakeProfileRepo) Create(ctx context.Context, w *models.WorkerProfile) error { return nil }
func (f *fakeProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.WorkerProfile, error) {
	return nil, nil
}
func (f *fakeProfileRepo) Update(ctx context.Context, w *models.WorkerProfile) error { return nil }
func (f *fakeProfileRepo) UpdateIfVersion(ctx context.Context, w *models.WorkerProfile, expected int64) (pgconn.CommandTag, error) {
	return nil, nil
}
func (f *fakeProfileRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.WorkerProfile) error) error {
	return nil
}
func (f *fakeProfileRepo) SoftDelete(ctx context.Context, id uuid.UUID) error { return nil }
func (f *fakeProfileRepo) SetCoordinates(ctx context.Context, id uuid.UUID, lat, lng float64) error {
	return nil
}

func summaryAt(name string, lat, lng float64) *models.WorkerProfileSummary {
	return &models.WorkerProfileSummary{
		ID:        uuid.New(),
		FirstName: name,
		LastName:  "Tester",
		Gender:    models.GenderFemale,
		City:      "Sydney",
		State:     "NSW",
		Latitude:  &lat,
		Longitude: &lng,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newSearchService(repo *fakeProfileRepo, provider GeocodingProvider) *SearchService {
	geocoder := NewGeocodingService(provider, NewGeocodeCache(time.Hour, 100))
	return NewSearchService(repo, geocoder)
}

func baseQuery() *dtos.SearchWorkersQuery {
	return &dtos.SearchWorkersQuery{Page: 1, PageSize: 20}
}

/*──────────────── standard mode ────────────────*/

func TestSearchWorkers_StandardMode(t *testing.T) {
	repo := &fakeProfileRepo{
		countResult: 45,
		pageRows: []*models.WorkerProfileSummary{
			summaryAt("Amira", -33.9, 151.1),
			summaryAt("Ben", -33.8, 151.2),
		},
	}
	svc := newSearchService(repo, nil)

	q := baseQuery()
	q.Page = 3
	resp, err := svc.SearchWorkers(context.Background(), q)
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, 1, repo.countCalls)
	assert.Equal(t, 1, repo.pageCalls)
	assert.Equal(t, 0, repo.boxCalls, "no location, no bounding-box fetch")
	assert.Equal(t, 40, repo.lastOffset)
	assert.Equal(t, 20, repo.lastLimit)

	assert.Equal(t, 45, resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.False(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)

	require.Len(t, resp.Data, 2)
	assert.Nil(t, resp.Data[0].DistanceKm, "standard mode carries no distances")
}

func TestSearchWorkers_StoreErrorIsFatal(t *testing.T) {
	repo := &fakeProfileRepo{countErr: errors.New("connection reset")}
	svc := newSearchService(repo, nil)

	_, err := svc.SearchWorkers(context.Background(), baseQuery())
	require.Error(t, err, "count failure must fail the whole search, never a partial result")

	repo = &fakeProfileRepo{pageErr: errors.New("connection reset")}
	svc = newSearchService(repo, nil)
	_, err = svc.SearchWorkers(context.Background(), baseQuery())
	require.Error(t, err)
}

func TestSearchWorkers_AppliedFilters(t *testing.T) {
	repo := &fakeProfileRepo{}
	svc := newSearchService(repo, nil)

	q := baseQuery()
	q.Gender = "male"
	q.Services = []string{"support-worker"}
	resp, err := svc.SearchWorkers(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"gender", "services"}, resp.AppliedFilters)

	resp, err = svc.SearchWorkers(context.Background(), baseQuery())
	require.NoError(t, err)
	assert.Empty(t, resp.AppliedFilters)
}

/*──────────────── distance mode ────────────────*/

func TestSearchWorkers_DistanceMode(t *testing.T) {
	// Candidates the bounding box admits: one genuinely close, one inside
	// the box corner but beyond the radius, one right at the center.
	near := summaryAt("Near", -33.70, 151.10)     // ~15 km out
	corner := summaryAt("Corner", -34.03, 151.42) // inside box, >20 km out
	center := summaryAt("Center", -33.8688, 151.2093)

	repo := &fakeProfileRepo{boxRows: []*models.WorkerProfileSummary{near, corner, center}}
	provider := &fakeProvider{coords: sydney()}
	svc := newSearchService(repo, provider)

	q := baseQuery()
	q.Location = "Sydney NSW"
	q.Distance = "20"
	resp, err := svc.SearchWorkers(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.boxCalls)
	assert.Equal(t, 0, repo.countCalls, "distance mode never issues a store count")
	assert.Contains(t, resp.AppliedFilters, "location")

	// The corner candidate passed the box but fails the exact-distance
	// pass; the remaining two come back sorted ascending by distance.
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Center", resp.Data[0].FirstName)
	assert.Equal(t, "Near", resp.Data[1].FirstName)
	assert.Equal(t, 2, resp.Pagination.Total)

	require.NotNil(t, resp.Data[1].DistanceKm)
	assert.InDelta(t, 15.0, *resp.Data[1].DistanceKm, 3.0)
}

func TestSearchWorkers_DistanceModePaginatesInMemory(t *testing.T) {
	rows := []*models.WorkerProfileSummary{
		summaryAt("C", -33.70, 151.10),
		summaryAt("A", -33.8688, 151.2093),
		summaryAt("B", -33.80, 151.18),
	}
	repo := &fakeProfileRepo{boxRows: rows}
	svc := newSearchService(repo, &fakeProvider{coords: sydney()})

	q := baseQuery()
	q.Location = "Sydney NSW"
	q.Distance = "20"
	q.PageSize = 2
	q.Page = 2
	resp, err := svc.SearchWorkers(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	require.Len(t, resp.Data, 1, "page 2 of 3 results at size 2 holds one record")
	assert.Equal(t, "C", resp.Data[0].FirstName, "furthest candidate lands on the last page")
}

func TestSearchWorkers_NoDistanceBandUsesWideDefault(t *testing.T) {
	repo := &fakeProfileRepo{}
	svc := newSearchService(repo, &fakeProvider{coords: sydney()})

	q := baseQuery()
	q.Location = "Sydney NSW"
	q.Distance = "none"
	_, err := svc.SearchWorkers(context.Background(), q)
	require.NoError(t, err)

	// 500 km default: the box spans roughly ±4.5 degrees of latitude.
	require.Equal(t, 1, repo.boxCalls)
	assert.InDelta(t, 4.49, -33.8688-repo.lastBox.MinLat, 0.05)
}

func TestSearchWorkers_GeocodeFailureFallsBackToStandard(t *testing.T) {
	repo := &fakeProfileRepo{countResult: 7}
	svc := newSearchService(repo, &fakeProvider{err: errors.New("quota exceeded")})

	q := baseQuery()
	q.Location = "Sydney NSW"
	q.Distance = "20"
	resp, err := svc.SearchWorkers(context.Background(), q)
	require.NoError(t, err, "provider failure must degrade, not fail the search")

	assert.Equal(t, 0, repo.boxCalls)
	assert.Equal(t, 1, repo.countCalls)
	assert.Equal(t, 7, resp.Pagination.Total)
	assert.NotContains(t, resp.AppliedFilters, "location")
}

func TestSearchWorkers_SkipsCandidatesWithoutCoordinates(t *testing.T) {
	noCoords := &models.WorkerProfileSummary{ID: uuid.New(), FirstName: "NoGeo"}
	repo := &fakeProfileRepo{boxRows: []*models.WorkerProfileSummary{noCoords}}
	svc := newSearchService(repo, &fakeProvider{coords: sydney()})

	q := baseQuery()
	q.Location = "Sydney NSW"
	q.Distance = "20"
	resp, err := svc.SearchWorkers(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, resp.Data)
	assert.Equal(t, 0, resp.Pagination.Total)
}

/*──────────────── pagination arithmetic ────────────────*/

func TestBuildPagination(t *testing.T) {
	cases := []struct {
		total, page, size          int
		wantPages                  int
		wantHasNext, wantHasPrev   bool
	}{
		{0, 1, 20, 0, false, false},
		{45, 1, 20, 3, true, false},
		{45, 2, 20, 3, true, true},
		{45, 3, 20, 3, false, true},
		{40, 2, 20, 2, false, true},
		{1, 1, 1, 1, false, false},
	}
	for _, c := range cases {
		p := buildPagination(c.total, c.page, c.size)
		assert.Equal(t, c.wantPages, p.TotalPages, "total=%d page=%d", c.total, c.page)
		assert.Equal(t, c.wantHasNext, p.HasNext, "total=%d page=%d", c.total, c.page)
		assert.Equal(t, c.wantHasPrev, p.HasPrev, "total=%d page=%d", c.total, c.page)
	}
}
