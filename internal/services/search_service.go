package services

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/remontasupport/remontamarketplace-sub005/internal/constants"
	"github.com/remontasupport/remontamarketplace-sub005/internal/dtos"
	"github.com/remontasupport/remontamarketplace-sub005/internal/filters"
	"github.com/remontasupport/remontamarketplace-sub005/internal/models"
	"github.com/remontasupport/remontamarketplace-sub005/internal/repositories"
	"github.com/remontasupport/remontamarketplace-sub005/internal/utils"
)

/*
SearchService runs worker-discovery searches. Two execution strategies:

  - Standard: pagination and sorting push down into SQL; the count and the
    page fetch run concurrently against the same predicate.
  - DistanceFiltered: entered exactly when the query carries a location
    that geocodes. All bounding-box candidates are fetched, ranked by exact
    Haversine distance, trimmed to the radius, and paginated in memory.

Geocoding failures silently fall back to Standard mode; store failures
fail the whole search.
*/
type SearchService struct {
	profileRepo repositories.WorkerProfileRepository
	geocoder    *GeocodingService
	registry    []filters.Filter
}

func NewSearchService(
	profileRepo repositories.WorkerProfileRepository,
	geocoder *GeocodingService,
) *SearchService {
	return &SearchService{
		profileRepo: profileRepo,
		geocoder:    geocoder,
		registry:    filters.DefaultRegistry(),
	}
}

func (s *SearchService) SearchWorkers(ctx context.Context, q *dtos.SearchWorkersQuery) (*dtos.SearchWorkersResponse, error) {
	start := time.Now()

	pred, applied := filters.Compose(s.registry, q)

	var center *Coordinates
	if q.Location != "" {
		if c, ok := s.geocoder.Resolve(ctx, q.Location); ok {
			center = c
			applied = append(applied, "location")
		} else {
			utils.Logger.WithField("location", q.Location).
				Info("Location could not be geocoded; running standard search")
		}
	}

	var (
		data  []dtos.WorkerSearchResultDTO
		total int
		err   error
	)
	if center != nil {
		data, total, err = s.searchByDistance(ctx, pred, center, q)
	} else {
		data, total, err = s.searchStandard(ctx, pred, q)
	}
	if err != nil {
		return nil, err
	}

	if applied == nil {
		applied = []string{}
	}
	return &dtos.SearchWorkersResponse{
		Success:        true,
		Data:           data,
		Pagination:     buildPagination(total, q.Page, q.PageSize),
		AppliedFilters: applied,
		TookMs:         time.Since(start).Milliseconds(),
	}, nil
}

/*──────────────────── standard mode ────────────────────*/

// searchStandard issues the count and the page fetch concurrently. They
// share no transaction: under concurrent writes the reported total and the
// returned page can disagree by a row or two, which is acceptable for a
// search listing. Either failure fails the search — no partial results.
func (s *SearchService) searchStandard(
	ctx context.Context,
	pred filters.Expr,
	q *dtos.SearchWorkersQuery,
) ([]dtos.WorkerSearchResultDTO, int, error) {
	var (
		total int
		rows  []*models.WorkerProfileSummary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.profileRepo.CountMatching(gctx, pred)
		return err
	})
	g.Go(func() error {
		var err error
		offset := (q.Page - 1) * q.PageSize
		rows, err = s.profileRepo.FetchPage(gctx, pred, q.Sort, q.PageSize, offset)
		return err
	})
	if err := g.Wait(); err != nil {
		utils.Logger.WithError(err).Error("Worker search query failed")
		return nil, 0, err
	}

	data := make([]dtos.WorkerSearchResultDTO, 0, len(rows))
	for _, r := range rows {
		data = append(data, toSearchResultDTO(r, nil))
	}
	return data, total, nil
}

/*──────────────────── distance mode ────────────────────*/

func (s *SearchService) searchByDistance(
	ctx context.Context,
	pred filters.Expr,
	center *Coordinates,
	q *dtos.SearchWorkersQuery,
) ([]dtos.WorkerSearchResultDTO, int, error) {
	radius := radiusKmFor(q.Distance)
	box := utils.BoxAroundPoint(center.Latitude, center.Longitude, radius)

	candidates, err := s.profileRepo.FetchWithinBox(ctx, pred, box)
	if err != nil {
		utils.Logger.WithError(err).Error("Bounding-box worker fetch failed")
		return nil, 0, err
	}

	ranked := rankByDistance(candidates, center, radius)
	total := len(ranked)

	startIdx := (q.Page - 1) * q.PageSize
	if startIdx >= total {
		return []dtos.WorkerSearchResultDTO{}, total, nil
	}
	endIdx := min(startIdx+q.PageSize, total)

	data := make([]dtos.WorkerSearchResultDTO, 0, endIdx-startIdx)
	for _, rc := range ranked[startIdx:endIdx] {
		d := rc.distanceKm
		data = append(data, toSearchResultDTO(rc.row, &d))
	}
	return data, total, nil
}

type rankedCandidate struct {
	row        *models.WorkerProfileSummary
	distanceKm float64
}

// rankByDistance applies the exact-distance pass: the bounding box is
// necessary but not sufficient, so every candidate is re-measured with
// Haversine and anything beyond the radius is dropped before sorting.
func rankByDistance(rows []*models.WorkerProfileSummary, center *Coordinates, radiusKm float64) []rankedCandidate {
	ranked := make([]rankedCandidate, 0, len(rows))
	for _, r := range rows {
		if !r.HasCoordinates() {
			continue
		}
		d := utils.DistanceKm(center.Latitude, center.Longitude, *r.Latitude, *r.Longitude)
		if d > radiusKm {
			continue
		}
		ranked = append(ranked, rankedCandidate{row: r, distanceKm: d})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].distanceKm != ranked[j].distanceKm {
			return ranked[i].distanceKm < ranked[j].distanceKm
		}
		// Tie-break on newest profile so ordering is deterministic.
		return ranked[i].row.CreatedAt.After(ranked[j].row.CreatedAt)
	})
	return ranked
}

// radiusKmFor maps the distance band token to km. "none" (or anything
// unrecognized, since the controller already clamped the token) still
// bounds the search at DefaultRadiusKm when a location was supplied.
func radiusKmFor(distance string) float64 {
	if km, ok := constants.RadiusPresetsKm[distance]; ok {
		return km
	}
	return constants.DefaultRadiusKm
}

/*──────────────────── shared helpers ────────────────────*/

func toSearchResultDTO(r *models.WorkerProfileSummary, distanceKm *float64) dtos.WorkerSearchResultDTO {
	return dtos.WorkerSearchResultDTO{
		ID:         r.ID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Gender:     string(r.Gender),
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		Services:   r.Services,
		Languages:  r.Languages,
		Skills:     r.Skills,
		DistanceKm: distanceKm,
		CreatedAt:  r.CreatedAt,
	}
}

func buildPagination(total, page, pageSize int) dtos.PaginationDTO {
	totalPages := 0
	if total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return dtos.PaginationDTO{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
