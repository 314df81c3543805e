package dtos

import (
	"time"

	"github.com/google/uuid"
)

/*
SearchWorkersQuery is the parsed "request DTO" for GET /api/v1/workers/search.
Controllers build it from query-string params; all fields are optional except
pagination, which is clamped during parsing rather than rejected.
*/
type SearchWorkersQuery struct {
	Page     int `validate:"min=1"`
	PageSize int `validate:"min=1,max=100"`

	Search   string
	Location string
	Distance string `validate:"omitempty,oneof=5 10 20 50 100 none"`

	Gender string
	Age    string

	Services  []string
	Languages []string
	Skills    []string

	DocumentCategories []string
	DocumentStatuses   []string
	DocumentTypes      []string

	Sort string `validate:"omitempty,oneof=created_at first_name last_name"`
}

/*
WorkerSearchResultDTO is the fixed projection returned per matching worker.
Contact details (email, phone) are deliberately excluded from search results;
searchers see them only after a match is accepted.
*/
type WorkerSearchResultDTO struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Gender     string    `json:"gender"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`

	Services  []string `json:"services"`
	Languages []string `json:"languages"`
	Skills    []string `json:"skills,omitempty"`

	// Only set for distance-filtered searches.
	DistanceKm *float64 `json:"distance_km,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type PaginationDTO struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

type SearchWorkersResponse struct {
	Success        bool                    `json:"success"`
	Data           []WorkerSearchResultDTO `json:"data"`
	Pagination     PaginationDTO           `json:"pagination"`
	AppliedFilters []string                `json:"applied_filters"`
	TookMs         int64                   `json:"took_ms"`
}
