package routes

const (
	// Health
	Health = "/health"

	// Discovery endpoints
	WorkersSearch = "/api/v1/workers/search"
)
