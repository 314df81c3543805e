package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/remontasupport/remontamarketplace-sub005/internal/constants"
	"github.com/remontasupport/remontamarketplace-sub005/internal/dtos"
	"github.com/remontasupport/remontamarketplace-sub005/internal/services"
	"github.com/remontasupport/remontamarketplace-sub005/internal/utils"
)

var searchValidate = validator.New()

type SearchController struct {
	searchService *services.SearchService
}

func NewSearchController(ss *services.SearchService) *SearchController {
	return &SearchController{searchService: ss}
}

// ----------------------------------------------------------------
// GET /api/v1/workers/search
// ----------------------------------------------------------------
func (c *SearchController) SearchWorkersHandler(w http.ResponseWriter, r *http.Request) {
	q := parseSearchQuery(r.URL.Query())

	resp, err := c.searchService.SearchWorkers(r.Context(), q)
	if err != nil {
		utils.Logger.WithError(err).Error("Worker search failed")
		utils.RespondErrorWithCode(
			w,
			http.StatusInternalServerError,
			utils.ErrCodeSearchFailed,
			"Failed to search workers",
			nil,
			err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

/*
parseSearchQuery builds the search DTO from query-string params.
Malformed pagination or band tokens are CLAMPED to defaults rather than
rejected — a sloppy client still gets a usable result page, per the
graceful-degradation contract of the search endpoint.
*/
func parseSearchQuery(values url.Values) *dtos.SearchWorkersQuery {
	q := &dtos.SearchWorkersQuery{
		Page:     clampInt(values.Get("page"), constants.DefaultPage, 1, 0),
		PageSize: clampInt(values.Get("pageSize"), constants.DefaultPageSize, 1, constants.MaxPageSize),

		Search:   strings.TrimSpace(values.Get("search")),
		Location: strings.TrimSpace(values.Get("location")),
		Distance: strings.TrimSpace(values.Get("distance")),

		Gender: values.Get("gender"),
		Age:    strings.TrimSpace(values.Get("age")),

		Services:  multiValue(values, "services"),
		Languages: multiValue(values, "languages"),
		Skills:    multiValue(values, "skills"),

		DocumentCategories: multiValue(values, "documentCategories"),
		DocumentStatuses:   multiValue(values, "documentStatuses"),
		DocumentTypes:      multiValue(values, "documentTypes"),

		Sort: strings.TrimSpace(values.Get("sort")),
	}

	// Unknown enum tokens degrade to defaults instead of erroring.
	if err := searchValidate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "Distance":
					q.Distance = ""
				case "Sort":
					q.Sort = ""
				case "Page":
					q.Page = constants.DefaultPage
				case "PageSize":
					q.PageSize = constants.DefaultPageSize
				}
			}
			utils.Logger.WithField("params", verrs.Error()).
				Warn("Clamped invalid search params to defaults")
		}
	}

	return q
}

// clampInt parses s and clamps to [min, max]; max 0 means no upper bound.
func clampInt(s string, def, min, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// multiValue reads a multi-select param in any of the accepted shapes:
// repeated keys, the PHP-style "key[]" variant, or one comma-delimited
// list.
func multiValue(values url.Values, key string) []string {
	raw := append(values[key], values[key+"[]"]...)

	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
