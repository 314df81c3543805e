package filters

import (
	"strings"
	"time"

	"github.com/remontasupport/remontamarketplace-sub005/internal/constants"
	"github.com/remontasupport/remontamarketplace-sub005/internal/dtos"
	"github.com/remontasupport/remontamarketplace-sub005/internal/models"
)

/*
Filter compiles one recognized query parameter into a predicate fragment.
A nil return means the filter does not apply to this query. Filters are
pure and independent of each other; the composer decides how fragments
combine.
*/
type Filter interface {
	Name() string
	Compile(q *dtos.SearchWorkersQuery) Expr
}

// DefaultRegistry returns the ordered list of filters the composer runs.
// Order only affects the ordering of clauses in the final expression, not
// its meaning.
func DefaultRegistry() []Filter {
	return []Filter{
		textFilter{},
		genderFilter{},
		ageFilter{now: time.Now},
		serviceFilter{},
		multiSelectFilter{name: "languages", field: FieldLanguages, pick: func(q *dtos.SearchWorkersQuery) []string { return q.Languages }},
		multiSelectFilter{name: "skills", field: FieldSkills, pick: func(q *dtos.SearchWorkersQuery) []string { return q.Skills }},
		multiSelectFilter{name: "documentCategories", field: FieldDocumentCategory, pick: func(q *dtos.SearchWorkersQuery) []string { return q.DocumentCategories }},
		multiSelectFilter{name: "documentStatuses", field: FieldDocumentStatus, pick: func(q *dtos.SearchWorkersQuery) []string { return q.DocumentStatuses }},
		multiSelectFilter{name: "documentTypes", field: FieldDocumentType, pick: func(q *dtos.SearchWorkersQuery) []string { return q.DocumentTypes }},
	}
}

/*──────────────────────── free-text search ────────────────────────*/

// textFilter matches the term as a case-insensitive substring across the
// name and contact columns, OR-ed together.
type textFilter struct{}

func (textFilter) Name() string { return "search" }

func (textFilter) Compile(q *dtos.SearchWorkersQuery) Expr {
	term := strings.TrimSpace(q.Search)
	if term == "" {
		return nil
	}
	return NewOr(
		Contains(FieldFirstName, term),
		Contains(FieldLastName, term),
		Contains(FieldEmail, term),
		Contains(FieldPhoneNumber, term),
	)
}

/*──────────────────────────── gender ───────────────────────────────*/

type genderFilter struct{}

func (genderFilter) Name() string { return "gender" }

func (genderFilter) Compile(q *dtos.SearchWorkersQuery) Expr {
	g := models.ParseGender(q.Gender)
	if g == models.GenderUnspecified {
		// "all", empty, or unrecognized input is a no-op.
		return nil
	}
	return Eq(FieldGender, string(g))
}

/*───────────────────────────── age ─────────────────────────────────*/

/*
ageFilter converts a UI age bucket ("18-25", "60+") into a birth-date range.
Profiles with a date of birth match on that alone; the legacy stored age
integer is consulted only when date_of_birth is NULL, so a stale age column
can never override what the birth date says.
*/
type ageFilter struct {
	now func() time.Time
}

func (ageFilter) Name() string { return "age" }

func (f ageFilter) Compile(q *dtos.SearchWorkersQuery) Expr {
	bucket, ok := constants.AgeBuckets[strings.TrimSpace(q.Age)]
	if !ok {
		return nil
	}

	today := f.now().UTC().Truncate(24 * time.Hour)

	// Born on/before this date → at least bucket.Min years old today.
	maxDOB := today.AddDate(-bucket.Min, 0, 0)

	dobConds := []Expr{
		NotNull(FieldDateOfBirth),
		Lte(FieldDateOfBirth, maxDOB),
	}
	ageConds := []Expr{
		IsNull(FieldDateOfBirth),
		Gte(FieldAge, bucket.Min),
	}

	if bucket.Max > 0 {
		// Born after this date → at most bucket.Max years old today.
		minDOB := today.AddDate(-(bucket.Max + 1), 0, 0).AddDate(0, 0, 1)
		dobConds = append(dobConds, Gte(FieldDateOfBirth, minDOB))
		ageConds = append(ageConds, Lte(FieldAge, bucket.Max))
	}

	return NewOr(
		NewAnd(dobConds...),
		NewAnd(ageConds...),
	)
}

/*──────────────────────── offered services ─────────────────────────*/

// serviceFilter matches workers offering any of the requested services.
// The UI sends kebab-case slugs; the catalog stores display names, so
// "support-worker" is mapped to "Support Worker" before matching.
type serviceFilter struct{}

func (serviceFilter) Name() string { return "services" }

func (serviceFilter) Compile(q *dtos.SearchWorkersQuery) Expr {
	if len(q.Services) == 0 {
		return nil
	}
	names := make([]string, 0, len(q.Services))
	for _, s := range q.Services {
		if n := ServiceDisplayName(s); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return AnyOf(FieldServices, names)
}

// ServiceDisplayName maps a kebab-case service slug to its canonical
// catalog display name: "support-worker" → "Support Worker".
func ServiceDisplayName(slug string) string {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return ""
	}
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

/*─────────────────── multi-select ("any of") filters ───────────────*/

// multiSelectFilter covers languages, skills and the three compliance
// document dimensions. Each produces a single set-intersection condition:
// the values within one filter OR together, while distinct filters still
// AND with each other through the composer.
type multiSelectFilter struct {
	name  string
	field string
	pick  func(q *dtos.SearchWorkersQuery) []string
}

func (f multiSelectFilter) Name() string { return f.name }

func (f multiSelectFilter) Compile(q *dtos.SearchWorkersQuery) Expr {
	values := f.pick(q)
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return nil
	}
	return AnyOf(f.field, cleaned)
}
