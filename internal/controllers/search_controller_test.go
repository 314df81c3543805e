package controllers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseRawQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	values, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("bad raw query %q: %v", raw, err)
	}
	return values
}

func TestParseSearchQuery_Defaults(t *testing.T) {
	q := parseSearchQuery(parseRawQuery(t, ""))

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.PageSize)
	assert.Empty(t, q.Search)
	assert.Empty(t, q.Distance)
	assert.Empty(t, q.Services)
}

func TestParseSearchQuery_ClampsPagination(t *testing.T) {
	cases := []struct {
		raw          string
		wantPage     int
		wantPageSize int
	}{
		{"page=0&pageSize=0", 1, 1},
		{"page=-3&pageSize=-10", 1, 1},
		{"page=7&pageSize=500", 7, 100},
		{"page=abc&pageSize=xyz", 1, 20},
		{"page=2&pageSize=50", 2, 50},
	}
	for _, c := range cases {
		q := parseSearchQuery(parseRawQuery(t, c.raw))
		assert.Equal(t, c.wantPage, q.Page, c.raw)
		assert.Equal(t, c.wantPageSize, q.PageSize, c.raw)
	}
}

func TestParseSearchQuery_MultiValueShapes(t *testing.T) {
	// Repeated keys, the "[]" variant, and comma lists all work, mixed.
	raw := "services=Support+Worker&services[]=Personal+Care&languages=English,Arabic&skills=First+Aid"
	q := parseSearchQuery(parseRawQuery(t, raw))

	assert.Equal(t, []string{"Support Worker", "Personal Care"}, q.Services)
	assert.Equal(t, []string{"English", "Arabic"}, q.Languages)
	assert.Equal(t, []string{"First Aid"}, q.Skills)
}

func TestParseSearchQuery_DropsBlankListEntries(t *testing.T) {
	q := parseSearchQuery(parseRawQuery(t, "languages=English,,+,Arabic"))
	assert.Equal(t, []string{"English", "Arabic"}, q.Languages)
}

func TestParseSearchQuery_InvalidTokensClampToDefaults(t *testing.T) {
	q := parseSearchQuery(parseRawQuery(t, "distance=37&sort=email&location=Sydney+NSW"))

	assert.Empty(t, q.Distance, "unknown distance band degrades to the default")
	assert.Empty(t, q.Sort, "unknown sort key degrades to the default")
	assert.Equal(t, "Sydney NSW", q.Location, "valid params survive the clamp")
}

func TestParseSearchQuery_ValidTokensPassThrough(t *testing.T) {
	q := parseSearchQuery(parseRawQuery(t, "distance=20&sort=last_name&gender=female&age=26-35"))

	assert.Equal(t, "20", q.Distance)
	assert.Equal(t, "last_name", q.Sort)
	assert.Equal(t, "female", q.Gender)
	assert.Equal(t, "26-35", q.Age)

	q = parseSearchQuery(parseRawQuery(t, "distance=none"))
	assert.Equal(t, "none", q.Distance)
}
