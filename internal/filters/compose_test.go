package filters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remontasupport/remontamarketplace-sub005/internal/dtos"
)

func testRegistry() []Filter {
	reg := DefaultRegistry()
	for i, f := range reg {
		if _, ok := f.(ageFilter); ok {
			reg[i] = ageFilter{now: func() time.Time {
				return time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
			}}
		}
	}
	return reg
}

func TestCompose_NoFiltersYieldsMatchAll(t *testing.T) {
	expr, applied := Compose(testRegistry(), &dtos.SearchWorkersQuery{})
	assert.IsType(t, MatchAll{}, expr)
	assert.Empty(t, applied)
}

func TestCompose_SingleOrReturnedUnwrapped(t *testing.T) {
	expr, applied := Compose(testRegistry(), &dtos.SearchWorkersQuery{Search: "smith"})
	assert.IsType(t, Or{}, expr)
	assert.Equal(t, []string{"search"}, applied)
}

func TestCompose_DifferentFiltersCombineViaAnd(t *testing.T) {
	// gender + services must BOTH hold, even though services itself is an
	// "any of" over its selected values.
	expr, applied := Compose(testRegistry(), &dtos.SearchWorkersQuery{
		Gender:   "male",
		Services: []string{"support-worker"},
	})
	require.Equal(t, []string{"gender", "services"}, applied)

	and, ok := expr.(And)
	require.True(t, ok)
	require.Len(t, and.Children, 2)

	gender := and.Children[0].(Cond)
	assert.Equal(t, FieldGender, gender.Field)
	assert.Equal(t, "MALE", gender.Value)

	services := and.Children[1].(Cond)
	assert.Equal(t, OpAnyOf, services.Op)
	assert.Equal(t, []string{"Support Worker"}, services.Value)
}

func TestCompose_PlainFragmentsMergeFlat(t *testing.T) {
	expr, _ := Compose(testRegistry(), &dtos.SearchWorkersQuery{
		Gender:             "female",
		Languages:          []string{"Arabic"},
		Skills:             []string{"Manual Handling"},
		DocumentCategories: []string{"CLEARANCE"},
	})

	and, ok := expr.(And)
	require.True(t, ok)
	// One flat AND: no nested And children for plain conditions.
	require.Len(t, and.Children, 4)
	for _, c := range and.Children {
		assert.IsType(t, Cond{}, c)
	}
}

func TestCompose_OrFragmentsStayGrouped(t *testing.T) {
	expr, _ := Compose(testRegistry(), &dtos.SearchWorkersQuery{
		Search: "ali",
		Gender: "male",
		Age:    "60+",
	})

	and, ok := expr.(And)
	require.True(t, ok)
	require.Len(t, and.Children, 3)

	var conds, ors int
	for _, c := range and.Children {
		switch c.(type) {
		case Cond:
			conds++
		case Or:
			ors++
		}
	}
	assert.Equal(t, 1, conds, "gender is a plain condition")
	assert.Equal(t, 2, ors, "search and age keep their OR grouping")
}

func TestCompose_DocumentDimensionsAndTogether(t *testing.T) {
	expr, applied := Compose(testRegistry(), &dtos.SearchWorkersQuery{
		DocumentCategories: []string{"CLEARANCE", "IDENTITY"},
		DocumentStatuses:   []string{"APPROVED"},
		DocumentTypes:      []string{"Police Check"},
	})
	require.Equal(t, []string{"documentCategories", "documentStatuses", "documentTypes"}, applied)

	and, ok := expr.(And)
	require.True(t, ok)
	require.Len(t, and.Children, 3)

	cat := and.Children[0].(Cond)
	assert.Equal(t, OpAnyOf, cat.Op)
	assert.Equal(t, []string{"CLEARANCE", "IDENTITY"}, cat.Value)
}
