package filters

import "github.com/remontasupport/remontamarketplace-sub005/internal/dtos"

/*
Compose runs every registered filter against the query and joins the
resulting fragments:

  - fragments are partitioned into OR-rooted groups and plain conditions;
  - plain fragments merge into one flat AND;
  - each OR-rooted fragment becomes a single AND-ed clause, so values
    *within* one filter combine via OR while *different* filters combine
    via AND;
  - exactly one OR fragment and nothing else → returned unwrapped;
  - no fragments at all → MatchAll.

The second return value lists the names of the filters that applied, for
the response's applied_filters field.
*/
func Compose(registry []Filter, q *dtos.SearchWorkersQuery) (Expr, []string) {
	var (
		plain   []Expr
		orRoots []Expr
		applied []string
	)

	for _, f := range registry {
		frag := f.Compile(q)
		if frag == nil {
			continue
		}
		applied = append(applied, f.Name())

		switch frag := frag.(type) {
		case Or:
			orRoots = append(orRoots, frag)
		case And:
			// Flatten so sibling conditions land in one AND object.
			plain = append(plain, frag.Children...)
		default:
			plain = append(plain, frag)
		}
	}

	if len(plain) == 0 && len(orRoots) == 0 {
		return MatchAll{}, applied
	}
	if len(plain) == 0 && len(orRoots) == 1 {
		return orRoots[0], applied
	}

	children := make([]Expr, 0, len(plain)+len(orRoots))
	children = append(children, plain...)
	children = append(children, orRoots...)
	return And{Children: children}, applied
}
