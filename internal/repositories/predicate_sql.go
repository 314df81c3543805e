package repositories

import (
	"fmt"
	"strings"

	"github.com/remontasupport/remontamarketplace-sub005/internal/filters"
)

/*
This file renders a filters.Expr tree into a Postgres WHERE clause. The
tree itself is store-independent; everything dialect-specific (column
names, ILIKE, array overlap, EXISTS subqueries for the services and
compliance-document relations) lives here.
*/

// Plain scalar columns on the workers row.
var workerColumns = map[string]string{
	filters.FieldFirstName:   "w.first_name",
	filters.FieldLastName:    "w.last_name",
	filters.FieldEmail:       "w.email",
	filters.FieldPhoneNumber: "w.phone_number",
	filters.FieldGender:      "w.gender",
	filters.FieldDateOfBirth: "w.date_of_birth",
	filters.FieldAge:         "w.age",
}

// text[] columns matched with the && overlap operator.
var arrayColumns = map[string]string{
	filters.FieldLanguages: "w.languages",
	filters.FieldSkills:    "w.skills",
}

// Compliance-document dimensions, matched through an EXISTS subquery.
var documentColumns = map[string]string{
	filters.FieldDocumentCategory: "d.category",
	filters.FieldDocumentStatus:   "d.status",
	filters.FieldDocumentType:     "d.document_type",
}

// translatePredicate renders expr, appending bind values to args and
// numbering placeholders from len(args)+1.
func translatePredicate(expr filters.Expr, args *[]interface{}) (string, error) {
	switch e := expr.(type) {
	case filters.MatchAll:
		return "TRUE", nil

	case filters.And:
		return translateJunction(e.Children, " AND ", args)

	case filters.Or:
		return translateJunction(e.Children, " OR ", args)

	case filters.Cond:
		return translateCond(e, args)

	default:
		return "", fmt.Errorf("unknown predicate node %T", expr)
	}
}

func translateJunction(children []filters.Expr, sep string, args *[]interface{}) (string, error) {
	if len(children) == 0 {
		return "TRUE", nil
	}
	parts := make([]string, 0, len(children))
	for _, c := range children {
		p, err := translatePredicate(c, args)
		if err != nil {
			return "", err
		}
		parts = append(parts, p)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func translateCond(c filters.Cond, args *[]interface{}) (string, error) {
	if c.Op == filters.OpAnyOf {
		return translateAnyOf(c, args)
	}

	col, ok := workerColumns[c.Field]
	if !ok {
		return "", fmt.Errorf("field %q is not filterable with op %q", c.Field, c.Op)
	}

	switch c.Op {
	case filters.OpEq:
		*args = append(*args, c.Value)
		return fmt.Sprintf("%s = $%d", col, len(*args)), nil

	case filters.OpContains:
		term, _ := c.Value.(string)
		*args = append(*args, "%"+escapeLike(term)+"%")
		return fmt.Sprintf("%s ILIKE $%d", col, len(*args)), nil

	case filters.OpGte:
		*args = append(*args, c.Value)
		return fmt.Sprintf("%s >= $%d", col, len(*args)), nil

	case filters.OpLte:
		*args = append(*args, c.Value)
		return fmt.Sprintf("%s <= $%d", col, len(*args)), nil

	case filters.OpIsNull:
		return col + " IS NULL", nil

	case filters.OpNotNull:
		return col + " IS NOT NULL", nil

	default:
		return "", fmt.Errorf("unsupported op %q for field %q", c.Op, c.Field)
	}
}

func translateAnyOf(c filters.Cond, args *[]interface{}) (string, error) {
	values, ok := c.Value.([]string)
	if !ok || len(values) == 0 {
		return "", fmt.Errorf("any_of on %q needs a non-empty string slice", c.Field)
	}

	if col, ok := arrayColumns[c.Field]; ok {
		*args = append(*args, values)
		return fmt.Sprintf("%s && $%d", col, len(*args)), nil
	}

	if c.Field == filters.FieldServices {
		*args = append(*args, values)
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM worker_services ws JOIN services s ON s.id = ws.service_id WHERE ws.worker_id = w.id AND s.name = ANY($%d))",
			len(*args),
		), nil
	}

	if col, ok := documentColumns[c.Field]; ok {
		*args = append(*args, values)
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM compliance_documents d WHERE d.worker_id = w.id AND %s = ANY($%d))",
			col, len(*args),
		), nil
	}

	return "", fmt.Errorf("field %q does not support any_of", c.Field)
}

// escapeLike neutralizes LIKE wildcards in user input so a term like
// "100%" matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
