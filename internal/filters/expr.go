package filters

/*
Expr is a store-independent predicate over worker profiles: a tagged union
of And / Or / Cond / MatchAll. Filters produce fragments of this tree and
the composer joins them; the repository layer translates the finished tree
into SQL. Nothing here knows about the database.
*/
type Expr interface {
	isExpr()
}

type Op string

const (
	// OpEq is an exact match (after whatever canonicalization the filter did).
	OpEq Op = "eq"
	// OpContains is a case-insensitive substring match.
	OpContains Op = "contains"
	OpGte      Op = "gte"
	OpLte      Op = "lte"
	// OpAnyOf matches when the profile's set for the field shares at least
	// one element with Value ([]string).
	OpAnyOf   Op = "any_of"
	OpIsNull  Op = "is_null"
	OpNotNull Op = "not_null"
)

// Field names understood by the SQL translator.
const (
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldEmail       = "email"
	FieldPhoneNumber = "phone_number"
	FieldGender      = "gender"
	FieldDateOfBirth = "date_of_birth"
	FieldAge         = "age"
	FieldServices    = "services"
	FieldLanguages   = "languages"
	FieldSkills      = "skills"

	FieldDocumentCategory = "document_category"
	FieldDocumentStatus   = "document_status"
	FieldDocumentType     = "document_type"
)

type Cond struct {
	Field string
	Op    Op
	Value any
}

type And struct {
	Children []Expr
}

type Or struct {
	Children []Expr
}

// MatchAll is the predicate produced when no filter applies.
type MatchAll struct{}

func (Cond) isExpr()     {}
func (And) isExpr()      {}
func (Or) isExpr()       {}
func (MatchAll) isExpr() {}

func NewAnd(children ...Expr) And { return And{Children: children} }
func NewOr(children ...Expr) Or   { return Or{Children: children} }

func Eq(field string, v any) Cond       { return Cond{Field: field, Op: OpEq, Value: v} }
func Contains(field, s string) Cond     { return Cond{Field: field, Op: OpContains, Value: s} }
func Gte(field string, v any) Cond      { return Cond{Field: field, Op: OpGte, Value: v} }
func Lte(field string, v any) Cond      { return Cond{Field: field, Op: OpLte, Value: v} }
func AnyOf(field string, vs []string) Cond {
	return Cond{Field: field, Op: OpAnyOf, Value: vs}
}
func IsNull(field string) Cond  { return Cond{Field: field, Op: OpIsNull} }
func NotNull(field string) Cond { return Cond{Field: field, Op: OpNotNull} }
