package specification

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// PromptSort is an allow-listed ordering for the library listing.
type PromptSort string

const (
	SortCreatedAtDesc PromptSort = "created_at_desc"
	SortCreatedAtAsc  PromptSort = "created_at_asc"
	SortTitleAsc      PromptSort = "title_asc"
	SortTitleDesc     PromptSort = "title_desc"
	SortRatingDesc    PromptSort = "rating_desc"
	SortRatingAsc     PromptSort = "rating_asc"

	DefaultPromptSort = SortCreatedAtDesc
)

// promptOrderClauses is the only source of ORDER BY text. Request input selects a key, never a column.
var promptOrderClauses = map[PromptSort]string{
	SortCreatedAtDesc: "p.created_at DESC, p.id DESC",
	SortCreatedAtAsc:  "p.created_at ASC, p.id ASC",
	SortTitleAsc:      "p.title ASC, p.id ASC",
	SortTitleDesc:     "p.title DESC, p.id DESC",
	SortRatingDesc:    "p.rating DESC NULLS LAST, p.id DESC",
	SortRatingAsc:     "p.rating ASC NULLS LAST, p.id ASC",
}

const (
	promptListColumns = `p.id, p.title, p.prompt_text, p.rating, p.output_status, p.tags,
	p.is_favorite, p.usage_count, p.attachment_filename, p.ai_tool_id, p.category_id,
	p.created_at, p.updated_at,
	t.name AS ai_tool_name, t.color_hex AS ai_tool_color,
	c.name AS category_name, c.image_url AS category_image`
	promptListToolJoin     = "LEFT JOIN ai_tools t ON p.ai_tool_id = t.id"
	promptListCategoryJoin = "LEFT JOIN categories c ON p.category_id = c.id"

	promptListBaseSQL = "SELECT " + promptListColumns + "\nFROM prompts p\n" +
		promptListToolJoin + "\n" + promptListCategoryJoin
)

// ParsePromptSort resolves a sort key, falling back to the default for anything unknown.
func ParsePromptSort(raw string) PromptSort {
	s := PromptSort(strings.TrimSpace(raw))
	if _, ok := promptOrderClauses[s]; ok {
		return s
	}
	return DefaultPromptSort
}

// PromptFilter is the validated form of the listing query string.
type PromptFilter struct {
	Search        string
	ToolID        *uint
	CategoryID    *uint
	MinRating     *float64
	FavoritesOnly bool
	Sort          PromptSort
}

// FilterError reports a query-string value that failed validation.
type FilterError struct {
	Field string
	Value string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid %s filter: %q", e.Field, e.Value)
}

// ParsePromptFilter validates raw query values. Empty values are treated as absent.
func ParsePromptFilter(values map[string]string) (PromptFilter, error) {
	filter := PromptFilter{
		Search:        strings.TrimSpace(values["search"]),
		FavoritesOnly: values["favoritesOnly"] == "true",
		Sort:          ParsePromptSort(values["sort"]),
	}

	var err error
	if filter.ToolID, err = parseFilterID("tool", values["tool"]); err != nil {
		return PromptFilter{}, err
	}
	if filter.CategoryID, err = parseFilterID("category", values["category"]); err != nil {
		return PromptFilter{}, err
	}

	if raw := strings.TrimSpace(values["rating"]); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) || rating < 0 || rating > 5 {
			return PromptFilter{}, &FilterError{Field: "rating", Value: raw}
		}
		filter.MinRating = &rating
	}

	return filter, nil
}

func parseFilterID(field, raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil, &FilterError{Field: field, Value: raw}
	}
	v := uint(id)
	return &v, nil
}

// Predicate is one WHERE fragment bound to exactly one value.
// Every '?' in Clause refers to that same value.
type Predicate struct {
	Clause string
	Value  interface{}
}

// PredicateBuilder returns nil when its filter is absent.
type PredicateBuilder func(f PromptFilter) *Predicate

// PromptPredicates is evaluated in order; the order fixes parameter numbering.
var PromptPredicates = []PredicateBuilder{
	favoritesPredicate,
	searchPredicate,
	toolPredicate,
	categoryPredicate,
	ratingPredicate,
}

func favoritesPredicate(f PromptFilter) *Predicate {
	if !f.FavoritesOnly {
		return nil
	}
	return &Predicate{Clause: "p.is_favorite = ?", Value: true}
}

func searchPredicate(f PromptFilter) *Predicate {
	if f.Search == "" {
		return nil
	}
	return &Predicate{
		Clause: "(p.title ILIKE ? OR p.prompt_text ILIKE ?)",
		Value:  "%" + escapeLike(f.Search) + "%",
	}
}

func toolPredicate(f PromptFilter) *Predicate {
	if f.ToolID == nil {
		return nil
	}
	return &Predicate{Clause: "p.ai_tool_id = ?", Value: *f.ToolID}
}

func categoryPredicate(f PromptFilter) *Predicate {
	if f.CategoryID == nil {
		return nil
	}
	return &Predicate{Clause: "p.category_id = ?", Value: *f.CategoryID}
}

func ratingPredicate(f PromptFilter) *Predicate {
	if f.MinRating == nil {
		return nil
	}
	// rating is a smallint, so a fractional minimum rounds up to the next whole star.
	return &Predicate{Clause: "p.rating >= ?", Value: int(math.Ceil(*f.MinRating))}
}

// escapeLike makes % and _ in user input match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// PromptListQuery is the folded result of the predicate builders.
type PromptListQuery struct {
	Predicates []Predicate
	OrderBy    string
}

func BuildPromptListQuery(f PromptFilter) PromptListQuery {
	q := PromptListQuery{
		Predicates: make([]Predicate, 0, len(PromptPredicates)),
		OrderBy:    promptOrderClauses[ParsePromptSort(string(f.Sort))],
	}
	for _, build := range PromptPredicates {
		if p := build(f); p != nil {
			q.Predicates = append(q.Predicates, *p)
		}
	}
	return q
}

// SQL renders the statement with PostgreSQL positional parameters, one per predicate.
func (q PromptListQuery) SQL() (string, []interface{}) {
	var b strings.Builder
	b.WriteString(promptListBaseSQL)

	args := make([]interface{}, 0, len(q.Predicates))
	for i, p := range q.Predicates {
		if i == 0 {
			b.WriteString("\nWHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, p.Value)
		b.WriteString(strings.ReplaceAll(p.Clause, "?", "$"+strconv.Itoa(len(args))))
	}

	b.WriteString("\nORDER BY ")
	b.WriteString(q.OrderBy)
	return b.String(), args
}

var _ Specification = PromptListQuery{}

// Apply builds the same listing through gorm. gorm numbers every '?' on its
// own, so a clause that repeats its placeholder gets the value once per use.
func (q PromptListQuery) Apply(db *gorm.DB) *gorm.DB {
	db = db.Table("prompts AS p").
		Select(promptListColumns).
		Joins(promptListToolJoin).
		Joins(promptListCategoryJoin)
	for _, p := range q.Predicates {
		n := strings.Count(p.Clause, "?")
		values := make([]interface{}, n)
		for i := range values {
			values[i] = p.Value
		}
		db = db.Where(p.Clause, values...)
	}
	return db.Order(q.OrderBy)
}
