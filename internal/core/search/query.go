// Package search turns a free-text query and structured filters into the
// structured job query sent to the search index.
package search

import (
	"strings"

	"github.com/jobboard/jobboard-api/internal/core/domain"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100

	suggestMinLength = 3
	suggestSize      = 10
)

// Index field names shared by the query builder and the index mapping.
const (
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldRequirements    = "requirements"
	FieldCompanyName     = "company_name"
	FieldCompanyIndustry = "company_industry"
	FieldLocation        = "location"
	FieldLocationRaw     = "location.raw"
	FieldEmploymentType  = "employment_type"
	FieldRemote          = "remote"
	FieldSalaryMin       = "salary_min"
	FieldSalaryMax       = "salary_max"
	FieldStatus          = "status"
	FieldCreatedAt       = "created_at"
	FieldTitleSuggest    = "title.suggest"
)

// Filters are the optional structured constraints. Each one set becomes an
// independent filter clause.
type Filters struct {
	Location        string
	EmploymentType  string
	Remote          *bool
	SalaryMin       *int64
	SalaryMax       *int64
	CompanyIndustry string
}

// Empty reports whether no filter was supplied.
func (f Filters) Empty() bool {
	return strings.TrimSpace(f.Location) == "" &&
		strings.TrimSpace(f.EmploymentType) == "" &&
		f.Remote == nil &&
		f.SalaryMin == nil &&
		f.SalaryMax == nil &&
		strings.TrimSpace(f.CompanyIndustry) == ""
}

// Request is the caller-facing job search input.
type Request struct {
	Text    string
	Filters Filters
	Page    int
	PerPage int
}

type ClauseKind string

const (
	ClauseMultiMatch ClauseKind = "multi_match"
	ClauseMatchAll   ClauseKind = "match_all"
	ClausePartial    ClauseKind = "partial"
	ClauseTerm       ClauseKind = "term"
	ClauseRange      ClauseKind = "range"
)

// WeightedField is a scored field with its boost.
type WeightedField struct {
	Name  string
	Boost float64
}

// Clause is one backend-neutral query condition.
type Clause struct {
	Kind   ClauseKind
	Field  string
	Value  any
	Fields []WeightedField
	Fuzzy  bool
	Gte    *int64
	Lte    *int64
}

type SortField struct {
	Field string
	Desc  bool
}

// Aggregation is a terms bucket requested alongside the results.
type Aggregation struct {
	Name  string
	Field string
}

// Query is the structured job query. Match is scored; Filters are boolean and ANDed.
type Query struct {
	Text         string
	Match        Clause
	Filters      []Clause
	Sort         []SortField
	Highlight    []string
	Aggregations []Aggregation
	From         int
	Size         int
}

var textFields = []WeightedField{
	{Name: FieldTitle, Boost: 2},
	{Name: FieldDescription, Boost: 1},
	{Name: FieldRequirements, Boost: 1},
	{Name: FieldCompanyName, Boost: 1},
}

var facets = []Aggregation{
	{Name: "employment_types", Field: FieldEmploymentType},
	{Name: "remote", Field: FieldRemote},
	{Name: "industries", Field: FieldCompanyIndustry},
}

// BuildJobQuery validates the request and builds the job query. It fails with
// domain.ErrMissingQuery when neither text nor any filter is present.
func BuildJobQuery(req Request) (*Query, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" && req.Filters.Empty() {
		return nil, domain.ErrMissingQuery
	}
	if err := validateFilters(req.Filters); err != nil {
		return nil, err
	}

	page, perPage := Paginate(req.Page, req.PerPage)
	q := &Query{
		Text:         text,
		Sort:         []SortField{{Field: FieldCreatedAt, Desc: true}},
		Aggregations: facets,
		From:         (page - 1) * perPage,
		Size:         perPage,
	}

	if text != "" {
		q.Match = Clause{Kind: ClauseMultiMatch, Value: text, Fields: textFields, Fuzzy: true}
		for _, f := range textFields {
			q.Highlight = append(q.Highlight, f.Name)
		}
	} else {
		q.Match = Clause{Kind: ClauseMatchAll}
	}

	f := req.Filters
	if loc := strings.TrimSpace(f.Location); loc != "" {
		q.Filters = append(q.Filters, Clause{Kind: ClausePartial, Field: FieldLocationRaw, Value: loc})
	}
	if et := strings.TrimSpace(f.EmploymentType); et != "" {
		q.Filters = append(q.Filters, Clause{Kind: ClauseTerm, Field: FieldEmploymentType, Value: et})
	}
	if f.Remote != nil {
		q.Filters = append(q.Filters, Clause{Kind: ClauseTerm, Field: FieldRemote, Value: *f.Remote})
	}
	if f.SalaryMin != nil || f.SalaryMax != nil {
		q.Filters = append(q.Filters, Clause{Kind: ClauseRange, Field: FieldSalaryMin, Gte: f.SalaryMin, Lte: f.SalaryMax})
	}
	if ind := strings.TrimSpace(f.CompanyIndustry); ind != "" {
		q.Filters = append(q.Filters, Clause{Kind: ClauseTerm, Field: FieldCompanyIndustry, Value: ind})
	}
	q.Filters = append(q.Filters, Clause{Kind: ClauseTerm, Field: FieldStatus, Value: string(domain.JobActive)})

	return q, nil
}

func validateFilters(f Filters) error {
	verr := &domain.ValidationError{}
	if et := strings.TrimSpace(f.EmploymentType); et != "" {
		switch domain.EmploymentType(et) {
		case domain.FullTime, domain.PartTime, domain.Contract, domain.Freelance, domain.Internship:
		default:
			verr.Add("employment_type", "employment_type must be one of: full_time part_time contract freelance internship")
		}
	}
	if f.SalaryMin != nil && *f.SalaryMin < 0 {
		verr.Add("salary_min", "salary_min must be greater than or equal to 0")
	}
	if f.SalaryMax != nil && *f.SalaryMax < 0 {
		verr.Add("salary_max", "salary_max must be greater than or equal to 0")
	}
	if f.SalaryMin != nil && f.SalaryMax != nil && *f.SalaryMax < *f.SalaryMin {
		verr.Add("salary_max", "salary_max must be greater than or equal to salary_min")
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// Paginate normalises a 1-based page and page size.
func Paginate(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// SuggestQuery is a prefix completion lookup on job titles.
type SuggestQuery struct {
	Prefix string
	Field  string
	Size   int
}

// BuildSuggestQuery returns a completion query for text longer than two
// characters, and false otherwise.
func BuildSuggestQuery(text string) (*SuggestQuery, bool) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < suggestMinLength {
		return nil, false
	}
	return &SuggestQuery{Prefix: text, Field: FieldTitleSuggest, Size: suggestSize}, true
}
