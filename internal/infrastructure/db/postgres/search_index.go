package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/core/search"
)

// SearchIndex runs structured job queries directly against the jobs table.
// It serves deployments without an Elasticsearch cluster; the store is the
// index, so IndexJob and DeleteJob have nothing to do.
type SearchIndex struct {
	store *Store
}

func NewSearchIndex(store *Store) *SearchIndex {
	return &SearchIndex{store: store}
}

var jobColumns = map[string]string{
	search.FieldTitle:          "jobs.title",
	search.FieldDescription:    "jobs.description",
	search.FieldRequirements:   "jobs.requirements",
	search.FieldLocation:       "jobs.location",
	search.FieldLocationRaw:    "jobs.location",
	search.FieldEmploymentType: "jobs.employment_type",
	search.FieldRemote:         "jobs.remote",
	search.FieldSalaryMin:      "jobs.salary_min",
	search.FieldSalaryMax:      "jobs.salary_max",
	search.FieldStatus:         "jobs.status",
	search.FieldCreatedAt:      "jobs.created_at",
}

func (x *SearchIndex) companiesWhere(cond string, arg any) *gorm.DB {
	return x.store.db.Session(&gorm.Session{NewDB: true}).Model(&domain.Company{}).Select("id").Where(cond, arg)
}

// apply translates the match and filter clauses into WHERE conditions.
func (x *SearchIndex) apply(db *gorm.DB, q *search.Query) (*gorm.DB, error) {
	if q.Match.Kind == search.ClauseMultiMatch {
		pattern := likePattern(fmt.Sprint(q.Match.Value))
		var parts []string
		var args []any
		for _, f := range q.Match.Fields {
			if f.Name == search.FieldCompanyName {
				parts = append(parts, "jobs.company_id IN (?)")
				args = append(args, x.companiesWhere(`LOWER(name) LIKE ? ESCAPE '\'`, pattern))
				continue
			}
			col, ok := jobColumns[f.Name]
			if !ok {
				return nil, fmt.Errorf("unsupported text field %q", f.Name)
			}
			parts = append(parts, "LOWER("+col+`) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		db = db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}

	for _, c := range q.Filters {
		if c.Field == search.FieldCompanyIndustry {
			if c.Kind != search.ClauseTerm {
				return nil, fmt.Errorf("unsupported %s clause on %s", c.Kind, c.Field)
			}
			db = db.Where("jobs.company_id IN (?)", x.companiesWhere("industry = ?", c.Value))
			continue
		}
		col, ok := jobColumns[c.Field]
		if !ok {
			return nil, fmt.Errorf("unsupported filter field %q", c.Field)
		}
		switch c.Kind {
		case search.ClauseTerm:
			db = db.Where(col+" = ?", c.Value)
		case search.ClausePartial:
			db = containsAny(db, likePattern(fmt.Sprint(c.Value)), col)
		case search.ClauseRange:
			if c.Gte != nil {
				db = db.Where(col+" >= ?", *c.Gte)
			}
			if c.Lte != nil {
				db = db.Where(col+" <= ?", *c.Lte)
			}
		default:
			return nil, fmt.Errorf("unsupported %s clause on %s", c.Kind, c.Field)
		}
	}
	return db, nil
}

func (x *SearchIndex) SearchJobs(ctx context.Context, q *search.Query) (*ports.SearchHits, error) {
	base, err := x.apply(x.store.db.WithContext(ctx).Model(&domain.Job{}), q)
	if err != nil {
		return nil, err
	}
	base = base.Session(&gorm.Session{})

	hits := &ports.SearchHits{Aggregations: map[string]map[string]int64{}}
	if err := base.Count(&hits.Total).Error; err != nil {
		return nil, err
	}

	page := base
	for _, s := range q.Sort {
		col, ok := jobColumns[s.Field]
		if !ok {
			continue
		}
		if s.Desc {
			col += " DESC"
		}
		page = page.Order(col)
	}
	if err := page.Offset(q.From).Limit(q.Size).Pluck("jobs.id", &hits.IDs).Error; err != nil {
		return nil, err
	}

	for _, agg := range q.Aggregations {
		buckets, err := x.aggregate(base, agg)
		if err != nil {
			return nil, err
		}
		hits.Aggregations[agg.Name] = buckets
	}
	return hits, nil
}

func (x *SearchIndex) aggregate(base *gorm.DB, agg search.Aggregation) (map[string]int64, error) {
	buckets := map[string]int64{}
	switch agg.Field {
	case search.FieldRemote:
		var rows []struct {
			Bucket bool
			N      int64
		}
		if err := base.Select("jobs.remote AS bucket, COUNT(*) AS n").Group("jobs.remote").Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			buckets[strconv.FormatBool(r.Bucket)] = r.N
		}
		return buckets, nil
	case search.FieldCompanyIndustry:
		var rows []struct {
			Bucket string
			N      int64
		}
		err := base.Select("companies.industry AS bucket, COUNT(*) AS n").
			Joins("JOIN companies ON companies.id = jobs.company_id").
			Group("companies.industry").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			buckets[r.Bucket] = r.N
		}
		return buckets, nil
	}

	col, ok := jobColumns[agg.Field]
	if !ok {
		return nil, fmt.Errorf("unsupported aggregation field %q", agg.Field)
	}
	var rows []struct {
		Bucket string
		N      int64
	}
	if err := base.Select(col + " AS bucket, COUNT(*) AS n").Group(col).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		buckets[r.Bucket] = r.N
	}
	return buckets, nil
}

// Suggest returns distinct titles of active jobs starting with the prefix.
func (x *SearchIndex) Suggest(ctx context.Context, q *search.SuggestQuery) ([]string, error) {
	prefix := escapeLike(q.Prefix) + "%"
	var titles []string
	err := x.store.db.WithContext(ctx).Model(&domain.Job{}).
		Distinct("title").
		Where(`LOWER(title) LIKE ? ESCAPE '\'`, prefix).
		Where("status = ?", domain.JobActive).
		Order("title").
		Limit(q.Size).
		Pluck("title", &titles).Error
	return titles, err
}

func (x *SearchIndex) IndexJob(context.Context, ports.JobDocument) error { return nil }

func (x *SearchIndex) DeleteJob(context.Context, string) error { return nil }
