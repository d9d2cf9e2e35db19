package search

import (
	"strconv"
	"strings"
)

// Source renders the query as an Elasticsearch request body.
func (q *Query) Source() map[string]any {
	filters := make([]any, 0, len(q.Filters))
	for _, c := range q.Filters {
		filters = append(filters, c.source())
	}

	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":   []any{q.Match.source()},
				"filter": filters,
			},
		},
		"from":             q.From,
		"size":             q.Size,
		"track_total_hits": true,
	}

	if len(q.Sort) > 0 {
		sort := make([]any, 0, len(q.Sort))
		for _, s := range q.Sort {
			order := "asc"
			if s.Desc {
				order = "desc"
			}
			sort = append(sort, map[string]any{s.Field: map[string]any{"order": order}})
		}
		body["sort"] = sort
	}

	if len(q.Highlight) > 0 {
		fields := make(map[string]any, len(q.Highlight))
		for _, f := range q.Highlight {
			fields[f] = map[string]any{}
		}
		body["highlight"] = map[string]any{"fields": fields}
	}

	if len(q.Aggregations) > 0 {
		aggs := make(map[string]any, len(q.Aggregations))
		for _, a := range q.Aggregations {
			aggs[a.Name] = map[string]any{"terms": map[string]any{"field": a.Field}}
		}
		body["aggs"] = aggs
	}

	return body
}

func (c Clause) source() map[string]any {
	switch c.Kind {
	case ClauseMultiMatch:
		fields := make([]string, 0, len(c.Fields))
		for _, f := range c.Fields {
			fields = append(fields, f.String())
		}
		mm := map[string]any{
			"query":  c.Value,
			"fields": fields,
			"type":   "best_fields",
		}
		if c.Fuzzy {
			mm["fuzziness"] = "AUTO"
		}
		return map[string]any{"multi_match": mm}
	case ClausePartial:
		s, _ := c.Value.(string)
		return map[string]any{"wildcard": map[string]any{
			c.Field: map[string]any{
				"value":            "*" + escapeWildcard(s) + "*",
				"case_insensitive": true,
			},
		}}
	case ClauseTerm:
		return map[string]any{"term": map[string]any{c.Field: c.Value}}
	case ClauseRange:
		bounds := map[string]any{}
		if c.Gte != nil {
			bounds["gte"] = *c.Gte
		}
		if c.Lte != nil {
			bounds["lte"] = *c.Lte
		}
		return map[string]any{"range": map[string]any{c.Field: bounds}}
	default:
		return map[string]any{"match_all": map[string]any{}}
	}
}

func (f WeightedField) String() string {
	if f.Boost == 0 || f.Boost == 1 {
		return f.Name
	}
	return f.Name + "^" + strconv.FormatFloat(f.Boost, 'f', -1, 64)
}

// Source renders the completion suggester request body.
func (s *SuggestQuery) Source() map[string]any {
	return map[string]any{
		"_source": false,
		"suggest": map[string]any{
			"title_suggest": map[string]any{
				"prefix": s.Prefix,
				"completion": map[string]any{
					"field":           s.Field,
					"size":            s.Size,
					"skip_duplicates": true,
				},
			},
		},
	}
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func escapeWildcard(s string) string {
	return wildcardEscaper.Replace(s)
}
