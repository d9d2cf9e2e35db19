package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobboard/jobboard-api/internal/core/search"
)

func TestSearchIndex_TextAndFilters(t *testing.T) {
	s := setupTestStore(t)
	seedBoard(t, s)
	idx := NewSearchIndex(s)

	q, err := search.BuildJobQuery(search.Request{Text: "developer"})
	require.NoError(t, err)

	hits, err := idx.SearchJobs(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"j-go"}, hits.IDs, "drafts are filtered out")
	assert.Equal(t, int64(1), hits.Total)
	assert.Equal(t, int64(1), hits.Aggregations["remote"]["true"])
}

func TestSearchIndex_CompanyFields(t *testing.T) {
	s := setupTestStore(t)
	seedBoard(t, s)
	idx := NewSearchIndex(s)

	q, err := search.BuildJobQuery(search.Request{Text: "globex"})
	require.NoError(t, err)
	hits, err := idx.SearchJobs(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"j-energy"}, hits.IDs)

	q, err = search.BuildJobQuery(search.Request{Filters: search.Filters{CompanyIndustry: "Software"}})
	require.NoError(t, err)
	hits, err = idx.SearchJobs(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"j-go"}, hits.IDs)
	assert.Equal(t, int64(1), hits.Aggregations["industries"]["Software"])
}

func TestSearchIndex_NewestFirstWithSalaryRange(t *testing.T) {
	s := setupTestStore(t)
	seedBoard(t, s)
	idx := NewSearchIndex(s)

	q, err := search.BuildJobQuery(search.Request{Filters: search.Filters{Location: "BERLIN"}})
	require.NoError(t, err)
	hits, err := idx.SearchJobs(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []string{"j-go", "j-energy"}, hits.IDs)
	assert.Equal(t, int64(2), hits.Aggregations["employment_types"]["full_time"])

	min := int64(70000)
	q, err = search.BuildJobQuery(search.Request{Filters: search.Filters{SalaryMin: &min}})
	require.NoError(t, err)
	hits, err = idx.SearchJobs(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, hits.IDs, "the range applies to the job's salary_min")
}

func TestSearchIndex_Suggest(t *testing.T) {
	s := setupTestStore(t)
	seedBoard(t, s)
	idx := NewSearchIndex(s)

	sq, ok := search.BuildSuggestQuery("gri")
	require.True(t, ok)
	titles, err := idx.Suggest(context.Background(), sq)
	require.NoError(t, err)
	assert.Equal(t, []string{"Grid Engineer"}, titles)

	sq, _ = search.BuildSuggestQuery("rub")
	titles, err = idx.Suggest(context.Background(), sq)
	require.NoError(t, err)
	assert.Empty(t, titles, "draft titles are not suggested")
}
