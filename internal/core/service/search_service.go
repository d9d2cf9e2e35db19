package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/core/search"
)

// suggestTimeout bounds how long a search waits on title suggestions.
const suggestTimeout = 200 * time.Millisecond

// SearchService runs job searches against the index and profile searches
// against the relational store.
type SearchService struct {
	index     ports.SearchIndex
	jobs      ports.JobRepository
	companies ports.CompanyRepository
	seekers   ports.JobSeekerRepository
	now       func() time.Time
	log       zerolog.Logger

	suggestTimeout time.Duration
}

func NewSearchService(
	index ports.SearchIndex,
	jobs ports.JobRepository,
	companies ports.CompanyRepository,
	seekers ports.JobSeekerRepository,
	log zerolog.Logger,
) *SearchService {
	return &SearchService{
		index:          index,
		jobs:           jobs,
		companies:      companies,
		seekers:        seekers,
		now:            time.Now,
		log:            log,
		suggestTimeout: suggestTimeout,
	}
}

// SearchJobs returns active jobs matching the request, newest first. Title
// suggestions are fetched alongside under their own short timeout and degrade
// to an empty list on failure.
func (s *SearchService) SearchJobs(ctx context.Context, actor policy.Actor, req search.Request) (*ports.JobSearchResult, error) {
	if err := policy.AuthorizeJob(actor, policy.Index, domain.JobOwnership{}); err != nil {
		return nil, err
	}
	q, err := search.BuildJobQuery(req)
	if err != nil {
		return nil, err
	}

	var (
		hits        *ports.SearchHits
		suggestions = []string{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := s.index.SearchJobs(gctx, q)
		if err != nil {
			return fmt.Errorf("search jobs: %w", err)
		}
		hits = h
		return nil
	})
	if sq, ok := search.BuildSuggestQuery(req.Text); ok {
		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, s.suggestTimeout)
			defer cancel()
			out, err := s.index.Suggest(sctx, sq)
			if err != nil {
				s.log.Warn().Err(err).Str("prefix", sq.Prefix).Msg("title suggestions unavailable")
				return nil
			}
			if out != nil {
				suggestions = out
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	jobs, err := s.jobs.FindJobsByIDs(ctx, hits.IDs)
	if err != nil {
		return nil, fmt.Errorf("search jobs: load: %w", err)
	}
	byID := make(map[string]*domain.Job, len(jobs))
	for i := range jobs {
		byID[jobs[i].ID] = &jobs[i]
	}

	now := s.now()
	views := make([]ports.JobView, 0, len(hits.IDs))
	for _, id := range hits.IDs {
		job, ok := byID[id]
		// The index lags the store; drop hits that vanished or stopped being active.
		if !ok || job.Status != domain.JobActive {
			continue
		}
		v := jobView(job, now)
		v.Highlights = hits.Highlights[id]
		views = append(views, v)
	}

	page, perPage := search.Paginate(req.Page, req.PerPage)
	return &ports.JobSearchResult{
		Jobs:         views,
		Total:        hits.Total,
		Page:         page,
		PerPage:      perPage,
		Aggregations: hits.Aggregations,
		Suggestions:  suggestions,
	}, nil
}

// SearchCompanies matches name or description by substring, ANDed with the
// industry and size filters.
func (s *SearchService) SearchCompanies(ctx context.Context, actor policy.Actor, filter ports.CompanyFilter) (ports.Page[domain.Company], error) {
	if err := policy.AuthorizeProfile(actor, policy.Index, ""); err != nil {
		return ports.Page[domain.Company]{}, err
	}
	filter.Pagination = filter.Pagination.Normalize()
	items, total, err := s.companies.SearchCompanies(ctx, filter)
	if err != nil {
		return ports.Page[domain.Company]{}, fmt.Errorf("search companies: %w", err)
	}
	return ports.NewPage(items, total, filter.Pagination), nil
}

// SearchJobSeekers matches first name, last name or bio by substring, ANDed
// with location, minimum experience and any-of skill filters.
func (s *SearchService) SearchJobSeekers(ctx context.Context, actor policy.Actor, filter ports.JobSeekerFilter) (ports.Page[domain.JobSeeker], error) {
	if err := policy.AuthorizeProfile(actor, policy.Index, ""); err != nil {
		return ports.Page[domain.JobSeeker]{}, err
	}
	if filter.MinExperience != nil && *filter.MinExperience < 0 {
		return ports.Page[domain.JobSeeker]{}, domain.NewValidationError("experience_years", "experience_years must be greater than or equal to 0")
	}
	filter.Pagination = filter.Pagination.Normalize()
	items, total, err := s.seekers.SearchJobSeekers(ctx, filter)
	if err != nil {
		return ports.Page[domain.JobSeeker]{}, fmt.Errorf("search job seekers: %w", err)
	}
	return ports.NewPage(items, total, filter.Pagination), nil
}
