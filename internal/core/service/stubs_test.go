package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jobboard/jobboard-api/internal/core/domain"
	"github.com/jobboard/jobboard-api/internal/core/policy"
	"github.com/jobboard/jobboard-api/internal/core/ports"
	"github.com/jobboard/jobboard-api/internal/core/search"
)

// ---------------------------------------------------------------------------
// In-memory store implementing every repository port
// ---------------------------------------------------------------------------

type memStore struct {
	mu           sync.Mutex
	users        map[string]*domain.User
	companies    map[string]*domain.Company
	seekers      map[string]*domain.JobSeeker
	jobs         map[string]*domain.Job
	apps         map[string]*domain.JobApplication
	categories   map[string]*domain.Category
	skills       map[string]*domain.Skill
	seekerSkills map[string]map[string]domain.JobSeekerSkill

	// beforeSave runs inside SaveApplication before the status comparison,
	// letting tests simulate a concurrent writer.
	beforeSave func(stored *domain.JobApplication)
	saveCalls  int
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[string]*domain.User{},
		companies:    map[string]*domain.Company{},
		seekers:      map[string]*domain.JobSeeker{},
		jobs:         map[string]*domain.Job{},
		apps:         map[string]*domain.JobApplication{},
		categories:   map[string]*domain.Category{},
		skills:       map[string]*domain.Skill{},
		seekerSkills: map[string]map[string]domain.JobSeekerSkill{},
	}
}

// seedCompany stores a company user with its profile.
func (m *memStore) seedCompany(userID, companyID, name string) {
	m.users[userID] = &domain.User{ID: userID, Email: userID + "@example.com", Role: domain.RoleCompany}
	m.companies[companyID] = &domain.Company{ID: companyID, UserID: userID, Name: name, Industry: "Software", Size: domain.SizeSmall, Description: "A company that ships software."}
}

// seedSeeker stores a job seeker user with its profile.
func (m *memStore) seedSeeker(userID, seekerID, first, last string) {
	m.users[userID] = &domain.User{ID: userID, Email: userID + "@example.com", Role: domain.RoleJobSeeker}
	m.seekers[seekerID] = &domain.JobSeeker{ID: seekerID, UserID: userID, FirstName: first, LastName: last, Location: "Berlin"}
}

func (m *memStore) seedJob(id, companyID string, status domain.JobStatus, createdAt time.Time) {
	m.jobs[id] = &domain.Job{
		ID:             id,
		CompanyID:      companyID,
		Title:          "Job " + id,
		Description:    "A long enough description for the job.",
		Requirements:   "Some requirements here.",
		Location:       "Remote",
		EmploymentType: domain.FullTime,
		Status:         status,
		CreatedAt:      createdAt,
	}
}

func (m *memStore) seedApplication(id, jobID, seekerID string, status domain.ApplicationStatus, appliedAt time.Time) {
	m.apps[id] = &domain.JobApplication{ID: id, JobID: jobID, JobSeekerID: seekerID, Status: status, AppliedAt: appliedAt, CreatedAt: appliedAt}
}

func (m *memStore) jobCopy(j *domain.Job) *domain.Job {
	c := *j
	if co, ok := m.companies[j.CompanyID]; ok {
		cc := *co
		c.Company = &cc
	}
	return &c
}

func (m *memStore) appCopy(a *domain.JobApplication) *domain.JobApplication {
	c := *a
	if j, ok := m.jobs[a.JobID]; ok {
		c.Job = m.jobCopy(j)
	}
	if s, ok := m.seekers[a.JobSeekerID]; ok {
		sc := *s
		c.JobSeeker = &sc
	}
	return &c
}

// users

func (m *memStore) CreateWithProfile(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	c := *u
	c.Company, c.JobSeeker = nil, nil
	m.users[u.ID] = &c
	if u.Company != nil {
		cc := *u.Company
		m.companies[cc.ID] = &cc
	}
	if u.JobSeeker != nil {
		sc := *u.JobSeeker
		m.seekers[sc.ID] = &sc
	}
	return nil
}

func (m *memStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	var id string
	for _, u := range m.users {
		if u.Email == email {
			id = u.ID
		}
	}
	m.mu.Unlock()
	if id == "" {
		return nil, domain.ErrNotFound
	}
	return m.FindByID(ctx, id)
}

func (m *memStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *u
	for _, co := range m.companies {
		if co.UserID == id {
			cc := *co
			c.Company = &cc
		}
	}
	for _, s := range m.seekers {
		if s.UserID == id {
			sc := *s
			c.JobSeeker = &sc
		}
	}
	return &c, nil
}

// jobs

func (m *memStore) CreateJob(_ context.Context, j *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *j
	c.Company, c.Categories = nil, nil
	m.jobs[j.ID] = &c
	return nil
}

func (m *memStore) GetJob(_ context.Context, id string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m.jobCopy(j), nil
}

func (m *memStore) UpdateJob(_ context.Context, j *domain.Job, expected domain.JobStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.jobs[j.ID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if stored.Status != expected {
		return false, nil
	}
	c := *j
	c.Company, c.Categories = nil, nil
	m.jobs[j.ID] = &c
	return true, nil
}

func (m *memStore) DeleteJob(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.jobs, id)
	for aid, a := range m.apps {
		if a.JobID == id {
			delete(m.apps, aid)
		}
	}
	return nil
}

func (m *memStore) ListJobs(_ context.Context, f ports.JobFilter) ([]domain.Job, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Job
	for _, j := range m.jobs {
		if !f.Scope.Permits(j) {
			continue
		}
		if f.CompanyID != "" && j.CompanyID != f.CompanyID {
			continue
		}
		if f.ActiveOnly && j.Status != domain.JobActive {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *m.jobCopy(j))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	return out, int64(len(out)), nil
}

func (m *memStore) FindJobsByIDs(_ context.Context, ids []string) ([]domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Job
	for _, id := range ids {
		if j, ok := m.jobs[id]; ok {
			out = append(out, *m.jobCopy(j))
		}
	}
	return out, nil
}

func (m *memStore) ResolveJobOwnership(_ context.Context, id string) (domain.JobOwnership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return domain.JobOwnership{}, domain.ErrNotFound
	}
	return domain.JobOwnershipOf(m.jobCopy(j)), nil
}

func (m *memStore) CountApplications(_ context.Context, jobID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, a := range m.apps {
		if a.JobID == jobID {
			n++
		}
	}
	return n, nil
}

// applications

func (m *memStore) CreateApplication(_ context.Context, a *domain.JobApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.apps {
		if existing.JobID == a.JobID && existing.JobSeekerID == a.JobSeekerID {
			return domain.ErrConflictingApplication
		}
	}
	c := *a
	c.Job, c.JobSeeker = nil, nil
	m.apps[a.ID] = &c
	return nil
}

func (m *memStore) GetApplication(_ context.Context, id string) (*domain.JobApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m.appCopy(a), nil
}

func (m *memStore) ApplicationExists(_ context.Context, jobID, seekerID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.JobID == jobID && a.JobSeekerID == seekerID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SaveApplication(_ context.Context, a *domain.JobApplication, expected domain.ApplicationStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	stored, ok := m.apps[a.ID]
	if !ok {
		return false, domain.ErrNotFound
	}
	if m.beforeSave != nil {
		m.beforeSave(stored)
	}
	if stored.Status != expected {
		return false, nil
	}
	stored.Status = a.Status
	stored.CoverLetter = a.CoverLetter
	stored.UpdatedAt = a.UpdatedAt
	return true, nil
}

func (m *memStore) ListApplications(_ context.Context, f ports.ApplicationFilter) ([]domain.JobApplication, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.JobApplication
	for _, a := range m.apps {
		c := m.appCopy(a)
		if !f.Scope.Permits(domain.ApplicationOwnershipOf(c)) {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.JobID != "" && a.JobID != f.JobID {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (m *memStore) ResolveApplicationOwnership(_ context.Context, id string) (domain.ApplicationOwnership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return domain.ApplicationOwnership{}, domain.ErrNotFound
	}
	return domain.ApplicationOwnershipOf(m.appCopy(a)), nil
}

// companies

func (m *memStore) GetCompany(_ context.Context, id string) (*domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cc := *c
	return &cc, nil
}

func (m *memStore) UpdateCompany(_ context.Context, c *domain.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cc := *c
	m.companies[c.ID] = &cc
	return nil
}

func (m *memStore) SearchCompanies(_ context.Context, f ports.CompanyFilter) ([]domain.Company, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Company
	for _, c := range m.companies {
		if f.Industry != "" && c.Industry != f.Industry {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (m *memStore) CompanyStats(_ context.Context, id string) (domain.CompanyStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s domain.CompanyStats
	for _, j := range m.jobs {
		if j.CompanyID != id {
			continue
		}
		s.TotalJobs++
		if j.Status == domain.JobActive {
			s.ActiveJobs++
		}
		for _, a := range m.apps {
			if a.JobID == j.ID {
				s.TotalApplications++
			}
		}
	}
	return s, nil
}

// job seekers

func (m *memStore) GetJobSeeker(_ context.Context, id string) (*domain.JobSeeker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seekers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	sc := *s
	return &sc, nil
}

func (m *memStore) UpdateJobSeeker(_ context.Context, s *domain.JobSeeker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sc := *s
	m.seekers[s.ID] = &sc
	return nil
}

func (m *memStore) SearchJobSeekers(_ context.Context, _ ports.JobSeekerFilter) ([]domain.JobSeeker, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.JobSeeker
	for _, s := range m.seekers {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (m *memStore) JobSeekerStats(_ context.Context, id string) (domain.JobSeekerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var s domain.JobSeekerStats
	for _, a := range m.apps {
		if a.JobSeekerID != id {
			continue
		}
		s.TotalApplications++
		switch a.Status {
		case domain.AppPending:
			s.PendingApplications++
		case domain.AppAccepted:
			s.AcceptedApplications++
		case domain.AppRejected:
			s.RejectedApplications++
		}
	}
	return s, nil
}

func (m *memStore) ListSeekerSkills(_ context.Context, seekerID string) ([]domain.JobSeekerSkill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.JobSeekerSkill
	for _, l := range m.seekerSkills[seekerID] {
		out = append(out, l)
	}
	return out, nil
}

func (m *memStore) AddSeekerSkill(_ context.Context, l *domain.JobSeekerSkill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seekerSkills[l.JobSeekerID] == nil {
		m.seekerSkills[l.JobSeekerID] = map[string]domain.JobSeekerSkill{}
	}
	m.seekerSkills[l.JobSeekerID][l.SkillID] = *l
	return nil
}

func (m *memStore) RemoveSeekerSkill(_ context.Context, seekerID, skillID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seekerSkills[seekerID][skillID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.seekerSkills[seekerID], skillID)
	return nil
}

// catalog

func (m *memStore) ListCategories(_ context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Category
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memStore) GetCategory(_ context.Context, id string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cc := *c
	return &cc, nil
}

func (m *memStore) ListSkills(_ context.Context, categoryID string) ([]domain.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Skill
	for _, s := range m.skills {
		if s.CategoryID == categoryID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memStore) GetSkill(_ context.Context, id string) (*domain.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.skills[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	sc := *s
	return &sc, nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

type recordingPublisher struct {
	events []domain.Event
}

func (p *recordingPublisher) Publish(_ context.Context, events ...domain.Event) {
	p.events = append(p.events, events...)
}

func (p *recordingPublisher) kinds() []domain.EventKind {
	out := make([]domain.EventKind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

type stubAudit struct {
	appended  []domain.StatusChange
	appendErr error
}

func (a *stubAudit) Append(_ context.Context, c domain.StatusChange) error {
	if a.appendErr != nil {
		return a.appendErr
	}
	a.appended = append(a.appended, c)
	return nil
}

func (a *stubAudit) History(_ context.Context, id string) ([]domain.StatusChange, error) {
	var out []domain.StatusChange
	for _, c := range a.appended {
		if c.ApplicationID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubDedup struct {
	seen    map[string]bool
	seenErr error
	marked  []string
}

func (d *stubDedup) Seen(_ context.Context, id string) (bool, error) {
	if d.seenErr != nil {
		return false, d.seenErr
	}
	return d.seen[id], nil
}

func (d *stubDedup) Mark(_ context.Context, id string) error {
	d.marked = append(d.marked, id)
	return nil
}

type sentMail struct {
	to, subject, body string
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (m *stubMailer) Send(_ context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type stubSMS struct {
	enabled bool
	sent    []string
	err     error
}

func (s *stubSMS) Enabled() bool { return s.enabled }

func (s *stubSMS) Send(_ context.Context, to, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, to+": "+body)
	return nil
}

type stubIndex struct {
	mu          sync.Mutex
	hits        *ports.SearchHits
	searchErr   error
	suggestions []string
	suggestErr  error
	suggestHang bool
	lastQuery   *search.Query
	suggested   []string
	indexed     []ports.JobDocument
	deleted     []string
}

func (s *stubIndex) SearchJobs(_ context.Context, q *search.Query) (*ports.SearchHits, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastQuery = q
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	if s.hits == nil {
		return &ports.SearchHits{}, nil
	}
	return s.hits, nil
}

func (s *stubIndex) Suggest(ctx context.Context, q *search.SuggestQuery) ([]string, error) {
	if s.suggestHang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggested = append(s.suggested, q.Prefix)
	return s.suggestions, s.suggestErr
}

func (s *stubIndex) IndexJob(_ context.Context, doc ports.JobDocument) error {
	s.indexed = append(s.indexed, doc)
	return nil
}

func (s *stubIndex) DeleteJob(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

// Actors shared by the service tests.
var (
	adminActor  = policy.Admin{ID: "u-admin"}
	acmeActor   = policy.Company{ID: "u-acme", CompanyID: "c-acme"}
	globexActor = policy.Company{ID: "u-globex", CompanyID: "c-globex"}
	adaActor    = policy.JobSeeker{ID: "u-ada", JobSeekerID: "s-ada"}
	graceActor  = policy.JobSeeker{ID: "u-grace", JobSeekerID: "s-grace"}
)

// seededStore returns a store with two companies, two seekers and fixed clock time.
func seededStore() *memStore {
	m := newMemStore()
	m.seedCompany("u-acme", "c-acme", "Acme")
	m.seedCompany("u-globex", "c-globex", "Globex")
	m.seedSeeker("u-ada", "s-ada", "Ada", "Lovelace")
	m.seedSeeker("u-grace", "s-grace", "Grace", "Hopper")
	return m
}

var fixedNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }
