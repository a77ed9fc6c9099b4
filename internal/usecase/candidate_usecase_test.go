package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"talentbridge/internal/config"
	"talentbridge/internal/domain/job"
	"talentbridge/internal/domain/matching"
	"talentbridge/internal/repository"

	"github.com/google/uuid"
)

type mockJobRepo struct {
	active []job.Posting
	err    error
}

func (m mockJobRepo) FindByID(context.Context, uuid.UUID) (job.Posting, error) {
	return job.Posting{}, repository.ErrJobNotFound
}
func (m mockJobRepo) ListByEmployer(context.Context, uuid.UUID) ([]job.Posting, error) {
	return nil, errors.New("not implemented")
}
func (m mockJobRepo) ListActiveByEmployer(context.Context, uuid.UUID) ([]job.Posting, error) {
	return m.active, m.err
}
func (m mockJobRepo) UpdateStatus(context.Context, uuid.UUID, uuid.UUID, job.Status) error {
	return nil
}

type mockStudentRepo struct {
	students []repository.Student
	err      error
}

func (m mockStudentRepo) FindByID(context.Context, uuid.UUID) (repository.Student, error) {
	return repository.Student{}, errors.New("not implemented")
}
func (m mockStudentRepo) ListWithSkills(context.Context) ([]repository.Student, error) {
	return m.students, m.err
}
func (m mockStudentRepo) AddSkill(context.Context, uuid.UUID, matching.Skill) error { return nil }
func (m mockStudentRepo) RemoveSkill(context.Context, uuid.UUID, string) error      { return nil }

func testMatchingConfig() config.MatchingConfig {
	return config.MatchingConfig{
		MatchedThreshold:    95,
		PotentialMinDefault: 20,
		PotentialMaxDefault: 94,
	}
}

func skills(names ...string) []matching.Skill {
	out := make([]matching.Skill, 0, len(names))
	for _, n := range names {
		out = append(out, matching.Skill{Name: n})
	}
	return out
}

func activeJob(title string, postedAt time.Time, required ...string) job.Posting {
	return job.Posting{
		ID:             uuid.New(),
		EmployerID:     uuid.New(),
		Title:          title,
		Status:         job.StatusActive,
		RequiredSkills: skills(required...),
		PostedAt:       postedAt,
	}
}

func TestCandidateAggregator_Matched_ThresholdAndDisjointBuckets(t *testing.T) {
	posted := time.Now().UTC()

	full := repository.Student{ID: uuid.New(), Name: "Full", Skills: skills("Go", "PostgreSQL", "Docker")}
	partial := repository.Student{ID: uuid.New(), Name: "Partial", Skills: skills("Go")}
	none := repository.Student{ID: uuid.New(), Name: "None", Skills: skills("Figma")}

	uc := NewCandidateAggregator(
		mockJobRepo{active: []job.Posting{activeJob("Backend", posted, "Go", "PostgreSQL", "Docker")}},
		mockStudentRepo{students: []repository.Student{full, partial, none}},
		nil, nil, nil,
		testMatchingConfig(),
		time.Minute,
	)

	employerID := uuid.New()

	matched, err := uc.MatchedCandidates(context.Background(), employerID, CandidateParams{})
	if err != nil {
		t.Fatalf("matched: unexpected err: %v", err)
	}
	if len(matched.Items) != 1 || matched.Items[0].StudentID != full.ID {
		t.Fatalf("matched: expected only full-overlap student, got %+v", matched.Items)
	}
	if matched.Items[0].MatchPercentage != 100 {
		t.Fatalf("matched: expected 100, got %d", matched.Items[0].MatchPercentage)
	}
	if matched.Summary.MatchedCount != 1 || matched.Summary.PotentialCount != 1 {
		t.Fatalf("summary: expected matched=1 potential=1, got %+v", matched.Summary)
	}
	if matched.Summary.TotalConsidered != 3 {
		t.Fatalf("summary: expected total_considered=3, got %d", matched.Summary.TotalConsidered)
	}

	potential, err := uc.PotentialCandidates(context.Background(), employerID, CandidateParams{})
	if err != nil {
		t.Fatalf("potential: unexpected err: %v", err)
	}
	// 1/3 of required skills = 33, inside [20,94]. The zero-overlap student
	// scores 0 and lands in neither bucket.
	if len(potential.Items) != 1 || potential.Items[0].StudentID != partial.ID {
		t.Fatalf("potential: expected only partial-overlap student, got %+v", potential.Items)
	}
	for _, it := range potential.Items {
		if it.StudentID == full.ID {
			t.Fatalf("buckets overlap: full-match student in potential")
		}
	}
}

func TestCandidateAggregator_Potential_InvalidRange(t *testing.T) {
	repoCalled := false
	jobs := mockJobRepoFunc(func() ([]job.Posting, error) {
		repoCalled = true
		return nil, nil
	})

	uc := NewCandidateAggregator(
		jobs,
		mockStudentRepo{},
		nil, nil, nil,
		testMatchingConfig(),
		time.Minute,
	)

	minMatch, maxMatch := 80, 30
	_, err := uc.PotentialCandidates(context.Background(), uuid.New(), CandidateParams{
		MinMatch: &minMatch,
		MaxMatch: &maxMatch,
	})
	if !errors.Is(err, ErrInvalidMatchRange) {
		t.Fatalf("expected ErrInvalidMatchRange, got %v", err)
	}
	if repoCalled {
		t.Fatalf("range violation must be rejected before any store access")
	}

	outOfBounds := 120
	_, err = uc.PotentialCandidates(context.Background(), uuid.New(), CandidateParams{MaxMatch: &outOfBounds})
	if !errors.Is(err, ErrInvalidMatchRange) {
		t.Fatalf("expected ErrInvalidMatchRange for max>100, got %v", err)
	}

	negative := -5
	_, err = uc.PotentialCandidates(context.Background(), uuid.New(), CandidateParams{MinMatch: &negative})
	if !errors.Is(err, ErrInvalidMatchRange) {
		t.Fatalf("expected ErrInvalidMatchRange for min<0, got %v", err)
	}
}

type mockJobRepoFunc func() ([]job.Posting, error)

func (f mockJobRepoFunc) FindByID(context.Context, uuid.UUID) (job.Posting, error) {
	return job.Posting{}, repository.ErrJobNotFound
}
func (f mockJobRepoFunc) ListByEmployer(context.Context, uuid.UUID) ([]job.Posting, error) {
	return nil, errors.New("not implemented")
}
func (f mockJobRepoFunc) ListActiveByEmployer(context.Context, uuid.UUID) ([]job.Posting, error) {
	return f()
}
func (f mockJobRepoFunc) UpdateStatus(context.Context, uuid.UUID, uuid.UUID, job.Status) error {
	return nil
}

func TestCandidateAggregator_NoActiveJobs(t *testing.T) {
	uc := NewCandidateAggregator(
		mockJobRepo{},
		mockStudentRepo{students: []repository.Student{{ID: uuid.New(), Skills: skills("Go")}}},
		nil, nil, nil,
		testMatchingConfig(),
		time.Minute,
	)

	page, err := uc.MatchedCandidates(context.Background(), uuid.New(), CandidateParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !page.Summary.NoActiveJobs {
		t.Fatalf("expected NoActiveJobs flag")
	}
	if len(page.Items) != 0 {
		t.Fatalf("expected empty items, got %d", len(page.Items))
	}
}

func TestCandidateAggregator_BestPairAcrossJobs(t *testing.T) {
	now := time.Now().UTC()
	goJob := activeJob("Go role", now, "Go")
	bigJob := activeJob("Big role", now.Add(-time.Hour), "Go", "Rust", "Haskell", "Erlang")

	student := repository.Student{ID: uuid.New(), Name: "S", Skills: skills("Go")}

	uc := NewCandidateAggregator(
		mockJobRepo{active: []job.Posting{bigJob, goJob}},
		mockStudentRepo{students: []repository.Student{student}},
		nil, nil, nil,
		testMatchingConfig(),
		time.Minute,
	)

	page, err := uc.MatchedCandidates(context.Background(), uuid.New(), CandidateParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(page.Items))
	}
	// 100% against the single-skill job beats 25% against the bigger one.
	if page.Items[0].BestMatchJobID != goJob.ID {
		t.Fatalf("expected best job %s, got %s", goJob.ID, page.Items[0].BestMatchJobID)
	}
	if page.Items[0].MatchPercentage != 100 {
		t.Fatalf("expected 100, got %d", page.Items[0].MatchPercentage)
	}
}

func TestCandidateAggregator_PaginationSilentlyCorrected(t *testing.T) {
	posted := time.Now().UTC()
	students := make([]repository.Student, 0, 5)
	for i := 0; i < 5; i++ {
		students = append(students, repository.Student{ID: uuid.New(), Skills: skills("Go")})
	}

	uc := NewCandidateAggregator(
		mockJobRepo{active: []job.Posting{activeJob("Backend", posted, "Go")}},
		mockStudentRepo{students: students},
		nil, nil, nil,
		testMatchingConfig(),
		time.Minute,
	)

	page, err := uc.MatchedCandidates(context.Background(), uuid.New(), CandidateParams{Page: -3, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.Page != 1 {
		t.Fatalf("expected page corrected to 1, got %d", page.Page)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}

	over, err := uc.MatchedCandidates(context.Background(), uuid.New(), CandidateParams{Limit: 1000})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if over.Limit != candidateLimitDefault {
		t.Fatalf("expected limit corrected to default %d, got %d", candidateLimitDefault, over.Limit)
	}

	empty, err := uc.MatchedCandidates(context.Background(), uuid.New(), CandidateParams{Page: 99, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(empty.Items) != 0 {
		t.Fatalf("out-of-range page: expected empty list, got %d items", len(empty.Items))
	}
	if empty.Total != 5 {
		t.Fatalf("out-of-range page: expected total 5, got %d", empty.Total)
	}
}

func TestCandidateAggregator_SortByScoreThenStable(t *testing.T) {
	posted := time.Now().UTC()
	strong := repository.Student{ID: uuid.New(), Name: "Strong", Skills: skills("Go", "PostgreSQL")}
	weak := repository.Student{ID: uuid.New(), Name: "Weak", Skills: skills("Go")}

	uc := NewCandidateAggregator(
		mockJobRepo{active: []job.Posting{activeJob("Backend", posted, "Go", "PostgreSQL")}},
		mockStudentRepo{students: []repository.Student{weak, strong}},
		nil, nil, nil,
		config.MatchingConfig{MatchedThreshold: 95, PotentialMinDefault: 0, PotentialMaxDefault: 100},
		time.Minute,
	)

	page, err := uc.PotentialCandidates(context.Background(), uuid.New(), CandidateParams{
		SortBy:    SortByMatchPercentage,
		SortOrder: "desc",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.Items[0].StudentID != strong.ID {
		t.Fatalf("expected strongest candidate first")
	}
}

func TestCandidateAggregator_RepoErrorIsInternal(t *testing.T) {
	uc := NewCandidateAggregator(
		mockJobRepo{err: errors.New("boom")},
		mockStudentRepo{},
		nil, nil, nil,
		testMatchingConfig(),
		time.Minute,
	)

	_, err := uc.MatchedCandidates(context.Background(), uuid.New(), CandidateParams{})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
