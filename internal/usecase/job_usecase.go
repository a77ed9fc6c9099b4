package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"talentbridge/internal/domain/job"
	"talentbridge/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

type JobUsecase interface {
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Posting, error)
	UpdateStatus(ctx context.Context, jobID, employerID uuid.UUID, status string) error
}

// Job covers posting reads and mutations. Status changes feed directly into
// candidate matching, so cached candidate and job listings for the employer
// are invalidated before the caller sees the ack.
type Job struct {
	jobs   repository.JobRepository
	cache  Cache
	logger *log.Logger

	listTTL time.Duration
}

func NewJobUsecase(jobs repository.JobRepository, cache Cache, logger *log.Logger, listTTL time.Duration) *Job {
	return &Job{jobs: jobs, cache: cache, logger: logger, listTTL: listTTL}
}

func (u *Job) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Posting, error) {
	if employerID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	key := jobsCachePrefix(employerID) + "all"
	if u.cache != nil {
		var cached []job.Posting
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			return cached, nil
		}
		if err != nil && u.logger != nil {
			u.logger.Printf("[Jobs] Cache read error (ignored): %v", err)
		}
	}

	postings, err := u.jobs.ListByEmployer(ctx, employerID)
	if err != nil {
		return nil, ErrInternal
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, postings, u.listTTL); err != nil && u.logger != nil {
			u.logger.Printf("[Jobs] Cache write error (ignored): %v", err)
		}
	}
	return postings, nil
}

func (u *Job) UpdateStatus(ctx context.Context, jobID, employerID uuid.UUID, status string) error {
	if employerID == uuid.Nil {
		return ErrUnauthorized
	}

	st, ok := job.ParseStatus(status)
	if !ok {
		return ErrInvalidInput
	}

	if err := u.jobs.UpdateStatus(ctx, jobID, employerID, st); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return ErrJobNotFound
		}
		return ErrInternal
	}

	if u.cache != nil {
		if err := u.cache.DeleteByPrefix(ctx, candidateCachePrefix(employerID)); err != nil && u.logger != nil {
			u.logger.Printf("[Jobs] Cache invalidate error (ignored): %v", err)
		}
		if err := u.cache.DeleteByPrefix(ctx, jobsCachePrefix(employerID)); err != nil && u.logger != nil {
			u.logger.Printf("[Jobs] Cache invalidate error (ignored): %v", err)
		}
	}
	return nil
}
