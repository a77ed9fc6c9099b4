package repository

import (
	"context"
	"database/sql"
	"errors"

	"talentbridge/internal/database"
	"talentbridge/internal/domain/job"
	"talentbridge/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrJobNotFound = errors.New("job not found")
)

type JobRepository interface {
	FindByID(ctx context.Context, jobID uuid.UUID) (job.Posting, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Posting, error)
	ListActiveByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Posting, error)
	UpdateStatus(ctx context.Context, jobID, employerID uuid.UUID, status job.Status) error
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) FindByID(ctx context.Context, jobID uuid.UUID) (job.Posting, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, employer_id, COALESCE(title, ''), status, application_deadline, posted_at, created_at, updated_at
		 FROM jobs
		 WHERE id = $1`,
		jobID,
	)

	p, err := scanPosting(row)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return job.Posting{}, ErrJobNotFound
		}
		return job.Posting{}, err
	}

	skills, err := r.requiredSkillsByJob(ctx, []uuid.UUID{p.ID})
	if err != nil {
		return job.Posting{}, err
	}
	p.RequiredSkills = skills[p.ID]
	return p, nil
}

func (r *PostgresJobRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Posting, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, employer_id, COALESCE(title, ''), status, application_deadline, posted_at, created_at, updated_at
		 FROM jobs
		 WHERE employer_id = $1
		 ORDER BY posted_at DESC`,
		employerID,
	)
	if err != nil {
		return nil, err
	}
	return r.collectPostings(ctx, rows)
}

func (r *PostgresJobRepository) ListActiveByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Posting, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, employer_id, COALESCE(title, ''), status, application_deadline, posted_at, created_at, updated_at
		 FROM jobs
		 WHERE employer_id = $1 AND status = $2
		 ORDER BY posted_at DESC`,
		employerID, job.StatusActive,
	)
	if err != nil {
		return nil, err
	}
	return r.collectPostings(ctx, rows)
}

func (r *PostgresJobRepository) collectPostings(ctx context.Context, rows database.Rows) ([]job.Posting, error) {
	defer rows.Close()

	out := make([]job.Posting, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return out, nil
	}

	skills, err := r.requiredSkillsByJob(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].RequiredSkills = skills[out[i].ID]
	}
	return out, nil
}

func (r *PostgresJobRepository) UpdateStatus(ctx context.Context, jobID, employerID uuid.UUID, status job.Status) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2 AND employer_id = $3`,
		status, jobID, employerID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrJobNotFound
	}
	return nil
}

func (r *PostgresJobRepository) requiredSkillsByJob(ctx context.Context, jobIDs []uuid.UUID) (map[uuid.UUID][]matching.Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT job_id, name, COALESCE(required_proficiency, '')
		 FROM job_required_skills
		 WHERE job_id = ANY($1)`,
		jobIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]matching.Skill, len(jobIDs))
	for rows.Next() {
		var jid uuid.UUID
		var name, prof string
		if err := rows.Scan(&jid, &name, &prof); err != nil {
			return nil, err
		}
		out[jid] = append(out[jid], matching.Skill{
			Name:        name,
			Proficiency: matching.ParseProficiency(prof),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanPosting(row database.Row) (job.Posting, error) {
	var p job.Posting
	var status string
	if err := row.Scan(&p.ID, &p.EmployerID, &p.Title, &status, &p.ApplicationDeadline, &p.PostedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return job.Posting{}, err
	}
	if st, ok := job.ParseStatus(status); ok {
		p.Status = st
	}
	return p, nil
}
