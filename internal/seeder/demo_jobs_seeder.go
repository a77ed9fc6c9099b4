package seeder

import (
	"context"
	"time"

	"talentbridge/internal/database"

	"github.com/google/uuid"
)

var DemoJobIDs = []uuid.UUID{
	uuid.MustParse("7f3c2a10-0000-4000-8000-000000000301"),
	uuid.MustParse("7f3c2a10-0000-4000-8000-000000000302"),
	uuid.MustParse("7f3c2a10-0000-4000-8000-000000000303"),
}

type DemoJobsSeeder struct{}

func (DemoJobsSeeder) Name() string { return "demo_jobs" }

func (DemoJobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := ensureTableColumns(ctx, db, "jobs",
		"id", "employer_id", "title", "status", "application_deadline", "posted_at", "created_at",
	); err != nil {
		return err
	}
	if err := ensureTableColumns(ctx, db, "job_required_skills",
		"id", "job_id", "name", "required_proficiency",
	); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	now := time.Now().UTC()
	deadline := now.Add(30 * 24 * time.Hour)

	jobs := []struct {
		ID     uuid.UUID
		Title  string
		Status string
		Skills []struct {
			Name        string
			Proficiency string
		}
	}{
		{
			ID: DemoJobIDs[0], Title: "Backend Engineer (Go)", Status: "active",
			Skills: []struct{ Name, Proficiency string }{
				{"Go", "Intermediate"}, {"PostgreSQL", "Intermediate"}, {"Docker", ""},
			},
		},
		{
			ID: DemoJobIDs[1], Title: "Frontend Engineer (React)", Status: "active",
			Skills: []struct{ Name, Proficiency string }{
				{"JavaScript", "Advanced"}, {"React", "Intermediate"}, {"TypeScript", ""},
			},
		},
		{
			ID: DemoJobIDs[2], Title: "Platform Engineer", Status: "draft",
			Skills: []struct{ Name, Proficiency string }{
				{"Kubernetes", "Advanced"}, {"Go", "Intermediate"}, {"AWS", ""},
			},
		},
	}

	for _, j := range jobs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO jobs (id, employer_id, title, status, application_deadline, posted_at, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $6, $6)
			 ON CONFLICT (id) DO NOTHING`,
			j.ID, DemoEmployerID, j.Title, j.Status, deadline, now,
		); err != nil {
			return err
		}
		for _, sk := range j.Skills {
			if _, err := tx.Exec(ctx,
				`INSERT INTO job_required_skills (id, job_id, name, required_proficiency)
				 VALUES ($1, $2, $3, NULLIF($4, ''))
				 ON CONFLICT (job_id, name) DO UPDATE SET required_proficiency = EXCLUDED.required_proficiency`,
				uuid.New(), j.ID, sk.Name, sk.Proficiency,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}
