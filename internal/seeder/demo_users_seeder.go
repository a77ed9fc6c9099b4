package seeder

import (
	"context"
	"fmt"
	"time"

	"talentbridge/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Deterministic IDs so the seeder is idempotent and downstream seeders can
// reference the same rows across runs.
var (
	DemoEmployerID = uuid.MustParse("7f3c2a10-0000-4000-8000-000000000001")
	DemoAdminID    = uuid.MustParse("7f3c2a10-0000-4000-8000-000000000002")

	DemoStudentUserIDs = []uuid.UUID{
		uuid.MustParse("7f3c2a10-0000-4000-8000-000000000101"),
		uuid.MustParse("7f3c2a10-0000-4000-8000-000000000102"),
		uuid.MustParse("7f3c2a10-0000-4000-8000-000000000103"),
	}

	DemoStudentIDs = []uuid.UUID{
		uuid.MustParse("7f3c2a10-0000-4000-8000-000000000201"),
		uuid.MustParse("7f3c2a10-0000-4000-8000-000000000202"),
		uuid.MustParse("7f3c2a10-0000-4000-8000-000000000203"),
	}
)

type DemoUsersSeeder struct{}

func (DemoUsersSeeder) Name() string { return "demo_users" }

func (DemoUsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := ensureTableColumns(ctx, db, "users", "id", "email", "password_hash", "role", "created_at"); err != nil {
		return err
	}
	if err := ensureTableColumns(ctx, db, "students", "id", "user_id", "name", "created_at"); err != nil {
		return err
	}
	if err := ensureTableColumns(ctx, db, "student_skills", "id", "student_id", "name", "proficiency"); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	users := []struct {
		ID    uuid.UUID
		Email string
		Role  string
	}{
		{ID: DemoEmployerID, Email: "employer@talentbridge.dev", Role: "employer"},
		{ID: DemoAdminID, Email: "admin@talentbridge.dev", Role: "admin"},
		{ID: DemoStudentUserIDs[0], Email: "amira@talentbridge.dev", Role: "student"},
		{ID: DemoStudentUserIDs[1], Email: "budi@talentbridge.dev", Role: "student"},
		{ID: DemoStudentUserIDs[2], Email: "citra@talentbridge.dev", Role: "student"},
	}

	now := time.Now().UTC()
	for _, u := range users {
		if _, err := tx.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, role, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $5)
			 ON CONFLICT (id) DO NOTHING`,
			u.ID, u.Email, string(hash), u.Role, now,
		); err != nil {
			return err
		}
	}

	students := []struct {
		ID     uuid.UUID
		UserID uuid.UUID
		Name   string
		Skills []struct {
			Name        string
			Proficiency string
		}
	}{
		{
			ID: DemoStudentIDs[0], UserID: DemoStudentUserIDs[0], Name: "Amira Salim",
			Skills: []struct{ Name, Proficiency string }{
				{"Go", "Advanced"}, {"PostgreSQL", "Intermediate"}, {"Docker", "Intermediate"},
			},
		},
		{
			ID: DemoStudentIDs[1], UserID: DemoStudentUserIDs[1], Name: "Budi Hartono",
			Skills: []struct{ Name, Proficiency string }{
				{"JavaScript", "Advanced"}, {"React", "Advanced"}, {"TypeScript", "Intermediate"},
			},
		},
		{
			ID: DemoStudentIDs[2], UserID: DemoStudentUserIDs[2], Name: "Citra Dewi",
			Skills: []struct{ Name, Proficiency string }{
				{"Go", "Beginner"}, {"Kubernetes", "Beginner"},
			},
		},
	}

	for _, st := range students {
		if _, err := tx.Exec(ctx,
			`INSERT INTO students (id, user_id, name, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $4)
			 ON CONFLICT (id) DO NOTHING`,
			st.ID, st.UserID, st.Name, now,
		); err != nil {
			return err
		}
		for _, sk := range st.Skills {
			if _, err := tx.Exec(ctx,
				`INSERT INTO student_skills (id, student_id, name, proficiency)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (student_id, name) DO UPDATE SET proficiency = EXCLUDED.proficiency`,
				uuid.New(), st.ID, sk.Name, sk.Proficiency,
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}
