package repository

import (
	"context"
	"database/sql"
	"errors"

	"talentbridge/internal/database"
	"talentbridge/internal/domain/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrStudentNotFound = errors.New("student not found")
)

type Student struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   string
	Skills []matching.Skill
}

func (s Student) SkillSet() matching.SkillSet {
	return matching.NewSkillSet(s.Skills...)
}

type StudentRepository interface {
	FindByID(ctx context.Context, studentID uuid.UUID) (Student, error)
	ListWithSkills(ctx context.Context) ([]Student, error)
	AddSkill(ctx context.Context, studentID uuid.UUID, skill matching.Skill) error
	RemoveSkill(ctx context.Context, studentID uuid.UUID, skillName string) error
}

type PostgresStudentRepository struct {
	db database.DB
}

func NewPostgresStudentRepository(db database.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

func (r *PostgresStudentRepository) FindByID(ctx context.Context, studentID uuid.UUID) (Student, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, COALESCE(name, '') FROM students WHERE id = $1`,
		studentID,
	)

	var s Student
	if err := row.Scan(&s.ID, &s.UserID, &s.Name); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return Student{}, ErrStudentNotFound
		}
		return Student{}, err
	}

	skills, err := r.skillsByStudent(ctx, []uuid.UUID{studentID})
	if err != nil {
		return Student{}, err
	}
	s.Skills = skills[studentID]
	return s, nil
}

// ListWithSkills returns the whole candidate pool with skills attached in two
// queries rather than one per student.
func (r *PostgresStudentRepository) ListWithSkills(ctx context.Context) ([]Student, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, COALESCE(name, '') FROM students ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Student, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.UserID, &s.Name); err != nil {
			return nil, err
		}
		out = append(out, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return out, nil
	}

	skills, err := r.skillsByStudent(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Skills = skills[out[i].ID]
	}
	return out, nil
}

func (r *PostgresStudentRepository) skillsByStudent(ctx context.Context, studentIDs []uuid.UUID) (map[uuid.UUID][]matching.Skill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT student_id, name, COALESCE(proficiency, '')
		 FROM student_skills
		 WHERE student_id = ANY($1)`,
		studentIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]matching.Skill, len(studentIDs))
	for rows.Next() {
		var sid uuid.UUID
		var name, prof string
		if err := rows.Scan(&sid, &name, &prof); err != nil {
			return nil, err
		}
		out[sid] = append(out[sid], matching.Skill{
			Name:        name,
			Proficiency: matching.ParseProficiency(prof),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AddSkill upserts on the normalized name so the stored skill list keeps set
// semantics at rest.
func (r *PostgresStudentRepository) AddSkill(ctx context.Context, studentID uuid.UUID, skill matching.Skill) error {
	name := matching.NormalizeSkillName(skill.Name)
	if name == "" {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO student_skills (id, student_id, name, proficiency)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id, name) DO UPDATE SET proficiency = EXCLUDED.proficiency`,
		uuid.New(), studentID, name, skill.Proficiency.String(),
	)
	return err
}

func (r *PostgresStudentRepository) RemoveSkill(ctx context.Context, studentID uuid.UUID, skillName string) error {
	name := matching.NormalizeSkillName(skillName)
	affected, err := r.db.Exec(ctx,
		`DELETE FROM student_skills WHERE student_id = $1 AND name = $2`,
		studentID, name,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStudentNotFound
	}
	return nil
}
