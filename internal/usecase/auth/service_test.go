package auth

import (
	"context"
	"errors"
	"testing"

	"talentbridge/internal/domain/user"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	byID    map[uuid.UUID]user.User
	byEmail map[string]user.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:    map[uuid.UUID]user.User{},
		byEmail: map[string]user.User{},
	}
}

func (m *mockUserRepo) CreateUser(_ context.Context, u user.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return errors.New("duplicate email")
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

func (m *mockUserRepo) UpdateUser(_ context.Context, u user.User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return user.ErrNotFound
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func TestRegister_ThenLogin(t *testing.T) {
	svc := NewService(newMockUserRepo())

	created, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Employer@Example.COM ",
		Password: "password123",
		Role:     "employer",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created.Email != "employer@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.Role != user.RoleEmployer {
		t.Fatalf("expected employer role, got %s", created.Role)
	}
	if created.PasswordHash != "" {
		t.Fatal("password hash must never leave the service")
	}

	logged, err := svc.Login(context.Background(), LoginInput{
		Email:    "employer@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if logged.ID != created.ID {
		t.Fatalf("expected same user, got %s vs %s", logged.ID, created.ID)
	}
}

func TestRegister_DefaultsToStudentRole(t *testing.T) {
	svc := NewService(newMockUserRepo())

	created, err := svc.Register(context.Background(), RegisterInput{
		Email:    "someone@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created.Role != user.RoleStudent {
		t.Fatalf("expected student default, got %s", created.Role)
	}
}

func TestRegister_Rejections(t *testing.T) {
	repo := newMockUserRepo()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "", Password: "password123"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "short"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "password123", Role: "wizard"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "password123"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{Email: "A@B.com", Password: "password123"}); !errors.Is(err, ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestLogin_WrongCredentials(t *testing.T) {
	svc := NewService(newMockUserRepo())

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.com", Password: "password123"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginInput{Email: "a@b.com", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), LoginInput{Email: "nobody@b.com", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
