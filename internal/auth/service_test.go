package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"stagepass/internal/shared/config"
	"stagepass/internal/users"
)

type fakeRepository struct {
	byEmail map[string]*users.User
	byID    map[string]*users.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		byEmail: make(map[string]*users.User),
		byID:    make(map[string]*users.User),
	}
}

func (f *fakeRepository) CreateUser(ctx context.Context, user *users.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.byEmail[user.Email] = user
	f.byID[user.ID.String()] = user
	return nil
}

func (f *fakeRepository) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepository) GetUserByID(ctx context.Context, id string) (*users.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (f *fakeRepository) UpdateUserPassword(ctx context.Context, userID string, hashedPassword string) error {
	user, ok := f.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.Password = hashedPassword
	return nil
}

func (f *fakeRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepository(), testConfig())
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if registered.User.Role != string(users.RoleUser) {
		t.Errorf("new accounts must be customers, got role %q", registered.User.Role)
	}
	if registered.AccessToken == "" || registered.RefreshToken == "" {
		t.Fatal("expected both tokens on registration")
	}

	// A second registration with the same email must be rejected.
	if _, err := svc.Register(ctx, &RegisterRequest{
		FullName: "Ada Again",
		Email:    "ada@example.com",
		Password: "correct-horse",
	}); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("duplicate register: got %v, want ErrUserAlreadyExists", err)
	}

	logged, err := svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.User.ID != registered.User.ID {
		t.Errorf("login returned user %s, want %s", logged.User.ID, registered.User.ID)
	}

	if _, err := svc.Login(ctx, &LoginRequest{Email: "ada@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepository(), testConfig())

	resp, err := svc.Register(context.Background(), &RegisterRequest{
		FullName: "Grace Hopper",
		Email:    "grace@example.com",
		Password: "cobol4ever",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	claims, err := svc.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("claims user %s, want %s", claims.UserID, resp.User.ID)
	}
	if claims.Type != "access" {
		t.Errorf("claims type %q, want access", claims.Type)
	}

	// Tokens signed with a different secret must not validate.
	other := NewService(newFakeRepository(), &config.Config{
		JWT: config.JWTConfig{Secret: "other-secret", JWTExpiresIn: time.Minute, RefreshExpiresIn: time.Hour},
	})
	if _, err := other.ValidateToken(resp.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("foreign token: got %v, want ErrInvalidToken", err)
	}
	if _, err := svc.ValidateToken("not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: got %v, want ErrInvalidToken", err)
	}
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := NewService(repo, testConfig())
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{
		FullName: "Tim Berners-Lee",
		Email:    "tim@example.com",
		Password: "www-secret",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	pair, err := svc.RefreshToken(ctx, resp.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a fresh token pair")
	}

	// An access token must not be accepted where a refresh token is required.
	if _, err := svc.RefreshToken(ctx, resp.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token as refresh: got %v, want ErrInvalidToken", err)
	}

	// Deleted users cannot refresh.
	delete(repo.byID, resp.User.ID)
	if _, err := svc.RefreshToken(ctx, resp.RefreshToken); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("deleted user refresh: got %v, want ErrUserNotFound", err)
	}
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	repo := newFakeRepository()
	svc := NewService(repo, testConfig())
	ctx := context.Background()

	resp, err := svc.Register(ctx, &RegisterRequest{
		FullName: "Ken Thompson",
		Email:    "ken@example.com",
		Password: "old-password",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "nope",
		NewPassword:     "new-password",
	}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current password: got %v, want ErrInvalidCredentials", err)
	}

	if err := svc.ChangePassword(ctx, resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "old-password",
		NewPassword:     "new-password",
	}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	if _, err := svc.Login(ctx, &LoginRequest{Email: "ken@example.com", Password: "old-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password still accepted after change")
	}
	if _, err := svc.Login(ctx, &LoginRequest{Email: "ken@example.com", Password: "new-password"}); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}
