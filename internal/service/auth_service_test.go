package service_test

import (
	"net/http/httptest"
	"testing"

	"quiz_hub_backend/internal/model"
	"quiz_hub_backend/internal/service"
	"quiz_hub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func TestRegisterForcesParticipantRole(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.auth.Register(service.RegisterRequest{
		Email:     "alice@example.com",
		Password:  "s3cret-pass",
		FirstName: "Alice",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != model.Participant {
		t.Fatalf("expected PARTICIPANT, got %s", user.Role)
	}

	stored, err := env.users.FindByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if !stored.IsActive {
		t.Fatal("expected new account to be active")
	}
	if stored.Password == "s3cret-pass" {
		t.Fatal("password stored in plaintext")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice@example.com", model.Participant)

	_, err := env.auth.Register(service.RegisterRequest{
		Email:     "alice@example.com",
		Password:  "s3cret-pass",
		FirstName: "Alice",
		LastName:  "Doe",
	})
	if err != util.ErrEmailRegistered {
		t.Fatalf("expected ErrEmailRegistered, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice@example.com", model.Participant)

	user, err := env.auth.Authenticate("alice@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("unexpected user %q", user.Email)
	}

	if _, err := env.auth.Authenticate("alice@example.com", "wrong-pass"); err != util.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := env.auth.Authenticate("nobody@example.com", "s3cret-pass"); err != util.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestGetCurrentUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", model.Participant)

	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Set("user", &util.Claims{UserID: user.ID, Role: user.Role, Email: user.Email})

	got := env.auth.GetCurrentUser(ctx)
	if got == nil || got.ID != user.ID {
		t.Fatalf("expected user %s, got %+v", user.ID, got)
	}

	// 未认证的上下文返回 nil
	bare, _ := gin.CreateTestContext(httptest.NewRecorder())
	if env.auth.GetCurrentUser(bare) != nil {
		t.Fatal("expected nil for context without claims")
	}
}

func TestAuthenticateDisabledAccount(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice@example.com", model.Participant)

	if err := env.db.Model(&model.User{}).Where("id = ?", user.ID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("disable account: %v", err)
	}

	if _, err := env.auth.Authenticate("alice@example.com", "s3cret-pass"); err != util.ErrAccountDisabled {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}
