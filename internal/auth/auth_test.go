package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okialbert/wanderlust/internal/models"
)

type memoryUserStorage struct {
	byEmail map[string]*models.User
}

func newMemoryUserStorage() *memoryUserStorage {
	return &memoryUserStorage{byEmail: make(map[string]*models.User)}
}

func (m *memoryUserStorage) CreateUser(_ context.Context, user *models.User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *memoryUserStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.byEmail[email], nil
}

func (m *memoryUserStorage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	authenticator := NewPasswordAuthenticator(newMemoryUserStorage())

	user, err := authenticator.Register(ctx, "alice@example.com", "Alice", "correct-horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.PasswordHash == "correct-horse" {
		t.Error("password stored in plain text")
	}

	if _, err := authenticator.Register(ctx, "alice@example.com", "Alice", "correct-horse"); !errors.Is(err, ErrEmailExists) {
		t.Errorf("duplicate register error = %v, want ErrEmailExists", err)
	}

	if _, err := authenticator.Register(ctx, "bob@example.com", "Bob", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("weak password error = %v, want ErrWeakPassword", err)
	}

	got, err := authenticator.Authenticate(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Authenticate returned user %s, want %s", got.ID, user.ID)
	}

	if _, err := authenticator.Authenticate(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := authenticator.Authenticate(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestEmailNormalization(t *testing.T) {
	ctx := context.Background()
	authenticator := NewPasswordAuthenticator(newMemoryUserStorage())

	user, err := authenticator.Register(ctx, "  Alice@Example.COM ", "Alice", "correct-horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("stored email = %q, want lowercased and trimmed", user.Email)
	}

	if _, err := authenticator.Authenticate(ctx, "ALICE@example.com", "correct-horse"); err != nil {
		t.Errorf("case-variant login failed: %v", err)
	}

	if _, err := authenticator.Register(ctx, "not-an-email", "X", "correct-horse"); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("bad email error = %v, want ErrInvalidEmail", err)
	}
}

func TestClaimsCarryDisplayName(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	user := models.NewUser("alice@example.com", "Alice", "hash")

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.DisplayName != "Alice" || claims.Subject != user.ID {
		t.Errorf("claims = %+v", claims)
	}
}

func TestJWTManagerRoundTrip(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	user := models.NewUser("alice@example.com", "Alice", "hash")

	token, err := manager.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email {
		t.Errorf("claims = %+v, want user %s", claims, user.ID)
	}
}

func TestJWTManagerRejectsBadTokens(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	user := models.NewUser("alice@example.com", "Alice", "hash")

	if _, err := manager.Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token error = %v, want ErrInvalidToken", err)
	}

	other := NewJWTManager("different-secret", time.Hour)
	token, err := other.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong-secret token error = %v, want ErrInvalidToken", err)
	}

	expired := NewJWTManager("test-secret", -time.Minute)
	token, err = expired.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token error = %v, want ErrInvalidToken", err)
	}
}
