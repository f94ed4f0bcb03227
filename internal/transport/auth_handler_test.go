package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func newAuthHandler() (*AuthHandler, *mockUserRepository) {
	userRepo := newMockUserRepository()
	refreshTokenRepo := newMockRefreshTokenRepository()
	userService := service.NewUserService(userRepo, refreshTokenRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthHandler(userService, zap.NewNop()), userRepo
}

func TestProperty_InvalidRegistrationDataIsRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("registration with invalid data returns validation errors", prop.ForAll(
		func(invalidCase int) bool {
			handler, _ := newAuthHandler()

			var reqBody RegisterRequest

			switch invalidCase % 4 {
			case 0:
				reqBody = RegisterRequest{
					Email:     "",
					Password:  "ValidPass123",
					FirstName: "John",
					LastName:  "Doe",
				}
			case 1:
				reqBody = RegisterRequest{
					Email:     "not-an-email",
					Password:  "ValidPass123",
					FirstName: "John",
					LastName:  "Doe",
				}
			case 2:
				reqBody = RegisterRequest{
					Email:     "test@example.com",
					Password:  "short",
					FirstName: "John",
					LastName:  "Doe",
				}
			case 3:
				reqBody = RegisterRequest{
					Email:    "test@example.com",
					Password: "ValidPass123",
				}
			}

			body, _ := json.Marshal(reqBody)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Register(w, req)

			if w.Code != http.StatusBadRequest && w.Code != http.StatusConflict {
				t.Logf("FAIL: Expected 400 or 409 status code, got %d", w.Code)
				return false
			}

			var response map[string]interface{}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Logf("FAIL: Could not decode error response: %v", err)
				return false
			}

			if _, exists := response["error"]; !exists {
				t.Logf("FAIL: Response missing 'error' field")
				return false
			}

			return true
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_SuccessfulRegistrationReturnsProfileData(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("successful registration returns user profile with all fields", prop.ForAll(
		func(email string, password string, firstName string, lastName string) bool {
			handler, _ := newAuthHandler()

			reqBody := RegisterRequest{
				Email:     email,
				Password:  password,
				FirstName: firstName,
				LastName:  lastName,
			}
			body, _ := json.Marshal(reqBody)
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Register(w, req)

			if w.Code != http.StatusCreated {
				t.Logf("FAIL: Expected 201 status code, got %d", w.Code)
				return false
			}

			var profile UserProfile
			if err := json.NewDecoder(w.Body).Decode(&profile); err != nil {
				t.Logf("FAIL: Could not decode response: %v", err)
				return false
			}

			if profile.Email != email || profile.FirstName != firstName || profile.LastName != lastName {
				t.Logf("FAIL: Profile fields mismatch: %+v", profile)
				return false
			}

			if profile.Role != service.RoleUser {
				t.Logf("FAIL: Expected default role, got %q", profile.Role)
				return false
			}

			if _, err := uuid.Parse(profile.ID); err != nil {
				t.Logf("FAIL: Profile ID is not a valid UUID: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{5,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAdminLogin_RejectsNonAdminAccounts(t *testing.T) {
	handler, _ := newAuthHandler()

	// Register a regular customer
	body, _ := json.Marshal(RegisterRequest{
		Email:     "customer@example.com",
		Password:  "ValidPass123",
		FirstName: "Jo",
		LastName:  "Doe",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.Register(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Registration failed: %d", w.Code)
	}

	loginBody, _ := json.Marshal(LoginRequest{Email: "customer@example.com", Password: "ValidPass123"})

	// Customer login works
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	handler.Login(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 from customer login, got %d: %s", w.Code, w.Body.String())
	}

	// Admin console login does not
	req = httptest.NewRequest(http.MethodPost, "/api/auth/admin-login", bytes.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	handler.AdminLogin(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("Expected 403 from admin login with customer account, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminLogin_AcceptsAdminAccounts(t *testing.T) {
	handler, userRepo := newAuthHandler()

	// Register then promote
	body, _ := json.Marshal(RegisterRequest{
		Email:     "admin@example.com",
		Password:  "ValidPass123",
		FirstName: "Ad",
		LastName:  "Min",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.Register(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Registration failed: %d", w.Code)
	}
	userRepo.users["admin@example.com"].Role = service.RoleAdmin

	loginBody, _ := json.Marshal(LoginRequest{Email: "admin@example.com", Password: "ValidPass123"})
	req = httptest.NewRequest(http.MethodPost, "/api/auth/admin-login", bytes.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	handler.AdminLogin(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp LoginResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Could not decode response: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("Admin login must issue both tokens")
	}
	if resp.User.Role != service.RoleAdmin {
		t.Errorf("Expected admin role in profile, got %q", resp.User.Role)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	handler, _ := newAuthHandler()

	body, _ := json.Marshal(RegisterRequest{
		Email:     "user@example.com",
		Password:  "ValidPass123",
		FirstName: "Jo",
		LastName:  "Doe",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.Register(w, req)

	loginBody, _ := json.Marshal(LoginRequest{Email: "user@example.com", Password: "WrongPass123"})
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	handler.Login(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}
