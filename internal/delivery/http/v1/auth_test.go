package v1

import (
	"net/http"
	"testing"
)

func TestHandleRegister(t *testing.T) {
	s := newTestServer(t, false)

	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"firstName": "  Ada ",
		"lastName":  "Lovelace",
		"username":  "ada",
		"email":     "ada@example.com",
		"password":  "secret1",
	})
	if resp.code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body = %v)", resp.code, resp.body)
	}
	if resp.body["message"] != "User registered successfully" {
		t.Fatalf("message = %v", resp.body["message"])
	}

	user := resp.body["user"].(map[string]any)
	if user["role"] != "basic" {
		t.Fatalf("role = %v, want basic", user["role"])
	}
	if user["firstName"] != "Ada" {
		t.Fatalf("firstName = %q, want trimmed", user["firstName"])
	}
	if _, ok := user["password"]; ok {
		t.Fatalf("response must not expose the password: %v", user)
	}

	stored := s.db.users[int64(user["id"].(float64))]
	if stored.Password == "secret1" {
		t.Fatalf("password stored in plain text")
	}
}

func TestHandleRegister_Duplicates(t *testing.T) {
	s := newTestServer(t, false)
	s.registerUser(t, "ada", "")

	resp := s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"firstName": "A",
		"lastName":  "B",
		"username":  "ada",
		"email":     "fresh@example.com",
		"password":  "secret1",
	})
	expectError(t, resp, http.StatusBadRequest, "Username already exists")

	resp = s.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"firstName": "A",
		"lastName":  "B",
		"username":  "fresh",
		"email":     "ada@example.com",
		"password":  "secret1",
	})
	expectError(t, resp, http.StatusBadRequest, "Email already exists")
}

func TestHandleRegister_Validation(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name    string
		body    any
		field   string
		message string
	}{
		{
			name:    "empty body",
			body:    nil,
			field:   "username",
			message: "Username is required",
		},
		{
			name: "blank first name",
			body: map[string]any{
				"firstName": "   ",
				"lastName":  "B",
				"username":  "u",
				"email":     "u@example.com",
				"password":  "secret1",
			},
			field:   "firstName",
			message: "First name is required",
		},
		{
			name: "bad email",
			body: map[string]any{
				"firstName": "A",
				"lastName":  "B",
				"username":  "u",
				"email":     "not-an-email",
				"password":  "secret1",
			},
			field:   "email",
			message: "Valid email is required",
		},
		{
			name: "short password",
			body: map[string]any{
				"firstName": "A",
				"lastName":  "B",
				"username":  "u",
				"email":     "u@example.com",
				"password":  "12345",
			},
			field:   "password",
			message: "Password must be at least 6 characters",
		},
		{
			name: "unknown role",
			body: map[string]any{
				"firstName": "A",
				"lastName":  "B",
				"username":  "u",
				"email":     "u@example.com",
				"password":  "secret1",
				"role":      "root",
			},
			field:   "role",
			message: "Invalid role",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := fieldErrors(t, s.do(t, http.MethodPost, "/api/auth/register", "", tt.body))
			if got := fields[tt.field]; got != tt.message {
				t.Fatalf("field %s message = %q, want %q (all = %v)", tt.field, got, tt.message, fields)
			}
		})
	}

	if len(s.db.users) != 0 {
		t.Fatalf("invalid registrations created %d users", len(s.db.users))
	}
}

func TestHandleRegister_MalformedBody(t *testing.T) {
	s := newTestServer(t, false)

	expectError(t, s.do(t, http.MethodPost, "/api/auth/register", "", `{"username":`),
		http.StatusBadRequest, "Invalid request body")
}

func TestHandleLogin(t *testing.T) {
	s := newTestServer(t, false)
	admin := s.registerUser(t, "root", "admin")

	identity, err := s.tokens.Parse(admin.token)
	if err != nil {
		t.Fatalf("login token does not parse: %v", err)
	}
	if identity.UserID != admin.id || identity.Role != "admin" {
		t.Fatalf("identity = %+v, want id %d admin", identity, admin.id)
	}

	resp := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "root",
		"password": "password123",
	})
	if resp.body["message"] != "Login successful" {
		t.Fatalf("message = %v", resp.body["message"])
	}
	if _, ok := resp.body["user"].(map[string]any)["password"]; ok {
		t.Fatalf("login response must not expose the password")
	}
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	s := newTestServer(t, false)
	s.registerUser(t, "ada", "")

	wrongPassword := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "ada",
		"password": "wrong-password",
	})
	expectError(t, wrongPassword, http.StatusUnauthorized, "Invalid credentials")

	unknownUser := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"username": "nobody",
		"password": "password123",
	})
	expectError(t, unknownUser, http.StatusUnauthorized, "Invalid credentials")
}

func TestHandleLogin_Validation(t *testing.T) {
	s := newTestServer(t, false)

	fields := fieldErrors(t, s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{}))
	if fields["username"] == "" || fields["password"] == "" {
		t.Fatalf("expected username and password errors, got %v", fields)
	}
}
