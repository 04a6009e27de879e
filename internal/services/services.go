package services

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/task-tracker/internal/access"
	"github.com/adanyl0v/task-tracker/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTaskNotFound       = errors.New("task not found")
)

type AuthService interface {
	// Register creates a user with a hashed password.
	//
	// It returns ErrUsernameTaken or ErrEmailTaken if another
	// user already holds the given username or email.
	Register(ctx context.Context, params RegisterParams) (*models.User, error)

	// Login authenticates the user by username and password and
	// issues a bearer token carrying the user's id and role.
	//
	// It returns ErrInvalidCredentials both for an unknown username
	// and for a wrong password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// ParseToken verifies the signature and expiry of the given
	// bearer token and returns the identity it carries. Every
	// verification failure wraps ErrInvalidToken.
	ParseToken(token string) (*access.Identity, error)
}

type UserService interface {
	Create(ctx context.Context, params CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)

	// Update applies the non-nil fields of params. A supplied password
	// is hashed before it is stored. It returns ErrUserNotFound if
	// no user has the given id.
	Update(ctx context.Context, params UpdateUserParams) (*models.User, error)

	// Delete removes the user. Owned tasks are removed by the
	// foreign key cascade.
	Delete(ctx context.Context, id int64) error
}

type TaskService interface {
	Create(ctx context.Context, userID int64, body string) (*models.Task, error)
	GetByID(ctx context.Context, id int64) (*models.Task, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.Task, error)
	List(ctx context.Context) ([]*models.Task, error)
	Update(ctx context.Context, id int64, body string) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) (bool, error)
}

type TokenManager interface {
	Issue(identity access.Identity) (string, time.Time, error)
	Parse(token string) (*access.Identity, error)
}

type RegisterParams struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Role      string
}

type CreateUserParams = RegisterParams

type LoginParams struct {
	Username string
	Password string
}

type LoginResult struct {
	User           *models.User
	AccessToken    string
	TokenExpiresAt time.Time
}

type UpdateUserParams struct {
	ID        int64
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
}
