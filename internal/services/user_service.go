package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-tracker/internal/models"
)

const (
	usersUsernameKey = "users_username_key"
	usersEmailKey    = "users_email_key"
)

const userColumns = `id,
       first_name,
       last_name,
       username,
       email,
       password,
       role,
       created_at,
       updated_at`

type userServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	hasher PasswordHasher
}

func NewUserService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
	hasher PasswordHasher,
) UserService {
	return &userServiceImpl{
		logger: logger,
		pgPool: pgPool,
		hasher: hasher,
	}
}

// uniqueViolation maps a unique constraint failure on users to the
// matching sentinel error. Other errors are returned unchanged.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case usersUsernameKey:
		return fmt.Errorf("%w: %w", ErrUsernameTaken, err)
	case usersEmailKey:
		return fmt.Errorf("%w: %w", ErrEmailTaken, err)
	default:
		return err
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	user := new(models.User)
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) Create(ctx context.Context, params CreateUserParams) (*models.User, error) {
	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	const insertUserQuery = `
INSERT INTO users (first_name,
                   last_name,
                   username,
                   email,
                   password,
                   role)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + userColumns

	user, err := scanUser(s.pgPool.QueryRow(
		ctx,
		insertUserQuery,
		params.FirstName,
		params.LastName,
		params.Username,
		params.Email,
		passwordHash,
		params.Role,
	))
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("username", params.Username).
			Msg("failed to insert user")
		return nil, uniqueViolation(err)
	}
	s.logger.Debug().
		Int64("user_id", user.ID).
		Msg("inserted user")
	return user, nil
}

func (s *userServiceImpl) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const selectUserByIDQuery = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
`
	return s.getOne(ctx, selectUserByIDQuery, id)
}

func (s *userServiceImpl) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	const selectUserByUsernameQuery = `
SELECT ` + userColumns + `
FROM users
WHERE username = $1
`
	return s.getOne(ctx, selectUserByUsernameQuery, username)
}

func (s *userServiceImpl) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const selectUserByEmailQuery = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
`
	return s.getOne(ctx, selectUserByEmailQuery, email)
}

func (s *userServiceImpl) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(s.pgPool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().
				Any("key", arg).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Any("key", arg).
			Msg("failed to select user")
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) List(ctx context.Context) ([]*models.User, error) {
	const selectUsersQuery = `
SELECT ` + userColumns + `
FROM users
ORDER BY created_at DESC, id DESC
`
	rows, err := s.pgPool.Query(ctx, selectUsersQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select users")
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan user")
			return nil, err
		}
		users = append(users, user)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(users)).
		Msg("selected users")
	return users, nil
}

func (s *userServiceImpl) Update(ctx context.Context, params UpdateUserParams) (*models.User, error) {
	var passwordHash *string
	if params.Password != nil {
		hash, err := s.hasher.Hash(*params.Password)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to hash password")
			return nil, err
		}
		passwordHash = &hash
	}

	const updateUserQuery = `
UPDATE users
SET first_name = COALESCE($1, first_name),
    last_name = COALESCE($2, last_name),
    email = COALESCE($3, email),
    password = COALESCE($4, password)
WHERE id = $5
RETURNING ` + userColumns

	user, err := scanUser(s.pgPool.QueryRow(
		ctx,
		updateUserQuery,
		params.FirstName,
		params.LastName,
		params.Email,
		passwordHash,
		params.ID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Int64("user_id", params.ID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("user_id", params.ID).
			Msg("failed to update user")
		return nil, uniqueViolation(err)
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Bool("password_changed", passwordHash != nil).
		Msg("updated user")
	return user, nil
}

func (s *userServiceImpl) Delete(ctx context.Context, id int64) error {
	const deleteUserQuery = `
DELETE FROM users
WHERE id = $1
`
	tag, err := s.pgPool.Exec(ctx, deleteUserQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", id).
			Msg("failed to delete user")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Int64("user_id", id).
			Msg("user not found")
		return ErrUserNotFound
	}

	s.logger.Info().
		Int64("user_id", id).
		Msg("deleted user")
	return nil
}
