package user

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sing3demons/go-bakery-service/crud"
	"github.com/sing3demons/go-bakery-service/pkg/common-log/logAction"
	"github.com/sing3demons/go-bakery-service/pkg/router"
	"github.com/sing3demons/go-bakery-service/postgres"
)

var ErrDuplicateEmail = crud.NewUserFriendlyError("There is already a user with that email. Please use a different email address.")

type Store interface {
	crud.FilterableRepository[User, int64]
	FindByEmail(ctx *router.Context, email string) (*User, error)
}

type store struct {
	db  *sql.DB
	now func() time.Time
}

const createTable = `CREATE TABLE IF NOT EXISTS users
(
    id            BIGSERIAL    PRIMARY KEY,
    email         VARCHAR(255) NOT NULL UNIQUE,
    first_name    VARCHAR(255) NOT NULL,
    last_name     VARCHAR(255) NOT NULL,
    role          VARCHAR(16)  NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    locked        BOOLEAN      NOT NULL DEFAULT FALSE,
    created_at    TIMESTAMP    NOT NULL,
    updated_at    TIMESTAMP    NOT NULL
);`

const userColumns = "SELECT id, email, first_name, last_name, role, password_hash, locked, created_at, updated_at FROM users"

const filterClause = ` WHERE email ILIKE $1 ESCAPE '\' OR first_name ILIKE $1 ESCAPE '\' OR last_name ILIKE $1 ESCAPE '\' OR role ILIKE $1 ESCAPE '\'`

// New is a factory function for store layer.
func New(db *sql.DB) Store {
	db.Exec(createTable)
	return store{db: db, now: time.Now}
}

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.PasswordHash, &u.Locked, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s store) findOne(ctx *router.Context, command, query string, arg any) (*User, error) {
	op := postgres.Begin(ctx.Log, "users", command, logAction.DB_READ, query, arg)

	u, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		op.Done(err, nil)
		return nil, nil
	}
	if err != nil {
		return nil, op.Done(err, nil)
	}

	op.Done(nil, map[string]any{"user_id": u.ID})
	return &u, nil
}

func (s store) FindByID(ctx *router.Context, id int64) (*User, error) {
	return s.findOne(ctx, "find_user_by_id", userColumns+" WHERE id = $1", id)
}

// FindByEmail matches the email ignoring case.
func (s store) FindByEmail(ctx *router.Context, email string) (*User, error) {
	return s.findOne(ctx, "find_user_by_email", userColumns+" WHERE LOWER(email) = LOWER($1)", email)
}

func (s store) FindAnyMatching(ctx *router.Context, filter string, p crud.Pageable) ([]User, error) {
	var (
		cond string
		args []any
	)
	if filter != "" {
		cond = filterClause
		args = append(args, postgres.Contains(filter))
	}
	args = append(args, p.Size, p.Offset())
	query := fmt.Sprintf("%s%s ORDER BY email LIMIT $%d OFFSET $%d", userColumns, cond, len(args)-1, len(args))

	op := postgres.Begin(ctx.Log, "users", "find_users", logAction.DB_READ, query, args...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, op.Done(err, nil)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, op.Done(err, nil)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, op.Done(err, nil)
	}

	op.Done(nil, map[string]any{"rows_count": len(users)})
	return users, nil
}

func (s store) CountAnyMatching(ctx *router.Context, filter string) (int64, error) {
	if filter == "" {
		return s.Count(ctx)
	}
	return s.count(ctx, "count_matching_users", "SELECT COUNT(*) FROM users"+filterClause, postgres.Contains(filter))
}

func (s store) Count(ctx *router.Context) (int64, error) {
	return s.count(ctx, "count_users", "SELECT COUNT(*) FROM users")
}

func (s store) count(ctx *router.Context, command, query string, args ...any) (int64, error) {
	op := postgres.Begin(ctx.Log, "users", command, logAction.DB_READ, query, args...)

	var n int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, op.Done(err, nil)
	}
	op.Done(nil, map[string]any{"count": n})
	return n, nil
}

func (s store) Save(ctx *router.Context, u *User) (*User, error) {
	now := s.now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	if u.ID == 0 {
		query := `INSERT INTO users (email, first_name, last_name, role, password_hash, locked, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
		params := []any{u.Email, u.FirstName, u.LastName, u.Role, u.PasswordHash, u.Locked, u.CreatedAt, u.UpdatedAt}
		op := postgres.Begin(ctx.Log, "users", "create_user", logAction.DB_CREATE, query, params...)

		if err := s.db.QueryRowContext(ctx, query, params...).Scan(&u.ID); err != nil {
			return nil, duplicate(op.Done(err, nil))
		}
		op.Done(nil, map[string]any{"user_id": u.ID})
		return u, nil
	}

	query := `UPDATE users SET email = $1, first_name = $2, last_name = $3, role = $4, password_hash = $5, locked = $6,
updated_at = $7 WHERE id = $8`
	params := []any{u.Email, u.FirstName, u.LastName, u.Role, u.PasswordHash, u.Locked, u.UpdatedAt, u.ID}
	op := postgres.Begin(ctx.Log, "users", "update_user", logAction.DB_UPDATE, query, params...)

	r, err := s.db.ExecContext(ctx, query, params...)
	if err != nil {
		return nil, duplicate(op.Done(err, nil))
	}
	if n, _ := r.RowsAffected(); n == 0 {
		op.Done(sql.ErrNoRows, nil)
		return nil, crud.ErrNotFound
	}
	op.Done(nil, map[string]any{"user_id": u.ID})
	return u, nil
}

func duplicate(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateEmail
	}
	return err
}

func (s store) Delete(ctx *router.Context, u *User) error {
	query := "DELETE FROM users WHERE id = $1"
	op := postgres.Begin(ctx.Log, "users", "delete_user", logAction.DB_DELETE, query, u.ID)

	if _, err := s.db.ExecContext(ctx, query, u.ID); err != nil {
		return op.Done(err, nil)
	}
	op.Done(nil, map[string]any{"user_id": u.ID})
	return nil
}
