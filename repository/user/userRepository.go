package userrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ancax2/textbook-resale-project/model"
)

type Repo interface {
	Create(ctx context.Context, u *model.User) error
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const userColumns = `user_id, first_name, last_name, email, role, password_hash, created_at`

func (r *repo) Create(ctx context.Context, u *model.User) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO users(first_name, last_name, email, password_hash, role)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING user_id, created_at`,
		u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
}

func (r *repo) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE lower(email) = lower($1)`,
		email,
	))
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.User, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE user_id = $1`,
		id,
	))
}

// scanOne maps sql.ErrNoRows to a nil user so callers decide the status.
func (r *repo) scanOne(row *sql.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
