package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	"github.com/dmitrijs2005/useraccounts/internal/dbx"
	"github.com/dmitrijs2005/useraccounts/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const userColumns = `id, email, password, salt, active, session, session_create_time, profile, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u         models.User
		session   sql.NullString
		sessionAt sql.NullTime
		profile   []byte
	)

	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Salt, &u.Active, &session, &sessionAt, &profile, &u.CreatedAt)
	if err != nil {
		return nil, err
	}

	if session.Valid {
		u.Session = &session.String
	}
	if sessionAt.Valid {
		u.SessionCreateTime = &sessionAt.Time
	}
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &u.Profile); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
	}
	if u.Profile == nil {
		u.Profile = map[string]any{}
	}

	return &u, nil
}

func encodeProfile(p map[string]any) (string, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	return string(b), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *PostgresRepository) getOne(ctx context.Context, column string, value any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := ParseID(id); err != nil {
		return nil, err
	}
	return r.getOne(ctx, "id", id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *PostgresRepository) GetBySession(ctx context.Context, token string) (*models.User, error) {
	return r.getOne(ctx, "session", token)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	profile, err := encodeProfile(user.Profile)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO users (email, password, salt, active, profile)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`

	err = r.db.QueryRowContext(ctx, query,
		user.Email, user.Password, user.Salt, user.Active, profile).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// where renders filter as a WHERE clause with positional args.
func (f Filter) where() (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if f.Email != "" {
		add("email = ?", f.Email)
	}
	if f.Active != nil {
		add("active = ?", *f.Active)
	}
	if len(f.Profile) > 0 {
		doc, err := encodeProfile(f.Profile)
		if err != nil {
			return "", nil, err
		}
		add("profile @> ?::jsonb", doc)
	}

	if len(conds) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// Search reads the total and the page inside one read-only snapshot so both
// agree.
func (r *PostgresRepository) Search(ctx context.Context, filter Filter, offset, limit int) (*Page, error) {
	where, args, err := filter.where()
	if err != nil {
		return nil, err
	}

	page := &Page{Users: []*models.User{}}

	err = dbx.WithTx(ctx, r.db, dbx.SnapshotRead, func(ctx context.Context, tx dbx.DBTX) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&page.Total); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if page.Total == 0 {
			return nil
		}

		n := len(args)
		query := `SELECT ` + userColumns + ` FROM users` + where +
			` ORDER BY created_at, id OFFSET $` + strconv.Itoa(n+1) + ` LIMIT $` + strconv.Itoa(n+2)

		rows, err := tx.QueryContext(ctx, query, append(args, offset, limit)...)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return fmt.Errorf("db error: %w", err)
			}
			page.Users = append(page.Users, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return page, nil
}

func affectedOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Replace(ctx context.Context, id string, user *models.User) error {
	if _, err := ParseID(id); err != nil {
		return err
	}
	profile, err := encodeProfile(user.Profile)
	if err != nil {
		return err
	}

	query :=
		`UPDATE users SET email = $2, password = $3, salt = $4, profile = $5
		 WHERE id = $1 AND active`

	res, err := r.db.ExecContext(ctx, query, id, user.Email, user.Password, user.Salt, profile)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

func (r *PostgresRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := ParseID(id); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `UPDATE users SET active = FALSE WHERE id = $1 AND active`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

func (r *PostgresRepository) SetSession(ctx context.Context, id string, password []byte, token string, at time.Time) error {
	query :=
		`UPDATE users SET session = $2, session_create_time = $3
		 WHERE id = $1 AND password = $4`

	res, err := r.db.ExecContext(ctx, query, id, token, at, password)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return affectedOne(res)
}

func (r *PostgresRepository) ClearSession(ctx context.Context, token string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `UPDATE users SET session = NULL WHERE session = $1 RETURNING id`, token).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}
