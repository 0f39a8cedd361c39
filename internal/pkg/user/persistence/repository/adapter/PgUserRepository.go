package adapter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	user "github.com/guru-vishal/chat-application/internal/pkg/user/application/domain"
)

// uniqueViolation is the Postgres error code raised on duplicate username/email.
const uniqueViolation = "23505"

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, u user.User) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgUserRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, profile_pic, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text
	`, u.Username, u.Email, u.PasswordHash, u.ProfilePic, u.CreatedAt, u.UpdatedAt).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", user.ErrUserExists
		}
		return "", err
	}
	return id, nil
}

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findBy(ctx, "id = $1::uuid", id)
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findBy(ctx, "email = $1", email)
}

func (r *PgUserRepository) findBy(ctx context.Context, where string, arg any) (*user.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var u user.User
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, username, email, password_hash, profile_pic, is_online, created_at, updated_at
		FROM users
		WHERE `+where,
		arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ProfilePic, &u.IsOnline, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PgUserRepository) List(ctx context.Context) ([]user.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, username, email, password_hash, profile_pic, is_online, created_at, updated_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ProfilePic, &u.IsOnline, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return users, nil
}

func (r *PgUserRepository) SetOnline(ctx context.Context, id string, online bool, at time.Time) error {
	if r == nil || r.pool == nil {
		return errors.New("PgUserRepository: nil pool")
	}
	// Writes older than the stored transition time keep the flag as-is, so
	// out-of-order queue deliveries cannot resurrect a stale state.
	ct, err := r.pool.Exec(ctx, `
		UPDATE users
		SET is_online = CASE WHEN presence_changed_at > $3 THEN is_online ELSE $2 END,
		    presence_changed_at = GREATEST(presence_changed_at, $3),
		    updated_at = now()
		WHERE id = $1::uuid
	`, id, online, at)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
