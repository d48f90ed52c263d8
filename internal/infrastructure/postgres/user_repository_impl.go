package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-worktime/internal/domain"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/repository"
)

const userColumns = `id, name, created_at, updated_at, deleted_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO users (id, name, created_at, updated_at, deleted_at)
		VALUES (@id, @name, @created_at, @updated_at, @deleted_at)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at, deleted_at = EXCLUDED.deleted_at
	`, pgx.NamedArgs{
		"id":         u.ID,
		"name":       u.Name,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
		"deleted_at": u.DeletedAt,
	})
	if err != nil {
		return fmt.Errorf("postgres.UserRepository.Save: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`, id)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres.UserRepository.GetByID: %w", err)
	}
	return u, nil
}

func (r *UserRepository) All(ctx context.Context) ([]*entity.User, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE deleted_at IS NULL
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres.UserRepository.All: %w", err)
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres.UserRepository.All: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres.UserRepository.All: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND deleted_at IS NULL)
	`, id).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("postgres.UserRepository.Exists: %w", err)
	}
	return ok, nil
}

func scanUser(s scanner) (*entity.User, error) {
	u := &entity.User{}
	if err := s.Scan(&u.ID, &u.Name, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt); err != nil {
		return nil, err
	}
	return u, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
