package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-worktime/internal/domain"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/repository"
)

const (
	workEntryColumns = `id, user_id, start_date, end_date, created_at, updated_at, deleted_at`

	// oneOpenEntryIndex is the partial unique index allowing a single open entry per user.
	oneOpenEntryIndex = "work_entries_one_open_per_user"
	uniqueViolation   = "23505"
)

type WorkEntryRepository struct {
	pool *pgxpool.Pool
}

func NewWorkEntryRepository(pool *pgxpool.Pool) *WorkEntryRepository {
	return &WorkEntryRepository{pool: pool}
}

func (r *WorkEntryRepository) Save(ctx context.Context, w *entity.WorkEntry) error {
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO work_entries (id, user_id, start_date, end_date, created_at, updated_at, deleted_at)
		VALUES (@id, @user_id, @start_date, @end_date, @created_at, @updated_at, @deleted_at)
		ON CONFLICT (id) DO UPDATE
		SET start_date = EXCLUDED.start_date,
		    end_date   = EXCLUDED.end_date,
		    updated_at = EXCLUDED.updated_at,
		    deleted_at = EXCLUDED.deleted_at
	`, pgx.NamedArgs{
		"id":         w.ID,
		"user_id":    w.UserID,
		"start_date": w.StartDate,
		"end_date":   w.EndDate,
		"created_at": w.CreatedAt,
		"updated_at": w.UpdatedAt,
		"deleted_at": w.DeletedAt,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == oneOpenEntryIndex {
			return domain.ErrWorkEntryAlreadyOpen
		}
		return fmt.Errorf("postgres.WorkEntryRepository.Save: %w", err)
	}
	return nil
}

func (r *WorkEntryRepository) GetByID(ctx context.Context, id string, includeDeleted bool) (*entity.WorkEntry, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+workEntryColumns+`
		FROM work_entries
		WHERE id = $1 AND ($2 OR deleted_at IS NULL)
	`, id, includeDeleted)

	w, err := scanWorkEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkEntryNotFound
		}
		return nil, fmt.Errorf("postgres.WorkEntryRepository.GetByID: %w", err)
	}
	return w, nil
}

func (r *WorkEntryRepository) FindOpenByUserID(ctx context.Context, userID string) (*entity.WorkEntry, error) {
	return r.findOne(ctx, "FindOpenByUserID", `
		SELECT `+workEntryColumns+`
		FROM work_entries
		WHERE user_id = $1 AND end_date IS NULL AND deleted_at IS NULL
		ORDER BY start_date DESC
		LIMIT 1
	`, userID)
}

func (r *WorkEntryRepository) FindPrevious(ctx context.Context, userID string, before time.Time, excludeID string) (*entity.WorkEntry, error) {
	return r.findOne(ctx, "FindPrevious", `
		SELECT `+workEntryColumns+`
		FROM work_entries
		WHERE user_id = $1
		  AND deleted_at IS NULL
		  AND end_date IS NOT NULL
		  AND end_date <= $2
		  AND id <> $3
		ORDER BY end_date DESC
		LIMIT 1
	`, userID, before, excludeID)
}

func (r *WorkEntryRepository) FindNext(ctx context.Context, userID string, after time.Time, excludeID string) (*entity.WorkEntry, error) {
	return r.findOne(ctx, "FindNext", `
		SELECT `+workEntryColumns+`
		FROM work_entries
		WHERE user_id = $1
		  AND deleted_at IS NULL
		  AND start_date >= $2
		  AND id <> $3
		ORDER BY start_date ASC
		LIMIT 1
	`, userID, after, excludeID)
}

func (r *WorkEntryRepository) ListOverlapping(ctx context.Context, userID string, from, to time.Time) ([]*entity.WorkEntry, error) {
	return r.findMany(ctx, "ListOverlapping", `
		SELECT `+workEntryColumns+`
		FROM work_entries
		WHERE user_id = @user_id
		  AND deleted_at IS NULL
		  AND start_date <= @to
		  AND (end_date IS NULL OR end_date >= @from)
		ORDER BY start_date
	`, pgx.NamedArgs{"user_id": userID, "from": from, "to": to})
}

func (r *WorkEntryRepository) AllByUserID(ctx context.Context, userID string, includeDeleted bool) ([]*entity.WorkEntry, error) {
	return r.findMany(ctx, "AllByUserID", `
		SELECT `+workEntryColumns+`
		FROM work_entries
		WHERE user_id = $1 AND ($2 OR deleted_at IS NULL)
		ORDER BY start_date
	`, userID, includeDeleted)
}

func (r *WorkEntryRepository) findOne(ctx context.Context, op, sql string, args ...any) (*entity.WorkEntry, error) {
	w, err := scanWorkEntry(conn(ctx, r.pool).QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres.WorkEntryRepository.%s: %w", op, err)
	}
	return w, nil
}

func (r *WorkEntryRepository) findMany(ctx context.Context, op, sql string, args ...any) ([]*entity.WorkEntry, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres.WorkEntryRepository.%s: %w", op, err)
	}
	defer rows.Close()

	entries := make([]*entity.WorkEntry, 0)
	for rows.Next() {
		w, err := scanWorkEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres.WorkEntryRepository.%s: %w", op, err)
		}
		entries = append(entries, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres.WorkEntryRepository.%s: %w", op, err)
	}
	return entries, nil
}

func scanWorkEntry(s scanner) (*entity.WorkEntry, error) {
	w := &entity.WorkEntry{}
	if err := s.Scan(&w.ID, &w.UserID, &w.StartDate, &w.EndDate, &w.CreatedAt, &w.UpdatedAt, &w.DeletedAt); err != nil {
		return nil, err
	}
	return w, nil
}

var _ repository.WorkEntryRepository = (*WorkEntryRepository)(nil)
