package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-ddd-worktime/internal/domain/entity"
	"github.com/oksasatya/go-ddd-worktime/internal/domain/repository"
)

type WorkEntryLogRepository struct {
	pool *pgxpool.Pool
}

func NewWorkEntryLogRepository(pool *pgxpool.Pool) *WorkEntryLogRepository {
	return &WorkEntryLogRepository{pool: pool}
}

// Save inserts the log and fills in its generated ID.
func (r *WorkEntryLogRepository) Save(ctx context.Context, l *entity.WorkEntryLog) error {
	err := conn(ctx, r.pool).QueryRow(ctx, `
		INSERT INTO work_entry_logs (work_entry_id, updated_by_user_id, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, l.WorkEntryID, l.UpdatedByUserID, l.PreviousStartDate, l.PreviousEndDate, l.CreatedAt).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("postgres.WorkEntryLogRepository.Save: %w", err)
	}
	return nil
}

func (r *WorkEntryLogRepository) ListByWorkEntryID(ctx context.Context, workEntryID string) ([]*entity.WorkEntryLog, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT id, work_entry_id, updated_by_user_id, start_time, end_time, created_at
		FROM work_entry_logs
		WHERE work_entry_id = $1
		ORDER BY created_at, id
	`, workEntryID)
	if err != nil {
		return nil, fmt.Errorf("postgres.WorkEntryLogRepository.ListByWorkEntryID: %w", err)
	}
	defer rows.Close()

	logs := make([]*entity.WorkEntryLog, 0)
	for rows.Next() {
		l := &entity.WorkEntryLog{}
		if err := rows.Scan(&l.ID, &l.WorkEntryID, &l.UpdatedByUserID, &l.PreviousStartDate, &l.PreviousEndDate, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres.WorkEntryLogRepository.ListByWorkEntryID: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres.WorkEntryLogRepository.ListByWorkEntryID: %w", err)
	}
	return logs, nil
}

var _ repository.WorkEntryLogRepository = (*WorkEntryLogRepository)(nil)
