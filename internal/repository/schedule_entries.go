package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

// InsertScheduleEntries 批量写入排班条目
// 冲突键 (worker_id, team_id, date) 上采用 upsert，让重跑生成是幂等的
func (r *Repository) InsertScheduleEntries(ctx context.Context, entries []*domain.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}

	var builder strings.Builder
	builder.WriteString(`
		INSERT INTO schedule_entries (worker_id, team_id, date, shift_type, activity_type, availability, definition_id, note, created_by)
		VALUES
	`)

	args := make([]any, 0, len(entries)*9)
	for i, entry := range entries {
		if i > 0 {
			builder.WriteString(", ")
		}
		base := i * 9
		fmt.Fprintf(&builder, "($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9)
		args = append(args, entry.WorkerID, entry.TeamID, entry.Date, entry.ShiftType, entry.ActivityType, entry.Availability, entry.DefinitionID, entry.Note, entry.CreatedBy)
	}

	builder.WriteString(`
		ON CONFLICT (worker_id, team_id, date) DO UPDATE
		SET
			shift_type = EXCLUDED.shift_type,
			activity_type = EXCLUDED.activity_type,
			availability = EXCLUDED.availability,
			definition_id = EXCLUDED.definition_id,
			note = EXCLUDED.note,
			created_by = EXCLUDED.created_by
	`)

	if _, err := r.dbpool.ExecContext(ctx, builder.String(), args...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetScheduleEntries(workerID int64, from time.Time, to time.Time) ([]*domain.ScheduleEntry, error) {
	query := `
		SELECT id, team_id, date, shift_type, activity_type, availability, definition_id, note, created_by, created_at
		FROM schedule_entries
		WHERE worker_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, workerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.ScheduleEntry, 0)
	for rows.Next() {
		entry := &domain.ScheduleEntry{
			WorkerID: workerID,
		}
		dst := []any{&entry.ID, &entry.TeamID, &entry.Date, &entry.ShiftType, &entry.ActivityType, &entry.Availability, &entry.DefinitionID, &entry.Note, &entry.CreatedBy, &entry.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repository) DeleteScheduleEntry(id int64) error {
	query := `
		DELETE FROM schedule_entries WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
