package repository

import (
	"context"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/shopspring/decimal"
)

// UpsertDailyTimeEntry 按 (worker_id, date) 保存工时记录，每人每天只有一条
func (r *Repository) UpsertDailyTimeEntry(entry *domain.DailyTimeEntry) error {
	query := `
		INSERT INTO daily_time_entries (worker_id, date, start_time, end_time, break_minutes, target_hours, actual_hours, flex_delta, entry_type, withdrawal_hours, locked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (worker_id, date) DO UPDATE
		SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			break_minutes = EXCLUDED.break_minutes,
			target_hours = EXCLUDED.target_hours,
			actual_hours = EXCLUDED.actual_hours,
			flex_delta = EXCLUDED.flex_delta,
			entry_type = EXCLUDED.entry_type,
			withdrawal_hours = EXCLUDED.withdrawal_hours,
			version = daily_time_entries.version + 1
		RETURNING id, locked, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{entry.WorkerID, entry.Date, entry.StartTime, entry.EndTime, entry.BreakMinutes, entry.TargetHours, entry.ActualHours, entry.FlexDelta, entry.EntryType, entry.WithdrawalHours, entry.Locked}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.Locked, &entry.CreatedAt, &entry.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetDailyTimeEntry(workerID int64, date time.Time) (*domain.DailyTimeEntry, error) {
	query := `
		SELECT id, start_time, end_time, break_minutes, target_hours, actual_hours, flex_delta, entry_type, withdrawal_hours, locked, created_at, version
		FROM daily_time_entries
		WHERE worker_id = $1 AND date = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	entry := &domain.DailyTimeEntry{
		WorkerID: workerID,
		Date:     date,
	}

	dst := []any{&entry.ID, &entry.StartTime, &entry.EndTime, &entry.BreakMinutes, &entry.TargetHours, &entry.ActualHours, &entry.FlexDelta, &entry.EntryType, &entry.WithdrawalHours, &entry.Locked, &entry.CreatedAt, &entry.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, workerID, date).Scan(dst...); err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *Repository) GetDailyTimeEntries(workerID int64, from time.Time, to time.Time) ([]*domain.DailyTimeEntry, error) {
	query := `
		SELECT id, date, start_time, end_time, break_minutes, target_hours, actual_hours, flex_delta, entry_type, withdrawal_hours, locked, created_at, version
		FROM daily_time_entries
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

	entries := make([]*domain.DailyTimeEntry, 0)
	for rows.Next() {
		entry := &domain.DailyTimeEntry{
			WorkerID: workerID,
		}
		dst := []any{&entry.ID, &entry.Date, &entry.StartTime, &entry.EndTime, &entry.BreakMinutes, &entry.TargetHours, &entry.ActualHours, &entry.FlexDelta, &entry.EntryType, &entry.WithdrawalHours, &entry.Locked, &entry.CreatedAt, &entry.Version}
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

// GetMonthFlexDeltas 获取某个员工某个月所有工时记录的差额，用于整月重算
func (r *Repository) GetMonthFlexDeltas(workerID int64, year int, month int) ([]decimal.Decimal, error) {
	query := `
		SELECT flex_delta
		FROM daily_time_entries
		WHERE worker_id = $1 AND EXTRACT(YEAR FROM date) = $2 AND EXTRACT(MONTH FROM date) = $3
		ORDER BY date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, workerID, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deltas := make([]decimal.Decimal, 0)
	for rows.Next() {
		var delta decimal.Decimal
		if err := rows.Scan(&delta); err != nil {
			return nil, err
		}
		deltas = append(deltas, delta)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return deltas, nil
}

func (r *Repository) DeleteDailyTimeEntry(workerID int64, date time.Time) error {
	query := `
		DELETE FROM daily_time_entries WHERE worker_id = $1 AND date = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, workerID, date)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetMonthlyFlexSummary(workerID int64, year int, month int) (*domain.MonthlyFlexSummary, error) {
	query := `
		SELECT id, starting_balance, month_delta, ending_balance, created_at
		FROM monthly_flex_summaries
		WHERE worker_id = $1 AND year = $2 AND month = $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	summary := &domain.MonthlyFlexSummary{
		WorkerID: workerID,
		Year:     year,
		Month:    month,
	}

	dst := []any{&summary.ID, &summary.StartingBalance, &summary.MonthDelta, &summary.EndingBalance, &summary.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, workerID, year, month).Scan(dst...); err != nil {
		return nil, err
	}

	return summary, nil
}

func (r *Repository) GetYearlyFlexSummaries(workerID int64, year int) ([]*domain.MonthlyFlexSummary, error) {
	query := `
		SELECT id, month, starting_balance, month_delta, ending_balance, created_at
		FROM monthly_flex_summaries
		WHERE worker_id = $1 AND year = $2
		ORDER BY month
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, workerID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]*domain.MonthlyFlexSummary, 0)
	for rows.Next() {
		summary := &domain.MonthlyFlexSummary{
			WorkerID: workerID,
			Year:     year,
		}
		dst := []any{&summary.ID, &summary.Month, &summary.StartingBalance, &summary.MonthDelta, &summary.EndingBalance, &summary.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// UpsertMonthlyFlexSummary 按 (worker_id, year, month) 保存月度汇总，始终整体覆盖
func (r *Repository) UpsertMonthlyFlexSummary(summary *domain.MonthlyFlexSummary) error {
	query := `
		INSERT INTO monthly_flex_summaries (worker_id, year, month, starting_balance, month_delta, ending_balance)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (worker_id, year, month) DO UPDATE
		SET
			starting_balance = EXCLUDED.starting_balance,
			month_delta = EXCLUDED.month_delta,
			ending_balance = EXCLUDED.ending_balance
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{summary.WorkerID, summary.Year, summary.Month, summary.StartingBalance, summary.MonthDelta, summary.EndingBalance}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&summary.ID, &summary.CreatedAt); err != nil {
		return err
	}

	return nil
}
