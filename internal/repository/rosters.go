package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

func (r *Repository) CreateRoster(roster *domain.Roster, assignments []*domain.WeekAssignment) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO rosters (name, shift_type_label, cycle_length_weeks, start_date, end_date, default_shift_type, partnership_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version
	`
	args := []any{roster.Name, roster.ShiftTypeLabel, roster.CycleLengthWeeks, roster.StartDate, roster.EndDate, roster.DefaultShiftType, roster.PartnershipID, roster.Status}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&roster.ID, &roster.CreatedAt, &roster.Version); err != nil {
		return err
	}

	for _, a := range assignments {
		query = `
			INSERT INTO week_assignments (roster_id, cycle_week, worker_id, team_id, shift_type)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		a.RosterID = roster.ID
		if err := tx.QueryRowContext(ctx, query, roster.ID, a.CycleWeek, a.WorkerID, a.TeamID, a.ShiftType).Scan(&a.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetRosterByID(id int64) (*domain.Roster, error) {
	query := `
		SELECT name, shift_type_label, cycle_length_weeks, start_date, end_date, default_shift_type, partnership_id, status, created_at, version
		FROM rosters WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	roster := &domain.Roster{
		ID: id,
	}

	dst := []any{&roster.Name, &roster.ShiftTypeLabel, &roster.CycleLengthWeeks, &roster.StartDate, &roster.EndDate, &roster.DefaultShiftType, &roster.PartnershipID, &roster.Status, &roster.CreatedAt, &roster.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return roster, nil
}

func (r *Repository) GetAllRosters() ([]*domain.Roster, error) {
	query := `
		SELECT id, name, shift_type_label, cycle_length_weeks, start_date, end_date, default_shift_type, partnership_id, status, created_at, version
		FROM rosters ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rosters := make([]*domain.Roster, 0)
	for rows.Next() {
		roster := &domain.Roster{}
		dst := []any{&roster.ID, &roster.Name, &roster.ShiftTypeLabel, &roster.CycleLengthWeeks, &roster.StartDate, &roster.EndDate, &roster.DefaultShiftType, &roster.PartnershipID, &roster.Status, &roster.CreatedAt, &roster.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		rosters = append(rosters, roster)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rosters, nil
}

func (r *Repository) GetWeekAssignments(rosterID int64) ([]*domain.WeekAssignment, error) {
	query := `
		SELECT id, cycle_week, worker_id, team_id, shift_type
		FROM week_assignments WHERE roster_id = $1
		ORDER BY cycle_week, id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, rosterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.WeekAssignment, 0)
	for rows.Next() {
		a := &domain.WeekAssignment{
			RosterID: rosterID,
		}
		if err := rows.Scan(&a.ID, &a.CycleWeek, &a.WorkerID, &a.TeamID, &a.ShiftType); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

// UpdateRosterStatus 推进班表状态，生成器写入成功后调用
func (r *Repository) UpdateRosterStatus(ctx context.Context, rosterID int64, status domain.RosterStatus) error {
	query := `
		UPDATE rosters SET status = $1, version = version + 1 WHERE id = $2
	`

	result, err := r.dbpool.ExecContext(ctx, query, status, rosterID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *Repository) DeleteRoster(id int64) error {
	query := `
		DELETE FROM rosters WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetRosterApprovals(rosterID int64) ([]*domain.RosterApproval, error) {
	query := `
		SELECT id, manager_id, approved, created_at
		FROM roster_approvals WHERE roster_id = $1
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, rosterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	approvals := make([]*domain.RosterApproval, 0)
	for rows.Next() {
		approval := &domain.RosterApproval{
			RosterID: rosterID,
		}
		if err := rows.Scan(&approval.ID, &approval.ManagerID, &approval.Approved, &approval.CreatedAt); err != nil {
			return nil, err
		}
		approvals = append(approvals, approval)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return approvals, nil
}

// UpsertRosterApproval 记录经理对班表的审批结论
func (r *Repository) UpsertRosterApproval(approval *domain.RosterApproval) error {
	query := `
		INSERT INTO roster_approvals (roster_id, manager_id, approved)
		VALUES ($1, $2, $3)
		ON CONFLICT (roster_id, manager_id) DO UPDATE SET approved = EXCLUDED.approved
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, approval.RosterID, approval.ManagerID, approval.Approved).Scan(&approval.ID, &approval.CreatedAt); err != nil {
		return err
	}

	return nil
}
