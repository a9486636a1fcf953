package repository

import (
	"context"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

func (r *Repository) GetWorkerByID(id int64) (*domain.Worker, error) {
	query := `
		SELECT username, password_hash, full_name, email, role, country_code, region_code, carryover_ceiling, is_active, created_at, version
		FROM workers WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	worker := &domain.Worker{
		ID: id,
	}

	dst := []any{&worker.Username, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.CountryCode, &worker.RegionCode, &worker.CarryoverCeiling, &worker.IsActive, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return worker, nil
}

func (r *Repository) GetWorkerByUsername(username string) (*domain.Worker, error) {
	query := `
		SELECT id, password_hash, full_name, email, role, country_code, region_code, carryover_ceiling, is_active, created_at, version
		FROM workers WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	worker := &domain.Worker{
		Username: username,
	}

	dst := []any{&worker.ID, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.CountryCode, &worker.RegionCode, &worker.CarryoverCeiling, &worker.IsActive, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return worker, nil
}

func (r *Repository) CreateWorker(worker *domain.Worker) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO workers (username, password_hash, full_name, email, role, country_code, region_code, carryover_ceiling)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_active, created_at, version
	`

	args := []any{worker.Username, worker.PasswordHash, worker.FullName, worker.Email, worker.Role, worker.CountryCode, worker.RegionCode, worker.CarryoverCeiling}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&worker.ID, &worker.IsActive, &worker.CreatedAt, &worker.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateWorker(worker *domain.Worker) error {
	query := `
		UPDATE workers
		SET
			email = $1,
			role = $2,
			country_code = $3,
			region_code = $4,
			carryover_ceiling = $5,
			is_active = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING username, full_name, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{worker.Email, worker.Role, worker.CountryCode, worker.RegionCode, worker.CarryoverCeiling, worker.IsActive, worker.ID, worker.Version}
	dst := []any{&worker.Username, &worker.FullName, &worker.CreatedAt, &worker.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetAllWorkers() ([]*domain.Worker, error) {
	query := `
		SELECT id, username, password_hash, full_name, email, role, country_code, region_code, carryover_ceiling, is_active, created_at, version
		FROM workers
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]*domain.Worker, 0)
	for rows.Next() {
		worker := &domain.Worker{}
		dst := []any{&worker.ID, &worker.Username, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.CountryCode, &worker.RegionCode, &worker.CarryoverCeiling, &worker.IsActive, &worker.CreatedAt, &worker.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

func (r *Repository) DeleteWorker(id int64) error {
	query := `
		DELETE FROM workers WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

// GetWorkersByTeam 获取某个团队的所有在职成员
func (r *Repository) GetWorkersByTeam(teamID int64) ([]*domain.Worker, error) {
	query := `
		SELECT w.id, w.username, w.password_hash, w.full_name, w.email, w.role, w.country_code, w.region_code, w.carryover_ceiling, w.is_active, w.created_at, w.version
		FROM workers w
		JOIN team_members tm ON tm.worker_id = w.id
		WHERE tm.team_id = $1 AND w.is_active = true
		ORDER BY w.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workers := make([]*domain.Worker, 0)
	for rows.Next() {
		worker := &domain.Worker{}
		dst := []any{&worker.ID, &worker.Username, &worker.PasswordHash, &worker.FullName, &worker.Email, &worker.Role, &worker.CountryCode, &worker.RegionCode, &worker.CarryoverCeiling, &worker.IsActive, &worker.CreatedAt, &worker.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workers, nil
}

// GetTeamIDsByWorker 获取员工所属的团队 ID 列表
func (r *Repository) GetTeamIDsByWorker(workerID int64) ([]int64, error) {
	query := `
		SELECT team_id FROM team_members WHERE worker_id = $1 ORDER BY team_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, workerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teamIDs := make([]int64, 0)
	for rows.Next() {
		var teamID int64
		if err := rows.Scan(&teamID); err != nil {
			return nil, err
		}
		teamIDs = append(teamIDs, teamID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teamIDs, nil
}
