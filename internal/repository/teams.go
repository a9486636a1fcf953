package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

func (r *Repository) CreateTeam(team *domain.Team) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO teams (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, team.Name, team.Description).Scan(&team.ID, &team.CreatedAt, &team.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetTeamByID(id int64) (*domain.Team, error) {
	query := `
		SELECT name, description, created_at, version FROM teams WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	team := &domain.Team{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&team.Name, &team.Description, &team.CreatedAt, &team.Version); err != nil {
		return nil, err
	}

	return team, nil
}

func (r *Repository) GetAllTeams() ([]*domain.Team, error) {
	query := `
		SELECT id, name, description, created_at, version FROM teams ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*domain.Team, 0)
	for rows.Next() {
		team := &domain.Team{}
		if err := rows.Scan(&team.ID, &team.Name, &team.Description, &team.CreatedAt, &team.Version); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *Repository) AddTeamMember(teamID int64, workerID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO team_members (team_id, worker_id)
		VALUES ($1, $2)
		ON CONFLICT (team_id, worker_id) DO NOTHING
	`

	if _, err := r.dbpool.ExecContext(ctx, query, teamID, workerID); err != nil {
		return err
	}

	return nil
}

// GetPartnershipByID 获取团队组合及其成员团队 ID
func (r *Repository) GetPartnershipByID(id int64) (*domain.Partnership, error) {
	query := `
		SELECT p.name, p.created_at, p.version, pt.team_id
		FROM partnerships p
		LEFT JOIN partnership_teams pt ON pt.partnership_id = p.id
		WHERE p.id = $1
		ORDER BY pt.team_id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	partnership := &domain.Partnership{
		ID:      id,
		TeamIDs: make([]int64, 0),
	}

	found := false
	for rows.Next() {
		var teamID *int64
		if err := rows.Scan(&partnership.Name, &partnership.CreatedAt, &partnership.Version, &teamID); err != nil {
			return nil, err
		}
		found = true

		// teamID 为空表示这个组合没有任何成员团队
		if teamID != nil {
			partnership.TeamIDs = append(partnership.TeamIDs, *teamID)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, sql.ErrNoRows
	}

	return partnership, nil
}

func (r *Repository) CreatePartnership(partnership *domain.Partnership) error {
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
		INSERT INTO partnerships (name)
		VALUES ($1)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, partnership.Name).Scan(&partnership.ID, &partnership.CreatedAt, &partnership.Version); err != nil {
		return err
	}

	for _, teamID := range partnership.TeamIDs {
		query = `
			INSERT INTO partnership_teams (partnership_id, team_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, partnership.ID, teamID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
