package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

// GetAllShiftTimeDefinitions 获取所有班次时间定义
// 适用日、适用团队集合和适用国家集合在三张子表中，用 LEFT JOIN 一次查出后在内存组装
func (r *Repository) GetAllShiftTimeDefinitions() ([]*domain.ShiftTimeDefinition, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			d.id,
			d.shift_type,
			d.team_id,
			d.region_code,
			d.start_time,
			d.end_time,
			d.description,
			d.created_at,
			d.version,
			dw.weekday,
			dt.team_id,
			dc.country_code
		FROM shift_time_definitions d
		LEFT JOIN shift_time_definition_weekdays dw ON d.id = dw.definition_id
		LEFT JOIN shift_time_definition_teams dt ON d.id = dt.definition_id
		LEFT JOIN shift_time_definition_countries dc ON d.id = dc.definition_id
		ORDER BY d.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	definitionsMap := make(map[int64]*domain.ShiftTimeDefinition)
	weekdaysSeen := make(map[int64]map[int32]bool)
	teamsSeen := make(map[int64]map[int64]bool)
	countriesSeen := make(map[int64]map[string]bool)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID          int64
			ShiftType   string
			TeamID      sql.NullInt64
			RegionCode  sql.NullString
			StartTime   string
			EndTime     string
			Description string
			CreatedAt   time.Time
			Version     int32

			Weekday     sql.NullInt32
			ExtraTeamID sql.NullInt64
			CountryCode sql.NullString
		}

		dst := []any{
			&row.ID,
			&row.ShiftType,
			&row.TeamID,
			&row.RegionCode,
			&row.StartTime,
			&row.EndTime,
			&row.Description,
			&row.CreatedAt,
			&row.Version,
			&row.Weekday,
			&row.ExtraTeamID,
			&row.CountryCode,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		def, exists := definitionsMap[row.ID]
		if !exists {
			// 说明此时是第一次查到这个定义，需要在 map 中初始化这个定义
			def = &domain.ShiftTimeDefinition{
				ID:           row.ID,
				ShiftType:    domain.ShiftType(row.ShiftType),
				RegionCode:   row.RegionCode.String,
				TeamIDs:      make([]int64, 0),
				CountryCodes: make([]string, 0),
				Weekdays:     make([]int32, 0),
				StartTime:    row.StartTime,
				EndTime:      row.EndTime,
				Description:  row.Description,
				CreatedAt:    row.CreatedAt,
				Version:      row.Version,
			}
			if row.TeamID.Valid {
				teamID := row.TeamID.Int64
				def.TeamID = &teamID
			}
			definitionsMap[row.ID] = def
			weekdaysSeen[row.ID] = make(map[int32]bool)
			teamsSeen[row.ID] = make(map[int64]bool)
			countriesSeen[row.ID] = make(map[string]bool)
			order = append(order, row.ID)
		}

		// 三张子表做了笛卡尔积，组装时要按定义去重
		if row.Weekday.Valid && !weekdaysSeen[row.ID][row.Weekday.Int32] {
			weekdaysSeen[row.ID][row.Weekday.Int32] = true
			def.Weekdays = append(def.Weekdays, row.Weekday.Int32)
		}
		if row.ExtraTeamID.Valid && !teamsSeen[row.ID][row.ExtraTeamID.Int64] {
			teamsSeen[row.ID][row.ExtraTeamID.Int64] = true
			def.TeamIDs = append(def.TeamIDs, row.ExtraTeamID.Int64)
		}
		if row.CountryCode.Valid && !countriesSeen[row.ID][row.CountryCode.String] {
			countriesSeen[row.ID][row.CountryCode.String] = true
			def.CountryCodes = append(def.CountryCodes, row.CountryCode.String)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	definitions := make([]*domain.ShiftTimeDefinition, 0, len(order))
	for _, id := range order {
		definitions = append(definitions, definitionsMap[id])
	}

	return definitions, nil
}

func (r *Repository) GetShiftTimeDefinitionByID(id int64) (*domain.ShiftTimeDefinition, error) {
	definitions, err := r.GetAllShiftTimeDefinitions()
	if err != nil {
		return nil, err
	}

	for _, def := range definitions {
		if def.ID == id {
			return def, nil
		}
	}

	return nil, sql.ErrNoRows
}

func (r *Repository) CreateShiftTimeDefinition(def *domain.ShiftTimeDefinition) error {
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
		INSERT INTO shift_time_definitions (shift_type, team_id, region_code, start_time, end_time, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`
	var regionCode *string
	if def.RegionCode != "" {
		regionCode = &def.RegionCode
	}
	args := []any{def.ShiftType, def.TeamID, regionCode, def.StartTime, def.EndTime, def.Description}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&def.ID, &def.CreatedAt, &def.Version); err != nil {
		return err
	}

	for _, weekday := range def.Weekdays {
		query = `
			INSERT INTO shift_time_definition_weekdays (definition_id, weekday)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, def.ID, weekday); err != nil {
			return err
		}
	}

	for _, teamID := range def.TeamIDs {
		query = `
			INSERT INTO shift_time_definition_teams (definition_id, team_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, def.ID, teamID); err != nil {
			return err
		}
	}

	for _, countryCode := range def.CountryCodes {
		query = `
			INSERT INTO shift_time_definition_countries (definition_id, country_code)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, def.ID, countryCode); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateShiftTimeDefinition(def *domain.ShiftTimeDefinition) error {
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
		UPDATE shift_time_definitions
		SET
			shift_type = $1,
			team_id = $2,
			region_code = $3,
			start_time = $4,
			end_time = $5,
			description = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version
	`
	var regionCode *string
	if def.RegionCode != "" {
		regionCode = &def.RegionCode
	}
	args := []any{def.ShiftType, def.TeamID, regionCode, def.StartTime, def.EndTime, def.Description, def.ID, def.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&def.Version); err != nil {
		return err
	}

	// 子表直接重建，避免逐条对比
	for _, table := range []string{"shift_time_definition_weekdays", "shift_time_definition_teams", "shift_time_definition_countries"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE definition_id = $1`, def.ID); err != nil {
			return err
		}
	}

	for _, weekday := range def.Weekdays {
		if _, err := tx.ExecContext(ctx, `INSERT INTO shift_time_definition_weekdays (definition_id, weekday) VALUES ($1, $2)`, def.ID, weekday); err != nil {
			return err
		}
	}
	for _, teamID := range def.TeamIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO shift_time_definition_teams (definition_id, team_id) VALUES ($1, $2)`, def.ID, teamID); err != nil {
			return err
		}
	}
	for _, countryCode := range def.CountryCodes {
		if _, err := tx.ExecContext(ctx, `INSERT INTO shift_time_definition_countries (definition_id, country_code) VALUES ($1, $2)`, def.ID, countryCode); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteShiftTimeDefinition(id int64) error {
	query := `
		DELETE FROM shift_time_definitions WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
