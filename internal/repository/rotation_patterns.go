package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

// patternConfig: 变体负载在数据库里统一存成一个 jsonb 列
type patternConfig struct {
	FixedDays *domain.FixedDaysPattern         `json:"fixedDays,omitempty"`
	Sequence  *domain.RepeatingSequencePattern `json:"sequence,omitempty"`
	Weekly    *domain.WeeklyPattern            `json:"weekly,omitempty"`
	Custom    *domain.CustomPattern            `json:"custom,omitempty"`
}

func (r *Repository) CreateRotationPattern(pattern *domain.RotationPattern) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	config, err := json.Marshal(patternConfig{
		FixedDays: pattern.FixedDays,
		Sequence:  pattern.Sequence,
		Weekly:    pattern.Weekly,
		Custom:    pattern.Custom,
	})
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rotation_patterns (name, kind, config)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, pattern.Name, pattern.Kind, config).Scan(&pattern.ID, &pattern.CreatedAt, &pattern.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetRotationPatternByID(id int64) (*domain.RotationPattern, error) {
	query := `
		SELECT name, kind, config, created_at, version FROM rotation_patterns WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	pattern := &domain.RotationPattern{
		ID: id,
	}

	var config []byte
	dst := []any{&pattern.Name, &pattern.Kind, &config, &pattern.CreatedAt, &pattern.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	var payload patternConfig
	if err := json.Unmarshal(config, &payload); err != nil {
		return nil, err
	}
	pattern.FixedDays = payload.FixedDays
	pattern.Sequence = payload.Sequence
	pattern.Weekly = payload.Weekly
	pattern.Custom = payload.Custom

	return pattern, nil
}

func (r *Repository) GetAllRotationPatterns() ([]*domain.RotationPattern, error) {
	query := `
		SELECT id, name, kind, config, created_at, version FROM rotation_patterns ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patterns := make([]*domain.RotationPattern, 0)
	for rows.Next() {
		pattern := &domain.RotationPattern{}
		var config []byte
		if err := rows.Scan(&pattern.ID, &pattern.Name, &pattern.Kind, &config, &pattern.CreatedAt, &pattern.Version); err != nil {
			return nil, err
		}

		var payload patternConfig
		if err := json.Unmarshal(config, &payload); err != nil {
			return nil, err
		}
		pattern.FixedDays = payload.FixedDays
		pattern.Sequence = payload.Sequence
		pattern.Weekly = payload.Weekly
		pattern.Custom = payload.Custom

		patterns = append(patterns, pattern)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return patterns, nil
}

func (r *Repository) DeleteRotationPattern(id int64) error {
	query := `
		DELETE FROM rotation_patterns WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
