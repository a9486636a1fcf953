package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

func (r *Repository) CreateHolidayRecord(record *domain.HolidayRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO holiday_records (date, name, country_code, region_code, owner_id, is_public)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	var regionCode *string
	if record.RegionCode != "" {
		regionCode = &record.RegionCode
	}
	args := []any{record.Date, record.Name, record.CountryCode, regionCode, record.OwnerID, record.IsPublic}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&record.ID, &record.CreatedAt, &record.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetHolidayRecordByID(id int64) (*domain.HolidayRecord, error) {
	query := `
		SELECT date, name, country_code, COALESCE(region_code, ''), owner_id, is_public, created_at, version
		FROM holiday_records WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	record := &domain.HolidayRecord{
		ID: id,
	}

	dst := []any{&record.Date, &record.Name, &record.CountryCode, &record.RegionCode, &record.OwnerID, &record.IsPublic, &record.CreatedAt, &record.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return record, nil
}

// GetHolidaysForWorker 获取某段时间内对指定员工可见的假期：
// 该员工所在国家的公共假期（全国性或该员工所在地区）加上该员工自己的个人假期
func (r *Repository) GetHolidaysForWorker(worker *domain.Worker, from time.Time, to time.Time) ([]*domain.HolidayRecord, error) {
	query := `
		SELECT id, date, name, country_code, COALESCE(region_code, ''), owner_id, is_public, created_at, version
		FROM holiday_records
		WHERE date >= $1 AND date <= $2
		  AND (
			(owner_id IS NULL AND country_code = $3 AND (region_code IS NULL OR region_code = $4))
			OR owner_id = $5
		  )
		ORDER BY date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{from, to, worker.CountryCode, worker.RegionCode, worker.ID}
	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHolidayRows(rows)
}

// GetPublicHolidays 获取某个国家在某段时间内由中心维护的公共假期
func (r *Repository) GetPublicHolidays(countryCode string, from time.Time, to time.Time) ([]*domain.HolidayRecord, error) {
	query := `
		SELECT id, date, name, country_code, COALESCE(region_code, ''), owner_id, is_public, created_at, version
		FROM holiday_records
		WHERE owner_id IS NULL AND country_code = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, countryCode, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHolidayRows(rows)
}

func (r *Repository) DeleteHolidayRecord(id int64) error {
	query := `
		DELETE FROM holiday_records WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func scanHolidayRows(rows *sql.Rows) ([]*domain.HolidayRecord, error) {
	records := make([]*domain.HolidayRecord, 0)
	for rows.Next() {
		record := &domain.HolidayRecord{}
		dst := []any{&record.ID, &record.Date, &record.Name, &record.CountryCode, &record.RegionCode, &record.OwnerID, &record.IsPublic, &record.CreatedAt, &record.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
