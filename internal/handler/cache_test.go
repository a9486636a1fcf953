package handler

import (
	"fmt"
	"testing"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidaysForYearsSpansYearBoundary(t *testing.T) {
	// 2026-12-28 到 2027-01-03，跨年范围要把两年的假期都加载进来
	dates := make([]time.Time, 0)
	for d := time.Date(2026, time.December, 28, 0, 0, 0, 0, time.UTC); !d.After(time.Date(2027, time.January, 3, 0, 0, 0, 0, time.UTC)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}

	byYear := map[int][]*domain.HolidayRecord{
		2026: {{ID: 1, Date: time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC), Name: "Silvester", CountryCode: "DE", IsPublic: true}},
		2027: {{ID: 2, Date: time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), Name: "Neujahr", CountryCode: "DE", IsPublic: true}},
	}

	loaded := make(map[int]int)
	holidays, err := holidaysForYears(dates, func(year int) ([]*domain.HolidayRecord, error) {
		loaded[year]++
		return byYear[year], nil
	})
	require.NoError(t, err)

	assert.Equal(t, map[int]int{2026: 1, 2027: 1}, loaded)
	require.Len(t, holidays, 2)

	ids := make(map[int64]bool)
	for _, holiday := range holidays {
		ids[holiday.ID] = true
	}
	assert.True(t, ids[1])
	assert.True(t, ids[2])
}

func TestHolidaysForYearsSingleYearLoadsOnce(t *testing.T) {
	dates := []time.Time{
		time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC),
	}

	calls := 0
	_, err := holidaysForYears(dates, func(year int) ([]*domain.HolidayRecord, error) {
		calls++
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestHolidaysForYearsPropagatesLoadError(t *testing.T) {
	dates := []time.Time{time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)}

	_, err := holidaysForYears(dates, func(year int) ([]*domain.HolidayRecord, error) {
		return nil, fmt.Errorf("redis unavailable")
	})
	assert.Error(t, err)
}
