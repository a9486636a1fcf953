package engine

import (
	"testing"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testWorker(id int64, country string, region string) *domain.Worker {
	return &domain.Worker{
		ID:               id,
		Username:         "worker",
		FullName:         "Test Worker",
		Role:             domain.RoleWorker,
		CountryCode:      country,
		RegionCode:       region,
		CarryoverCeiling: decimal.NewFromInt(40),
		IsActive:         true,
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestIsWeekend(t *testing.T) {
	assert.False(t, IsWeekend(time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC))) // 周五
	assert.True(t, IsWeekend(time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)))  // 周六
	assert.True(t, IsWeekend(time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC)))  // 周日
}

func TestClassify(t *testing.T) {
	nationalHoliday := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	regionalHoliday := time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)
	personalDay := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

	holidays := []*domain.HolidayRecord{
		{ID: 1, Date: nationalHoliday, Name: "Tag der Arbeit", CountryCode: "DE", IsPublic: true},
		{ID: 2, Date: regionalHoliday, Name: "Heilige Drei Könige", CountryCode: "DE", RegionCode: "BY", IsPublic: true},
		{ID: 3, Date: personalDay, Name: "Umzug", CountryCode: "DE", OwnerID: int64Ptr(7)},
	}
	classifier := NewClassifier(holidays)

	t.Run("national holiday applies regardless of region", func(t *testing.T) {
		result := classifier.Classify(nationalHoliday, testWorker(1, "DE", "NW"))
		assert.True(t, result.IsPublicHoliday)
		assert.Equal(t, "Tag der Arbeit", result.HolidayName)
	})

	t.Run("regional holiday only applies in its region", func(t *testing.T) {
		assert.True(t, classifier.Classify(regionalHoliday, testWorker(1, "DE", "BY")).IsPublicHoliday)
		assert.False(t, classifier.Classify(regionalHoliday, testWorker(1, "DE", "NW")).IsPublicHoliday)
	})

	t.Run("holiday does not cross countries", func(t *testing.T) {
		result := classifier.Classify(nationalHoliday, testWorker(1, "AT", ""))
		assert.False(t, result.IsPublicHoliday)
	})

	t.Run("personal holiday only visible to its owner", func(t *testing.T) {
		assert.True(t, classifier.Classify(personalDay, testWorker(7, "DE", "BY")).IsPersonalHoliday)
		assert.False(t, classifier.Classify(personalDay, testWorker(8, "DE", "BY")).IsPersonalHoliday)
	})

	t.Run("personal holiday on a national holiday sets both flags", func(t *testing.T) {
		overlapping := NewClassifier(append(holidays, &domain.HolidayRecord{
			ID: 4, Date: nationalHoliday, Name: "Familienfeier", CountryCode: "DE", OwnerID: int64Ptr(7),
		}))
		result := overlapping.Classify(nationalHoliday, testWorker(7, "DE", "NW"))
		assert.True(t, result.IsPublicHoliday)
		assert.True(t, result.IsPersonalHoliday)
		assert.Equal(t, "Tag der Arbeit", result.HolidayName)

		// 其他员工只看到公共假期那一面
		other := overlapping.Classify(nationalHoliday, testWorker(8, "DE", "NW"))
		assert.True(t, other.IsPublicHoliday)
		assert.False(t, other.IsPersonalHoliday)
	})

	t.Run("nil worker still reports weekends", func(t *testing.T) {
		saturday := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
		result := classifier.Classify(saturday, nil)
		assert.True(t, result.IsWeekend)
		assert.False(t, result.IsPublicHoliday)
		assert.False(t, result.IsPersonalHoliday)
	})
}

func TestIsPublicHoliday(t *testing.T) {
	holiday := time.Date(2026, time.October, 3, 0, 0, 0, 0, time.UTC)
	classifier := NewClassifier([]*domain.HolidayRecord{
		{ID: 1, Date: holiday, Name: "Tag der Deutschen Einheit", CountryCode: "DE", IsPublic: true},
		{ID: 2, Date: holiday, Name: "Privat", CountryCode: "DE", OwnerID: int64Ptr(3)},
	})

	assert.True(t, classifier.IsPublicHoliday(holiday, "DE", ""))
	assert.False(t, classifier.IsPublicHoliday(holiday, "AT", ""))
	// 个人假期不算公共假期
	assert.False(t, classifier.IsPublicHoliday(holiday.AddDate(0, 0, 1), "DE", ""))
}
