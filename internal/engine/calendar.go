package engine

import (
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

// DayClassification: 某一天对某个员工的日历分类结果
// 个人假期和公共假期不互斥，两个标志独立返回，优先级由调用方决定
type DayClassification struct {
	IsWeekend         bool   `json:"isWeekend"`
	IsPublicHoliday   bool   `json:"isPublicHoliday"`
	HolidayName       string `json:"holidayName,omitempty"`
	IsPersonalHoliday bool   `json:"isPersonalHoliday"`
}

// Classifier 在一批预先加载的假期记录上做纯日期判断，不会失败
type Classifier struct {
	holidays []*domain.HolidayRecord
}

func NewClassifier(holidays []*domain.HolidayRecord) *Classifier {
	return &Classifier{holidays: holidays}
}

// IsWeekend 只由星期几决定，与假期数据无关
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Classify 对指定员工分类某一天
// worker 为空（员工地区未知）时假期标志全部为 false，但周末照常计算
func (c *Classifier) Classify(date time.Time, worker *domain.Worker) DayClassification {
	result := DayClassification{
		IsWeekend: IsWeekend(date),
	}

	if worker == nil {
		return result
	}

	for _, h := range c.holidays {
		if !h.SameDay(date) {
			continue
		}

		if h.OwnerID == nil {
			// 公共假期：国家一致，地区为空（全国性）或与员工地区一致
			if h.CountryCode != worker.CountryCode {
				continue
			}
			if h.RegionCode != "" && h.RegionCode != worker.RegionCode {
				continue
			}
			result.IsPublicHoliday = true
			if result.HolidayName == "" {
				result.HolidayName = h.Name
			}
		} else if *h.OwnerID == worker.ID {
			// 个人假期：只对所属员工生效
			result.IsPersonalHoliday = true
			if result.HolidayName == "" {
				result.HolidayName = h.Name
			}
		}
	}

	return result
}

// IsPublicHoliday 判断某一天在指定国家/地区是否是由中心维护的公共假期
// 班次时间解析器在判断周末资格时会用到
func (c *Classifier) IsPublicHoliday(date time.Time, countryCode string, regionCode string) bool {
	for _, h := range c.holidays {
		if h.OwnerID != nil || !h.SameDay(date) {
			continue
		}
		if countryCode != "" && h.CountryCode != countryCode {
			continue
		}
		if h.RegionCode != "" && h.RegionCode != regionCode {
			continue
		}
		return true
	}
	return false
}
