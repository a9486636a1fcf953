package domain

import "time"

// HolidayRecord: 公共假期或个人假期
// 约束：公共假期的 OwnerID 必须为空，个人假期的 OwnerID 必须非空且只对该员工可见
type HolidayRecord struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Name        string    `json:"name"`
	CountryCode string    `json:"countryCode"`
	RegionCode  string    `json:"regionCode"` // 为空表示全国性假期
	OwnerID     *int64    `json:"ownerID"`
	IsPublic    bool      `json:"isPublic"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}

// SameDay 判断假期是否落在指定日期（忽略时间部分）
func (h *HolidayRecord) SameDay(date time.Time) bool {
	hy, hm, hd := h.Date.Date()
	y, m, d := date.Date()
	return hy == y && hm == m && hd == d
}
