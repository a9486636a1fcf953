package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

const definitionsCacheKey = "shift_time_definitions"

func holidaysCacheKey(workerID int64, year int) string {
	return fmt.Sprintf("holidays_%d_%d", workerID, year)
}

// loadDefinitions 优先从 redis 读取班次时间定义列表，未命中时回源数据库并写回缓存
func (h *Handler) loadDefinitions() ([]*domain.ShiftTimeDefinition, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	cached, err := h.redisClient.Get(ctx, definitionsCacheKey).Result()
	if err == nil {
		defs := []*domain.ShiftTimeDefinition{}
		if err := json.Unmarshal([]byte(cached), &defs); err == nil {
			return defs, nil
		}
		// 缓存内容损坏时当作未命中，回源数据库
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	defs, err := h.repository.GetAllShiftTimeDefinitions()
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(defs)
	if err != nil {
		return nil, err
	}
	if err := h.redisClient.Set(ctx, definitionsCacheKey, data, time.Duration(h.config.Cache.DefinitionExpiration)*time.Second).Err(); err != nil {
		return nil, err
	}

	return defs, nil
}

// invalidateDefinitions 在定义发生变更后删除缓存
func (h *Handler) invalidateDefinitions() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	return h.redisClient.Del(ctx, definitionsCacheKey).Err()
}

// loadHolidays 加载某个员工某一年可见的全部假期（公共假期加个人假期），带缓存
func (h *Handler) loadHolidays(worker *domain.Worker, year int) ([]*domain.HolidayRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	key := holidaysCacheKey(worker.ID, year)
	cached, err := h.redisClient.Get(ctx, key).Result()
	if err == nil {
		holidays := []*domain.HolidayRecord{}
		if err := json.Unmarshal([]byte(cached), &holidays); err == nil {
			return holidays, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, err
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	holidays, err := h.repository.GetHolidaysForWorker(worker, from, to)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(holidays)
	if err != nil {
		return nil, err
	}
	if err := h.redisClient.Set(ctx, key, data, time.Duration(h.config.Cache.HolidayExpiration)*time.Second).Err(); err != nil {
		return nil, err
	}

	return holidays, nil
}

// loadHolidaysForDates 汇总日期集合覆盖到的每一年的假期记录
func (h *Handler) loadHolidaysForDates(worker *domain.Worker, dates []time.Time) ([]*domain.HolidayRecord, error) {
	return holidaysForYears(dates, func(year int) ([]*domain.HolidayRecord, error) {
		return h.loadHolidays(worker, year)
	})
}

// holidaysForYears 对日期集合覆盖的每个年份调用一次 load 并合并结果
// 日期范围可能跨年，只加载首个日期所在年份会漏掉第二年的假期
func holidaysForYears(dates []time.Time, load func(year int) ([]*domain.HolidayRecord, error)) ([]*domain.HolidayRecord, error) {
	years := make(map[int]bool)
	for _, date := range dates {
		years[date.Year()] = true
	}

	merged := make([]*domain.HolidayRecord, 0)
	for year := range years {
		holidays, err := load(year)
		if err != nil {
			return nil, err
		}
		merged = append(merged, holidays...)
	}
	return merged, nil
}

// invalidateHolidays 删除某个员工某一年的假期缓存
// 公共假期变更对其他员工的可见性依靠缓存过期兜底
func (h *Handler) invalidateHolidays(workerID int64, year int) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	return h.redisClient.Del(ctx, holidaysCacheKey(workerID, year)).Err()
}
