package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
)

// WriteBatchSize: 每批写入的排班条目数量，限制单次请求的大小
const WriteBatchSize = 100

// RosterStore: 生成器对外部存储的最小依赖
// 批次之间没有事务包裹，失败时已提交的批次不会回滚（至少一次语义）
type RosterStore interface {
	InsertScheduleEntries(ctx context.Context, entries []*domain.ScheduleEntry) error
	UpdateRosterStatus(ctx context.Context, rosterID int64, status domain.RosterStatus) error
}

// Member: 参与排班的员工及其所在团队
type Member struct {
	Worker *domain.Worker
	TeamID int64
}

type Generator struct {
	resolver *Resolver
	store    RosterStore
}

func NewGenerator(resolver *Resolver, store RosterStore) *Generator {
	return &Generator{
		resolver: resolver,
		store:    store,
	}
}

// Generate 把多周循环的轮值安排展开成具体的逐人逐日排班条目并分批写入存储
// 返回已经提交成功的条目数量；某一批写入失败时立即中止并返回该错误，
// 之前已提交的批次保持原样，调用方依靠存储层的冲突键做幂等重跑
func (g *Generator) Generate(ctx context.Context, roster *domain.Roster, assignments []*domain.WeekAssignment, members []*Member, requestedBy int64) (int, error) {
	endDate := roster.EffectiveEndDate()
	weekStart := mondayOf(roster.StartDate)

	entries := make([]*domain.ScheduleEntry, 0, WriteBatchSize)
	created := 0

	for weekCounter := 0; !weekStart.After(endDate); weekCounter++ {
		cycleWeek := weekCounter%roster.CycleLengthWeeks + 1

		for _, member := range members {
			label, teamID := dutyForWeek(roster, assignments, member, cycleWeek)
			if label == "" || label == "off" || label == "none" {
				// 该员工这个周期周不值班，整周跳过
				continue
			}

			weekEntries := g.expandWeek(roster, member, teamID, label, weekStart, endDate, requestedBy)
			entries = append(entries, weekEntries...)
		}

		// 满一批就写一批，避免把整个班表都攒在内存里
		for len(entries) >= WriteBatchSize {
			if err := g.store.InsertScheduleEntries(ctx, entries[:WriteBatchSize]); err != nil {
				return created, err
			}
			created += WriteBatchSize
			entries = entries[WriteBatchSize:]
		}

		weekStart = weekStart.AddDate(0, 0, 7)
	}

	if len(entries) > 0 {
		if err := g.store.InsertScheduleEntries(ctx, entries); err != nil {
			return created, err
		}
		created += len(entries)
	}

	// 全部写入成功后把班表状态推进到已实施
	if err := g.store.UpdateRosterStatus(ctx, roster.ID, domain.RosterStatusImplemented); err != nil {
		return created, err
	}

	return created, nil
}

// dutyForWeek 决定员工在某个周期周的班次标签和所属团队：
// 有值班安排时用安排中的显式班次（没有显式班次则用班表的值班班次），
// 没有值班安排时落到班表为不值班员工配置的默认班次
func dutyForWeek(roster *domain.Roster, assignments []*domain.WeekAssignment, member *Member, cycleWeek int) (string, int64) {
	for _, a := range assignments {
		if a.CycleWeek != cycleWeek || a.WorkerID == nil || *a.WorkerID != member.Worker.ID {
			continue
		}
		if a.ShiftType != nil {
			return *a.ShiftType, a.TeamID
		}
		return roster.ShiftTypeLabel, a.TeamID
	}

	if roster.DefaultShiftType != nil {
		return *roster.DefaultShiftType, member.TeamID
	}
	return "", member.TeamID
}

// expandWeek 生成某个员工在一个周一对齐的周窗口内的全部条目
func (g *Generator) expandWeek(roster *domain.Roster, member *Member, teamID int64, label string, weekStart time.Time, endDate time.Time, requestedBy int64) []*domain.ScheduleEntry {
	entries := make([]*domain.ScheduleEntry, 0, 7)

	// 复合班次把一周拆成周末时间窗和工作日时间窗两套规则
	compound, isCompound := domain.ParseCompoundShift(label)

	for offset := 0; offset < 7; offset++ {
		date := weekStart.AddDate(0, 0, offset)

		// 条目不能越过班表的起止范围
		if date.Before(roster.StartDate) || date.After(endDate) {
			continue
		}

		isWeekendDay := offset >= 5 // 周一对齐的窗口中第 6、7 天固定是周六日

		var shiftType domain.ShiftType
		switch {
		case isCompound && isWeekendDay:
			shiftType = compound.WeekendType
		case isCompound:
			shiftType = compound.WeekdayType
		case domain.ShiftType(label) == domain.ShiftTypeWeekend:
			if !isWeekendDay {
				continue
			}
			shiftType = domain.ShiftTypeWeekend
		default:
			if isWeekendDay {
				continue
			}
			shiftType = domain.ShiftType(label)
		}

		resolution := g.resolver.Resolve(&ResolveRequest{
			TeamID:      &teamID,
			CountryCode: member.Worker.CountryCode,
			RegionCode:  member.Worker.RegionCode,
			ShiftType:   shiftType,
			Weekday:     int32(offset + 1),
			Date:        date,
		})

		st := shiftType
		entries = append(entries, &domain.ScheduleEntry{
			WorkerID:     member.Worker.ID,
			TeamID:       teamID,
			Date:         date,
			ShiftType:    &st,
			ActivityType: domain.ActivityWork,
			Availability: domain.AvailabilityAvailable,
			DefinitionID: resolution.DefinitionID,
			Note:         fmt.Sprintf("%s - %s %s", resolution.StartTime, resolution.EndTime, resolution.Description),
			CreatedBy:    requestedBy,
		})
	}

	return entries
}

// ValidateApprovals 检查班表的所有经理审批是否都已通过，返回尚未审批通过的经理姓名
// 这个检查没有任何副作用
func ValidateApprovals(approvals []*domain.RosterApproval, managers []*domain.Worker) (bool, []string) {
	names := make(map[int64]string, len(managers))
	for _, m := range managers {
		names[m.ID] = m.FullName
	}

	outstanding := make([]string, 0)
	for _, approval := range approvals {
		if approval.Approved {
			continue
		}
		name, exists := names[approval.ManagerID]
		if !exists {
			name = strconv.FormatInt(approval.ManagerID, 10)
		}
		outstanding = append(outstanding, name)
	}

	return len(outstanding) == 0, outstanding
}

// mondayOf 返回日期所在周的周一
func mondayOf(date time.Time) time.Time {
	offset := int(date.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // 周日
	}
	return date.AddDate(0, 0, -offset)
}
