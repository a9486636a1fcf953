package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRosterStore 记录每一批写入，可以配置在第 N 批失败
type fakeRosterStore struct {
	batches     [][]*domain.ScheduleEntry
	failAtBatch int // 0 表示不失败，1 表示第一批就失败
	statuses    []domain.RosterStatus
}

func (s *fakeRosterStore) InsertScheduleEntries(_ context.Context, entries []*domain.ScheduleEntry) error {
	if s.failAtBatch > 0 && len(s.batches)+1 == s.failAtBatch {
		return errors.New("connection reset")
	}
	batch := make([]*domain.ScheduleEntry, len(entries))
	copy(batch, entries)
	s.batches = append(s.batches, batch)
	return nil
}

func (s *fakeRosterStore) UpdateRosterStatus(_ context.Context, _ int64, status domain.RosterStatus) error {
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *fakeRosterStore) total() int {
	total := 0
	for _, batch := range s.batches {
		total += len(batch)
	}
	return total
}

func testRoster(label string, weeks int, start time.Time, end time.Time) *domain.Roster {
	return &domain.Roster{
		ID:               1,
		Name:             "Test Roster",
		ShiftTypeLabel:   label,
		CycleLengthWeeks: weeks,
		StartDate:        start,
		EndDate:          &end,
		PartnershipID:    1,
		Status:           domain.RosterStatusApproval,
	}
}

func testMember(workerID int64, teamID int64) *Member {
	return &Member{
		Worker: testWorker(workerID, "DE", "BY"),
		TeamID: teamID,
	}
}

func assignment(cycleWeek int, workerID int64, teamID int64, shiftType *string) *domain.WeekAssignment {
	return &domain.WeekAssignment{
		RosterID:  1,
		CycleWeek: cycleWeek,
		WorkerID:  &workerID,
		TeamID:    teamID,
		ShiftType: shiftType,
	}
}

func TestGenerateSimpleShift(t *testing.T) {
	// 一周的班表，周一到周日
	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	sunday := monday.AddDate(0, 0, 6)
	roster := testRoster("normal", 1, monday, sunday)

	store := &fakeRosterStore{}
	generator := NewGenerator(NewResolver(nil, NewClassifier(nil)), store)

	created, err := generator.Generate(context.Background(), roster, []*domain.WeekAssignment{
		assignment(1, 1, 1, nil),
	}, []*Member{testMember(1, 1)}, 99)

	require.NoError(t, err)
	// 普通班次只排工作日
	assert.Equal(t, 5, created)
	assert.Equal(t, 5, store.total())

	for _, entry := range store.batches[0] {
		require.NotNil(t, entry.ShiftType)
		assert.Equal(t, domain.ShiftTypeNormal, *entry.ShiftType)
		assert.Equal(t, int64(99), entry.CreatedBy)
		assert.NotEmpty(t, entry.Note)
		assert.False(t, IsWeekend(entry.Date))
	}

	require.Len(t, store.statuses, 1)
	assert.Equal(t, domain.RosterStatusImplemented, store.statuses[0])
}

func TestGenerateWeekendShift(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	sunday := monday.AddDate(0, 0, 6)
	roster := testRoster("weekend", 1, monday, sunday)

	store := &fakeRosterStore{}
	generator := NewGenerator(NewResolver(nil, NewClassifier(nil)), store)

	created, err := generator.Generate(context.Background(), roster, []*domain.WeekAssignment{
		assignment(1, 1, 1, nil),
	}, []*Member{testMember(1, 1)}, 99)

	require.NoError(t, err)
	assert.Equal(t, 2, created)
	for _, entry := range store.batches[0] {
		assert.True(t, IsWeekend(entry.Date))
		assert.Equal(t, domain.ShiftTypeWeekend, *entry.ShiftType)
	}
}

func TestGenerateCompoundShift(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	sunday := monday.AddDate(0, 0, 6)
	roster := testRoster("weekend_early", 1, monday, sunday)

	store := &fakeRosterStore{}
	generator := NewGenerator(NewResolver(nil, NewClassifier(nil)), store)

	created, err := generator.Generate(context.Background(), roster, []*domain.WeekAssignment{
		assignment(1, 1, 1, nil),
	}, []*Member{testMember(1, 1)}, 99)

	require.NoError(t, err)
	// 复合班次整周七天都有条目
	assert.Equal(t, 7, created)

	for _, entry := range store.batches[0] {
		require.NotNil(t, entry.ShiftType)
		if IsWeekend(entry.Date) {
			assert.Equal(t, domain.ShiftTypeWeekend, *entry.ShiftType)
		} else {
			assert.Equal(t, domain.ShiftTypeEarly, *entry.ShiftType)
		}
	}
}

func TestGenerateDefaultShiftForOffDutyWorkers(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	sunday := monday.AddDate(0, 0, 6)
	roster := testRoster("weekend_normal", 1, monday, sunday)
	defaultShift := "normal"
	roster.DefaultShiftType = &defaultShift

	store := &fakeRosterStore{}
	generator := NewGenerator(NewResolver(nil, NewClassifier(nil)), store)

	// 员工 1 值班，员工 2 没有值班安排，落到默认班次
	created, err := generator.Generate(context.Background(), roster, []*domain.WeekAssignment{
		assignment(1, 1, 1, nil),
	}, []*Member{testMember(1, 1), testMember(2, 1)}, 99)

	require.NoError(t, err)
	assert.Equal(t, 7+5, created)

	offDuty := 0
	for _, batch := range store.batches {
		for _, entry := range batch {
			if entry.WorkerID == 2 {
				offDuty++
				assert.Equal(t, domain.ShiftTypeNormal, *entry.ShiftType)
				assert.False(t, IsWeekend(entry.Date))
			}
		}
	}
	assert.Equal(t, 5, offDuty)
}

func TestGenerateSkipsWorkersWithoutDutyOrDefault(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	sunday := monday.AddDate(0, 0, 6)
	roster := testRoster("normal", 1, monday, sunday)

	store := &fakeRosterStore{}
	generator := NewGenerator(NewResolver(nil, NewClassifier(nil)), store)

	created, err := generator.Generate(context.Background(), roster, nil, []*Member{testMember(1, 1)}, 99)

	require.NoError(t, err)
	assert.Equal(t, 0, created)
	// 没有任何条目时状态仍然会推进
	require.Len(t, store.statuses, 1)
}

func TestGenerateCycleRotation(t *testing.T) {
	// 两周周期，四周班表：员工 1 在第 1 周值班，员工 2 在第 2 周值班
	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	end := monday.AddDate(0, 0, 27)
	roster := testRoster("normal", 2, monday, end)

	store := &fakeRosterStore{}
	generator := NewGenerator(NewResolver(nil, NewClassifier(nil)), store)

	created, err := generator.Generate(context.Background(), roster, []*domain.WeekAssignment{
		assignment(1, 1, 1, nil),
		assignment(2, 2, 1, nil),
	}, []*Member{testMember(1, 1), testMember(2, 1)}, 99)

	require.NoError(t, err)
	// 每人值两周，每周 5 个工作日
	assert.Equal(t, 20, created)

	for _, batch := range store.batches {
		for _, entry := range batch {
			// 第 1、3 周属于员工 1，第 2、4 周属于员工 2
			week := int(entry.Date.Sub(monday).Hours()/24) / 7
			if week%2 == 0 {
				assert.Equal(t, int64(1), entry.WorkerID)
			} else {
				assert.Equal(t, int64(2), entry.WorkerID)
			}
		}
	}
}

func TestGenerateBatchingAndPartialFailure(t *testing.T) {
	// 52 周、5 个工作日，一个员工共 260 条，分 3 批写入
	monday := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	end := monday.AddDate(0, 0, 52*7-1)
	roster := testRoster("normal", 1, monday, end)

	t.Run("batches are capped at the write batch size", func(t *testing.T) {
		store := &fakeRosterStore{}
		generator := NewGenerator(NewResolver(nil, NewClassifier(nil)), store)

		created, err := generator.Generate(context.Background(), roster, []*domain.WeekAssignment{
			assignment(1, 1, 1, nil),
		}, []*Member{testMember(1, 1)}, 99)

		require.NoError(t, err)
		assert.Equal(t, 260, created)
		require.Len(t, store.batches, 3)
		assert.Len(t, store.batches[0], WriteBatchSize)
		assert.Len(t, store.batches[1], WriteBatchSize)
		assert.Len(t, store.batches[2], 60)
	})

	t.Run("failure keeps the committed count", func(t *testing.T) {
		store := &fakeRosterStore{failAtBatch: 2}
		generator := NewGenerator(NewResolver(nil, NewClassifier(nil)), store)

		created, err := generator.Generate(context.Background(), roster, []*domain.WeekAssignment{
			assignment(1, 1, 1, nil),
		}, []*Member{testMember(1, 1)}, 99)

		require.Error(t, err)
		// 第一批已经提交，第二批失败后立即中止
		assert.Equal(t, WriteBatchSize, created)
		assert.Empty(t, store.statuses)
	})
}

func TestGenerateClipsToRosterRange(t *testing.T) {
	// 班表从周三开始，第一周的周一、周二不产出条目
	wednesday := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC)
	end := wednesday.AddDate(0, 0, 4) // 周日
	roster := testRoster("normal", 1, wednesday, end)

	store := &fakeRosterStore{}
	generator := NewGenerator(NewResolver(nil, NewClassifier(nil)), store)

	created, err := generator.Generate(context.Background(), roster, []*domain.WeekAssignment{
		assignment(1, 1, 1, nil),
	}, []*Member{testMember(1, 1)}, 99)

	require.NoError(t, err)
	// 周三、周四、周五三个工作日
	assert.Equal(t, 3, created)
	for _, entry := range store.batches[0] {
		assert.False(t, entry.Date.Before(wednesday))
	}
}

func TestValidateApprovals(t *testing.T) {
	managers := []*domain.Worker{
		{ID: 1, FullName: "Anna Müller", Role: domain.RoleManager},
		{ID: 2, FullName: "Ben Weber", Role: domain.RoleManager},
	}

	t.Run("all approved", func(t *testing.T) {
		ok, outstanding := ValidateApprovals([]*domain.RosterApproval{
			{ManagerID: 1, Approved: true},
			{ManagerID: 2, Approved: true},
		}, managers)
		assert.True(t, ok)
		assert.Empty(t, outstanding)
	})

	t.Run("outstanding managers are reported by name", func(t *testing.T) {
		ok, outstanding := ValidateApprovals([]*domain.RosterApproval{
			{ManagerID: 1, Approved: true},
			{ManagerID: 2, Approved: false},
		}, managers)
		assert.False(t, ok)
		assert.Equal(t, []string{"Ben Weber"}, outstanding)
	})

	t.Run("unknown manager falls back to the id", func(t *testing.T) {
		ok, outstanding := ValidateApprovals([]*domain.RosterApproval{
			{ManagerID: 9, Approved: false},
		}, managers)
		assert.False(t, ok)
		assert.Equal(t, []string{"9"}, outstanding)
	})
}

func TestMondayOf(t *testing.T) {
	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

	assert.True(t, mondayOf(monday).Equal(monday))
	assert.True(t, mondayOf(monday.AddDate(0, 0, 3)).Equal(monday)) // 周四
	assert.True(t, mondayOf(monday.AddDate(0, 0, 6)).Equal(monday)) // 周日
}
