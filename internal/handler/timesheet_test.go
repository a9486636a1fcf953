package handler

import (
	"database/sql"
	"testing"

	"github.com/schichtplan-dev/schichtplan/backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFlexStore 以月份为键模拟单个员工某一年的汇总存储
type fakeFlexStore struct {
	deltas    map[int][]decimal.Decimal
	summaries map[int]*domain.MonthlyFlexSummary
}

func newFakeFlexStore() *fakeFlexStore {
	return &fakeFlexStore{
		deltas:    make(map[int][]decimal.Decimal),
		summaries: make(map[int]*domain.MonthlyFlexSummary),
	}
}

func (s *fakeFlexStore) GetMonthlyFlexSummary(workerID int64, year int, month int) (*domain.MonthlyFlexSummary, error) {
	summary, ok := s.summaries[month]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return summary, nil
}

func (s *fakeFlexStore) GetMonthFlexDeltas(workerID int64, year int, month int) ([]decimal.Decimal, error) {
	return s.deltas[month], nil
}

func (s *fakeFlexStore) UpsertMonthlyFlexSummary(summary *domain.MonthlyFlexSummary) error {
	s.summaries[summary.Month] = summary
	return nil
}

func (s *fakeFlexStore) GetYearlyFlexSummaries(workerID int64, year int) ([]*domain.MonthlyFlexSummary, error) {
	summaries := make([]*domain.MonthlyFlexSummary, 0, len(s.summaries))
	for _, summary := range s.summaries {
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func staleSummary(month int, starting int64, delta int64) *domain.MonthlyFlexSummary {
	return &domain.MonthlyFlexSummary{
		WorkerID:        1,
		Year:            2026,
		Month:           month,
		StartingBalance: decimal.NewFromInt(starting),
		MonthDelta:      decimal.NewFromInt(delta),
		EndingBalance:   decimal.NewFromInt(starting + delta),
	}
}

func TestRecomputeFromMonthCascadesToLaterMonths(t *testing.T) {
	store := newFakeFlexStore()
	// 一月补录了一条 +8 的记录，二三月的汇总还停留在补录前的余额链上
	store.deltas[1] = []decimal.Decimal{decimal.NewFromInt(8)}
	store.deltas[2] = []decimal.Decimal{decimal.NewFromInt(-2)}
	store.deltas[3] = []decimal.Decimal{decimal.NewFromInt(1)}
	store.summaries[1] = staleSummary(1, 0, 0)
	store.summaries[2] = staleSummary(2, 0, -2)
	store.summaries[3] = staleSummary(3, -2, 1)

	summary, err := recomputeFromMonth(store, 1, 2026, 1)
	require.NoError(t, err)

	assert.True(t, summary.EndingBalance.Equal(decimal.NewFromInt(8)))
	assert.True(t, store.summaries[2].StartingBalance.Equal(decimal.NewFromInt(8)))
	assert.True(t, store.summaries[2].EndingBalance.Equal(decimal.NewFromInt(6)))
	assert.True(t, store.summaries[3].StartingBalance.Equal(decimal.NewFromInt(6)))
	assert.True(t, store.summaries[3].EndingBalance.Equal(decimal.NewFromInt(7)))
}

func TestRecomputeFromMonthFillsGapMonths(t *testing.T) {
	store := newFakeFlexStore()
	// 二月没有任何记录，但三月有，余额链中途不能断
	store.deltas[1] = []decimal.Decimal{decimal.NewFromInt(4)}
	store.deltas[3] = []decimal.Decimal{decimal.NewFromInt(2)}
	store.summaries[1] = staleSummary(1, 0, 0)
	store.summaries[3] = staleSummary(3, 0, 2)

	_, err := recomputeFromMonth(store, 1, 2026, 1)
	require.NoError(t, err)

	require.NotNil(t, store.summaries[2])
	assert.True(t, store.summaries[2].StartingBalance.Equal(decimal.NewFromInt(4)))
	assert.True(t, store.summaries[2].MonthDelta.Equal(decimal.Zero))
	assert.True(t, store.summaries[3].StartingBalance.Equal(decimal.NewFromInt(4)))
	assert.True(t, store.summaries[3].EndingBalance.Equal(decimal.NewFromInt(6)))
}

func TestRecomputeFromMonthStopsAtLastSummary(t *testing.T) {
	store := newFakeFlexStore()
	store.deltas[5] = []decimal.Decimal{decimal.NewFromInt(3)}

	summary, err := recomputeFromMonth(store, 1, 2026, 5)
	require.NoError(t, err)

	assert.True(t, summary.StartingBalance.Equal(decimal.Zero))
	assert.True(t, summary.EndingBalance.Equal(decimal.NewFromInt(3)))
	assert.Len(t, store.summaries, 1)
}
