package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rent-reconciliation/internal/domain"
	"rent-reconciliation/internal/usecase"
	mock_usecase "rent-reconciliation/internal/usecase/mocks"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func credit(date time.Time, amount string) domain.Transaction {
	return domain.Transaction{Date: date, Amount: decimal.RequireFromString(amount)}
}

func TestEngine_Evaluate(t *testing.T) {
	entry := domain.LedgerEntry{
		Identifier:     "G1",
		ExpectedAmount: decimal.NewFromInt(3000),
		AnchorDate:     day(2023, time.January, 15),
	}
	expected := day(2024, time.June, 15)

	tests := []struct {
		name        string
		txs         []domain.Transaction
		now         time.Time
		wantStatus  domain.Status
		wantPayment *time.Time
	}{
		{
			name:        "paid a day early",
			txs:         []domain.Transaction{credit(day(2024, time.June, 14), "3000")},
			now:         time.Date(2024, time.June, 20, 12, 0, 0, 0, time.UTC),
			wantStatus:  domain.StatusReceived,
			wantPayment: ptr(day(2024, time.June, 14)),
		},
		{
			name:        "paid after the grace period",
			txs:         []domain.Transaction{credit(day(2024, time.June, 25), "3000")},
			now:         time.Date(2024, time.June, 26, 12, 0, 0, 0, time.UTC),
			wantStatus:  domain.StatusOverdue,
			wantPayment: ptr(day(2024, time.June, 25)),
		},
		{
			name:        "paid on the last grace day",
			txs:         []domain.Transaction{credit(day(2024, time.June, 18), "3000")},
			now:         time.Date(2024, time.June, 20, 12, 0, 0, 0, time.UTC),
			wantStatus:  domain.StatusReceived,
			wantPayment: ptr(day(2024, time.June, 18)),
		},
		{
			name:       "nothing paid before the due date",
			now:        time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC),
			wantStatus: domain.StatusNotYetDue,
		},
		{
			name:       "nothing paid after the due date",
			now:        time.Date(2024, time.June, 20, 9, 0, 0, 0, time.UTC),
			wantStatus: domain.StatusOverdue,
		},
		{
			name:       "nothing paid on the due date itself",
			now:        time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
			wantStatus: domain.StatusOverdue,
		},
		{
			name:        "amount within one unit",
			txs:         []domain.Transaction{credit(day(2024, time.June, 15), "2999.01")},
			now:         time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC),
			wantStatus:  domain.StatusReceived,
			wantPayment: ptr(day(2024, time.June, 15)),
		},
		{
			name:       "amount off by exactly one unit",
			txs:        []domain.Transaction{credit(day(2024, time.June, 15), "3001")},
			now:        time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC),
			wantStatus: domain.StatusOverdue,
		},
		{
			name:        "payment at the edge of the window",
			txs:         []domain.Transaction{credit(day(2024, time.May, 15), "3000")},
			now:         time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			wantStatus:  domain.StatusReceived,
			wantPayment: ptr(day(2024, time.May, 15)),
		},
		{
			name:       "payment outside the window",
			txs:        []domain.Transaction{credit(day(2024, time.May, 14), "3000")},
			now:        time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			wantStatus: domain.StatusNotYetDue,
		},
		{
			name: "nearest payment wins",
			txs: []domain.Transaction{
				credit(day(2024, time.June, 25), "3000"),
				credit(day(2024, time.June, 14), "3000"),
				credit(day(2024, time.June, 1), "3000"),
			},
			now:         time.Date(2024, time.June, 28, 0, 0, 0, 0, time.UTC),
			wantStatus:  domain.StatusReceived,
			wantPayment: ptr(day(2024, time.June, 14)),
		},
		{
			name: "ties keep statement order",
			txs: []domain.Transaction{
				credit(day(2024, time.June, 17), "3000"),
				credit(day(2024, time.June, 13), "3000"),
			},
			now:         time.Date(2024, time.June, 28, 0, 0, 0, 0, time.UTC),
			wantStatus:  domain.StatusReceived,
			wantPayment: ptr(day(2024, time.June, 17)),
		},
	}

	engine := usecase.NewEngine(usecase.DefaultMatchConfig(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Evaluate(entry, tt.txs, tt.now)

			assert.Equal(t, "G1", got.Identifier)
			assert.Equal(t, expected, got.ExpectedDate)
			assert.True(t, entry.ExpectedAmount.Equal(got.ExpectedAmount))
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantPayment, got.PaymentDate)
		})
	}
}

func TestEngine_Evaluate_ClampsDueDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sink := mock_usecase.NewMockEventSink(ctrl)
	sink.EXPECT().Emit(domain.Event{
		Kind:         domain.EventDateClamped,
		Identifier:   "G31",
		ExpectedDate: day(2024, time.February, 29),
	}).Times(1)
	sink.EXPECT().Emit(gomock.Any()).Do(func(e domain.Event) {
		assert.NotEqual(t, domain.EventMatchFound, e.Kind)
	}).AnyTimes()

	engine := usecase.NewEngine(usecase.DefaultMatchConfig(), sink)
	entry := domain.LedgerEntry{Identifier: "G31", ExpectedAmount: decimal.NewFromInt(100), AnchorDate: day(2023, time.March, 31)}

	got := engine.Evaluate(entry, nil, time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, day(2024, time.February, 29), got.ExpectedDate)
	assert.Equal(t, domain.StatusNotYetDue, got.Status)
}

func TestEngine_Run(t *testing.T) {
	now := time.Date(2024, time.June, 20, 10, 0, 0, 0, time.UTC)
	txs := []domain.Transaction{credit(day(2024, time.June, 14), "3000")}

	t.Run("one credit satisfies every entry with that amount", func(t *testing.T) {
		rows := []domain.LedgerRow{
			{Index: 0, Identifier: "G1", Amount: 3000.0, AnchorDate: day(2023, time.January, 15)},
			{Index: 1, Identifier: "G2", Amount: 3000.0, AnchorDate: day(2023, time.February, 15)},
		}

		got, skipped := usecase.NewEngine(usecase.DefaultMatchConfig(), nil).Run(rows, txs, now)

		assert.Empty(t, skipped)
		require.Len(t, got, 2)
		assert.Equal(t, domain.StatusReceived, got[0].Status)
		assert.Equal(t, domain.StatusReceived, got[1].Status)
	})

	t.Run("bad rows are skipped and order is kept", func(t *testing.T) {
		rows := []domain.LedgerRow{
			{Index: 0, Identifier: "G1", Amount: 3000.0, AnchorDate: day(2023, time.January, 15)},
			{Index: 1, Identifier: "G2", Amount: "lots", AnchorDate: day(2023, time.January, 15)},
			{Index: 2, Identifier: "G3", Amount: 1500.0, AnchorDate: day(2023, time.January, 25)},
		}

		got, skipped := usecase.NewEngine(usecase.DefaultMatchConfig(), nil).Run(rows, txs, now)

		require.Len(t, got, 2)
		assert.Equal(t, "G1", got[0].Identifier)
		assert.Equal(t, "G3", got[1].Identifier)
		assert.Equal(t, domain.StatusNotYetDue, got[1].Status)

		require.Len(t, skipped, 1)
		var rowErr *domain.RowError
		require.True(t, errors.As(skipped[0], &rowErr))
		assert.Equal(t, 1, rowErr.Row)
		assert.Equal(t, "ledger", rowErr.Source)
	})

	t.Run("repeated runs give identical results", func(t *testing.T) {
		rows := []domain.LedgerRow{
			{Index: 0, Identifier: "G1", Amount: 3000.0, AnchorDate: day(2023, time.January, 15)},
			{Index: 1, Identifier: "G2", Amount: 10.0, AnchorDate: day(2023, time.January, 5)},
		}
		engine := usecase.NewEngine(usecase.DefaultMatchConfig(), nil)

		first, _ := engine.Run(rows, txs, now)
		second, _ := engine.Run(rows, txs, now)

		assert.Equal(t, first, second)
	})
}

func ptr(t time.Time) *time.Time {
	return &t
}
