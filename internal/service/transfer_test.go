package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/export"
	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/repository"
)

func seedSchedule(t *testing.T) *repository.Store {
	t.Helper()
	store := newTestStore(t)
	seed(t, store, func(state *repository.State) {
		state.Groups = []models.Group{{ID: "GRP-1", Name: "Treasury", CycleDays: 30, Origin: models.OriginManual}}
		state.Accounts = []models.Account{
			{ID: "A", CompanyName: "Alpha", GroupID: "GRP-1"},
			{ID: "B", CompanyName: "Bravo", GroupID: "GRP-1"},
			{ID: "C", CompanyName: "Charlie"},
		}
		state.Transfers = []models.Transfer{
			{ID: "t1", FromAccountID: "A", ToAccountID: "B", Amount: 300, Date: "2024-01-05", Status: models.TransferPending},
			{ID: "t2", FromAccountID: "B", ToAccountID: "A", Amount: 300, Date: "2024-01-20", Status: models.TransferCompleted},
			{ID: "t3", FromAccountID: "C", ToAccountID: "A", Amount: 50, Date: "2024-02-02", Status: models.TransferPending},
			{ID: "t4", FromAccountID: "A", ToAccountID: "C", Amount: 50, Date: "2024-02-02", Status: models.TransferPending},
		}
	})
	return store
}

func transferIDs(transfers []models.Transfer) []string {
	out := make([]string, 0, len(transfers))
	for _, tx := range transfers {
		out = append(out, tx.ID)
	}
	return out
}

func TestTransferService_ListFilters(t *testing.T) {
	svc := NewTransferService(seedSchedule(t))
	ctx := context.Background()

	cases := []struct {
		name string
		q    TransferQuery
		want []string
	}{
		{"everything", TransferQuery{}, []string{"t1", "t2", "t3", "t4"}},
		{"all status", TransferQuery{Status: domain.ScopeAll}, []string{"t1", "t2", "t3", "t4"}},
		{"status", TransferQuery{Status: "completed"}, []string{"t2"}},
		{"search name", TransferQuery{Search: "charl"}, []string{"t3", "t4"}},
		{"search date", TransferQuery{Search: "2024-01"}, []string{"t1", "t2"}},
		{"source group", TransferQuery{GroupID: "GRP-1"}, []string{"t1", "t2", "t4"}},
		{"unassigned source", TransferQuery{GroupID: domain.UnassignedFilter}, []string{"t3"}},
		{"from", TransferQuery{FromAccountID: "A"}, []string{"t1", "t4"}},
		{"to", TransferQuery{ToAccountID: "A"}, []string{"t2", "t3"}},
		{"amount range", TransferQuery{MinAmount: ptr(int64(100)), MaxAmount: ptr(int64(300))}, []string{"t1", "t2"}},
		{"amount desc", TransferQuery{SortField: SortAmount, SortOrder: "desc"}, []string{"t1", "t2", "t3", "t4"}},
		{"amount asc", TransferQuery{SortField: SortAmount}, []string{"t3", "t4", "t1", "t2"}},
		{"from name", TransferQuery{SortField: SortFromAccount}, []string{"t1", "t4", "t2", "t3"}},
		{"date desc", TransferQuery{SortOrder: "desc"}, []string{"t3", "t4", "t2", "t1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(ctx, tc.q)
			require.NoError(t, err)
			assert.Equal(t, tc.want, transferIDs(got))
		})
	}
}

func TestTransferService_ListRejectsBadQuery(t *testing.T) {
	svc := NewTransferService(seedSchedule(t))
	ctx := context.Background()

	for _, q := range []TransferQuery{
		{Status: "failed"},
		{SortField: "group"},
		{SortOrder: "up"},
		{MinAmount: ptr(int64(10)), MaxAmount: ptr(int64(1))},
	} {
		_, err := svc.List(ctx, q)
		require.ErrorIs(t, err, models.ErrInvalidInput)
	}
}

func TestTransferService_UpdateDate(t *testing.T) {
	store := seedSchedule(t)
	svc := NewTransferService(store)
	ctx := context.Background()

	tx, err := svc.UpdateDate(ctx, "t3", "2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", tx.Date)
	assert.Equal(t, int64(50), tx.Amount)

	_, err = svc.UpdateDate(ctx, "t3", "2024-13-01")
	require.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = svc.UpdateDate(ctx, "missing", "2024-03-15")
	require.ErrorIs(t, err, models.ErrNotFound)

	state := snapshot(t, store)
	assert.Len(t, state.Transfers, 4)
	assert.Equal(t, "2024-03-15", state.Transfers[2].Date)

	months, err := svc.Months(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"all", "2024-01", "2024-02", "2024-03"}, months)
}

func TestTransferService_ExportCSV(t *testing.T) {
	svc := NewTransferService(seedSchedule(t))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf, TransferQuery{FromAccountID: "C"}))

	out := strings.TrimPrefix(buf.String(), export.BOM)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,from_account,to_account,amount,status,group", lines[0])
	assert.Equal(t, "2024-02-02,Charlie,Alpha,50,pending,"+export.AutoGroupLabel, lines[1])
}

func TestTransferService_DailyVolumes(t *testing.T) {
	svc := NewTransferService(seedSchedule(t))

	daily, err := svc.DailyVolumes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.DailyVolume{
		{Date: "2024-01-05", Amount: 300},
		{Date: "2024-01-20", Amount: 300},
		{Date: "2024-02-02", Amount: 100},
	}, daily)
}
