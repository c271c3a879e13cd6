package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"provider-settlement/internal/core/domain"
	"provider-settlement/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWithdrawal(providerID uuid.UUID) *domain.WithdrawalRequest {
	return &domain.WithdrawalRequest{
		ID:           uuid.New(),
		ProviderID:   providerID,
		Amount:       decimal.NewFromInt(1350),
		LockedAmount: decimal.NewFromInt(350),
		Method:       domain.PayoutMethodUPI,
		Details:      domain.PayoutDetails{UPI: &domain.UPIDetails{Address: "name@bank"}},
		Status:       domain.WithdrawalStatusPending,
		RequestedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

func withdrawalColumnNames() []string {
	return []string{"id", "provider_id", "amount", "locked_amount", "method", "details",
		"status", "admin_notes", "requested_at", "processed_at"}
}

func withdrawalRow(t *testing.T, r *domain.WithdrawalRequest) *pgxmock.Rows {
	t.Helper()
	details, err := json.Marshal(r.Details)
	require.NoError(t, err)
	return pgxmock.NewRows(withdrawalColumnNames()).AddRow(
		r.ID, r.ProviderID, r.Amount, r.LockedAmount, r.Method, details,
		r.Status, r.AdminNotes, r.RequestedAt, r.ProcessedAt,
	)
}

func TestWithdrawalRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWithdrawalRepo(mock)
	r := newTestWithdrawal(uuid.New())
	details, err := json.Marshal(r.Details)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO withdrawal_requests").
		WithArgs(r.ID, r.ProviderID, r.Amount, r.LockedAmount, r.Method,
			details, r.Status, r.AdminNotes, r.RequestedAt, r.ProcessedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, r)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWithdrawalRepo(mock)
	r := newTestWithdrawal(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM withdrawal_requests WHERE id").
		WithArgs(r.ID).
		WillReturnRows(withdrawalRow(t, r))

	result, err := repo.GetByID(context.Background(), r.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, r.ID, result.ID)
	assert.True(t, result.Amount.Equal(r.Amount))
	require.NotNil(t, result.Details.UPI)
	assert.Equal(t, "name@bank", result.Details.UPI.Address)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWithdrawalRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM withdrawal_requests WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(withdrawalColumnNames()))

	result, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWithdrawalRepo(mock)
	r := newTestWithdrawal(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM withdrawal_requests WHERE id .+ FOR UPDATE").
		WithArgs(r.ID).
		WillReturnRows(withdrawalRow(t, r))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), tx, r.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, r.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWithdrawalRepo(mock)
	r := newTestWithdrawal(uuid.New())
	r.Status = domain.WithdrawalStatusApproved
	details, err := json.Marshal(r.Details)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE withdrawal_requests SET").
		WithArgs(r.Amount, r.LockedAmount, r.Method, details,
			r.Status, r.AdminNotes, r.RequestedAt, r.ProcessedAt, r.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Update(context.Background(), tx, r)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepo_List_FiltersByProviderAndStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWithdrawalRepo(mock)
	providerID := uuid.New()
	status := domain.WithdrawalStatusPending
	r := newTestWithdrawal(providerID)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(providerID, status).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery("SELECT .+ FROM withdrawal_requests .+ ORDER BY requested_at DESC").
		WithArgs(providerID, status, 20, 0).
		WillReturnRows(withdrawalRow(t, r))

	result, total, err := repo.List(context.Background(), ports.WithdrawalListParams{
		ProviderID: &providerID,
		Status:     &status,
		Page:       1,
		PageSize:   20,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, result, 1)
	assert.Equal(t, r.ID, result[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepo_SumJobFunded(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWithdrawalRepo(mock)
	providerID := uuid.New()

	// The wallet-funded (locked) portion must be excluded from the sum.
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount - locked_amount\), 0\) FROM withdrawal_requests`).
		WithArgs(providerID, []string{"PENDING", "APPROVED", "PROCESSING", "RE_SUBMIT", "COMPLETED"}).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(decimal.NewFromInt(900)))

	sum, err := repo.SumJobFunded(context.Background(), providerID, domain.InFlightStatuses())
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(900)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
