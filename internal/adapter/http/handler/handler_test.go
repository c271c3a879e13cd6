package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"provider-settlement/internal/adapter/http/dto"
	"provider-settlement/internal/adapter/http/middleware"
	"provider-settlement/internal/core/domain"
	"provider-settlement/internal/core/ports"
	"provider-settlement/internal/core/ports/mocks"
	"provider-settlement/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testWithdrawal(providerID uuid.UUID, status domain.WithdrawalStatus) *domain.WithdrawalRequest {
	return &domain.WithdrawalRequest{
		ID:           uuid.New(),
		ProviderID:   providerID,
		Amount:       decimal.NewFromInt(1350),
		LockedAmount: decimal.NewFromInt(350),
		Method:       domain.PayoutMethodUPI,
		Details:      domain.PayoutDetails{UPI: &domain.UPIDetails{Address: "name@bank"}},
		Status:       status,
		RequestedAt:  time.Now().UTC(),
	}
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	accountID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Username: "provider1",
		Password: "password123",
		FullName: "A Provider",
		Role:     domain.RoleProvider,
	}).Return(&domain.Account{
		ID:        accountID,
		Username:  "provider1",
		FullName:  "A Provider",
		Role:      domain.RoleProvider,
		Status:    domain.AccountStatusActive,
		CreatedAt: time.Now(),
	}, nil)

	body, _ := json.Marshal(dto.RegisterRequest{
		Username: "provider1",
		Password: "password123",
		FullName: "A Provider",
		Role:     "PROVIDER",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, accountID.String(), data["id"])
	assert.Equal(t, "PROVIDER", data["role"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	// Empty body => binding error
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_UsernameTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrUsernameExists())

	body, _ := json.Marshal(dto.RegisterRequest{
		Username: "taken",
		Password: "password123",
		FullName: "Taken",
		Role:     "PROVIDER",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(24 * time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "provider1", "password123").Return("jwt-token-123", expiry, nil)

	body, _ := json.Marshal(dto.LoginRequest{
		Username: "provider1",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-123", data["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "bad", "bad").Return("", time.Time{}, apperror.ErrInvalidCredentials())

	body, _ := json.Marshal(dto.LoginRequest{
		Username: "bad",
		Password: "bad",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Withdrawal Handler Tests ---

func TestSubmit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	mockBalance := mocks.NewMockBalanceService(ctrl)
	h := NewWithdrawalHandler(mockWithdrawal, mockBalance)

	providerID := uuid.New()
	result := testWithdrawal(providerID, domain.WithdrawalStatusPending)

	mockWithdrawal.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.SubmitWithdrawalRequest) (*domain.WithdrawalRequest, error) {
			assert.Equal(t, providerID, req.ProviderID)
			assert.True(t, req.Amount.Equal(decimal.NewFromInt(1350)))
			assert.Equal(t, domain.PayoutMethodUPI, req.Method)
			require.NotNil(t, req.Details.UPI)
			return result, nil
		},
	)

	body, _ := json.Marshal(dto.SubmitWithdrawalRequest{
		Amount: "1350",
		Method: "UPI",
		Details: dto.PayoutDetailsDTO{
			UPI: &dto.UPIDetailsDTO{Address: "name@bank"},
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAccountID, providerID)

	h.Submit(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, result.ID.String(), data["id"])
	assert.Equal(t, "1350", data["amount"])
	assert.Equal(t, "PENDING", data["status"])
}

func TestSubmit_MissingAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWithdrawalHandler(mocks.NewMockWithdrawalService(ctrl), mocks.NewMockBalanceService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	h.Submit(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmit_UnparseableAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWithdrawalHandler(mocks.NewMockWithdrawalService(ctrl), mocks.NewMockBalanceService(ctrl))

	body, _ := json.Marshal(dto.SubmitWithdrawalRequest{
		Amount: "one million",
		Method: "UPI",
		Details: dto.PayoutDetailsDTO{
			UPI: &dto.UPIDetailsDTO{Address: "name@bank"},
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAccountID, uuid.New())

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmit_InsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	h := NewWithdrawalHandler(mockWithdrawal, mocks.NewMockBalanceService(ctrl))

	mockWithdrawal.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInsufficientBalance())

	body, _ := json.Marshal(dto.SubmitWithdrawalRequest{
		Amount: "99999",
		Method: "UPI",
		Details: dto.PayoutDetailsDTO{
			UPI: &dto.UPIDetailsDTO{Address: "name@bank"},
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAccountID, uuid.New())

	h.Submit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "WDR_003", resp["error_code"])
}

func TestResubmit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	h := NewWithdrawalHandler(mockWithdrawal, mocks.NewMockBalanceService(ctrl))

	providerID := uuid.New()
	result := testWithdrawal(providerID, domain.WithdrawalStatusPending)

	mockWithdrawal.EXPECT().Resubmit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.ResubmitWithdrawalRequest) (*domain.WithdrawalRequest, error) {
			assert.Equal(t, result.ID, req.RequestID)
			assert.Equal(t, providerID, req.ProviderID)
			return result, nil
		},
	)

	body, _ := json.Marshal(dto.ResubmitWithdrawalRequest{
		Amount: "1350",
		Method: "UPI",
		Details: dto.PayoutDetailsDTO{
			UPI: &dto.UPIDetailsDTO{Address: "name@bank"},
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAccountID, providerID)
	c.Params = gin.Params{{Key: "id", Value: result.ID.String()}}

	h.Resubmit(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResubmit_BadRequestID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewWithdrawalHandler(mocks.NewMockWithdrawalService(ctrl), mocks.NewMockBalanceService(ctrl))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Set(middleware.CtxAccountID, uuid.New())
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.Resubmit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGet_OtherProvidersRequestIsNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	h := NewWithdrawalHandler(mockWithdrawal, mocks.NewMockBalanceService(ctrl))

	owner := uuid.New()
	caller := uuid.New()
	result := testWithdrawal(owner, domain.WithdrawalStatusPending)

	mockWithdrawal.EXPECT().GetByID(gomock.Any(), result.ID).Return(result, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxAccountID, caller)
	c.Params = gin.Params{{Key: "id", Value: result.ID.String()}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestList_ScopesToCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	h := NewWithdrawalHandler(mockWithdrawal, mocks.NewMockBalanceService(ctrl))

	providerID := uuid.New()
	result := testWithdrawal(providerID, domain.WithdrawalStatusPending)

	mockWithdrawal.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
			require.NotNil(t, params.ProviderID)
			assert.Equal(t, providerID, *params.ProviderID)
			return []domain.WithdrawalRequest{*result}, 1, nil
		},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=1&page_size=20", nil)
	c.Set(middleware.CtxAccountID, providerID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, float64(1), data["total_pages"])
}

func TestGetBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBalance := mocks.NewMockBalanceService(ctrl)
	h := NewWithdrawalHandler(mocks.NewMockWithdrawalService(ctrl), mockBalance)

	providerID := uuid.New()
	mockBalance.EXPECT().WithdrawableBalance(gomock.Any(), providerID).Return(&ports.BalanceBreakdown{
		JobNet:        decimal.NewFromInt(900),
		InFlight:      decimal.NewFromInt(0),
		JobAvailable:  decimal.NewFromInt(900),
		WalletBalance: decimal.NewFromInt(100),
		Withdrawable:  decimal.NewFromInt(1000),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxAccountID, providerID)

	h.GetBalance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "900", data["job_net"])
	assert.Equal(t, "1000", data["withdrawable"])
}

func TestGetEarnings_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockBalance := mocks.NewMockBalanceService(ctrl)
	h := NewWithdrawalHandler(mocks.NewMockWithdrawalService(ctrl), mockBalance)

	providerID := uuid.New()
	job := domain.CompletedJob{
		ID:             uuid.New(),
		ProviderID:     providerID,
		GrossAmount:    decimal.NewFromInt(1000),
		PaymentChannel: domain.PaymentChannelElectronic,
		CompletedAt:    time.Now().UTC(),
	}
	mockBalance.EXPECT().EarningsStatement(gomock.Any(), providerID).Return(&ports.EarningsStatement{
		Lines: []ports.EarningsLine{
			{Job: job, Commission: decimal.NewFromInt(100), Net: decimal.NewFromInt(900)},
		},
		TotalGross:      decimal.NewFromInt(1000),
		TotalCommission: decimal.NewFromInt(100),
		TotalNet:        decimal.NewFromInt(900),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxAccountID, providerID)

	h.GetEarnings(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "900", data["total_net"])
	lines := data["lines"].([]interface{})
	assert.Len(t, lines, 1)
}

// --- Admin Handler Tests ---

func TestTransition_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	h := NewAdminHandler(mockWithdrawal, mocks.NewMockSettingsService(ctrl))

	adminID := uuid.New()
	result := testWithdrawal(uuid.New(), domain.WithdrawalStatusApproved)

	mockWithdrawal.EXPECT().Transition(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.TransitionWithdrawalRequest) (*domain.WithdrawalRequest, error) {
			assert.Equal(t, result.ID, req.RequestID)
			assert.Equal(t, adminID, req.AdminID)
			assert.Equal(t, domain.WithdrawalStatusApproved, req.NewStatus)
			return result, nil
		},
	)

	body, _ := json.Marshal(dto.TransitionWithdrawalRequest{Status: "APPROVED"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAccountID, adminID)
	c.Params = gin.Params{{Key: "id", Value: result.ID.String()}}

	h.Transition(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "APPROVED", data["status"])
}

func TestTransition_IllegalEdge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	h := NewAdminHandler(mockWithdrawal, mocks.NewMockSettingsService(ctrl))

	mockWithdrawal.EXPECT().Transition(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInvalidTransition("COMPLETED", "REJECTED"))

	body, _ := json.Marshal(dto.TransitionWithdrawalRequest{Status: "REJECTED"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxAccountID, uuid.New())
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

	h.Transition(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAdminListWithdrawals_FiltersByProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWithdrawal := mocks.NewMockWithdrawalService(ctrl)
	h := NewAdminHandler(mockWithdrawal, mocks.NewMockSettingsService(ctrl))

	providerID := uuid.New()
	mockWithdrawal.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, params ports.WithdrawalListParams) ([]domain.WithdrawalRequest, int64, error) {
			require.NotNil(t, params.ProviderID)
			assert.Equal(t, providerID, *params.ProviderID)
			require.NotNil(t, params.Status)
			assert.Equal(t, domain.WithdrawalStatusPending, *params.Status)
			return nil, 0, nil
		},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?provider_id="+providerID.String()+"&status=PENDING", nil)

	h.ListWithdrawals(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateWithdrawalPolicy_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSettings := mocks.NewMockSettingsService(ctrl)
	h := NewAdminHandler(mocks.NewMockWithdrawalService(ctrl), mockSettings)

	mockSettings.EXPECT().UpdateWithdrawalPolicy(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, policy *domain.WithdrawalPolicy) error {
			assert.True(t, policy.Enabled)
			assert.True(t, policy.MinimumAmount.Equal(decimal.NewFromInt(500)))
			assert.Equal(t, []domain.PayoutMethod{domain.PayoutMethodBankTransfer}, policy.EnabledMethods)
			return nil
		},
	)

	body, _ := json.Marshal(dto.WithdrawalPolicyRequest{
		Enabled:        true,
		MinimumAmount:  "500",
		EnabledMethods: []string{"BANK_TRANSFER"},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.UpdateWithdrawalPolicy(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateCommissionPolicy_InvalidValue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h := NewAdminHandler(mocks.NewMockWithdrawalService(ctrl), mocks.NewMockSettingsService(ctrl))

	body, _ := json.Marshal(dto.CommissionPolicyRequest{Type: "FIXED", Value: "fifty"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.UpdateCommissionPolicy(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCommissionPolicy_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSettings := mocks.NewMockSettingsService(ctrl)
	h := NewAdminHandler(mocks.NewMockWithdrawalService(ctrl), mockSettings)

	mockSettings.EXPECT().CommissionPolicy(gomock.Any()).Return(&domain.CommissionPolicy{
		Type:  domain.CommissionTypePercentage,
		Value: decimal.NewFromInt(10),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.GetCommissionPolicy(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "PERCENTAGE", data["type"])
	assert.Equal(t, "10", data["value"])
}

// --- Notification Handler Tests ---

func TestNotificationList_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockNotifications := mocks.NewMockNotificationService(ctrl)
	h := NewNotificationHandler(mockNotifications)

	accountID := uuid.New()
	mockNotifications.EXPECT().ListByAccount(gomock.Any(), accountID, 1, 20).Return([]domain.Notification{
		{
			ID:        uuid.New(),
			AccountID: accountID,
			Title:     "Withdrawal approved",
			Category:  domain.NotificationWithdrawalApproved,
			CreatedAt: time.Now().UTC(),
		},
	}, int64(1), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxAccountID, accountID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
}

func TestNotificationList_ServiceError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockNotifications := mocks.NewMockNotificationService(ctrl)
	h := NewNotificationHandler(mockNotifications)

	accountID := uuid.New()
	mockNotifications.EXPECT().ListByAccount(gomock.Any(), accountID, 1, 20).
		Return(nil, int64(0), errors.New("db down"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxAccountID, accountID)

	h.List(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// --- Health Check Test ---

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
