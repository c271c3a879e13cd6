package handler

import (
	"strconv"

	"provider-settlement/internal/adapter/http/dto"
	"provider-settlement/internal/adapter/http/middleware"
	"provider-settlement/internal/core/domain"
	"provider-settlement/internal/core/ports"
	"provider-settlement/pkg/apperror"
	"provider-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WithdrawalHandler handles the provider-facing withdrawal endpoints.
type WithdrawalHandler struct {
	withdrawalSvc ports.WithdrawalService
	balanceSvc    ports.BalanceService
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(withdrawalSvc ports.WithdrawalService, balanceSvc ports.BalanceService) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalSvc: withdrawalSvc,
		balanceSvc:    balanceSvc,
	}
}

// callerID extracts the authenticated account ID stored by JWTAuth.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxAccountID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// GetBalance handles GET /api/v1/withdrawals/balance.
func (h *WithdrawalHandler) GetBalance(c *gin.Context) {
	providerID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	breakdown, err := h.balanceSvc.WithdrawableBalance(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceFromDomain(breakdown))
}

// GetEarnings handles GET /api/v1/withdrawals/earnings.
func (h *WithdrawalHandler) GetEarnings(c *gin.Context) {
	providerID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	statement, err := h.balanceSvc.EarningsStatement(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.EarningsFromDomain(statement))
}

// Submit handles POST /api/v1/withdrawals.
func (h *WithdrawalHandler) Submit(c *gin.Context) {
	providerID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.SubmitWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.Validation("invalid amount: "+req.Amount))
		return
	}

	result, err := h.withdrawalSvc.Submit(c.Request.Context(), ports.SubmitWithdrawalRequest{
		ProviderID: providerID,
		Amount:     amount,
		Method:     domain.PayoutMethod(req.Method),
		Details:    req.Details.ToDomain(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.WithdrawalFromDomain(result))
}

// Resubmit handles POST /api/v1/withdrawals/:id/resubmit.
func (h *WithdrawalHandler) Resubmit(c *gin.Context) {
	providerID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid withdrawal request id"))
		return
	}

	var req dto.ResubmitWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.Validation("invalid amount: "+req.Amount))
		return
	}

	result, err := h.withdrawalSvc.Resubmit(c.Request.Context(), ports.ResubmitWithdrawalRequest{
		RequestID:  requestID,
		ProviderID: providerID,
		Amount:     amount,
		Method:     domain.PayoutMethod(req.Method),
		Details:    req.Details.ToDomain(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WithdrawalFromDomain(result))
}

// Get handles GET /api/v1/withdrawals/:id. Requests belonging to other
// providers are indistinguishable from missing ones.
func (h *WithdrawalHandler) Get(c *gin.Context) {
	providerID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid withdrawal request id"))
		return
	}

	result, err := h.withdrawalSvc.GetByID(c.Request.Context(), requestID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.ProviderID != providerID {
		response.Error(c, apperror.ErrNotFound("withdrawal request"))
		return
	}

	response.OK(c, dto.WithdrawalFromDomain(result))
}

// List handles GET /api/v1/withdrawals — the caller's own requests only.
func (h *WithdrawalHandler) List(c *gin.Context) {
	providerID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	params := listParamsFromQuery(c)
	params.ProviderID = &providerID

	items, total, err := h.withdrawalSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWithdrawalListResponse(items, total, params.Page, params.PageSize))
}

// listParamsFromQuery parses pagination and status filter from the query string.
func listParamsFromQuery(c *gin.Context) ports.WithdrawalListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	params := ports.WithdrawalListParams{Page: page, PageSize: pageSize}
	if s := c.Query("status"); s != "" {
		status := domain.WithdrawalStatus(s)
		params.Status = &status
	}
	return params
}

func toWithdrawalListResponse(items []domain.WithdrawalRequest, total int64, page, pageSize int) dto.WithdrawalListResponse {
	out := make([]dto.WithdrawalResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.WithdrawalFromDomain(&items[i]))
	}
	return dto.WithdrawalListResponse{
		Items:      out,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: dto.TotalPages(total, pageSize),
	}
}
