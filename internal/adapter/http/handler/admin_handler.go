package handler

import (
	"provider-settlement/internal/adapter/http/dto"
	"provider-settlement/internal/core/domain"
	"provider-settlement/internal/core/ports"
	"provider-settlement/pkg/apperror"
	"provider-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdminHandler handles the administrator endpoints: request review and the
// policy singletons.
type AdminHandler struct {
	withdrawalSvc ports.WithdrawalService
	settingsSvc   ports.SettingsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(withdrawalSvc ports.WithdrawalService, settingsSvc ports.SettingsService) *AdminHandler {
	return &AdminHandler{
		withdrawalSvc: withdrawalSvc,
		settingsSvc:   settingsSvc,
	}
}

// ListWithdrawals handles GET /api/v1/admin/withdrawals — every provider's
// requests, optionally filtered by provider_id and status.
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	params := listParamsFromQuery(c)
	if p := c.Query("provider_id"); p != "" {
		providerID, err := uuid.Parse(p)
		if err != nil {
			response.Error(c, apperror.Validation("invalid provider_id"))
			return
		}
		params.ProviderID = &providerID
	}

	items, total, err := h.withdrawalSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWithdrawalListResponse(items, total, params.Page, params.PageSize))
}

// Transition handles POST /api/v1/admin/withdrawals/:id/transition.
func (h *AdminHandler) Transition(c *gin.Context) {
	adminID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid withdrawal request id"))
		return
	}

	var req dto.TransitionWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.withdrawalSvc.Transition(c.Request.Context(), ports.TransitionWithdrawalRequest{
		RequestID: requestID,
		AdminID:   adminID,
		NewStatus: domain.WithdrawalStatus(req.Status),
		Notes:     req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WithdrawalFromDomain(result))
}

// GetWithdrawalPolicy handles GET /api/v1/admin/settings/withdrawal.
func (h *AdminHandler) GetWithdrawalPolicy(c *gin.Context) {
	policy, err := h.settingsSvc.WithdrawalPolicy(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.WithdrawalPolicyFromDomain(policy))
}

// UpdateWithdrawalPolicy handles PUT /api/v1/admin/settings/withdrawal.
func (h *AdminHandler) UpdateWithdrawalPolicy(c *gin.Context) {
	var req dto.WithdrawalPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	minimum, err := decimal.NewFromString(req.MinimumAmount)
	if err != nil {
		response.Error(c, apperror.Validation("invalid minimum_amount: "+req.MinimumAmount))
		return
	}

	methods := make([]domain.PayoutMethod, 0, len(req.EnabledMethods))
	for _, m := range req.EnabledMethods {
		methods = append(methods, domain.PayoutMethod(m))
	}

	policy := &domain.WithdrawalPolicy{
		Enabled:        req.Enabled,
		MinimumAmount:  minimum,
		EnabledMethods: methods,
	}
	if err := h.settingsSvc.UpdateWithdrawalPolicy(c.Request.Context(), policy); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.WithdrawalPolicyFromDomain(policy))
}

// GetCommissionPolicy handles GET /api/v1/admin/settings/commission.
func (h *AdminHandler) GetCommissionPolicy(c *gin.Context) {
	policy, err := h.settingsSvc.CommissionPolicy(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.CommissionPolicyFromDomain(policy))
}

// UpdateCommissionPolicy handles PUT /api/v1/admin/settings/commission.
func (h *AdminHandler) UpdateCommissionPolicy(c *gin.Context) {
	var req dto.CommissionPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		response.Error(c, apperror.Validation("invalid value: "+req.Value))
		return
	}

	policy := &domain.CommissionPolicy{
		Type:  domain.CommissionType(req.Type),
		Value: value,
	}
	if err := h.settingsSvc.UpdateCommissionPolicy(c.Request.Context(), policy); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.CommissionPolicyFromDomain(policy))
}
