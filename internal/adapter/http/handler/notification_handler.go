package handler

import (
	"strconv"

	"provider-settlement/internal/adapter/http/dto"
	"provider-settlement/internal/core/ports"
	"provider-settlement/pkg/apperror"
	"provider-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the per-account notification inbox.
type NotificationHandler struct {
	notificationSvc ports.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationSvc ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// List handles GET /api/v1/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.notificationSvc.ListByAccount(c.Request.Context(), accountID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.NotificationResponse, 0, len(items))
	for i := range items {
		out = append(out, dto.NotificationFromDomain(&items[i]))
	}

	response.OK(c, dto.NotificationListResponse{
		Items:      out,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: dto.TotalPages(total, pageSize),
	})
}
