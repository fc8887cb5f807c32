package request

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/apimodel/request"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/apimodel/response"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/ginx"
)

// Decide 人工决策接口
// POST /api/v1/requests/:id/decision
// approve 同步执行落库，失败回滚到 pending_approval 并返回 503
func (h *RequestHandler) Decide(c *gin.Context) {
	requestID := c.Param("id")
	if requestID == "" {
		ginx.BadRequest(c, "request_id required")
		return
	}

	var req request.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	decided, err := h.lifecycle.Decide(c.Request.Context(), requestID, req.ToDecision(), req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, errorx.ErrNotFound):
			ginx.NotFound(c, "purchase request not found")
		case errors.Is(err, errorx.ErrInvalidTransition):
			ginx.Conflict(c, err.Error())
		case errors.Is(err, errorx.ErrUnknownDecision):
			ginx.BadRequest(c, err.Error())
		case errorx.IsRetryable(err):
			h.logger.Errorf(c.Request.Context(), "[RequestHandler] decide failed: %v", err)
			if decided != nil {
				ginx.ErrorWithData(c, http.StatusServiceUnavailable, err.Error(),
					nil, response.FromRequestEntity(decided))
			} else {
				ginx.Error(c, http.StatusServiceUnavailable, err.Error())
			}
		default:
			h.logger.Errorf(c.Request.Context(), "[RequestHandler] decide failed: %v", err)
			ginx.InternalError(c, err.Error())
		}
		return
	}

	ginx.Success(c, response.FromRequestEntity(decided))
}
