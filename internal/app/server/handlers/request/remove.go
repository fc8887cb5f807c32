package request

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/ginx"
)

// Remove 移除终态请求接口
// DELETE /api/v1/requests/:id
// 仅允许移除 rejected / committed 请求
func (h *RequestHandler) Remove(c *gin.Context) {
	requestID := c.Param("id")
	if requestID == "" {
		ginx.BadRequest(c, "request_id required")
		return
	}

	if err := h.lifecycle.Remove(c.Request.Context(), requestID); err != nil {
		switch {
		case errors.Is(err, errorx.ErrNotFound):
			ginx.NotFound(c, "purchase request not found")
		case errors.Is(err, errorx.ErrRequestNotTerminal):
			ginx.Conflict(c, err.Error())
		default:
			h.logger.Errorf(c.Request.Context(), "[RequestHandler] remove request failed: %v", err)
			ginx.InternalError(c, err.Error())
		}
		return
	}

	ginx.Success(c, gin.H{"removed": requestID})
}
