package request

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/apimodel/response"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/ginx"
)

// Get 获取采购请求详情接口
// GET /api/v1/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	requestID := c.Param("id")
	if requestID == "" {
		ginx.BadRequest(c, "request_id required")
		return
	}

	req, err := h.lifecycle.Get(c.Request.Context(), requestID)
	if err != nil {
		if errors.Is(err, errorx.ErrNotFound) {
			ginx.NotFound(c, "purchase request not found")
			return
		}
		h.logger.Errorf(c.Request.Context(), "[RequestHandler] get request failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, response.FromRequestEntity(req))
}
