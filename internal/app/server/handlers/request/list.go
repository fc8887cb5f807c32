package request

import (
	"github.com/gin-gonic/gin"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/apimodel/response"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/ginx"
)

// ListPending 获取待审批请求列表接口（FIFO 顺序）
// GET /api/v1/requests/pending
func (h *RequestHandler) ListPending(c *gin.Context) {
	reqs, err := h.lifecycle.ListPending(c.Request.Context())
	if err != nil {
		h.logger.Errorf(c.Request.Context(), "[RequestHandler] list pending failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, response.FromRequestEntities(reqs))
}

// Status 队列状态汇总接口
// GET /api/v1/requests/status
func (h *RequestHandler) Status(c *gin.Context) {
	counts, err := h.lifecycle.Status(c.Request.Context())
	if err != nil {
		h.logger.Errorf(c.Request.Context(), "[RequestHandler] queue status failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, response.FromStatusCounts(counts))
}
