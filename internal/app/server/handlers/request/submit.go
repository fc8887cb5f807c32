package request

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/apimodel/request"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/apimodel/response"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/ginx"
)

// Submit 提交采购请求接口
// POST /api/v1/requests
// 校验失败返回 422，携带字段级错误详情和已拒绝的请求
func (h *RequestHandler) Submit(c *gin.Context) {
	var req request.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	stored, err := h.lifecycle.Submit(c.Request.Context(), req.ToSubmitInput(), req.WaitSeconds)
	if err != nil {
		if ve, ok := errorx.AsValidationError(err); ok {
			ginx.ErrorWithData(c, http.StatusUnprocessableEntity, "validation failed",
				ve.Details, response.FromRequestEntity(stored))
			return
		}
		h.logger.Errorf(c.Request.Context(), "[RequestHandler] submit failed: %v", err)
		if errorx.IsRetryable(err) && stored != nil {
			// commit 失败已回滚到 pending_approval，请求本身已入队
			ginx.ErrorWithData(c, http.StatusServiceUnavailable, err.Error(),
				nil, response.FromRequestEntity(stored))
			return
		}
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, response.FromRequestEntity(stored))
}

// SubmitDocument 提交原始采购文档接口
// POST /api/v1/requests/extract
func (h *RequestHandler) SubmitDocument(c *gin.Context) {
	var req request.SubmitDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	stored, err := h.lifecycle.SubmitDocument(c.Request.Context(), []byte(req.Document), req.WaitSeconds)
	if err != nil {
		if ve, ok := errorx.AsValidationError(err); ok {
			ginx.ErrorWithData(c, http.StatusUnprocessableEntity, "validation failed",
				ve.Details, response.FromRequestEntity(stored))
			return
		}
		h.logger.Errorf(c.Request.Context(), "[RequestHandler] submit document failed: %v", err)
		ginx.InternalError(c, err.Error())
		return
	}

	ginx.Success(c, response.FromRequestEntity(stored))
}
