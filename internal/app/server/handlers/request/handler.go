package request

import (
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/services/svlifecycle"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/logger"
)

// RequestHandler 采购请求 HTTP 处理器
type RequestHandler struct {
	lifecycle *svlifecycle.LifecycleService
	logger    logger.Logger
}

// NewRequestHandler 创建采购请求处理器实例
func NewRequestHandler(lifecycle *svlifecycle.LifecycleService, log logger.Logger) *RequestHandler {
	return &RequestHandler{
		lifecycle: lifecycle,
		logger:    log,
	}
}
