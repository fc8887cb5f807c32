package domains

import (
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/common/model"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/domains/common"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/domains/handlers/podispatch"
)

// HandlerMap 路由表（ActionType → Handler 映射）
var HandlerMap = map[string]common.HandlerServProc{
	model.ActionTypePODispatch: podispatch.NewDispatchHandler,

	// 未来扩展示例：
	// "po_cancel": pocancel.NewCancelHandler,
}
