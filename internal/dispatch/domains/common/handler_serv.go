package common

import (
	"context"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/domains/common/job"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/dispatch/domains/common/response"
)

// HandlerServProc Handler 构造函数类型
type HandlerServProc func(ctx context.Context, meta *job.Meta, payload interface{}) (HandlerServ, error)

// HandlerServ Handler 接口
type HandlerServ interface {
	GetProcess() *response.Response
}
