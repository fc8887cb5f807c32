package rprecord

import (
	"context"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
)

// RecordStore 采购订单记录存储接口（外部协作方）
// Commit 以 request_id 为幂等键：同一请求重复 commit 不会产生第二条记录，
// 重复调用返回已有 record_id
type RecordStore interface {
	Commit(ctx context.Context, req *etrequest.PurchaseRequest) (recordID string, err error)
}
