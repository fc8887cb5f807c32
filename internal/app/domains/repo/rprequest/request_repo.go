package rprequest

import (
	"context"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
)

// RequestRepository 采购请求仓储接口（只定义，不实现）
// MySQL 实现见 request_repo_impl.go，内存实现见 request_repo_memory.go
type RequestRepository interface {
	// Create 创建采购请求（request_id 冲突必须报错）
	Create(ctx context.Context, req *etrequest.PurchaseRequest) error

	// GetByID 根据ID查询（不存在返回 nil, nil）
	GetByID(ctx context.Context, requestID string) (*etrequest.PurchaseRequest, error)

	// Update 持久化状态、备注与合计
	Update(ctx context.Context, req *etrequest.PurchaseRequest) error

	// ListByStates 按状态集合查询，created_at 升序、seq 升序（FIFO）
	ListByStates(ctx context.Context, states []etrequest.State) ([]*etrequest.PurchaseRequest, error)

	// Delete 删除（仅队列层在终态时调用）
	Delete(ctx context.Context, requestID string) error

	// CountByState 按状态统计
	CountByState(ctx context.Context) (map[etrequest.State]int64, error)
}
