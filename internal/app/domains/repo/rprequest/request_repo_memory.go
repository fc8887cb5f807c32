package rprequest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
)

// MemoryRepository 内存仓储实现（测试与本地运行）
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*etrequest.PurchaseRequest
	nextSeq int64
}

// NewMemoryRepository 创建内存仓储实例
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID: make(map[string]*etrequest.PurchaseRequest),
	}
}

// Create 创建采购请求，request_id 冲突报错
func (m *MemoryRepository) Create(ctx context.Context, req *etrequest.PurchaseRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byID[req.ID]; exists {
		return fmt.Errorf("%w: %s", errorx.ErrDuplicateRequest, req.ID)
	}

	m.nextSeq++
	req.Seq = m.nextSeq

	cp := *req
	m.byID[req.ID] = &cp
	return nil
}

// GetByID 根据ID查询，不存在返回 nil, nil
func (m *MemoryRepository) GetByID(ctx context.Context, requestID string) (*etrequest.PurchaseRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	req, ok := m.byID[requestID]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

// Update 持久化状态、备注与合计
func (m *MemoryRepository) Update(ctx context.Context, req *etrequest.PurchaseRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.byID[req.ID]
	if !ok {
		return fmt.Errorf("%w: %s", errorx.ErrNotFound, req.ID)
	}

	cp := *req
	cp.Seq = stored.Seq
	m.byID[req.ID] = &cp
	return nil
}

// ListByStates 按状态集合查询，created_at 升序、seq 升序
func (m *MemoryRepository) ListByStates(ctx context.Context, states []etrequest.State) ([]*etrequest.PurchaseRequest, error) {
	wanted := make(map[etrequest.State]bool, len(states))
	for _, s := range states {
		wanted[s] = true
	}

	m.mu.RLock()
	out := make([]*etrequest.PurchaseRequest, 0)
	for _, req := range m.byID {
		if wanted[req.State] {
			cp := *req
			out = append(out, &cp)
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Seq < out[j].Seq
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

// Delete 删除采购请求
func (m *MemoryRepository) Delete(ctx context.Context, requestID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.byID, requestID)
	return nil
}

// CountByState 按状态统计
func (m *MemoryRepository) CountByState(ctx context.Context) (map[etrequest.State]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[etrequest.State]int64)
	for _, req := range m.byID {
		counts[req.State]++
	}
	return counts, nil
}
