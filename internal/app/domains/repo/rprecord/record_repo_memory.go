package rprecord

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/idgen"
)

// MemoryRecordStore 内存记录存储（测试与本地运行）
// 与 MySQL 实现保持相同的幂等语义
type MemoryRecordStore struct {
	mu       sync.Mutex
	byReqID  map[string]string // request_id -> record_id
	poNumber map[string]string // request_id -> po_number
}

// NewMemoryRecordStore 创建内存记录存储实例
func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		byReqID:  make(map[string]string),
		poNumber: make(map[string]string),
	}
}

// Commit 落库记录；同一 request_id 重复调用返回首次的 record_id
func (s *MemoryRecordStore) Commit(ctx context.Context, req *etrequest.PurchaseRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if recordID, exists := s.byReqID[req.ID]; exists {
		return recordID, nil
	}

	recordID := uuid.New().String()
	s.byReqID[req.ID] = recordID
	s.poNumber[req.ID] = fmt.Sprintf("PO-%d", idgen.GenerateID())
	return recordID, nil
}

// Count 当前记录条数（测试断言用）
func (s *MemoryRecordStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byReqID)
}
