package rprecord

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/infra/persistence/entity"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/idgen"
)

// RecordStoreImpl 采购订单记录存储实现（MySQL）
type RecordStoreImpl struct {
	db *gorm.DB
}

// NewRecordStore 创建记录存储实例
func NewRecordStore(db *gorm.DB) RecordStore {
	return &RecordStoreImpl{db: db}
}

// Commit 落库采购订单记录
// request_id 唯一索引 + DoNothing 保证幂等；冲突时回查已有记录ID
// 存储错误包装为可重试错误，由协调方回滚审批状态
func (s *RecordStoreImpl) Commit(ctx context.Context, req *etrequest.PurchaseRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request payload failed: %w", err)
	}

	po := &entity.PORecord{
		RecordID:     uuid.New().String(),
		RequestID:    req.ID,
		PONumber:     fmt.Sprintf("PO-%d", idgen.GenerateID()),
		SupplierName: req.SupplierName,
		TotalAmount:  req.TotalAmount,
		Payload:      payload,
		CommittedAt:  time.Now(),
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "request_id"}},
			DoNothing: true,
		}).
		Create(po)
	if result.Error != nil {
		return "", errorx.Retriable("commit purchase record failed", result.Error)
	}

	// 冲突未插入：回查已有记录（重复 commit）
	if result.RowsAffected == 0 {
		var existing entity.PORecord
		err := s.db.WithContext(ctx).
			Where("request_id = ?", req.ID).
			First(&existing).Error
		if err != nil {
			return "", errorx.Retriable("lookup existing purchase record failed", err)
		}
		return existing.RecordID, nil
	}

	return po.RecordID, nil
}
