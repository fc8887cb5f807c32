package rprequest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/domains/entity/etrequest"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/infra/persistence/entity"
	"github.com/iabhiroop/MCP-PurchaseOrderFlow/internal/app/pkg/errorx"
)

// RequestRepositoryImpl 采购请求仓储实现（MySQL）
type RequestRepositoryImpl struct {
	db *gorm.DB
}

// NewRequestRepository 创建采购请求仓储实例
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &RequestRepositoryImpl{db: db}
}

// Create 创建采购请求，将领域对象转换为 GORM 模型后存储
func (r *RequestRepositoryImpl) Create(ctx context.Context, req *etrequest.PurchaseRequest) error {
	po, err := r.toGormModel(req)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", errorx.ErrDuplicateRequest, req.ID)
		}
		return err
	}

	// 回填数据库分配的入队序号
	req.Seq = po.Seq
	return nil
}

// GetByID 根据ID查询，不存在返回 nil, nil
func (r *RequestRepositoryImpl) GetByID(ctx context.Context, requestID string) (*etrequest.PurchaseRequest, error) {
	var po entity.PurchaseRequest
	err := r.db.WithContext(ctx).Where("id = ?", requestID).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomainModel(&po)
}

// Update 持久化状态、备注与合计
func (r *RequestRepositoryImpl) Update(ctx context.Context, req *etrequest.PurchaseRequest) error {
	itemsJSON, err := json.Marshal(req.Items)
	if err != nil {
		return err
	}
	notesJSON, err := json.Marshal(req.DecisionNotes)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&entity.PurchaseRequest{}).
		Where("id = ?", req.ID).
		Updates(map[string]interface{}{
			"items":          itemsJSON,
			"total_amount":   req.TotalAmount,
			"approval_level": req.ApprovalLevel,
			"state":          string(req.State),
			"decision_notes": notesJSON,
			"updated_at":     time.Now(),
		}).Error
}

// ListByStates 按状态集合查询，created_at 升序、seq 升序
func (r *RequestRepositoryImpl) ListByStates(ctx context.Context, states []etrequest.State) ([]*etrequest.PurchaseRequest, error) {
	stateStrs := make([]string, 0, len(states))
	for _, s := range states {
		stateStrs = append(stateStrs, string(s))
	}

	var pos []entity.PurchaseRequest
	err := r.db.WithContext(ctx).
		Where("state IN ?", stateStrs).
		Order("created_at ASC, seq ASC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}

	reqs := make([]*etrequest.PurchaseRequest, 0, len(pos))
	for i := range pos {
		req, err := r.toDomainModel(&pos[i])
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}

	return reqs, nil
}

// Delete 删除采购请求
func (r *RequestRepositoryImpl) Delete(ctx context.Context, requestID string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", requestID).
		Delete(&entity.PurchaseRequest{}).Error
}

// CountByState 按状态统计
func (r *RequestRepositoryImpl) CountByState(ctx context.Context) (map[etrequest.State]int64, error) {
	type row struct {
		State string
		Count int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&entity.PurchaseRequest{}).
		Select("state, count(*) as count").
		Group("state").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[etrequest.State]int64, len(rows))
	for _, rw := range rows {
		counts[etrequest.State(rw.State)] = rw.Count
	}
	return counts, nil
}

// toGormModel 领域对象转换为 GORM 模型
func (r *RequestRepositoryImpl) toGormModel(req *etrequest.PurchaseRequest) (*entity.PurchaseRequest, error) {
	itemsJSON, err := json.Marshal(req.Items)
	if err != nil {
		return nil, err
	}
	notesJSON, err := json.Marshal(req.DecisionNotes)
	if err != nil {
		return nil, err
	}

	return &entity.PurchaseRequest{
		ID:            req.ID,
		SupplierName:  req.SupplierName,
		Items:         itemsJSON,
		TotalAmount:   req.TotalAmount,
		ApprovalLevel: req.ApprovalLevel,
		State:         string(req.State),
		DecisionNotes: notesJSON,
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}, nil
}

// toDomainModel GORM 模型转换为领域对象
func (r *RequestRepositoryImpl) toDomainModel(po *entity.PurchaseRequest) (*etrequest.PurchaseRequest, error) {
	var items []etrequest.LineItem
	if len(po.Items) > 0 {
		if err := json.Unmarshal(po.Items, &items); err != nil {
			return nil, err
		}
	}

	var notes []string
	if len(po.DecisionNotes) > 0 {
		if err := json.Unmarshal(po.DecisionNotes, &notes); err != nil {
			return nil, err
		}
	}

	return &etrequest.PurchaseRequest{
		ID:            po.ID,
		Seq:           po.Seq,
		SupplierName:  po.SupplierName,
		Items:         items,
		TotalAmount:   po.TotalAmount,
		ApprovalLevel: po.ApprovalLevel,
		State:         etrequest.State(po.State),
		DecisionNotes: notes,
		CreatedAt:     po.CreatedAt,
		UpdatedAt:     po.UpdatedAt,
	}, nil
}
